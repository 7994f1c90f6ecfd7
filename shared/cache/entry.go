package cache

import (
	"encoding/json"
	"time"
)

// Entry wraps a serialized value with the timestamp it was stored at and an
// optional TTL. A zero TTL means the entry never expires by time; only an
// explicit Remove or Clear evicts it.
type Entry struct {
	Payload  json.RawMessage `json:"payload"`
	StoredAt time.Time       `json:"stored_at"`
	TTL      time.Duration   `json:"ttl,omitempty"`
}

// Expired reports whether the entry is stale at the given instant. Staleness is
// always judged against the entry's own StoredAt, never a separate expiry scan.
func (e *Entry) Expired(now time.Time) bool {
	return e.TTL > 0 && now.Sub(e.StoredAt) > e.TTL
}

func (e *Entry) size() int {
	return len(e.Payload)
}
