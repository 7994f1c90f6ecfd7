package clock

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"tavolo/config"
)

// Clock supplies the current time. Every component that needs "now" receives a
// Clock instead of calling time.Now, so tests can pin it.
type Clock interface {
	Now() time.Time
}

type appClock struct {
	location *time.Location
}

// New returns a Clock ticking in the application timezone from config.
func New(cfg *config.Config) Clock {
	timezone := cfg.App.Timezone
	if timezone == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")
		timezone = "UTC"
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		log.Error().
			Err(err).
			Str("timezone", timezone).
			Msg("Failed to load timezone, falling back to UTC. Please use standard timezone names like 'Asia/Jakarta', 'UTC', 'America/New_York'")

		loc = time.UTC
	}

	return &appClock{location: loc}
}

func (c *appClock) Now() time.Time {
	return time.Now().In(c.location)
}

// Mock is a Clock whose time only moves when told to.
type Mock struct {
	mu  sync.Mutex
	now time.Time
}

func NewMock(now time.Time) *Mock {
	return &Mock{now: now}
}

func (m *Mock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.now
}

func (m *Mock) Set(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.now = now
}

func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.now = m.now.Add(d)
}
