package cache

//go:generate go run go.uber.org/mock/mockgen -source=./cache.go -destination=./mocks/cache_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"tavolo/config"
	"tavolo/infras/otel"
	"tavolo/shared/clock"
)

const (
	otelScopeName         = "cache"
	otelCacheKeyAttribute = "cache.key"
)

const bytesPerMB = 1 << 20

// TieredCache is a two-level key-value cache with per-entry TTL. Writes go
// through to the persistent tier first, then update the memory tier; reads check
// memory first and promote persistent hits. Expiry is re-checked against the
// entry's stored timestamp on every read, so the tiers can never disagree on
// TTL semantics.
type TieredCache interface {
	Save(ctx context.Context, key string, value any, ttl time.Duration) error
	Load(ctx context.Context, key string, value any) bool
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context, prefix string) error
}

type tieredCache struct {
	store  PersistentStore
	memory *memoryTier
	clock  clock.Clock
	otel   otel.Otel
}

func NewTieredCache(store PersistentStore, cfg *config.Config, clk clock.Clock, ot otel.Otel) TieredCache {
	return &tieredCache{
		store:  store,
		memory: newMemoryTier(cfg.Cache.Memory.MaxEntries, int64(cfg.Cache.Memory.MaxSizeMB)*bytesPerMB),
		clock:  clk,
		otel:   ot,
	}
}

// Save implements TieredCache. A ttl of zero stores the entry without time-based
// expiry. A value that cannot be serialized is logged and dropped; callers must
// not assume a Save guarantees a later Load hit. The memory tier is only updated
// after the persistent write succeeds, so a failed Save leaves both tiers as
// they were.
func (cache *tieredCache) Save(ctx context.Context, key string, value any, ttl time.Duration) (err error) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Save")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelCacheKeyAttribute, key)

	payload, err := json.Marshal(value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Str("TieredCache", "Save").Msg("failed to marshal cache value")

		return nil
	}

	entry := Entry{
		Payload:  payload,
		StoredAt: cache.clock.Now(),
		TTL:      ttl,
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("key", key).Str("TieredCache", "Save").Msg("failed to marshal cache entry")

		return nil
	}

	if err = cache.store.Set(ctx, key, raw); err != nil {
		return err
	}

	cache.memory.set(key, entry)

	return nil
}

// Load implements TieredCache. It reports whether a live entry was found and, if
// so, deserializes it into value. A miss, an expired entry, an undecodable
// payload, and a persistent-tier read failure all read as "not found"; the
// cache never turns staleness into an error. Expired entries are evicted from
// the tier they were found in; valid persistent hits are promoted into memory.
func (cache *tieredCache) Load(ctx context.Context, key string, value any) bool {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Load")
	defer scope.End()

	scope.SetAttribute(otelCacheKeyAttribute, key)

	now := cache.clock.Now()

	if entry, ok := cache.memory.get(key); ok {
		if !entry.Expired(now) {
			if err := json.Unmarshal(entry.Payload, value); err != nil {
				log.Error().Err(err).Str("key", key).Str("TieredCache", "Load").Msg("failed to unmarshal cache value")

				return false
			}

			return true
		}

		cache.memory.delete(key)
	}

	raw, found, err := cache.store.Get(ctx, key)
	if err != nil || !found {
		return false
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		log.Error().Err(err).Str("key", key).Str("TieredCache", "Load").Msg("failed to unmarshal cache entry")

		return false
	}

	if entry.Expired(now) {
		if err := cache.store.Delete(ctx, key); err != nil {
			log.Error().Err(err).Str("key", key).Str("TieredCache", "Load").Msg("failed to evict expired entry")
		}

		return false
	}

	if err := json.Unmarshal(entry.Payload, value); err != nil {
		log.Error().Err(err).Str("key", key).Str("TieredCache", "Load").Msg("failed to unmarshal cache value")

		return false
	}

	cache.memory.set(key, entry)

	return true
}

// Remove implements TieredCache. It evicts the key from both tiers
// unconditionally.
func (cache *tieredCache) Remove(ctx context.Context, key string) (err error) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Remove")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelCacheKeyAttribute, key)

	cache.memory.delete(key)

	return cache.store.Delete(ctx, key)
}

// Clear implements TieredCache. It evicts every entry under the given prefix
// from both tiers; the prefix keeps a shared persistent store's reserved
// namespaces untouched.
func (cache *tieredCache) Clear(ctx context.Context, prefix string) (err error) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Clear")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelCacheKeyAttribute, prefix)

	cache.memory.clear(prefix)

	keys, err := cache.store.Keys(ctx, prefix)
	if err != nil {
		return err
	}

	for _, key := range keys {
		if err = cache.store.Delete(ctx, key); err != nil {
			return err
		}
	}

	return nil
}
