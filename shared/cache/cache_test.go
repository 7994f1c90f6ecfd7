package cache_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tavolo/config"
	"tavolo/infras/otel/mocks"
	"tavolo/shared/cache"
	"tavolo/shared/clock"
)

// fakeStore is a map-backed PersistentStore so the tests can inspect the
// persistent tier directly.
type fakeStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string][]byte{}}
}

func (s *fakeStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.data[key]

	return raw, ok, nil
}

func (s *fakeStore) Set(_ context.Context, key string, raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = raw

	return nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

func (s *fakeStore) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := []string{}
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}

	return keys, nil
}

func (s *fakeStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.data[key]

	return ok
}

func newTestCache(store *fakeStore, clk clock.Clock, maxEntries, maxSizeMB int) cache.TieredCache {
	cfg := &config.Config{}
	cfg.Cache.Memory.MaxEntries = maxEntries
	cfg.Cache.Memory.MaxSizeMB = maxSizeMB

	return cache.NewTieredCache(store, cfg, clk, mocks.NewOtel())
}

func TestTieredCache_SaveThenLoad(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	clk := clock.NewMock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	tiered := newTestCache(store, clk, 100, 50)

	err := tiered.Save(ctx, "restaurant:get:r1", map[string]string{"name": "Trattoria"}, time.Hour)
	assert.NoError(t, err)

	var got map[string]string
	found := tiered.Load(ctx, "restaurant:get:r1", &got)
	assert.True(t, found)
	assert.Equal(t, "Trattoria", got["name"])
}

func TestTieredCache_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	clk := clock.NewMock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	tiered := newTestCache(store, clk, 100, 50)

	err := tiered.Save(ctx, "booking:gets:r1", []int{1, 2, 3}, time.Minute)
	assert.NoError(t, err)

	clk.Advance(time.Minute + time.Second)

	var got []int
	found := tiered.Load(ctx, "booking:gets:r1", &got)
	assert.False(t, found)

	// Expired entries are evicted from the persistent tier too.
	assert.False(t, store.has("booking:gets:r1"))
}

func TestTieredCache_NoTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	clk := clock.NewMock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	tiered := newTestCache(store, clk, 100, 50)

	err := tiered.Save(ctx, "restaurant:get:r1", "value", 0)
	assert.NoError(t, err)

	clk.Advance(1000 * time.Hour)

	var got string
	assert.True(t, tiered.Load(ctx, "restaurant:get:r1", &got))
	assert.Equal(t, "value", got)
}

func TestTieredCache_ReadThroughPromotion(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	clk := clock.NewMock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	// Memory tier holds a single entry, so the second Save evicts the first
	// from memory while its persistent copy stays valid.
	tiered := newTestCache(store, clk, 1, 50)

	assert.NoError(t, tiered.Save(ctx, "k1", "v1", time.Hour))
	assert.NoError(t, tiered.Save(ctx, "k2", "v2", time.Hour))

	var got string
	found := tiered.Load(ctx, "k1", &got)
	assert.True(t, found)
	assert.Equal(t, "v1", got)

	// k1 is back in memory now; loading it again must not depend on the store.
	assert.NoError(t, store.Delete(ctx, "k1"))
	got = ""
	assert.True(t, tiered.Load(ctx, "k1", &got))
	assert.Equal(t, "v1", got)
}

func TestTieredCache_Remove(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	clk := clock.NewMock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	tiered := newTestCache(store, clk, 100, 50)

	assert.NoError(t, tiered.Save(ctx, "k1", "v1", 0))
	assert.NoError(t, tiered.Remove(ctx, "k1"))

	var got string
	assert.False(t, tiered.Load(ctx, "k1", &got))
	assert.False(t, store.has("k1"))
}

func TestTieredCache_ClearPrefix(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	clk := clock.NewMock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	tiered := newTestCache(store, clk, 100, 50)

	assert.NoError(t, tiered.Save(ctx, "booking:gets:r1", "v1", 0))
	assert.NoError(t, tiered.Save(ctx, "booking:gets:r2", "v2", 0))
	assert.NoError(t, tiered.Save(ctx, "restaurant:get:r1", "v3", 0))

	assert.NoError(t, tiered.Clear(ctx, "booking:gets"))

	var got string
	assert.False(t, tiered.Load(ctx, "booking:gets:r1", &got))
	assert.False(t, tiered.Load(ctx, "booking:gets:r2", &got))
	assert.True(t, tiered.Load(ctx, "restaurant:get:r1", &got))
	assert.Equal(t, "v3", got)
}

func TestTieredCache_UnserializableSaveIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	clk := clock.NewMock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	tiered := newTestCache(store, clk, 100, 50)

	err := tiered.Save(ctx, "k1", make(chan int), time.Hour)
	assert.NoError(t, err)

	var got any
	assert.False(t, tiered.Load(ctx, "k1", &got))
	assert.False(t, store.has("k1"))
}

func TestTieredCache_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	clk := clock.NewMock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	tiered := newTestCache(store, clk, 10, 50)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)

		go func(n int) {
			defer wg.Done()

			key := "k" + string(rune('0'+n))
			for range 100 {
				_ = tiered.Save(ctx, key, n, time.Hour)

				var got int
				if tiered.Load(ctx, key, &got) {
					assert.Equal(t, n, got)
				}

				_ = tiered.Remove(ctx, key)
			}
		}(i)
	}

	wg.Wait()
}
