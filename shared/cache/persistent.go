package cache

//go:generate go run go.uber.org/mock/mockgen -source=./persistent.go -destination=./mocks/persistent_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"tavolo/infras/otel"
)

// Nil is the sentinel the persistent tier reports on a missing key.
const Nil = redis.Nil

// PersistentStore is the durable tier backing the cache. The persistent copy is
// the source of truth; the memory tier is only a read-through accelerator.
type PersistentStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, raw []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

type redisStore struct {
	client *redis.Client
	otel   otel.Otel
}

func NewRedisStore(client *redis.Client, ot otel.Otel) PersistentStore {
	return &redisStore{
		client: client,
		otel:   ot,
	}
}

// Get implements PersistentStore.
func (store *redisStore) Get(ctx context.Context, key string) (raw []byte, found bool, err error) {
	ctx, scope := store.otel.NewScope(ctx, otelScopeName, otelScopeName+".store.Get")
	defer scope.End()

	scope.SetAttribute(otelCacheKeyAttribute, key)

	raw, err = store.client.Get(ctx, key).Bytes()
	if errors.Is(err, Nil) {
		return nil, false, nil
	}

	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("key", key).Str("PersistentStore", "Get").Msg("failed to get cache")

		return nil, false, fmt.Errorf("failed to get cache value: %w", err)
	}

	return raw, true, nil
}

// Set implements PersistentStore. Entries carry their own expiry metadata, so no
// redis-side TTL is set.
func (store *redisStore) Set(ctx context.Context, key string, raw []byte) (err error) {
	ctx, scope := store.otel.NewScope(ctx, otelScopeName, otelScopeName+".store.Set")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelCacheKeyAttribute, key)

	if err = store.client.Set(ctx, key, raw, 0).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Str("PersistentStore", "Set").Msg("failed to set cache")

		return fmt.Errorf("failed to set cache value: %w", err)
	}

	return nil
}

// Delete implements PersistentStore.
func (store *redisStore) Delete(ctx context.Context, key string) (err error) {
	ctx, scope := store.otel.NewScope(ctx, otelScopeName, otelScopeName+".store.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelCacheKeyAttribute, key)

	if err = store.client.Del(ctx, key).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Str("PersistentStore", "Delete").Msg("failed to del cache")

		return fmt.Errorf("failed to delete cache value: %w", err)
	}

	return nil
}

// Keys implements PersistentStore.
func (store *redisStore) Keys(ctx context.Context, prefix string) (keys []string, err error) {
	ctx, scope := store.otel.NewScope(ctx, otelScopeName, otelScopeName+".store.Keys")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelCacheKeyAttribute, prefix)

	iter := store.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err = iter.Err(); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Str("PersistentStore", "Keys").Msg("failed to scan cache keys")

		return nil, fmt.Errorf("failed to scan cache keys: %w", err)
	}

	return keys, nil
}
