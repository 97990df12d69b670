// Package redis implements the Redis preference store. All preferences of
// one namespace live in a single hash, so a commit is one MULTI/EXEC.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mesh-intelligence/typedbundle/internal/store"
	"github.com/mesh-intelligence/typedbundle/pkg/types"
)

var _ types.PreferenceStore = (*Backend)(nil)

// DefaultNamespace is used when Config.Namespace is empty.
const DefaultNamespace = "default"

// prefJSON is the hash field value for one preference.
type prefJSON struct {
	Kind  types.PrefKind  `json:"kind"`
	Value json.RawMessage `json:"value"`
}

// Backend implements types.PreferenceStore on a Redis hash. The backend is
// safe for concurrent use.
type Backend struct {
	rdb       *redis.Client
	namespace string
}

// NewBackend creates a backend for the given namespace.
// Returns an error if redisOpts is nil.
func NewBackend(redisOpts *redis.Options, namespace string) (*Backend, error) {
	if redisOpts == nil {
		return nil, fmt.Errorf("redis options cannot be nil")
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Backend{
		rdb:       redis.NewClient(redisOpts),
		namespace: namespace,
	}, nil
}

// Open creates a backend from config and verifies connectivity.
func Open(ctx context.Context, config types.Config) (*Backend, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	b, err := NewBackend(&redis.Options{Addr: config.RedisAddr}, config.Namespace)
	if err != nil {
		return nil, err
	}
	if err := b.Ping(ctx); err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to reach Redis at %s: %w", config.RedisAddr, err)
	}
	return b, nil
}

// PrefsKey returns the hash key holding a namespace's preferences.
func PrefsKey(namespace string) string {
	return fmt.Sprintf("typedbundle:%s:prefs", namespace)
}

// Ping verifies Redis connectivity.
func (b *Backend) Ping(ctx context.Context) error {
	return b.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection. Implements io.Closer.
func (b *Backend) Close() error {
	err := b.rdb.Close()
	if errors.Is(err, redis.ErrClosed) {
		return nil
	}
	return err
}

// Get returns the preference stored under name.
// Returns ErrNotFound if there is none.
func (b *Backend) Get(ctx context.Context, name string) (types.PrefValue, error) {
	raw, err := b.rdb.HGet(ctx, PrefsKey(b.namespace), name).Result()
	if errors.Is(err, redis.Nil) {
		return types.PrefValue{}, types.ErrNotFound
	}
	if err != nil {
		return types.PrefValue{}, fmt.Errorf("failed to read preference %s from Redis: %w", name, err)
	}
	return decode(name, raw)
}

// Contains reports whether name has a stored preference.
func (b *Backend) Contains(ctx context.Context, name string) (bool, error) {
	exists, err := b.rdb.HExists(ctx, PrefsKey(b.namespace), name).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check preference %s: %w", name, err)
	}
	return exists, nil
}

// All returns every stored preference.
func (b *Backend) All(ctx context.Context) (map[string]types.PrefValue, error) {
	hash, err := b.rdb.HGetAll(ctx, PrefsKey(b.namespace)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences from Redis: %w", err)
	}
	out := make(map[string]types.PrefValue, len(hash))
	for name, raw := range hash {
		v, err := decode(name, raw)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

// Commit applies edits in one MULTI/EXEC transaction: the clear first, then
// each change in order.
func (b *Backend) Commit(ctx context.Context, edits types.PrefEdits) error {
	key := PrefsKey(b.namespace)

	// Encode everything before touching Redis so a bad value aborts the batch.
	fields := make([]string, len(edits.Changes))
	for i, c := range edits.Changes {
		if c.Remove {
			continue
		}
		text, err := store.EncodePref(c.Value)
		if err != nil {
			return fmt.Errorf("preference %s: %w", c.Name, err)
		}
		data, err := json.Marshal(prefJSON{Kind: c.Value.Kind, Value: json.RawMessage(text)})
		if err != nil {
			return fmt.Errorf("failed to serialize preference %s: %w", c.Name, err)
		}
		fields[i] = string(data)
	}

	_, err := b.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if edits.Clear {
			pipe.Del(ctx, key)
		}
		for i, c := range edits.Changes {
			if c.Remove {
				pipe.HDel(ctx, key, c.Name)
				continue
			}
			pipe.HSet(ctx, key, c.Name, fields[i])
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to commit preferences to Redis: %w", err)
	}
	return nil
}

func decode(name, raw string) (types.PrefValue, error) {
	var rec prefJSON
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return types.PrefValue{}, fmt.Errorf("failed to deserialize preference %s: %w", name, err)
	}
	v, err := store.DecodePref(rec.Kind, string(rec.Value))
	if err != nil {
		return types.PrefValue{}, fmt.Errorf("preference %s: %w", name, err)
	}
	return v, nil
}
