package prefs

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/typedbundle/internal/redis"
	"github.com/mesh-intelligence/typedbundle/internal/sqlite"
	"github.com/mesh-intelligence/typedbundle/pkg/types"
)

// Open connects to the backend named by config and returns Preferences over
// it. Close the result to release the backend.
//
// Example:
//
//	p, err := prefs.Open(ctx, types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".typedbundle-db",
//	})
//	defer p.Close()
func Open(ctx context.Context, config types.Config) (*Preferences, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Backend {
	case types.BackendSQLite:
		backend := sqlite.NewBackend()
		if err := backend.Attach(config); err != nil {
			return nil, fmt.Errorf("attaching sqlite backend: %w", err)
		}
		return New(backend), nil
	case types.BackendRedis:
		backend, err := redis.Open(ctx, config)
		if err != nil {
			return nil, err
		}
		return New(backend), nil
	default:
		return nil, types.ErrBackendUnknown
	}
}
