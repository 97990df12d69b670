package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "postgres", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:   "sqlite with data dir",
			config: Config{Backend: BackendSQLite, DataDir: "/tmp/data"},
		},
		{
			name:   "sqlite with empty data dir is valid at config level",
			config: Config{Backend: BackendSQLite},
		},
		{
			name:    "redis without address returns ErrRedisAddrEmpty",
			config:  Config{Backend: BackendRedis},
			wantErr: ErrRedisAddrEmpty,
		},
		{
			name:   "redis with address and namespace",
			config: Config{Backend: BackendRedis, RedisAddr: "localhost:6379", Namespace: "app"},
		},
		{
			name:   "features do not affect validation",
			config: Config{Backend: BackendSQLite, Features: Features{Binder: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAllFeatures(t *testing.T) {
	f := AllFeatures()
	assert.True(t, f.Binder)
	assert.True(t, f.Size)
}
