package types

import "errors"

// Features selects the optional kinds the dispatch engine accepts. A kind
// whose feature is off is skipped during classification.
type Features struct {
	Binder bool `json:"binder" yaml:"binder"`
	Size   bool `json:"size" yaml:"size"`
}

// AllFeatures enables every optional kind.
func AllFeatures() Features {
	return Features{Binder: true, Size: true}
}

// Config holds preference backend selection and parameters for prefs.Open.
type Config struct {
	Backend   string   `json:"backend" yaml:"backend"`
	DataDir   string   `json:"data_dir" yaml:"data_dir"`
	RedisAddr string   `json:"redis_addr" yaml:"redis_addr,omitempty"`
	Namespace string   `json:"namespace" yaml:"namespace,omitempty"`
	Features  Features `json:"features" yaml:"features"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrRedisAddrEmpty = errors.New("redis backend requires redis_addr")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
	BackendRedis:  true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Backend == BackendRedis && c.RedisAddr == "" {
		return ErrRedisAddrEmpty
	}
	return nil
}
