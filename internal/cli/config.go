// Config loading for the typedbundle CLI.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/typedbundle/internal/paths"
	"github.com/mesh-intelligence/typedbundle/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend   = "backend"
	cfgKeyDataDir   = "data_dir"
	cfgKeyRedisAddr = "redis_addr"
	cfgKeyNamespace = "namespace"
	cfgKeyBinder    = "features.binder"
	cfgKeySize      = "features.size"

	envPrefix = "TYPEDBUNDLE"
)

// configFile holds the structure written to config.yaml by init.
type configFile struct {
	Backend   string         `yaml:"backend"`
	DataDir   string         `yaml:"data_dir,omitempty"`
	RedisAddr string         `yaml:"redis_addr,omitempty"`
	Namespace string         `yaml:"namespace,omitempty"`
	Features  types.Features `yaml:"features"`
}

// loadConfig reads config.yaml from configDir. Environment variables
// prefixed with TYPEDBUNDLE_ override file values. A missing config.yaml
// is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyBinder, true)
	v.SetDefault(cfgKeySize, true)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// resolveConfig builds the backend Config from flags, config.yaml and the
// environment.
func resolveConfig() (types.Config, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return types.Config{}, err
	}
	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	return types.Config{
		Backend:   v.GetString(cfgKeyBackend),
		DataDir:   dataDir,
		RedisAddr: v.GetString(cfgKeyRedisAddr),
		Namespace: v.GetString(cfgKeyNamespace),
		Features: types.Features{
			Binder: v.GetBool(cfgKeyBinder),
			Size:   v.GetBool(cfgKeySize),
		},
	}, nil
}

// writeConfigIfMissing creates config.yaml from cfg if the file does not
// exist. It reports whether a file was written.
func writeConfigIfMissing(configDir string, cfg configFile) (bool, error) {
	path := filepath.Join(configDir, configFileExt)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# typedbundle configuration\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// describeDirs reports the resolved directories and backend.
func describeDirs() (map[string]string, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return nil, err
	}
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	return map[string]string{
		"config_dir": configDir,
		"data_dir":   cfg.DataDir,
		"backend":    cfg.Backend,
	}, nil
}
