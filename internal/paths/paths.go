// Package paths resolves the typedbundle configuration and data directories
// and the location of bundle files inside the data directory.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// appName is the directory created under the platform config and data
// roots.
const appName = "typedbundle"

// CWD-relative directory names.
const (
	DefaultConfigDirName = ".typedbundle"
	DefaultDataDirName   = ".typedbundle-db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "TYPEDBUNDLE_CONFIG_DIR"
	EnvDataDir   = "TYPEDBUNDLE_DATA_DIR"
)

// BundleExt is appended to bundle names that have no extension.
const BundleExt = ".jsonl"

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/typedbundle (fallback ~/.config/typedbundle)
// macOS:   ~/Library/Application Support/typedbundle
// Windows: %APPDATA%/typedbundle
func DefaultConfigDir() (string, error) {
	return platformPath("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/typedbundle (fallback ~/.local/share/typedbundle)
// macOS and Windows: same as DefaultConfigDir.
func DefaultDataDir() (string, error) {
	return platformPath("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func platformPath(xdgVar, homeFallback string) (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv(xdgVar); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, homeFallback, appName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > TYPEDBUNDLE_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configYAMLValue > TYPEDBUNDLE_DATA_DIR env > $(CWD)/.typedbundle-db.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	for _, dir := range []string{flag, configYAMLValue, os.Getenv(EnvDataDir)} {
		if dir != "" {
			return filepath.Abs(dir)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// BundleFile returns the path of a bundle file. A bare name such as
// "session" resolves to dataDir/session.jsonl; anything containing a path
// separator or an extension is used as given, made absolute.
func BundleFile(dataDir, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("bundle name must not be empty")
	}
	if strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/') || filepath.Ext(name) != "" {
		return filepath.Abs(name)
	}
	return filepath.Join(dataDir, name+BundleExt), nil
}
