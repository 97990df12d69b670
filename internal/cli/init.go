package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/typedbundle/internal/paths"
	"github.com/mesh-intelligence/typedbundle/pkg/prefs"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and preference storage",
		Long: "Create the configuration and data directories, write a default\n" +
			"config.yaml if none exists, then open the preference backend once.",
		Args: cobra.NoArgs,
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return sysError("resolve config directory: %s", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return sysError("create config directory: %s", err)
	}

	cfg, err := resolveConfig()
	if err != nil {
		return sysError("%s", err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return sysError("create data directory: %s", err)
	}

	written, err := writeConfigIfMissing(configDir, configFile{
		Backend:   cfg.Backend,
		DataDir:   flags.dataDir,
		RedisAddr: cfg.RedisAddr,
		Namespace: cfg.Namespace,
		Features:  cfg.Features,
	})
	if err != nil {
		return sysError("write config: %s", err)
	}

	p, err := prefs.Open(cmd.Context(), cfg)
	if err != nil {
		return sysError("initialize %s backend: %s", cfg.Backend, err)
	}
	if err := p.Close(); err != nil {
		return sysError("finalize %s backend: %s", cfg.Backend, err)
	}

	w := cmd.OutOrStdout()
	if written {
		printStep(w, "Wrote %s/config.yaml\n", configDir)
	}
	printSuccess(w, "Initialized %s storage in %s\n", cfg.Backend, cfg.DataDir)
	return nil
}
