package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/typedbundle/internal/paths"
	"github.com/mesh-intelligence/typedbundle/internal/store"
	"github.com/mesh-intelligence/typedbundle/pkg/bundle"
	"github.com/mesh-intelligence/typedbundle/pkg/types"
)

func newBundleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Read and edit bundle files",
		Long: "Read and edit bundle files. A bare bundle name refers to\n" +
			"<data-dir>/<name>.jsonl; a path is used as given.",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <bundle> <name> <kind> [value...]",
			Short: "Store an entry, creating the bundle if needed",
			Args:  cobra.MinimumNArgs(3),
			RunE:  runBundleSet,
		},
		&cobra.Command{
			Use:   "get <bundle> <name>",
			Short: "Print one entry",
			Args:  cobra.ExactArgs(2),
			RunE:  runBundleGet,
		},
		&cobra.Command{
			Use:   "delete <bundle> <name>",
			Short: "Remove one entry",
			Args:  cobra.ExactArgs(2),
			RunE:  runBundleDelete,
		},
		&cobra.Command{
			Use:   "inspect <bundle>",
			Short: "Print every entry",
			Args:  cobra.ExactArgs(1),
			RunE:  runBundleInspect,
		},
	)
	return cmd
}

// openBundle loads the bundle file named by arg. With create set, a
// missing file yields an empty bundle.
func openBundle(arg string, create bool) (*bundle.Bundle, string, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return nil, "", sysError("%s", err)
	}
	path, err := paths.BundleFile(cfg.DataDir, arg)
	if err != nil {
		return nil, "", userError("%s", err)
	}

	m, err := store.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && create:
		m = store.New()
	case errors.Is(err, fs.ErrNotExist):
		return nil, "", userError("bundle %s does not exist", path)
	case err != nil:
		return nil, "", sysError("%s", err)
	}
	return bundle.Wrap(m, bundle.WithFeatures(cfg.Features)), path, nil
}

func saveBundle(b *bundle.Bundle, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return sysError("create bundle directory: %s", err)
	}
	if err := store.WriteFile(path, b.Map()); err != nil {
		return sysError("%s", err)
	}
	return nil
}

func runBundleSet(cmd *cobra.Command, args []string) error {
	key, err := types.NewKey[any](args[1])
	if err != nil {
		return userError("entry name must not be empty")
	}
	v, err := parseBundleValue(args[2], args[3:])
	if err != nil {
		return userError("%s", err)
	}

	b, path, err := openBundle(args[0], true)
	if err != nil {
		return err
	}
	if _, err := bundle.Put(b, key, v); err != nil {
		return userError("%s", err)
	}
	if err := saveBundle(b, path); err != nil {
		return err
	}
	kind, _ := b.Kind(key)
	printSuccess(cmd.OutOrStdout(), "Set %s (%s) in %s\n", key.Name(), kind, path)
	return nil
}

func runBundleGet(cmd *cobra.Command, args []string) error {
	b, path, err := openBundle(args[0], false)
	if err != nil {
		return err
	}
	key, err := types.NewKey[any](args[1])
	if err != nil {
		return userError("entry name must not be empty")
	}
	v, ok := b.Map().Get(key.Name())
	if !ok {
		return userError("entry %q not found in %s", key.Name(), path)
	}

	w := cmd.OutOrStdout()
	if flags.jsonMode {
		single := store.New()
		if err := single.Set(key.Name(), v); err != nil {
			return sysError("%s", err)
		}
		if _, err := single.WriteTo(w); err != nil {
			return sysError("%s", err)
		}
		return nil
	}
	printKey(w, key.Name(), " (%s) = %s\n", v.Kind, formatRaw(v.Raw))
	return nil
}

func runBundleDelete(cmd *cobra.Command, args []string) error {
	b, path, err := openBundle(args[0], false)
	if err != nil {
		return err
	}
	key, err := types.NewKey[any](args[1])
	if err != nil {
		return userError("entry name must not be empty")
	}
	if !b.ContainsKey(key) {
		return userError("entry %q not found in %s", key.Name(), path)
	}
	b.Remove(key)
	if err := saveBundle(b, path); err != nil {
		return err
	}
	printSuccess(cmd.OutOrStdout(), "Deleted %s from %s\n", key.Name(), path)
	return nil
}

func runBundleInspect(cmd *cobra.Command, args []string) error {
	b, path, err := openBundle(args[0], false)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if flags.jsonMode {
		if _, err := b.WriteTo(w); err != nil {
			return sysError("%s", err)
		}
		return nil
	}
	printStep(w, "%s: %d entries\n", path, b.Size())
	for _, key := range b.KeySet() {
		v, _ := b.Map().Get(key.Name())
		printKey(w, "  "+key.Name(), " (%s) = %s\n", v.Kind, formatRaw(v.Raw))
	}
	return nil
}
