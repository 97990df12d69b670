package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/typedbundle/internal/store"
	"github.com/mesh-intelligence/typedbundle/pkg/prefs"
	"github.com/mesh-intelligence/typedbundle/pkg/types"
)

// prefJSON is the --json form of one preference.
type prefJSON struct {
	Name  string          `json:"name"`
	Kind  types.PrefKind  `json:"kind"`
	Value json.RawMessage `json:"value"`
}

func newPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Read and edit the preference store",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <name>",
			Short: "Print one preference",
			Args:  cobra.ExactArgs(1),
			RunE:  runPrefsGet,
		},
		&cobra.Command{
			Use:   "set <name> <kind> [value...]",
			Short: "Store a preference",
			Long: "Store a preference. kind is one of bool, float, int, long, string\n" +
				"or string_set; a string_set takes any number of values.",
			Args: cobra.MinimumNArgs(2),
			RunE: runPrefsSet,
		},
		&cobra.Command{
			Use:   "list",
			Short: "Print every preference",
			Args:  cobra.NoArgs,
			RunE:  runPrefsList,
		},
		&cobra.Command{
			Use:   "delete <name>",
			Short: "Remove one preference",
			Args:  cobra.ExactArgs(1),
			RunE:  runPrefsDelete,
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every preference",
			Args:  cobra.NoArgs,
			RunE:  runPrefsClear,
		},
	)
	return cmd
}

// openPrefs opens the configured preference backend. The caller must
// Close the result.
func openPrefs(cmd *cobra.Command) (*prefs.Preferences, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return nil, sysError("%s", err)
	}
	p, err := prefs.Open(cmd.Context(), cfg)
	if err != nil {
		if errors.Is(err, types.ErrBackendUnknown) || errors.Is(err, types.ErrRedisAddrEmpty) {
			return nil, userError("invalid configuration: %s", err)
		}
		return nil, sysError("open %s backend: %s", cfg.Backend, err)
	}
	return p, nil
}

func runPrefsGet(cmd *cobra.Command, args []string) error {
	p, err := openPrefs(cmd)
	if err != nil {
		return err
	}
	defer p.Close()

	name := args[0]
	v, err := p.Store().Get(cmd.Context(), name)
	if errors.Is(err, types.ErrNotFound) {
		return userError("preference %q not found", name)
	}
	if err != nil {
		return sysError("get preference: %s", err)
	}
	return writePrefs(cmd.OutOrStdout(), []string{name}, map[string]types.PrefValue{name: v}, true)
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	name, kind := args[0], args[1]
	if name == "" {
		return userError("preference name must not be empty")
	}
	v, err := parsePrefValue(kind, args[2:])
	if err != nil {
		return userError("%s", err)
	}

	p, err := openPrefs(cmd)
	if err != nil {
		return err
	}
	defer p.Close()

	e := p.Edit()
	putPref(e, name, v)
	if err := e.Commit(cmd.Context()); err != nil {
		return sysError("commit preference: %s", err)
	}
	printSuccess(cmd.OutOrStdout(), "Set %s (%s)\n", name, kind)
	return nil
}

// putPref records v, which parsePrefValue produced, under name.
func putPref(e *prefs.Editor, name string, v any) {
	switch x := v.(type) {
	case bool:
		prefs.Put(e, types.MustKey[bool](name), x)
	case float32:
		prefs.Put(e, types.MustKey[float32](name), x)
	case int:
		prefs.Put(e, types.MustKey[int](name), x)
	case int64:
		prefs.Put(e, types.MustKey[int64](name), x)
	case string:
		prefs.Put(e, types.MustKey[string](name), x)
	case types.StringSet:
		prefs.Put(e, types.MustKey[types.StringSet](name), x)
	default:
		panic(fmt.Sprintf("cli: no preference kind for %T", v))
	}
}

func runPrefsList(cmd *cobra.Command, args []string) error {
	p, err := openPrefs(cmd)
	if err != nil {
		return err
	}
	defer p.Close()

	all, err := p.Store().All(cmd.Context())
	if err != nil {
		return sysError("list preferences: %s", err)
	}
	names := make([]string, 0, len(all))
	for n := range all {
		names = append(names, n)
	}
	sort.Strings(names)
	if len(names) == 0 && !flags.jsonMode {
		printWarning(cmd.OutOrStdout(), "No preferences stored\n")
		return nil
	}
	return writePrefs(cmd.OutOrStdout(), names, all, false)
}

func runPrefsDelete(cmd *cobra.Command, args []string) error {
	p, err := openPrefs(cmd)
	if err != nil {
		return err
	}
	defer p.Close()

	key, err := types.NewKey[any](args[0])
	if err != nil {
		return userError("preference name must not be empty")
	}
	ok, err := p.Contains(cmd.Context(), key)
	if err != nil {
		return sysError("check preference: %s", err)
	}
	if !ok {
		return userError("preference %q not found", key.Name())
	}
	if err := p.Edit().Remove(key).Commit(cmd.Context()); err != nil {
		return sysError("delete preference: %s", err)
	}
	printSuccess(cmd.OutOrStdout(), "Deleted %s\n", key.Name())
	return nil
}

func runPrefsClear(cmd *cobra.Command, args []string) error {
	p, err := openPrefs(cmd)
	if err != nil {
		return err
	}
	defer p.Close()

	if err := p.Edit().Clear().Commit(cmd.Context()); err != nil {
		return sysError("clear preferences: %s", err)
	}
	printSuccess(cmd.OutOrStdout(), "Cleared all preferences\n")
	return nil
}

// writePrefs prints the named preferences, one per line. In JSON mode a
// single preference is an object and a listing is an array.
func writePrefs(w io.Writer, names []string, values map[string]types.PrefValue, single bool) error {
	if !flags.jsonMode {
		for _, n := range names {
			v := values[n]
			printKey(w, n, " (%s) = %s\n", v.Kind, formatRaw(v.Raw))
		}
		return nil
	}

	out := make([]prefJSON, 0, len(names))
	for _, n := range names {
		v := values[n]
		text, err := store.EncodePref(v)
		if err != nil {
			return sysError("encode preference %s: %s", n, err)
		}
		out = append(out, prefJSON{Name: n, Kind: v.Kind, Value: json.RawMessage(text)})
	}
	var (
		data []byte
		err  error
	)
	if single && len(out) == 1 {
		data, err = json.Marshal(out[0])
	} else {
		data, err = json.Marshal(out)
	}
	if err != nil {
		return sysError("marshal preferences: %s", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
