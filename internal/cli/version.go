package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the typedbundle release.
const Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/typedbundle"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the typedbundle version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.jsonMode {
				out := map[string]string{"version": Version, "module": modulePath}
				if dirs, err := describeDirs(); err == nil {
					for k, v := range dirs {
						out[k] = v
					}
				}
				data, err := json.Marshal(out)
				if err != nil {
					return sysError("marshal version: %s", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "typedbundle v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
