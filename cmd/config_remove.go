package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/brogergvhs/polscrape/internal/config"

	"github.com/spf13/cobra"
)

var forceRemove bool

var configRemoveCmd = &cobra.Command{
	Use:   "remove <label>",
	Short: "Remove a config (<config_label>)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		label := args[0]
		out := cmd.OutOrStdout()

		active, _ := config.CurrentLabel()

		if label == active && !forceRemove {
			_, _ = fmt.Fprintf(out, "Config %q is currently active. Remove it anyway? [y/N]: ", label)

			reader := bufio.NewReader(cmd.InOrStdin())
			resp, _ := reader.ReadString('\n')
			resp = strings.TrimSpace(strings.ToLower(resp))

			if resp != "y" && resp != "yes" {
				_, _ = fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		if err := config.RemoveConfig(label); err != nil {
			return err
		}

		if label == active {
			_, _ = fmt.Fprintln(out, "Fallback switched to: Default")
		}
		_, _ = fmt.Fprintf(out, "Removed configuration %q\n", label)
		return nil
	},
}

func init() {
	configRemoveCmd.Flags().BoolVarP(&forceRemove, "force", "f", false, "remove the active config without asking")
	configCmd.AddCommand(configRemoveCmd)
}
