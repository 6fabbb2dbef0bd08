package cmd

import (
	"fmt"
	"os"

	"github.com/brogergvhs/polscrape/internal/config"

	"github.com/spf13/cobra"
)

var configResetCmd = &cobra.Command{
	Use:   "reset [label]",
	Short: "Reset the current or the named config to default values",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = config.ConfigPathByLabel(args[0])
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("%w: %q", config.ErrProfileMissing, args[0])
			}
		} else {
			active, err := config.ActiveConfigPath()
			if err != nil {
				return err
			}
			path = active
		}

		if err := config.SaveYAML(config.DefaultConfig(), path); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Reset config: %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)
}
