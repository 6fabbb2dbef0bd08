package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/brogergvhs/polscrape/internal/config"

	"github.com/spf13/cobra"
)

var flagInitYes bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the Default config",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		defaultPath := config.ConfigPathByLabel(config.DefaultLabel)

		if _, err := os.Stat(defaultPath); err == nil {
			_, _ = fmt.Fprintln(out, "Configuration already exists at:")
			_, _ = fmt.Fprintln(out, "  ", defaultPath)
			_, _ = fmt.Fprintln(out, "Use `polscrape config reset` to recreate it.")
			return nil
		}

		_, _ = fmt.Fprintln(out, "Configuration file will be saved at:")
		_, _ = fmt.Fprintln(out, "  ", defaultPath)
		_, _ = fmt.Fprintln(out)

		_, _ = fmt.Fprintln(out, "Default configuration:")
		config.DefaultConfig().Print(out)
		_, _ = fmt.Fprintln(out)

		if !flagInitYes {
			reader := bufio.NewReader(cmd.InOrStdin())
			_, _ = fmt.Fprintf(out, "Create Default config at %s? [y/N]: ", defaultPath)
			resp, _ := reader.ReadString('\n')
			resp = strings.TrimSpace(strings.ToLower(resp))

			if resp != "y" && resp != "yes" {
				_, _ = fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		path, err := config.InitDefaultConfig()
		if err != nil && !errors.Is(err, os.ErrExist) {
			return fmt.Errorf("failed to write config file: %w", err)
		}

		_, _ = fmt.Fprintln(out, "Config created at:", path)
		_, _ = fmt.Fprintln(out, "This config is now active (label: Default).")

		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&flagInitYes, "yes", "y", false, "do not ask for confirmation")
	configCmd.AddCommand(configInitCmd)
}
