package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/brogergvhs/polscrape/internal/config"

	"github.com/spf13/cobra"
)

var configAddCmd = &cobra.Command{
	Use:   "add [label]",
	Short: "Create a new config with default values",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var label string
		if len(args) == 1 {
			label = args[0]
		} else {
			reader := bufio.NewReader(cmd.InOrStdin())
			_, _ = fmt.Fprint(cmd.OutOrStdout(), "Enter label for new config: ")
			label, _ = reader.ReadString('\n')
		}

		label = strings.TrimSpace(label)
		if label == "" {
			return config.ErrInvalidLabel
		}

		path, err := config.CreateEmptyConfig(label)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created new config: %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configAddCmd)
}
