package cmd

import (
	"fmt"

	"github.com/brogergvhs/polscrape/internal/mapper"

	"github.com/spf13/cobra"
)

var flagPatternsFile string

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Print the mapping patterns as YAML, a starting point for --patterns",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := mapper.DefaultPatterns()
		if flagPatternsFile != "" {
			var err error
			if p, err = mapper.LoadPatterns(flagPatternsFile); err != nil {
				return err
			}
		}

		b, err := p.YAML()
		if err != nil {
			return err
		}

		_, _ = fmt.Fprint(cmd.OutOrStdout(), string(b))
		return nil
	},
}

func init() {
	patternsCmd.Flags().StringVar(&flagPatternsFile, "file", "", "validate and print this pattern file instead of the defaults")
	rootCmd.AddCommand(patternsCmd)
}
