package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/brogergvhs/polscrape/internal/mapper"
	"github.com/brogergvhs/polscrape/internal/model"
	"github.com/brogergvhs/polscrape/internal/scraper"

	"github.com/spf13/cobra"
)

var (
	flagParseURL      string
	flagParsePatterns string
)

var parseCmd = &cobra.Command{
	Use:   "parse <file.html>",
	Short: "Parse a saved HTML page (\"-\" for stdin) and print its record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			body []byte
			err  error
		)
		if args[0] == "-" {
			body, err = io.ReadAll(cmd.InOrStdin())
		} else {
			body, err = os.ReadFile(args[0])
		}
		if err != nil {
			return err
		}

		patterns := mapper.DefaultPatterns()
		if flagParsePatterns != "" {
			if patterns, err = mapper.LoadPatterns(flagParsePatterns); err != nil {
				return err
			}
		}

		source := flagParseURL
		if source == "" && args[0] != "-" {
			if abs, err := filepath.Abs(args[0]); err == nil {
				source = "file://" + filepath.ToSlash(abs)
			}
		}

		page, err := scraper.NewParser(mapper.New(patterns)).Parse(source, string(body))
		if err != nil {
			return err
		}

		b, err := json.MarshalIndent(model.NewRecord(source, page.Result), "", "  ")
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, string(b))
		if page.Next != "" {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "next page: %s\n", page.Next)
		}

		return nil
	},
}

func init() {
	parseCmd.Flags().StringVar(&flagParseURL, "url", "", "URL the page was saved from (used as source_url and link base)")
	parseCmd.Flags().StringVar(&flagParsePatterns, "patterns", "", "YAML file with alternate mapping patterns")
	rootCmd.AddCommand(parseCmd)
}
