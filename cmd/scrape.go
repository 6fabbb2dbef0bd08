package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/brogergvhs/polscrape/internal/config"
	"github.com/brogergvhs/polscrape/internal/crawler"
	"github.com/brogergvhs/polscrape/internal/fetch"
	"github.com/brogergvhs/polscrape/internal/mapper"
	"github.com/brogergvhs/polscrape/internal/model"
	"github.com/brogergvhs/polscrape/internal/scraper"
	"github.com/brogergvhs/polscrape/internal/seeds"
	"github.com/brogergvhs/polscrape/internal/ui"
	"github.com/brogergvhs/polscrape/internal/util"

	"github.com/spf13/cobra"
)

var (
	// selection
	flagURLs      []string
	flagSeedsFile string
	flagRange     string
	flagList      string

	// runtime
	flagOutput      string
	flagPerSeed     bool
	flagPrint       bool
	flagDryRun      bool
	flagPatterns    string
	flagMaxPages    int
	flagDelay       time.Duration
	flagSeedWorkers int

	// fetching
	flagRenderer         string
	flagTimeout          time.Duration
	flagRenderWait       time.Duration
	flagRetries          int
	flagCloudflareBypass bool

	// headers/auth
	flagCookie     string
	flagCookieFile string
	flagUserAgent  string
)

func init() {
	scrapeCmd := &cobra.Command{
		Use:   "scrape",
		Short: "Crawl every seed URL with its next pages and write one record per seed. Uses the defaults from the selected config, overwritten by CLI flags",
		RunE:  runScrape,
	}

	// selection
	scrapeCmd.Flags().StringArrayVar(&flagURLs, "url", nil, "seed URL, repeatable (replaces the seeds file)")
	scrapeCmd.Flags().StringVar(&flagSeedsFile, "seeds", "", "file with one seed URL per line")
	scrapeCmd.Flags().StringVar(&flagRange, "range", "", "process a range of seeds by index (e.g. 2-5)")
	scrapeCmd.Flags().StringVar(&flagList, "list", "", "process specific seed indices (e.g. 1,3,5)")

	// runtime
	scrapeCmd.Flags().StringVar(&flagOutput, "output", "", "output JSON file, or folder with --per-seed")
	scrapeCmd.Flags().BoolVar(&flagPerSeed, "per-seed", false, "write one JSON file per seed into the output folder")
	scrapeCmd.Flags().BoolVar(&flagPrint, "print", false, "also print the JSON records to stdout")
	scrapeCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "show the selected seeds, don't crawl")
	scrapeCmd.Flags().StringVar(&flagPatterns, "patterns", "", "YAML file with alternate mapping patterns")
	scrapeCmd.Flags().IntVar(&flagMaxPages, "max-pages", 0, "stop each seed crawl after this many pages (0 = no limit)")
	scrapeCmd.Flags().DurationVar(&flagDelay, "delay", 0, "minimum delay between page fetches of one seed")
	scrapeCmd.Flags().IntVar(&flagSeedWorkers, "seed-workers", 0, "seeds crawled in parallel")

	// fetching
	scrapeCmd.Flags().StringVar(&flagRenderer, "renderer", "", "page fetcher: http, chrome or playwright")
	scrapeCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "per page fetch timeout")
	scrapeCmd.Flags().DurationVar(&flagRenderWait, "render-wait", 0, "time browsers let scripts run before reading the page")
	scrapeCmd.Flags().IntVar(&flagRetries, "retries", 0, "HTTP attempts per page")
	scrapeCmd.Flags().BoolVar(&flagCloudflareBypass, "cloudflare-bypass", false, "use browser-like TLS and headers for HTTP fetches")

	// headers/auth
	scrapeCmd.Flags().StringVar(&flagCookie, "cookie", "", "cookie string, e.g. \"key=value; other=123\"")
	scrapeCmd.Flags().StringVar(&flagCookieFile, "cookie-file", "", "path to a text file with cookies (one header line)")
	scrapeCmd.Flags().StringVar(&flagUserAgent, "user-agent", "", "override User-Agent")

	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	cfg, usedPath, err := config.LoadMerged(config.Options{
		IgnoreConfig:     flagIgnoreConfig,
		Debug:            flagDebug,
		Output:           flagOutput,
		PerSeed:          flagPerSeed,
		SeedsFile:        flagSeedsFile,
		PatternsFile:     flagPatterns,
		Renderer:         flagRenderer,
		Timeout:          flagTimeout,
		RenderWait:       flagRenderWait,
		Retries:          flagRetries,
		UserAgent:        flagUserAgent,
		Cookie:           flagCookie,
		CookieFile:       flagCookieFile,
		CloudflareBypass: flagCloudflareBypass,
		MaxPages:         flagMaxPages,
		Delay:            flagDelay,
		SeedWorkers:      flagSeedWorkers,
		DefaultRange:     flagRange,
		DefaultList:      flagList,
	})
	if err != nil {
		return err
	}

	logSvc := ui.NewLoggerTo(out, cfg.Debug)
	if usedPath != "" {
		_, _ = fmt.Fprintf(out, "Config file: %s\n", usedPath)
	}

	_, _ = fmt.Fprintln(out, "Full config:")
	cfg.Print(out)
	_, _ = fmt.Fprintln(out)

	var all []seeds.Seed
	if len(flagURLs) > 0 {
		all = seeds.New(flagURLs...)
	} else {
		all, err = seeds.Load(cfg.SeedsFile)
		if err != nil {
			return fmt.Errorf("missing --url and cannot read seeds file: %w", err)
		}
	}

	selected := seeds.Filter(all, cfg.DefaultRange, cfg.DefaultList)
	if len(selected) == 0 {
		return errors.New("no seeds selected")
	}

	if flagDryRun {
		_, _ = fmt.Fprintf(out, "Dry-run: %d of %d seeds selected.\n\n", len(selected), len(all))
		for _, s := range selected {
			_, _ = fmt.Fprintf(out, "%3d) %s\n    %s\n", s.Index, s.Carrier, s.URL)
		}
		return nil
	}

	patterns := mapper.DefaultPatterns()
	if cfg.PatternsFile != "" {
		patterns, err = mapper.LoadPatterns(cfg.PatternsFile)
		if err != nil {
			return err
		}
	}
	parser := scraper.NewParser(mapper.New(patterns))

	fetcher, err := fetch.New(cfg.Renderer, fetch.Options{
		Timeout:          cfg.Timeout,
		RenderWait:       cfg.RenderWait,
		Retries:          cfg.Retries,
		UserAgent:        cfg.UserAgent,
		Cookie:           cfg.Cookie,
		CookieFile:       cfg.CookieFile,
		CloudflareBypass: cfg.CloudflareBypass,
		Logger:           logSvc,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := fetcher.Close(); err != nil {
			logSvc.Warnf("closing %s fetcher: %v", cfg.Renderer, err)
		}
	}()

	if cfg.PerSeed && strings.EqualFold(filepath.Ext(cfg.Output), ".json") {
		cfg.Output = strings.TrimSuffix(cfg.Output, filepath.Ext(cfg.Output))
	}

	ctx, release := util.InterruptContext(cmd.Context())
	defer release()

	pm := ui.NewProgressManager(out)
	stats := &ui.Stats{}
	start := time.Now()

	records := make([]*model.Record, len(selected))

	var g errgroup.Group
	g.SetLimit(cfg.SeedWorkers)

	for i, s := range selected {
		g.Go(func() error {
			rec := crawlSeed(ctx, s, fetcher, parser, cfg, logSvc, pm, stats)
			if rec == nil {
				return nil
			}
			records[i] = rec

			if cfg.PerSeed {
				path := filepath.Join(cfg.Output, s.FileName())
				if err := util.WriteJSON(path, rec); err != nil {
					logSvc.Errorf("Saving %s failed: %v", path, err)
				}
			}
			return nil
		})
	}
	_ = g.Wait()
	pm.Close()

	done := make([]*model.Record, 0, len(records))
	for _, r := range records {
		if r != nil {
			done = append(done, r)
		}
	}

	if !cfg.PerSeed {
		if err := util.WriteJSON(cfg.Output, done); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "\nSaved to %s\n", cfg.Output)
	}

	if flagPrint {
		b, err := json.MarshalIndent(done, "", "  ")
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, "\n--- Final JSON Output ---")
		_, _ = fmt.Fprintln(out, string(b))
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "Scrape Summary:")
	_, _ = fmt.Fprintf(out, "Seeds:    %d (%d failed)\n", stats.Seeds.Load(), stats.FailedSeeds.Load())
	_, _ = fmt.Fprintf(out, "Pages:    %d (%d failed)\n", stats.Pages.Load(), stats.FailedPages.Load())
	_, _ = fmt.Fprintf(out, "Policies: %d\n", stats.Policies.Load())
	_, _ = fmt.Fprintf(out, "Data:     %s\n", util.Human(stats.Bytes.Load()))
	_, _ = fmt.Fprintf(out, "Time:     %s\n", time.Since(start).Round(time.Second))

	if ctx.Err() != nil {
		return errors.New("interrupted, partial results saved")
	}
	_, _ = fmt.Fprintln(out, "\nAll done.")

	return nil
}

// crawlSeed runs one seed crawl and returns its record, or nil when the seed
// failed outright.
func crawlSeed(
	ctx context.Context,
	s seeds.Seed,
	fetcher crawler.PageFetcher,
	parser crawler.PageParser,
	cfg *config.Config,
	logSvc *ui.Logger,
	pm *ui.MPBProgressManager,
	stats *ui.Stats,
) *model.Record {
	logSvc.Debugf("Processing %s (%s)", s.Carrier, s.URL)

	handle := pm.Register(fmt.Sprintf("#%d %s", s.Index, s.Carrier))

	var pages, policies int
	var bytes int64
	c := crawler.New(fetcher, parser,
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithDelay(cfg.Delay),
		crawler.WithLogger(logSvc),
		crawler.WithPageHook(func(ev crawler.PageEvent) {
			pages++
			bytes += int64(ev.Bytes)
			policies += ev.Policies
			handle.Update(pages, ev.Queued, bytes, policies)
		}),
	)

	res, st, err := c.Crawl(ctx, s.URL)

	stats.Seeds.Add(1)
	stats.Pages.Add(int64(st.Pages))
	stats.FailedPages.Add(int64(st.Failed))
	stats.Policies.Add(int64(st.Policies))
	stats.Bytes.Add(st.Bytes)

	if err != nil && ctx.Err() == nil {
		handle.Abort()
		stats.FailedSeeds.Add(1)
		logSvc.Errorf("Failed to scrape %s: %v", s.Carrier, err)
		return nil
	}
	handle.MarkDone()

	if st.Pages > 0 && st.Failed == st.Pages {
		logSvc.Warnf("No page of %s could be scraped", s.Carrier)
	}

	rec := model.NewRecord(s.URL, res)
	return &rec
}
