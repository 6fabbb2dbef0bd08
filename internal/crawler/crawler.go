// Package crawler walks a paginated result set breadth-first from a seed URL
// and merges every page into one aggregate result.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/brogergvhs/polscrape/internal/model"
	"github.com/brogergvhs/polscrape/internal/scraper"
)

// PageFetcher returns the rendered HTML of a URL. An error or an empty body
// is a failed fetch.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type PageParser interface {
	Parse(pageURL, body string) (*scraper.Page, error)
}

type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// PageEvent describes one visited page. Err is set when the page was
// skipped.
type PageEvent struct {
	URL      string
	Bytes    int
	Policies int
	Queued   int
	Err      error
}

type Stats struct {
	Pages    int
	Failed   int
	Bytes    int64
	Policies int
}

type Crawler struct {
	fetcher  PageFetcher
	parser   PageParser
	log      Logger
	maxPages int
	limiter  *rate.Limiter
	hook     func(PageEvent)
}

type Option func(*Crawler)

// WithMaxPages stops the crawl after n fetches. Zero means no limit.
func WithMaxPages(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// WithDelay spaces consecutive fetches at least d apart.
func WithDelay(d time.Duration) Option {
	return func(c *Crawler) {
		if d > 0 {
			c.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

func WithLogger(l Logger) Option {
	return func(c *Crawler) {
		if l != nil {
			c.log = l
		}
	}
}

func WithPageHook(fn func(PageEvent)) Option {
	return func(c *Crawler) {
		c.hook = fn
	}
}

func New(f PageFetcher, p PageParser, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher: f,
		parser:  p,
		log:     nopLogger{},
	}
	for _, o := range opts {
		o(c)
	}

	return c
}

var errEmptySeed = errors.New("empty seed url")

// Crawl visits seed and every page reachable through "next" links.
//
// Failed fetches and unparsable pages are logged and skipped. The only
// error returned besides an empty seed is the context's, together with the
// partial aggregate collected so far.
func (c *Crawler) Crawl(ctx context.Context, seed string) (*model.Result, Stats, error) {
	agg := model.NewResult()
	var st Stats

	seed = strings.TrimSpace(seed)
	if seed == "" {
		return agg, st, errEmptySeed
	}

	visited := map[string]bool{}
	queue := []string{seed}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return agg, st, err
		}

		u := queue[0]
		queue = queue[1:]
		if visited[u] {
			continue
		}

		if c.maxPages > 0 && st.Pages >= c.maxPages {
			c.log.Warnf("page limit %d reached, not visiting %s", c.maxPages, u)
			break
		}
		visited[u] = true

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return agg, st, err
			}
		}

		st.Pages++
		ev := PageEvent{URL: u}

		page, n, err := c.visit(ctx, u)
		ev.Bytes = n
		st.Bytes += int64(n)

		if err != nil {
			st.Failed++
			ev.Err = err
			c.log.Errorf("skipping %s: %v", u, err)
		} else {
			agg.Merge(page.Result)
			ev.Policies = len(page.Result.Policies)
			st.Policies += ev.Policies

			if page.Next != "" && !visited[page.Next] {
				c.log.Debugf("next page %s", page.Next)
				queue = append(queue, page.Next)
			}
		}

		ev.Queued = len(queue)
		if c.hook != nil {
			c.hook(ev)
		}
	}

	return agg, st, nil
}

func (c *Crawler) visit(ctx context.Context, u string) (*scraper.Page, int, error) {
	body, err := c.fetcher.Fetch(ctx, u)
	if err != nil {
		return nil, len(body), fmt.Errorf("fetch: %w", err)
	}
	if strings.TrimSpace(body) == "" {
		return nil, len(body), errors.New("fetch: empty body")
	}

	page, err := c.parse(u, body)
	if err != nil {
		return nil, len(body), err
	}

	return page, len(body), nil
}

func (c *Crawler) parse(u, body string) (page *scraper.Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse: panic: %v", r)
		}
	}()

	page, err = c.parser.Parse(u, body)
	if err == nil && (page == nil || page.Result == nil) {
		err = errors.New("parse: no result")
	}

	return page, err
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}
