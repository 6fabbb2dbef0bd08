package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/brogergvhs/polscrape/internal/util"
)

// Chrome renders pages in one headless Chrome process, one tab per fetch.
type Chrome struct {
	browserCtx context.Context
	cancel     func()
	timeout    time.Duration
	wait       time.Duration
	log        Logger
}

func NewChrome(opts Options) (*Chrome, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(util.PickUserAgent(opts.UserAgent)),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser now so a missing Chrome fails here and not per page.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("start chrome: %w", err)
	}

	return &Chrome{
		browserCtx: browserCtx,
		cancel: func() {
			browserCancel()
			allocCancel()
		},
		timeout: opts.Timeout,
		wait:    opts.RenderWait,
		log:     logger(opts),
	}, nil
}

func (c *Chrome) Fetch(ctx context.Context, url string) (string, error) {
	tabCtx, cancelTab := chromedp.NewContext(c.browserCtx)
	defer cancelTab()

	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		tabCtx, cancel = context.WithTimeout(tabCtx, c.timeout)
		defer cancel()
	}

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(c.wait),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("chrome %s: %w", url, err)
	}
	c.log.Debugf("rendered %s (%s)", url, util.Human(int64(len(html))))

	return checkContent(url, html)
}

func (c *Chrome) Close() error {
	c.cancel()
	return nil
}
