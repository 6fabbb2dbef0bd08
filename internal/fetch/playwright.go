package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/brogergvhs/polscrape/internal/util"
)

// Playwright renders pages in a Chromium driven by Playwright and reads the
// DOM once the network has been idle.
type Playwright struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	timeout time.Duration
	wait    time.Duration
	ua      string
	cookie  string
	log     Logger
}

func NewPlaywright(opts Options) (*Playwright, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	return &Playwright{
		pw:      pw,
		browser: browser,
		timeout: opts.Timeout,
		wait:    opts.RenderWait,
		ua:      util.PickUserAgent(opts.UserAgent),
		cookie:  util.CookieHeader(opts.Cookie, opts.CookieFile),
		log:     logger(opts),
	}, nil
}

func (p *Playwright) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctxOpts := playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(p.ua),
	}
	if p.cookie != "" {
		ctxOpts.ExtraHttpHeaders = map[string]string{"Cookie": p.cookie}
	}

	bctx, err := p.browser.NewContext(ctxOpts)
	if err != nil {
		return "", fmt.Errorf("browser context: %w", err)
	}
	defer func() {
		_ = bctx.Close()
	}()

	stop := context.AfterFunc(ctx, func() {
		_ = bctx.Close()
	})
	defer stop()

	page, err := bctx.NewPage()
	if err != nil {
		return "", fmt.Errorf("new page: %w", err)
	}

	gotoOpts := playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}
	if p.timeout > 0 {
		gotoOpts.Timeout = playwright.Float(float64(p.timeout.Milliseconds()))
	}

	if _, err := page.Goto(url, gotoOpts); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("playwright %s: %w", url, err)
	}

	if p.wait > 0 {
		page.WaitForTimeout(float64(p.wait.Milliseconds()))
	}

	html, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("playwright %s: content: %w", url, err)
	}
	p.log.Debugf("rendered %s (%s)", url, util.Human(int64(len(html))))

	return checkContent(url, html)
}

func (p *Playwright) Close() error {
	return errors.Join(p.browser.Close(), p.pw.Stop())
}
