// Package fetch - browser.go provides headless browser rendering for pages
// that do not return usable HTML to a plain HTTP client.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

// BrowserWaitSelector is the element the browser waits for before reading the page.
const BrowserWaitSelector = "body"

// WithBrowser renders a page in a headless browser and returns the rendered HTML.
// Requires Chrome/Chromium to be installed on the system.
func WithBrowser(ctx context.Context, url string, timeout time.Duration, logger zerolog.Logger) (string, error) {
	logger.Debug().Str("url", url).Msg("starting headless browser")

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string

	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady(BrowserWaitSelector),
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	logger.Debug().Int("bytes", len(html)).Msg("rendered HTML")

	return html, nil
}
