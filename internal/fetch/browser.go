package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/recipe-keeper/internal/logging"
)

// MinContentLength is the minimum visible text length for a fetched page to
// count as real content rather than a bot wall or an empty SPA shell.
const MinContentLength = 200

var challengeMarkers = []string{
	"cf-browser-verification",
	"challenge-platform",
	"Just a moment...",
	"Attention Required!",
	"Access Denied",
}

// ShouldUseBrowser reports whether html looks like a bot wall or an unrendered
// JavaScript shell.
func ShouldUseBrowser(html string) bool {
	for _, marker := range challengeMarkers {
		if strings.Contains(html, marker) {
			return true
		}
	}
	return len([]rune(CleanPageText(html, 0))) < MinContentLength
}

// Renderer renders a page and returns its final HTML.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// ChromeRenderer renders pages in headless Chrome. Requires Chrome/Chromium to
// be installed on the system.
type ChromeRenderer struct {
	Timeout   time.Duration
	Settle    time.Duration
	UserAgent string
	Logger    *log.Logger
}

// NewChromeRenderer creates a ChromeRenderer with a 30 second budget.
func NewChromeRenderer(timeout time.Duration, logger *log.Logger) *ChromeRenderer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChromeRenderer{
		Timeout:   timeout,
		Settle:    2 * time.Second,
		UserAgent: DefaultUserAgent,
		Logger:    logging.OrDiscard(logger),
	}
}

// Render navigates to url and returns the rendered document HTML.
func (r *ChromeRenderer) Render(ctx context.Context, url string) (string, error) {
	logger := logging.OrDiscard(r.Logger)
	logger.Debug("starting headless browser", "url", url)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(r.UserAgent),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, r.Timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(r.Settle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &Error{URL: url, Message: "browser rendering failed", Cause: err}
	}

	logger.Debug("rendered page", "url", url, "bytes", len(html))
	if html == "" {
		return "", fmt.Errorf("browser rendered empty document for %s", url)
	}
	return html, nil
}
