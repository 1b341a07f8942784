// Package fetch retrieves third-party recipe pages and turns their HTML into
// Open Graph metadata and plain text for the extraction pipeline.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jonathan/recipe-keeper/internal/guard"
	"github.com/jonathan/recipe-keeper/internal/logging"
	"github.com/jonathan/recipe-keeper/internal/types"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 10 * time.Second

// DefaultUserAgent identifies requests as a desktop Chrome browser. Many recipe
// sites answer non-browser clients with a bot wall.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// MaxBodyBytes caps how much of a response body is read.
const MaxBodyBytes = 5 << 20

// Result holds the raw content from a URL fetch.
type Result struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
}

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	// Client overrides the HTTP client. Timeout is ignored when set.
	Client *http.Client
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		Headers: map[string]string{
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "ja,en-US;q=0.9,en;q=0.8",
		},
	}
}

func (o *Options) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	return &http.Client{Timeout: o.Timeout}
}

// URL retrieves HTML content from a URL. A non-2xx status returns the partial
// result together with an error wrapping types.ErrUpstreamStatus.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		cause := err
		if cause == nil {
			cause = types.ErrInvalidURL
		}
		return nil, &Error{
			URL:     urlStr,
			Message: "invalid URL",
			Cause:   cause,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to create request",
			Cause:   err,
		}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := opts.client().Do(req)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "HTTP request failed",
			Cause:   err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to read response body",
			Cause:   err,
		}
	}

	result := &Result{
		URL:         urlStr,
		HTML:        string(bodyBytes),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, &Error{
			URL:     urlStr,
			Message: fmt.Sprintf("HTTP status %d", resp.StatusCode),
			Cause:   types.ErrUpstreamStatus,
		}
	}

	return result, nil
}

// Fetcher fetches pages and Open Graph metadata under a guard, optionally
// falling back to a headless browser.
type Fetcher struct {
	opts    *Options
	guard   *guard.Guard
	browser Renderer
	logger  *log.Logger
}

// NewFetcher creates a Fetcher. g and logger may be nil.
func NewFetcher(opts *Options, g *guard.Guard, logger *log.Logger) *Fetcher {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Fetcher{opts: opts, guard: g, logger: logging.OrDiscard(logger)}
}

// WithBrowser enables the headless render fallback for failed or blocked
// page fetches.
func (f *Fetcher) WithBrowser(r Renderer) *Fetcher {
	f.browser = r
	return f
}

// Page returns the raw HTML of urlStr. Callers treat any error as "no HTML".
func (f *Fetcher) Page(ctx context.Context, urlStr string) (string, error) {
	result, err := guard.Do(ctx, f.guard, func(ctx context.Context) (*Result, error) {
		return URL(ctx, urlStr, f.opts)
	})
	if err == nil && result != nil && !ShouldUseBrowser(result.HTML) {
		return result.HTML, nil
	}

	if f.browser != nil {
		f.logger.Debug("falling back to headless browser", "url", urlStr, "err", err)
		html, renderErr := f.browser.Render(ctx, urlStr)
		if renderErr == nil && strings.TrimSpace(html) != "" {
			return html, nil
		}
		if renderErr != nil {
			err = errors.Join(err, renderErr)
		}
	}

	if err != nil {
		return "", err
	}
	if result == nil || strings.TrimSpace(result.HTML) == "" {
		return "", &Error{URL: urlStr, Message: "empty response body", Cause: types.ErrNotFound}
	}
	return result.HTML, nil
}

// OpenGraph fetches urlStr and scrapes its link-preview metadata.
func (f *Fetcher) OpenGraph(ctx context.Context, urlStr string) (*OpenGraph, error) {
	result, err := guard.Do(ctx, f.guard, func(ctx context.Context) (*Result, error) {
		return URL(ctx, urlStr, f.opts)
	})
	if err != nil {
		return nil, err
	}
	og, err := ParseOpenGraph(result.HTML, urlStr)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to parse HTML", Cause: err}
	}
	if og.Title == "" && og.Description == "" && og.Image == "" {
		return nil, &Error{URL: urlStr, Message: "no Open Graph metadata", Cause: types.ErrNotFound}
	}
	return og, nil
}
