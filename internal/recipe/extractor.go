// Package recipe turns an arbitrary URL into link-preview metadata plus the
// recipe's ingredients and instructions, degrading strategy by strategy
// rather than failing.
package recipe

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/recipe-keeper/internal/description"
	"github.com/jonathan/recipe-keeper/internal/fetch"
	"github.com/jonathan/recipe-keeper/internal/jsonld"
	"github.com/jonathan/recipe-keeper/internal/llm"
	"github.com/jonathan/recipe-keeper/internal/logging"
	"github.com/jonathan/recipe-keeper/internal/metrics"
	"github.com/jonathan/recipe-keeper/internal/types"
	"github.com/jonathan/recipe-keeper/internal/youtube"
)

// Strategy names used in logs and metrics.
const (
	StrategyDataAPI     = "youtube_data_api"
	StrategyOEmbed      = "youtube_oembed"
	StrategyDescription = "description_rules"
	StrategyLLM         = "llm"
	StrategyOpenGraph   = "opengraph"
	StrategyPage        = "page"
	StrategyJSONLD      = "jsonld"
)

// DefaultPlaceholderTitle is used when no title source yields anything.
const DefaultPlaceholderTitle = "no title"

// DefaultDescriptionBudget is the number of description runes sent to the model.
const DefaultDescriptionBudget = 4000

// Policy decides how the description parser and the model combine for videos.
type Policy string

const (
	// PolicyLLMFirst always asks the model; the rule parser is the fallback.
	PolicyLLMFirst Policy = "llm-first"
	// PolicyRulesFirst asks the model only when the rule parser finds nothing.
	PolicyRulesFirst Policy = "rules-first"
)

// ParsePolicy validates a policy name from configuration.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyLLMFirst, PolicyRulesFirst:
		return p, nil
	case "":
		return PolicyLLMFirst, nil
	default:
		return "", fmt.Errorf("unknown description policy %q", s)
	}
}

// VideoMetadata fetches credentialed video details.
type VideoMetadata interface {
	Fetch(ctx context.Context, videoID string) (*youtube.VideoDetails, error)
}

// EmbedInfo fetches oEmbed info for a video URL.
type EmbedInfo interface {
	Fetch(ctx context.Context, videoURL string) (*youtube.EmbedInfo, error)
}

// PageFetcher returns the raw HTML of a page.
type PageFetcher interface {
	Page(ctx context.Context, url string) (string, error)
}

// OpenGraphScraper returns link-preview metadata of a page.
type OpenGraphScraper interface {
	OpenGraph(ctx context.Context, url string) (*fetch.OpenGraph, error)
}

// FieldExtractor pulls recipe fields out of unstructured text.
type FieldExtractor interface {
	Extract(ctx context.Context, source llm.Source, text string) (*types.RecipeFields, error)
}

// Deps are the collaborators of an Extractor. Nil collaborators are treated
// as strategies that are never available.
type Deps struct {
	Video     VideoMetadata
	Embed     EmbedInfo
	Pages     PageFetcher
	OpenGraph OpenGraphScraper
	LLM       FieldExtractor
	Logger    *log.Logger
	Metrics   *metrics.Metrics
}

// Options tune extraction behavior.
type Options struct {
	Policy            Policy
	PlaceholderTitle  string
	PageTextBudget    int
	DescriptionBudget int
}

// Extractor runs the extraction pipeline. It holds no per-call state and is
// safe for concurrent use.
type Extractor struct {
	deps   Deps
	opts   Options
	logger *log.Logger
}

// New creates an Extractor, filling zero options with defaults.
func New(deps Deps, opts Options) *Extractor {
	if opts.Policy == "" {
		opts.Policy = PolicyLLMFirst
	}
	if opts.PlaceholderTitle == "" {
		opts.PlaceholderTitle = DefaultPlaceholderTitle
	}
	if opts.PageTextBudget <= 0 {
		opts.PageTextBudget = fetch.DefaultTextBudget
	}
	if opts.DescriptionBudget <= 0 {
		opts.DescriptionBudget = DefaultDescriptionBudget
	}
	return &Extractor{deps: deps, opts: opts, logger: logging.OrDiscard(deps.Logger)}
}

var validate = validator.New()

// ValidateURL trims raw and accepts it only as an absolute http(s) URL.
func ValidateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if err := validate.Var(raw, "required,url"); err != nil {
		return "", fmt.Errorf("%w: %q", types.ErrInvalidURL, raw)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: %q", types.ErrInvalidURL, raw)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return raw, nil
	default:
		return "", fmt.Errorf("%w: unsupported scheme %q", types.ErrInvalidURL, u.Scheme)
	}
}

// FetchOGP extracts metadata and recipe fields for rawURL. It returns nil
// when the URL is invalid or a video's fallback lookup cannot reach its
// upstream; every other failure degrades to a partial result.
func (e *Extractor) FetchOGP(ctx context.Context, rawURL string) *types.OGPData {
	return e.Extract(ctx, rawURL).Data
}

// Extract is FetchOGP that also reports whether the result was degraded by
// an unreachable upstream or an ended context.
func (e *Extractor) Extract(ctx context.Context, rawURL string) types.Extraction {
	start := time.Now()

	pageURL, err := ValidateURL(rawURL)
	if err != nil {
		e.logger.Debug("rejected input", "url", rawURL, "err", err)
		e.deps.Metrics.ObserveExtraction("invalid", "none", time.Since(start))
		return types.Extraction{}
	}

	c := &call{Extractor: e, url: pageURL}
	if videoID, ok := youtube.VideoID(pageURL); ok {
		data, done := c.fromVideo(ctx, videoID)
		if done {
			return c.finish(ctx, "youtube", data, start)
		}
	}

	return c.finish(ctx, "generic", c.fromPage(ctx), start)
}

// call is the state of one Extract run.
type call struct {
	*Extractor
	url      string
	degraded atomic.Bool
}

func (c *call) finish(ctx context.Context, branch string, data *types.OGPData, start time.Time) types.Extraction {
	result := "none"
	switch {
	case data.HasRecipe():
		result = "recipe"
	case data != nil:
		result = "metadata"
	}
	if ctx.Err() != nil {
		c.degraded.Store(true)
	}
	degraded := c.degraded.Load()
	c.logger.Debug("extraction finished", "branch", branch, "result", result, "degraded", degraded, "elapsed", time.Since(start))
	c.deps.Metrics.ObserveExtraction(branch, result, time.Since(start))
	return types.Extraction{Data: data, Degraded: degraded}
}

// fromVideo runs the video branch. The boolean is false when the caller should
// continue with the generic page branch.
func (c *call) fromVideo(ctx context.Context, videoID string) (*types.OGPData, bool) {
	details := c.videoDetails(ctx, videoID)
	if details.Ok() {
		v := details.Value
		data := &types.OGPData{
			Title:       v.Title,
			Description: youtube.AuthorDescription(v.ChannelTitle),
			Image:       v.ThumbnailURL,
			URL:         c.url,
		}
		if fields, ok := c.descriptionFields(ctx, v.Description); ok {
			data.Ingredients = fields.Ingredients
			data.Instructions = fields.Instructions
		}
		return data, true
	}

	embed := c.embedInfo(ctx, videoID)
	if embed.Ok() {
		v := embed.Value
		return &types.OGPData{
			Title:       v.Title,
			Description: youtube.AuthorDescription(v.AuthorName),
			Image:       v.ThumbnailURL,
			URL:         c.url,
		}, true
	}
	if isTransport(embed.Err) {
		return nil, true
	}
	return nil, false
}

func (c *call) videoDetails(ctx context.Context, videoID string) Outcome[youtube.VideoDetails] {
	var o Outcome[youtube.VideoDetails]
	if c.deps.Video == nil {
		o = Skipped[youtube.VideoDetails](types.ErrMissingCredential)
	} else {
		details, err := c.deps.Video.Fetch(ctx, videoID)
		o = From(details, err)
	}
	c.observe(StrategyDataAPI, o.Reason, o.Err)
	return o
}

func (c *call) embedInfo(ctx context.Context, videoID string) Outcome[youtube.EmbedInfo] {
	var o Outcome[youtube.EmbedInfo]
	if c.deps.Embed == nil {
		o = Skipped[youtube.EmbedInfo](nil)
	} else {
		info, err := c.deps.Embed.Fetch(ctx, youtube.CanonicalURL(videoID))
		o = From(info, err)
	}
	c.observe(StrategyOEmbed, o.Reason, o.Err)
	return o
}

// descriptionFields combines the rule parser and the model on a video
// description according to the configured policy.
func (c *call) descriptionFields(ctx context.Context, text string) (*types.RecipeFields, bool) {
	rules := Strategy[types.RecipeFields]{
		Name: StrategyDescription,
		Run: func(context.Context) Outcome[types.RecipeFields] {
			parsed := description.Parse(text)
			if !parsed.Found() {
				return Empty[types.RecipeFields]()
			}
			fields := parsed.Fields()
			return OK(&fields)
		},
	}
	model := Strategy[types.RecipeFields]{
		Name: StrategyLLM,
		Run: func(ctx context.Context) Outcome[types.RecipeFields] {
			return c.modelFields(ctx, llm.SourceDescription, fetch.Truncate(text, c.opts.DescriptionBudget))
		},
	}

	strategies := []Strategy[types.RecipeFields]{model, rules}
	if c.opts.Policy == PolicyRulesFirst {
		strategies = []Strategy[types.RecipeFields]{rules, model}
	}
	o, _ := NewChain(c.observeFields, strategies...).First(ctx)
	return o.Value, o.Ok()
}

// fromPage runs the generic branch: metadata scrape and page fetch in
// parallel, then structured data with the model as fallback.
func (c *call) fromPage(ctx context.Context) *types.OGPData {
	var (
		og   Outcome[fetch.OpenGraph]
		html string
	)

	var g errgroup.Group
	g.Go(func() error {
		og = c.openGraph(ctx)
		return nil
	})
	g.Go(func() error {
		html = c.page(ctx)
		return nil
	})
	_ = g.Wait()

	data := &types.OGPData{Title: c.opts.PlaceholderTitle, URL: c.url}
	if og.Ok() {
		if og.Value.Title != "" {
			data.Title = og.Value.Title
		}
		data.Description = og.Value.Description
		data.Image = og.Value.Image
	}

	if html == "" {
		return data
	}

	structured := Strategy[types.RecipeFields]{
		Name: StrategyJSONLD,
		Run: func(context.Context) Outcome[types.RecipeFields] {
			fields, ok := jsonld.Extract(html)
			if !ok {
				return Empty[types.RecipeFields]()
			}
			// A matched node wins even with empty fields.
			return Outcome[types.RecipeFields]{Value: &fields, Reason: ReasonOK}
		},
	}
	model := Strategy[types.RecipeFields]{
		Name: StrategyLLM,
		Run: func(ctx context.Context) Outcome[types.RecipeFields] {
			return c.modelFields(ctx, llm.SourcePage, fetch.CleanPageText(html, c.opts.PageTextBudget))
		},
	}

	if o, _ := NewChain(c.observeFields, structured, model).First(ctx); o.Ok() {
		data.Ingredients = o.Value.Ingredients
		data.Instructions = o.Value.Instructions
	}
	return data
}

func (c *call) openGraph(ctx context.Context) Outcome[fetch.OpenGraph] {
	var o Outcome[fetch.OpenGraph]
	if c.deps.OpenGraph == nil {
		o = Skipped[fetch.OpenGraph](nil)
	} else {
		meta, err := c.deps.OpenGraph.OpenGraph(ctx, c.url)
		o = From(meta, err)
	}
	c.observe(StrategyOpenGraph, o.Reason, o.Err)
	return o
}

func (c *call) page(ctx context.Context) string {
	if c.deps.Pages == nil {
		c.observe(StrategyPage, ReasonSkipped, nil)
		return ""
	}
	html, err := c.deps.Pages.Page(ctx, c.url)
	reason := classify(err)
	if err == nil && strings.TrimSpace(html) == "" {
		reason = ReasonEmpty
		html = ""
	}
	c.observe(StrategyPage, reason, err)
	if err != nil {
		return ""
	}
	return html
}

func (c *call) modelFields(ctx context.Context, source llm.Source, text string) Outcome[types.RecipeFields] {
	if c.deps.LLM == nil {
		return Skipped[types.RecipeFields](types.ErrMissingCredential)
	}
	fields, err := c.deps.LLM.Extract(ctx, source, text)
	return From(fields, err)
}

func (c *call) observeFields(name string, o Outcome[types.RecipeFields]) {
	c.observe(name, o.Reason, o.Err)
}

// observe logs and counts one strategy attempt. Missing credentials and
// empty answers are expected and stay at debug level. An unavailable
// upstream marks the call degraded.
func (c *call) observe(strategy string, reason Reason, err error) {
	c.deps.Metrics.ObserveStrategy(strategy, string(reason))
	switch reason {
	case ReasonOK:
		c.logger.Debug("strategy succeeded", "strategy", strategy, "url", c.url)
	case ReasonSkipped, ReasonEmpty:
		c.logger.Debug("strategy produced nothing", "strategy", strategy, "url", c.url, "reason", reason, "err", err)
	default:
		if reason == ReasonUnavailable {
			c.degraded.Store(true)
		}
		c.logger.Warn("strategy degraded", "strategy", strategy, "url", c.url, "reason", reason, "err", err)
	}
}
