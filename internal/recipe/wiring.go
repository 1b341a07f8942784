package recipe

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jonathan/recipe-keeper/internal/config"
	"github.com/jonathan/recipe-keeper/internal/fetch"
	"github.com/jonathan/recipe-keeper/internal/guard"
	"github.com/jonathan/recipe-keeper/internal/llm"
	"github.com/jonathan/recipe-keeper/internal/metrics"
	"github.com/jonathan/recipe-keeper/internal/youtube"
)

type guardedVideo struct {
	inner *youtube.DataAPIClient
	guard *guard.Guard
}

func (v guardedVideo) Fetch(ctx context.Context, videoID string) (*youtube.VideoDetails, error) {
	return guard.Do(ctx, v.guard, func(ctx context.Context) (*youtube.VideoDetails, error) {
		return v.inner.Fetch(ctx, videoID)
	})
}

type guardedEmbed struct {
	inner *youtube.OEmbedClient
	guard *guard.Guard
}

func (e guardedEmbed) Fetch(ctx context.Context, videoURL string) (*youtube.EmbedInfo, error) {
	return guard.Do(ctx, e.guard, func(ctx context.Context) (*youtube.EmbedInfo, error) {
		return e.inner.Fetch(ctx, videoURL)
	})
}

// NewFromConfig builds a production Extractor. Credentials are read once here;
// an absent key leaves the corresponding strategy unset. The returned close
// function releases the model client.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger *log.Logger, m *metrics.Metrics) (*Extractor, func() error, error) {
	policy, err := ParsePolicy(cfg.Extract.Policy)
	if err != nil {
		return nil, nil, err
	}
	tier, err := llm.ParseTier(cfg.LLM.Tier)
	if err != nil {
		return nil, nil, err
	}

	newGuard := func(name string, timeout time.Duration) *guard.Guard {
		return guard.New(guard.Config{
			Name:            name,
			Timeout:         timeout,
			Breaker:         cfg.Breaker.Enabled,
			BreakerDelay:    cfg.Breaker.Delay,
			BreakerFailures: cfg.Breaker.Failures,
			BreakerWindow:   cfg.Breaker.Window,
		}, logger)
	}
	deps := Deps{Logger: logger, Metrics: m}

	dataAPI, err := youtube.NewDataAPIClient(ctx, youtube.DataAPIConfig{
		APIKey:   cfg.YouTube.APIKey,
		Endpoint: cfg.YouTube.DataAPIEndpoint,
	})
	if err != nil {
		return nil, nil, err
	}
	if dataAPI.Enabled() {
		deps.Video = guardedVideo{inner: dataAPI, guard: newGuard("youtube_data_api", cfg.Fetch.Timeout)}
	}

	httpClient := &http.Client{Timeout: cfg.Fetch.Timeout}
	deps.Embed = guardedEmbed{
		inner: youtube.NewOEmbedClient(cfg.YouTube.OEmbedEndpoint, httpClient),
		guard: newGuard("youtube_oembed", cfg.Fetch.Timeout),
	}

	opts := fetch.DefaultOptions()
	opts.Timeout = cfg.Fetch.Timeout
	if cfg.Fetch.UserAgent != "" {
		opts.UserAgent = cfg.Fetch.UserAgent
	}
	pages := fetch.NewFetcher(opts, newGuard("page", cfg.Fetch.Timeout), logger)
	if cfg.Fetch.Browser {
		pages.WithBrowser(fetch.NewChromeRenderer(cfg.Fetch.BrowserTimeout, logger))
	}
	deps.Pages = pages
	deps.OpenGraph = pages

	closeFn := func() error { return nil }
	if cfg.LLM.APIKey != "" {
		llmConfig := llm.DefaultConfig()
		llmConfig.Provider = llm.Provider(cfg.LLM.Provider)
		client, err := llm.NewClient(ctx, llmConfig, cfg.LLM.APIKey)
		if err != nil {
			return nil, nil, err
		}
		deps.LLM = llm.NewRecipeExtractor(client, tier, newGuard("llm", cfg.LLM.Timeout), logger)
		closeFn = client.Close
	}

	extractor := New(deps, Options{
		Policy:            policy,
		PlaceholderTitle:  cfg.Extract.PlaceholderTitle,
		PageTextBudget:    cfg.Extract.PageTextBudget,
		DescriptionBudget: cfg.Extract.DescriptionBudget,
	})
	return extractor, closeFn, nil
}
