package recipe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/recipe-keeper/internal/config"
	"github.com/jonathan/recipe-keeper/internal/logging"
	"github.com/jonathan/recipe-keeper/internal/metrics"
)

func testConfig() *config.Config {
	return &config.Config{
		YouTube: config.YouTubeConfig{OEmbedEndpoint: "http://127.0.0.1:1/oembed"},
		LLM:     config.LLMConfig{Provider: "gemini", Tier: "lite", Timeout: 5 * time.Second},
		Fetch:   config.FetchConfig{Timeout: 5 * time.Second},
		Extract: config.ExtractConfig{Policy: "llm-first", PlaceholderTitle: "no title"},
		Breaker: config.BreakerConfig{Failures: 5, Window: 10, Delay: time.Second},
	}
}

func TestNewFromConfig_MissingCredentialsDisableStrategies(t *testing.T) {
	e, closeFn, err := NewFromConfig(context.Background(), testConfig(), logging.Discard(), nil)
	require.NoError(t, err)
	defer func() { _ = closeFn() }()

	assert.Nil(t, e.deps.Video)
	assert.Nil(t, e.deps.LLM)
	assert.NotNil(t, e.deps.Embed)
	assert.NotNil(t, e.deps.Pages)
	assert.NotNil(t, e.deps.OpenGraph)
	assert.Equal(t, PolicyLLMFirst, e.opts.Policy)
}

func TestNewFromConfig_RejectsUnknownPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.Extract.Policy = "model-only"

	_, _, err := NewFromConfig(context.Background(), cfg, nil, nil)
	assert.Error(t, err)
}

func TestNewFromConfig_GenericPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head>
<meta property="og:title" content="Miso Soup">
<meta property="og:image" content="/miso.jpg">
<script type="application/ld+json">{"@type":"Recipe","recipeIngredient":["miso","tofu"],"recipeInstructions":"Dissolve miso"}</script>
</head><body><p>Miso soup recipe</p></body></html>`))
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.Breaker.Enabled = true
	m := metrics.New()
	e, closeFn, err := NewFromConfig(context.Background(), cfg, logging.Discard(), m)
	require.NoError(t, err)
	defer func() { _ = closeFn() }()

	got := e.FetchOGP(context.Background(), server.URL+"/miso")
	require.NotNil(t, got)
	assert.Equal(t, "Miso Soup", got.Title)
	assert.Equal(t, server.URL+"/miso.jpg", got.Image)
	assert.Equal(t, "miso\ntofu", got.Ingredients)
	assert.Equal(t, "Dissolve miso", got.Instructions)
}

func TestNewFromConfig_VideoThroughDataAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":"abc123","snippet":{
			"title":"親子丼",
			"description":"材料\n鶏もも肉 1枚\n作り方\n煮る",
			"channelTitle":"和食ch",
			"thumbnails":{"high":{"url":"https://i.ytimg.com/high.jpg"}}}}]}`))
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.YouTube.APIKey = "test-key"
	cfg.YouTube.DataAPIEndpoint = server.URL + "/"
	e, closeFn, err := NewFromConfig(context.Background(), cfg, logging.Discard(), nil)
	require.NoError(t, err)
	defer func() { _ = closeFn() }()
	require.NotNil(t, e.deps.Video)

	got := e.FetchOGP(context.Background(), videoURL)
	require.NotNil(t, got)
	assert.Equal(t, "親子丼", got.Title)
	assert.Equal(t, "by 和食ch", got.Description)
	assert.Equal(t, "鶏もも肉 1枚", got.Ingredients)
	assert.Equal(t, "煮る", got.Instructions)
}

func TestNewFromConfig_VideoThroughOEmbed(t *testing.T) {
	var gotURL string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.Query().Get("url")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title":"Tamagoyaki","author_name":"Chef","thumbnail_url":"https://i.ytimg.com/t.jpg"}`))
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.YouTube.OEmbedEndpoint = server.URL + "/oembed"
	e, closeFn, err := NewFromConfig(context.Background(), cfg, logging.Discard(), nil)
	require.NoError(t, err)
	defer func() { _ = closeFn() }()

	got := e.FetchOGP(context.Background(), "https://youtu.be/abc123")
	require.NotNil(t, got)
	assert.Equal(t, "Tamagoyaki", got.Title)
	assert.Equal(t, "by Chef", got.Description)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc123", gotURL)
}

func TestNewFromConfig_VideoUpstreamsHaveSeparateBreakers(t *testing.T) {
	dataAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"quotaExceeded"}}`))
	}))
	defer dataAPI.Close()
	oembed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title":"Tamagoyaki","author_name":"Chef"}`))
	}))
	defer oembed.Close()

	cfg := testConfig()
	cfg.YouTube.APIKey = "test-key"
	cfg.YouTube.DataAPIEndpoint = dataAPI.URL + "/"
	cfg.YouTube.OEmbedEndpoint = oembed.URL + "/oembed"
	cfg.Breaker = config.BreakerConfig{Enabled: true, Failures: 2, Window: 2, Delay: time.Minute}
	e, closeFn, err := NewFromConfig(context.Background(), cfg, logging.Discard(), nil)
	require.NoError(t, err)
	defer func() { _ = closeFn() }()

	for i := 0; i < 8; i++ {
		got := e.Extract(context.Background(), "https://youtu.be/abc123")
		require.NotNil(t, got.Data, "call %d", i)
		assert.Equal(t, "Tamagoyaki", got.Data.Title, "call %d", i)
		assert.True(t, got.Degraded, "call %d", i)
	}
}
