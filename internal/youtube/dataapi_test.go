package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonathan/recipe-keeper/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ytapi "google.golang.org/api/youtube/v3"
)

func newTestDataAPIClient(t *testing.T, handler http.HandlerFunc) *DataAPIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewDataAPIClient(context.Background(), DataAPIConfig{
		APIKey:     "test-key",
		Endpoint:   server.URL + "/",
		HTTPClient: server.Client(),
	})
	require.NoError(t, err)
	return client
}

func TestDataAPIClient_MissingKeySkipsNetwork(t *testing.T) {
	client, err := NewDataAPIClient(context.Background(), DataAPIConfig{})
	require.NoError(t, err)
	assert.False(t, client.Enabled())

	details, err := client.Fetch(context.Background(), "abc123")
	assert.Nil(t, details)
	assert.ErrorIs(t, err, types.ErrMissingCredential)
}

func TestDataAPIClient_Fetch_Success(t *testing.T) {
	var gotPath, gotID, gotPart string
	client := newTestDataAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotID = r.URL.Query().Get("id")
		gotPart = r.URL.Query().Get("part")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [{
				"id": "abc123",
				"snippet": {
					"title": "基本の肉じゃが",
					"description": "【材料】\n牛肉 200g\n【作り方】\n煮る",
					"channelTitle": "家庭料理ch",
					"thumbnails": {
						"default": {"url": "https://i.ytimg.com/default.jpg"},
						"high": {"url": "https://i.ytimg.com/high.jpg"}
					}
				}
			}]
		}`))
	})

	details, err := client.Fetch(context.Background(), "abc123")
	require.NoError(t, err)

	assert.Contains(t, gotPath, "videos")
	assert.Equal(t, "abc123", gotID)
	assert.Equal(t, "snippet", gotPart)
	assert.Equal(t, "基本の肉じゃが", details.Title)
	assert.Equal(t, "家庭料理ch", details.ChannelTitle)
	assert.Contains(t, details.Description, "牛肉 200g")
	assert.Equal(t, "https://i.ytimg.com/high.jpg", details.ThumbnailURL)
}

func TestDataAPIClient_Fetch_NoItems(t *testing.T) {
	client := newTestDataAPIClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items": []}`))
	})

	_, err := client.Fetch(context.Background(), "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestDataAPIClient_Fetch_APIError(t *testing.T) {
	client := newTestDataAPIClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "quotaExceeded"}}`))
	})

	_, err := client.Fetch(context.Background(), "abc123")
	assert.ErrorIs(t, err, types.ErrUpstreamStatus)
}

func TestBestThumbnail_Precedence(t *testing.T) {
	tests := []struct {
		name     string
		thumbs   *ytapi.ThumbnailDetails
		expected string
	}{
		{"nil", nil, ""},
		{"empty", &ytapi.ThumbnailDetails{}, ""},
		{
			"maxres wins",
			&ytapi.ThumbnailDetails{
				Maxres:  &ytapi.Thumbnail{Url: "maxres"},
				High:    &ytapi.Thumbnail{Url: "high"},
				Default: &ytapi.Thumbnail{Url: "default"},
			},
			"maxres",
		},
		{
			"medium before default",
			&ytapi.ThumbnailDetails{
				Medium:  &ytapi.Thumbnail{Url: "medium"},
				Default: &ytapi.Thumbnail{Url: "default"},
			},
			"medium",
		},
		{
			"default only",
			&ytapi.ThumbnailDetails{Default: &ytapi.Thumbnail{Url: "default"}},
			"default",
		},
		{
			"blank url skipped",
			&ytapi.ThumbnailDetails{High: &ytapi.Thumbnail{Url: ""}, Default: &ytapi.Thumbnail{Url: "default"}},
			"default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BestThumbnail(tt.thumbs))
		})
	}
}
