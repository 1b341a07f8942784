package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonathan/recipe-keeper/internal/types"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"
)

// VideoDetails is the snippet data returned by the Data API.
type VideoDetails struct {
	VideoID      string
	Title        string
	Description  string
	ChannelTitle string
	ThumbnailURL string
}

// DataAPIConfig configures the credentialed Data API client.
type DataAPIConfig struct {
	APIKey string
	// Endpoint overrides the API base path (tests, proxies).
	Endpoint string
	// HTTPClient replaces the transport built from APIKey. When set the key is
	// not attached by the library, so it is only meant for tests.
	HTTPClient *http.Client
}

// DataAPIClient fetches video snippets. Without an API key it never makes a
// network call and reports types.ErrMissingCredential.
type DataAPIClient struct {
	service *ytapi.Service
}

// NewDataAPIClient builds a Data API client. A missing key is not an error:
// the returned client reports types.ErrMissingCredential on every Fetch.
func NewDataAPIClient(ctx context.Context, cfg DataAPIConfig) (*DataAPIClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return &DataAPIClient{}, nil
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	service, err := ytapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube Data API service: %w", err)
	}
	return &DataAPIClient{service: service}, nil
}

// Enabled reports whether a credential was configured.
func (c *DataAPIClient) Enabled() bool {
	return c != nil && c.service != nil
}

// Fetch retrieves title, description, channel name and the best available
// thumbnail for a video.
func (c *DataAPIClient) Fetch(ctx context.Context, videoID string) (*VideoDetails, error) {
	if !c.Enabled() {
		return nil, types.ErrMissingCredential
	}

	resp, err := c.service.Videos.List([]string{"snippet"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("data API HTTP %d: %w", apiErr.Code, types.ErrUpstreamStatus)
		}
		return nil, fmt.Errorf("data API request failed: %w", err)
	}

	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return nil, fmt.Errorf("video %s: %w", videoID, types.ErrNotFound)
	}

	snippet := resp.Items[0].Snippet
	title := strings.TrimSpace(snippet.Title)
	if title == "" {
		return nil, fmt.Errorf("video %s has no title: %w", videoID, types.ErrNotFound)
	}

	return &VideoDetails{
		VideoID:      videoID,
		Title:        title,
		Description:  snippet.Description,
		ChannelTitle: strings.TrimSpace(snippet.ChannelTitle),
		ThumbnailURL: BestThumbnail(snippet.Thumbnails),
	}, nil
}

// BestThumbnail picks the first present thumbnail in the order
// maxres, high, medium, default.
func BestThumbnail(thumbs *ytapi.ThumbnailDetails) string {
	if thumbs == nil {
		return ""
	}
	for _, t := range []*ytapi.Thumbnail{thumbs.Maxres, thumbs.High, thumbs.Medium, thumbs.Default} {
		if t != nil && t.Url != "" {
			return t.Url
		}
	}
	return ""
}
