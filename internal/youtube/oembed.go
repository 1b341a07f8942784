package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/recipe-keeper/internal/types"
)

// DefaultOEmbedEndpoint is YouTube's public oEmbed endpoint.
const DefaultOEmbedEndpoint = "https://www.youtube.com/oembed"

// DefaultTimeout bounds every YouTube request.
const DefaultTimeout = 10 * time.Second

// EmbedInfo is the subset of an oEmbed response used for recipe previews.
type EmbedInfo struct {
	Title        string
	AuthorName   string
	ThumbnailURL string
}

// oEmbedResponse represents the oEmbed JSON response fields YouTube returns.
// See: https://oembed.com/#section2.3
type oEmbedResponse struct {
	Type         string `json:"type"`
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	AuthorURL    string `json:"author_url"`
	ProviderName string `json:"provider_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// OEmbedClient fetches lightweight embed information. It needs no credential.
type OEmbedClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewOEmbedClient creates an oEmbed client. An empty endpoint uses
// DefaultOEmbedEndpoint; a nil httpClient gets DefaultTimeout.
func NewOEmbedClient(endpoint string, httpClient *http.Client) *OEmbedClient {
	if endpoint == "" {
		endpoint = DefaultOEmbedEndpoint
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &OEmbedClient{endpoint: endpoint, httpClient: httpClient}
}

// Fetch retrieves embed information for a video URL.
//
// A non-success status is reported as types.ErrUpstreamStatus and a missing
// title as types.ErrNotFound; transport failures are returned unwrapped so the
// caller can tell them apart from "the upstream answered with nothing".
func (c *OEmbedClient) Fetch(ctx context.Context, videoURL string) (*EmbedInfo, error) {
	apiURL, err := c.buildURL(videoURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create oEmbed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oEmbed request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("oEmbed HTTP %d: %w", resp.StatusCode, types.ErrUpstreamStatus)
	}

	var data oEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode oEmbed response: %w: %w", types.ErrShape, err)
	}

	title := strings.TrimSpace(data.Title)
	if title == "" {
		return nil, fmt.Errorf("oEmbed response has no title: %w", types.ErrNotFound)
	}

	return &EmbedInfo{
		Title:        title,
		AuthorName:   strings.TrimSpace(data.AuthorName),
		ThumbnailURL: strings.TrimSpace(data.ThumbnailURL),
	}, nil
}

// buildURL constructs the oEmbed request URL for a video URL.
func (c *OEmbedClient) buildURL(videoURL string) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid oEmbed endpoint %q: %w", c.endpoint, err)
	}
	q := u.Query()
	q.Set("url", videoURL)
	q.Set("format", "json")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// AuthorDescription renders the attribution line used as a preview description.
func AuthorDescription(author string) string {
	author = strings.TrimSpace(author)
	if author == "" {
		return ""
	}
	return "by " + author
}
