// Package youtube classifies YouTube video URLs and fetches video metadata from
// the public oEmbed endpoint and the credentialed Data API.
package youtube

import (
	"net/url"
	"strings"
)

// Host names recognized as YouTube video hosts.
const (
	hostYouTube      = "youtube.com"
	hostWWWYouTube   = "www.youtube.com"
	hostShortYouTube = "youtu.be"
)

// VideoID returns the video identifier carried by a YouTube URL.
// It recognizes youtube.com, www.youtube.com and m.youtube.com (the mobile
// prefix is stripped before comparison) with a "v" query parameter, and
// youtu.be with the first path segment. The second result is false when the
// input does not parse, the host does not match, or the identifier is empty.
func VideoID(rawURL string) (string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", false
	}

	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "m.")

	var id string
	switch host {
	case hostYouTube, hostWWWYouTube:
		id = parsed.Query().Get("v")
	case hostShortYouTube:
		id = strings.TrimPrefix(parsed.Path, "/")
	default:
		return "", false
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return "", false
	}
	return id, true
}

// CanonicalURL returns the watch-page URL for a video identifier.
func CanonicalURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(videoID)
}
