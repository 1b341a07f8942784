package fetch

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// OpenGraph is the link-preview metadata scraped from a page.
type OpenGraph struct {
	Title       string
	Description string
	Image       string
	URL         string
}

// Candidate meta keys in precedence order. Open Graph wins, then Dublin Core,
// then Twitter cards.
var (
	titleKeys       = []string{"og:title", "dc.title", "dcterms.title", "twitter:title"}
	descriptionKeys = []string{"og:description", "dc.description", "dcterms.description", "twitter:description", "description"}
	imageKeys       = []string{"og:image", "og:image:url", "og:image:secure_url", "twitter:image", "twitter:image:src"}
)

// ParseOpenGraph extracts title, description and image candidates from html.
// Relative image URLs are resolved against pageURL.
func ParseOpenGraph(html, pageURL string) (*OpenGraph, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	meta := map[string]string{}
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		key, _ := s.Attr("property")
		if key == "" {
			key, _ = s.Attr("name")
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			return
		}
		content := strings.TrimSpace(s.AttrOr("content", ""))
		if content == "" {
			return
		}
		// First occurrence wins, as browsers and scrapers do.
		if _, seen := meta[key]; !seen {
			meta[key] = content
		}
	})

	og := &OpenGraph{
		Title:       firstMeta(meta, titleKeys),
		Description: firstMeta(meta, descriptionKeys),
		Image:       resolve(pageURL, firstMeta(meta, imageKeys)),
		URL:         firstMeta(meta, []string{"og:url"}),
	}
	if og.Title == "" {
		og.Title = strings.TrimSpace(doc.Find("head title").First().Text())
	}
	if og.Title == "" {
		og.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	return og, nil
}

func firstMeta(meta map[string]string, keys []string) string {
	for _, key := range keys {
		if v := meta[key]; v != "" {
			return v
		}
	}
	return ""
}

// resolve returns ref as an absolute URL, or "" if it cannot be made one.
func resolve(base, ref string) string {
	if ref == "" {
		return ""
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if refURL.IsAbs() {
		return refURL.String()
	}
	baseURL, err := url.Parse(base)
	if err != nil || !baseURL.IsAbs() {
		return ""
	}
	return baseURL.ResolveReference(refURL).String()
}
