// Package cache stores extraction results so repeated previews of the same
// URL skip the upstream calls.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jonathan/recipe-keeper/internal/logging"
	"github.com/jonathan/recipe-keeper/internal/metrics"
	"github.com/jonathan/recipe-keeper/internal/schemas"
	"github.com/jonathan/recipe-keeper/internal/types"
)

// DefaultTTL is how long a cached result stays fresh.
const DefaultTTL = 24 * time.Hour

// ErrMiss is returned by Store.Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Store is a byte-oriented key-value store with per-entry TTL.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
	// Backend names the store in logs and metrics.
	Backend() string
}

// Fetcher returns the preview of a URL.
type Fetcher interface {
	FetchOGP(ctx context.Context, rawURL string) *types.OGPData
}

// Extractor is the operation being cached. It reports whether a result was
// degraded so that partial answers are not kept past the call.
type Extractor interface {
	Extract(ctx context.Context, rawURL string) types.Extraction
}

// Key derives the cache key for a URL.
func Key(rawURL string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(rawURL)))
	return "ogp:" + hex.EncodeToString(sum[:])
}

// CachedFetcher serves results from a Store and fills it on a miss. Only
// complete non-nil results are stored; store failures fall back to a live fetch.
type CachedFetcher struct {
	next    Extractor
	store   Store
	ttl     time.Duration
	logger  *log.Logger
	metrics *metrics.Metrics
}

// NewCachedFetcher wraps next with store.
func NewCachedFetcher(next Extractor, store Store, ttl time.Duration, logger *log.Logger, m *metrics.Metrics) *CachedFetcher {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedFetcher{next: next, store: store, ttl: ttl, logger: logging.OrDiscard(logger), metrics: m}
}

// FetchOGP returns the cached result for rawURL or computes and stores it.
func (c *CachedFetcher) FetchOGP(ctx context.Context, rawURL string) *types.OGPData {
	return c.Extract(ctx, rawURL).Data
}

// Extract implements Extractor. Cache hits are never degraded.
func (c *CachedFetcher) Extract(ctx context.Context, rawURL string) types.Extraction {
	key := Key(rawURL)
	backend := c.store.Backend()

	raw, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		data, decodeErr := decode(raw)
		if decodeErr == nil {
			c.metrics.ObserveCache(backend, "hit")
			c.logger.Debug("cache hit", "backend", backend, "url", rawURL)
			return types.Extraction{Data: data}
		}
		c.metrics.ObserveCache(backend, "error")
		c.logger.Warn("discarding corrupt cache entry", "backend", backend, "url", rawURL, "err", decodeErr)
	case errors.Is(err, ErrMiss):
		c.metrics.ObserveCache(backend, "miss")
	default:
		c.metrics.ObserveCache(backend, "error")
		c.logger.Warn("cache read failed", "backend", backend, "url", rawURL, "err", err)
	}

	result := c.next.Extract(ctx, rawURL)
	switch {
	case result.Data == nil:
		return result
	case result.Degraded || ctx.Err() != nil:
		c.logger.Debug("not caching degraded result", "backend", backend, "url", rawURL)
		return result
	}

	encoded, err := json.Marshal(result.Data)
	if err != nil {
		return result
	}
	if err := c.store.Set(ctx, key, encoded, c.ttl); err != nil {
		c.logger.Warn("cache write failed", "backend", backend, "url", rawURL, "err", err)
	}
	return result
}

// decode validates a stored entry against the OGPData schema before trusting it.
func decode(raw []byte) (*types.OGPData, error) {
	if err := schemas.Validate(schemas.OGPData, string(raw)); err != nil {
		return nil, err
	}
	var data types.OGPData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Close closes the underlying store.
func (c *CachedFetcher) Close() error {
	return c.store.Close()
}
