package cache

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/jonathan/recipe-keeper/internal/config"
)

// Open creates the Store selected by cfg. It returns nil for the "none" type.
// Memory and Postgres stores sweep expired entries in the background until
// closed; Redis expires keys itself.
func Open(ctx context.Context, cfg config.CacheConfig, logger *log.Logger) (Store, error) {
	switch cfg.Type {
	case config.CacheNone:
		return nil, nil
	case "", config.CacheMemory:
		return NewMemoryStore(DefaultSweepInterval), nil
	case config.CacheRedis:
		return NewRedisStore(ctx, cfg.URL)
	case config.CachePostgres:
		store, err := NewPostgresStore(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		store.StartPurging(DefaultSweepInterval, logger)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Type)
	}
}
