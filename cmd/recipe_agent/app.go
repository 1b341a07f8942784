package main

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jonathan/recipe-keeper/internal/cache"
	"github.com/jonathan/recipe-keeper/internal/config"
	"github.com/jonathan/recipe-keeper/internal/logging"
	"github.com/jonathan/recipe-keeper/internal/metrics"
	"github.com/jonathan/recipe-keeper/internal/recipe"
)

// app bundles the collaborators shared by the extract and serve commands.
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	metrics *metrics.Metrics
	fetcher cache.Fetcher
	closers []func() error
}

// loadConfig reads configuration and applies the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

// newApp builds the extraction pipeline, optionally fronted by the result
// cache. A cache that cannot be opened is logged and skipped.
func newApp(ctx context.Context, cmd *cobra.Command, useCache bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		logger:  logging.New(cmd.ErrOrStderr(), cfg.Verbose),
		metrics: metrics.New(),
	}

	extractor, closeLLM, err := recipe.NewFromConfig(ctx, cfg, a.logger, a.metrics)
	if err != nil {
		return nil, err
	}
	a.fetcher = extractor
	a.closers = append(a.closers, closeLLM)

	if !useCache {
		return a, nil
	}
	store, err := cache.Open(ctx, cfg.Cache, a.logger)
	switch {
	case err != nil:
		a.logger.Warn("result cache unavailable, continuing without it", "type", cfg.Cache.Type, "err", err)
	case store != nil:
		cached := cache.NewCachedFetcher(extractor, store, cfg.Cache.TTL, a.logger, a.metrics)
		a.fetcher = cached
		a.closers = append(a.closers, cached.Close)
		a.logger.Debug("result cache enabled", "backend", store.Backend(), "ttl", cfg.Cache.TTL)
	}
	return a, nil
}

// Close releases the model client and the cache.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
