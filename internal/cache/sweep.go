package cache

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jonathan/recipe-keeper/internal/logging"
)

// DefaultSweepInterval is how often stores delete expired entries.
const DefaultSweepInterval = 10 * time.Minute

// sweeper calls purge on a fixed interval until stopped.
type sweeper struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func startSweeper(interval time.Duration, backend string, purge func(context.Context) (int64, error), logger *log.Logger) *sweeper {
	s := &sweeper{stop: make(chan struct{}), done: make(chan struct{})}
	logger = logging.OrDiscard(logger)

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), interval)
				removed, err := purge(ctx)
				cancel()
				if err != nil {
					logger.Warn("cache sweep failed", "backend", backend, "err", err)
					continue
				}
				if removed > 0 {
					logger.Debug("cache sweep", "backend", backend, "removed", removed)
				}
			case <-s.stop:
				return
			}
		}
	}()
	return s
}

// Stop ends the sweep loop and waits for it. It is safe to call on a nil
// sweeper and more than once.
func (s *sweeper) Stop() {
	if s == nil {
		return
	}
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}
