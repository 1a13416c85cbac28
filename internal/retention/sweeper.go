// Package retention expires unpinned clipboard history on a timer.
package retention

import (
	"context"
	"sync"
	"time"

	"github.com/HendryAvila/ortu/internal/logger"
)

// Pruner deletes unpinned items older than the retention window.
type Pruner interface {
	PruneExpired() (int64, error)
}

// Clearer deletes every unpinned item.
type Clearer interface {
	ClearEphemeral() (int64, error)
}

// Sweeper periodically prunes expired history.
type Sweeper struct {
	store    Pruner
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewSweeper creates a sweeper that prunes every interval.
func NewSweeper(store Pruner, log logger.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{
		store:    store,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the sweep goroutine. The first sweep runs one interval
// after start; PurgeOnStart covers the process start itself.
func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := s.Sweep(); err != nil {
					s.logger.Error("retention sweep failed", logger.Error(err))
				}
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the sweeper. It is safe to call more than once.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// Sweep prunes expired items once and returns the number deleted.
func (s *Sweeper) Sweep() (int64, error) {
	n, err := s.store.PruneExpired()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("retention sweep completed", logger.Int64("deleted", n))
	} else {
		s.logger.Debug("no expired items to sweep")
	}
	return n, nil
}

// PurgeOnStart clears every unpinned item left over from a previous run.
func PurgeOnStart(store Clearer, log logger.Logger) error {
	n, err := store.ClearEphemeral()
	if err != nil {
		return err
	}
	log.Info("cleared ephemeral history from previous run", logger.Int64("deleted", n))
	return nil
}
