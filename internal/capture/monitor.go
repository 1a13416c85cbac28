// Package capture polls the clipboard and forwards new text to the
// history store.
package capture

import (
	"context"
	"strings"
	"time"

	"github.com/HendryAvila/ortu/internal/classifier"
	"github.com/HendryAvila/ortu/internal/logger"
)

// Store is the subset of history.Store the monitor writes to.
type Store interface {
	InsertItem(content string, category *string) (int64, error)
	FindSimilarCategory(content string) (string, bool, error)
}

// Outcome describes what one tick did.
type Outcome int

const (
	// ReadFailed means the clipboard could not be read as text.
	ReadFailed Outcome = iota
	// Unchanged means the text matched the last seen value or was blank.
	Unchanged
	// Oversized means the text exceeded the size ceiling and was dropped.
	Oversized
	// Accepted means the text was classified and stored.
	Accepted
	// StoreFailed means the text was new but could not be persisted.
	StoreFailed
	// Ignored means the text matched the ignore list and was dropped.
	Ignored
)

func (o Outcome) String() string {
	switch o {
	case ReadFailed:
		return "read_failed"
	case Unchanged:
		return "unchanged"
	case Oversized:
		return "oversized"
	case Accepted:
		return "accepted"
	case StoreFailed:
		return "store_failed"
	case Ignored:
		return "ignored"
	default:
		return "unknown"
	}
}

// Monitor is the capture loop. It is not safe for concurrent use: Run
// owns it for the lifetime of the process.
type Monitor struct {
	reader     Reader
	classifier *classifier.Classifier
	store      Store
	log        logger.Logger
	interval   time.Duration
	maxBytes   int64
	ignore     *IgnoreList

	last string
}

// NewMonitor creates a monitor polling reader every interval. Text longer
// than maxBytes is never stored.
func NewMonitor(reader Reader, c *classifier.Classifier, store Store, log logger.Logger, interval time.Duration, maxBytes int64) *Monitor {
	return &Monitor{
		reader:     reader,
		classifier: c,
		store:      store,
		log:        log,
		interval:   interval,
		maxBytes:   maxBytes,
	}
}

// SetIgnore installs the ignore list. Call it before Run.
func (m *Monitor) SetIgnore(l *IgnoreList) {
	m.ignore = l
}

// Run ticks until ctx is cancelled. The first sample is taken one interval
// after start.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.log.Info("capture loop started", logger.Duration("interval", m.interval))
	for {
		select {
		case <-ctx.Done():
			m.log.Info("capture loop stopped")
			return
		case <-ticker.C:
			m.Tick()
		}
	}
}

// Tick samples the clipboard once.
func (m *Monitor) Tick() Outcome {
	text, err := m.reader.ReadAll()
	if err != nil {
		// Non-text content and locked clipboards land here on every tick.
		return ReadFailed
	}

	if text == m.last || strings.TrimSpace(text) == "" {
		return Unchanged
	}

	if int64(len(text)) > m.maxBytes {
		m.log.Warn("clipboard content too large, ignoring",
			logger.Int("bytes", len(text)), logger.Int64("max_bytes", m.maxBytes))
		m.last = text
		return Oversized
	}

	if m.ignore.Match(text) {
		m.log.Debug("clipboard content matches ignore list")
		m.last = text
		return Ignored
	}

	category, err := m.classifier.Resolve(text, m.store)
	if err != nil {
		m.log.Warn("similarity lookup failed", logger.Error(err))
	}

	m.last = text
	id, err := m.store.InsertItem(text, category)
	if err != nil {
		m.log.Error("failed to save clipboard item", logger.Error(err))
		return StoreFailed
	}

	cat := ""
	if category != nil {
		cat = *category
	}
	m.log.Debug("captured clipboard item",
		logger.Int64("id", id), logger.String("category", cat), logger.Int("bytes", len(text)))
	return Accepted
}
