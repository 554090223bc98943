package regwatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/qaisarkhan123/IRAQAF-Integrated-Regulatory-Compliant-Quality-Assurance-Framework-sub002/pkg/compliance/clausediff"
	"github.com/qaisarkhan123/IRAQAF-Integrated-Regulatory-Compliant-Quality-Assurance-Framework-sub002/pkg/compliance/drift"
	"github.com/qaisarkhan123/IRAQAF-Integrated-Regulatory-Compliant-Quality-Assurance-Framework-sub002/pkg/compliance/history"
	"github.com/qaisarkhan123/IRAQAF-Integrated-Regulatory-Compliant-Quality-Assurance-Framework-sub002/pkg/store"
)

// WatcherConfig configures the poll loop.
type WatcherConfig struct {
	PollInterval time.Duration
	// MinPollGap rate-limits poll cycles regardless of how often PollOnce
	// is invoked.
	MinPollGap time.Duration
	// MatchThreshold is handed through to the aligner.
	MatchThreshold float64
}

// DefaultWatcherConfig returns defaults suitable for a daily batch setup.
func DefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		PollInterval:   15 * time.Minute,
		MinPollGap:     time.Minute,
		MatchThreshold: clausediff.DefaultMatchThreshold,
	}
}

// Watcher drives the diff pipeline off the update service.
type Watcher struct {
	config  WatcherConfig
	updates drift.UpdateService
	source  RevisionSource
	aligner clausediff.Aligner
	ledger  *history.Ledger
	monitor *drift.Monitor

	// lastSeen persists the most recent revision text per framework so
	// the next poll has an old side to diff against.
	lastSeen *store.Document

	limiter *rate.Limiter
	clock   func() time.Time
	logger  *slog.Logger
}

// NewWatcher wires the watcher. updates and source may be nil; polling
// then degrades to a no-op signal per the collaborator contract.
func NewWatcher(
	config WatcherConfig,
	updates drift.UpdateService,
	source RevisionSource,
	aligner clausediff.Aligner,
	ledger *history.Ledger,
	monitor *drift.Monitor,
	lastSeen *store.Document,
) *Watcher {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultWatcherConfig().PollInterval
	}
	if config.MinPollGap <= 0 {
		config.MinPollGap = DefaultWatcherConfig().MinPollGap
	}
	if aligner == nil {
		aligner = clausediff.NewGreedyAligner(nil)
	}
	return &Watcher{
		config:   config,
		updates:  updates,
		source:   source,
		aligner:  aligner,
		ledger:   ledger,
		monitor:  monitor,
		lastSeen: lastSeen,
		limiter:  rate.NewLimiter(rate.Every(config.MinPollGap), 1),
		clock:    time.Now,
		logger:   slog.Default().With("component", "regwatch"),
	}
}

// WithClock overrides the clock for deterministic tests.
func (w *Watcher) WithClock(clock func() time.Time) *Watcher {
	w.clock = clock
	return w
}

// Run polls until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	if _, err := w.PollOnce(ctx); err != nil {
		w.logger.Warn("initial poll failed", "error", err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.PollOnce(ctx); err != nil {
				w.logger.Warn("poll failed", "error", err)
			}
		}
	}
}

// PollOnce runs a single poll cycle and returns how many revisions were
// processed. A missing update service or an empty queue is zero, nil.
func (w *Watcher) PollOnce(ctx context.Context) (int, error) {
	if w.updates == nil {
		return 0, nil
	}
	if !w.limiter.Allow() {
		w.logger.Debug("poll suppressed by rate limit")
		return 0, nil
	}

	pending, err := w.updates.PendingUpdates(ctx)
	if err != nil {
		return 0, fmt.Errorf("pending updates: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	seen := make(map[string]Revision)
	if w.lastSeen != nil {
		if err := w.lastSeen.Load(&seen); err != nil {
			w.logger.Warn("revision state unreadable, diffing from empty", "error", err)
		}
	}

	processed := 0
	var batch []ProcessedUpdate
	for _, update := range pending {
		rev, err := w.fetch(ctx, update)
		if err != nil {
			w.logger.Warn("revision fetch failed",
				"framework", update.Framework, "version", update.NewVersionTag, "error", err)
			continue
		}

		rec := w.aligner.Align(seen[update.Framework].Text, rev.Text, w.config.MatchThreshold)
		severity := clausediff.ClassifySeverity(rec)

		entryID := ""
		if w.ledger != nil {
			entry, err := w.ledger.Record(ctx, update.Framework, rec)
			if err != nil {
				w.logger.Error("history record failed", "framework", update.Framework, "error", err)
			} else {
				entryID = entry.EntryID
			}
		}

		batch = append(batch, ProcessedUpdate{
			Framework:   update.Framework,
			VersionTag:  update.NewVersionTag,
			Severity:    string(severity),
			EntryID:     entryID,
			ProcessedAt: nowISO(w.clock),
		})
		seen[update.Framework] = rev
		processed++

		w.logger.Info("regulation revision processed",
			"framework", update.Framework, "version", update.NewVersionTag,
			"severity", severity,
			"added", len(rec.Added), "removed", len(rec.Removed), "modified", len(rec.Modified))
	}

	if processed > 0 {
		if w.lastSeen != nil {
			if err := w.lastSeen.Save(seen); err != nil {
				w.logger.Error("revision state persist failed", "error", err)
			}
		}
		if w.monitor != nil {
			if _, err := w.monitor.RecordSnapshot(drift.CategoryRegulations, batch); err != nil {
				w.logger.Error("regulations snapshot failed", "error", err)
			}
		}
	}
	return processed, nil
}

func (w *Watcher) fetch(ctx context.Context, update drift.PendingUpdate) (Revision, error) {
	if w.source == nil {
		return Revision{}, fmt.Errorf("no revision source configured")
	}
	rev, err := w.source.FetchRevision(ctx, update.Framework, update.NewVersionTag)
	if err != nil {
		return Revision{}, err
	}
	if rev.FetchedAt == "" {
		rev.FetchedAt = nowISO(w.clock)
	}
	return rev, nil
}
