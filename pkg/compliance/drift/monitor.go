package drift

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/qaisarkhan123/IRAQAF-Integrated-Regulatory-Compliant-Quality-Assurance-Framework-sub002/pkg/store"
)

// maxSnapshotsPerCategory caps each rolling history; oldest evicted first.
const maxSnapshotsPerCategory = 100

// staleEvidenceDays is the age past which a clause's evidence is stale.
const staleEvidenceDays = 90

// scoreDriftThreshold is the per-framework score delta (percentage
// points) that counts as drift.
const scoreDriftThreshold = 5.0

// Monitor stores rolling baselines and detects drift against them. The
// snapshot history lives in one JSON document, loaded at construction and
// rewritten after every RecordSnapshot.
type Monitor struct {
	mu      sync.Mutex
	doc     *store.Document
	history map[Category][]Snapshot
	updates UpdateService
	clock   func() time.Time
	logger  *slog.Logger
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithUpdateService wires the pending-updates collaborator.
func WithUpdateService(svc UpdateService) Option {
	return func(m *Monitor) { m.updates = svc }
}

// WithClock overrides the clock for deterministic tests.
func WithClock(clock func() time.Time) Option {
	return func(m *Monitor) { m.clock = clock }
}

// NewMonitor creates a monitor over the given snapshot document. An
// unreadable document degrades to an empty history.
func NewMonitor(doc *store.Document, opts ...Option) *Monitor {
	m := &Monitor{
		doc:     doc,
		history: make(map[Category][]Snapshot),
		clock:   time.Now,
		logger:  slog.Default().With("component", "drift"),
	}
	for _, opt := range opts {
		opt(m)
	}
	if doc != nil {
		if err := doc.Load(&m.history); err != nil {
			m.logger.Warn("snapshot history unreadable, starting empty", "error", err)
			m.history = make(map[Category][]Snapshot)
		}
	}
	return m
}

// RecordSnapshot appends a baseline for the category, trims the rolling
// window to the last hundred entries, and persists. A failed persist is
// logged and skipped; the in-memory baseline still stands.
func (m *Monitor) RecordSnapshot(category Category, data any) (Snapshot, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Snapshot{}, fmt.Errorf("marshal snapshot data: %w", err)
	}

	snap := Snapshot{
		SnapshotID: uuid.NewString(),
		Timestamp:  m.clock().UTC().Format(time.RFC3339Nano),
		Data:       raw,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	list := append(m.history[category], snap)
	if len(list) > maxSnapshotsPerCategory {
		list = list[len(list)-maxSnapshotsPerCategory:]
	}
	m.history[category] = list

	if m.doc != nil {
		if err := m.doc.Save(m.history); err != nil {
			m.logger.Error("snapshot persist failed, continuing in memory", "category", category, "error", err)
		}
	}
	return snap, nil
}

// SnapshotCount returns the number of stored snapshots for a category.
func (m *Monitor) SnapshotCount(category Category) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.history[category])
}

// latest returns the snapshot with the maximum timestamp string for the
// category. ISO-8601 timestamps sort lexicographically, so string
// comparison is chronological comparison.
func (m *Monitor) latest(category Category) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.history[category]
	if len(list) == 0 {
		return Snapshot{}, false
	}
	best := list[0]
	for _, s := range list[1:] {
		if s.Timestamp > best.Timestamp {
			best = s
		}
	}
	return best, true
}

// DetectDrift compares current state to the latest baseline in every
// category and aggregates a severity verdict.
func (m *Monitor) DetectDrift(ctx context.Context, current CurrentState) Verdict {
	areas := map[Category]CategoryResult{
		CategoryRegulations:      m.checkRegulations(ctx),
		CategoryRegulationScores: m.checkRegulationScores(current),
		CategoryEvidence:         m.checkEvidence(current),
		CategoryDocumentation:    m.checkDocumentation(current),
		CategoryModelVersion:     m.checkModelVersion(current),
		CategorySDLC:             m.checkSDLC(current),
	}

	verdict := Verdict{Areas: areas, Severity: SeverityNone}
	for _, r := range areas {
		if r.Drifted() {
			verdict.DriftDetected = true
		}
	}
	verdict.Severity = aggregateSeverity(areas)
	return verdict
}

// aggregateSeverity: critical when regulations drifted or evidence went
// missing; high when more than two dimensions drifted; medium when one or
// two did; none otherwise.
func aggregateSeverity(areas map[Category]CategoryResult) Severity {
	regs := areas[CategoryRegulations]
	ev := areas[CategoryEvidence]
	if regs.Drifted() || (ev.Drifted() && len(ev.MissingEvidence) > 0) {
		return SeverityCritical
	}

	drifted := 0
	for _, r := range areas {
		if r.Drifted() {
			drifted++
		}
	}
	switch {
	case drifted > 2:
		return SeverityHigh
	case drifted >= 1:
		return SeverityMedium
	default:
		return SeverityNone
	}
}

// decodeLatest unmarshals the latest baseline for a category into v.
func (m *Monitor) decodeLatest(category Category, v any) (bool, error) {
	snap, ok := m.latest(category)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(snap.Data, v); err != nil {
		return false, fmt.Errorf("decode %s baseline: %w", category, err)
	}
	return true, nil
}
