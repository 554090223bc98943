// Package drift tracks capped rolling snapshots per compliance dimension
// and compares current state against the latest recorded baseline.
package drift

import (
	"context"
	"encoding/json"
)

// Category is a tracked compliance dimension.
type Category string

const (
	CategoryRegulations      Category = "regulations"
	CategoryRegulationScores Category = "regulation_scores"
	CategoryEvidence         Category = "evidence"
	CategoryDocumentation    Category = "documentation"
	CategoryModelVersion     Category = "model_version"
	CategorySDLC             Category = "sdlc"
)

// Categories lists every tracked dimension.
func Categories() []Category {
	return []Category{
		CategoryRegulations,
		CategoryRegulationScores,
		CategoryEvidence,
		CategoryDocumentation,
		CategoryModelVersion,
		CategorySDLC,
	}
}

// Snapshot is one recorded baseline. Timestamp is an ISO-8601 string so
// the latest-baseline lookup can compare lexicographically.
type Snapshot struct {
	SnapshotID string          `json:"snapshot_id"`
	Timestamp  string          `json:"timestamp"`
	Data       json.RawMessage `json:"data"`
}

// Status tags a per-category comparison outcome.
type Status string

const (
	StatusOK            Status = "ok"
	StatusDrift         Status = "drift"
	StatusNoBaseline    Status = "no_baseline"
	StatusNotApplicable Status = "not_applicable"
)

// Severity is the aggregate drift verdict level.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// EvidenceRecord is the per-clause evidence state tracked for staleness.
type EvidenceRecord struct {
	AgeDays int `json:"age_days"`
}

// DocChange describes one documentation version change.
type DocChange struct {
	Document    string `json:"document"`
	FromVersion string `json:"from_version"`
	ToVersion   string `json:"to_version"`
	// Direction is "upgrade" or "downgrade" when both versions parse as
	// semver, empty otherwise.
	Direction string `json:"direction,omitempty"`
}

// CategoryResult is the tagged outcome for one dimension.
type CategoryResult struct {
	Category Category `json:"category"`
	Status   Status   `json:"status"`
	Detail   string   `json:"detail,omitempty"`

	PendingUpdates  []PendingUpdate    `json:"pending_updates,omitempty"`
	ScoreDeltas     map[string]float64 `json:"score_deltas,omitempty"`
	StaleEvidence   []string           `json:"stale_evidence,omitempty"`
	MissingEvidence []string           `json:"missing_evidence,omitempty"`
	ChangedDocs     []DocChange        `json:"changed_docs,omitempty"`
	FromVersion     string             `json:"from_version,omitempty"`
	ToVersion       string             `json:"to_version,omitempty"`
	Changes         []string           `json:"changes,omitempty"`
}

// Drifted reports whether this category deviated from its baseline.
func (r CategoryResult) Drifted() bool { return r.Status == StatusDrift }

// Verdict is the ephemeral result of one drift detection pass.
type Verdict struct {
	DriftDetected bool                        `json:"drift_detected"`
	Areas         map[Category]CategoryResult `json:"areas"`
	Severity      Severity                    `json:"severity"`
}

// CurrentState is the externally supplied state compared against the
// recorded baselines.
type CurrentState struct {
	RegulationScores map[string]float64        `json:"regulation_scores,omitempty"`
	Evidence         map[string]EvidenceRecord `json:"evidence,omitempty"`
	Documentation    map[string]string         `json:"documentation,omitempty"`
	ModelVersion     string                    `json:"model_version,omitempty"`
	SDLCChanges      []string                  `json:"sdlc_changes,omitempty"`
}

// PendingUpdate is one regulation revision the update service has queued.
type PendingUpdate struct {
	Framework     string `json:"framework"`
	NewVersionTag string `json:"new_version_tag"`
	Summary       string `json:"summary,omitempty"`
}

// UpdateService is the optional collaborator that knows about pending
// regulation revisions. Absence degrades to "no drift signal".
type UpdateService interface {
	PendingUpdates(ctx context.Context) ([]PendingUpdate, error)
}
