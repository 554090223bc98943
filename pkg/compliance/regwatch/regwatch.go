// Package regwatch connects the diff engine to the external regulation
// update service: it polls for pending revisions, diffs them against the
// last seen text, and feeds the results into the history ledger and the
// drift monitor. All scheduling lives here, outside the core engines.
package regwatch

import (
	"context"
	"time"

	"github.com/qaisarkhan123/IRAQAF-Integrated-Regulatory-Compliant-Quality-Assurance-Framework-sub002/pkg/compliance/drift"
)

// Revision is one fetched regulation text revision.
type Revision struct {
	Framework  string `json:"framework"`
	VersionTag string `json:"version_tag"`
	Text       string `json:"text"`
	FetchedAt  string `json:"fetched_at,omitempty"`
}

// RevisionSource fetches the full text of a pending revision. The
// fetching/scraping layer itself is an external collaborator; this is
// its in-process contract.
type RevisionSource interface {
	FetchRevision(ctx context.Context, framework, versionTag string) (Revision, error)
}

// NoopService is an UpdateService that never has pending updates, for
// deployments without a regulation feed.
type NoopService struct{}

// PendingUpdates implements drift.UpdateService.
func (NoopService) PendingUpdates(context.Context) ([]drift.PendingUpdate, error) {
	return nil, nil
}

// StaticService serves a fixed pending-update list, consumed as updates
// are acknowledged. Used in tests and offline replays.
type StaticService struct {
	Updates []drift.PendingUpdate
}

// PendingUpdates implements drift.UpdateService.
func (s *StaticService) PendingUpdates(context.Context) ([]drift.PendingUpdate, error) {
	return s.Updates, nil
}

// Acknowledge drops updates that have been processed.
func (s *StaticService) Acknowledge(framework, versionTag string) {
	kept := s.Updates[:0]
	for _, u := range s.Updates {
		if u.Framework != framework || u.NewVersionTag != versionTag {
			kept = append(kept, u)
		}
	}
	s.Updates = kept
}

// ProcessedUpdate records one revision the watcher has run through the
// diff engine, kept as the regulations drift snapshot payload.
type ProcessedUpdate struct {
	Framework   string `json:"framework"`
	VersionTag  string `json:"version_tag"`
	Severity    string `json:"severity"`
	EntryID     string `json:"entry_id"`
	ProcessedAt string `json:"processed_at"`
}

// nowISO formats a clock reading the way snapshot timestamps are stored.
func nowISO(clock func() time.Time) string {
	return clock().UTC().Format(time.RFC3339Nano)
}
