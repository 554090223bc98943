package drift

import (
	"context"
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"
)

func (m *Monitor) checkRegulations(ctx context.Context) CategoryResult {
	r := CategoryResult{Category: CategoryRegulations}
	if m.updates == nil {
		r.Status = StatusNotApplicable
		r.Detail = "update service not available"
		return r
	}

	pending, err := m.updates.PendingUpdates(ctx)
	if err != nil {
		// Degrade to no signal rather than failing the whole pass.
		m.logger.Warn("update service unreachable", "error", err)
		r.Status = StatusNotApplicable
		r.Detail = "update service not available"
		return r
	}
	if len(pending) == 0 {
		r.Status = StatusOK
		return r
	}

	r.Status = StatusDrift
	r.PendingUpdates = pending
	r.Detail = fmt.Sprintf("%d pending regulation updates", len(pending))
	return r
}

func (m *Monitor) checkRegulationScores(current CurrentState) CategoryResult {
	r := CategoryResult{Category: CategoryRegulationScores}

	var baseline map[string]float64
	ok, err := m.decodeLatest(CategoryRegulationScores, &baseline)
	if err != nil {
		m.logger.Warn("unusable regulation score baseline", "error", err)
		ok = false
	}
	if !ok {
		r.Status = StatusNoBaseline
		r.Detail = "no baseline"
		return r
	}

	deltas := make(map[string]float64)
	for fw, score := range current.RegulationScores {
		prev, tracked := baseline[fw]
		if !tracked {
			continue
		}
		if d := score - prev; d > scoreDriftThreshold || d < -scoreDriftThreshold {
			deltas[fw] = d
		}
	}
	if len(deltas) == 0 {
		r.Status = StatusOK
		return r
	}

	r.Status = StatusDrift
	r.ScoreDeltas = deltas
	r.Detail = fmt.Sprintf("%d framework scores moved more than %.0f points", len(deltas), scoreDriftThreshold)
	return r
}

func (m *Monitor) checkEvidence(current CurrentState) CategoryResult {
	r := CategoryResult{Category: CategoryEvidence}

	var baseline map[string]EvidenceRecord
	ok, err := m.decodeLatest(CategoryEvidence, &baseline)
	if err != nil {
		m.logger.Warn("unusable evidence baseline", "error", err)
		ok = false
	}
	if !ok {
		r.Status = StatusNoBaseline
		r.Detail = "no baseline"
		return r
	}

	for clause, rec := range current.Evidence {
		if rec.AgeDays > staleEvidenceDays {
			r.StaleEvidence = append(r.StaleEvidence, clause)
		}
	}
	for clause := range baseline {
		if _, present := current.Evidence[clause]; !present {
			r.MissingEvidence = append(r.MissingEvidence, clause)
		}
	}
	sort.Strings(r.StaleEvidence)
	sort.Strings(r.MissingEvidence)

	if len(r.StaleEvidence) == 0 && len(r.MissingEvidence) == 0 {
		r.Status = StatusOK
		return r
	}
	r.Status = StatusDrift
	r.Detail = fmt.Sprintf("%d stale, %d missing evidence items", len(r.StaleEvidence), len(r.MissingEvidence))
	return r
}

func (m *Monitor) checkDocumentation(current CurrentState) CategoryResult {
	r := CategoryResult{Category: CategoryDocumentation}

	var baseline map[string]string
	ok, err := m.decodeLatest(CategoryDocumentation, &baseline)
	if err != nil {
		m.logger.Warn("unusable documentation baseline", "error", err)
		ok = false
	}
	if !ok {
		r.Status = StatusNoBaseline
		r.Detail = "no baseline"
		return r
	}

	for doc, version := range current.Documentation {
		prev, tracked := baseline[doc]
		if !tracked || prev == version {
			continue
		}
		r.ChangedDocs = append(r.ChangedDocs, DocChange{
			Document:    doc,
			FromVersion: prev,
			ToVersion:   version,
			Direction:   versionDirection(prev, version),
		})
	}
	sort.Slice(r.ChangedDocs, func(i, j int) bool {
		return r.ChangedDocs[i].Document < r.ChangedDocs[j].Document
	})

	if len(r.ChangedDocs) == 0 {
		r.Status = StatusOK
		return r
	}
	r.Status = StatusDrift
	r.Detail = fmt.Sprintf("%d documents changed version", len(r.ChangedDocs))
	return r
}

func (m *Monitor) checkModelVersion(current CurrentState) CategoryResult {
	r := CategoryResult{Category: CategoryModelVersion}

	var baseline string
	ok, err := m.decodeLatest(CategoryModelVersion, &baseline)
	if err != nil {
		m.logger.Warn("unusable model version baseline", "error", err)
		ok = false
	}
	if !ok {
		r.Status = StatusNoBaseline
		r.Detail = "no baseline"
		return r
	}

	// An unset-to-set transition counts as drift the same as any change.
	if current.ModelVersion == baseline {
		r.Status = StatusOK
		return r
	}
	r.Status = StatusDrift
	r.FromVersion = baseline
	r.ToVersion = current.ModelVersion
	r.Detail = fmt.Sprintf("model version changed from %q to %q", baseline, current.ModelVersion)
	return r
}

func (m *Monitor) checkSDLC(current CurrentState) CategoryResult {
	r := CategoryResult{Category: CategorySDLC}

	if _, ok := m.latest(CategorySDLC); !ok {
		r.Status = StatusNoBaseline
		r.Detail = "no baseline"
		return r
	}
	if len(current.SDLCChanges) == 0 {
		r.Status = StatusOK
		return r
	}
	r.Status = StatusDrift
	r.Changes = current.SDLCChanges
	r.Detail = fmt.Sprintf("%d process changes reported", len(current.SDLCChanges))
	return r
}

// versionDirection compares two version strings as semver when both
// parse, reporting upgrade or downgrade. Non-semver strings yield no
// direction; inequality alone already counted as drift.
func versionDirection(from, to string) string {
	vFrom, errFrom := semver.NewVersion(from)
	vTo, errTo := semver.NewVersion(to)
	if errFrom != nil || errTo != nil {
		return ""
	}
	switch {
	case vTo.GreaterThan(vFrom):
		return "upgrade"
	case vTo.LessThan(vFrom):
		return "downgrade"
	default:
		return ""
	}
}
