package sdlc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qaisarkhan123/IRAQAF-Integrated-Regulatory-Compliant-Quality-Assurance-Framework-sub002/pkg/compliance/mapping"
)

func clause(id string, phases ...string) mapping.Clause {
	return mapping.Clause{ClauseID: id, Title: id, SDLCPhase: phases}
}

func TestAssessPhaseCoverage(t *testing.T) {
	clauses := []mapping.Clause{
		clause("c1", "Design"),
		clause("c2", "Design"),
		clause("c3", "Validation"),
		clause("c4", "Deployment", "Post-Market Monitoring"),
	}
	compliant := map[string]bool{"c1": true, "c3": true, "c4": true}

	report := NewTracker().Assess(clauses, compliant)
	require.Len(t, report.Phases, 6)

	byPhase := map[string]PhaseCoverage{}
	for _, pc := range report.Phases {
		byPhase[pc.Phase] = pc
	}

	assert.InDelta(t, 50.0, byPhase["Design"].Coverage, 1e-9)
	assert.InDelta(t, 100.0, byPhase["Validation"].Coverage, 1e-9)
	assert.InDelta(t, 100.0, byPhase["Deployment"].Coverage, 1e-9)
	assert.InDelta(t, 100.0, byPhase["Post-Market Monitoring"].Coverage, 1e-9)
	assert.Zero(t, byPhase["Model Training"].Coverage, "untagged phase scores zero")

	// (50 + 0 + 0 + 100 + 100 + 100) / 6
	assert.InDelta(t, 58.333333, report.OverallScore, 1e-4)
}

func TestAssessGapBuckets(t *testing.T) {
	clauses := []mapping.Clause{
		clause("a1", "Design"), clause("a2", "Design"), clause("a3", "Design"), // 1/3 compliant → critical
		clause("b1", "Validation"), clause("b2", "Validation"),                 // 1/2 → high
		clause("c1", "Deployment"), clause("c2", "Deployment"),
		clause("c3", "Deployment"), clause("c4", "Deployment"),
		clause("c5", "Deployment"), // 4/5 = 80 → medium
		clause("d1", "Model Training"), // 1/1 → no gap
	}
	compliant := map[string]bool{
		"a1": true, "b1": true,
		"c1": true, "c2": true, "c3": true, "c4": true,
		"d1": true,
	}

	report := NewTracker().Assess(clauses, compliant)

	assert.Contains(t, report.CriticalGaps, "Design")
	assert.Contains(t, report.HighPriorityGaps, "Validation")
	assert.Contains(t, report.MediumPriorityGaps, "Deployment")
	assert.NotContains(t, report.CriticalGaps, "Model Training")
	assert.NotContains(t, report.HighPriorityGaps, "Model Training")
	assert.NotContains(t, report.MediumPriorityGaps, "Model Training")

	// Each phase lands in at most one bucket.
	seen := map[string]int{}
	for _, p := range report.CriticalGaps {
		seen[p]++
	}
	for _, p := range report.HighPriorityGaps {
		seen[p]++
	}
	for _, p := range report.MediumPriorityGaps {
		seen[p]++
	}
	for phase, n := range seen {
		assert.Equal(t, 1, n, "phase %s bucketed more than once", phase)
	}
}

func TestAssessNoClauses(t *testing.T) {
	report := NewTracker().Assess(nil, nil)
	assert.Zero(t, report.OverallScore)
	assert.Len(t, report.CriticalGaps, 6, "empty phases all sit below the critical threshold")
}
