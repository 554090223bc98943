// Package sdlc maps clauses to software development lifecycle phases and
// computes per-phase and overall compliance coverage.
package sdlc

import (
	"github.com/qaisarkhan123/IRAQAF-Integrated-Regulatory-Compliant-Quality-Assurance-Framework-sub002/pkg/compliance/mapping"
)

// Phases is the fixed, ordered lifecycle phase list.
var Phases = []string{
	"Design",
	"Data Collection",
	"Model Training",
	"Validation",
	"Deployment",
	"Post-Market Monitoring",
}

// Gap thresholds: a phase falls into exactly one bucket.
const (
	criticalGapBelow = 50.0
	highGapBelow     = 75.0
	mediumGapBelow   = 90.0
)

// PhaseCoverage is the compliance coverage of one lifecycle phase.
type PhaseCoverage struct {
	Phase            string  `json:"phase"`
	TotalClauses     int     `json:"total_clauses"`
	CompliantClauses int     `json:"compliant_clauses"`
	Coverage         float64 `json:"coverage"`
}

// Report is the full lifecycle coverage assessment.
type Report struct {
	Phases             []PhaseCoverage `json:"phases"`
	OverallScore       float64         `json:"overall_score"`
	CriticalGaps       []string        `json:"critical_gaps,omitempty"`
	HighPriorityGaps   []string        `json:"high_priority_gaps,omitempty"`
	MediumPriorityGaps []string        `json:"medium_priority_gaps,omitempty"`
}

// Tracker computes lifecycle coverage from clause phase tags and
// compliance outcomes.
type Tracker struct{}

// NewTracker creates a tracker.
func NewTracker() *Tracker { return &Tracker{} }

// Assess computes per-phase coverage over the given clauses. compliant
// maps clause ID to its evaluation outcome; clauses without an entry
// count as non-compliant.
func (t *Tracker) Assess(clauses []mapping.Clause, compliant map[string]bool) Report {
	report := Report{Phases: make([]PhaseCoverage, 0, len(Phases))}

	var sum float64
	for _, phase := range Phases {
		pc := PhaseCoverage{Phase: phase}
		for _, clause := range clauses {
			if !taggedWith(clause, phase) {
				continue
			}
			pc.TotalClauses++
			if compliant[clause.ClauseID] {
				pc.CompliantClauses++
			}
		}
		if pc.TotalClauses > 0 {
			pc.Coverage = float64(pc.CompliantClauses) / float64(pc.TotalClauses) * 100
		}
		sum += pc.Coverage
		report.Phases = append(report.Phases, pc)

		switch {
		case pc.Coverage < criticalGapBelow:
			report.CriticalGaps = append(report.CriticalGaps, phase)
		case pc.Coverage < highGapBelow:
			report.HighPriorityGaps = append(report.HighPriorityGaps, phase)
		case pc.Coverage < mediumGapBelow:
			report.MediumPriorityGaps = append(report.MediumPriorityGaps, phase)
		}
	}

	report.OverallScore = sum / float64(len(Phases))
	return report
}

func taggedWith(clause mapping.Clause, phase string) bool {
	for _, p := range clause.SDLCPhase {
		if p == phase {
			return true
		}
	}
	return false
}
