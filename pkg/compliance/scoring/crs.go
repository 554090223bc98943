// Package scoring combines regulatory alignment, evidence completeness,
// lifecycle coverage, governance maturity, and monitoring readiness into
// the Compliance Readiness Score.
package scoring

import (
	"fmt"
	"math"
)

// Fixed CRS weights. Callers cannot override them; NewEngine asserts the
// sum is exactly 1.00.
const (
	WeightRegulatoryAlignment  = 0.30
	WeightEvidenceCompleteness = 0.25
	WeightSDLCAlignment        = 0.20
	WeightGovernanceMaturity   = 0.15
	WeightPostMarketMonitoring = 0.10
)

// placeholderEvidenceCompleteness stands in for a real evidence database
// query when no evidence snapshot is supplied. Documented placeholder
// pending evidence-store integration; do not tune it.
const placeholderEvidenceCompleteness = 0.75

// monitoringFlagPoints is awarded per enabled monitoring capability.
const monitoringFlagPoints = 25.0

// MonitoringFlags are the post-market monitoring readiness capabilities.
type MonitoringFlags struct {
	DriftDetectionEnabled bool `json:"drift_detection_enabled"`
	AlertingEnabled       bool `json:"alerting_enabled"`
	ReportingAutomated    bool `json:"reporting_automated"`
	IncidentResponseReady bool `json:"incident_response_ready"`
}

// Points scores the flag set: 25 points per enabled capability, max 100.
func (f MonitoringFlags) Points() float64 {
	var points float64
	for _, on := range []bool{
		f.DriftDetectionEnabled, f.AlertingEnabled,
		f.ReportingAutomated, f.IncidentResponseReady,
	} {
		if on {
			points += monitoringFlagPoints
		}
	}
	return points
}

// Components are the five CRS sub-scores, each on a 0–100 scale.
type Components struct {
	RegulatoryAlignment  float64 `json:"regulatory_alignment"`
	EvidenceCompleteness float64 `json:"evidence_completeness"`
	SDLCAlignment        float64 `json:"sdlc_alignment"`
	GovernanceMaturity   float64 `json:"governance_maturity"`
	PostMarketMonitoring float64 `json:"post_market_monitoring"`
}

// Result is the composite score with its inputs and weights attached.
type Result struct {
	CRS        float64            `json:"crs"`
	Components Components         `json:"components"`
	Weights    map[string]float64 `json:"weights"`
}

// Inputs are the raw engine outputs the CRS is derived from.
type Inputs struct {
	// FrameworkScores are per-framework overall scores (0–100); their
	// mean is the regulatory alignment component.
	FrameworkScores map[string]float64
	// EvidenceCompleteness is the 0–1 provided/required ratio. Nil falls
	// back to the documented placeholder.
	EvidenceCompleteness *float64
	// SDLCScore is the overall lifecycle coverage (0–100).
	SDLCScore float64
	// GMI is the 1–5 governance maturity index.
	GMI float64
	// Monitoring is the post-market readiness flag set.
	Monitoring MonitoringFlags
}

// Engine computes the CRS.
type Engine struct{}

// NewEngine constructs the engine, asserting the weight invariant.
func NewEngine() (*Engine, error) {
	sum := WeightRegulatoryAlignment + WeightEvidenceCompleteness +
		WeightSDLCAlignment + WeightGovernanceMaturity + WeightPostMarketMonitoring
	if math.Abs(sum-1.0) > 1e-9 {
		return nil, fmt.Errorf("crs weights sum to %v, want 1.00", sum)
	}
	return &Engine{}, nil
}

// Compose combines five ready components into the CRS. Each component is
// clamped into [0, 100]; the result is rounded to two decimals.
func (e *Engine) Compose(c Components) Result {
	c.RegulatoryAlignment = clamp(c.RegulatoryAlignment)
	c.EvidenceCompleteness = clamp(c.EvidenceCompleteness)
	c.SDLCAlignment = clamp(c.SDLCAlignment)
	c.GovernanceMaturity = clamp(c.GovernanceMaturity)
	c.PostMarketMonitoring = clamp(c.PostMarketMonitoring)

	crs := WeightRegulatoryAlignment*c.RegulatoryAlignment +
		WeightEvidenceCompleteness*c.EvidenceCompleteness +
		WeightSDLCAlignment*c.SDLCAlignment +
		WeightGovernanceMaturity*c.GovernanceMaturity +
		WeightPostMarketMonitoring*c.PostMarketMonitoring

	return Result{
		CRS:        math.Round(crs*100) / 100,
		Components: c,
		Weights: map[string]float64{
			"regulatory_alignment":   WeightRegulatoryAlignment,
			"evidence_completeness":  WeightEvidenceCompleteness,
			"sdlc_alignment":         WeightSDLCAlignment,
			"governance_maturity":    WeightGovernanceMaturity,
			"post_market_monitoring": WeightPostMarketMonitoring,
		},
	}
}

// Compute derives the five components from raw inputs and composes them.
func (e *Engine) Compute(in Inputs) Result {
	completeness := placeholderEvidenceCompleteness
	if in.EvidenceCompleteness != nil {
		completeness = *in.EvidenceCompleteness
	}

	return e.Compose(Components{
		RegulatoryAlignment:  meanScore(in.FrameworkScores),
		EvidenceCompleteness: completeness * 100,
		SDLCAlignment:        in.SDLCScore,
		GovernanceMaturity:   in.GMI / 5.0 * 100,
		PostMarketMonitoring: in.Monitoring.Points(),
	})
}

func meanScore(scores map[string]float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

func clamp(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}
