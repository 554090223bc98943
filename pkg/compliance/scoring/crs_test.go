package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine()
	require.NoError(t, err)
	return e
}

func TestWeightsSumToOne(t *testing.T) {
	_, err := NewEngine()
	assert.NoError(t, err)

	sum := WeightRegulatoryAlignment + WeightEvidenceCompleteness +
		WeightSDLCAlignment + WeightGovernanceMaturity + WeightPostMarketMonitoring
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestComposeReferenceScenario(t *testing.T) {
	result := newEngine(t).Compose(Components{
		RegulatoryAlignment:  80,
		EvidenceCompleteness: 70,
		SDLCAlignment:        90,
		GovernanceMaturity:   60,
		PostMarketMonitoring: 100,
	})
	// 0.30·80 + 0.25·70 + 0.20·90 + 0.15·60 + 0.10·100 = 78.5
	assert.Equal(t, 78.5, result.CRS)
}

func TestComposeClampsComponents(t *testing.T) {
	result := newEngine(t).Compose(Components{
		RegulatoryAlignment:  150,
		EvidenceCompleteness: -10,
	})
	assert.Equal(t, 100.0, result.Components.RegulatoryAlignment)
	assert.Equal(t, 0.0, result.Components.EvidenceCompleteness)
	assert.Equal(t, 30.0, result.CRS)
}

func TestMonitoringFlagPoints(t *testing.T) {
	assert.Equal(t, 0.0, MonitoringFlags{}.Points())
	assert.Equal(t, 50.0, MonitoringFlags{DriftDetectionEnabled: true, AlertingEnabled: true}.Points())
	assert.Equal(t, 100.0, MonitoringFlags{true, true, true, true}.Points())
}

func TestComputeDerivesComponents(t *testing.T) {
	completeness := 0.9
	result := newEngine(t).Compute(Inputs{
		FrameworkScores:      map[string]float64{"gdpr": 80, "eu_ai_act": 60},
		EvidenceCompleteness: &completeness,
		SDLCScore:            50,
		GMI:                  4.0,
		Monitoring:           MonitoringFlags{DriftDetectionEnabled: true},
	})

	assert.Equal(t, 70.0, result.Components.RegulatoryAlignment, "mean of framework scores")
	assert.Equal(t, 90.0, result.Components.EvidenceCompleteness)
	assert.Equal(t, 80.0, result.Components.GovernanceMaturity, "GMI 4 of 5 maps to 80")
	assert.Equal(t, 25.0, result.Components.PostMarketMonitoring)
	// 0.30·70 + 0.25·90 + 0.20·50 + 0.15·80 + 0.10·25 = 68.0
	assert.Equal(t, 68.0, result.CRS)
}

func TestComputeEvidencePlaceholder(t *testing.T) {
	result := newEngine(t).Compute(Inputs{})
	assert.Equal(t, 75.0, result.Components.EvidenceCompleteness,
		"absent evidence snapshot falls back to the documented placeholder ratio")
}

func TestComputeNoFrameworks(t *testing.T) {
	result := newEngine(t).Compute(Inputs{GMI: 1.0})
	assert.Equal(t, 0.0, result.Components.RegulatoryAlignment)
	assert.Equal(t, 20.0, result.Components.GovernanceMaturity)
}

func TestResultCarriesWeights(t *testing.T) {
	result := newEngine(t).Compose(Components{})
	var sum float64
	for _, w := range result.Weights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}
