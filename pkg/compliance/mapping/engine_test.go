package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		Frameworks: map[string]Framework{
			"gdpr": {
				Name:         "General Data Protection Regulation",
				Version:      "2016/679",
				Jurisdiction: "EU",
				Clauses: []Clause{
					{
						ClauseID:            "art-30",
						Title:               "Records of processing activities",
						Category:            "documentation",
						EvidenceRequired:    []string{"processing_register", "dpo_signoff", "retention_policy", "data_map"},
						ComplianceThreshold: 0.90,
						RiskLevel:           "high",
						SDLCPhase:           []string{"Design", "Data Collection"},
					},
					{
						ClauseID:         "art-32",
						Title:            "Security of processing",
						Category:         "security",
						EvidenceRequired: []string{"encryption_policy", "access_control_matrix"},
						RiskLevel:        "critical",
						SDLCPhase:        []string{"Deployment"},
					},
				},
			},
		},
	}
}

func TestEvaluatePartialEvidence(t *testing.T) {
	e := NewEngineWithConfig(testConfig())

	// 3 of 4 evidence items provided against a 0.90 threshold.
	eval, err := e.Evaluate("gdpr", "art-30", EvidenceStatus{
		"processing_register": true,
		"dpo_signoff":         true,
		"retention_policy":    true,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.75, eval.EvidenceCompleteness, 1e-9)
	assert.False(t, eval.Compliant)
	assert.Equal(t, []string{"data_map"}, eval.MissingEvidence)
}

func TestEvaluateFullEvidence(t *testing.T) {
	e := NewEngineWithConfig(testConfig())

	eval, err := e.Evaluate("gdpr", "art-32", EvidenceStatus{
		"encryption_policy":     true,
		"access_control_matrix": true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, eval.EvidenceCompleteness)
	assert.True(t, eval.Compliant, "default threshold 0.90 applies when unset")
}

func TestEvaluateUnknownFramework(t *testing.T) {
	e := NewEngineWithConfig(testConfig())

	eval, err := e.Evaluate("hipaa", "art-30", nil)
	require.ErrorIs(t, err, ErrUnknownFramework)
	assert.NotEmpty(t, eval.Err, "result object must carry the error for batch callers")
	assert.Equal(t, "hipaa", eval.Framework)
}

func TestEvaluateUnknownClause(t *testing.T) {
	e := NewEngineWithConfig(testConfig())

	eval, err := e.Evaluate("gdpr", "art-99", nil)
	require.ErrorIs(t, err, ErrUnknownClause)
	assert.NotEmpty(t, eval.Err)
}

func TestComplianceMapDefaultsToAbsentEvidence(t *testing.T) {
	e := NewEngineWithConfig(testConfig())

	result := e.ComplianceMap(nil)
	require.Contains(t, result, "gdpr")

	agg := result["gdpr"]
	assert.Equal(t, 2, agg.TotalClauses)
	assert.Equal(t, 0, agg.CompliantClauses)
	assert.Equal(t, 0.0, agg.OverallScore)
	for _, eval := range agg.Evaluations {
		assert.False(t, eval.Compliant)
	}
}

func TestComplianceMapAggregation(t *testing.T) {
	e := NewEngineWithConfig(testConfig())

	result := e.ComplianceMap(map[ClauseKey]EvidenceStatus{
		{Framework: "gdpr", ClauseID: "art-32"}: {
			"encryption_policy":     true,
			"access_control_matrix": true,
		},
	})

	agg := result["gdpr"]
	assert.Equal(t, 1, agg.CompliantClauses)
	assert.InDelta(t, 50.0, agg.OverallScore, 1e-9)
}

func TestEngineSoftFailsOnMissingConfig(t *testing.T) {
	e := NewEngine("/nonexistent/clauses.yaml")
	assert.Empty(t, e.Frameworks())

	result := e.ComplianceMap(nil)
	assert.Empty(t, result)
}
