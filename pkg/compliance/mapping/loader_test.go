package mapping

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
frameworks:
  eu_ai_act:
    name: EU Artificial Intelligence Act
    version: "2024/1689"
    jurisdiction: EU
    clauses:
      - clause_id: art-9
        title: Risk management system
        category: governance
        evidence_required: [risk_register, review_minutes]
        compliance_threshold: 0.8
        risk_level: high
        sdlc_phase: [Design, Validation]
      - clause_id: art-10
        title: Data and data governance
        evidence_required: [data_quality_report]
        sdlc_phase: [Data Collection]
`

func TestParseConfigYAML(t *testing.T) {
	cfg, err := ParseConfig([]byte(sampleYAML))
	require.NoError(t, err)

	fw, ok := cfg.Frameworks["eu_ai_act"]
	require.True(t, ok)
	require.Len(t, fw.Clauses, 2)
	assert.Equal(t, 0.8, fw.Clauses[0].ComplianceThreshold)
	assert.Equal(t, DefaultComplianceThreshold, fw.Clauses[1].ComplianceThreshold,
		"unset threshold takes the default")
	assert.Equal(t, []string{"Design", "Validation"}, fw.Clauses[0].SDLCPhase)
}

func TestParseConfigJSON(t *testing.T) {
	raw := []byte(`{"frameworks":{"gdpr":{"name":"GDPR","clauses":[
		{"clause_id":"art-30","title":"Records","evidence_required":["register"]}]}}}`)
	cfg, err := ParseConfig(raw)
	require.NoError(t, err)
	assert.Len(t, cfg.Frameworks["gdpr"].Clauses, 1)
}

func TestParseConfigRejectsBadThreshold(t *testing.T) {
	raw := []byte(`{"frameworks":{"gdpr":{"name":"GDPR","clauses":[
		{"clause_id":"art-30","title":"Records","compliance_threshold":1.5}]}}}`)
	_, err := ParseConfig(raw)
	assert.Error(t, err)

	raw = []byte(`{"frameworks":{"gdpr":{"name":"GDPR","clauses":[
		{"clause_id":"art-30","title":"Records","compliance_threshold":0}]}}}`)
	_, err = ParseConfig(raw)
	assert.Error(t, err)
}

func TestParseConfigRejectsMissingRequired(t *testing.T) {
	_, err := ParseConfig([]byte(`{"frameworks":{"gdpr":{"clauses":[]}}}`))
	assert.Error(t, err, "framework name is required")

	_, err = ParseConfig([]byte(`{}`))
	assert.Error(t, err, "frameworks key is required")
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clauses.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Contains(t, cfg.Frameworks, "eu_ai_act")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
