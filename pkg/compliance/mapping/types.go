// Package mapping evaluates clause-level compliance from evidence status
// against a configured framework/clause catalog.
package mapping

// DefaultComplianceThreshold applies when a clause does not set its own.
const DefaultComplianceThreshold = 0.90

// Clause is an atomic regulatory requirement unit. Loaded once from
// configuration; read-only at runtime.
type Clause struct {
	ClauseID            string   `yaml:"clause_id" json:"clause_id"`
	Title               string   `yaml:"title" json:"title"`
	Category            string   `yaml:"category" json:"category"`
	EvidenceRequired    []string `yaml:"evidence_required" json:"evidence_required"`
	ComplianceThreshold float64  `yaml:"compliance_threshold,omitempty" json:"compliance_threshold,omitempty"`
	RiskLevel           string   `yaml:"risk_level" json:"risk_level"`
	SDLCPhase           []string `yaml:"sdlc_phase" json:"sdlc_phase"`
}

// Framework is a regulation framework and its clause catalog.
type Framework struct {
	Name         string   `yaml:"name" json:"name"`
	Version      string   `yaml:"version" json:"version"`
	Jurisdiction string   `yaml:"jurisdiction" json:"jurisdiction"`
	Clauses      []Clause `yaml:"clauses" json:"clauses"`
}

// Config is the full clause configuration document.
type Config struct {
	Frameworks map[string]Framework `yaml:"frameworks" json:"frameworks"`
}

// ClauseKey addresses one clause within one framework.
type ClauseKey struct {
	Framework string
	ClauseID  string
}

// EvidenceStatus maps evidence type to whether it is provided.
type EvidenceStatus map[string]bool

// ComplianceEvaluation is the derived, non-persisted result of evaluating
// one clause. Err carries lookup failures so a map-wide aggregation can
// continue past a single bad entry.
type ComplianceEvaluation struct {
	ClauseID             string   `json:"clause_id"`
	Framework            string   `json:"framework"`
	EvidenceCompleteness float64  `json:"evidence_completeness"`
	Compliant            bool     `json:"compliant"`
	MissingEvidence      []string `json:"missing_evidence,omitempty"`
	Err                  string   `json:"error,omitempty"`
}

// FrameworkCompliance aggregates clause evaluations for one framework.
type FrameworkCompliance struct {
	Framework        string                 `json:"framework"`
	TotalClauses     int                    `json:"total_clauses"`
	CompliantClauses int                    `json:"compliant_clauses"`
	OverallScore     float64                `json:"overall_score"`
	Evaluations      []ComplianceEvaluation `json:"evaluations"`
}
