// Package clausediff implements clause-level diffing of regulation text:
// sentence splitting, bounded-vocabulary TF-IDF similarity, greedy clause
// alignment, and severity classification of the aggregate change profile.
package clausediff

// AddedClause is a clause present only in the new revision.
type AddedClause struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence,omitempty"`
}

// RemovedClause is a clause present only in the old revision.
// Confidence is 1 minus the best similarity any new clause achieved.
type RemovedClause struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// ModifiedClause pairs an old clause with its best-matching revision.
type ModifiedClause struct {
	OldText    string  `json:"old_text"`
	NewText    string  `json:"new_text"`
	Similarity float64 `json:"similarity"`
}

// ChangeRecord is the result of aligning two regulation revisions.
// Immutable once computed.
type ChangeRecord struct {
	Added           []AddedClause    `json:"added"`
	Removed         []RemovedClause  `json:"removed"`
	Modified        []ModifiedClause `json:"modified"`
	SimilarityScore float64          `json:"similarity_score"`
	TotalOldClauses int              `json:"total_old_clauses"`
	TotalNewClauses int              `json:"total_new_clauses"`
}

// Severity classifies the magnitude of a detected change.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Rank orders severities for comparison: LOW < MEDIUM < HIGH < CRITICAL.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}
