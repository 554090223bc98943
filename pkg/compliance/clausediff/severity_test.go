package clausediff

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

// recordWith builds a record with n added clauses and the given overall
// similarity, which is enough to drive every classifier branch.
func recordWith(significant int, simScore float64) ChangeRecord {
	added := make([]AddedClause, significant)
	for i := range added {
		added[i] = AddedClause{Text: "added clause"}
	}
	return ChangeRecord{
		Added:           added,
		SimilarityScore: simScore,
		TotalNewClauses: significant,
	}
}

func TestClassifySeverityLadder(t *testing.T) {
	cases := []struct {
		name        string
		significant int
		simScore    float64
		want        Severity
	}{
		{"low similarity is critical", 0, 0.4, SeverityCritical},
		{"many changes is critical", 6, 0.99, SeverityCritical},
		{"mid similarity is high", 0, 0.65, SeverityHigh},
		{"several changes is high", 4, 0.99, SeverityHigh},
		{"slight similarity dip is medium", 0, 0.8, SeverityMedium},
		{"couple of changes is medium", 2, 0.99, SeverityMedium},
		{"near identical is low", 0, 0.99, SeverityLow},
		{"single change is low", 1, 0.99, SeverityLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifySeverity(recordWith(tc.significant, tc.simScore)))
		})
	}
}

func TestClassifySeverityLowSimilarityModifications(t *testing.T) {
	rec := ChangeRecord{
		Modified: []ModifiedClause{
			{Similarity: 0.76}, {Similarity: 0.79},
		},
		SimilarityScore: 0.99,
	}
	// Both modifications fall under 0.8 so both count as significant.
	assert.Equal(t, SeverityMedium, ClassifySeverity(rec))
}

func TestSeverityRankOrdering(t *testing.T) {
	assert.Less(t, SeverityLow.Rank(), SeverityMedium.Rank())
	assert.Less(t, SeverityMedium.Rank(), SeverityHigh.Rank())
	assert.Less(t, SeverityHigh.Rank(), SeverityCritical.Rank())
}

func TestClassifySeverityMonotonicProperty(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 300
	properties := gopter.NewProperties(params)

	properties.Property("more significant changes never lowers severity", prop.ForAll(
		func(significant int, simScore float64) bool {
			base := ClassifySeverity(recordWith(significant, simScore))
			bumped := ClassifySeverity(recordWith(significant+1, simScore))
			return bumped.Rank() >= base.Rank()
		},
		gen.IntRange(0, 10),
		gen.Float64Range(0, 1),
	))

	properties.Property("lower similarity never lowers severity", prop.ForAll(
		func(significant int, simScore, drop float64) bool {
			base := ClassifySeverity(recordWith(significant, simScore))
			worse := ClassifySeverity(recordWith(significant, simScore-drop))
			return worse.Rank() >= base.Rank()
		},
		gen.IntRange(0, 10),
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 1),
	))

	properties.TestingRun(t)
}
