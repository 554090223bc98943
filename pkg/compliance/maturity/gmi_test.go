package maturity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateAllIndicatorsFalse(t *testing.T) {
	result := Calculate(Input{})

	assert.Equal(t, 1.0, result.GMI)
	require.Len(t, result.SubScores, 5)
	for dim, score := range result.SubScores {
		assert.Equal(t, 1.0, score, "dimension %s must sit at base score", dim)
	}
	assert.Equal(t, 1, result.Tier)
	assert.Equal(t, "No formal governance", result.TierLabel)
	assert.NotEmpty(t, result.Recommendations)
	assert.Empty(t, result.WeakestDimension, "uniform scores flag no laggard")
}

func TestCalculateAllIndicatorsTrue(t *testing.T) {
	in := Input{
		Documentation: DocumentationIndicators{true, true, true, true, true},
		Processes:     ProcessIndicators{true, true, true, true},
		Monitoring:    MonitoringIndicators{true, true, true, true, true},
		Oversight:     OversightIndicators{true, true, true, true},
		Automation:    AutomationIndicators{true, true, true, true},
	}
	result := Calculate(in)

	assert.Equal(t, 5.0, result.GMI)
	for dim, score := range result.SubScores {
		assert.Equal(t, 5.0, score, "dimension %s must cap at 5.0", dim)
	}
	assert.Equal(t, 5, result.Tier)
	assert.Equal(t, "Optimized governance", result.TierLabel)
}

func TestCalculateRoundsToNearestHalf(t *testing.T) {
	// documentation 2.0 (one 1.0 indicator), everything else 1.0:
	// average = (2+1+1+1+1)/5 = 1.2 → rounds to 1.0.
	in := Input{Documentation: DocumentationIndicators{ModelCardsMaintained: true}}
	result := Calculate(in)
	assert.Equal(t, 1.0, result.GMI)

	// documentation 2.5, processes 2.0: average = (2.5+2+1+1+1)/5 = 1.5.
	in = Input{
		Documentation: DocumentationIndicators{ModelCardsMaintained: true, DocsVersionControlled: true},
		Processes:     ProcessIndicators{RiskAssessmentProcess: true},
	}
	result = Calculate(in)
	assert.Equal(t, 1.5, result.GMI)
}

func TestCalculateSubScoreBounds(t *testing.T) {
	result := Calculate(Input{
		Monitoring: MonitoringIndicators{true, true, true, true, true},
	})
	for _, score := range result.SubScores {
		assert.GreaterOrEqual(t, score, 1.0)
		assert.LessOrEqual(t, score, 5.0)
	}
}

func TestCalculateFlagsWeakestDimension(t *testing.T) {
	// Everything strong except automation.
	in := Input{
		Documentation: DocumentationIndicators{true, true, true, true, true},
		Processes:     ProcessIndicators{true, true, true, true},
		Monitoring:    MonitoringIndicators{true, true, true, true, true},
		Oversight:     OversightIndicators{true, true, true, true},
	}
	result := Calculate(in)

	// Sub-scores 5,5,5,5,1 → average 4.2 → GMI 4.0; automation lags by 3.
	assert.Equal(t, 4.0, result.GMI)
	assert.Equal(t, DimAutomation, result.WeakestDimension)
	assert.Equal(t, "Managed governance", result.TierLabel)
}
