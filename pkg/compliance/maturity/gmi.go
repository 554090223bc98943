// Package maturity derives the Governance Maturity Index: a 1–5 score
// over five governance sub-dimensions, each driven by weighted boolean
// indicators.
package maturity

import (
	"math"
	"sort"
)

// Sub-dimension names.
const (
	DimDocumentation = "documentation"
	DimProcesses     = "processes"
	DimMonitoring    = "monitoring"
	DimOversight     = "oversight"
	DimAutomation    = "automation"
)

const (
	baseScore = 1.0
	maxScore  = 5.0
)

// DocumentationIndicators cover governance documentation practice.
type DocumentationIndicators struct {
	ModelCardsMaintained  bool `json:"model_cards_maintained"`
	DataSheetsPublished   bool `json:"data_sheets_published"`
	DecisionLogsKept      bool `json:"decision_logs_kept"`
	DocsVersionControlled bool `json:"docs_version_controlled"`
	DocsReviewedQuarterly bool `json:"docs_reviewed_quarterly"`
}

// ProcessIndicators cover formal governance processes.
type ProcessIndicators struct {
	RiskAssessmentProcess bool `json:"risk_assessment_process"`
	ChangeManagement      bool `json:"change_management"`
	IncidentResponsePlan  bool `json:"incident_response_plan"`
	RegularAudits         bool `json:"regular_audits"`
}

// MonitoringIndicators cover operational monitoring practice.
type MonitoringIndicators struct {
	PerformanceMonitoring bool `json:"performance_monitoring"`
	DriftDetection        bool `json:"drift_detection"`
	AlertingConfigured    bool `json:"alerting_configured"`
	DashboardsPublished   bool `json:"dashboards_published"`
	LogsRetained          bool `json:"logs_retained"`
}

// OversightIndicators cover human and organizational oversight.
type OversightIndicators struct {
	GovernanceBoard bool `json:"governance_board"`
	HumanInTheLoop  bool `json:"human_in_the_loop"`
	EthicsReview    bool `json:"ethics_review"`
	ExternalAudit   bool `json:"external_audit"`
}

// AutomationIndicators cover governance automation.
type AutomationIndicators struct {
	AutomatedTesting   bool `json:"automated_testing"`
	CICDGates          bool `json:"ci_cd_gates"`
	AutomatedReporting bool `json:"automated_reporting"`
	PolicyAsCode       bool `json:"policy_as_code"`
}

// Input is the full indicator assessment across all five sub-dimensions.
type Input struct {
	Documentation DocumentationIndicators `json:"documentation"`
	Processes     ProcessIndicators       `json:"processes"`
	Monitoring    MonitoringIndicators    `json:"monitoring"`
	Oversight     OversightIndicators     `json:"oversight"`
	Automation    AutomationIndicators    `json:"automation"`
}

// Result is the computed maturity index.
type Result struct {
	GMI             float64            `json:"gmi"`
	SubScores       map[string]float64 `json:"sub_scores"`
	Tier            int                `json:"tier"`
	TierLabel       string             `json:"tier_label"`
	Recommendations []string           `json:"recommendations"`
	// WeakestDimension is set when one sub-dimension lags the overall
	// index by more than half a point.
	WeakestDimension string `json:"weakest_dimension,omitempty"`
}

var tierLabels = map[int]string{
	1: "No formal governance",
	2: "Ad hoc governance",
	3: "Defined governance",
	4: "Managed governance",
	5: "Optimized governance",
}

var tierRecommendations = map[int][]string{
	1: {
		"Establish a governance owner and a documented risk assessment process.",
		"Start maintaining model cards and decision logs.",
	},
	2: {
		"Formalize change management and incident response procedures.",
		"Introduce drift detection and alerting on deployed models.",
	},
	3: {
		"Schedule regular internal audits and quarterly documentation reviews.",
		"Automate compliance reporting and CI/CD policy gates.",
	},
	4: {
		"Add external audits and an ethics review board.",
		"Express governance policies as code for repeatable enforcement.",
	},
	5: {
		"Maintain the current posture; review indicator coverage annually.",
	},
}

type indicator struct {
	satisfied bool
	weight    float64
}

func subScore(indicators []indicator) float64 {
	score := baseScore
	for _, ind := range indicators {
		if ind.satisfied {
			score += ind.weight
		}
	}
	return math.Min(score, maxScore)
}

// Calculate computes the GMI from the indicator assessment.
func Calculate(in Input) Result {
	sub := map[string]float64{
		DimDocumentation: subScore([]indicator{
			{in.Documentation.ModelCardsMaintained, 1.0},
			{in.Documentation.DataSheetsPublished, 1.0},
			{in.Documentation.DecisionLogsKept, 1.0},
			{in.Documentation.DocsVersionControlled, 0.5},
			{in.Documentation.DocsReviewedQuarterly, 0.5},
		}),
		DimProcesses: subScore([]indicator{
			{in.Processes.RiskAssessmentProcess, 1.0},
			{in.Processes.ChangeManagement, 1.0},
			{in.Processes.IncidentResponsePlan, 1.0},
			{in.Processes.RegularAudits, 1.0},
		}),
		DimMonitoring: subScore([]indicator{
			{in.Monitoring.PerformanceMonitoring, 1.0},
			{in.Monitoring.DriftDetection, 1.0},
			{in.Monitoring.AlertingConfigured, 1.0},
			{in.Monitoring.DashboardsPublished, 0.5},
			{in.Monitoring.LogsRetained, 0.5},
		}),
		DimOversight: subScore([]indicator{
			{in.Oversight.GovernanceBoard, 1.0},
			{in.Oversight.HumanInTheLoop, 1.0},
			{in.Oversight.EthicsReview, 1.0},
			{in.Oversight.ExternalAudit, 1.0},
		}),
		DimAutomation: subScore([]indicator{
			{in.Automation.AutomatedTesting, 1.0},
			{in.Automation.CICDGates, 1.0},
			{in.Automation.AutomatedReporting, 1.0},
			{in.Automation.PolicyAsCode, 1.0},
		}),
	}

	var sum float64
	for _, s := range sub {
		sum += s
	}
	avg := sum / float64(len(sub))
	gmi := math.Round(avg*2) / 2

	tier := int(math.Floor(gmi))
	if tier < 1 {
		tier = 1
	}
	if tier > 5 {
		tier = 5
	}

	result := Result{
		GMI:             gmi,
		SubScores:       sub,
		Tier:            tier,
		TierLabel:       tierLabels[tier],
		Recommendations: tierRecommendations[tier],
	}

	weakest, score := weakestDimension(sub)
	if gmi-score > 0.5 {
		result.WeakestDimension = weakest
	}
	return result
}

func weakestDimension(sub map[string]float64) (string, float64) {
	dims := make([]string, 0, len(sub))
	for d := range sub {
		dims = append(dims, d)
	}
	sort.Strings(dims)

	weakest, score := "", math.Inf(1)
	for _, d := range dims {
		if sub[d] < score {
			weakest, score = d, sub[d]
		}
	}
	return weakest, score
}
