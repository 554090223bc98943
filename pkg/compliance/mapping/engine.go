package mapping

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

// Sentinel lookup errors, isolated to the single lookup per §7.
var (
	ErrUnknownFramework = errors.New("unknown framework")
	ErrUnknownClause    = errors.New("unknown clause")
)

// Engine evaluates clause compliance against the loaded configuration.
// The configuration is read-only after construction; no hidden globals.
type Engine struct {
	config *Config
	logger *slog.Logger
}

// NewEngine loads the clause configuration at path. A missing or
// malformed configuration degrades to an empty framework set.
func NewEngine(configPath string) *Engine {
	logger := slog.Default().With("component", "mapping")
	return &Engine{
		config: loadConfigSoft(configPath, logger),
		logger: logger,
	}
}

// NewEngineWithConfig wires an already-loaded configuration, for callers
// that manage loading themselves (and for tests).
func NewEngineWithConfig(cfg *Config) *Engine {
	if cfg == nil {
		cfg = &Config{Frameworks: map[string]Framework{}}
	}
	return &Engine{
		config: cfg,
		logger: slog.Default().With("component", "mapping"),
	}
}

// Frameworks returns the configured framework IDs, sorted.
func (e *Engine) Frameworks() []string {
	ids := make([]string, 0, len(e.config.Frameworks))
	for id := range e.config.Frameworks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Framework returns a configured framework by ID.
func (e *Engine) Framework(id string) (Framework, bool) {
	fw, ok := e.config.Frameworks[id]
	return fw, ok
}

// Evaluate computes evidence completeness and compliance for one clause.
// Unknown framework or clause IDs return the sentinel error alongside a
// result object carrying the same message, so batch callers can keep the
// result and move on.
func (e *Engine) Evaluate(framework, clauseID string, status EvidenceStatus) (ComplianceEvaluation, error) {
	eval := ComplianceEvaluation{ClauseID: clauseID, Framework: framework}

	fw, ok := e.config.Frameworks[framework]
	if !ok {
		err := fmt.Errorf("%w: %s", ErrUnknownFramework, framework)
		eval.Err = err.Error()
		return eval, err
	}

	for _, clause := range fw.Clauses {
		if clause.ClauseID != clauseID {
			continue
		}
		e.evaluateClause(&eval, clause, status)
		return eval, nil
	}

	err := fmt.Errorf("%w: %s/%s", ErrUnknownClause, framework, clauseID)
	eval.Err = err.Error()
	return eval, err
}

// evaluateClause fills in completeness and the compliance verdict.
// Completeness is |provided ∩ required| / |required|, 0 when nothing is
// required.
func (e *Engine) evaluateClause(eval *ComplianceEvaluation, clause Clause, status EvidenceStatus) {
	required := clause.EvidenceRequired
	if len(required) == 0 {
		eval.EvidenceCompleteness = 0.0
		eval.Compliant = false
		return
	}

	provided := 0
	for _, ev := range required {
		if status[ev] {
			provided++
		} else {
			eval.MissingEvidence = append(eval.MissingEvidence, ev)
		}
	}

	threshold := clause.ComplianceThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultComplianceThreshold
	}

	eval.EvidenceCompleteness = float64(provided) / float64(len(required))
	eval.Compliant = eval.EvidenceCompleteness >= threshold
}

// ComplianceMap evaluates every configured clause and aggregates per
// framework. Clauses with no entry in statusMap are evaluated with all
// evidence assumed absent.
func (e *Engine) ComplianceMap(statusMap map[ClauseKey]EvidenceStatus) map[string]FrameworkCompliance {
	result := make(map[string]FrameworkCompliance, len(e.config.Frameworks))

	for fwID, fw := range e.config.Frameworks {
		agg := FrameworkCompliance{Framework: fwID}
		for _, clause := range fw.Clauses {
			status := statusMap[ClauseKey{Framework: fwID, ClauseID: clause.ClauseID}]

			eval := ComplianceEvaluation{ClauseID: clause.ClauseID, Framework: fwID}
			e.evaluateClause(&eval, clause, status)

			agg.Evaluations = append(agg.Evaluations, eval)
			agg.TotalClauses++
			if eval.Compliant {
				agg.CompliantClauses++
			}
		}
		if agg.TotalClauses > 0 {
			agg.OverallScore = float64(agg.CompliantClauses) / float64(agg.TotalClauses) * 100
		}
		result[fwID] = agg
	}
	return result
}
