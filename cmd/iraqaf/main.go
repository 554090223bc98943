// Command iraqaf is the regulatory change detection and compliance
// scoring engine CLI. It diffs regulation revisions, tracks a tamper
// evident change history, evaluates evidence against clause mappings,
// monitors governance drift and composes the compliance readiness score.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/qaisarkhan123/IRAQAF-Integrated-Regulatory-Compliant-Quality-Assurance-Framework-sub002/pkg/compliance/clausediff"
	"github.com/qaisarkhan123/IRAQAF-Integrated-Regulatory-Compliant-Quality-Assurance-Framework-sub002/pkg/compliance/drift"
	"github.com/qaisarkhan123/IRAQAF-Integrated-Regulatory-Compliant-Quality-Assurance-Framework-sub002/pkg/compliance/history"
	"github.com/qaisarkhan123/IRAQAF-Integrated-Regulatory-Compliant-Quality-Assurance-Framework-sub002/pkg/compliance/history/sqlitestore"
	"github.com/qaisarkhan123/IRAQAF-Integrated-Regulatory-Compliant-Quality-Assurance-Framework-sub002/pkg/compliance/mapping"
	"github.com/qaisarkhan123/IRAQAF-Integrated-Regulatory-Compliant-Quality-Assurance-Framework-sub002/pkg/compliance/maturity"
	"github.com/qaisarkhan123/IRAQAF-Integrated-Regulatory-Compliant-Quality-Assurance-Framework-sub002/pkg/compliance/regwatch"
	"github.com/qaisarkhan123/IRAQAF-Integrated-Regulatory-Compliant-Quality-Assurance-Framework-sub002/pkg/compliance/scoring"
	"github.com/qaisarkhan123/IRAQAF-Integrated-Regulatory-Compliant-Quality-Assurance-Framework-sub002/pkg/compliance/sdlc"
	"github.com/qaisarkhan123/IRAQAF-Integrated-Regulatory-Compliant-Quality-Assurance-Framework-sub002/pkg/config"
	"github.com/qaisarkhan123/IRAQAF-Integrated-Regulatory-Compliant-Quality-Assurance-Framework-sub002/pkg/observability"
	"github.com/qaisarkhan123/IRAQAF-Integrated-Regulatory-Compliant-Quality-Assurance-Framework-sub002/pkg/store"
)

func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// Run is the entrypoint for testing.
func Run(args []string, stdout, stderr io.Writer) int {
	cfg := config.Load()
	setupLogging(cfg.LogLevel, stderr)

	if len(args) < 2 {
		usage(stderr)
		return 2
	}

	switch args[1] {
	case "diff":
		return runDiff(args[2:], cfg, stdout, stderr)
	case "assess":
		return runAssess(args[2:], cfg, stdout, stderr)
	case "timeline":
		return runTimeline(args[2:], cfg, stdout, stderr)
	case "verify":
		return runVerify(args[2:], cfg, stdout, stderr)
	case "watch":
		return runWatch(args[2:], cfg, stderr)
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	default:
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n", args[1])
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, `Usage: iraqaf <command> [flags]

Commands:
  diff      compare two regulation text files and record the change
  assess    evaluate evidence, lifecycle, maturity, drift and the CRS
  timeline  print the change history of a regulation
  verify    verify the hash chain of a regulation's history
  watch     poll a pending-updates feed and record detected changes`)
}

func setupLogging(level string, w io.Writer) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})))
}

// telemetry builds the observability provider from config. Failures
// degrade to the disabled provider so a broken collector never blocks a
// compliance run.
func telemetry(ctx context.Context, cfg *config.Config) *observability.Provider {
	obsCfg := observability.DefaultConfig()
	obsCfg.Enabled = cfg.OtelEnabled
	obsCfg.OTLPEndpoint = cfg.OtelEndpoint
	provider, err := observability.New(ctx, obsCfg)
	if err != nil {
		slog.Warn("observability init failed, continuing without", "error", err)
		provider, _ = observability.New(ctx, &observability.Config{Enabled: false})
	}
	return provider
}

// openLedger picks the sqlite store when configured, else the JSON file
// store under the data dir. The returned closer is a no-op for JSON.
func openLedger(cfg *config.Config) (*history.Ledger, func() error, error) {
	if cfg.HistoryDB != "" {
		st, err := sqlitestore.Open(cfg.HistoryDB)
		if err != nil {
			return nil, nil, fmt.Errorf("open history db: %w", err)
		}
		return history.NewLedger(st), st.Close, nil
	}
	st := history.NewJSONStore(filepath.Join(cfg.DataDir, "history.json"))
	return history.NewLedger(st), func() error { return nil }, nil
}

func runDiff(args []string, cfg *config.Config, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("diff", flag.ContinueOnError)
	fs.SetOutput(stderr)
	regulation := fs.String("regulation", "", "regulation identifier to record the change under")
	threshold := fs.Float64("threshold", clausediff.DefaultMatchThreshold, "clause match threshold")
	record := fs.Bool("record", false, "append the change to the history ledger")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		_, _ = fmt.Fprintln(stderr, "Usage: iraqaf diff [flags] <old.txt> <new.txt>")
		return 2
	}

	oldText, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "read old text:", err)
		return 1
	}
	newText, err := os.ReadFile(fs.Arg(1))
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "read new text:", err)
		return 1
	}

	ctx := context.Background()
	provider := telemetry(ctx, cfg)
	defer func() { _ = provider.Shutdown(ctx) }()

	ctx, finish := provider.StartOperation(ctx, "align")
	rec := clausediff.NewGreedyAligner(nil).Align(string(oldText), string(newText), *threshold)
	finish(nil)
	out := struct {
		clausediff.ChangeRecord
		Severity clausediff.Severity `json:"severity"`
	}{rec, clausediff.ClassifySeverity(rec)}

	if *record {
		if *regulation == "" {
			_, _ = fmt.Fprintln(stderr, "diff: -record requires -regulation")
			return 2
		}
		ledger, closeStore, err := openLedger(cfg)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 1
		}
		defer func() { _ = closeStore() }()
		entry, err := ledger.Record(ctx, *regulation, rec)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, "record change:", err)
			return 1
		}
		slog.Info("change recorded",
			"regulation", *regulation,
			"sequence", entry.Sequence,
			"hash", entry.ContentHash)
	}

	return printJSON(stdout, stderr, out)
}

// assessmentInput is the on-disk shape consumed by the assess command.
type assessmentInput struct {
	// Evidence keys are "framework/clause_id".
	Evidence     map[string]mapping.EvidenceStatus `json:"evidence"`
	Maturity     maturity.Input                    `json:"maturity"`
	Monitoring   scoring.MonitoringFlags           `json:"monitoring"`
	CurrentState drift.CurrentState                `json:"current_state"`
}

type assessmentReport struct {
	Compliance map[string]mapping.FrameworkCompliance `json:"compliance"`
	Lifecycle  sdlc.Report                            `json:"lifecycle"`
	Maturity   maturity.Result                        `json:"maturity"`
	Drift      drift.Verdict                          `json:"drift"`
	Score      scoring.Result                         `json:"score"`
}

func runAssess(args []string, cfg *config.Config, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("assess", flag.ContinueOnError)
	fs.SetOutput(stderr)
	snapshot := fs.Bool("snapshot", false, "record the current state as drift baselines")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		_, _ = fmt.Fprintln(stderr, "Usage: iraqaf assess [flags] <assessment.json>")
		return 2
	}

	raw, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "read assessment:", err)
		return 1
	}
	var in assessmentInput
	if err := json.Unmarshal(raw, &in); err != nil {
		_, _ = fmt.Fprintln(stderr, "parse assessment:", err)
		return 1
	}

	ctx := context.Background()
	provider := telemetry(ctx, cfg)
	defer func() { _ = provider.Shutdown(ctx) }()

	engine := mapping.NewEngine(cfg.ClauseConfig)

	statusMap := make(map[mapping.ClauseKey]mapping.EvidenceStatus, len(in.Evidence))
	for key, status := range in.Evidence {
		framework, clauseID, ok := strings.Cut(key, "/")
		if !ok {
			_, _ = fmt.Fprintf(stderr, "evidence key %q is not framework/clause_id\n", key)
			return 2
		}
		statusMap[mapping.ClauseKey{Framework: framework, ClauseID: clauseID}] = status
	}
	_, finishMap := provider.StartOperation(ctx, "compliance_map")
	compliance := engine.ComplianceMap(statusMap)
	finishMap(nil)

	var clauses []mapping.Clause
	compliant := map[string]bool{}
	scores := map[string]float64{}
	var provided, required int
	for id, fc := range compliance {
		scores[id] = fc.OverallScore
		for _, eval := range fc.Evaluations {
			compliant[eval.ClauseID] = eval.Compliant
		}
	}
	for _, id := range engine.Frameworks() {
		fw, _ := engine.Framework(id)
		clauses = append(clauses, fw.Clauses...)
		for _, clause := range fw.Clauses {
			status := statusMap[mapping.ClauseKey{Framework: id, ClauseID: clause.ClauseID}]
			for _, ev := range clause.EvidenceRequired {
				required++
				if status[ev] {
					provided++
				}
			}
		}
	}

	lifecycle := sdlc.NewTracker().Assess(clauses, compliant)
	gmi := maturity.Calculate(in.Maturity)

	monitor := drift.NewMonitor(store.NewDocument(filepath.Join(cfg.DataDir, "drift.json")))
	if *snapshot {
		recordBaselines(monitor, in.CurrentState, stderr)
	}
	driftCtx, finishDrift := provider.StartOperation(ctx, "detect_drift")
	verdict := monitor.DetectDrift(driftCtx, in.CurrentState)
	finishDrift(nil)

	inputs := scoring.Inputs{
		FrameworkScores: scores,
		SDLCScore:       lifecycle.OverallScore,
		GMI:             gmi.GMI,
		Monitoring:      in.Monitoring,
	}
	if required > 0 {
		ratio := float64(provided) / float64(required)
		inputs.EvidenceCompleteness = &ratio
	}
	scorer, err := scoring.NewEngine()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	_, finishScore := provider.StartOperation(ctx, "crs")
	score := scorer.Compute(inputs)
	finishScore(nil)

	return printJSON(stdout, stderr, assessmentReport{
		Compliance: compliance,
		Lifecycle:  lifecycle,
		Maturity:   gmi,
		Drift:      verdict,
		Score:      score,
	})
}

func recordBaselines(monitor *drift.Monitor, state drift.CurrentState, stderr io.Writer) {
	for category, data := range map[drift.Category]any{
		drift.CategoryRegulationScores: state.RegulationScores,
		drift.CategoryEvidence:         state.Evidence,
		drift.CategoryDocumentation:    state.Documentation,
		drift.CategoryModelVersion:     state.ModelVersion,
		drift.CategorySDLC:             state.SDLCChanges,
	} {
		if _, err := monitor.RecordSnapshot(category, data); err != nil {
			_, _ = fmt.Fprintf(stderr, "snapshot %s: %v\n", category, err)
		}
	}
}

func runTimeline(args []string, cfg *config.Config, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		_, _ = fmt.Fprintln(stderr, "Usage: iraqaf timeline <regulation-id>")
		return 2
	}
	ledger, closeStore, err := openLedger(cfg)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	defer func() { _ = closeStore() }()

	entries, err := ledger.Timeline(context.Background(), args[0])
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "load timeline:", err)
		return 1
	}
	return printJSON(stdout, stderr, entries)
}

func runVerify(args []string, cfg *config.Config, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		_, _ = fmt.Fprintln(stderr, "Usage: iraqaf verify <regulation-id>")
		return 2
	}
	ledger, closeStore, err := openLedger(cfg)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	defer func() { _ = closeStore() }()

	if err := ledger.Verify(context.Background(), args[0]); err != nil {
		_, _ = fmt.Fprintln(stderr, "FAIL:", err)
		return 1
	}
	_, _ = fmt.Fprintln(stdout, "OK: hash chain intact")
	return 0
}

func runWatch(args []string, cfg *config.Config, stderr io.Writer) int {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	feed := fs.String("feed", "", "JSON file listing pending regulation updates")
	revisions := fs.String("revisions", "", "directory holding <framework>/<version>.txt revision texts")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *feed == "" || *revisions == "" {
		_, _ = fmt.Fprintln(stderr, "Usage: iraqaf watch -feed <updates.json> -revisions <dir>")
		return 2
	}

	raw, err := os.ReadFile(*feed)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "read feed:", err)
		return 1
	}
	var pending []drift.PendingUpdate
	if err := json.Unmarshal(raw, &pending); err != nil {
		_, _ = fmt.Fprintln(stderr, "parse feed:", err)
		return 1
	}

	ledger, closeStore, err := openLedger(cfg)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	defer func() { _ = closeStore() }()

	watcherCfg := regwatch.DefaultWatcherConfig()
	watcherCfg.PollInterval = cfg.WatchInterval
	watcher := regwatch.NewWatcher(
		watcherCfg,
		&regwatch.StaticService{Updates: pending},
		dirSource{root: *revisions},
		nil,
		ledger,
		drift.NewMonitor(store.NewDocument(filepath.Join(cfg.DataDir, "drift.json"))),
		store.NewDocument(filepath.Join(cfg.DataDir, "revisions.json")),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		_, _ = fmt.Fprintln(stderr, "watch:", err)
		return 1
	}
	return 0
}

// dirSource resolves revision texts from a local directory tree.
type dirSource struct {
	root string
}

func (s dirSource) FetchRevision(_ context.Context, framework, versionTag string) (regwatch.Revision, error) {
	path := filepath.Join(s.root, framework, versionTag+".txt")
	raw, err := os.ReadFile(path)
	if err != nil {
		return regwatch.Revision{}, fmt.Errorf("fetch %s %s: %w", framework, versionTag, err)
	}
	return regwatch.Revision{
		Framework:  framework,
		VersionTag: versionTag,
		Text:       string(raw),
	}, nil
}

func printJSON(stdout, stderr io.Writer, v any) int {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		_, _ = fmt.Fprintln(stderr, "encode output:", err)
		return 1
	}
	return 0
}
