package clausediff

// DefaultMatchThreshold is the similarity below which an old clause is
// considered removed rather than modified.
const DefaultMatchThreshold = 0.75

// unchangedThreshold is the similarity at or above which a matched pair
// is considered unchanged and not reported.
const unchangedThreshold = 0.95

// Aligner aligns the clauses of two regulation revisions. The seam exists
// so an optimal-assignment matcher can replace the greedy one without
// touching callers.
type Aligner interface {
	Align(oldText, newText string, threshold float64) ChangeRecord
}

// GreedyAligner matches each old clause, in original order, to the
// highest-similarity unclaimed new clause. Greedy and order-dependent:
// an early clause can claim a new clause that a later one would have
// matched better. Known limitation, kept for parity with the recorded
// change history.
type GreedyAligner struct {
	sim *SimilarityEngine
}

// NewGreedyAligner creates an aligner over the given similarity engine.
func NewGreedyAligner(sim *SimilarityEngine) *GreedyAligner {
	if sim == nil {
		sim = NewSimilarityEngine()
	}
	return &GreedyAligner{sim: sim}
}

// Align splits both texts into clauses and classifies every clause as
// unchanged, modified, added, or removed. A non-positive threshold falls
// back to DefaultMatchThreshold.
func (g *GreedyAligner) Align(oldText, newText string, threshold float64) ChangeRecord {
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}

	oldClauses := SplitClauses(oldText)
	newClauses := SplitClauses(newText)

	rec := ChangeRecord{
		Added:           []AddedClause{},
		Removed:         []RemovedClause{},
		Modified:        []ModifiedClause{},
		TotalOldClauses: len(oldClauses),
		TotalNewClauses: len(newClauses),
	}

	if len(oldClauses) > 0 && len(newClauses) > 0 {
		rec.SimilarityScore = g.sim.Similarity(oldText, newText)
	}

	claimed := make([]bool, len(newClauses))
	for _, oldClause := range oldClauses {
		bestIdx := -1
		bestScore := 0.0
		for j, newClause := range newClauses {
			if claimed[j] {
				continue
			}
			if s := g.sim.Similarity(oldClause, newClause); s > bestScore {
				bestScore = s
				bestIdx = j
			}
		}

		switch {
		case bestIdx == -1 || bestScore < threshold:
			rec.Removed = append(rec.Removed, RemovedClause{
				Text:       oldClause,
				Confidence: 1 - bestScore,
			})
		case bestScore < unchangedThreshold:
			rec.Modified = append(rec.Modified, ModifiedClause{
				OldText:    oldClause,
				NewText:    newClauses[bestIdx],
				Similarity: bestScore,
			})
			claimed[bestIdx] = true
		default:
			// Unchanged; claimed but not reported.
			claimed[bestIdx] = true
		}
	}

	for j, newClause := range newClauses {
		if !claimed[j] {
			rec.Added = append(rec.Added, AddedClause{Text: newClause})
		}
	}
	return rec
}
