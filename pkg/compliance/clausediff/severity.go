package clausediff

// significantModifiedBelow counts a modification as significant when the
// matched pair's similarity falls under this bound.
const significantModifiedBelow = 0.8

// ClassifySeverity maps a change record's aggregate profile to a severity.
// Thresholds are evaluated in fixed order, first match wins; the ordering
// makes classification monotonic in both the significant-change count and
// the overall similarity score.
func ClassifySeverity(rec ChangeRecord) Severity {
	significant := len(rec.Added) + len(rec.Removed)
	for _, m := range rec.Modified {
		if m.Similarity < significantModifiedBelow {
			significant++
		}
	}

	switch {
	case rec.SimilarityScore < 0.5 || significant > 5:
		return SeverityCritical
	case rec.SimilarityScore < 0.7 || significant > 3:
		return SeverityHigh
	case rec.SimilarityScore < 0.85 || significant > 1:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
