package clausediff

import (
	"log/slog"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// maxVocabulary caps the vector space at the most informative terms.
const maxVocabulary = 100

// neutralSimilarity is returned when the computation degenerates
// numerically; a non-answer rather than a claim either way.
const neutralSimilarity = 0.5

// stopwords excluded from the vector space. Regulatory prose is dense in
// these and they carry no alignment signal.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "have": {}, "in": {},
	"is": {}, "it": {}, "its": {}, "of": {}, "on": {}, "or": {}, "that": {},
	"the": {}, "this": {}, "to": {}, "was": {}, "were": {}, "will": {},
	"with": {},
}

// SimilarityEngine computes TF-IDF cosine similarity between two text
// spans. Each call fits an independent vector space on just the two
// inputs; there is no corpus-wide model and the engine holds no state
// beyond its logger.
type SimilarityEngine struct {
	logger *slog.Logger
	folder cases.Caser
}

// NewSimilarityEngine creates a stateless similarity engine.
func NewSimilarityEngine() *SimilarityEngine {
	return &SimilarityEngine{
		logger: slog.Default().With("component", "clausediff.similarity"),
		folder: cases.Fold(),
	}
}

// Similarity returns the cosine similarity of the two texts in [0, 1].
// Either text empty yields 0. Identical non-empty texts score at least
// 0.95 (vocabulary capping keeps the guarantee just short of exactly 1).
// A degenerate computation falls back to 0.5 and is logged.
func (e *SimilarityEngine) Similarity(a, b string) float64 {
	ta := e.tokenize(a)
	tb := e.tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0.0
	}

	vocab := buildVocabulary(ta, tb)
	df := documentFrequencies(vocab, ta, tb)
	va := vectorize(ta, vocab, df)
	vb := vectorize(tb, vocab, df)

	sim := cosine(va, vb)
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		e.logger.Warn("similarity degenerated, using neutral fallback",
			"len_a", len(a), "len_b", len(b))
		return neutralSimilarity
	}
	// Clamp floating point spill.
	return math.Min(1.0, math.Max(0.0, sim))
}

// tokenize lowercases via Unicode case folding, NFKC-normalizes, and
// splits on non-alphanumeric runes, dropping stopwords.
func (e *SimilarityEngine) tokenize(text string) []string {
	folded := e.folder.String(norm.NFKC.String(text))
	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return !isWordRune(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, stop := stopwords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' ||
		('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') ||
		('0' <= r && r <= '9') || r > 127
}

// buildVocabulary selects up to maxVocabulary terms, most frequent across
// both documents first, ties broken lexicographically for determinism.
func buildVocabulary(a, b []string) map[string]int {
	counts := make(map[string]int, len(a)+len(b))
	for _, t := range a {
		counts[t]++
	}
	for _, t := range b {
		counts[t]++
	}

	terms := make([]string, 0, len(counts))
	for t := range counts {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxVocabulary {
		terms = terms[:maxVocabulary]
	}

	vocab := make(map[string]int, len(terms))
	for i, t := range terms {
		vocab[t] = i
	}
	return vocab
}

// documentFrequencies counts, per vocabulary term, how many of the two
// documents contain it (1 or 2).
func documentFrequencies(vocab map[string]int, a, b []string) []float64 {
	df := make([]float64, len(vocab))
	seen := make(map[int]struct{}, len(vocab))
	for _, doc := range [][]string{a, b} {
		clear(seen)
		for _, t := range doc {
			if i, ok := vocab[t]; ok {
				if _, dup := seen[i]; !dup {
					df[i]++
					seen[i] = struct{}{}
				}
			}
		}
	}
	return df
}

// vectorize builds a smoothed TF-IDF vector over the two-document space.
// The add-one smoothed IDF keeps terms shared by both documents
// contributing instead of zeroing out, so identical documents map to
// identical vectors.
func vectorize(tokens []string, vocab map[string]int, df []float64) []float64 {
	tf := make([]float64, len(vocab))
	for _, t := range tokens {
		if i, ok := vocab[t]; ok {
			tf[i]++
		}
	}

	const docs = 2.0
	for i := range tf {
		if tf[i] == 0 {
			continue
		}
		idf := math.Log((1+docs)/(1+df[i])) + 1
		tf[i] = (tf[i] / float64(len(tokens))) * idf
	}
	return tf
}

func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
