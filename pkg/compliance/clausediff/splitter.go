package clausediff

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minClauseLen discards fragments too short to carry a requirement.
const minClauseLen = 10

// SplitClauses splits raw regulation text into clause-like sentence units.
// A unit ends at sentence-terminal punctuation followed by whitespace.
// Units whose trimmed length is at most ten characters are dropped.
// Pure function; empty or short input yields an empty slice.
func SplitClauses(text string) []string {
	var clauses []string
	var b strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		b.WriteRune(r)
		if !isTerminal(r) {
			continue
		}
		next := i + 1
		if next < len(runes) && !unicode.IsSpace(runes[next]) {
			continue
		}
		if c := strings.TrimSpace(b.String()); utf8.RuneCountInString(c) > minClauseLen {
			clauses = append(clauses, c)
		}
		b.Reset()
	}
	if c := strings.TrimSpace(b.String()); utf8.RuneCountInString(c) > minClauseLen {
		clauses = append(clauses, c)
	}
	return clauses
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
