package parsers

import (
	"strings"

	"posrecon/internal/tabular"
)

// headRows bounds how much of a file auto-detection looks at.
const headRows = 50

// Detect picks the parser whose vocabulary overlaps the file's leading
// content the most. Scoring starts from -1, so the first registered parser
// wins when every score is zero (including an empty or unreadable preview).
// Selection is per file; a batch may mix vendors.
func Detect(g tabular.Grid) Parser {
	blob := strings.ToLower(headText(g))

	var best Parser
	bestHits := -1
	for _, p := range All() {
		hits := 0
		for _, tok := range p.Tokens() {
			if strings.Contains(blob, strings.ToLower(tok)) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = p, hits
		}
	}
	return best
}

func headText(g tabular.Grid) string {
	lines := make([]string, 0, headRows)
	for _, row := range g.Head(headRows) {
		lines = append(lines, strings.Join(row, " "))
	}
	return strings.Join(lines, "\n")
}
