package parsers

import (
	"strings"

	"posrecon/internal/tabular"
	"posrecon/internal/util"
)

// locateHeader scans up to limit leading rows and returns the index of the
// row with the most token hits. A hit is one (cell, token) pair where the
// token appears as a case-insensitive substring of the cell. Only a strictly
// greater count takes the lead, so the first row reaching the maximum wins.
// Zero hits everywhere falls back to row 0.
func locateHeader(g tabular.Grid, tokens []string, limit int) int {
	if len(g) < limit {
		limit = len(g)
	}

	best, bestHits := 0, 0
	for i := 0; i < limit; i++ {
		hits := 0
		for _, cell := range g[i] {
			lc := strings.ToLower(strings.TrimSpace(cell))
			if lc == "" {
				continue
			}
			for _, tok := range tokens {
				if strings.Contains(lc, strings.ToLower(tok)) {
					hits++
				}
			}
		}
		if hits > bestHits {
			best, bestHits = i, hits
		}
	}
	return best
}

// textLines flattens the rows after the header into free-text lines, one per
// physical row, joining non-empty cells with a space. The fixed-width report
// vendors are parsed from these lines.
func textLines(g tabular.Grid, headerRow int) []string {
	out := make([]string, 0, len(g))
	for i := headerRow + 1; i < len(g); i++ {
		parts := make([]string, 0, len(g[i]))
		for _, cell := range g[i] {
			if s := util.NormalizeSpaces(cell); s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			out = append(out, strings.Join(parts, " "))
		}
	}
	return out
}
