// Package parsers extracts the common invoice-line schema from each known
// vendor layout. Every parser is tolerant at row level: malformed rows are
// skipped or kept with gaps, and only a missing structure yields an empty
// result.
package parsers

import (
	"posrecon/internal"
	"posrecon/internal/tabular"
)

// Parser is the contract each vendor layout implements. Tokens is the
// vocabulary expected to appear in that vendor's raw files; it drives both
// header location and auto-detection.
type Parser interface {
	Name() string
	Tokens() []string
	Parse(g tabular.Grid) []internal.InvoiceLine
}

// All returns the fixed parser registry. Order matters: auto-detection
// breaks ties in favor of the first registered parser.
func All() []Parser {
	return []Parser{
		&UnifiedParser{},
		&SouthernGlazersParser{},
		&NevadaBeverageParser{},
	}
}

// ByName resolves an explicit vendor override.
func ByName(name string) (Parser, bool) {
	for _, p := range All() {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}
