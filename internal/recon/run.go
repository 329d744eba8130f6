package recon

import (
	"fmt"

	"posrecon/internal"
	"posrecon/internal/parsers"
	"posrecon/internal/tabular"
)

// Run is the whole pipeline as a pure computation: pricebook grid plus
// invoice files in, result views out. No state is retained here; the caller
// owns the Result.
//
// vendor, when non-empty, names the parser to use for every file; otherwise
// each file is auto-detected independently.
func Run(pricebook tabular.Grid, invoices []tabular.File, vendor string, tolerance float64) (*Result, error) {
	pb, err := LoadPricebook(pricebook)
	if err != nil {
		return nil, err
	}

	var override parsers.Parser
	if vendor != "" {
		p, ok := parsers.ByName(vendor)
		if !ok {
			return nil, fmt.Errorf("unknown vendor parser: %s", vendor)
		}
		override = p
	}

	lines := []internal.InvoiceLine{}
	for _, f := range invoices {
		p := override
		if p == nil {
			p = parsers.Detect(f.Grid)
		}
		lines = append(lines, p.Parse(f.Grid)...)
	}

	return Reconcile(pb, Consolidate(lines), tolerance), nil
}
