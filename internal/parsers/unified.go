package parsers

import (
	"fmt"
	"strings"

	"posrecon/internal"
	"posrecon/internal/tabular"
	"posrecon/internal/upc"
	"posrecon/internal/util"
)

// UnifiedParser handles the Unified / SVMERCH tabular export: a real header
// row somewhere in the first 200 rows, followed by one invoice line per row.
type UnifiedParser struct{}

func (p *UnifiedParser) Name() string { return "Unified (SVMERCH)" }

func (p *UnifiedParser) Tokens() []string {
	return []string{"Item UPC", "Net Case Cost", "Case Qty", "Invoice Date", "Brand", "Description", "Pack", "Size", "Cost"}
}

func (p *UnifiedParser) Parse(g tabular.Grid) []internal.InvoiceLine {
	if len(g) == 0 {
		return nil
	}

	headerRow := locateHeader(g, p.Tokens(), 200)
	cols := uniqueHeader(g[headerRow])

	colUPC := findColumn(cols, "Item UPC", "UPC")
	colBrand := findColumn(cols, "Brand")
	colDesc := findColumn(cols, "Description", "Item Description")
	colPack := findColumn(cols, "Pack", "Case Pack", "Qty per case")
	colSize := findColumn(cols, "Size")
	colCost := findColumn(cols, "Cost")
	colNetCost := findColumn(cols, "Net Case Cost")
	colCaseQty := findColumn(cols, "Case Qty", "Case Quantity", "Cases", "Qty")
	colDate := findColumn(cols, "Invoice Date", "Inv Date", "Date")
	if colUPC < 0 {
		return nil
	}

	out := []internal.InvoiceLine{}
	for _, row := range g[headerRow+1:] {
		if emptyRow(row) {
			continue
		}
		rawUPC := cellAt(row, colUPC)
		if len(util.DigitsOnly(rawUPC)) < 8 {
			continue
		}

		// Case Qty <= 0 means the item has not arrived yet; such rows are
		// skipped when the layout carries the column at all.
		var caseQty *int64
		if colCaseQty >= 0 {
			qty, ok := util.FirstInt(cellAt(row, colCaseQty))
			if !ok || qty <= 0 {
				continue
			}
			caseQty = util.Int64Ptr(qty)
		}

		line := internal.InvoiceLine{
			UPC:         upc.NormalizeInvoice(rawUPC),
			Brand:       cellAt(row, colBrand),
			Description: cellAt(row, colDesc),
			Size:        cellAt(row, colSize),
			CaseQty:     caseQty,
		}
		if colDate >= 0 {
			line.InvoiceDate = util.ParseDate(cellAt(row, colDate))
		}
		if colPack >= 0 {
			if v, ok := util.FirstInt(cellAt(row, colPack)); ok {
				line.Pack = util.FloatPtr(float64(v))
			}
		}
		if colCost >= 0 {
			if v, ok := util.ParseMoney(cellAt(row, colCost)); ok {
				line.Cost = util.FloatPtr(v)
			}
		}
		if colNetCost >= 0 {
			if v, ok := util.ParseMoney(cellAt(row, colNetCost)); ok {
				line.NetCost = util.FloatPtr(v)
			}
		} else {
			line.NetCost = line.Cost
		}
		out = append(out, line)
	}
	return out
}

// uniqueHeader cleans a raw header row into unique column names: blank
// labels become Unnamed_<index>, repeats get a _<n> suffix.
func uniqueHeader(raw []string) []string {
	seen := map[string]int{}
	out := make([]string, 0, len(raw))
	for i, h := range raw {
		name := util.NormalizeSpaces(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed_%d", i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		} else {
			seen[name] = 0
		}
		out = append(out, name)
	}
	return out
}

// findColumn locates a semantic field by candidate names: exact
// case-insensitive match first, then substring match.
func findColumn(cols []string, candidates ...string) int {
	low := make([]string, len(cols))
	for i, c := range cols {
		low[i] = strings.ToLower(c)
	}
	for _, cand := range candidates {
		lc := strings.ToLower(cand)
		for i, c := range low {
			if c == lc {
				return i
			}
		}
	}
	for _, cand := range candidates {
		lc := strings.ToLower(cand)
		for i, c := range low {
			if strings.Contains(c, lc) {
				return i
			}
		}
	}
	return -1
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
