package recon

import (
	"fmt"
	"strconv"
	"strings"

	"posrecon/internal/tabular"
	"posrecon/internal/upc"
)

// Pricebook is the POS reference dataset: arbitrary vendor-defined columns
// with a UPC-like column plus the stored cost_qty / cost_cents fields.
type Pricebook struct {
	Columns []string
	Rows    []PricebookRow

	upcCol   int
	centsCol int // current shelf-price column in cents, -1 when absent
}

// PricebookRow keeps the raw cells alongside the derived join key and
// numeric cost fields (nil when missing or non-numeric).
type PricebookRow struct {
	Cells     []string
	UPCNorm   string
	CostQty   *float64
	CostCents *float64
}

// LoadPricebook derives the join key and numeric cost fields from a raw
// pricebook grid. The identifier column is "Upc", else "UPC", else the
// first column; the current-price column is "cents", else the first column
// whose name contains "cent" other than cost_cents.
func LoadPricebook(g tabular.Grid) (*Pricebook, error) {
	if len(g) == 0 {
		return nil, fmt.Errorf("pricebook is empty")
	}

	cols := make([]string, len(g[0]))
	for i, c := range g[0] {
		cols[i] = strings.TrimSpace(c)
	}

	upcCol := exactColumn(cols, "Upc")
	if upcCol < 0 {
		upcCol = exactColumn(cols, "UPC")
	}
	if upcCol < 0 {
		upcCol = 0
	}

	qtyCol := exactColumn(cols, "cost_qty")
	costCol := exactColumn(cols, "cost_cents")

	centsCol := exactColumn(cols, "cents")
	if centsCol < 0 {
		for i, c := range cols {
			lc := strings.ToLower(c)
			if strings.Contains(lc, "cent") && lc != "cost_cents" {
				centsCol = i
				break
			}
		}
	}

	pb := &Pricebook{Columns: cols, upcCol: upcCol, centsCol: centsCol}
	for _, raw := range g[1:] {
		cells := make([]string, len(cols))
		for i := range cols {
			if i < len(raw) {
				cells[i] = raw[i]
			}
		}
		row := PricebookRow{
			Cells:     cells,
			UPCNorm:   upc.NormalizePOS(cells[upcCol]),
			CostQty:   numericCell(cells, qtyCol),
			CostCents: numericCell(cells, costCol),
		}
		pb.Rows = append(pb.Rows, row)
	}
	return pb, nil
}

// currentDollars converts the row's stored shelf price from cents to
// dollars; nil when the pricebook has no cents column or the cell is not
// numeric.
func (pb *Pricebook) currentDollars(row PricebookRow) *float64 {
	if pb.centsCol < 0 || pb.centsCol >= len(row.Cells) {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row.Cells[pb.centsCol]), 64)
	if err != nil {
		return nil
	}
	dollars := v / 100.0
	return &dollars
}

func exactColumn(cols []string, name string) int {
	for i, c := range cols {
		if c == name {
			return i
		}
	}
	return -1
}

func numericCell(cells []string, idx int) *float64 {
	if idx < 0 || idx >= len(cells) {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(cells[idx]), 64)
	if err != nil {
		return nil
	}
	return &v
}
