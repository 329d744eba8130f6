// Package recon merges consolidated invoice lines with the POS pricebook and
// shapes the result views: full export, changed-only, goal sheet, unmatched.
package recon

import (
	"math"
	"sort"
	"strconv"
	"time"

	"posrecon/internal"
	"posrecon/internal/tabular"
	"posrecon/internal/upc"
)

// DefaultDeltaTolerance is the band within which a goal-sheet delta renders
// as "=" (no change).
const DefaultDeltaTolerance = 0.005

// Consolidate drops ignore-listed identifiers and keeps one line per UPC:
// the latest-dated one. Dates sort nil-first, so an undated duplicate loses
// to any dated one; when every duplicate is undated the last line in input
// order survives.
func Consolidate(lines []internal.InvoiceLine) []internal.InvoiceLine {
	kept := make([]internal.InvoiceLine, 0, len(lines))
	for _, ln := range lines {
		if !upc.Ignored(ln.UPC) {
			kept = append(kept, ln)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].UPC != kept[j].UPC {
			return kept[i].UPC < kept[j].UPC
		}
		return dateBefore(kept[i].InvoiceDate, kept[j].InvoiceDate)
	})

	out := make([]internal.InvoiceLine, 0, len(kept))
	for i, ln := range kept {
		if i+1 < len(kept) && kept[i+1].UPC == ln.UPC {
			continue
		}
		out = append(out, ln)
	}
	return out
}

func dateBefore(a, b *time.Time) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	return a.Before(*b)
}

// Result holds the views of one completed run. It is a pure value: the
// caller owns it and replaces it wholesale on the next run.
type Result struct {
	FullExport  tabular.Table
	ChangedOnly tabular.Table
	GoalSheet   tabular.Table
	Unmatched   tabular.Table
	CompletedAt time.Time
}

// Stamp renders the completion time the way artifact filenames embed it.
func (r *Result) Stamp() string {
	return r.CompletedAt.Format("20060102_150405")
}

// Summary reports row counts for the success message.
func (r *Result) Summary(runID string) internal.RunSummary {
	return internal.RunSummary{
		RunID:     runID,
		Timestamp: r.Stamp(),
		Full:      len(r.FullExport.Rows),
		Changed:   len(r.ChangedOnly.Rows),
		GoalSheet: len(r.GoalSheet.Rows),
		Unmatched: len(r.Unmatched.Rows),
	}
}

type matchedRow struct {
	pb       PricebookRow
	inv      internal.InvoiceLine
	newQty   int64
	newCents *int64
}

// Reconcile left-joins pricebook rows to consolidated invoice lines on the
// normalized identifier and computes every output view. Pricebook rows with
// no invoice match are dropped; invoice lines with no pricebook match land
// in the unmatched report.
func Reconcile(pb *Pricebook, consolidated []internal.InvoiceLine, tolerance float64) *Result {
	byUPC := make(map[string]internal.InvoiceLine, len(consolidated))
	for _, ln := range consolidated {
		byUPC[ln.UPC] = ln
	}

	matched := []matchedRow{}
	matchedUPCs := map[string]struct{}{}
	for _, row := range pb.Rows {
		inv, ok := byUPC[row.UPCNorm]
		if !ok {
			continue
		}
		m := matchedRow{pb: row, inv: inv, newQty: 1}
		if inv.Pack != nil && *inv.Pack > 0 {
			m.newQty = int64(*inv.Pack)
		}
		if inv.NetCost != nil {
			cents := int64(math.Round(*inv.NetCost * 100))
			m.newCents = &cents
		}
		matched = append(matched, m)
		matchedUPCs[row.UPCNorm] = struct{}{}
	}

	res := &Result{CompletedAt: time.Now()}
	res.FullExport, res.ChangedOnly = exportTables(pb, matched)
	res.GoalSheet = goalSheet(pb, matched, tolerance)
	res.Unmatched = unmatchedTable(consolidated, matchedUPCs)
	return res
}

// exportTables builds the full export (all matched rows, original pricebook
// columns with cost_qty/cost_cents recomputed) and its changed-only subset.
func exportTables(pb *Pricebook, matched []matchedRow) (full, changed tabular.Table) {
	keep := make([]int, 0, len(pb.Columns))
	cols := make([]string, 0, len(pb.Columns)+2)
	for i, c := range pb.Columns {
		if c == "cost_qty" || c == "cost_cents" {
			continue
		}
		keep = append(keep, i)
		cols = append(cols, c)
	}
	cols = append(cols, "cost_qty", "cost_cents")

	full = tabular.Table{Columns: cols}
	changed = tabular.Table{Columns: cols}
	for _, m := range matched {
		cells := make([]string, 0, len(cols))
		for _, i := range keep {
			cells = append(cells, m.pb.Cells[i])
		}
		cells = append(cells, strconv.FormatInt(m.newQty, 10), formatInt64Ptr(m.newCents))
		full.Rows = append(full.Rows, cells)
		if isChanged(m) {
			changed.Rows = append(changed.Rows, cells)
		}
	}
	return full, changed
}

// isChanged compares recomputed pack and cents against the stored pricebook
// values numerically. An absent value on either side counts as different.
func isChanged(m matchedRow) bool {
	if m.pb.CostQty == nil || *m.pb.CostQty != float64(m.newQty) {
		return true
	}
	if m.newCents == nil || m.pb.CostCents == nil {
		return true
	}
	return float64(*m.newCents) != *m.pb.CostCents
}

var goalColumns = []string{"UPC", "Brand", "Description", "Pack", "Size", "Cost", "+Cost", "Unit", "D40%", "40%", "$Now", "Delta"}

// goalSheet computes the pricing-audit view: per-unit costs, the 40%-margin
// targets from net and list cost, the current shelf price, and the delta
// against the margin target implied by the stored pricebook cost. Rows
// without a net cost are dropped.
func goalSheet(pb *Pricebook, matched []matchedRow, tolerance float64) tabular.Table {
	type goalRow struct {
		upc   string
		cells []string
	}

	rows := make([]goalRow, 0, len(matched))
	for _, m := range matched {
		if m.inv.NetCost == nil {
			continue
		}

		pack := 1.0
		if m.inv.Pack != nil && *m.inv.Pack > 0 {
			pack = *m.inv.Pack
		}
		unit := *m.inv.NetCost / pack
		d40 := unit / 0.6

		var list40 *float64
		if m.inv.Cost != nil {
			v := (*m.inv.Cost / pack) / 0.6
			list40 = &v
		}

		var prior *float64
		if m.pb.CostCents != nil && m.pb.CostQty != nil && *m.pb.CostQty != 0 {
			v := (*m.pb.CostCents / 100.0 / *m.pb.CostQty) / 0.6
			prior = &v
		}
		delta := ""
		if prior != nil {
			d := d40 - *prior
			if math.Abs(d) < tolerance {
				delta = "="
			} else {
				delta = formatFloat(math.Round(d*100) / 100)
			}
		}

		id := padUPC(m.inv.UPC)
		rows = append(rows, goalRow{upc: id, cells: []string{
			id,
			m.inv.Brand,
			m.inv.Description,
			formatFloat(pack),
			m.inv.Size,
			formatFloatPtr(m.inv.Cost),
			formatFloat(*m.inv.NetCost),
			formatFloat(unit),
			formatFloat(d40),
			formatFloatPtr(list40),
			formatFloatPtr(pb.currentDollars(m.pb)),
			delta,
		}})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].upc < rows[j].upc })

	out := tabular.Table{Columns: goalColumns}
	for _, r := range rows {
		out.Rows = append(out.Rows, r.cells)
	}
	return out
}

// unmatchedTable projects consolidated invoice lines with no pricebook
// counterpart to the fixed report columns.
func unmatchedTable(consolidated []internal.InvoiceLine, matchedUPCs map[string]struct{}) tabular.Table {
	out := tabular.Table{Columns: []string{"UPC", "Brand", "Description", "Pack", "+Cost", "Case Qty", "invoice_date"}}
	for _, ln := range consolidated {
		if _, ok := matchedUPCs[ln.UPC]; ok {
			continue
		}
		date := ""
		if ln.InvoiceDate != nil {
			date = ln.InvoiceDate.Format("2006-01-02")
		}
		caseQty := ""
		if ln.CaseQty != nil {
			caseQty = strconv.FormatInt(*ln.CaseQty, 10)
		}
		out.Rows = append(out.Rows, []string{
			ln.UPC,
			ln.Brand,
			ln.Description,
			formatFloatPtr(ln.Pack),
			formatFloatPtr(ln.NetCost),
			caseQty,
			date,
		})
	}
	return out
}

func padUPC(id string) string {
	for len(id) < 12 {
		id = "0" + id
	}
	return id
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatInt64Ptr(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
