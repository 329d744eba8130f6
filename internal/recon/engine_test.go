package recon

import (
	"testing"
	"time"

	"posrecon/internal"
	"posrecon/internal/tabular"
	"posrecon/internal/util"
)

func date(y, m, d int) *time.Time {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return &t
}

func line(upcVal string, dt *time.Time) internal.InvoiceLine {
	return internal.InvoiceLine{UPC: upcVal, InvoiceDate: dt}
}

func TestConsolidateLatestDateWins(t *testing.T) {
	early := line("036000291452", date(2025, 7, 1))
	early.Description = "early"
	late := line("036000291452", date(2025, 7, 15))
	late.Description = "late"

	out := Consolidate([]internal.InvoiceLine{late, early})
	if len(out) != 1 {
		t.Fatalf("len=%d", len(out))
	}
	if out[0].Description != "late" {
		t.Fatalf("kept %q", out[0].Description)
	}
}

func TestConsolidateUndatedLosesToDated(t *testing.T) {
	undated := line("036000291452", nil)
	undated.Description = "undated"
	dated := line("036000291452", date(2025, 7, 1))
	dated.Description = "dated"

	out := Consolidate([]internal.InvoiceLine{undated, dated})
	if len(out) != 1 || out[0].Description != "dated" {
		t.Fatalf("got %+v", out)
	}

	// Reversed input order must not matter when one side has a date.
	out = Consolidate([]internal.InvoiceLine{dated, undated})
	if len(out) != 1 || out[0].Description != "dated" {
		t.Fatalf("got %+v", out)
	}
}

func TestConsolidateAllUndatedKeepsLast(t *testing.T) {
	a := line("036000291452", nil)
	a.Description = "first"
	b := line("036000291452", nil)
	b.Description = "second"

	out := Consolidate([]internal.InvoiceLine{a, b})
	if len(out) != 1 || out[0].Description != "second" {
		t.Fatalf("got %+v", out)
	}
}

func TestConsolidateDropsIgnoredUPCs(t *testing.T) {
	out := Consolidate([]internal.InvoiceLine{
		line("000000000000", date(2025, 7, 1)),
		line("036000291452", date(2025, 7, 1)),
	})
	if len(out) != 1 || out[0].UPC != "036000291452" {
		t.Fatalf("got %+v", out)
	}
}

func pricebookGrid() tabular.Grid {
	return tabular.Grid{
		{"Upc", "Name", "cost_qty", "cost_cents", "cents"},
		{"036000291452", "Widget", "6", "500", "899"},
	}
}

func TestReconcileEndToEnd(t *testing.T) {
	pb, err := LoadPricebook(pricebookGrid())
	if err != nil {
		t.Fatal(err)
	}

	inv := internal.InvoiceLine{
		UPC:     "036000291452",
		Pack:    util.FloatPtr(12),
		Cost:    util.FloatPtr(12.0),
		NetCost: util.FloatPtr(10.0),
	}
	res := Reconcile(pb, Consolidate([]internal.InvoiceLine{inv}), DefaultDeltaTolerance)

	if len(res.FullExport.Rows) != 1 {
		t.Fatalf("full rows: %d", len(res.FullExport.Rows))
	}
	row := res.FullExport.Rows[0]
	cols := res.FullExport.Columns
	got := map[string]string{}
	for i, c := range cols {
		got[c] = row[i]
	}
	if got["cost_qty"] != "12" || got["cost_cents"] != "1000" {
		t.Fatalf("recomputed cost fields: %v", got)
	}
	if got["Upc"] != "036000291452" || got["Name"] != "Widget" {
		t.Fatalf("passthrough columns: %v", got)
	}

	// Both fields differ from the stored 6/500, so the row is changed.
	if len(res.ChangedOnly.Rows) != 1 {
		t.Fatalf("changed rows: %d", len(res.ChangedOnly.Rows))
	}
	if len(res.Unmatched.Rows) != 0 {
		t.Fatalf("unmatched rows: %d", len(res.Unmatched.Rows))
	}
}

func TestReconcileUnchangedRowExcludedFromChangedOnly(t *testing.T) {
	pb, err := LoadPricebook(tabular.Grid{
		{"Upc", "cost_qty", "cost_cents"},
		{"036000291452", "12", "1000"},
	})
	if err != nil {
		t.Fatal(err)
	}

	inv := internal.InvoiceLine{
		UPC:     "036000291452",
		Pack:    util.FloatPtr(12),
		NetCost: util.FloatPtr(10.0),
	}
	res := Reconcile(pb, []internal.InvoiceLine{inv}, DefaultDeltaTolerance)

	if len(res.FullExport.Rows) != 1 {
		t.Fatalf("full rows: %d", len(res.FullExport.Rows))
	}
	if len(res.ChangedOnly.Rows) != 0 {
		t.Fatalf("changed rows: %d", len(res.ChangedOnly.Rows))
	}
}

func TestReconcileUnmatchedPricebookRowDropped(t *testing.T) {
	pb, err := LoadPricebook(tabular.Grid{
		{"Upc", "cost_qty", "cost_cents"},
		{"036000291452", "6", "500"},
		{"611994710017", "1", "100"},
	})
	if err != nil {
		t.Fatal(err)
	}

	inv := internal.InvoiceLine{UPC: "036000291452", NetCost: util.FloatPtr(5.0)}
	res := Reconcile(pb, []internal.InvoiceLine{inv}, DefaultDeltaTolerance)

	if len(res.FullExport.Rows) != 1 {
		t.Fatalf("unmatched pricebook row must be dropped, full rows: %d", len(res.FullExport.Rows))
	}
}

func TestReconcileUnmatchedInvoiceLineReported(t *testing.T) {
	pb, err := LoadPricebook(pricebookGrid())
	if err != nil {
		t.Fatal(err)
	}

	stranger := internal.InvoiceLine{
		UPC:         "611994710017",
		Brand:       "TITO",
		Description: "VODKA",
		NetCost:     util.FloatPtr(18.0),
		CaseQty:     util.Int64Ptr(3),
		InvoiceDate: date(2025, 7, 15),
	}
	res := Reconcile(pb, []internal.InvoiceLine{stranger}, DefaultDeltaTolerance)

	if len(res.Unmatched.Rows) != 1 {
		t.Fatalf("unmatched rows: %d", len(res.Unmatched.Rows))
	}
	row := res.Unmatched.Rows[0]
	if row[0] != "611994710017" || row[1] != "TITO" || row[4] != "18" || row[5] != "3" || row[6] != "2025-07-15" {
		t.Fatalf("row: %v", row)
	}
}

func TestGoalSheetValues(t *testing.T) {
	pb, err := LoadPricebook(pricebookGrid())
	if err != nil {
		t.Fatal(err)
	}

	inv := internal.InvoiceLine{
		UPC:     "036000291452",
		Brand:   "ACME",
		Pack:    util.FloatPtr(12),
		Cost:    util.FloatPtr(12.0),
		NetCost: util.FloatPtr(10.0),
	}
	res := Reconcile(pb, []internal.InvoiceLine{inv}, DefaultDeltaTolerance)

	if len(res.GoalSheet.Rows) != 1 {
		t.Fatalf("goal rows: %d", len(res.GoalSheet.Rows))
	}
	row := res.GoalSheet.Rows[0]
	got := map[string]string{}
	for i, c := range res.GoalSheet.Columns {
		got[c] = row[i]
	}

	// Unit = 10/12, D40% = Unit/0.6, 40% = (12/12)/0.6, $Now = 899 cents.
	if got["UPC"] != "036000291452" {
		t.Fatalf("upc: %v", got)
	}
	if got["Unit"] == "" || got["D40%"] == "" {
		t.Fatalf("unit cost fields missing: %v", got)
	}
	if got["$Now"] != "8.99" {
		t.Fatalf("$Now: %q", got["$Now"])
	}
	// Prior target = (500/100/6)/0.6 = 1.3888…, D40% = 1.3888… → "=".
	if got["Delta"] != "=" {
		t.Fatalf("delta: %q", got["Delta"])
	}
}

func TestGoalSheetDropsRowsWithoutNetCost(t *testing.T) {
	pb, err := LoadPricebook(pricebookGrid())
	if err != nil {
		t.Fatal(err)
	}
	inv := internal.InvoiceLine{UPC: "036000291452", Pack: util.FloatPtr(6)}
	res := Reconcile(pb, []internal.InvoiceLine{inv}, DefaultDeltaTolerance)
	if len(res.GoalSheet.Rows) != 0 {
		t.Fatalf("goal rows: %d", len(res.GoalSheet.Rows))
	}
	if len(res.FullExport.Rows) != 1 {
		t.Fatalf("full rows: %d", len(res.FullExport.Rows))
	}
}

func TestDeltaToleranceRendering(t *testing.T) {
	// Stored target: (600/100/1)/0.6 = 10. Net costs chosen to land the new
	// target at 10±0.004 (inside tolerance) and 10.02 (outside).
	cases := []struct {
		name string
		net  float64
		want string
	}{
		{name: "just under", net: 6.0024, want: "="},
		{name: "just under negative", net: 5.9976, want: "="},
		{name: "outside", net: 6.012, want: "0.02"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pb, err := LoadPricebook(tabular.Grid{
				{"Upc", "cost_qty", "cost_cents"},
				{"036000291452", "1", "600"},
			})
			if err != nil {
				t.Fatal(err)
			}
			inv := internal.InvoiceLine{UPC: "036000291452", Pack: util.FloatPtr(1), NetCost: util.FloatPtr(tc.net)}
			res := Reconcile(pb, []internal.InvoiceLine{inv}, DefaultDeltaTolerance)
			if len(res.GoalSheet.Rows) != 1 {
				t.Fatalf("goal rows: %d", len(res.GoalSheet.Rows))
			}
			row := res.GoalSheet.Rows[0]
			delta := row[len(row)-1]
			if delta != tc.want {
				t.Fatalf("delta: got %q want %q", delta, tc.want)
			}
		})
	}
}

func TestLoadPricebookColumnFallbacks(t *testing.T) {
	pb, err := LoadPricebook(tabular.Grid{
		{"barcode", "price_cents_current"},
		{"03600029145", "750"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if pb.Rows[0].UPCNorm != "036000291452" {
		t.Fatalf("first column should be the identifier: %s", pb.Rows[0].UPCNorm)
	}
	if pb.centsCol != 1 {
		t.Fatalf("cents column: %d", pb.centsCol)
	}
	if pb.Rows[0].CostQty != nil || pb.Rows[0].CostCents != nil {
		t.Fatalf("missing cost columns must be nil: %+v", pb.Rows[0])
	}
}

func TestLoadPricebookEmpty(t *testing.T) {
	if _, err := LoadPricebook(tabular.Grid{}); err == nil {
		t.Fatal("expected error")
	}
}
