package parsers

import (
	"testing"

	"posrecon/internal/tabular"
)

func TestUnifiedParse(t *testing.T) {
	g := tabular.Grid{
		{"SVMERCH weekly statement"},
		{"Item UPC", "Brand", "Description", "Pack", "Size", "Cost", "Net Case Cost", "Case Qty", "Invoice Date"},
		{"3600029145", "ACME", "Widget", "12", "750ml", "$100.00", "$96.00", "2", "07/15/2025"},
		{"123", "JUNK", "too few digits", "1", "", "1.00", "1.00", "1", "07/15/2025"},
		{"036000291452", "ACME", "Not arrived", "12", "750ml", "100.00", "96.00", "0", "07/15/2025"},
		{"", "", "", "", "", "", "", "", ""},
	}

	lines := (&UnifiedParser{}).Parse(g)
	if len(lines) != 1 {
		t.Fatalf("len=%d", len(lines))
	}
	ln := lines[0]
	if ln.UPC != "036000291452" {
		t.Fatalf("upc=%s", ln.UPC)
	}
	if ln.Brand != "ACME" || ln.Description != "Widget" || ln.Size != "750ml" {
		t.Fatalf("text fields: %+v", ln)
	}
	if ln.Pack == nil || *ln.Pack != 12 {
		t.Fatalf("pack: %v", ln.Pack)
	}
	if ln.Cost == nil || *ln.Cost != 100 {
		t.Fatalf("cost: %v", ln.Cost)
	}
	if ln.NetCost == nil || *ln.NetCost != 96 {
		t.Fatalf("net cost: %v", ln.NetCost)
	}
	if ln.CaseQty == nil || *ln.CaseQty != 2 {
		t.Fatalf("case qty: %v", ln.CaseQty)
	}
	if ln.InvoiceDate == nil || ln.InvoiceDate.Year() != 2025 {
		t.Fatalf("date: %v", ln.InvoiceDate)
	}
}

func TestUnifiedNetCostDefaultsToCost(t *testing.T) {
	g := tabular.Grid{
		{"Item UPC", "Cost", "Case Qty"},
		{"036000291452", "88.00", "1"},
	}
	lines := (&UnifiedParser{}).Parse(g)
	if len(lines) != 1 {
		t.Fatalf("len=%d", len(lines))
	}
	if lines[0].NetCost == nil || *lines[0].NetCost != 88 {
		t.Fatalf("net cost: %v", lines[0].NetCost)
	}
}

func TestUnifiedBadDateDegrades(t *testing.T) {
	g := tabular.Grid{
		{"Item UPC", "Cost", "Case Qty", "Invoice Date"},
		{"036000291452", "88.00", "1", "sometime soon"},
	}
	lines := (&UnifiedParser{}).Parse(g)
	if len(lines) != 1 {
		t.Fatalf("len=%d", len(lines))
	}
	if lines[0].InvoiceDate != nil {
		t.Fatalf("date should be absent, got %v", lines[0].InvoiceDate)
	}
}

func TestUnifiedNoCaseQtyColumnKeepsRows(t *testing.T) {
	g := tabular.Grid{
		{"Item UPC", "Cost"},
		{"036000291452", "88.00"},
	}
	lines := (&UnifiedParser{}).Parse(g)
	if len(lines) != 1 {
		t.Fatalf("len=%d", len(lines))
	}
	if lines[0].CaseQty != nil {
		t.Fatalf("case qty should be absent, got %v", *lines[0].CaseQty)
	}
}
