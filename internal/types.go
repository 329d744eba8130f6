package internal

import "time"

// InvoiceLine is the common schema every vendor parser emits. Optional
// numeric fields are pointers; text fields default to empty string. UPC is
// always the normalized 12-digit form; rows without one never leave a parser.
type InvoiceLine struct {
	InvoiceDate *time.Time
	UPC         string
	Brand       string
	Description string
	Size        string
	Pack        *float64
	Cost        *float64
	NetCost     *float64
	CaseQty     *int64
}

// RunSummary reports the row counts of one completed reconciliation run.
type RunSummary struct {
	RunID     string `json:"runId"`
	Timestamp string `json:"ts"`
	Full      int    `json:"full"`
	Changed   int    `json:"changed"`
	GoalSheet int    `json:"goalSheet"`
	Unmatched int    `json:"unmatched"`
}
