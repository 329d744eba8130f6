package recon

import (
	"fmt"

	"posrecon/internal/tabular"
)

// Artifact names embed the completion stamp of the run that produced them.

func (r *Result) ChangedCSVName() string {
	return fmt.Sprintf("POS_Update_OnlyChanged_%s.csv", r.Stamp())
}

func (r *Result) FullCSVName() string {
	return fmt.Sprintf("POS_Full_AllItems_%s.csv", r.Stamp())
}

func (r *Result) AuditWorkbookName() string {
	return fmt.Sprintf("Unified_Audit_%s_with_GoalSheet1.xlsx", r.Stamp())
}

// ChangedCSV renders the changed-only view as CSV bytes.
func (r *Result) ChangedCSV() ([]byte, error) {
	return tabular.WriteCSV(r.ChangedOnly.Sanitize())
}

// FullCSV renders the full export as CSV bytes.
func (r *Result) FullCSV() ([]byte, error) {
	return tabular.WriteCSV(r.FullExport.Sanitize())
}

// AuditWorkbook renders the three-sheet audit workbook.
func (r *Result) AuditWorkbook() ([]byte, error) {
	return tabular.WriteWorkbookXLSX([]tabular.Sheet{
		{Name: "Changes Only", Table: r.ChangedOnly.Sanitize()},
		{Name: "Goal Sheet 1", Table: r.GoalSheet.Sanitize()},
		{Name: "Unmatched", Table: r.Unmatched.Sanitize()},
	})
}
