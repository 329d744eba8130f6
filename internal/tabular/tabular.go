// Package tabular supplies the raw tabular primitives the pipeline is built
// on: reading heterogeneous vendor files (CSV, XLSX, PDF, HTML, or .eml
// messages carrying any of those as attachments) into a grid of string
// cells, and writing result tables back out as CSV or a multi-sheet
// workbook.
package tabular

// Grid is raw tabular content with no header interpretation. Rows may have
// differing cell counts.
type Grid [][]string

// File is a named grid. One uploaded file can unpack into several (e.g. an
// .eml with multiple attachments), and parser selection stays per-File.
type File struct {
	Name string
	Grid Grid
}

// Table is a shaped result view: a header plus string-rendered rows.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Sheet names a table inside an exported workbook.
type Sheet struct {
	Name  string
	Table Table
}

// Sanitize drops any column whose name already appeared earlier in the
// header, keeping the first occurrence. Applied before every export and
// preview.
func (t Table) Sanitize() Table {
	seen := map[string]struct{}{}
	keep := make([]int, 0, len(t.Columns))
	for i, c := range t.Columns {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		keep = append(keep, i)
	}
	if len(keep) == len(t.Columns) {
		return t
	}

	out := Table{Columns: make([]string, 0, len(keep)), Rows: make([][]string, 0, len(t.Rows))}
	for _, i := range keep {
		out.Columns = append(out.Columns, t.Columns[i])
	}
	for _, row := range t.Rows {
		cells := make([]string, 0, len(keep))
		for _, i := range keep {
			if i < len(row) {
				cells = append(cells, row[i])
			} else {
				cells = append(cells, "")
			}
		}
		out.Rows = append(out.Rows, cells)
	}
	return out
}

// Head returns up to n leading rows of the grid.
func (g Grid) Head(n int) Grid {
	if len(g) <= n {
		return g
	}
	return g[:n]
}
