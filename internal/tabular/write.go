package tabular

import (
	"bytes"
	"encoding/csv"

	"github.com/xuri/excelize/v2"
)

// WriteCSV renders the table as UTF-8 CSV bytes, header first.
func WriteCSV(t Table) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	w := csv.NewWriter(buf)
	if err := w.Write(t.Columns); err != nil {
		return nil, err
	}
	for _, row := range t.Rows {
		if err := w.Write(padRow(row, len(t.Columns))); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteWorkbookXLSX builds a multi-sheet workbook. Sheet names are truncated
// to the 31-character limit imposed by the format.
func WriteWorkbookXLSX(sheets []Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for si, sheet := range sheets {
		name := sheet.Name
		if len(name) > 31 {
			name = name[:31]
		}
		if si == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return nil, err
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return nil, err
			}
		}

		for ci, h := range sheet.Table.Columns {
			cell, _ := excelize.CoordinatesToCellName(ci+1, 1)
			_ = f.SetCellValue(name, cell, h)
		}
		for ri, row := range sheet.Table.Rows {
			for ci, v := range padRow(row, len(sheet.Table.Columns)) {
				cell, _ := excelize.CoordinatesToCellName(ci+1, ri+2)
				_ = f.SetCellValue(name, cell, v)
			}
		}
	}

	buf := bytes.NewBuffer(nil)
	if _, err := f.WriteTo(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func padRow(row []string, width int) []string {
	if len(row) >= width {
		return row[:width]
	}
	out := make([]string, width)
	copy(out, row)
	return out
}
