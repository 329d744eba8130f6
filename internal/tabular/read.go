package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jhillyerd/enmime"
	pdf "github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

// ReadInvoiceFile turns one uploaded file into grids ready for parser
// selection. An .eml message is unpacked into one File per supported
// attachment; attachments that fail to read are skipped rather than failing
// the upload.
func ReadInvoiceFile(name string, data []byte) ([]File, error) {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".eml") {
		return readEML(data)
	}
	g, err := readByExtension(lower, data)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return []File{{Name: name, Grid: g}}, nil
}

func readByExtension(lower string, data []byte) (Grid, error) {
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return ReadCSV(bytes.NewReader(data))
	case strings.HasSuffix(lower, ".xlsx"), strings.HasSuffix(lower, ".xls"):
		return ReadXLSX(data)
	case strings.HasSuffix(lower, ".pdf"):
		return ReadPDF(data)
	case strings.HasSuffix(lower, ".html"), strings.HasSuffix(lower, ".htm"):
		return ReadHTML(data)
	default:
		return nil, fmt.Errorf("unsupported file type")
	}
}

// ReadCSV reads string-typed cells; rows may have uneven field counts.
func ReadCSV(r io.Reader) (Grid, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	return Grid(records), nil
}

// ReadXLSX reads the first sheet of a workbook.
func ReadXLSX(data []byte) (Grid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Grid{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return Grid(rows), nil
}

// ReadPDF extracts plain text page by page; each non-empty line becomes a
// single-cell row, which the free-text vendor parsers consume as-is.
func ReadPDF(data []byte) (Grid, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	out := Grid{}
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		for _, line := range splitLines(text) {
			out = append(out, []string{line})
		}
	}
	return out, nil
}

// ReadHTML flattens every <table> in the document into rows of cell text.
func ReadHTML(data []byte) (Grid, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	out := Grid{}
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := []string{}
			row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, strings.TrimSpace(cell.Text()))
			})
			if len(cells) > 0 {
				out = append(out, cells)
			}
		})
	})
	return out, nil
}

func readEML(raw []byte) ([]File, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("read eml: %w", err)
	}

	out := []File{}
	for _, att := range env.Attachments {
		filename := strings.TrimSpace(att.FileName)
		if filename == "" {
			filename = "attachment"
		}
		g, err := readByExtension(strings.ToLower(filename), att.Content)
		if err != nil {
			continue
		}
		out = append(out, File{Name: filename, Grid: g})
	}
	return out, nil
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
