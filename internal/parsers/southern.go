package parsers

import (
	"regexp"
	"strings"

	"posrecon/internal"
	"posrecon/internal/tabular"
	"posrecon/internal/upc"
	"posrecon/internal/util"
)

// SouthernGlazersParser handles the Southern Glazer's report dump, where one
// logical record spans several physical lines. Fields accumulate into the
// current record until the next ITEM# marker flushes it.
type SouthernGlazersParser struct{}

func (p *SouthernGlazersParser) Name() string { return "Southern Glazer's" }

func (p *SouthernGlazersParser) Tokens() []string {
	return []string{"ITEM#", "UPC", "SIZE:", "Unit Net Amount", "CS ORD/DLV", "Invoice"}
}

var (
	sgUPCRe     = regexp.MustCompile(`(?i)\bUPC[:\s]*([0-9\- ]+)`)
	sgSizeRe    = regexp.MustCompile(`(?i)\bSIZE[:\s]*([A-Za-z0-9 ]+)`)
	sgUnitNetRe = regexp.MustCompile(`(?i)Unit Net Amount[:\s]*\$?([0-9.,]+)`)
	sgCSRe      = regexp.MustCompile(`(?i)CS ORD/DLV[:\s]*([0-9]+(?:/[0-9]+)?)`)
	sgDateRe    = regexp.MustCompile(`(?i)Invoice Date[:\s]*([0-9/\-]+)`)
	sgDescRe    = regexp.MustCompile(`ITEM#.*?\s([A-Za-z0-9].+)`)
)

type sgRecord struct {
	upc     string
	size    string
	desc    string
	dateRaw string
	cost    *float64
	pack    *float64
}

func (r *sgRecord) line() internal.InvoiceLine {
	return internal.InvoiceLine{
		InvoiceDate: util.ParseDate(r.dateRaw),
		UPC:         r.upc,
		Description: r.desc,
		Size:        r.size,
		Pack:        r.pack,
		Cost:        r.cost,
		NetCost:     r.cost,
	}
}

func (p *SouthernGlazersParser) Parse(g tabular.Grid) []internal.InvoiceLine {
	if len(g) == 0 {
		return nil
	}
	headerRow := locateHeader(g, p.Tokens(), 80)

	out := []internal.InvoiceLine{}
	cur := &sgRecord{}
	for _, ln := range textLines(g, headerRow) {
		// New item marker: flush the accumulating record, if it got far
		// enough to have an identifier.
		if strings.Contains(strings.ToUpper(ln), "ITEM#") {
			if cur.upc != "" {
				out = append(out, cur.line())
			}
			cur = &sgRecord{}
		}

		if m := sgUPCRe.FindStringSubmatch(ln); m != nil {
			cur.upc = upc.NormalizeInvoice(m[1])
		}
		if m := sgSizeRe.FindStringSubmatch(ln); m != nil {
			sz := strings.TrimSpace(m[1])
			sz = strings.ReplaceAll(sz, " z", " oz")
			sz = strings.ReplaceAll(sz, "Z", "oz")
			cur.size = sz
		}
		if m := sgUnitNetRe.FindStringSubmatch(ln); m != nil {
			if v, ok := util.ParseMoney(m[1]); ok {
				cur.cost = util.FloatPtr(v)
			}
		}
		if m := sgCSRe.FindStringSubmatch(ln); m != nil {
			if v, ok := util.FirstInt(m[1]); ok {
				cur.pack = util.FloatPtr(float64(v))
			}
		}
		if m := sgDateRe.FindStringSubmatch(ln); m != nil && cur.dateRaw == "" {
			cur.dateRaw = m[1]
		}
		if cur.desc == "" {
			if m := sgDescRe.FindStringSubmatch(ln); m != nil {
				cur.desc = strings.TrimSpace(m[1])
			}
		}
	}
	if cur.upc != "" {
		out = append(out, cur.line())
	}
	return out
}
