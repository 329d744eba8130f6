package parsers

import (
	"regexp"

	"posrecon/internal"
	"posrecon/internal/tabular"
	"posrecon/internal/upc"
	"posrecon/internal/util"
)

// NevadaBeverageParser handles the Nevada Beverage report dump: one complete
// record per line, terminated by a totals/payment section.
type NevadaBeverageParser struct{}

func (p *NevadaBeverageParser) Name() string { return "Nevada Beverage" }

func (p *NevadaBeverageParser) Tokens() []string {
	return []string{"ITEM#", "U.P.C.", "QTY", "DESCRIPTION"}
}

var (
	nvStopRe = regexp.MustCompile(`(?i)TOTAL|PAYMENT|SUMMARY`)
	nvUPCRe  = regexp.MustCompile(`(?i)(?:UPC|U\.P\.C\.)[:\s]*([0-9\- ]+)`)
	nvDescRe = regexp.MustCompile(`ITEM#\s*\S+\s+(.+)`)
	nvCostRe = regexp.MustCompile(`\$([0-9.,]+)`)
	nvDateRe = regexp.MustCompile(`(?i)Invoice Date[:\s]*([0-9/\-]+)`)
)

func (p *NevadaBeverageParser) Parse(g tabular.Grid) []internal.InvoiceLine {
	if len(g) == 0 {
		return nil
	}
	headerRow := locateHeader(g, p.Tokens(), 100)

	out := []internal.InvoiceLine{}
	for _, ln := range textLines(g, headerRow) {
		if nvStopRe.MatchString(ln) {
			break
		}
		m := nvUPCRe.FindStringSubmatch(ln)
		if m == nil {
			continue
		}

		line := internal.InvoiceLine{UPC: upc.NormalizeInvoice(m[1])}
		if dm := nvDescRe.FindStringSubmatch(ln); dm != nil {
			line.Description = util.NormalizeSpaces(dm[1])
		}
		if cm := nvCostRe.FindStringSubmatch(ln); cm != nil {
			if v, ok := util.ParseMoney(cm[1]); ok {
				line.Cost = util.FloatPtr(v)
				line.NetCost = line.Cost
			}
		}
		if dm := nvDateRe.FindStringSubmatch(ln); dm != nil {
			line.InvoiceDate = util.ParseDate(dm[1])
		}
		out = append(out, line)
	}
	return out
}
