// Package upc normalizes raw barcode text to canonical 12-digit UPC-A.
// Invoice scans and pricebook identifiers follow different rules: invoice
// barcodes never carry a check digit, pricebook ones do when 12 digits long.
package upc

import (
	"strings"

	"posrecon/internal/util"
)

// ignored holds known placeholder identifiers that must never reach any
// output view.
var ignored = map[string]struct{}{
	"000000000000": {},
	"003760010302": {},
	"023700052551": {},
}

// Ignored reports whether the identifier is a known placeholder.
func Ignored(upc string) bool {
	_, ok := ignored[upc]
	return ok
}

// CheckDigit computes the UPC-A check digit for an 11-digit core. The input
// is cleaned to digits, left-padded and truncated to 11; anything that still
// is not 11 digits yields "0" rather than an error.
func CheckDigit(core string) string {
	d := pad(util.DigitsOnly(core), 11)
	if len(d) > 11 {
		d = d[:11]
	}
	if len(d) != 11 {
		return "0"
	}
	odd, even := 0, 0
	for i, r := range d {
		n := int(r - '0')
		if i%2 == 0 {
			odd += n
		} else {
			even += n
		}
	}
	return string(rune('0' + (10-(odd*3+even)%10)%10))
}

// NormalizeInvoice converts a raw invoice-side barcode to 12-digit UPC-A.
// When more than 11 digits are present only the last 11 count, so vendor or
// country prefixes are discarded before the check digit is appended.
func NormalizeInvoice(raw string) string {
	d := util.DigitsOnly(raw)
	var core string
	if len(d) >= 11 {
		core = d[len(d)-11:]
	} else {
		core = pad(d, 11)
	}
	return core + CheckDigit(core)
}

// NormalizePOS converts a pricebook identifier to 12 digits. A 12-digit
// value is assumed check-digit-complete and passes through unchanged, which
// makes the function idempotent.
func NormalizePOS(raw string) string {
	d := util.DigitsOnly(raw)
	switch {
	case len(d) == 12:
		return d
	case len(d) == 11:
		return d + CheckDigit(d)
	case len(d) > 12:
		return d[len(d)-12:]
	default:
		return pad(d, 12)
	}
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
