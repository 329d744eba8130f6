package util

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reDigits = regexp.MustCompile(`\D`)
	reInt    = regexp.MustCompile(`\d+`)
	reSpaces = regexp.MustCompile(`\s+`)
)

// NormalizeSpaces collapses runs of whitespace and trims the result.
func NormalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

// DigitsOnly strips everything except ASCII digits.
func DigitsOnly(input string) string {
	return reDigits.ReplaceAllString(input, "")
}

// FirstInt extracts the first run of digits as an integer.
func FirstInt(input string) (int64, bool) {
	m := reInt.FindString(input)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseMoney parses a currency-ish token: "$1,234.50" -> 1234.5.
func ParseMoney(input string) (float64, bool) {
	s := strings.TrimSpace(input)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"01-02-2006",
	"1-2-2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02 15:04:05",
	"01/02/2006 15:04:05",
}

// ParseDate parses vendor free-text dates permissively. Returns nil when no
// known layout matches, so a bad date degrades to absent instead of failing
// the row.
func ParseDate(input string) *time.Time {
	s := NormalizeSpaces(input)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
