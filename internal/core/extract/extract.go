// Package extract holds the pure text extractors of the normalization
// pipeline. Every function is deterministic and side-effect free; a value
// that cannot be parsed is reported through the ok flag, never through an
// error or a panic, because scraped text is loosely formatted by nature.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	areaRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s?m(?:2|²)`)

	// €1,234.56 — currency symbol first, comma thousands, point decimal.
	prefixedCostRe = regexp.MustCompile(`[€$£]\s?(\d{1,3}(?:,\d{3})*(?:\.\d+)?)`)
	// 1.234,56€ — trailing symbol, European separators, decimal optional.
	trailingCostRe = regexp.MustCompile(`(\d{1,3}(?:\.\d{3})*(?:,\d+)?)\s?[€$£]`)

	multiSpaceRe = regexp.MustCompile(`\s+`)
	yearRe       = regexp.MustCompile(`\b(\d{4})\b`)
)

// Area returns the first number immediately followed by "m2" (case
// insensitive, optional space, "m²" accepted) as square meters. No unit
// conversion is attempted.
func Area(text string) (float64, bool) {
	m := areaRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Cost scans for a currency-prefixed amount with a decimal point first
// ("€1,234.56"); failing that, it falls back to a trailing-symbol amount with
// European separators ("1.234,56€"). Missing cost is a legitimate outcome and
// is reported through the ok flag.
func Cost(text string) (float64, bool) {
	if m := prefixedCostRe.FindStringSubmatch(text); m != nil {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err == nil {
			return v, true
		}
	}
	if m := trailingCostRe.FindStringSubmatch(text); m != nil {
		s := strings.ReplaceAll(m[1], ".", "")
		s = strings.ReplaceAll(s, ",", ".")
		v, err := strconv.ParseFloat(s, 64)
		if err == nil {
			return v, true
		}
	}
	return 0, false
}

// monthsByName accepts English and Spanish month names, lowercased and with
// accents folded.
var monthsByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,

	"enero": time.January, "febrero": time.February, "marzo": time.March,
	"abril": time.April, "mayo": time.May, "junio": time.June, "julio": time.July,
	"agosto": time.August, "septiembre": time.September, "octubre": time.October,
	"noviembre": time.November, "diciembre": time.December,
}

// MonthWindow parses "<ignored prefix> <Month name> <Year>" into the closed
// date range spanning that full calendar month, as YYYY-MM-DD strings.
// Unrecognized month names or missing years yield ok=false; callers must
// drop calendar entries with no start date before upload.
func MonthWindow(text string) (start, end string, ok bool) {
	folded := strings.ToLower(FoldAccents(text))

	var month time.Month
	found := false
	for _, token := range strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		if m, known := monthsByName[token]; known {
			month = m
			found = true
			break
		}
	}
	if !found {
		return "", "", false
	}

	ym := yearRe.FindStringSubmatch(folded)
	if ym == nil {
		return "", "", false
	}
	year, err := strconv.Atoi(ym[1])
	if err != nil {
		return "", "", false
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1) // day 0 of next month
	return first.Format("2006-01-02"), last.Format("2006-01-02"), true
}

// CleanDescription strips HTML tags and collapses runs of whitespace.
// Input that is not valid HTML passes through as plain text. Idempotent.
func CleanDescription(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return CollapseWhitespace(html)
	}
	return CollapseWhitespace(doc.Text())
}

// CollapseWhitespace replaces every run of whitespace with a single space and
// trims the ends.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(multiSpaceRe.ReplaceAllString(s, " "))
}

var accentFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldAccents removes diacritic marks: "Málaga" becomes "Malaga". Only
// Unicode normalization is involved, no locale-specific rules.
func FoldAccents(s string) string {
	out, _, err := transform.String(accentFold, s)
	if err != nil {
		return s
	}
	return out
}
