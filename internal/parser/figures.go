package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// amountPattern captures the number and the word right after it. An unknown
// word fails ParseAmount, so "3 gazillion" is never read as 3.
const amountPattern = `\$?[ \t]*([0-9][0-9,]*(?:\.[0-9]+)?)(?:[ \t]*([A-Za-z]+))?`

const revenueLabel = `revenue(?:\s*\([^)]*\))?\s*:\s*`

var (
	// Annual revenue is preferred over any other revenue line. A plain
	// "Revenue:" label only counts at the start of a line, so "Quarterly
	// Revenue:" never matches.
	annualRevenueRe = regexp.MustCompile(`(?i)annual\s+` + revenueLabel + amountPattern)
	revenueRe       = regexp.MustCompile(`(?im)^[^\w\n]*(?:total\s+)?` + revenueLabel + amountPattern)
	marketCapRe     = regexp.MustCompile(`(?i)market\s+cap(?:italization)?\s*:\s*` + amountPattern)
	profitMarginRe  = regexp.MustCompile(`(?i)(?:net\s+)?profit\s+margin\s*:\s*(-?[0-9]+(?:\.[0-9]+)?)\s*%`)
	employeesRe     = regexp.MustCompile(`(?i)(?:total\s+)?employees\s*:\s*~?\s*([0-9][0-9,]*(?:\.[0-9]+)?)[ \t]*(thousands?|millions?|[km])?\b`)
)

// currencyWords may follow an amount without scaling it.
var currencyWords = map[string]bool{"usd": true, "dollar": true, "dollars": true}

var unitScale = map[string]float64{
	"t": 1e12, "tn": 1e12, "trillion": 1e12,
	"b": 1e9, "bn": 1e9, "billion": 1e9,
	"m": 1e6, "mn": 1e6, "million": 1e6,
	"k": 1e3, "thousand": 1e3,
}

// ParseAmount converts a number with an optional unit suffix (M/B/T or
// million/billion/trillion, any case, singular or plural) to an absolute
// value. Commas in the number are ignored.
func ParseAmount(number, unit string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(number, ",", ""), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	unit = strings.ToLower(strings.TrimSpace(unit))
	if unit == "" {
		return v, true
	}
	scale, ok := unitScale[unit]
	if !ok {
		scale, ok = unitScale[strings.TrimSuffix(unit, "s")]
	}
	if !ok {
		return 0, false
	}
	return v * scale, true
}

// matchAmount reads the amount from the first pattern that matches. A match
// with an unrecognized unit is defaulted rather than read without its unit.
func matchAmount(text string, patterns ...*regexp.Regexp) Field[float64] {
	var m []string
	for _, re := range patterns {
		if m = re.FindStringSubmatch(text); m != nil {
			break
		}
	}
	if m == nil {
		return defaulted(0.0)
	}
	unit := m[2]
	if currencyWords[strings.ToLower(unit)] {
		unit = ""
	}
	v, ok := ParseAmount(m[1], unit)
	if !ok {
		return defaulted(0.0)
	}
	return extracted(v)
}

func extractFinancials(text string) Financials {
	text = strings.ReplaceAll(text, "**", "")

	f := Financials{
		Revenue:      matchAmount(text, annualRevenueRe, revenueRe),
		MarketCap:    matchAmount(text, marketCapRe),
		ProfitMargin: defaulted(0.0),
		Employees:    defaulted(int64(0)),
	}

	if m := profitMarginRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			f.ProfitMargin = extracted(v)
		}
	}

	if m := employeesRe.FindStringSubmatch(text); m != nil {
		if v, ok := ParseAmount(m[1], m[2]); ok {
			f.Employees = extracted(int64(math.Round(v)))
		}
	}

	return f
}
