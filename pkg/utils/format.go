// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NotAvailable is shown in place of a missing figure.
const NotAvailable = "N/A"

// FormatCompactUSD formats a dollar amount with a T/B/M suffix and two
// decimals once it reaches a million. Smaller amounts are written out in
// whole dollars with thousands separators.
func FormatCompactUSD(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	switch {
	case amount >= 1e12:
		return fmt.Sprintf("%s$%.2fT", sign, amount/1e12)
	case amount >= 1e9:
		return fmt.Sprintf("%s$%.2fB", sign, amount/1e9)
	case amount >= 1e6:
		return fmt.Sprintf("%s$%.2fM", sign, amount/1e6)
	}
	return sign + "$" + groupThousands(strconv.FormatInt(int64(math.Round(amount)), 10))
}

// FormatThousands formats an integer with comma thousands separators.
func FormatThousands(n int64) string {
	if n < 0 {
		// -n overflows for MinInt64; format the unsigned magnitude instead.
		return "-" + groupThousands(strconv.FormatUint(uint64(-(n+1))+1, 10))
	}
	return groupThousands(strconv.FormatInt(n, 10))
}

// groupThousands inserts commas into a string of digits.
func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}

	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatPercent formats a percentage with two decimals.
func FormatPercent(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}

// FormatScore formats a score without trailing zeros: 82, 7.5.
func FormatScore(score float64) string {
	return strconv.FormatFloat(math.Round(score*10)/10, 'f', -1, 64)
}
