package cli

import (
	"fmt"
	"strings"
	"time"

	"growtheory/internal/parser"
	"growtheory/pkg/utils"
)

// TimeAgo describes how long before now t was, in whole hours or days.
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	hours := int(now.Sub(t).Hours())
	switch {
	case hours < 1:
		return "Just now"
	case hours == 1:
		return "1 hour ago"
	case hours < 24:
		return fmt.Sprintf("%d hours ago", hours)
	}
	days := hours / 24
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}

// GradeClass buckets a letter grade by its first letter.
func GradeClass(grade string) string {
	switch {
	case strings.HasPrefix(grade, "A"):
		return "grade-a"
	case strings.HasPrefix(grade, "B"):
		return "grade-b"
	case strings.HasPrefix(grade, "C"):
		return "grade-c"
	default:
		return "grade-d"
	}
}

// FormatAmount renders a dollar figure, or N/A when it was not found or is zero.
func FormatAmount(f parser.Field[float64]) string {
	if !f.Found() || f.Value == 0 {
		return utils.NotAvailable
	}
	return utils.FormatCompactUSD(f.Value)
}

// FormatMargin renders a percentage, or N/A when it was not found.
func FormatMargin(f parser.Field[float64]) string {
	if !f.Found() {
		return utils.NotAvailable
	}
	return utils.FormatPercent(f.Value)
}

// FormatHeadcount renders an employee count, or N/A.
func FormatHeadcount(f parser.Field[int64]) string {
	if !f.Found() || f.Value == 0 {
		return utils.NotAvailable
	}
	return utils.FormatThousands(f.Value)
}

// FormatDateTime formats a timestamp with layout, or "unknown" when zero.
func FormatDateTime(t time.Time, layout string) string {
	if t.IsZero() {
		return "unknown"
	}
	if layout == "" {
		layout = "02-Jan-2006 15:04"
	}
	return t.Local().Format(layout)
}

// TruncateString truncates a string to max runes with ellipsis.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
