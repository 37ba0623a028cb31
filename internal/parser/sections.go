package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// Heading patterns match a normalized line (see normalizeLine). Leading
// emoji such as 🟢 and 🔴 are optional.
var (
	greenHeadingRe = regexp.MustCompile(`(?i)^(?:[\p{So}\p{Sk}\x{FE0F}]\s*)*(?:green\s+flags?|why\s+join|strengths|pros|positives)\s*(?::.*)?$`)
	redHeadingRe   = regexp.MustCompile(`(?i)^(?:[\p{So}\p{Sk}\x{FE0F}]\s*)*(?:red\s+flags?|considerations|risks|cons|concerns|watch\s+outs?)\s*(?::.*)?$`)
	knownHeadingRe = regexp.MustCompile(`(?i)^(?:[\p{So}\p{Sk}\x{FE0F}]\s*)*(?:recommendation|verdict|bottom\s+line|financial\s+\w+|key\s+metrics|summary|overview|outlook)\b(?:[^:]{0,30}:|\s*$)`)

	recommendationRe = regexp.MustCompile(`(?i)^(?:[\p{So}\p{Sk}\x{FE0F}]\s*)*(?:final\s+)?recommendation\s*:\s*(.*)$`)
	scoreRe          = regexp.MustCompile(`\b(\d{1,3}(?:\.\d+)?)\s*/\s*100\b`)
	gradeRe          = regexp.MustCompile(`(?i)\bgrade\s*:\s*([A-F][+-]?)(?:\s|$|[.,;)])`)
)

// normalizeLine trims whitespace, markdown heading marks and bold markers.
func normalizeLine(line string) string {
	s := strings.TrimSpace(line)
	s = strings.TrimLeft(s, "#>")
	s = strings.ReplaceAll(s, "**", "")
	return strings.TrimSpace(s)
}

// bulletItem returns the text of a dash (or •) bullet line.
func bulletItem(line string) (string, bool) {
	s := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(s, "-"):
		if strings.Trim(s, "-") == "" {
			return "", false // horizontal rule
		}
		return strings.TrimSpace(strings.TrimPrefix(s, "-")), true
	case strings.HasPrefix(s, "•"):
		return strings.TrimSpace(strings.TrimPrefix(s, "•")), true
	}
	return "", false
}

func isHeading(norm string) bool {
	if knownHeadingRe.MatchString(norm) {
		return true
	}
	return strings.HasSuffix(norm, ":") && !strings.Contains(norm, "http")
}

type section int

const (
	sectionNone section = iota
	sectionGreen
	sectionRed
)

// extractFlags collects bullet lines under the green and red headings. A
// section runs until the next heading or the end of the text.
func extractFlags(text string) (Field[[]string], Field[[]string]) {
	var (
		current              = sectionNone
		green, red           []string
		greenFound, redFound bool
	)

	for _, line := range strings.Split(text, "\n") {
		if item, ok := bulletItem(line); ok {
			if item == "" {
				continue
			}
			switch current {
			case sectionGreen:
				green = append(green, item)
			case sectionRed:
				red = append(red, item)
			}
			continue
		}

		norm := normalizeLine(line)
		if norm == "" {
			continue
		}
		switch {
		case greenHeadingRe.MatchString(norm):
			current = sectionGreen
			greenFound = true
		case redHeadingRe.MatchString(norm):
			current = sectionRed
			redFound = true
		case isHeading(norm):
			current = sectionNone
		}
	}

	greenField := defaulted(append([]string(nil), DefaultGreenFlags...))
	if greenFound {
		greenField = extracted(nonNil(green))
	}
	redField := defaulted(append([]string(nil), DefaultRedFlags...))
	if redFound {
		redField = extracted(nonNil(red))
	}
	return greenField, redField
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

// extractRecommendation returns the remainder of the "Recommendation:" line,
// or the next non-empty line when the heading stands alone.
func extractRecommendation(text string) Field[string] {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		norm := normalizeLine(strings.TrimLeft(strings.TrimSpace(line), "-•"))
		m := recommendationRe.FindStringSubmatch(norm)
		if m == nil {
			continue
		}
		if v := strings.TrimSpace(m[1]); v != "" {
			return extracted(v)
		}
		for _, next := range lines[i+1:] {
			if v := normalizeLine(next); v != "" {
				if item, ok := bulletItem(next); ok {
					v = item
				}
				return extracted(v)
			}
		}
	}
	return defaulted(DefaultVerdict)
}

func extractScore(text string) Field[float64] {
	m := scoreRe.FindStringSubmatch(text)
	if m == nil {
		return defaulted(DefaultScore)
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || v > 100 {
		return defaulted(DefaultScore)
	}
	return extracted(v)
}

func extractGrade(text string) Field[string] {
	m := gradeRe.FindStringSubmatch(strings.ReplaceAll(text, "**", ""))
	if m == nil {
		return defaulted(DefaultGrade)
	}
	return extracted(strings.ToUpper(m[1]))
}
