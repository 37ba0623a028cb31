package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// LineKind is the display role of a line of analysis text.
type LineKind int

const (
	Paragraph LineKind = iota
	Header
	Numbered
	Bullet
	Highlight
)

func (k LineKind) String() string {
	switch k {
	case Header:
		return "header"
	case Numbered:
		return "numbered"
	case Bullet:
		return "bullet"
	case Highlight:
		return "highlight"
	default:
		return "paragraph"
	}
}

// Tone marks bullets that carry a positive or warning marker.
type Tone int

const (
	ToneNeutral Tone = iota
	TonePositive
	ToneWarning
)

// Line is one classified, non-empty line.
type Line struct {
	Kind   LineKind
	Tone   Tone
	Marker string // "1." for numbered lines, the leading emoji for highlights
	Text   string
}

var numberedRe = regexp.MustCompile(`^(\d+)\.\s+(.*)$`)

// ClassifyLines splits text into display lines. Empty lines are dropped.
func ClassifyLines(text string) []Line {
	var out []Line
	for _, raw := range strings.Split(text, "\n") {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		out = append(out, classify(s))
	}
	return out
}

func classify(s string) Line {
	if strings.HasSuffix(s, ":") && !strings.Contains(s, "http") {
		return Line{Kind: Header, Text: strings.TrimSpace(strings.Trim(s, "#* "))}
	}
	if m := numberedRe.FindStringSubmatch(s); m != nil {
		return Line{Kind: Numbered, Marker: m[1] + ".", Text: m[2]}
	}

	r, size := utf8.DecodeRuneInString(s)
	switch r {
	case '-', '•':
		return Line{Kind: Bullet, Text: strings.TrimSpace(s[size:])}
	case '✅':
		return Line{Kind: Bullet, Tone: TonePositive, Text: strings.TrimSpace(s[size:])}
	case '❗':
		return Line{Kind: Bullet, Tone: ToneWarning, Text: strings.TrimSpace(s[size:])}
	}
	if r >= 0x1F300 && r <= 0x1F9FF {
		rest := strings.TrimPrefix(s[size:], "\uFE0F")
		return Line{Kind: Highlight, Marker: string(r), Text: strings.TrimSpace(rest)}
	}
	return Line{Kind: Paragraph, Text: s}
}
