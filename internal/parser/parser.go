// Package parser extracts structured fields from the free-text analysis
// returned by the analysis service.
//
// Extraction is best-effort and never fails. Every extracted value carries
// a Source so callers can tell real data from placeholders.
package parser

import (
	"strings"

	"growtheory/internal/models"
)

// Source records where a field's value came from.
type Source int

const (
	// Defaulted means nothing matched and a fallback value was used.
	Defaulted Source = iota
	// Extracted means the value was pattern-matched out of the text.
	Extracted
	// Supplied means the service returned the value as structured data.
	Supplied
)

func (s Source) String() string {
	switch s {
	case Extracted:
		return "extracted"
	case Supplied:
		return "supplied"
	default:
		return "defaulted"
	}
}

// MarshalText encodes the source by name.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Field is a value together with its provenance.
type Field[T any] struct {
	Value  T      `json:"value"`
	Source Source `json:"source"`
}

// Found reports whether the value is real data rather than a fallback.
func (f Field[T]) Found() bool {
	return f.Source != Defaulted
}

func extracted[T any](v T) Field[T] { return Field[T]{Value: v, Source: Extracted} }

func supplied[T any](v T) Field[T] { return Field[T]{Value: v, Source: Supplied} }

func defaulted[T any](v T) Field[T] { return Field[T]{Value: v, Source: Defaulted} }

// Fallback values used when the text does not contain a field.
var (
	DefaultGreenFlags = []string{"No strengths were listed in this analysis"}
	DefaultRedFlags   = []string{"No risks were listed in this analysis"}
)

const (
	DefaultVerdict = "No recommendation provided"
	DefaultScore   = 75.0
	DefaultGrade   = "B+"
)

// Financials holds the labeled figures. Amounts are absolute values.
type Financials struct {
	Revenue      Field[float64] `json:"revenue"`
	MarketCap    Field[float64] `json:"market_cap"`
	ProfitMargin Field[float64] `json:"profit_margin"` // percent
	Employees    Field[int64]   `json:"employees"`
}

// ParsedReport is the structured view of an analysis.
type ParsedReport struct {
	GreenFlags Field[[]string] `json:"greenFlags"`
	RedFlags   Field[[]string] `json:"redFlags"`
	Verdict    Field[string]   `json:"verdict"`
	Outlook    models.Outlook  `json:"outlook,omitempty"`
	Score      Field[float64]  `json:"score"`
	Grade      Field[string]   `json:"grade"`
	Financials Financials      `json:"financials"`
}

// Defaulted lists the names of fields that fell back to placeholders.
func (p ParsedReport) Defaulted() []string {
	var names []string
	check := func(name string, s Source) {
		if s == Defaulted {
			names = append(names, name)
		}
	}
	check("greenFlags", p.GreenFlags.Source)
	check("redFlags", p.RedFlags.Source)
	check("verdict", p.Verdict.Source)
	check("score", p.Score.Source)
	check("grade", p.Grade.Source)
	check("revenue", p.Financials.Revenue.Source)
	check("marketCap", p.Financials.MarketCap.Source)
	check("profitMargin", p.Financials.ProfitMargin.Source)
	check("employees", p.Financials.Employees.Source)
	return names
}

// Parse extracts every known field from text.
func Parse(text string) ParsedReport {
	green, red := extractFlags(text)

	report := ParsedReport{
		GreenFlags: green,
		RedFlags:   red,
		Verdict:    extractRecommendation(text),
		Score:      extractScore(text),
		Grade:      extractGrade(text),
		Financials: extractFinancials(text),
	}
	if report.Verdict.Found() {
		report.Outlook = models.ParseOutlook(report.Verdict.Value)
	}
	return report
}

// FromResult builds the report view of a result. Structured data from the
// service wins; the text is only consulted for what was not supplied.
func FromResult(r *models.AnalysisResult) ParsedReport {
	report := Parse(r.DetailedAnalysis)

	if len(r.GreenFlags) > 0 {
		report.GreenFlags = supplied(cleanItems(r.GreenFlags))
	}
	if len(r.RedFlags) > 0 {
		report.RedFlags = supplied(cleanItems(r.RedFlags))
	}
	if v := strings.TrimSpace(r.VerdictText()); v != "" {
		report.Verdict = supplied(v)
	}
	if r.Score != nil {
		report.Score = supplied(*r.Score)
	}
	if g := strings.TrimSpace(r.Grade); g != "" {
		report.Grade = supplied(g)
	}

	if fd := r.FinancialData; !fd.IsEmpty() {
		if fd.Revenue != nil {
			report.Financials.Revenue = supplied(*fd.Revenue)
		}
		if fd.MarketCap != nil {
			report.Financials.MarketCap = supplied(*fd.MarketCap)
		}
		if fd.ProfitMargin != nil {
			report.Financials.ProfitMargin = supplied(*fd.ProfitMargin)
		}
		if fd.Employees != nil {
			report.Financials.Employees = supplied(*fd.Employees)
		}
	}

	report.Outlook = models.OutlookUnknown
	if report.Verdict.Found() {
		report.Outlook = models.ParseOutlook(report.Verdict.Value)
	}
	return report
}

func cleanItems(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
