// Package models provides domain models for the analysis client.
package models

import (
	"strings"

	apperrors "growtheory/internal/errors"
)

// Outlook represents the investment-outlook verdict variant.
type Outlook string

const (
	OutlookBullish Outlook = "BULLISH"
	OutlookNeutral Outlook = "NEUTRAL"
	OutlookBearish Outlook = "BEARISH"
	OutlookUnknown Outlook = ""
)

// InsightType represents the tone of a quick insight.
type InsightType string

const (
	InsightPositive InsightType = "positive"
	InsightNeutral  InsightType = "neutral"
	InsightNegative InsightType = "negative"
)

// Insight is a single quick-insight card.
type Insight struct {
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
}

// FinancialData holds the structured figures supplied by the backend.
// Nil pointers mean the backend did not report the figure.
type FinancialData struct {
	Revenue      *float64 `json:"revenue,omitempty"`
	MarketCap    *float64 `json:"market_cap,omitempty"`
	ProfitMargin *float64 `json:"profit_margin,omitempty"`
	Employees    *int64   `json:"employees,omitempty"`
}

// IsEmpty reports whether no figure was supplied.
func (f *FinancialData) IsEmpty() bool {
	return f == nil || (f.Revenue == nil && f.MarketCap == nil && f.ProfitMargin == nil && f.Employees == nil)
}

// AnalysisResult is the scored evaluation produced by the analysis service.
// It is treated as immutable once received.
type AnalysisResult struct {
	Company          string         `json:"company"`
	Ticker           string         `json:"ticker,omitempty"`
	DisplayTicker    string         `json:"display_ticker,omitempty"`
	Score            *float64       `json:"score"`
	Grade            string         `json:"grade,omitempty"`
	Verdict          string         `json:"verdict,omitempty"`
	Recommendation   string         `json:"recommendation,omitempty"`
	Role             string         `json:"role,omitempty"`
	Insights         []Insight      `json:"insights,omitempty"`
	GreenFlags       []string       `json:"greenFlags,omitempty"`
	RedFlags         []string       `json:"redFlags,omitempty"`
	ActionSteps      []string       `json:"actionSteps,omitempty"`
	HiringVelocity   *float64       `json:"hiringVelocity,omitempty"`
	StabilityScore   *float64       `json:"stabilityScore,omitempty"`
	LayoffRisk       *float64       `json:"layoffRisk,omitempty"`
	FinancialData    *FinancialData `json:"financialData,omitempty"`
	DetailedAnalysis string         `json:"detailedAnalysis,omitempty"`
	Timestamp        Timestamp      `json:"timestamp"`
	Cached           bool           `json:"cached,omitempty"`
	Error            string         `json:"error,omitempty"`
}

// Validate checks the fields every consumer relies on.
func (r *AnalysisResult) Validate() error {
	if r == nil {
		return apperrors.NewValidationError("result", nil, "empty response")
	}
	if strings.TrimSpace(r.Company) == "" {
		return apperrors.NewValidationError("company", nil, "missing required data")
	}
	if r.Score == nil {
		return apperrors.NewValidationError("score", nil, "missing required data")
	}
	return nil
}

// ScoreValue returns the score, or 0 when absent.
func (r *AnalysisResult) ScoreValue() float64 {
	if r == nil || r.Score == nil {
		return 0
	}
	return *r.Score
}

// ScoreScale returns the maximum of the scale the score is expressed on.
// Graded results are always out of 100; an ungraded score of 10 or less is
// taken to be on the 0-10 scale.
func (r *AnalysisResult) ScoreScale() float64 {
	if r.Grade == "" && r.ScoreValue() <= 10 {
		return 10
	}
	return 100
}

// VerdictText returns the verdict, falling back to the recommendation.
func (r *AnalysisResult) VerdictText() string {
	if r.Verdict != "" {
		return r.Verdict
	}
	return r.Recommendation
}

// ParseOutlook classifies a verdict string. Returns OutlookUnknown when
// none of the outlook words appear.
func ParseOutlook(verdict string) Outlook {
	upper := strings.ToUpper(verdict)
	switch {
	case strings.Contains(upper, string(OutlookBullish)):
		return OutlookBullish
	case strings.Contains(upper, string(OutlookBearish)):
		return OutlookBearish
	case strings.Contains(upper, string(OutlookNeutral)):
		return OutlookNeutral
	default:
		return OutlookUnknown
	}
}

// StatusPayload is the health payload returned by the status endpoint.
type StatusPayload struct {
	Status string                 `json:"status"`
	Fields map[string]interface{} `json:"-"`
}

// IsHealthy reports whether the payload advertises a healthy service.
func (s *StatusPayload) IsHealthy() bool {
	switch strings.ToLower(s.Status) {
	case "healthy", "ok", "up", "operational":
		return true
	}
	return false
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v.
func Int(v int64) *int64 {
	return &v
}
