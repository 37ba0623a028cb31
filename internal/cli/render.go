package cli

import (
	"fmt"
	"strings"
	"time"

	"growtheory/internal/models"
	"growtheory/internal/parser"
	"growtheory/internal/resilience"
	"growtheory/internal/search"
	"growtheory/pkg/utils"
)

// reportView is the JSON shape of a rendered report.
type reportView struct {
	Result *models.AnalysisResult `json:"result"`
	Parsed parser.ParsedReport    `json:"parsed"`
}

// RenderReport prints a full analysis report.
func RenderReport(o *Output, r *models.AnalysisResult, dateLayout string) error {
	parsed := parser.FromResult(r)
	if o.IsJSON() {
		return o.JSON(reportView{Result: r, Parsed: parsed})
	}

	renderHeader(o, r, dateLayout)
	renderScoreCard(o, r, parsed)
	renderMetrics(o, r, parsed)
	renderVerdict(o, parsed)
	renderInsights(o, r.Insights)
	renderFlags(o, "Why Join", parsed.GreenFlags, o.Green("+"))
	renderFlags(o, "Considerations", parsed.RedFlags, o.Red("-"))
	renderActionPlan(o, r.ActionSteps)
	renderDetailedAnalysis(o, r.DetailedAnalysis)
	return nil
}

func renderHeader(o *Output, r *models.AnalysisResult, dateLayout string) {
	title := r.Company
	ticker := r.DisplayTicker
	if ticker == "" {
		ticker = r.Ticker
	}
	if ticker != "" {
		title = fmt.Sprintf("%s (%s)", r.Company, strings.ToUpper(ticker))
	}
	o.Bold("%s", title)

	role := r.Role
	if role == "" {
		role = "General Analysis"
	}
	meta := fmt.Sprintf("%s · Generated %s", role, FormatDateTime(r.Timestamp.Time, dateLayout))
	if r.Cached {
		meta += " · cached"
	}
	o.Dim("%s", meta)
	o.Println()
}

func renderScoreCard(o *Output, r *models.AnalysisResult, parsed parser.ParsedReport) {
	scale := r.ScoreScale()
	if parsed.Score.Source != parser.Supplied {
		scale = 100
	}
	score := fmt.Sprintf("%s/%s", utils.FormatScore(parsed.Score.Value), utils.FormatScore(scale))

	lines := []string{
		fmt.Sprintf("Score  %s   Grade %s", o.BoldText(score), o.GradeBadge(parsed.Grade.Value)),
	}
	if !parsed.Score.Found() || !parsed.Grade.Found() {
		lines = append(lines, o.DimText("score or grade not reported; showing defaults"))
	}
	o.Box("Overall Score", lines)
	o.Println()
}

func renderMetrics(o *Output, r *models.AnalysisResult, parsed parser.ParsedReport) {
	fin := parsed.Financials
	o.Bold("Key Metrics")
	o.Printf("  %-16s %s\n", "Annual Revenue", FormatAmount(fin.Revenue))
	o.Printf("  %-16s %s\n", "Market Cap", FormatAmount(fin.MarketCap))
	o.Printf("  %-16s %s\n", "Profit Margin", FormatMargin(fin.ProfitMargin))
	o.Printf("  %-16s %s\n", "Employees", FormatHeadcount(fin.Employees))

	extra := []struct {
		label string
		value *float64
	}{
		{"Hiring Velocity", r.HiringVelocity},
		{"Stability Score", r.StabilityScore},
		{"Layoff Risk", r.LayoffRisk},
	}
	for _, e := range extra {
		if e.value != nil {
			o.Printf("  %-16s %s\n", e.label, utils.FormatScore(*e.value))
		}
	}
	o.Println()
}

func renderVerdict(o *Output, parsed parser.ParsedReport) {
	o.Bold("The Verdict")
	if !parsed.Verdict.Found() {
		o.Dim("  %s", parsed.Verdict.Value)
		o.Println()
		return
	}
	if badge := o.OutlookBadge(parsed.Outlook); badge != "" {
		o.Printf("  %s\n", badge)
	}
	o.Printf("  %s\n\n", parsed.Verdict.Value)
}

func renderInsights(o *Output, insights []models.Insight) {
	if len(insights) == 0 {
		return
	}
	o.Bold("Quick Insights")
	for _, in := range insights {
		var marker string
		switch in.Type {
		case models.InsightPositive:
			marker = o.Green("●")
		case models.InsightNegative:
			marker = o.Red("●")
		default:
			marker = o.Yellow("●")
		}
		o.Printf("  %s %s\n", marker, o.BoldText(in.Title))
		if in.Description != "" {
			o.Printf("    %s\n", in.Description)
		}
	}
	o.Println()
}

func renderFlags(o *Output, title string, flags parser.Field[[]string], marker string) {
	o.Bold("%s", title)
	switch {
	case !flags.Found():
		for _, item := range flags.Value {
			o.Dim("  %s", item)
		}
	case len(flags.Value) == 0:
		o.Dim("  (none listed)")
	default:
		for _, item := range flags.Value {
			o.Printf("  %s %s\n", marker, item)
		}
	}
	o.Println()
}

func renderActionPlan(o *Output, steps []string) {
	if len(steps) == 0 {
		return
	}
	o.Bold("Your Action Plan")
	for i, step := range steps {
		o.Printf("  %s %s\n", o.Cyan(fmt.Sprintf("Step %d:", i+1)), step)
	}
	o.Println()
}

func renderDetailedAnalysis(o *Output, text string) {
	lines := parser.ClassifyLines(text)
	if len(lines) == 0 {
		return
	}
	o.Bold("Detailed Analysis")
	for _, l := range lines {
		switch l.Kind {
		case parser.Header:
			o.Println()
			o.Printf("  %s\n", o.BoldText(l.Text))
		case parser.Numbered:
			o.Printf("  %s %s\n", o.Cyan(l.Marker), l.Text)
		case parser.Bullet:
			marker := "•"
			switch l.Tone {
			case parser.TonePositive:
				marker = o.Green("✓")
			case parser.ToneWarning:
				marker = o.Yellow("!")
			}
			o.Printf("    %s %s\n", marker, l.Text)
		case parser.Highlight:
			o.Printf("  %s %s\n", l.Marker, o.BoldText(l.Text))
		default:
			o.Printf("  %s\n", l.Text)
		}
	}
	o.Println()
}

// RenderDashboard prints one page of recently analyzed companies.
func RenderDashboard(o *Output, page *models.DashboardPage, now time.Time) error {
	if o.IsJSON() {
		return o.JSON(page)
	}

	o.Bold("Recently Analyzed Companies")
	if page == nil || len(page.Companies) == 0 {
		o.Dim("No companies analyzed yet. Run 'growtheory analyze <company>' to get started!")
		return nil
	}

	table := NewTable(o, "TICKER", "COMPANY", "SCORE", "GRADE", "ANALYZED")
	for _, c := range page.Companies {
		table.AddRow(
			c.Ticker,
			TruncateString(c.Company, 32),
			utils.FormatScore(c.Score)+"/100",
			o.GradeBadge(c.Grade),
			TimeAgo(c.Timestamp.Time, now),
		)
	}
	table.Render()

	p := page.Pagination
	if p.TotalPages > 1 {
		o.Println()
		o.Printf("%s\n", paginationBar(o, p))
	}
	return nil
}

func paginationBar(o *Output, p models.Pagination) string {
	var parts []string
	if p.Page > 1 {
		parts = append(parts, "‹ prev")
	}
	for i := 1; i <= p.TotalPages; i++ {
		label := fmt.Sprintf("%d", i)
		if i == p.Page {
			label = o.BoldText("[" + label + "]")
		}
		parts = append(parts, label)
	}
	if p.Page < p.TotalPages {
		parts = append(parts, "next ›")
	}
	summary := fmt.Sprintf("Page %d of %d", p.Page, p.TotalPages)
	if p.Total > 0 {
		summary += fmt.Sprintf(" (%d companies)", p.Total)
	}
	return strings.Join(parts, " ") + "   " + o.DimText(summary)
}

// RenderSuggestions prints company search results.
func RenderSuggestions(o *Output, query string, suggestions []search.Suggestion) error {
	if o.IsJSON() {
		if suggestions == nil {
			suggestions = []search.Suggestion{}
		}
		return o.JSON(suggestions)
	}
	if len(suggestions) == 0 {
		o.Warning("No companies match %q", query)
		return nil
	}
	table := NewTable(o, "TICKER", "COMPANY")
	for _, s := range suggestions {
		table.AddRow(s.Ticker, s.Name)
	}
	table.Render()
	return nil
}

// RenderHealth prints the result of a status check.
func RenderHealth(o *Output, health resilience.SystemHealth) error {
	if o.IsJSON() {
		return o.JSON(health)
	}

	o.Bold("Status: %s", statusText(o, health.Status))
	table := NewTable(o, "COMPONENT", "STATUS", "LATENCY", "MESSAGE")
	for _, c := range health.Components {
		table.AddRow(c.Name, statusText(o, c.Status), c.Latency.Round(time.Millisecond).String(), c.Message)
	}
	table.Render()
	return nil
}

func statusText(o *Output, s resilience.HealthStatus) string {
	switch s {
	case resilience.HealthStatusHealthy:
		return o.Green(string(s))
	case resilience.HealthStatusDegraded:
		return o.Yellow(string(s))
	case resilience.HealthStatusUnhealthy:
		return o.Red(string(s))
	default:
		return o.DimText(string(s))
	}
}
