package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CompanySummary is one card on the dashboard.
type CompanySummary struct {
	Ticker    string    `json:"ticker"`
	Company   string    `json:"company"`
	Score     float64   `json:"score"`
	Grade     string    `json:"grade"`
	Timestamp Timestamp `json:"timestamp"`
}

// Pagination describes where a dashboard page sits.
type Pagination struct {
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
	Total      int `json:"total,omitempty"`
	PerPage    int `json:"per_page,omitempty"`
}

// Contains reports whether page n exists.
func (p Pagination) Contains(n int) bool {
	return n >= 1 && n <= p.TotalPages
}

// DashboardPage is a page of previously analyzed companies.
type DashboardPage struct {
	Companies  []CompanySummary `json:"companies"`
	Pagination Pagination       `json:"pagination"`
}

// UnmarshalJSON accepts both the paginated object and the older bare
// array response, which is treated as the only page.
func (d *DashboardPage) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var companies []CompanySummary
		if err := json.Unmarshal(trimmed, &companies); err != nil {
			return fmt.Errorf("decoding dashboard list: %w", err)
		}
		d.Companies = companies
		d.Pagination = Pagination{Page: 1, TotalPages: 1, Total: len(companies), PerPage: len(companies)}
		return nil
	}

	type page DashboardPage
	var p page
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return fmt.Errorf("decoding dashboard page: %w", err)
	}
	if p.Pagination.TotalPages == 0 && len(p.Companies) > 0 {
		p.Pagination.TotalPages = 1
	}
	if p.Pagination.Page == 0 {
		p.Pagination.Page = 1
	}
	*d = DashboardPage(p)
	return nil
}
