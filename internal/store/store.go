// Package store provides persistence for the analysis session.
package store

import (
	"context"
	"time"

	"growtheory/internal/models"
)

// SessionStore persists analysis results across invocations. It plays the
// role of per-tab session storage: the most recently saved report is the
// session's current report until Clear is called.
type SessionStore interface {
	// SaveReport stores result and returns the new row id.
	SaveReport(ctx context.Context, result *models.AnalysisResult) (string, error)

	// LastReport returns the most recently saved report.
	LastReport(ctx context.Context) (*StoredReport, error)

	// GetReport returns the most recent report for ticker.
	GetReport(ctx context.Context, ticker string) (*StoredReport, error)

	// History returns up to limit reports, newest first.
	History(ctx context.Context, limit int) ([]StoredReport, error)

	// Clear discards every stored report.
	Clear(ctx context.Context) error

	Close() error
}

// StoredReport is a persisted analysis result.
type StoredReport struct {
	ID      string
	Ticker  string
	Company string
	SavedAt time.Time
	Result  *models.AnalysisResult
}
