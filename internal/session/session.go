// Package session holds the report currently being viewed and persists it
// so later commands can show it again.
package session

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"growtheory/internal/api"
	apperrors "growtheory/internal/errors"
	"growtheory/internal/logging"
	"growtheory/internal/models"
	"growtheory/internal/store"
)

// Analyzer is the subset of the API client a session needs.
type Analyzer interface {
	Analyze(ctx context.Context, req api.AnalyzeRequest) (*models.AnalysisResult, error)
	Report(ctx context.Context, ticker string) (*models.AnalysisResult, error)
}

// Session tracks the current report and whether a request is in flight.
// Only one request runs at a time; a second one fails with ErrBusy.
type Session struct {
	analyzer Analyzer
	store    store.SessionStore
	logger   zerolog.Logger

	loading atomic.Bool

	mu      sync.RWMutex
	current *models.AnalysisResult
}

// New creates a session. st may be nil, in which case nothing is persisted.
func New(analyzer Analyzer, st store.SessionStore, logger zerolog.Logger) *Session {
	return &Session{
		analyzer: analyzer,
		store:    st,
		logger:   logger,
	}
}

// Analyze submits a company for analysis and makes the result current.
func (s *Session) Analyze(ctx context.Context, company, ticker string) (*models.AnalysisResult, error) {
	return s.run(ctx, "analyze", func() (*models.AnalysisResult, error) {
		return s.analyzer.Analyze(ctx, api.AnalyzeRequest{Company: company, Ticker: ticker})
	})
}

// Open fetches the stored report for ticker and makes it current.
func (s *Session) Open(ctx context.Context, ticker string) (*models.AnalysisResult, error) {
	return s.run(ctx, "report", func() (*models.AnalysisResult, error) {
		return s.analyzer.Report(ctx, ticker)
	})
}

func (s *Session) run(ctx context.Context, op string, call func() (*models.AnalysisResult, error)) (*models.AnalysisResult, error) {
	if !s.loading.CompareAndSwap(false, true) {
		return nil, apperrors.ErrBusy
	}
	defer s.loading.Store(false)

	result, err := call()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = result
	s.mu.Unlock()

	s.persist(ctx, op, result)
	return result, nil
}

// persist saves result. A storage failure is logged, not returned: the
// caller already has the result to show.
func (s *Session) persist(ctx context.Context, op string, result *models.AnalysisResult) {
	if s.store == nil {
		return
	}
	logger := logging.WithOperation(logging.WithTicker(s.logger, strings.ToUpper(result.Ticker)), op)
	id, err := s.store.SaveReport(ctx, result)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to persist report to session")
		return
	}
	logger.Debug().Str("id", id).Msg("Report saved to session")
}

// Loading reports whether a request is in flight.
func (s *Session) Loading() bool {
	return s.loading.Load()
}

// Current returns the report being viewed, or nil.
func (s *Session) Current() *models.AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Load restores the most recently saved report. It returns ErrNoReport
// when the session is empty.
func (s *Session) Load(ctx context.Context) (*models.AnalysisResult, error) {
	if cur := s.Current(); cur != nil {
		return cur, nil
	}
	if s.store == nil {
		return nil, apperrors.ErrNoReport
	}

	stored, err := s.store.LastReport(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = stored.Result
	s.mu.Unlock()
	return stored.Result, nil
}

// Clear forgets the current report and everything persisted.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}
	return s.store.Clear(ctx)
}
