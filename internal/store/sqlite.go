package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	apperrors "growtheory/internal/errors"
	"growtheory/internal/models"
)

// SQLiteStore implements SessionStore using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (or creates) the session database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db, now: time.Now}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Reports viewed in this session, newest last
	CREATE TABLE IF NOT EXISTS session_reports (
		id TEXT PRIMARY KEY,
		ticker TEXT NOT NULL,
		company TEXT NOT NULL,
		payload TEXT NOT NULL,
		saved_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_session_reports_saved ON session_reports(saved_at);
	CREATE INDEX IF NOT EXISTS idx_session_reports_ticker ON session_reports(ticker, saved_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveReport saves result as the session's current report.
func (s *SQLiteStore) SaveReport(ctx context.Context, result *models.AnalysisResult) (string, error) {
	if result == nil {
		return "", apperrors.NewValidationError("result", nil, "nothing to save")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO session_reports (id, ticker, company, payload, saved_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, reportTicker(result), result.Company, string(payload), s.now().UTC())
	if err != nil {
		return "", fmt.Errorf("%w: failed to save report: %v", apperrors.ErrDatabaseError, err)
	}
	return id, nil
}

// LastReport returns the most recently saved report, or ErrNoReport.
func (s *SQLiteStore) LastReport(ctx context.Context) (*StoredReport, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, ticker, company, payload, saved_at
		FROM session_reports
		ORDER BY saved_at DESC, rowid DESC
		LIMIT 1
	`)
	return scanReport(row)
}

// GetReport returns the most recent report for ticker, or ErrNoReport.
func (s *SQLiteStore) GetReport(ctx context.Context, ticker string) (*StoredReport, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, ticker, company, payload, saved_at
		FROM session_reports
		WHERE ticker = ?
		ORDER BY saved_at DESC, rowid DESC
		LIMIT 1
	`, normalizeTicker(ticker))
	return scanReport(row)
}

// History returns up to limit reports, newest first. A limit of zero or
// less returns everything.
func (s *SQLiteStore) History(ctx context.Context, limit int) ([]StoredReport, error) {
	query := `
		SELECT id, ticker, company, payload, saved_at
		FROM session_reports
		ORDER BY saved_at DESC, rowid DESC
	`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var reports []StoredReport
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *r)
	}
	return reports, rows.Err()
}

// Clear discards every stored report.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session_reports`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(row scanner) (*StoredReport, error) {
	var r StoredReport
	var payload string

	err := row.Scan(&r.ID, &r.Ticker, &r.Company, &payload, &r.SavedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNoReport
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	r.Result = &models.AnalysisResult{}
	if err := json.Unmarshal([]byte(payload), r.Result); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", r.ID, err)
	}
	return &r, nil
}

func reportTicker(r *models.AnalysisResult) string {
	if r.Ticker != "" {
		return normalizeTicker(r.Ticker)
	}
	return normalizeTicker(r.DisplayTicker)
}

func normalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// Ping checks that the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
