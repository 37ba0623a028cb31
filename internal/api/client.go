// Package api provides the HTTP client for the company analysis service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"growtheory/internal/config"
	apperrors "growtheory/internal/errors"
	"growtheory/internal/logging"
	"growtheory/internal/models"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 8 << 20

// Client calls the four analysis-service endpoints. Each call is a single
// attempt: there is no retry and no backoff.
type Client struct {
	baseURL   string
	endpoints config.APIConfig
	http      *http.Client
	logger    zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the logger used for call tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the service described by cfg.
func NewClient(cfg config.APIConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		endpoints: cfg,
		http:      &http.Client{Timeout: cfg.Timeout},
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AnalyzeRequest is the body of an analysis request.
type AnalyzeRequest struct {
	Company string `json:"company"`
	Ticker  string `json:"ticker,omitempty"`
}

// Analyze requests a fresh analysis of a company.
func (c *Client) Analyze(ctx context.Context, req AnalyzeRequest) (*models.AnalysisResult, error) {
	if strings.TrimSpace(req.Company) == "" && strings.TrimSpace(req.Ticker) == "" {
		return nil, apperrors.NewValidationError("company", req.Company, "company name required")
	}

	var result models.AnalysisResult
	err := c.do(ctx, http.MethodPost, c.endpoints.AnalyzeEndpoint, nil, req, &result, func(status int) string {
		return fmt.Sprintf("failed to analyze company: status %d", status)
	})
	if err != nil {
		return nil, err
	}
	if err := checkResult(c.endpoints.AnalyzeEndpoint, &result); err != nil {
		return nil, err
	}

	logging.LogAnalysis(c.logger, result.Company, result.Ticker, result.ScoreValue(), result.Cached)
	return &result, nil
}

// Report fetches a stored report by ticker.
func (c *Client) Report(ctx context.Context, ticker string) (*models.AnalysisResult, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, apperrors.NewValidationError("ticker", ticker, "ticker parameter required")
	}

	var result models.AnalysisResult
	query := url.Values{"ticker": {ticker}}
	err := c.do(ctx, http.MethodGet, c.endpoints.ReportEndpoint, query, nil, &result, func(int) string {
		return fmt.Sprintf("report not found for %s", ticker)
	})
	if err != nil {
		return nil, err
	}
	if err := checkResult(c.endpoints.ReportEndpoint, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Dashboard fetches one page of previously analyzed companies.
func (c *Client) Dashboard(ctx context.Context, page int) (*models.DashboardPage, error) {
	if page < 1 {
		return nil, apperrors.NewValidationError("page", page, "page must be at least 1")
	}

	var result models.DashboardPage
	query := url.Values{"page": {strconv.Itoa(page)}}
	err := c.do(ctx, http.MethodGet, c.endpoints.DashboardEndpoint, query, nil, &result, func(status int) string {
		return fmt.Sprintf("dashboard request failed: status %d", status)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Status performs a health check.
func (c *Client) Status(ctx context.Context) (*models.StatusPayload, error) {
	var fields map[string]interface{}
	err := c.do(ctx, http.MethodGet, c.endpoints.StatusEndpoint, nil, nil, &fields, func(status int) string {
		return fmt.Sprintf("status check failed: status %d", status)
	})
	if err != nil {
		return nil, err
	}

	payload := &models.StatusPayload{Fields: fields}
	if s, ok := fields["status"].(string); ok {
		payload.Status = s
	}
	return payload, nil
}

// checkResult turns a 2xx body carrying an error, or one missing required
// fields, into the matching error.
func checkResult(endpoint string, result *models.AnalysisResult) error {
	if result.Error != "" {
		return apperrors.NewServerError(endpoint, http.StatusOK, result.Error)
	}
	if err := result.Validate(); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidPayload, err)
	}
	return nil
}

// errorBody is the shape of a rejection body.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, body, out interface{}, fallback func(status int) string) (err error) {
	start := time.Now()
	status := 0
	defer func() {
		logging.LogAPICall(c.logger, method, endpoint, status, time.Since(start), err)
	}()

	target := c.baseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request failed: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return apperrors.NewNetworkError(endpoint, err)
	}
	defer res.Body.Close()
	status = res.StatusCode

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return apperrors.NewNetworkError(endpoint, fmt.Errorf("read body failed: %w", err))
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return apperrors.NewServerError(endpoint, res.StatusCode, rejectionMessage(data, fallback(res.StatusCode)))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidPayload, apperrors.NewValidationError("body", nil, fmt.Sprintf("malformed JSON: %v", err)))
	}
	return nil
}

// rejectionMessage prefers the server's own explanation.
func rejectionMessage(data []byte, fallback string) string {
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err == nil {
		if msg := strings.TrimSpace(eb.Error); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(eb.Message); msg != "" {
			return msg
		}
	}
	return fallback
}
