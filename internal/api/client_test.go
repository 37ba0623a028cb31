package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growtheory/internal/config"
	apperrors "growtheory/internal/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Default().API
	cfg.BaseURL = srv.URL
	return NewClient(cfg)
}

func TestAnalyzeSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/analyze", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req AnalyzeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "MSFT", req.Company)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"company": "Microsoft Corporation",
			"ticker": "MSFT",
			"score": 88,
			"grade": "A",
			"financialData": {"revenue": 245100000000, "employees": 228000},
			"timestamp": "2024-10-15T10:00:00.123456",
			"detailedAnalysis": "Recommendation: BULLISH"
		}`)
	})

	result, err := client.Analyze(context.Background(), AnalyzeRequest{Company: "MSFT"})
	require.NoError(t, err)
	assert.Equal(t, "Microsoft Corporation", result.Company)
	assert.Equal(t, 88.0, result.ScoreValue())
	require.NotNil(t, result.FinancialData)
	assert.Equal(t, int64(228000), *result.FinancialData.Employees)
	assert.Nil(t, result.FinancialData.MarketCap)
	assert.Equal(t, 2024, result.Timestamp.Year())
}

func TestAnalyzeServerRejectionUsesBodyMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error": "ticker not found"}`)
	})

	_, err := client.Analyze(context.Background(), AnalyzeRequest{Company: "ZZZZ"})
	require.Error(t, err)
	assert.Equal(t, "ticker not found", err.Error())

	var srvErr *apperrors.ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.Equal(t, http.StatusNotFound, srvErr.Status)
	assert.Equal(t, apperrors.KindServer, apperrors.KindOf(err))
}

func TestAnalyzeServerRejectionGenericMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, `<html>bad gateway</html>`)
	})

	_, err := client.Analyze(context.Background(), AnalyzeRequest{Company: "Apple"})
	require.Error(t, err)
	assert.Equal(t, "failed to analyze company: status 502", err.Error())
}

func TestAnalyzeErrorFieldOnSuccessStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error": "Could not identify company 'Foo'"}`)
	})

	_, err := client.Analyze(context.Background(), AnalyzeRequest{Company: "Foo"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindServer, apperrors.KindOf(err))
	assert.Equal(t, "Could not identify company 'Foo'", err.Error())
}

func TestAnalyzeMissingRequiredFields(t *testing.T) {
	bodies := map[string]string{
		"missing company": `{"ticker":"MSFT","score":88}`,
		"missing score":   `{"company":"Microsoft","ticker":"MSFT"}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, body)
			})

			result, err := client.Analyze(context.Background(), AnalyzeRequest{Company: "Microsoft"})
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
			assert.ErrorIs(t, err, apperrors.ErrInvalidPayload)
		})
	}
}

func TestAnalyzeRejectsEmptyInputWithoutCalling(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	_, err := client.Analyze(context.Background(), AnalyzeRequest{Company: "  "})
	require.Error(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.NotErrorIs(t, err, apperrors.ErrInvalidPayload, "input rejection is not a bad response")
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	cfg := config.Default().API
	cfg.BaseURL = srv.URL
	srv.Close()

	client := NewClient(cfg)
	_, err := client.Status(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNetwork, apperrors.KindOf(err))
}

func TestReport(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/report", r.URL.Path)
		if r.URL.Query().Get("ticker") != "MSFT" {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{}`)
			return
		}
		io.WriteString(w, `{"company":"Microsoft","ticker":"MSFT","score":88,"grade":"A"}`)
	})

	result, err := client.Report(context.Background(), " msft ")
	require.NoError(t, err)
	assert.Equal(t, "MSFT", result.Ticker)

	_, err = client.Report(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Equal(t, "report not found for NOPE", err.Error())
}

func TestDashboard(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dashboard", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		io.WriteString(w, `{
			"companies": [{"ticker":"AAPL","company":"Apple","score":91,"grade":"A+","timestamp":"2024-10-15T10:00:00Z"}],
			"pagination": {"page": 2, "total_pages": 3}
		}`)
	})

	page, err := client.Dashboard(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, page.Companies, 1)
	assert.Equal(t, 3, page.Pagination.TotalPages)

	_, err = client.Dashboard(context.Background(), 0)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"status":"healthy","cached_companies":4}`)
	})

	status, err := client.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.IsHealthy())
	assert.Equal(t, float64(4), status.Fields["cached_companies"])
}

func TestBaseURLTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/status", r.URL.Path)
		io.WriteString(w, `{"status":"ok"}`)
	}))
	defer srv.Close()

	cfg := config.Default().API
	cfg.BaseURL = srv.URL + "/"
	_, err := NewClient(cfg).Status(context.Background())
	require.NoError(t, err)
}
