package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growtheory/internal/config"
	apperrors "growtheory/internal/errors"
	"growtheory/internal/logging"
	"growtheory/internal/store"
)

// fakeService is an in-memory analysis backend.
type fakeService struct {
	mu         sync.Mutex
	totalPages int
	requests   []string
	analyzed   []string
	failStatus bool
}

func (f *fakeService) calls(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeService) analyzedCompanies() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.analyzed...)
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.URL.Path+"?"+r.URL.RawQuery)
	failStatus := f.failStatus
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/analyze":
		var body struct {
			Company string `json:"company"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.analyzed = append(f.analyzed, body.Company)
		f.mu.Unlock()
		fmt.Fprintf(w, `{"company":"%s Inc","ticker":"%s","score":81,"grade":"A-","verdict":"BULLISH","timestamp":"2024-10-15T10:00:00"}`, body.Company, body.Company)
	case "/report":
		ticker := r.URL.Query().Get("ticker")
		if ticker == "NOPE" {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"error":"Report not found"}`)
			return
		}
		fmt.Fprintf(w, `{"company":"%s Corp","ticker":"%s","score":64,"grade":"C+","timestamp":"2024-10-14T09:00:00"}`, ticker, ticker)
	case "/dashboard":
		page := r.URL.Query().Get("page")
		fmt.Fprintf(w, `{"companies":[{"ticker":"P%s","company":"Page %s Co","score":70,"grade":"B","timestamp":"2024-10-15T09:00:00"}],"pagination":{"page":%s,"total_pages":%d}}`,
			page, page, page, f.totalPages)
	case "/status":
		if failStatus {
			w.WriteHeader(http.StatusServiceUnavailable)
			io.WriteString(w, `{"status":"down"}`)
			return
		}
		io.WriteString(w, `{"status":"healthy","version":"1.2.0"}`)
	default:
		http.NotFound(w, r)
	}
}

type testEnv struct {
	app     *App
	service *fakeService
	server  *httptest.Server
	dir     string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	svc := &fakeService{totalPages: 2}
	srv := httptest.NewServer(svc)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Dir = dir
	cfg.API.BaseURL = srv.URL
	cfg.Session.DBPath = filepath.Join(dir, "session.db")

	now := time.Date(2024, 10, 15, 12, 0, 0, 0, time.UTC)
	return &testEnv{
		app: &App{
			Config: cfg,
			Logger: zerolog.Nop(),
			Now:    func() time.Time { return now },
		},
		service: svc,
		server:  srv,
		dir:     dir,
	}
}

// run executes one command line against a fresh root command that shares
// the environment's app state.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(e.app)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAnalyzeCommandResolvesName(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "analyze", "Microsoft")
	require.NoError(t, err)
	assert.Contains(t, out, "Analyzing Microsoft (MSFT)...")
	assert.Contains(t, out, "MSFT Inc (MSFT)")
	assert.Equal(t, []string{"MSFT"}, env.service.analyzedCompanies())
}

func TestAnalyzeCommandNoResolve(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "analyze", "Acme", "Widgets", "--no-resolve")
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme Widgets"}, env.service.analyzedCompanies())
}

func TestAnalyzeCommandAmbiguous(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "analyze", "corporation")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrAmbiguous))
	assert.Contains(t, out, "matches several companies")
	assert.Empty(t, env.service.analyzedCompanies(), "nothing is sent for ambiguous input")
}

func TestReportCommandUsesSession(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "report")
	assert.True(t, apperrors.Is(err, apperrors.ErrNoReport))

	_, err = env.run(t, "analyze", "NVDA")
	require.NoError(t, err)

	// A new process has no in-memory report; it comes from the store.
	env.app.Session = nil
	out, err := env.run(t, "report")
	require.NoError(t, err)
	assert.Contains(t, out, "NVDA Inc (NVDA)")
	assert.Zero(t, env.service.calls("/report"))
}

func TestReportCommandByTicker(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "report", "intc")
	require.NoError(t, err)
	assert.Contains(t, out, "INTC Corp (INTC)")

	_, err = env.run(t, "report", "NOPE")
	var srvErr *apperrors.ServerError
	require.True(t, apperrors.As(err, &srvErr))
	assert.Equal(t, "Report not found", srvErr.Message)

	_, err = env.run(t, "report", "not-a-ticker")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTicker)
	assert.Contains(t, FormatError(err), "enter a valid ticker")
}

func TestReportCommandFallsBackToSavedReport(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "analyze", "NVDA")
	require.NoError(t, err)

	env.server.Close()

	out, err := env.run(t, "report", "nvda")
	require.NoError(t, err)
	assert.Contains(t, out, "Service unreachable")
	assert.Contains(t, out, "NVDA Inc (NVDA)")

	// Nothing saved for this ticker, so the network error surfaces.
	_, err = env.run(t, "report", "AMD")
	assert.Equal(t, apperrors.KindNetwork, apperrors.KindOf(err))
}

func TestAnalyzeCommandBlankNameIsInputError(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "analyze", "  ", "--no-resolve")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrInvalidPayload)
	assert.NotContains(t, FormatError(err), "incomplete response")
	assert.Zero(t, env.service.calls("/analyze"))
}

func TestDashboardCommandPages(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Page 1 Co")
	assert.Contains(t, out, "Page 1 of 2")

	out, err = env.run(t, "dashboard", "--page", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Page 2 Co")
	assert.Equal(t, 1, env.service.calls("/dashboard?page=1"), "page 1 comes from the cache")

	_, err = env.run(t, "dashboard", "--page", "3")
	assert.True(t, apperrors.Is(err, apperrors.ErrPageOutOfRange))
	assert.Zero(t, env.service.calls("/dashboard?page=3"))

	_, err = env.run(t, "dashboard", "--page", "0")
	assert.True(t, apperrors.Is(err, apperrors.ErrPageOutOfRange))
}

func TestDashboardCommandJSON(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "dashboard", "--json")
	require.NoError(t, err)

	var page struct {
		Companies []struct {
			Ticker string `json:"ticker"`
		} `json:"companies"`
		Pagination struct {
			TotalPages int `json:"total_pages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	require.Len(t, page.Companies, 1)
	assert.Equal(t, "P1", page.Companies[0].Ticker)
	assert.Equal(t, 2, page.Pagination.TotalPages)
}

func TestBrowseCommand(t *testing.T) {
	env := newTestEnv(t)

	root := newRootCmd(env.app)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader("n\nn\np\nbogus\nopen msft\nq\n"))
	root.SetArgs([]string{"browse"})

	require.NoError(t, root.Execute())
	text := out.String()
	assert.Contains(t, text, "Page 2 Co")
	assert.Contains(t, text, "page out of range")
	assert.Contains(t, text, "unknown command")
	assert.Contains(t, text, "MSFT Corp (MSFT)")
	assert.Zero(t, env.service.calls("/dashboard?page=3"))
	assert.Equal(t, 1, env.service.calls("/dashboard?page=1"))
}

func TestSearchCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "search", "micro")
	require.NoError(t, err)
	assert.Contains(t, out, "MSFT")

	out, err = env.run(t, "search", "m")
	require.NoError(t, err)
	assert.Contains(t, out, "at least 2 characters")

	out, err = env.run(t, "search", "zzzz", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestStatusCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "analysis_service")
	assert.Contains(t, out, "session_store")

	env.service.mu.Lock()
	env.service.failStatus = true
	env.service.mu.Unlock()
	out, err = env.run(t, "status")
	require.Error(t, err)
	assert.Contains(t, out, "UNHEALTHY")
}

func TestSessionCommands(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "session", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No reports saved yet")

	_, err = env.run(t, "analyze", "AAPL")
	require.NoError(t, err)
	_, err = env.run(t, "report", "TSLA")
	require.NoError(t, err)

	out, err = env.run(t, "session", "history")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "TSLA"), strings.Index(out, "AAPL"), "newest first")

	_, err = env.run(t, "session", "clear")
	require.NoError(t, err)

	_, err = env.run(t, "session", "show")
	assert.True(t, apperrors.Is(err, apperrors.ErrNoReport))

	st, err := store.NewSQLiteStore(env.app.Config.Session.DBPath)
	require.NoError(t, err)
	defer st.Close()
	history, err := st.History(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestHelpCommands(t *testing.T) {
	env := newTestEnv(t)

	for _, name := range []string{"commands", "examples", "quickstart", "version"} {
		out, err := env.run(t, name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, out, name)
	}
}

func TestRootCommandPassesLoggerInContext(t *testing.T) {
	env := newTestEnv(t)
	var logs bytes.Buffer
	env.app.Logger = zerolog.New(&logs)

	root := newRootCmd(env.app)
	root.SetOut(io.Discard)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())

	cmd, _, err := root.Find([]string{"version"})
	require.NoError(t, err)
	logger := logging.FromContext(cmd.Context())
	logger.Info().Msg("from command")
	assert.Contains(t, logs.String(), "from command")
}
