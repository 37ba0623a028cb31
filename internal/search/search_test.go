package search

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "growtheory/internal/errors"
)

func builtin(t *testing.T) *Directory {
	t.Helper()
	d, err := Builtin()
	require.NoError(t, err)
	return d
}

func TestBuiltinDirectoryIsSorted(t *testing.T) {
	d := builtin(t)
	require.Greater(t, d.Len(), 10)

	for i := 1; i < len(d.companies); i++ {
		assert.Less(t, d.companies[i-1].Ticker, d.companies[i].Ticker)
	}
}

func TestSuggest(t *testing.T) {
	d := builtin(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"too short", "a", nil},
		{"empty", "  ", nil},
		{"alias match", "face", []string{"META"}},
		{"case insensitive", "TESLA", []string{"TSLA"}},
		{"ticker match", "nfl", []string{"NFLX"}},
		{"several", "corporation", []string{"INTC", "MSFT", "NVDA", "ORCL"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, s := range d.Suggest(tt.query) {
				got = append(got, s.Ticker)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuggestUsesFirstAliasAsName(t *testing.T) {
	got := builtin(t).Suggest("instagram")

	require.Len(t, got, 1)
	assert.Equal(t, Suggestion{Ticker: "META", Name: "Meta"}, got[0])
}

func TestSuggestCapsResults(t *testing.T) {
	var entries []Company
	for _, ticker := range []string{"AA", "AB", "AC", "AD", "AE", "AF", "AG", "AH", "AI", "AJ", "AK", "AL"} {
		entries = append(entries, Company{Ticker: ticker, Aliases: []string{"Acme " + ticker}})
	}
	d := NewDirectory(entries)

	got := d.Suggest("acme")
	assert.Len(t, got, MaxSuggestions)
	assert.Equal(t, "AA", got[0].Ticker)
}

// Property: every suggestion actually contains the query and the list
// never exceeds the cap.
func TestProperty_SuggestionsMatchQuery(t *testing.T) {
	d := builtin(t)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("suggestions contain the query", prop.ForAll(
		func(query string) bool {
			got := d.Suggest(query)
			if len(got) > MaxSuggestions {
				return false
			}
			if len([]rune(query)) < MinQueryLength && got != nil {
				return false
			}
			for _, s := range got {
				c, ok := d.Lookup(s.Ticker)
				if !ok || !matches(c, strings.ToLower(query)) {
					return false
				}
			}
			return true
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestResolve(t *testing.T) {
	d := builtin(t)

	tests := []struct {
		name    string
		input   string
		want    Suggestion
		wantErr error
	}{
		{"single suggestion", "Netflix", Suggestion{"NFLX", "Netflix"}, nil},
		{"exact ticker", "V", Suggestion{"V", "Visa"}, nil},
		{"alias", "Intel", Suggestion{"INTC", "Intel"}, nil},
		{"manual ticker", " zzzz ", Suggestion{"ZZZZ", "ZZZZ"}, nil},
		{"ambiguous name", "Corporation", Suggestion{}, apperrors.ErrAmbiguous},
		{"no match", "Acme Widgets", Suggestion{}, apperrors.ErrNoMatch},
		{"ticker too long", "abcdefg", Suggestion{}, apperrors.ErrNoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Resolve(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePrefersExactAlias(t *testing.T) {
	d := NewDirectory([]Company{
		{Ticker: "ACH", Aliases: []string{"Acme Holdings"}},
		{Ticker: "ACW", Aliases: []string{"Acme"}},
	})

	got, err := d.Resolve("acme")
	require.NoError(t, err)
	assert.Equal(t, Suggestion{Ticker: "ACW", Name: "Acme"}, got)
}

func TestLoadMergesUserFile(t *testing.T) {
	dir := t.TempDir()
	user := `companies:
  - ticker: msft
    aliases: [Microsoft Corp]
  - ticker: ACME
    aliases: [Acme Widgets]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, UserFileName), []byte(user), 0644))

	d, err := Load(dir)
	require.NoError(t, err)

	msft, ok := d.Lookup("MSFT")
	require.True(t, ok)
	assert.Equal(t, "Microsoft Corp", msft.Name())

	got, err := d.Resolve("acme widgets")
	require.NoError(t, err)
	assert.Equal(t, Suggestion{Ticker: "ACME", Name: "Acme Widgets"}, got)
}

func TestLoadWithoutUserFile(t *testing.T) {
	d, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, builtin(t).Len(), d.Len())
}

func TestLoadRejectsBrokenUserFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, UserFileName), []byte("companies: [unterminated"), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestIsTicker(t *testing.T) {
	assert.True(t, IsTicker("AAPL"))
	assert.False(t, IsTicker("aapl"))
	assert.False(t, IsTicker("TOOLONG"))
	assert.False(t, IsTicker(""))
}
