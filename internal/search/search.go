// Package search resolves free-form company names to tickers using a
// directory of known aliases.
package search

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "growtheory/internal/errors"
)

//go:embed companies.yaml
var builtinDirectory []byte

// MinQueryLength is the shortest query that produces suggestions.
const MinQueryLength = 2

// MaxSuggestions caps the number of suggestions returned.
const MaxSuggestions = 10

// UserFileName is the optional directory override in the config dir.
const UserFileName = "companies.yaml"

var tickerRe = regexp.MustCompile(`^[A-Z]{1,5}$`)

// Company is a directory entry. The first alias is the display name.
type Company struct {
	Ticker  string   `yaml:"ticker"`
	Aliases []string `yaml:"aliases"`
}

// Name returns the display name, falling back to the ticker.
func (c Company) Name() string {
	if len(c.Aliases) > 0 {
		return c.Aliases[0]
	}
	return c.Ticker
}

// Suggestion is a search hit.
type Suggestion struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

type directoryFile struct {
	Companies []Company `yaml:"companies"`
}

// Directory is an immutable, ticker-ordered company list.
type Directory struct {
	companies []Company
}

// NewDirectory builds a directory from entries. Later entries replace
// earlier ones with the same ticker.
func NewDirectory(entries []Company) *Directory {
	byTicker := make(map[string]Company, len(entries))
	for _, c := range entries {
		c.Ticker = strings.ToUpper(strings.TrimSpace(c.Ticker))
		if c.Ticker == "" {
			continue
		}
		byTicker[c.Ticker] = c
	}

	companies := make([]Company, 0, len(byTicker))
	for _, c := range byTicker {
		companies = append(companies, c)
	}
	sort.Slice(companies, func(i, j int) bool {
		return companies[i].Ticker < companies[j].Ticker
	})
	return &Directory{companies: companies}
}

// Builtin returns the directory compiled into the binary.
func Builtin() (*Directory, error) {
	entries, err := parseDirectory(builtinDirectory)
	if err != nil {
		return nil, fmt.Errorf("parsing built-in directory: %w", err)
	}
	return NewDirectory(entries), nil
}

// Load returns the built-in directory merged with configDir/companies.yaml
// when that file exists.
func Load(configDir string) (*Directory, error) {
	entries, err := parseDirectory(builtinDirectory)
	if err != nil {
		return nil, fmt.Errorf("parsing built-in directory: %w", err)
	}

	if configDir != "" {
		path := filepath.Join(configDir, UserFileName)
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			extra, err := parseDirectory(data)
			if err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
			entries = append(entries, extra...)
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	return NewDirectory(entries), nil
}

func parseDirectory(data []byte) ([]Company, error) {
	var file directoryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	return file.Companies, nil
}

// Len returns the number of companies.
func (d *Directory) Len() int {
	return len(d.companies)
}

// Lookup returns the entry for ticker.
func (d *Directory) Lookup(ticker string) (Company, bool) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	i := sort.Search(len(d.companies), func(i int) bool {
		return d.companies[i].Ticker >= ticker
	})
	if i < len(d.companies) && d.companies[i].Ticker == ticker {
		return d.companies[i], true
	}
	return Company{}, false
}

// Suggest returns up to MaxSuggestions companies whose ticker or any alias
// contains query, case-insensitively. Queries shorter than MinQueryLength
// return nothing.
func (d *Directory) Suggest(query string) []Suggestion {
	query = strings.ToLower(strings.TrimSpace(query))
	if len([]rune(query)) < MinQueryLength {
		return nil
	}

	var out []Suggestion
	for _, c := range d.companies {
		if !matches(c, query) {
			continue
		}
		out = append(out, Suggestion{Ticker: c.Ticker, Name: c.Name()})
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}

func matches(c Company, query string) bool {
	if strings.Contains(strings.ToLower(c.Ticker), query) {
		return true
	}
	for _, alias := range c.Aliases {
		if strings.Contains(strings.ToLower(alias), query) {
			return true
		}
	}
	return false
}

// Resolve turns user input into a single company. A lone suggestion is
// taken as is; an exact ticker or alias match wins over other suggestions.
// Otherwise input that looks like a ticker (one to five letters) is used
// verbatim.
func (d *Directory) Resolve(input string) (Suggestion, error) {
	trimmed := strings.TrimSpace(input)
	suggestions := d.Suggest(trimmed)

	if len(suggestions) == 1 {
		return suggestions[0], nil
	}
	if s, ok := d.exact(trimmed, suggestions); ok {
		return s, nil
	}

	manual := strings.ToUpper(trimmed)
	if tickerRe.MatchString(manual) {
		return Suggestion{Ticker: manual, Name: manual}, nil
	}

	if len(suggestions) > 1 {
		return Suggestion{}, fmt.Errorf("%w: %q matches %d companies", apperrors.ErrAmbiguous, trimmed, len(suggestions))
	}
	return Suggestion{}, fmt.Errorf("%w: %q; enter a valid ticker (e.g., AAPL)", apperrors.ErrNoMatch, trimmed)
}

func (d *Directory) exact(input string, suggestions []Suggestion) (Suggestion, bool) {
	if c, ok := d.Lookup(input); ok {
		return Suggestion{Ticker: c.Ticker, Name: c.Name()}, true
	}
	for _, s := range suggestions {
		c, _ := d.Lookup(s.Ticker)
		for _, alias := range c.Aliases {
			if strings.EqualFold(alias, input) {
				return s, true
			}
		}
	}
	return Suggestion{}, false
}

// IsTicker reports whether s is a well-formed ticker.
func IsTicker(s string) bool {
	return tickerRe.MatchString(s)
}
