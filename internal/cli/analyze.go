package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apperrors "growtheory/internal/errors"
	"growtheory/internal/logging"
	"growtheory/internal/models"
	"growtheory/internal/search"
	"growtheory/internal/store"
)

// addAnalysisCommands adds the analyze and report commands.
func addAnalysisCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newReportCmd(app))
}

func newAnalyzeCmd(app *App) *cobra.Command {
	var noResolve bool

	cmd := &cobra.Command{
		Use:   "analyze <company|ticker>",
		Short: "Request a fresh analysis of a company",
		Long: `Resolve a company name or ticker and request a new analysis from the
service. The result becomes the session's current report.`,
		Example: `  growtheory analyze Apple
  growtheory analyze MSFT
  growtheory analyze "Acme Widgets" --no-resolve`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			input := strings.TrimSpace(strings.Join(args, " "))

			target := search.Suggestion{Name: input}
			if !noResolve {
				dir, err := app.directory()
				if err != nil {
					return err
				}
				target, err = dir.Resolve(input)
				if err != nil {
					if apperrors.Is(err, apperrors.ErrAmbiguous) && !output.IsJSON() {
						output.Warning("%q matches several companies:", input)
						RenderSuggestions(output, input, dir.Suggest(input))
					}
					return err
				}
			}

			company := target.Ticker
			if company == "" {
				company = target.Name
			}

			logger := logging.WithOperation(logging.WithTicker(logging.FromContext(cmd.Context()), target.Ticker), "analyze")
			logger.Debug().Str("input", input).Str("company", company).Msg("Submitting analysis")

			if !output.IsJSON() {
				output.Info("Analyzing %s...", displayName(target))
			}
			result, err := app.session().Analyze(cmd.Context(), company, target.Ticker)
			if err != nil {
				return err
			}
			return RenderReport(output, result, app.Config.UI.DateFormat)
		},
	}

	cmd.Flags().BoolVar(&noResolve, "no-resolve", false, "send the input as-is without looking it up")
	return cmd
}

func newReportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "report [ticker]",
		Short: "Show a stored report",
		Long: `Fetch the stored report for a ticker from the service. Without a ticker,
show the session's current report.`,
		Example: `  growtheory report MSFT
  growtheory report`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			var (
				result *models.AnalysisResult
				err    error
			)
			if len(args) == 0 {
				result, err = app.session().Load(cmd.Context())
			} else {
				ticker := strings.ToUpper(strings.TrimSpace(args[0]))
				if !search.IsTicker(ticker) {
					return fmt.Errorf("%w: %q; enter a valid ticker (e.g., AAPL)", apperrors.ErrInvalidTicker, args[0])
				}
				result, err = app.session().Open(cmd.Context(), ticker)
				if apperrors.KindOf(err) == apperrors.KindNetwork {
					if saved := savedReport(cmd.Context(), app, ticker); saved != nil {
						if !output.IsJSON() {
							output.Warning("Service unreachable; showing the report saved %s.", saved.SavedAt.Local().Format(app.Config.UI.DateFormat))
						}
						result, err = saved.Result, nil
					}
				}
			}
			if err != nil {
				return err
			}
			return RenderReport(output, result, app.Config.UI.DateFormat)
		},
	}
}

// savedReport returns the last report kept for ticker in the session
// store, or nil when there is none.
func savedReport(ctx context.Context, app *App, ticker string) *store.StoredReport {
	st := app.sessionStore()
	if st == nil {
		return nil
	}
	logger := logging.WithOperation(logging.WithTicker(logging.FromContext(ctx), ticker), "report")
	saved, err := st.GetReport(ctx, ticker)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrNoReport) {
			logger.Warn().Err(err).Msg("Failed to read saved report")
		}
		return nil
	}
	logger.Info().Time("saved_at", saved.SavedAt).Msg("Service unreachable, using saved report")
	return saved
}

func displayName(s search.Suggestion) string {
	switch {
	case s.Ticker == "":
		return s.Name
	case s.Name == "" || s.Name == s.Ticker:
		return s.Ticker
	default:
		return s.Name + " (" + s.Ticker + ")"
	}
}
