package cli

import (
	"github.com/spf13/cobra"

	apperrors "growtheory/internal/errors"
)

// addSessionCommands adds commands for the saved session.
func addSessionCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or clear the saved session",
		Long: `The session keeps every report you analyzed or opened. The newest one is
what 'growtheory report' shows without a ticker.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the session's current report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.session().Load(cmd.Context())
			if err != nil {
				return err
			}
			return RenderReport(NewOutput(cmd), result, app.Config.UI.DateFormat)
		},
	})

	var limit int
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List reports saved in this session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			st := app.sessionStore()
			if st == nil {
				return apperrors.ErrNoReport
			}
			reports, err := st.History(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				type entry struct {
					ID      string  `json:"id"`
					Ticker  string  `json:"ticker"`
					Company string  `json:"company"`
					Score   float64 `json:"score"`
					Grade   string  `json:"grade"`
					SavedAt string  `json:"saved_at"`
				}
				entries := make([]entry, 0, len(reports))
				for _, r := range reports {
					entries = append(entries, entry{
						ID:      r.ID,
						Ticker:  r.Ticker,
						Company: r.Company,
						Score:   r.Result.ScoreValue(),
						Grade:   r.Result.Grade,
						SavedAt: r.SavedAt.UTC().Format("2006-01-02T15:04:05Z"),
					})
				}
				return output.JSON(entries)
			}

			if len(reports) == 0 {
				output.Dim("No reports saved yet. Run 'growtheory analyze <company>' to get started!")
				return nil
			}
			table := NewTable(output, "TICKER", "COMPANY", "GRADE", "SAVED")
			for _, r := range reports {
				table.AddRow(r.Ticker, TruncateString(r.Company, 32), output.GradeBadge(r.Result.Grade), TimeAgo(r.SavedAt, app.now()))
			}
			table.Render()
			return nil
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of reports")
	cmd.AddCommand(historyCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget every saved report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.session().Clear(cmd.Context()); err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"cleared": true})
			}
			output.Success("✓ Session cleared")
			return nil
		},
	})

	rootCmd.AddCommand(cmd)
}
