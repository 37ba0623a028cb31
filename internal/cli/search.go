package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"growtheory/internal/search"
)

// addSearchCommands adds company lookup commands.
func addSearchCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newSearchCmd(app))
}

func newSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "search <query>",
		Aliases: []string{"find"},
		Short:   "Find companies by name or ticker",
		Long: `Search the company directory. Matches any part of a ticker or company
name, ignoring case. At least two characters are required.

Extra companies can be listed in companies.yaml in the config directory.`,
		Example: `  growtheory search micro
  growtheory search "meta plat"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			dir, err := app.directory()
			if err != nil {
				return err
			}

			query := strings.TrimSpace(strings.Join(args, " "))
			if len([]rune(query)) < search.MinQueryLength && !output.IsJSON() {
				output.Dim("Type at least %d characters to search.", search.MinQueryLength)
				return nil
			}
			return RenderSuggestions(output, query, dir.Suggest(query))
		},
	}
}
