package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// addHelpCommands adds help and documentation commands.
func addHelpCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newCommandsCmd(app))
	rootCmd.AddCommand(newExamplesCmd(app))
	rootCmd.AddCommand(newQuickstartCmd(app))
}

type commandRef struct {
	cmd  string
	desc string
}

type commandCategory struct {
	name     string
	commands []commandRef
}

var commandCategories = []commandCategory{
	{
		name: "Analysis",
		commands: []commandRef{
			{"analyze <company>", "Request a fresh analysis"},
			{"analyze <name> --no-resolve", "Send a name not in the directory"},
			{"report <ticker>", "Show the stored report for a ticker"},
			{"report", "Show the session's current report"},
		},
	},
	{
		name: "Dashboard",
		commands: []commandRef{
			{"dashboard", "Recently analyzed companies"},
			{"dashboard --page <n>", "Jump to a page"},
			{"browse", "Page through the dashboard interactively"},
		},
	},
	{
		name: "Lookup",
		commands: []commandRef{
			{"search <query>", "Find companies by name or ticker"},
		},
	},
	{
		name: "Session",
		commands: []commandRef{
			{"session show", "Show the current report"},
			{"session history", "Reports saved in this session"},
			{"session clear", "Forget saved reports"},
		},
	},
	{
		name: "System",
		commands: []commandRef{
			{"status", "Check service and session store health"},
			{"config show", "Show configuration"},
			{"config path", "Show configuration directory"},
			{"config validate", "Validate configuration"},
			{"version", "Print version information"},
		},
	},
}

func newCommandsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List all commands by category",
		Long:  "Display all available commands organized by category.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if output.IsJSON() {
				out := make(map[string][]string, len(commandCategories))
				for _, cat := range commandCategories {
					for _, c := range cat.commands {
						out[cat.name] = append(out[cat.name], c.cmd)
					}
				}
				return output.JSON(out)
			}

			output.Bold("GrowTheory Commands")
			output.Println()

			for _, cat := range commandCategories {
				output.Bold(cat.name)
				for _, c := range cat.commands {
					output.Printf("  %-30s %s\n", output.Cyan(c.cmd), c.desc)
				}
				output.Println()
			}

			output.Dim("Global flags: --json, --debug, --config <dir>")
			return nil
		},
	}
}

func newExamplesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "Show common workflows",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			output.Bold("Common Workflow Examples")
			output.Println()

			examples := []struct {
				title    string
				commands []string
			}{
				{
					title: "Evaluate a Company",
					commands: []string{
						"growtheory search micro           # Find the ticker",
						"growtheory analyze MSFT           # Request an analysis",
						"growtheory report                 # Show it again later",
					},
				},
				{
					title: "See What Others Analyzed",
					commands: []string{
						"growtheory dashboard              # First page",
						"growtheory dashboard --page 2     # Next page",
						"growtheory browse                 # Page interactively",
						"growtheory report NVDA            # Open a listed company",
					},
				},
				{
					title: "Scripting",
					commands: []string{
						"growtheory analyze AAPL --json | jq .parsed.score",
						"growtheory dashboard --json | jq '.companies[].ticker'",
						"growtheory status --json          # Exit status is non-zero when unhealthy",
					},
				},
				{
					title: "Point at Another Service",
					commands: []string{
						"GROWTHEORY_API_BASE_URL=http://localhost:5000 growtheory status",
						"growtheory config show            # Check the endpoints",
					},
				},
			}

			for _, ex := range examples {
				output.Bold(ex.title)
				for _, c := range ex.commands {
					parts := strings.SplitN(c, "#", 2)
					if len(parts) == 2 {
						output.Printf("  %s %s\n", output.Cyan(strings.TrimSpace(parts[0])), output.DimText(strings.TrimSpace(parts[1])))
					} else {
						output.Printf("  %s\n", output.Cyan(c))
					}
				}
				output.Println()
			}

			return nil
		},
	}
}

func newQuickstartCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "quickstart",
		Short: "New user guide",
		Long:  "Step-by-step guide for new users.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			output.Bold("GrowTheory - Quick Start Guide")
			output.Println()

			steps := []struct {
				title string
				desc  string
				cmd   string
			}{
				{"Point at the Service", "Set the analysis service URL in config.toml.", "growtheory config path  # Shows config directory"},
				{"Check Connectivity", "Make sure the service answers.", "growtheory status"},
				{"Find a Company", "Search by name or ticker.", "growtheory search apple"},
				{"Analyze It", "Request a scored report.", "growtheory analyze AAPL"},
				{"Browse the Dashboard", "See companies analyzed recently.", "growtheory dashboard"},
			}

			for i, s := range steps {
				output.Printf("%s Step %d: %s\n", output.Cyan("→"), i+1, output.BoldText(s.title))
				output.Printf("  %s\n", s.desc)
				output.Printf("  %s\n\n", output.DimText(s.cmd))
			}

			output.Bold("Configuration Files")
			output.Println()
			output.Printf("  %s - Service endpoints, cache TTL, logging\n", output.Cyan("config.toml"))
			output.Printf("  %s - Extra companies for search (optional)\n", output.Cyan("companies.yaml"))
			output.Printf("  %s - Saved session reports\n", output.Cyan("session.db"))
			output.Println()

			output.Bold("Getting Help")
			output.Println()
			output.Printf("  %s - List all commands\n", output.Cyan("growtheory commands"))
			output.Printf("  %s - Common workflows\n", output.Cyan("growtheory examples"))
			output.Printf("  %s - Help for any command\n", output.Cyan("growtheory help <command>"))

			return nil
		},
	}
}
