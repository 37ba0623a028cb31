package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"growtheory/internal/dashboard"
	apperrors "growtheory/internal/errors"
	"growtheory/internal/models"
)

// addDashboardCommands adds the dashboard and browse commands.
func addDashboardCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newDashboardCmd(app))
	rootCmd.AddCommand(newBrowseCmd(app))
}

func newDashboardCmd(app *App) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "List recently analyzed companies",
		Long: `Show one page of the companies the service has analyzed, newest first.
Pages are cached for the configured TTL.`,
		Example: `  growtheory dashboard
  growtheory dashboard --page 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			nav := dashboard.NewNavigator(app.cache())

			result, err := gotoPage(cmd.Context(), nav, page)
			if err != nil {
				return err
			}
			return RenderDashboard(output, result, app.now())
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	return cmd
}

// gotoPage moves nav to page. The first page is loaded beforehand so the
// page count is known and an out-of-range page is never requested.
func gotoPage(ctx context.Context, nav *dashboard.Navigator, page int) (*models.DashboardPage, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page %d", apperrors.ErrPageOutOfRange, page)
	}
	if nav.Current() == nil {
		first, err := nav.Goto(ctx, 1)
		if err != nil || page == 1 {
			return first, err
		}
	}
	return nav.Goto(ctx, page)
}

func newBrowseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Page through the dashboard interactively",
		Long: `Browse the dashboard one page at a time.

Commands at the prompt:
  n, next          next page
  p, prev          previous page
  <number>         jump to a page
  open <ticker>    show the stored report for a company
  r, refresh       redraw the current page
  q, quit          leave`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return apperrors.NewValidationError("json", true, "browse is interactive; use 'dashboard --page N' for JSON output")
			}
			b := &browser{
				app:    app,
				output: output,
				nav:    dashboard.NewNavigator(app.cache()),
			}
			return b.run(cmd.Context(), cmd.InOrStdin())
		},
	}
}

// browser is the state of an interactive dashboard session.
type browser struct {
	app    *App
	output *Output
	nav    *dashboard.Navigator
}

func (b *browser) run(ctx context.Context, in io.Reader) error {
	page, err := gotoPage(ctx, b.nav, 1)
	if err != nil {
		return err
	}
	b.show(page)

	scanner := bufio.NewScanner(in)
	for {
		b.output.Printf("%s ", b.output.Cyan("browse>"))
		if !scanner.Scan() {
			b.output.Println()
			return scanner.Err()
		}

		quit, err := b.handle(ctx, strings.TrimSpace(scanner.Text()))
		if err != nil {
			// Errors at the prompt are reported and the loop continues.
			b.output.Error("%s", FormatError(err))
		}
		if quit {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (b *browser) handle(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch cmd := strings.ToLower(fields[0]); cmd {
	case "q", "quit", "exit":
		return true, nil
	case "n", "next":
		return false, b.move(ctx, b.nav.Page()+1)
	case "p", "prev":
		return false, b.move(ctx, b.nav.Page()-1)
	case "r", "refresh":
		b.show(b.nav.Current())
		return false, nil
	case "open":
		if len(fields) < 2 {
			return false, apperrors.NewValidationError("ticker", "", "usage: open <ticker>")
		}
		return false, b.open(ctx, fields[1])
	case "h", "help", "?":
		b.output.Dim("n/p to page, a number to jump, open <ticker>, q to quit")
		return false, nil
	default:
		n, err := strconv.Atoi(cmd)
		if err != nil {
			return false, apperrors.NewValidationError("command", line, "unknown command; type 'help'")
		}
		return false, b.move(ctx, n)
	}
}

func (b *browser) move(ctx context.Context, page int) error {
	result, err := gotoPage(ctx, b.nav, page)
	if err != nil {
		return err
	}
	b.show(result)
	return nil
}

func (b *browser) open(ctx context.Context, ticker string) error {
	ticker = strings.ToUpper(ticker)
	b.output.Info("Loading report for %s...", ticker)
	result, err := b.app.session().Open(ctx, ticker)
	if err != nil {
		return err
	}
	return RenderReport(b.output, result, b.app.Config.UI.DateFormat)
}

func (b *browser) show(page *models.DashboardPage) {
	b.output.Println()
	RenderDashboard(b.output, page, b.app.now())
	b.output.Println()
}
