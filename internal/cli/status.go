package cli

import (
	"context"

	"github.com/spf13/cobra"

	"growtheory/internal/resilience"
)

// addStatusCommands adds service health commands.
func addStatusCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newStatusCmd(app))
}

// pinger is implemented by stores that can check their connection.
type pinger interface {
	Ping(ctx context.Context) error
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the analysis service and session store",
		Long: `Query the service status endpoint and ping the local session database.
Exits with an error when any component is unhealthy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			checks := map[string]resilience.HealthCheck{
				"analysis_service": resilience.ServiceHealthCheck("analysis_service", app.client(), resilience.DefaultServiceSlowThreshold),
			}
			if p, ok := app.sessionStore().(pinger); ok {
				checks["session_store"] = resilience.DatabaseHealthCheck(p.Ping, resilience.DefaultDatabaseSlowThreshold)
			}

			health := resilience.CheckAll(cmd.Context(), checks)
			app.Logger.Debug().Str("status", string(health.Status)).Int("components", len(health.Components)).Msg("Health check complete")

			if err := RenderHealth(output, health); err != nil {
				return err
			}
			for _, c := range health.Components {
				if c.Status == resilience.HealthStatusUnhealthy {
					return &unhealthyError{component: c}
				}
			}
			return nil
		},
	}
}

type unhealthyError struct {
	component resilience.ComponentHealth
}

func (e *unhealthyError) Error() string {
	return e.component.Name + " is unhealthy: " + e.component.Message
}
