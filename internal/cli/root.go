package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"growtheory/internal/api"
	"growtheory/internal/config"
	"growtheory/internal/dashboard"
	"growtheory/internal/logging"
	"growtheory/internal/search"
	"growtheory/internal/session"
	"growtheory/internal/store"
)

// Version information, overridden at build time with -ldflags.
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
)

// App holds the application dependencies. Fields left nil are built from
// Config on first use.
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Client    *api.Client
	Directory *search.Directory
	Store     store.SessionStore
	Session   *session.Session
	Cache     *dashboard.Cache
	Now       func() time.Time
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	return newRootCmd(&App{Config: cfg, Logger: logger})
}

func newRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "growtheory",
		Short: "GrowTheory - company analysis from your terminal",
		Long: `GrowTheory looks up companies, requests AI-generated analyses from the
GrowTheory service, and shows scored reports and a dashboard of recently
analyzed companies.

Use 'growtheory commands' to list every command.
Use 'growtheory examples' to see common workflows.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), app.Logger))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Close()
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory, read at startup (default: ~/.config/growtheory)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addAnalysisCommands(rootCmd, app)
	addDashboardCommands(rootCmd, app)
	addSearchCommands(rootCmd, app)
	addStatusCommands(rootCmd, app)
	addSessionCommands(rootCmd, app)
	addHelpCommands(rootCmd, app)

	return rootCmd
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) client() *api.Client {
	if a.Client == nil {
		a.Client = api.NewClient(a.Config.API, api.WithLogger(a.Logger))
		a.Logger.Debug().Str("base_url", a.Config.API.BaseURL).Msg("API client initialized")
	}
	return a.Client
}

func (a *App) directory() (*search.Directory, error) {
	if a.Directory == nil {
		d, err := search.Load(a.Config.Dir)
		if err != nil {
			return nil, err
		}
		a.Directory = d
	}
	return a.Directory, nil
}

// sessionStore opens the session database. A store that cannot be opened
// is logged and left nil; commands then run without persistence.
func (a *App) sessionStore() store.SessionStore {
	if a.Store != nil {
		return a.Store
	}

	dbPath := a.Config.Session.DBPath
	if dbPath == "" {
		dbPath = filepath.Join(a.Config.Dir, "session.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to create session directory")
		return nil
	}

	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to initialize session store, reports will not be kept")
		return nil
	}
	a.Store = s
	a.Logger.Debug().Str("path", dbPath).Msg("Session store initialized")
	return a.Store
}

func (a *App) session() *session.Session {
	if a.Session == nil {
		a.Session = session.New(a.client(), a.sessionStore(), a.Logger)
	}
	return a.Session
}

func (a *App) cache() *dashboard.Cache {
	if a.Cache == nil {
		a.Cache = dashboard.NewCache(a.client(), a.Config.Dashboard.CacheTTL, dashboard.WithCacheLogger(a.Logger))
	}
	return a.Cache
}

// Close releases the session store.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	err := a.Store.Close()
	a.Store = nil
	a.Session = nil
	return err
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("GrowTheory v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": app.Config.Dir})
			} else {
				output.Println(app.Config.Dir)
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("✓ Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	timeout := "none"
	if cfg.API.Timeout > 0 {
		timeout = cfg.API.Timeout.String()
	}

	output.Bold("Analysis Service")
	output.Printf("  Base URL:        %s\n", cfg.API.BaseURL)
	output.Printf("  Analyze:         %s\n", cfg.API.AnalyzeEndpoint)
	output.Printf("  Report:          %s\n", cfg.API.ReportEndpoint)
	output.Printf("  Dashboard:       %s\n", cfg.API.DashboardEndpoint)
	output.Printf("  Status:          %s\n", cfg.API.StatusEndpoint)
	output.Printf("  Timeout:         %s\n", timeout)
	output.Println()

	output.Bold("Dashboard")
	output.Printf("  Cache TTL:       %s\n", cfg.Dashboard.CacheTTL)
	output.Println()

	output.Bold("Session")
	output.Printf("  Database:        %s\n", cfg.Session.DBPath)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:           %s\n", cfg.Logging.Level)
	output.Printf("  File:            %v\n", cfg.Logging.File)
	output.Printf("  Console:         %v\n", cfg.Logging.Console)

	return nil
}
