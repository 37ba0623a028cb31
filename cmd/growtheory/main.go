// Command growtheory is the terminal client for the GrowTheory analysis
// service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"growtheory/internal/cli"
	"growtheory/internal/config"
	"growtheory/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load(configDirFromArgs(args))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if !cfg.UI.ColorEnabled {
		color.NoColor = true
	}

	logCfg := logging.DefaultLogConfig(cfg.Dir)
	logCfg.Level = cfg.Logging.Level
	logCfg.File = cfg.Logging.File
	logCfg.Console = cfg.Logging.Console
	logger := logging.NewLoggerWithConfig(logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCmd(cfg, logger)
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Debug().Err(err).Msg("Command failed")
		cli.PrintError(os.Stderr, err)
		return 1
	}
	return 0
}

// configDirFromArgs finds --config before cobra parses flags, so the
// logger can be set up from the right file.
func configDirFromArgs(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--":
			return ""
		case arg == "--config" && i+1 < len(args):
			return args[i+1]
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}
