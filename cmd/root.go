package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/KaramelBytes/bmicsv/internal/columns"
	cfgpkg "github.com/KaramelBytes/bmicsv/internal/config"
	"github.com/KaramelBytes/bmicsv/internal/logging"
	"github.com/KaramelBytes/bmicsv/internal/pipeline"
	"github.com/KaramelBytes/bmicsv/internal/table"
	"github.com/spf13/cobra"
)

// Exit codes for fatal conditions.
const (
	exitError          = 1
	exitInputNotFound  = 2
	exitNoHeader       = 3
	exitUnresolvedCols = 4
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	logFormat string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "bmicsv",
	Short: "bmicsv: add body-mass index and its category to a CSV of patients",
	Long: `bmicsv reads a delimited file with patient weight and height, detects its delimiter,
decimal separator and columns, and writes a copy with two extra columns: the body-mass
index and its classification.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps fatal pre-flight failures to distinct process exit codes.
func exitCode(err error) int {
	var ue *columns.UnresolvedError
	switch {
	case errors.Is(err, pipeline.ErrInputNotFound):
		return exitInputNotFound
	case errors.Is(err, table.ErrNoHeader):
		return exitNoHeader
	case errors.As(err, &ue):
		return exitUnresolvedCols
	default:
		return exitError
	}
}

func init() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)

	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.bmicsv/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text|json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	format := cfg.LogFormat
	if rootCmd.PersistentFlags().Changed("log-format") && logFormat != "" {
		format = logFormat
	}
	logging.Setup(level, format, os.Stderr)
}

// currentConfig returns the loaded configuration or the defaults.
func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Defaults()
	}
	return cfg
}
