package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/willibrandon/sqlide/internal/config"
	"github.com/willibrandon/sqlide/internal/harlequin"
	"github.com/willibrandon/sqlide/internal/logger"
	"github.com/willibrandon/sqlide/internal/ui/keys"
)

var (
	// Version info (set by ldflags)
	version = "dev"

	// Flags
	configPath string
	debug      bool
	logLevel   string
	logFile    string
)

var (
	errorFormat = color.New(color.FgHiRed, color.Bold).SprintFunc()
	hintFormat  = color.New(color.FgHiBlack).SprintFunc()
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	logger.Close()
	return exitCode(err, stderr)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sqlide",
		Short: "Open configured databases in a terminal SQL IDE",
		Long: `sqlide launches the harlequin SQL IDE against databases declared in the
[database] section of its configuration file, and helps define custom
key bindings for it.

  sqlide ide [--db NAME]        Open a database in the SQL IDE
  sqlide ide-keys               Record key bindings interactively
  sqlide ide-keymaps            List the available baseline keymaps`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogging(cmd)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/sqlide/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file path (default ~/.config/sqlide/sqlide.log)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &ArgumentError{Err: err}
	})

	rootCmd.AddCommand(
		newIDECmd(),
		newIDEKeysCmd(),
		newIDEKeymapsCmd(),
	)

	return rootCmd
}

func initLogging(cmd *cobra.Command) error {
	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return &ArgumentError{Err: err}
	}
	if debug {
		level = logger.LevelDebug
	}
	if err := logger.InitLogger(level, logFile); err != nil {
		// Logging is optional; the command still runs.
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
		return nil
	}
	if debug {
		fmt.Fprintf(cmd.ErrOrStderr(), "Debug mode: Logs written to %s\n", logger.LogPath)
	}
	logger.Debug("sqlide starting", "version", version, "command", cmd.CommandPath(), "config", configPath)
	return nil
}

// loadConfig loads the --config file, or the default locations.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	logger.Debug("Loaded config", "file", cfg.File, "databases", len(cfg.Databases))
	return cfg, nil
}

// noArgs rejects positional arguments as an argument error.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return argumentError("unexpected argument %q for %q", args[0], cmd.CommandPath())
	}
	return nil
}

// exitCode reports err on stderr and maps it to an exit code.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return ExitOK
	}

	// The SQL IDE already reported its own failure.
	var ideExit *harlequin.ExitError
	if errors.As(err, &ideExit) {
		return ideExit.Code
	}
	if errors.Is(err, keys.ErrAborted) {
		return ExitAborted
	}

	fmt.Fprintf(stderr, "%s %v\n", errorFormat("Error:"), err)
	if errors.Is(err, ErrArgument) {
		fmt.Fprintln(stderr, hintFormat("Run 'sqlide --help' for usage."))
		return ExitArgument
	}
	return ExitFailure
}
