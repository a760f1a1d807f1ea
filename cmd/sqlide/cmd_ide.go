package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/willibrandon/sqlide/internal/adapter"
	"github.com/willibrandon/sqlide/internal/config"
	"github.com/willibrandon/sqlide/internal/db"
	"github.com/willibrandon/sqlide/internal/harlequin"
	"github.com/willibrandon/sqlide/internal/keymap"
	"github.com/willibrandon/sqlide/internal/logger"
)

// dryRunConfigPath stands in for the temporary keymap file in --dry-run output.
const dryRunConfigPath = "<custom keymap config>"

type ideOptions struct {
	db       string
	theme    string
	limit    int
	keymap   string
	check    bool
	password bool
	dryRun   bool
}

// newIDECmd creates the ide subcommand.
func newIDECmd() *cobra.Command {
	var opts ideOptions

	cmd := &cobra.Command{
		Use:   "ide",
		Short: "SQL IDE (see http://harlequin.sh)",
		Long: `Open a configured database in the harlequin SQL IDE.

The database is selected with --db, or implicitly when only one is
configured. Theme, row limit and keymap come from [database.ide] and can be
overridden on the command line; custom bindings declared there are passed
to the SQL IDE as the _custom_ keymap.

Example:
  sqlide ide
  sqlide ide --db reports --theme monokai --limit 500
  sqlide ide --db reports --check --dry-run`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ide, err := opts.apply(cmd)
			if err != nil {
				return err
			}
			return runIDE(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), ide, opts)
		},
	}

	cmd.Flags().StringVar(&opts.db, "db", "", "database to open (required when several are configured)")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "SQL IDE theme (see https://pygments.org/styles)")
	cmd.Flags().IntVar(&opts.limit, "limit", config.DefaultLimit, "maximum number of records fetched")
	cmd.Flags().StringVar(&opts.keymap, "keymap", "", "baseline keymap (see ide-keymaps)")
	cmd.Flags().BoolVar(&opts.check, "check", false, "check connectivity before starting the SQL IDE")
	cmd.Flags().BoolVar(&opts.password, "password", false, "prompt for the password when the URL has none")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the SQL IDE command instead of running it")

	return cmd
}

// apply loads the configuration and overlays the command-line settings.
func (o ideOptions) apply(cmd *cobra.Command) (*ideContext, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	ide := cfg.IDE
	if o.theme != "" {
		ide.Theme = o.theme
	}
	if cmd.Flags().Changed("limit") {
		ide.Limit = o.limit
	}
	if o.keymap != "" {
		ide.Keymap = o.keymap
	}
	// The file was valid, so anything failing now came from a flag.
	if err := ide.Validate(); err != nil {
		return nil, &ArgumentError{Err: err}
	}

	registry, err := keymap.LoadRegistry(ide.KeymapPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load keymaps: %w", err)
	}
	baseline, err := registry.Get(ide.Keymap)
	if err != nil {
		return nil, &ArgumentError{Err: err}
	}

	return &ideContext{config: cfg, ide: ide, baseline: baseline}, nil
}

// ideContext is the resolved configuration of an ide command.
type ideContext struct {
	config   *config.Config
	ide      config.IDEConfig
	baseline *keymap.Keymap
}

func runIDE(ctx context.Context, stdout, stderr io.Writer, c *ideContext, opts ideOptions) error {
	service := db.NewService(c.config)
	section, err := service.Resolve(opts.db)
	if err != nil {
		return &ArgumentError{Err: err}
	}

	engine, err := service.Engine(ctx, section)
	if err != nil {
		return err
	}
	if opts.password && !engine.URL.HasPassword {
		password, err := db.PromptPassword(fmt.Sprintf("Password for %s: ", engine.Name))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		engine.URL.Password = password
		engine.URL.HasPassword = true
	}

	params, err := adapter.Resolve(engine.URL)
	if err != nil {
		if errors.Is(err, adapter.ErrUnsupported) {
			return &ArgumentError{Err: fmt.Errorf("database %s: %w", engine.Name, err)}
		}
		return err
	}

	if opts.check {
		version, err := db.Check(ctx, params.Adapter, engine.URL)
		if err != nil {
			return fmt.Errorf("database %s is not reachable: %w", engine.Name, err)
		}
		fmt.Fprintf(stderr, "Connected to %s: %s\n", engine.Name, version)
	}

	custom := keymap.FromConfig(c.ide.Bindings)
	command := &harlequin.Command{
		Executable: c.ide.Executable,
		Params:     params,
		Options:    harlequin.OptionsFromConfig(c.ide),
	}

	if opts.dryRun {
		command.Options.ConfigPath = dryRunConfigPath
		fmt.Fprintln(stdout, command.String())
		return nil
	}

	path, cleanup, err := harlequin.WriteTempConfig(custom)
	if err != nil {
		return err
	}
	defer cleanup()
	command.Options.ConfigPath = path

	logger.Info("Opening database",
		"database", engine.Name,
		"adapter", params.Adapter,
		"keymap", c.baseline.Name,
		"custom_bindings", len(custom.Bindings),
	)
	return command.Run(ctx)
}
