// Package harlequin builds and runs the SQL IDE command line.
package harlequin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"syscall"
	"time"

	"github.com/alessio/shellescape"

	"github.com/willibrandon/sqlide/internal/adapter"
	"github.com/willibrandon/sqlide/internal/config"
	"github.com/willibrandon/sqlide/internal/keymap"
	"github.com/willibrandon/sqlide/internal/logger"
)

// stopTimeout is how long the SQL IDE gets to restore the terminal after
// SIGTERM before it is killed.
const stopTimeout = 5 * time.Second

// installHint is shown when the executable cannot be found.
const installHint = `install it with "pip install harlequin harlequin-postgres harlequin-mysql" or set database.ide.executable`

// Options are the SQL IDE settings shared by every adapter.
type Options struct {
	Theme       string
	Limit       int
	KeymapNames []string
	ConfigPath  string
}

// OptionsFromConfig builds options from the ide section. The custom keymap
// always follows the baseline keymap so its bindings take precedence.
func OptionsFromConfig(ide config.IDEConfig) Options {
	return Options{
		Theme:       ide.Theme,
		Limit:       ide.Limit,
		KeymapNames: []string{ide.Keymap, keymap.CustomKeymapName},
	}
}

// Args renders the options as command-line arguments.
func (o Options) Args() []string {
	var args []string
	if o.Theme != "" {
		args = append(args, "--theme", o.Theme)
	}
	if o.Limit > 0 {
		args = append(args, "--limit", strconv.Itoa(o.Limit))
	}
	for _, name := range o.KeymapNames {
		args = append(args, "--keymap-name", name)
	}
	if o.ConfigPath != "" {
		args = append(args, "--config-path", o.ConfigPath)
	}
	return args
}

// Command is a ready-to-run SQL IDE invocation.
type Command struct {
	Executable string
	Params     adapter.Params
	Options    Options
}

// Args returns the full argument list, without the executable.
func (c *Command) Args() []string {
	args := append([]string{"--adapter", c.Params.Adapter}, c.Options.Args()...)
	return append(args, c.Params.Args()...)
}

// String renders the command line with secrets redacted.
func (c *Command) String() string {
	parts := []string{c.Executable, "--adapter", c.Params.Adapter}
	parts = append(parts, c.Options.Args()...)
	parts = append(parts, c.Params.Redacted()...)
	return shellescape.QuoteCommand(parts)
}

// Env returns the child environment: the current one plus adapter variables.
func (c *Command) Env() []string {
	env := os.Environ()
	for k, v := range c.Params.Env {
		env = append(env, k+"="+v)
	}
	return env
}

// ExitError carries a non-zero SQL IDE exit status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("SQL IDE exited with status %d", e.Code)
}

// Run starts the SQL IDE attached to the terminal and waits for it.
func (c *Command) Run(ctx context.Context) error {
	path, err := exec.LookPath(c.Executable)
	if err != nil {
		return fmt.Errorf("SQL IDE %q not found (%s): %w", c.Executable, installHint, err)
	}

	cmd := exec.CommandContext(ctx, path, c.Args()...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = c.Env()
	// SIGKILL would leave the terminal in raw mode on the alternate screen.
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = stopTimeout

	logger.Info("Starting SQL IDE", "command", c.String())

	err = cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		logger.Warn("SQL IDE exited with error", "code", exitErr.ExitCode())
		return &ExitError{Code: exitErr.ExitCode()}
	}
	if err != nil {
		return fmt.Errorf("failed to run SQL IDE: %w", err)
	}

	logger.Info("SQL IDE exited")
	return nil
}

// WriteTempConfig writes the custom keymap to a temporary SQL IDE config
// file. The returned cleanup removes it.
func WriteTempConfig(custom *keymap.Keymap) (path string, cleanup func(), err error) {
	f, err := os.CreateTemp("", "sqlide-*.toml")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create SQL IDE config: %w", err)
	}
	cleanup = func() {
		if err := os.Remove(f.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to remove SQL IDE config", "path", f.Name(), "error", err)
		}
	}

	if err := keymap.WriteConfig(f, custom); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to write SQL IDE config: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to write SQL IDE config: %w", err)
	}

	logger.Debug("Wrote SQL IDE config", "path", f.Name(), "bindings", len(custom.Bindings))
	return f.Name(), cleanup, nil
}
