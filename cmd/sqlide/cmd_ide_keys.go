package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/willibrandon/sqlide/internal/keymap"
	"github.com/willibrandon/sqlide/internal/logger"
	"github.com/willibrandon/sqlide/internal/ui"
	"github.com/willibrandon/sqlide/internal/ui/highlight"
	"github.com/willibrandon/sqlide/internal/ui/keys"
)

// Color modes for ide-keys output.
const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

type ideKeysOptions struct {
	keymap string
	format string
	color  string
	copy   bool
}

// newIDEKeysCmd creates the ide-keys subcommand.
func newIDEKeysCmd() *cobra.Command {
	var opts ideKeysOptions

	cmd := &cobra.Command{
		Use:   "ide-keys",
		Short: "Keys definition helper for the SQL IDE",
		Long: `Edit the SQL IDE key bindings interactively, starting from the configured
keymap and custom bindings. On exit the bindings that differ from the
baseline keymap are printed as [database.ide] sections, ready to paste into
the configuration file.

Keys:
  enter   bind a new key     a   add a key     x   unbind
  u       restore baseline   e   edit label    /   filter
  q       done               ctrl+c   abort without output

Example:
  sqlide ide-keys
  sqlide ide-keys --keymap vscode --format yaml --copy`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIDEKeys(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.keymap, "keymap", "", "baseline keymap (see ide-keymaps)")
	cmd.Flags().StringVar(&opts.format, "format", string(keymap.FormatTOML), "output format: toml or yaml")
	cmd.Flags().StringVar(&opts.color, "color", colorAuto, "highlight output: auto, always or never")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "also copy the output to the clipboard")

	return cmd
}

func (o ideKeysOptions) validate() (keymap.Format, error) {
	format, err := keymap.ParseFormat(o.format)
	if err != nil {
		return "", &ArgumentError{Err: err}
	}
	switch o.color {
	case colorAuto, colorAlways, colorNever:
	default:
		return "", argumentError("unknown color mode %q (expected auto, always or never)", o.color)
	}
	return format, nil
}

func runIDEKeys(cmd *cobra.Command, opts ideKeysOptions) error {
	format, err := opts.validate()
	if err != nil {
		return err
	}
	c, err := ideOptions{keymap: opts.keymap}.apply(cmd)
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("ide-keys needs an interactive terminal")
	}

	custom := keymap.FromConfig(c.ide.Bindings)
	bindings, err := editBindings(cmd.Context(), c.baseline, custom)
	if err != nil {
		return err
	}

	modified := keymap.Modified(bindings, c.baseline.Bindings)
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if len(modified) == 0 {
		fmt.Fprintf(stderr, "No bindings differ from the %s keymap\n", c.baseline.Name)
		return nil
	}

	text, err := renderOverrides(modified, format)
	if err != nil {
		return err
	}
	if useColor(opts.color, stdout) {
		fmt.Fprint(stdout, highlight.Config(text, string(format), c.ide.Theme))
	} else {
		fmt.Fprint(stdout, text)
	}

	if opts.copy {
		cw := ui.NewClipboardWriter()
		if !cw.IsAvailable() {
			logger.Warn("Clipboard unavailable", "reason", cw.Error())
			fmt.Fprintf(stderr, "Warning: cannot copy to clipboard: %s\n", cw.Error())
		} else if err := cw.Write(text); err != nil {
			logger.Warn("Clipboard copy failed", "error", err)
			fmt.Fprintf(stderr, "Warning: %v\n", err)
		} else {
			fmt.Fprintln(stderr, "Copied to clipboard")
		}
	}
	return nil
}

// editBindings runs the key editor on the terminal and returns its bindings.
func editBindings(ctx context.Context, baseline, custom *keymap.Keymap) ([]keymap.Binding, error) {
	model := keys.New(baseline.Name, baseline.Bindings, custom.Bindings)

	// The editor draws on stderr so stdout only carries the result.
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil, keys.ErrAborted
		}
		return nil, fmt.Errorf("key editor failed: %w", err)
	}
	if model.Aborted() {
		logger.Info("Key definition aborted")
		return nil, keys.ErrAborted
	}
	return model.Bindings(), nil
}

// renderOverrides encodes bindings as configuration text.
func renderOverrides(bindings []keymap.Binding, format keymap.Format) (string, error) {
	var buf bytes.Buffer
	if err := keymap.EncodeOverrides(&buf, bindings, format); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// useColor resolves a color mode for w.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case colorAlways:
		return true
	case colorNever:
		return false
	}
	f, ok := w.(*os.File)
	return ok && !color.NoColor && term.IsTerminal(int(f.Fd()))
}
