package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/willibrandon/sqlide/internal/keymap"
)

// newIDEKeymapsCmd creates the ide-keymaps subcommand.
func newIDEKeymapsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ide-keymaps",
		Short: "List the keymaps available for database.ide.keymap",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			registry, err := keymap.LoadRegistry(cfg.IDE.KeymapPaths...)
			if err != nil {
				return fmt.Errorf("failed to load keymaps: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, name := range registry.Names() {
				marker := " "
				if name == cfg.IDE.Keymap {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s\n", marker, name)
			}
			return nil
		},
	}
}
