package keymap

import (
	"errors"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrDuplicateKeys is returned when two bindings would share one section.
var ErrDuplicateKeys = errors.New("keys bound to several actions")

// Format is an output format for configuration text.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name; empty means TOML.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatTOML, "":
		return FormatTOML, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (expected toml or yaml)", name)
}

// override is one binding section of the host configuration's ide section.
type override struct {
	Action  string `toml:"action" yaml:"action"`
	Display string `toml:"display,omitempty" yaml:"display,omitempty"`
}

// EncodeOverrides writes bindings as [database.ide."<keys>"] sections, ready
// to paste into the host configuration file.
func EncodeOverrides(w io.Writer, bindings []Binding, format Format) error {
	sections := make(map[string]override, len(bindings))
	for _, b := range bindings {
		if prev, ok := sections[b.Keys]; ok {
			return fmt.Errorf("%w: %q is bound to both %s and %s", ErrDuplicateKeys, b.Keys, prev.Action, b.Action)
		}
		sections[b.Keys] = override{Action: b.Action, Display: b.KeyDisplay}
	}
	doc := map[string]map[string]map[string]override{
		"database": {"ide": sections},
	}

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case FormatTOML, "":
		enc := toml.NewEncoder(w)
		enc.Indent = ""
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode toml: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unknown format %q", format)
}
