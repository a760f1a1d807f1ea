// Package highlight provides syntax highlighting for configuration text.
package highlight

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/alecthomas/chroma/v2/styles"

	// Registers the harlequin style.
	_ "github.com/willibrandon/sqlide/internal/ui/styles"
)

// DefaultStyle is used when the requested style is unknown.
const DefaultStyle = "harlequin"

// Config applies syntax highlighting to TOML or YAML text using Chroma.
// Outputs ANSI terminal codes; returns the original string if highlighting fails.
// See: https://xyproto.github.io/splash/docs/all.html for available styles.
func Config(text, lexer, style string) string {
	if text == "" {
		return ""
	}
	// Registry keys are lowercase; pygments names are often capitalized.
	style = strings.ToLower(style)
	if _, ok := styles.Registry[style]; !ok {
		style = DefaultStyle
	}

	var buf bytes.Buffer
	if err := quick.Highlight(&buf, text, lexer, "terminal256", style); err != nil {
		return text
	}

	return buf.String()
}
