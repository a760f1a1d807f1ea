package styles

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

func init() {
	// Register the SQL IDE's own theme so "harlequin" highlights like the rest
	styles.Register(HarlequinTheme)
}

// HarlequinTheme approximates the SQL IDE's default palette for config text.
var HarlequinTheme = chroma.MustNewStyle("harlequin", chroma.StyleEntries{
	// Background and defaults
	chroma.Background: "bg:#0C0C0C",
	chroma.Text:       "#DDDDDD",
	chroma.Error:      "#E26060 bold",

	// Table headers: [database.ide."ctrl+j"]
	chroma.Keyword:   "bold #FFB000",
	chroma.NameTag:   "bold #FFB000",
	chroma.Name:      "#45FFCA",
	chroma.NameLabel: "#45FFCA",

	// Strings: action names, key labels
	chroma.String:       "#FEFFAC",
	chroma.StringEscape: "#FF7B54",
	chroma.StringDouble: "#FEFFAC",

	// Numbers and booleans
	chroma.Number:          "#B084CC",
	chroma.KeywordConstant: "#B084CC",

	// Comments
	chroma.Comment:       "italic #777777",
	chroma.CommentSingle: "italic #777777",

	// Punctuation and operators: = [ ] .
	chroma.Punctuation: "#AAAAAA",
	chroma.Operator:    "#AAAAAA",
})
