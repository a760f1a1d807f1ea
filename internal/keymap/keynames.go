package keymap

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// terminalKeys maps terminal key event names to the SQL IDE's key names.
var terminalKeys = map[string]string{
	"esc":    "escape",
	" ":      "space",
	"pgup":   "pageup",
	"pgdown": "pagedown",
}

// symbolKeys maps printable symbols to the SQL IDE's key names.
var symbolKeys = map[string]string{
	".":  "full_stop",
	",":  "comma",
	"/":  "slash",
	"\\": "backslash",
	";":  "semicolon",
	":":  "colon",
	"-":  "minus",
	"+":  "plus",
	"=":  "equals_sign",
	"'":  "apostrophe",
	"\"": "quotation_mark",
	"`":  "grave_accent",
	"?":  "question_mark",
	"!":  "exclamation_mark",
	"@":  "commercial_at",
	"#":  "number_sign",
	"$":  "dollar_sign",
	"%":  "percent_sign",
	"^":  "circumflex_accent",
	"&":  "ampersand",
	"*":  "asterisk",
	"(":  "left_parenthesis",
	")":  "right_parenthesis",
	"[":  "left_square_bracket",
	"]":  "right_square_bracket",
	"{":  "left_curly_bracket",
	"}":  "right_curly_bracket",
	"<":  "less_than_sign",
	">":  "greater_than_sign",
	"|":  "vertical_line",
	"~":  "tilde",
	"_":  "underscore",
}

// splitModifiers separates "ctrl+alt+x" into "ctrl+alt" and "x". A trailing
// "+" is the plus key itself.
func splitModifiers(key string) (mods, base string) {
	if strings.HasSuffix(key, "++") {
		return strings.TrimSuffix(key, "++"), "+"
	}
	if i := strings.LastIndex(key, "+"); i > 0 {
		return key[:i], key[i+1:]
	}
	return "", key
}

// shiftLetter rewrites an uppercase letter as shift plus its lowercase form.
// Configuration keys are case-folded when loaded, so "A" would read back as "a".
func shiftLetter(mods, base string) (string, string) {
	r, size := utf8.DecodeRuneInString(base)
	if size != len(base) || !unicode.IsUpper(r) {
		return mods, base
	}
	base = string(unicode.ToLower(r))
	for _, m := range strings.Split(mods, "+") {
		if m == "shift" {
			return mods, base
		}
	}
	if mods == "" {
		return "shift", base
	}
	return mods + "+shift", base
}

// NormalizeKey converts a terminal key event name ("ctrl+.", "esc", "pgup", "A")
// into the SQL IDE's key name ("ctrl+full_stop", "escape", "pageup", "shift+a").
func NormalizeKey(key string) string {
	if name, ok := terminalKeys[key]; ok {
		return name
	}

	mods, base := splitModifiers(key)
	if name, ok := terminalKeys[base]; ok {
		base = name
	} else if name, ok := symbolKeys[base]; ok {
		base = name
	} else {
		mods, base = shiftLetter(mods, base)
	}

	if mods == "" {
		return base
	}
	return mods + "+" + base
}
