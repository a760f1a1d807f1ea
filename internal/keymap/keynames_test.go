package keymap

import "testing"

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ctrl+j", "ctrl+j"},
		{"a", "a"},
		{"A", "shift+a"},
		{"alt+Z", "alt+shift+z"},
		{"ctrl+shift+A", "ctrl+shift+a"},
		{"F5", "F5"},
		{"esc", "escape"},
		{" ", "space"},
		{"pgup", "pageup"},
		{"ctrl+pgdown", "ctrl+pagedown"},
		{".", "full_stop"},
		{"ctrl+.", "ctrl+full_stop"},
		{"alt+/", "alt+slash"},
		{"+", "plus"},
		{"ctrl++", "ctrl+plus"},
		{"shift+tab", "shift+tab"},
		{"f12", "f12"},
		{"enter", "enter"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeKey(tt.in); got != tt.want {
				t.Errorf("NormalizeKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
