package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/willibrandon/sqlide/internal/config"
)

func TestBinding_KeySet(t *testing.T) {
	a := Binding{Keys: "f5, ctrl+j"}
	b := Binding{Keys: "ctrl+j,f5"}
	assert.Equal(t, a.KeySet(), b.KeySet())
	assert.Equal(t, []string{"f5", "ctrl+j"}, a.KeyList())
	assert.Empty(t, Binding{Keys: " , "}.KeyList())
}

func TestJoinKeys(t *testing.T) {
	keys := []string{"f5", "ctrl+j", "f5", ""}
	assert.Equal(t, "f5,ctrl+j", JoinKeys(keys))
	assert.Equal(t, []string{"f5", "ctrl+j", "f5", ""}, keys, "input must not be modified")
}

func TestFromConfig(t *testing.T) {
	km := FromConfig([]config.BindingConfig{
		{Keys: "f5", Action: "run_query"},
		{Keys: "ctrl+e", Action: "export", Display: "^e"},
	})
	assert.Equal(t, CustomKeymapName, km.Name)
	assert.Equal(t, []Binding{
		{Keys: "ctrl+e", Action: "export", KeyDisplay: "^e"},
		{Keys: "f5", Action: "run_query"},
	}, km.Bindings)
}

func TestByAction(t *testing.T) {
	got := ByAction([]Binding{
		{Keys: "ctrl+b", Action: "toggle_sidebar"},
		{Keys: "ctrl+q", Action: "quit"},
		{Keys: "f9", Action: "toggle_sidebar", KeyDisplay: "F9"},
		{Keys: "ctrl+b", Action: "toggle_sidebar"},
	})
	assert.Equal(t, []Binding{
		{Keys: "ctrl+b,f9", Action: "toggle_sidebar", KeyDisplay: "F9"},
		{Keys: "ctrl+q", Action: "quit"},
	}, got)
}

func TestMerge(t *testing.T) {
	base := []Binding{
		{Keys: "ctrl+q", Action: "quit"},
		{Keys: "ctrl+j,ctrl+enter", Action: "run_query", KeyDisplay: "ctrl+enter"},
	}
	custom := []Binding{
		{Keys: "f5", Action: "run_query"},
		{Keys: "ctrl+h", Action: "show_help_screen"},
	}

	assert.Equal(t, []Binding{
		{Keys: "ctrl+q", Action: "quit"},
		{Keys: "f5", Action: "run_query"},
		{Keys: "ctrl+h", Action: "show_help_screen"},
	}, Merge(base, custom))
}

func TestModified(t *testing.T) {
	baseline := []Binding{
		{Keys: "ctrl+q", Action: "quit"},
		{Keys: "ctrl+j,ctrl+enter", Action: "run_query"},
		{Keys: "ctrl+b", Action: "toggle_sidebar"},
		{Keys: "f9", Action: "toggle_sidebar"},
	}

	tests := []struct {
		name    string
		current []Binding
		want    []Binding
	}{
		{
			name:    "unchanged baseline reports nothing",
			current: ByAction(baseline),
			want:    nil,
		},
		{
			name:    "key order does not matter",
			current: []Binding{{Keys: "ctrl+enter,ctrl+j", Action: "run_query"}},
			want:    nil,
		},
		{
			name:    "single baseline entry of a split action",
			current: []Binding{{Keys: "f9", Action: "toggle_sidebar"}},
			want:    nil,
		},
		{
			name:    "rebound action is reported",
			current: []Binding{{Keys: "f5", Action: "run_query", KeyDisplay: "F5"}},
			want:    []Binding{{Keys: "f5", Action: "run_query", KeyDisplay: "F5"}},
		},
		{
			name:    "baseline keys on another action are reported",
			current: []Binding{{Keys: "ctrl+q", Action: "show_help_screen"}},
			want:    []Binding{{Keys: "ctrl+q", Action: "show_help_screen"}},
		},
		{
			name:    "unbound action is skipped",
			current: []Binding{{Keys: "", Action: "quit"}},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Modified(tt.current, baseline))
		})
	}
}
