// Package keymap models SQL IDE key bindings: baseline keymaps, the custom
// keymap built from configuration, and the difference between the two.
package keymap

import (
	"sort"
	"strings"

	"github.com/willibrandon/sqlide/internal/config"
)

// CustomKeymapName names the keymap holding configured overrides.
const CustomKeymapName = "_custom_"

// Binding binds one or more keys to an action.
type Binding struct {
	// Keys is a comma-separated list of key names.
	Keys       string
	Action     string
	KeyDisplay string
}

// KeyList returns the individual keys, trimmed, in declaration order.
func (b Binding) KeyList() []string {
	return SplitKeys(b.Keys)
}

// KeySet returns the keys in canonical order, so that "ctrl+j,f5" and
// "f5,ctrl+j" compare equal.
func (b Binding) KeySet() string {
	keys := b.KeyList()
	sort.Strings(keys)
	return strings.Join(keys, ",")
}

// identity is what a baseline comparison matches on.
func (b Binding) identity() string {
	return b.Action + "\x00" + b.KeySet()
}

// Keymap is a named set of bindings.
type Keymap struct {
	Name     string
	Bindings []Binding
}

// SplitKeys splits a comma-separated key list, dropping empty entries.
func SplitKeys(keys string) []string {
	var out []string
	for _, k := range strings.Split(keys, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// JoinKeys joins keys into a binding key list, dropping duplicates.
func JoinKeys(keys []string) string {
	seen := make(map[string]bool, len(keys))
	out := keys[:0:0]
	for _, k := range keys {
		if k != "" && !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return strings.Join(out, ",")
}

// FromConfig builds the custom keymap from the ide section bindings.
func FromConfig(overrides []config.BindingConfig) *Keymap {
	km := &Keymap{Name: CustomKeymapName}
	for _, o := range overrides {
		km.Bindings = append(km.Bindings, Binding{
			Keys:       o.Keys,
			Action:     o.Action,
			KeyDisplay: o.Display,
		})
	}
	sort.SliceStable(km.Bindings, func(i, j int) bool {
		return km.Bindings[i].Keys < km.Bindings[j].Keys
	})
	return km
}

// ByAction folds bindings into one binding per action, in first-seen order.
// Keys are concatenated; the first non-empty display label wins.
func ByAction(bindings []Binding) []Binding {
	index := make(map[string]int)
	var out []Binding
	for _, b := range bindings {
		i, ok := index[b.Action]
		if !ok {
			index[b.Action] = len(out)
			out = append(out, Binding{Keys: JoinKeys(b.KeyList()), Action: b.Action, KeyDisplay: b.KeyDisplay})
			continue
		}
		out[i].Keys = JoinKeys(append(out[i].KeyList(), b.KeyList()...))
		if out[i].KeyDisplay == "" {
			out[i].KeyDisplay = b.KeyDisplay
		}
	}
	return out
}

// Merge overlays custom on base, one binding per action: a custom binding
// replaces the base keys of its action, unknown actions are appended.
func Merge(base, custom []Binding) []Binding {
	merged := ByAction(base)
	overrides := ByAction(custom)

	index := make(map[string]int, len(merged))
	for i, b := range merged {
		index[b.Action] = i
	}
	for _, o := range overrides {
		if i, ok := index[o.Action]; ok {
			merged[i] = o
			continue
		}
		index[o.Action] = len(merged)
		merged = append(merged, o)
	}
	return merged
}

// Modified returns the bindings of current that are not part of baseline.
// Bindings without keys are never reported. A binding is part of the
// baseline when the same action is bound to the same key set, either by a
// single baseline entry or by all baseline entries of that action together.
func Modified(current, baseline []Binding) []Binding {
	known := make(map[string]bool, 2*len(baseline))
	for _, b := range baseline {
		known[b.identity()] = true
	}
	for _, b := range ByAction(baseline) {
		known[b.identity()] = true
	}

	var out []Binding
	for _, b := range current {
		if len(b.KeyList()) == 0 || known[b.identity()] {
			continue
		}
		out = append(out, b)
	}
	return out
}
