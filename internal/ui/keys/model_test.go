package keys

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/sqlide/internal/keymap"
)

var testBaseline = []keymap.Binding{
	{Keys: "ctrl+q", Action: "quit", KeyDisplay: "^q"},
	{Keys: "ctrl+b", Action: "toggle_sidebar"},
	{Keys: "f9", Action: "toggle_sidebar"},
	{Keys: "ctrl+j", Action: "run_query"},
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func binding(t *testing.T, m *Model, action string) keymap.Binding {
	t.Helper()
	for _, b := range m.Bindings() {
		if b.Action == action {
			return b
		}
	}
	t.Fatalf("no binding for %s", action)
	return keymap.Binding{}
}

func TestNew_OneRowPerAction(t *testing.T) {
	custom := []keymap.Binding{
		{Keys: "f5", Action: "run_query"},
		{Keys: "ctrl+n", Action: "new_buffer"},
	}
	m := New("vscode", testBaseline, custom)

	got := m.Bindings()
	require.Len(t, got, 4)
	assert.Equal(t, "ctrl+b,f9", binding(t, m, "toggle_sidebar").Keys)
	assert.Equal(t, "f5", binding(t, m, "run_query").Keys)
	assert.Equal(t, "new_buffer", got[3].Action)
}

func TestRebind(t *testing.T) {
	m := New("vscode", testBaseline, nil)

	// quit is the first row
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ModeCapture, m.Mode())
	send(m, tea.KeyMsg{Type: tea.KeyF10})

	assert.Equal(t, ModeNormal, m.Mode())
	b := binding(t, m, "quit")
	assert.Equal(t, "f10", b.Keys)
	assert.Empty(t, b.KeyDisplay)

	diff := keymap.Modified(m.Bindings(), testBaseline)
	assert.Equal(t, []keymap.Binding{{Keys: "f10", Action: "quit"}}, diff)
}

func TestAddKey_NormalizesName(t *testing.T) {
	m := New("vscode", testBaseline, nil)

	send(m, runes("j"), runes("j"), runes("a"), tea.KeyMsg{Type: tea.KeyCtrlJ})
	assert.Equal(t, "ctrl+j", binding(t, m, "run_query").Keys, "duplicate key is not added")

	send(m, runes("a"), runes("."))
	assert.Equal(t, "ctrl+j,full_stop", binding(t, m, "run_query").Keys)
}

func TestCapture_ShiftedLetter(t *testing.T) {
	m := New("vscode", testBaseline, nil)

	send(m, tea.KeyMsg{Type: tea.KeyEnter}, runes("Q"))
	assert.Equal(t, "shift+q", binding(t, m, "quit").Keys)
}

func TestCaptureCancel(t *testing.T) {
	m := New("vscode", testBaseline, nil)

	send(m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeNormal, m.Mode())
	assert.Equal(t, "ctrl+q", binding(t, m, "quit").Keys)
}

func TestClearAndReset(t *testing.T) {
	m := New("vscode", testBaseline, nil)

	send(m, runes("x"))
	assert.Empty(t, binding(t, m, "quit").Keys)
	assert.Empty(t, keymap.Modified(m.Bindings(), testBaseline), "unbound actions are not reported")

	send(m, runes("u"))
	assert.Equal(t, keymap.Binding{Keys: "ctrl+q", Action: "quit", KeyDisplay: "^q"}, binding(t, m, "quit"))
}

func TestEditDisplay(t *testing.T) {
	m := New("vscode", testBaseline, nil)

	send(m, runes("j"), runes("e"))
	require.Equal(t, ModeEditDisplay, m.Mode())
	send(m, runes("S"), runes("B"), tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, ModeNormal, m.Mode())
	assert.Equal(t, "SB", binding(t, m, "toggle_sidebar").KeyDisplay)

	send(m, runes("e"), runes("X"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, "SB", binding(t, m, "toggle_sidebar").KeyDisplay)
}

func TestFilter(t *testing.T) {
	m := New("vscode", testBaseline, nil)

	send(m, runes("/"), runes("r"), runes("u"), runes("n"))
	require.Equal(t, ModeFilter, m.Mode())
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ModeNormal, m.Mode())

	// the only visible row is run_query
	send(m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyF5})
	assert.Equal(t, "f5", binding(t, m, "run_query").Keys)
	assert.Equal(t, "ctrl+q", binding(t, m, "quit").Keys)
	assert.Contains(t, m.View(), "run_query")
	assert.NotContains(t, m.View(), "toggle_sidebar")

	send(m, runes("/"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Contains(t, m.View(), "toggle_sidebar")
}

func TestNavigationBounds(t *testing.T) {
	m := New("vscode", testBaseline, nil)

	send(m, runes("k"), tea.KeyMsg{Type: tea.KeyEnter}, runes("z"))
	assert.Equal(t, "z", binding(t, m, "quit").Keys)

	send(m, runes("G"), runes("j"), tea.KeyMsg{Type: tea.KeyEnter}, runes("z"))
	assert.Equal(t, "z", binding(t, m, "run_query").Keys)
}

func TestQuitAndAbort(t *testing.T) {
	m := New("vscode", testBaseline, nil)
	cmd := send(m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.False(t, m.Aborted())

	m = New("vscode", testBaseline, nil)
	cmd = send(m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.Aborted())
	assert.Equal(t, "ctrl+q", binding(t, m, "quit").Keys)
}

func TestHelpAndView(t *testing.T) {
	m := New("vscode", testBaseline, nil)
	send(m, tea.WindowSizeMsg{Width: 100, Height: 30})

	send(m, runes("?"))
	assert.Equal(t, ModeHelp, m.Mode())
	assert.Contains(t, m.View(), "Key Definition Help")

	send(m, runes("?"))
	assert.Equal(t, ModeNormal, m.Mode())

	send(m, runes("x"))
	view := m.View()
	assert.Contains(t, view, "Keymap vscode (3 actions, 0 modified)")
	assert.Contains(t, view, "ctrl+b,f9")
}

func TestCaptureStatus(t *testing.T) {
	m := New("vscode", testBaseline, nil)

	send(m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyF9})
	assert.Contains(t, m.View(), "f9 is also bound to toggle_sidebar")

	send(m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyF10})
	assert.Contains(t, m.View(), "quit bound to f10")

	send(m, runes("j"))
	assert.NotContains(t, m.View(), "quit bound to f10")
}
