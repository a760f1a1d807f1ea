// Package keys provides the interactive key binding editor used by ide-keys.
package keys

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/willibrandon/sqlide/internal/keymap"
	"github.com/willibrandon/sqlide/internal/logger"
	"github.com/willibrandon/sqlide/internal/ui"
	"github.com/willibrandon/sqlide/internal/ui/styles"
)

// ErrAborted is returned when the editor is left with ctrl+c.
var ErrAborted = errors.New("key definition aborted")

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeCapture
	ModeCaptureAdd
	ModeEditDisplay
	ModeFilter
	ModeHelp
)

// Fallback size until the first WindowSizeMsg arrives.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// row is one action with its current and baseline binding.
type row struct {
	current  keymap.Binding
	baseline keymap.Binding
}

// Model edits the bindings of a keymap, one row per action.
type Model struct {
	width  int
	height int

	mode       Mode
	keymapName string
	keys       ui.KeyMap

	baseline []keymap.Binding
	rows     []row
	visible  []int
	filter   string

	selectedIdx  int
	scrollOffset int

	input textinput.Model
	help  help.Model

	// Result of the last capture, shown until the next key press
	status      string
	statusError bool

	aborted bool
}

// New creates an editor showing baseline merged with the custom bindings.
func New(keymapName string, baseline, custom []keymap.Binding) *Model {
	base := make(map[string]keymap.Binding)
	for _, b := range keymap.ByAction(baseline) {
		base[b.Action] = b
	}

	m := &Model{
		mode:       ModeNormal,
		keymapName: keymapName,
		keys:       ui.DefaultKeyMap(),
		baseline:   baseline,
		input:      textinput.New(),
		help:       help.New(),
	}
	for _, b := range keymap.Merge(baseline, custom) {
		bl, ok := base[b.Action]
		if !ok {
			bl = keymap.Binding{Action: b.Action}
		}
		m.rows = append(m.rows, row{current: b, baseline: bl})
	}
	m.applyFilter()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Bindings returns the edited bindings, one per action.
func (m *Model) Bindings() []keymap.Binding {
	out := make([]keymap.Binding, len(m.rows))
	for i, r := range m.rows {
		out[i] = r.current
	}
	return out
}

// Aborted reports whether the editor was left with ctrl+c.
func (m *Model) Aborted() bool {
	return m.aborted
}

// Mode returns the current interaction mode.
func (m *Model) Mode() Mode {
	return m.mode
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ensureVisible()
		return m, nil

	case tea.KeyMsg:
		m.status = ""
		if key.Matches(msg, m.keys.Abort) {
			m.aborted = true
			return m, tea.Quit
		}
		return m, m.handleKeyPress(msg)
	}

	return m, nil
}

// handleKeyPress handles keyboard input for the current mode.
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	switch m.mode {
	case ModeHelp:
		switch {
		case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
			m.mode = ModeNormal
		}
		return nil

	case ModeCapture, ModeCaptureAdd:
		m.capture(msg)
		return nil

	case ModeEditDisplay:
		switch {
		case key.Matches(msg, m.keys.Confirm):
			if r := m.selected(); r != nil {
				r.current.KeyDisplay = strings.TrimSpace(m.input.Value())
			}
			m.closeInput()
			return nil
		case key.Matches(msg, m.keys.Cancel):
			m.closeInput()
			return nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd

	case ModeFilter:
		switch {
		case key.Matches(msg, m.keys.Confirm):
			m.closeInput()
			return nil
		case key.Matches(msg, m.keys.Cancel):
			m.filter = ""
			m.applyFilter()
			m.closeInput()
			return nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.filter = m.input.Value()
		m.applyFilter()
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveSelection(-m.tableHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.moveSelection(m.tableHeight())
	case key.Matches(msg, m.keys.Home):
		m.moveSelection(-len(m.visible))
	case key.Matches(msg, m.keys.End):
		m.moveSelection(len(m.visible))
	case key.Matches(msg, m.keys.Filter):
		return m.openInput(ModeFilter, "filter: ", m.filter)
	}

	r := m.selected()
	if r == nil {
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.Rebind):
		m.mode = ModeCapture
	case key.Matches(msg, m.keys.AddKey):
		m.mode = ModeCaptureAdd
	case key.Matches(msg, m.keys.Clear):
		r.current.Keys = ""
		r.current.KeyDisplay = ""
	case key.Matches(msg, m.keys.Reset):
		r.current = r.baseline
	case key.Matches(msg, m.keys.EditDisplay):
		return m.openInput(ModeEditDisplay, "label: ", r.current.KeyDisplay)
	}
	return nil
}

// capture records the pressed key on the selected action.
func (m *Model) capture(msg tea.KeyMsg) {
	mode := m.mode
	m.mode = ModeNormal
	if key.Matches(msg, m.keys.Cancel) {
		return
	}

	r := m.selected()
	if r == nil {
		return
	}
	name := keymap.NormalizeKey(msg.String())
	if mode == ModeCaptureAdd {
		r.current.Keys = keymap.JoinKeys(append(r.current.KeyList(), name))
	} else {
		r.current.Keys = name
		r.current.KeyDisplay = ""
	}
	logger.Debug("keys: captured", "action", r.current.Action, "key", name, "keys", r.current.Keys)

	if other := m.boundTo(name, r.current.Action); other != "" {
		m.status = fmt.Sprintf("%s is also bound to %s", name, other)
		m.statusError = true
		return
	}
	m.status = fmt.Sprintf("%s bound to %s", r.current.Action, r.current.Keys)
	m.statusError = false
}

// boundTo returns another action already using keyName, if any.
func (m *Model) boundTo(keyName, action string) string {
	for _, r := range m.rows {
		if r.current.Action == action {
			continue
		}
		for _, k := range r.current.KeyList() {
			if k == keyName {
				return r.current.Action
			}
		}
	}
	return ""
}

func (m *Model) openInput(mode Mode, prompt, value string) tea.Cmd {
	m.mode = mode
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) closeInput() {
	m.input.Blur()
	m.mode = ModeNormal
}

// selected returns the row under the cursor, or nil when nothing is shown.
func (m *Model) selected() *row {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.visible) {
		return nil
	}
	return &m.rows[m.visible[m.selectedIdx]]
}

// applyFilter rebuilds the visible rows from the filter text.
func (m *Model) applyFilter() {
	needle := strings.ToLower(m.filter)
	m.visible = m.visible[:0]
	for i, r := range m.rows {
		if needle == "" ||
			strings.Contains(strings.ToLower(r.current.Action), needle) ||
			strings.Contains(strings.ToLower(r.current.Keys), needle) {
			m.visible = append(m.visible, i)
		}
	}
	m.selectedIdx = min(m.selectedIdx, max(0, len(m.visible)-1))
	m.scrollOffset = 0
	m.ensureVisible()
}

func (m *Model) modified(r row) bool {
	return len(keymap.Modified([]keymap.Binding{r.current}, m.baseline)) > 0
}

// moveSelection moves the selection by delta rows.
func (m *Model) moveSelection(delta int) {
	m.selectedIdx = max(0, min(m.selectedIdx+delta, len(m.visible)-1))
	m.ensureVisible()
}

// ensureVisible adjusts scroll offset to keep selection visible.
func (m *Model) ensureVisible() {
	h := m.tableHeight()
	if m.selectedIdx < m.scrollOffset {
		m.scrollOffset = m.selectedIdx
	}
	if m.selectedIdx >= m.scrollOffset+h {
		m.scrollOffset = m.selectedIdx - h + 1
	}
}

func (m *Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

// tableHeight returns the visible table height.
func (m *Model) tableHeight() int {
	// title(1) + header(2 with bottom border) + footer(2)
	_, h := m.size()
	return max(1, h-5)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.mode == ModeHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderTitle())
	b.WriteString("\n")
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTable())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderTitle() string {
	changed := 0
	for _, r := range m.rows {
		if m.modified(r) {
			changed++
		}
	}
	title := fmt.Sprintf("Keymap %s (%d actions, %d modified)", m.keymapName, len(m.rows), changed)
	return styles.ViewTitleStyle.Render(title)
}

// columns returns the action, keys and display column widths.
func (m *Model) columns() (int, int, int) {
	w, _ := m.size()
	action := max(12, w*2/5)
	keys := max(10, w*2/5)
	display := max(4, w-action-keys-4)
	return action, keys, display
}

func (m *Model) renderHeader() string {
	aw, kw, dw := m.columns()
	header := fmt.Sprintf("  %-*s %-*s %-*s", aw, "Action", kw, "Keys", dw, "Display")
	w, _ := m.size()
	return styles.TableHeaderStyle.Width(w).Render(header)
}

func (m *Model) renderTable() string {
	if len(m.visible) == 0 {
		return styles.FooterHintStyle.Render("No matching actions")
	}

	h := m.tableHeight()
	var rows []string
	end := min(m.scrollOffset+h, len(m.visible))
	for i := m.scrollOffset; i < end; i++ {
		rows = append(rows, m.renderRow(i))
	}
	for len(rows) < h {
		rows = append(rows, "")
	}
	return strings.Join(rows, "\n")
}

func (m *Model) renderRow(idx int) string {
	r := m.rows[m.visible[idx]]
	aw, kw, dw := m.columns()

	marker := " "
	if m.modified(r) {
		marker = "*"
	}
	keys := r.current.Keys
	if keys == "" {
		keys = "-"
	}
	line := fmt.Sprintf("%s %s %s %s", marker,
		pad(r.current.Action, aw), pad(keys, kw), pad(r.current.KeyDisplay, dw))

	w, _ := m.size()
	switch {
	case idx == m.selectedIdx:
		return styles.TableSelectedStyle.Width(w).Render(line)
	case marker == "*":
		return styles.TableModifiedStyle.Render(line)
	default:
		return styles.TableCellStyle.Render(line)
	}
}

func (m *Model) renderFooter() string {
	switch m.mode {
	case ModeCapture, ModeCaptureAdd:
		verb := "bind"
		if m.mode == ModeCaptureAdd {
			verb = "add"
		}
		action := ""
		if r := m.selected(); r != nil {
			action = r.current.Action
		}
		return styles.CaptureStyle.Render(fmt.Sprintf("Press a key to %s for %s (esc cancels)", verb, action))
	case ModeEditDisplay, ModeFilter:
		return m.input.View()
	}

	w, _ := m.size()
	if m.status != "" {
		style := styles.SuccessStyle
		if m.statusError {
			style = styles.ErrorStyle
		}
		return ansi.Truncate(style.Render(m.status), w, "…")
	}

	hints := m.help.ShortHelpView(m.keys.ShortHelp())
	if m.filter != "" {
		hints = styles.FooterHintStyle.Render(fmt.Sprintf("[/%s] ", m.filter)) + hints
	}
	if n := len(m.visible); n > m.tableHeight() {
		hints += styles.FooterHintStyle.Render(fmt.Sprintf(" %d/%d", m.selectedIdx+1, n))
	}
	return ansi.Truncate(hints, w, "…")
}

func (m *Model) renderHelp() string {
	w, h := m.size()
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.HeaderStyle.Render("Key Definition Help"),
		"",
		m.help.FullHelpView(m.keys.FullHelp()),
		"",
		styles.FooterHintStyle.Render("Rows marked * differ from the "+m.keymapName+" keymap"),
	)
	return lipgloss.Place(
		w, h,
		lipgloss.Center, lipgloss.Center,
		styles.HelpDialogStyle.Render(content),
	)
}

// pad truncates or pads s to exactly width cells.
func pad(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}
