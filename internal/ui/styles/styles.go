package styles

import "github.com/charmbracelet/lipgloss"

// Common border styles
var (
	// BorderNormal is the standard border for most UI elements
	BorderNormal = lipgloss.NormalBorder()

	// BorderRounded is used for dialogs
	BorderRounded = lipgloss.RoundedBorder()
)

// Title styles
var (
	// ViewTitleStyle is for the screen title
	ViewTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	// HeaderStyle is for help section headers
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Underline(true)
)

// Table styles
var (
	// TableHeaderStyle is for table column headers
	TableHeaderStyle = lipgloss.NewStyle().
				BorderStyle(BorderNormal).
				BorderForeground(ColorBorder).
				BorderBottom(true).
				Bold(true)

	// TableSelectedStyle is for the selected row
	TableSelectedStyle = lipgloss.NewStyle().
				Foreground(ColorSelectedFg).
				Background(ColorSelectedBg)

	// TableModifiedStyle marks rows that differ from the baseline keymap
	TableModifiedStyle = lipgloss.NewStyle().
				Foreground(ColorModified)

	// TableCellStyle is the default row style
	TableCellStyle = lipgloss.NewStyle().
			Foreground(ColorText)
)

// Footer styles
var (
	// FooterHintStyle is for keyboard hints
	FooterHintStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// CaptureStyle is the prompt shown while waiting for a key press
	CaptureStyle = lipgloss.NewStyle().
			Foreground(ColorCapture).
			Bold(true)

	// ErrorStyle is for error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	// SuccessStyle is for confirmations
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)
)

// Dialog styles
var (
	// HelpDialogStyle wraps the help overlay
	HelpDialogStyle = lipgloss.NewStyle().
			Border(BorderRounded).
			BorderForeground(ColorAccent).
			Padding(1, 2)
)
