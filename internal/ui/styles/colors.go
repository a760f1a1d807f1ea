// Package styles provides centralized Lipgloss styling for the sqlide screens.
package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	// UI element colors
	ColorBorder  = lipgloss.Color("240") // Gray - all borders
	ColorAccent  = lipgloss.Color("6")   // Cyan - titles, highlights
	ColorText    = lipgloss.Color("252") // Light gray - regular text
	ColorMuted   = lipgloss.Color("8")   // Dark gray - secondary text
	ColorSuccess = lipgloss.Color("10")  // Green - success messages
	ColorError   = lipgloss.Color("9")   // Red - error messages

	// Binding state colors
	ColorModified = lipgloss.Color("11")  // Yellow - differs from the baseline keymap
	ColorCapture  = lipgloss.Color("208") // Orange - waiting for a key press

	// Selection colors
	ColorSelectedFg = lipgloss.Color("229") // Light yellow text
	ColorSelectedBg = lipgloss.Color("57")  // Purple background
)
