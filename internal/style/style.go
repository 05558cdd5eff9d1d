// Package style provides the shared lipgloss styles for esc terminal output.
package style

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Color palette (Ayu theme).
var (
	ColorAccent = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"} // Blue
	ColorPass   = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#aad94c"} // Green
	ColorWarn   = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"} // Yellow
	ColorFail   = lipgloss.AdaptiveColor{Light: "#e65050", Dark: "#f07178"} // Red
	ColorMuted  = lipgloss.AdaptiveColor{Light: "#8a9199", Dark: "#565b66"} // Gray
)

// Base styles used across command output.
var (
	Bold    = lipgloss.NewStyle().Bold(true)
	Dim     = lipgloss.NewStyle().Foreground(ColorMuted)
	Success = lipgloss.NewStyle().Foreground(ColorPass)
	Warning = lipgloss.NewStyle().Foreground(ColorWarn)
	Error   = lipgloss.NewStyle().Foreground(ColorFail)
	Info    = lipgloss.NewStyle().Foreground(ColorAccent)
)

// Prefixes for status lines.
var (
	SuccessPrefix = Success.Render("✓")
	WarningPrefix = Warning.Render("⚠")
	ErrorPrefix   = Error.Render("✗")
	ArrowPrefix   = Info.Render("→")
)

// PrintWarning prints a formatted warning line to stderr.
func PrintWarning(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", WarningPrefix, fmt.Sprintf(format, args...))
}

// Width returns a style constrained to the given width.
func Width(w int) lipgloss.Style {
	return lipgloss.NewStyle().Width(w)
}
