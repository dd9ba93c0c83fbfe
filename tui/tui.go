// Package tui holds the terminal dashboard and its supporting theme and
// keymap packages.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// InitializeTUI forces a truecolor profile when CLICOLOR_FORCE=1 or
// COLORTERM=truecolor, so styled output survives non-interactive runs.
// Call it before starting a program.
func InitializeTUI() {
	if os.Getenv("CLICOLOR_FORCE") == "1" || os.Getenv("COLORTERM") == "truecolor" {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}
