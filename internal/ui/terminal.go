// Package ui renders gateway envelopes and repair reports for human
// consumption and prompts for interactive confirmation, grounded on
// the deleted internal/ui package's terminal/color/table/prompt
// helpers.
package ui

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether stdout is connected to a TTY.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ColorProfile reports the color capability termenv detects for
// stdout (TrueColor, ANSI256, ANSI, or Ascii for no color support at
// all), honoring the same COLORTERM/TERM detection termenv uses
// everywhere else in the ecosystem rather than a hand-rolled guess.
func ColorProfile() termenv.Profile {
	return termenv.EnvColorProfile()
}

// ShouldUseColor follows the same conventions as the deleted
// internal/ui/terminal.go: NO_COLOR disables, FORCE_COLOR forces,
// otherwise falls back to TTY detection and the terminal's actual
// color profile (a TTY that only speaks Ascii, e.g. over a dumb serial
// console, still shouldn't get escape codes).
func ShouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	return IsTerminal() && ColorProfile() != termenv.Ascii
}

// GetWidth returns the terminal width, or 80 if it cannot be
// determined (piped output, non-TTY).
func GetWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
