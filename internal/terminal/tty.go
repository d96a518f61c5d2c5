package terminal

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal checks if f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Size returns the terminal width and height of f, or 80x24 when unknown
func Size(f *os.File) (width, height int) {
	w, h, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24 // defaults
	}
	return w, h
}
