package tui

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Fallback dimensions when the writer is not a terminal.
const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Size returns the terminal size of w, or the defaults when it cannot be read.
func Size(w io.Writer) (width, height int) {
	if f, ok := w.(*os.File); ok {
		if cols, rows, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 && rows > 0 {
			return cols, rows
		}
	}
	return DefaultWidth, DefaultHeight
}
