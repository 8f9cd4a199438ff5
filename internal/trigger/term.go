package trigger

import "golang.org/x/term"

// TerminalWidth returns the column count of the terminal on fd, or fallback
// when fd is not a terminal.
func TerminalWidth(fd int, fallback int) int {
	if !term.IsTerminal(fd) {
		return fallback
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}
