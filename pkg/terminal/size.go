package terminal

import (
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

// Size is the terminal window size in character cells.
type Size struct {
	Cols int
	Rows int
}

// GetSize queries the window size via TIOCGWINSZ on stdout, then stderr
// in case stdout is a pipe. When neither is a tty it falls back to the
// COLUMNS and LINES variables, then to 80x24.
func GetSize() Size {
	for _, f := range []*os.File{os.Stdout, os.Stderr} {
		ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
		if err == nil && ws.Col > 0 && ws.Row > 0 {
			return Size{Cols: int(ws.Col), Rows: int(ws.Row)}
		}
	}
	return Size{
		Cols: envDim("COLUMNS", 80),
		Rows: envDim("LINES", 24),
	}
}

// envDim reads a positive integer dimension from the environment.
func envDim(name string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(name))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
