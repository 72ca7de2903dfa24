// Package terminal answers the one question the album art renderer asks:
// which graphics protocol can the current emulator draw. Detection is
// environment-only, so it costs nothing and works before bubbletea takes
// over the tty. It also exposes the terminal size query used to fit the
// one-shot card to the window.
package terminal

import (
	"os"
	"strings"
)

// Terminal identifies the emulators that matter for protocol selection.
// Anything without a native graphics protocol is TermGeneric and gets
// the half-block fallback.
type Terminal int

const (
	TermUnknown Terminal = iota
	TermGhostty
	TermKitty
	TermWezTerm
	TermITerm2
	TermGeneric
)

var terminalNames = map[Terminal]string{
	TermUnknown: "unknown",
	TermGhostty: "ghostty",
	TermKitty:   "kitty",
	TermWezTerm: "wezterm",
	TermITerm2:  "iterm2",
	TermGeneric: "generic",
}

func (t Terminal) String() string {
	if name, ok := terminalNames[t]; ok {
		return name
	}
	return "unknown"
}

// Detect identifies the emulator from its environment. TERM_PROGRAM is
// the most reliable single signal; TERM and the emulator session
// variables cover terminals that do not set it, and LC_TERMINAL covers
// iTerm2 reached over SSH.
func Detect() Terminal {
	switch strings.ToLower(os.Getenv("TERM_PROGRAM")) {
	case "ghostty":
		return TermGhostty
	case "kitty":
		return TermKitty
	case "wezterm":
		return TermWezTerm
	case "iterm.app":
		return TermITerm2
	}

	switch os.Getenv("TERM") {
	case "xterm-ghostty":
		return TermGhostty
	case "xterm-kitty":
		return TermKitty
	}

	switch {
	case os.Getenv("KITTY_WINDOW_ID") != "":
		return TermKitty
	case os.Getenv("WEZTERM_EXECUTABLE") != "":
		return TermWezTerm
	case os.Getenv("ITERM_SESSION_ID") != "",
		os.Getenv("LC_TERMINAL") == "iTerm2":
		return TermITerm2
	}

	return TermGeneric
}
