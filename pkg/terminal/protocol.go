package terminal

import (
	"os"
	"strings"
)

// GraphicsProtocol identifies how album art gets encoded for the terminal.
type GraphicsProtocol int

const (
	ProtocolNone GraphicsProtocol = iota
	ProtocolKitty
	ProtocolITerm2
	ProtocolSixel
	ProtocolHalfblocks
)

var protocolNames = map[GraphicsProtocol]string{
	ProtocolNone:       "none",
	ProtocolKitty:      "kitty",
	ProtocolITerm2:     "iterm2",
	ProtocolSixel:      "sixel",
	ProtocolHalfblocks: "halfblocks",
}

func (p GraphicsProtocol) String() string {
	if name, ok := protocolNames[p]; ok {
		return name
	}
	return "unknown"
}

// SelectProtocol picks the best protocol for a terminal: the kitty
// protocol for Ghostty, Kitty, and WezTerm, inline images for iTerm2,
// half-blocks everywhere else. SSH sessions always get half-blocks;
// graphics passthrough over SSH is too unreliable to trust silently.
func SelectProtocol(term Terminal) GraphicsProtocol {
	if isSSH() {
		return ProtocolHalfblocks
	}
	switch term {
	case TermGhostty, TermKitty, TermWezTerm:
		return ProtocolKitty
	case TermITerm2:
		return ProtocolITerm2
	default:
		return ProtocolHalfblocks
	}
}

// SelectProtocolWithOverride forces the protocol named by the config
// value, falling back to detection when the override is empty or not a
// protocol name.
func SelectProtocolWithOverride(term Terminal, override string) GraphicsProtocol {
	switch strings.ToLower(override) {
	case "kitty":
		return ProtocolKitty
	case "iterm2":
		return ProtocolITerm2
	case "sixel":
		return ProtocolSixel
	case "halfblocks", "unicode":
		return ProtocolHalfblocks
	case "none", "off":
		return ProtocolNone
	default:
		return SelectProtocol(term)
	}
}

func isSSH() bool {
	return os.Getenv("SSH_TTY") != "" ||
		os.Getenv("SSH_CONNECTION") != "" ||
		os.Getenv("SSH_CLIENT") != ""
}
