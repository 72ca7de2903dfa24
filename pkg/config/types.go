package config

import (
	"fmt"
	"strings"
)

// Config is the root configuration for presence-pulse.
type Config struct {
	General GeneralConfig `toml:"general"`
	Lanyard LanyardConfig `toml:"lanyard"`
	Display DisplayConfig `toml:"display"`
}

// GeneralConfig holds settings that apply to the whole program.
type GeneralConfig struct {
	LogLevel string `toml:"log_level"` // debug, info, warn, error
	LogFile  string `toml:"log_file"`  // empty disables file logging
	CacheDir string `toml:"cache_dir"`
}

// LanyardConfig controls the presence poller.
type LanyardConfig struct {
	UserID       string   `toml:"user_id"`
	BaseURL      string   `toml:"base_url"`
	PollInterval Duration `toml:"poll_interval"`
	Timeout      Duration `toml:"timeout"`
}

// DisplayConfig controls rendering behavior.
type DisplayConfig struct {
	ArtEnabled  bool   `toml:"art_enabled"`
	ArtProtocol string `toml:"art_protocol"` // auto, kitty, iterm2, sixel, halfblocks
	PrefsFile   string `toml:"prefs_file"`
}

// Validate checks the configuration for values that would prevent startup.
func (c *Config) Validate() error {
	if c.Lanyard.UserID == "" {
		return fmt.Errorf("lanyard.user_id is required")
	}
	if !isSnowflake(c.Lanyard.UserID) {
		return fmt.Errorf("lanyard.user_id %q is not a Discord user ID", c.Lanyard.UserID)
	}
	if c.Lanyard.PollInterval.Duration <= 0 {
		return fmt.Errorf("lanyard.poll_interval must be positive")
	}
	switch c.General.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("general.log_level %q is not one of debug, info, warn, error", c.General.LogLevel)
	}
	switch c.Display.ArtProtocol {
	case "auto", "kitty", "iterm2", "sixel", "halfblocks":
	default:
		return fmt.Errorf("display.art_protocol %q is not a supported protocol", c.Display.ArtProtocol)
	}
	return nil
}

// isSnowflake reports whether s looks like a Discord snowflake ID.
func isSnowflake(s string) bool {
	if len(s) < 15 || len(s) > 22 {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) == -1
}
