// Package config loads presence-pulse settings from a TOML file, with a
// few environment variables layered on top.
package config

import (
	"fmt"
	"time"
)

// Duration lets TOML fields carry values like "15s" or "2m" and decode
// straight into a time.Duration.
type Duration struct {
	time.Duration
}

// UnmarshalText decodes a Go duration string. Empty text means zero;
// negative values are rejected.
func (d *Duration) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		d.Duration = 0
		return nil
	}
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("config: bad duration %q: %w", text, err)
	}
	if v < 0 {
		return fmt.Errorf("config: duration %q must not be negative", text)
	}
	d.Duration = v
	return nil
}

// MarshalText renders the duration back to its string form.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}
