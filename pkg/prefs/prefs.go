// Package prefs persists small display preferences across runs.
// Preferences live in a YAML file separate from the main config so the
// program can rewrite them when the user toggles settings at runtime
// without clobbering hand-edited configuration.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Preferences holds the runtime-togglable display settings.
type Preferences struct {
	CursorEnabled    bool
	AnimationEnabled bool
}

// DefaultPreferences returns the out-of-the-box settings: everything on.
func DefaultPreferences() Preferences {
	return Preferences{
		CursorEnabled:    true,
		AnimationEnabled: true,
	}
}

// prefsFile is the on-disk shape. Pointer fields distinguish an absent
// key from an explicit false, so a file that only sets one preference
// leaves the other at its default.
type prefsFile struct {
	CursorEnabled    *bool `yaml:"cursor_enabled,omitempty"`
	AnimationEnabled *bool `yaml:"animation_enabled,omitempty"`
}

// Store loads and saves preferences at a fixed path.
type Store struct {
	path string
}

// NewStore creates a Store for the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads preferences from disk. A missing file is not an error and
// yields the defaults; a corrupt file is reported so the caller can
// decide whether to fall back.
func (s *Store) Load() (Preferences, error) {
	p := DefaultPreferences()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return p, nil
		}
		return p, fmt.Errorf("reading preferences: %w", err)
	}

	var f prefsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return p, fmt.Errorf("parsing preferences %s: %w", s.path, err)
	}

	if f.CursorEnabled != nil {
		p.CursorEnabled = *f.CursorEnabled
	}
	if f.AnimationEnabled != nil {
		p.AnimationEnabled = *f.AnimationEnabled
	}
	return p, nil
}

// Save writes preferences to disk, creating parent directories as
// needed. The write goes through a temp file and rename so a crash
// mid-write never leaves a truncated file behind.
func (s *Store) Save(p Preferences) error {
	f := prefsFile{
		CursorEnabled:    &p.CursorEnabled,
		AnimationEnabled: &p.AnimationEnabled,
	}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating preferences dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp preferences file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing preferences file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing preferences file: %w", err)
	}
	return nil
}
