package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileDefaults(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "prefs.yaml"))
	p, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !p.CursorEnabled || !p.AnimationEnabled {
		t.Errorf("defaults should be all-on, got %+v", p)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "prefs.yaml"))

	want := Preferences{CursorEnabled: false, AnimationEnabled: true}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != want {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestLoadPartialFileKeepsOtherDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, []byte("cursor_enabled: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if p.CursorEnabled {
		t.Error("cursor_enabled: false not applied")
	}
	if !p.AnimationEnabled {
		t.Error("absent animation_enabled should stay at default true")
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, []byte("cursor_enabled: [oops\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := NewStore(path).Load()
	if err == nil {
		t.Fatal("expected error for corrupt file")
	}
	// Defaults still come back so the caller can keep running.
	if !p.CursorEnabled || !p.AnimationEnabled {
		t.Errorf("expected defaults alongside error, got %+v", p)
	}
}

func TestSaveCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "prefs.yaml")
	if err := NewStore(path).Save(DefaultPreferences()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("preferences file not created: %v", err)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "prefs.yaml"))
	if err := s.Save(Preferences{CursorEnabled: true, AnimationEnabled: true}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(Preferences{CursorEnabled: false, AnimationEnabled: false}); err != nil {
		t.Fatal(err)
	}

	p, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if p.CursorEnabled || p.AnimationEnabled {
		t.Errorf("second save not applied: %+v", p)
	}
}

func TestSaveExplicitFalseSurvives(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "prefs.yaml"))
	if err := s.Save(Preferences{CursorEnabled: false, AnimationEnabled: false}); err != nil {
		t.Fatal(err)
	}
	p, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if p.CursorEnabled || p.AnimationEnabled {
		t.Errorf("explicit false lost on reload: %+v", p)
	}
}
