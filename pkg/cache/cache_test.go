package cache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T, cfg StoreConfig) *Store {
	t.Helper()
	if cfg.Dir == "" {
		cfg.Dir = t.TempDir()
	}
	s, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := newTestStore(t, StoreConfig{})

	want := []byte("album art bytes")
	if err := s.Put("art:https://i.scdn.co/image/abc", want); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	got, ok := s.Get("art:https://i.scdn.co/image/abc")
	if !ok {
		t.Fatal("Get() miss after Put")
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Get() = %q, want %q", got, want)
	}
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t, StoreConfig{})
	if _, ok := s.Get("never-stored"); ok {
		t.Error("Get() hit for missing key")
	}
}

func TestPutOverwrite(t *testing.T) {
	s := newTestStore(t, StoreConfig{})
	if err := s.Put("k", []byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := s.Put("k", []byte("second")); err != nil {
		t.Fatal(err)
	}
	got, ok := s.Get("k")
	if !ok || string(got) != "second" {
		t.Errorf("Get() after overwrite = %q, %v", got, ok)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestTTLExpiry(t *testing.T) {
	s := newTestStore(t, StoreConfig{})
	if err := s.PutWithTTL("ephemeral", []byte("x"), 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if !s.Has("ephemeral") {
		t.Fatal("entry should exist before TTL")
	}

	time.Sleep(25 * time.Millisecond)

	if s.Has("ephemeral") {
		t.Error("Has() true after TTL")
	}
	if _, ok := s.Get("ephemeral"); ok {
		t.Error("Get() hit after TTL")
	}
}

func TestZeroTTLNeverExpires(t *testing.T) {
	s := newTestStore(t, StoreConfig{})
	if err := s.PutWithTTL("pinned", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	time.Sleep(15 * time.Millisecond)
	if !s.Has("pinned") {
		t.Error("zero-TTL entry expired")
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t, StoreConfig{})
	if err := s.Put("k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	s.Delete("k")
	if s.Has("k") {
		t.Error("entry still present after Delete")
	}
	// Deleting a missing key is a no-op.
	s.Delete("missing")
}

func TestClear(t *testing.T) {
	s := newTestStore(t, StoreConfig{})
	for _, k := range []string{"a", "b", "c"} {
		if err := s.Put(k, []byte(k)); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if s.Len() != 0 || s.Size() != 0 {
		t.Errorf("after Clear: Len=%d Size=%d", s.Len(), s.Size())
	}
}

func TestPersistAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s1 := newTestStore(t, StoreConfig{Dir: dir})
	if err := s1.Put("snapshot", []byte(`{"discord_status":"online"}`)); err != nil {
		t.Fatal(err)
	}

	s2 := newTestStore(t, StoreConfig{Dir: dir})
	got, ok := s2.Get("snapshot")
	if !ok {
		t.Fatal("entry lost across reopen")
	}
	if string(got) != `{"discord_status":"online"}` {
		t.Errorf("Get() = %q", got)
	}
}

func TestReopenDropsExpired(t *testing.T) {
	dir := t.TempDir()

	s1 := newTestStore(t, StoreConfig{Dir: dir})
	if err := s1.PutWithTTL("stale", []byte("x"), 5*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(15 * time.Millisecond)

	s2 := newTestStore(t, StoreConfig{Dir: dir})
	if s2.Has("stale") {
		t.Error("expired entry survived reopen")
	}
	if s2.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s2.Len())
	}
}

func TestReopenDropsOrphanedMeta(t *testing.T) {
	dir := t.TempDir()

	s1 := newTestStore(t, StoreConfig{Dir: dir})
	if err := s1.Put("k", []byte("v")); err != nil {
		t.Fatal(err)
	}

	// Remove the data file, leaving the meta orphaned.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".cache" {
			os.Remove(filepath.Join(dir, e.Name()))
		}
	}

	s2 := newTestStore(t, StoreConfig{Dir: dir})
	if s2.Len() != 0 {
		t.Errorf("orphaned meta survived scan: Len=%d", s2.Len())
	}
}

func TestSizeTracking(t *testing.T) {
	s := newTestStore(t, StoreConfig{})
	if err := s.Put("a", make([]byte, 100)); err != nil {
		t.Fatal(err)
	}
	if err := s.Put("b", make([]byte, 50)); err != nil {
		t.Fatal(err)
	}
	if s.Size() != 150 {
		t.Errorf("Size() = %d, want 150", s.Size())
	}
	s.Delete("a")
	if s.Size() != 50 {
		t.Errorf("Size() after delete = %d, want 50", s.Size())
	}
}

func TestEvictionOldestFirst(t *testing.T) {
	// 1 MB cap; three ~600 KB entries cannot all fit.
	s := newTestStore(t, StoreConfig{MaxSizeMB: 1})
	payload := make([]byte, 600*1024)

	if err := s.Put("oldest", payload); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if err := s.Put("middle", payload); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if err := s.Put("newest", payload); err != nil {
		t.Fatal(err)
	}

	if s.Has("oldest") {
		t.Error("oldest entry should have been evicted")
	}
	if !s.Has("newest") {
		t.Error("newest entry should survive eviction")
	}
	if s.Size() > s.sizeCap() {
		t.Errorf("Size() = %d exceeds cap %d", s.Size(), s.sizeCap())
	}
}

func TestHashKeyFilesystemSafe(t *testing.T) {
	h := hashKey("art:https://i.scdn.co/image/ab12?size=128")
	if len(h) != 16 {
		t.Errorf("hashKey length = %d, want 16", len(h))
	}
	for _, r := range h {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f')) {
			t.Errorf("hashKey produced non-hex char %q", string(r))
		}
	}
	if hashKey("a") == hashKey("b") {
		t.Error("distinct keys hashed identically")
	}
}

type snapshotPayload struct {
	Status string `json:"status"`
	Song   string `json:"song"`
}

func TestTypedRoundTrip(t *testing.T) {
	s := newTestStore(t, StoreConfig{})

	want := snapshotPayload{Status: "online", Song: "Resonance"}
	if err := PutTyped(s, "last-presence", want); err != nil {
		t.Fatalf("PutTyped() error: %v", err)
	}

	got, ok := GetTyped[snapshotPayload](s, "last-presence")
	if !ok {
		t.Fatal("GetTyped() miss")
	}
	if got != want {
		t.Errorf("GetTyped() = %+v, want %+v", got, want)
	}
}

func TestTypedWrongShape(t *testing.T) {
	s := newTestStore(t, StoreConfig{})
	if err := s.Put("not-json", []byte("plain text")); err != nil {
		t.Fatal(err)
	}
	if _, ok := GetTyped[snapshotPayload](s, "not-json"); ok {
		t.Error("GetTyped() accepted non-JSON payload")
	}
}

func TestTypedHonorsStoreTTL(t *testing.T) {
	s := newTestStore(t, StoreConfig{DefaultTTL: 10 * time.Millisecond})
	if err := PutTyped(s, "k", snapshotPayload{Status: "idle"}); err != nil {
		t.Fatal(err)
	}
	time.Sleep(25 * time.Millisecond)
	if _, ok := GetTyped[snapshotPayload](s, "k"); ok {
		t.Error("typed entry survived TTL")
	}
}
