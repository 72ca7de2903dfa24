// Package cache provides a small disk-backed key-value store with TTL
// expiry. presence-pulse uses it to keep the last presence snapshot for
// instant startup rendering and to avoid re-downloading album art.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// StoreConfig configures a Store.
type StoreConfig struct {
	// Dir is where entries live on disk.
	Dir string

	// MaxSizeMB caps the total data size; 50 when unset.
	MaxSizeMB int

	// DefaultTTL applies to entries written with Put. Zero keeps them
	// until size eviction or Delete.
	DefaultTTL time.Duration
}

// entryMeta is persisted next to each data file so the index survives
// restarts.
type entryMeta struct {
	Key       string `json:"key"`
	CreatedNS int64  `json:"created"`
	TTLNS     int64  `json:"ttl_ns"`
	Size      int64  `json:"size"`
}

// Store is a disk-backed key-value cache with TTL expiry. Each entry is
// a pair of files, {hash}.cache for the data and {hash}.meta for the
// index record. Writes land via temp-file-then-rename, so a concurrent
// reader never observes a torn entry. Expired entries are dropped on
// open and lazily on Get; past the size cap the oldest go first.
type Store struct {
	cfg StoreConfig

	mu      sync.Mutex
	curSize int64
	metas   map[string]entryMeta // hash -> meta
}

// NewStore opens a Store, creating the directory if needed and sweeping
// whatever expired or orphaned entries a previous run left behind.
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 50
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}

	s := &Store{
		cfg:   cfg,
		metas: make(map[string]entryMeta),
	}
	if err := s.scanDir(); err != nil {
		return nil, fmt.Errorf("cache: rebuild index: %w", err)
	}
	return s, nil
}

// Get retrieves the raw bytes for key. Returns (nil, false) if the key
// is missing or expired; an expired entry is removed on the way out.
func (s *Store) Get(key string) ([]byte, bool) {
	h := hashKey(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	meta, ok := s.metas[h]
	if !ok {
		return nil, false
	}
	if isExpired(meta) {
		s.remove(h)
		return nil, false
	}

	data, err := os.ReadFile(s.dataPath(h))
	if err != nil {
		s.remove(h)
		return nil, false
	}
	return data, true
}

// Put stores value under key, expiring per the store's DefaultTTL.
func (s *Store) Put(key string, value []byte) error {
	return s.PutWithTTL(key, value, s.cfg.DefaultTTL)
}

// PutWithTTL stores value under key with a custom TTL. A TTL of 0 means
// the entry never expires by time, only by size eviction or Delete.
func (s *Store) PutWithTTL(key string, value []byte, ttl time.Duration) error {
	h := hashKey(key)

	meta := entryMeta{
		Key:       key,
		CreatedNS: time.Now().UnixNano(),
		TTLNS:     int64(ttl),
		Size:      int64(len(value)),
	}
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("cache: encode index record for %q: %w", key, err)
	}

	if err := atomicWrite(s.cfg.Dir, s.dataPath(h), value); err != nil {
		return fmt.Errorf("cache: store %q: %w", key, err)
	}
	if err := atomicWrite(s.cfg.Dir, s.metaPath(h), metaBytes); err != nil {
		_ = os.Remove(s.dataPath(h))
		return fmt.Errorf("cache: store index record for %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.metas[h]; ok {
		s.curSize -= old.Size
	}
	s.metas[h] = meta
	s.curSize += meta.Size

	s.evict()
	return nil
}

// Delete removes a specific entry from the cache.
func (s *Store) Delete(key string) {
	h := hashKey(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.metas[h]; ok {
		s.remove(h)
	}
}

// Has reports whether key exists and is not expired.
func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	meta, ok := s.metas[hashKey(key)]
	return ok && !isExpired(meta)
}

// Clear wipes every entry, leftover temp files included.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("cache: clear: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := filepath.Ext(name)
		if ext == ".cache" || ext == ".meta" || strings.HasPrefix(name, ".tmp-") {
			_ = os.Remove(filepath.Join(s.cfg.Dir, name))
		}
	}

	s.metas = make(map[string]entryMeta)
	s.curSize = 0
	return nil
}

// Size is the total bytes of cached data currently indexed.
func (s *Store) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.curSize
}

// Len returns the number of entries currently indexed.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.metas)
}

// --- internal helpers ---

// hashKey maps an arbitrary key (art URLs included) to a short
// filesystem-safe name: the first 8 bytes of its SHA-256, hex encoded.
func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}

func (s *Store) dataPath(hash string) string {
	return filepath.Join(s.cfg.Dir, hash+".cache")
}

func (s *Store) metaPath(hash string) string {
	return filepath.Join(s.cfg.Dir, hash+".meta")
}

func (s *Store) sizeCap() int64 {
	return int64(s.cfg.MaxSizeMB) << 20
}

func isExpired(m entryMeta) bool {
	return m.TTLNS > 0 && time.Now().UnixNano()-m.CreatedNS > m.TTLNS
}

// remove drops an entry from the index and deletes its files.
func (s *Store) remove(hash string) {
	if meta, ok := s.metas[hash]; ok {
		s.curSize -= meta.Size
		delete(s.metas, hash)
	}
	s.dropFiles(hash)
}

func (s *Store) dropFiles(hash string) {
	_ = os.Remove(s.dataPath(hash))
	_ = os.Remove(s.metaPath(hash))
}

// evict removes entries until curSize fits the cap: expired entries
// first, then oldest by creation time.
func (s *Store) evict() {
	limit := s.sizeCap()
	if s.curSize <= limit {
		return
	}

	var hashes []string
	for h, meta := range s.metas {
		if isExpired(meta) {
			s.remove(h)
			continue
		}
		hashes = append(hashes, h)
	}

	sort.Slice(hashes, func(i, j int) bool {
		return s.metas[hashes[i]].CreatedNS < s.metas[hashes[j]].CreatedNS
	})
	for _, h := range hashes {
		if s.curSize <= limit {
			return
		}
		s.remove(h)
	}
}

// scanDir rebuilds the index from the .meta files a previous run wrote,
// discarding anything unreadable, orphaned, or already expired.
func (s *Store) scanDir() error {
	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".meta" {
			continue
		}
		hash := strings.TrimSuffix(e.Name(), ".meta")
		meta, ok := s.loadMeta(hash)
		if !ok {
			s.dropFiles(hash)
			continue
		}
		s.metas[hash] = meta
		s.curSize += meta.Size
	}
	return nil
}

// loadMeta reads one persisted index record. Reports false when the
// record is corrupt, its data file is gone, or the entry expired.
func (s *Store) loadMeta(hash string) (entryMeta, bool) {
	var meta entryMeta
	if _, err := os.Stat(s.dataPath(hash)); err != nil {
		return meta, false
	}
	raw, err := os.ReadFile(s.metaPath(hash))
	if err != nil || json.Unmarshal(raw, &meta) != nil {
		return meta, false
	}
	return meta, !isExpired(meta)
}

// atomicWrite lands data at path via rename so a reader never observes
// a partial file.
func atomicWrite(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
