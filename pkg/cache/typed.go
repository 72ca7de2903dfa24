package cache

import (
	"encoding/json"
	"fmt"
)

// GetTyped reads a key written by PutTyped back into T. A miss, an
// expired entry, and a payload that no longer unmarshals as T all report
// a plain miss; a stale snapshot from an older build is not worth an
// error at startup.
func GetTyped[T any](s *Store, key string) (T, bool) {
	var v T
	data, ok := s.Get(key)
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// PutTyped stores value as JSON under key with the store's default TTL.
func PutTyped[T any](s *Store, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %q: %w", key, err)
	}
	return s.Put(key, data)
}
