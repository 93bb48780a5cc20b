package cache

import (
	"encoding/json"
	"fmt"
)

// Put stores v as the snapshot under key.
func Put[T any](s *FileStore, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return s.Set(key, data)
}

// Lookup decodes the snapshot under key. With allowStale, expired entries
// are returned too; the entry tells the caller how old the data is.
func Lookup[T any](s *FileStore, key string, allowStale bool) (T, *CacheEntry, error) {
	var zero T
	var (
		entry *CacheEntry
		err   error
	)
	if allowStale {
		entry, err = s.GetStale(key)
	} else {
		entry, err = s.Get(key)
	}
	if err != nil {
		return zero, nil, err
	}
	var v T
	if err = json.Unmarshal(entry.Data, &v); err != nil {
		return zero, nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return v, entry, nil
}
