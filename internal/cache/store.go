package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/natefinch/atomic"
)

const (
	cacheFileExtension = ".json"
	bytesPerMB         = 1 << 20
)

// Common cache errors.
var (
	ErrCacheNotFound   = errors.New("cache entry not found")
	ErrCacheExpired    = errors.New("cache entry expired")
	ErrInvalidCacheKey = errors.New("cache key cannot be empty")
	ErrCacheDisabled   = errors.New("cache is disabled")
)

// FileStore stores CacheEntry values as JSON files in one directory. It is
// safe for concurrent use.
type FileStore struct {
	directory  string
	enabled    bool
	ttlSeconds int
	maxSizeMB  int

	mu sync.RWMutex
}

// NewFileStore creates the store, creating directory when enabled. A
// disabled store answers every call with ErrCacheDisabled.
func NewFileStore(directory string, enabled bool, ttlSeconds, maxSizeMB int) (*FileStore, error) {
	if !enabled {
		return &FileStore{}, nil
	}
	if directory == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if err := os.MkdirAll(directory, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileStore{
		directory:  directory,
		enabled:    true,
		ttlSeconds: ttlSeconds,
		maxSizeMB:  maxSizeMB,
	}, nil
}

// Get returns a fresh entry. An expired entry yields ErrCacheExpired and
// stays on disk for GetStale.
func (s *FileStore) Get(key string) (*CacheEntry, error) {
	entry, err := s.GetStale(key)
	if err != nil {
		return nil, err
	}
	if entry.IsExpired() {
		return nil, ErrCacheExpired
	}
	return entry, nil
}

// GetStale returns the entry regardless of age.
func (s *FileStore) GetStale(key string) (*CacheEntry, error) {
	if !s.IsEnabled() {
		return nil, ErrCacheDisabled
	}
	if key == "" {
		return nil, ErrInvalidCacheKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.keyToFilePath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrCacheNotFound
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var entry CacheEntry
	if err = json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}
	return &entry, nil
}

// Set writes data under key, then evicts the oldest entries while the
// store exceeds its size limit.
func (s *FileStore) Set(key string, data json.RawMessage) error {
	if !s.IsEnabled() {
		return ErrCacheDisabled
	}
	if key == "" {
		return ErrInvalidCacheKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entryData, err := json.MarshalIndent(NewCacheEntry(key, data, s.ttlSeconds), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	path := s.keyToFilePath(key)
	if err = atomic.WriteFile(path, bytes.NewReader(entryData)); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	_ = os.Chmod(path, 0o600)

	return s.enforceSizeLocked()
}

// Delete removes key. Missing entries are not an error.
func (s *FileStore) Delete(key string) error {
	if !s.IsEnabled() {
		return ErrCacheDisabled
	}
	if key == "" {
		return ErrInvalidCacheKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.keyToFilePath(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}
	return nil
}

// Clear removes every entry and returns how many were removed.
func (s *FileStore) Clear() (int, error) {
	if !s.IsEnabled() {
		return 0, ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.filesLocked()
	if err != nil {
		return 0, err
	}
	for i, f := range files {
		if err = os.Remove(f.path); err != nil {
			return i, fmt.Errorf("failed to remove cache file %s: %w", filepath.Base(f.path), err)
		}
	}
	return len(files), nil
}

// CleanupExpired removes expired entries and returns how many were
// removed.
func (s *FileStore) CleanupExpired() (int, error) {
	if !s.IsEnabled() {
		return 0, ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.filesLocked()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, f := range files {
		data, readErr := os.ReadFile(f.path)
		if readErr != nil {
			continue
		}
		var entry CacheEntry
		if json.Unmarshal(data, &entry) != nil {
			continue
		}
		if entry.IsExpired() && os.Remove(f.path) == nil {
			removed++
		}
	}
	return removed, nil
}

// Size returns the total size of the entries in bytes.
func (s *FileStore) Size() (int64, error) {
	if !s.IsEnabled() {
		return 0, ErrCacheDisabled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.filesLocked()
	if err != nil {
		return 0, err
	}
	var total int64
	for _, f := range files {
		total += f.size
	}
	return total, nil
}

// Count returns the number of entries, expired ones included.
func (s *FileStore) Count() (int, error) {
	if !s.IsEnabled() {
		return 0, ErrCacheDisabled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.filesLocked()
	return len(files), err
}

// IsEnabled reports whether the store caches anything.
func (s *FileStore) IsEnabled() bool {
	return s != nil && s.enabled
}

// GetDirectory returns the cache directory.
func (s *FileStore) GetDirectory() string {
	return s.directory
}

// GetTTL returns the TTL of new entries in seconds.
func (s *FileStore) GetTTL() int {
	return s.ttlSeconds
}

type cacheFile struct {
	path    string
	size    int64
	modTime time.Time
}

func (s *FileStore) filesLocked() ([]cacheFile, error) {
	dirEntries, err := os.ReadDir(s.directory)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}
	var out []cacheFile
	for _, d := range dirEntries {
		if d.IsDir() || filepath.Ext(d.Name()) != cacheFileExtension {
			continue
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			continue
		}
		out = append(out, cacheFile{
			path:    filepath.Join(s.directory, d.Name()),
			size:    info.Size(),
			modTime: info.ModTime(),
		})
	}
	return out, nil
}

// enforceSizeLocked evicts the least recently written entries until the
// store fits in maxSizeMB. Zero means unlimited.
func (s *FileStore) enforceSizeLocked() error {
	if s.maxSizeMB <= 0 {
		return nil
	}
	files, err := s.filesLocked()
	if err != nil {
		return err
	}
	limit := int64(s.maxSizeMB) * bytesPerMB
	var total int64
	for _, f := range files {
		total += f.size
	}
	slices.SortFunc(files, func(a, b cacheFile) int { return a.modTime.Compare(b.modTime) })
	for _, f := range files {
		if total <= limit {
			break
		}
		if os.Remove(f.path) == nil {
			total -= f.size
		}
	}
	return nil
}

// keyToFilePath maps a key to its file. Keys are hex digests, but
// separators are replaced anyway.
func (s *FileStore) keyToFilePath(key string) string {
	safe := filepath.Base(filepath.Clean("/" + key))
	return filepath.Join(s.directory, safe+cacheFileExtension)
}
