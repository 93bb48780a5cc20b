package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheEntry(t *testing.T) {
	entry := NewCacheEntry("k", json.RawMessage(`[1]`), 60)
	assert.False(t, entry.IsExpired())
	assert.LessOrEqual(t, entry.Age(), time.Second)

	entry.ExpiresAt = time.Now().Add(-time.Second)
	assert.True(t, entry.IsExpired())
}

func TestGenerateKey(t *testing.T) {
	base := KeyParams{BaseURL: "https://api.example.com/api", Username: "alice", Collection: "tasks"}

	key := GenerateKey(base)
	assert.Len(t, key, 64)

	same := KeyParams{BaseURL: " HTTPS://api.example.com/api/ ", Username: "alice", Collection: "TASKS"}
	assert.Equal(t, key, GenerateKey(same))

	tests := []struct {
		name   string
		mutate func(*KeyParams)
	}{
		{name: "user", mutate: func(p *KeyParams) { p.Username = "bob" }},
		{name: "collection", mutate: func(p *KeyParams) { p.Collection = "users" }},
		{name: "scope", mutate: func(p *KeyParams) { p.Scope = "42" }},
		{name: "backend", mutate: func(p *KeyParams) { p.BaseURL = "https://other.example.com/api" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			assert.NotEqual(t, key, GenerateKey(p))
		})
	}
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), true, 60, 10)
	require.NoError(t, err)
	require.True(t, store.IsEnabled())

	data := json.RawMessage(`{"hello":"world"}`)
	require.NoError(t, store.Set("k1", data))

	entry, err := store.Get("k1")
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(entry.Data))

	_, err = store.Get("missing")
	require.ErrorIs(t, err, ErrCacheNotFound)
	_, err = store.Get("")
	require.ErrorIs(t, err, ErrInvalidCacheKey)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	size, err := store.Size()
	require.NoError(t, err)
	assert.Positive(t, size)

	require.NoError(t, store.Delete("k1"))
	require.NoError(t, store.Delete("k1"))
	_, err = store.Get("k1")
	require.ErrorIs(t, err, ErrCacheNotFound)
}

func TestFileStore_ExpiredEntriesStayForFallback(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), true, 0, 0)
	require.NoError(t, err)
	require.NoError(t, store.Set("k", json.RawMessage(`[1,2]`)))
	time.Sleep(5 * time.Millisecond)

	_, err = store.Get("k")
	require.ErrorIs(t, err, ErrCacheExpired)

	stale, err := store.GetStale("k")
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2]`, string(stale.Data))

	removed, err := store.CleanupExpired()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	_, err = store.GetStale("k")
	require.ErrorIs(t, err, ErrCacheNotFound)
}

func TestFileStore_Clear(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, true, 60, 0)
	require.NoError(t, err)
	require.NoError(t, store.Set("a", json.RawMessage(`1`)))
	require.NoError(t, store.Set("b", json.RawMessage(`2`)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0o600))

	removed, err := store.Clear()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
}

func TestFileStore_EvictsOldestOverLimit(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), true, 60, 1)
	require.NoError(t, err)

	big := json.RawMessage(`"` + strings.Repeat("x", 600*1024) + `"`)
	require.NoError(t, store.Set("old", big))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, store.Set("new", big))

	_, err = store.GetStale("old")
	require.ErrorIs(t, err, ErrCacheNotFound)
	_, err = store.Get("new")
	require.NoError(t, err)
}

func TestFileStore_Disabled(t *testing.T) {
	store, err := NewFileStore("", false, 60, 0)
	require.NoError(t, err)
	assert.False(t, store.IsEnabled())

	require.ErrorIs(t, store.Set("k", nil), ErrCacheDisabled)
	_, err = store.Get("k")
	require.ErrorIs(t, err, ErrCacheDisabled)
	_, err = store.Clear()
	require.ErrorIs(t, err, ErrCacheDisabled)

	var nilStore *FileStore
	assert.False(t, nilStore.IsEnabled())
}

func TestKeyToFilePath_StaysInDirectory(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, true, 60, 0)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(store.keyToFilePath("../../etc/passwd")))
}

func TestSnapshotRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), true, 60, 0)
	require.NoError(t, err)

	type row struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	}
	require.NoError(t, Put(store, "rows", []row{{ID: 1, Title: "a"}}))

	got, entry, err := Lookup[[]row](store, "rows", false)
	require.NoError(t, err)
	assert.Equal(t, []row{{ID: 1, Title: "a"}}, got)
	assert.NotNil(t, entry)

	_, _, err = Lookup[[]row](store, "none", true)
	require.ErrorIs(t, err, ErrCacheNotFound)
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		age  time.Duration
		want string
	}{
		{-time.Minute, "0s"},
		{500 * time.Millisecond, "0s"},
		{30 * time.Second, "30s"},
		{5*time.Minute + 20*time.Second, "5m20s"},
		{5 * time.Minute, "5m"},
		{time.Hour, "1h"},
		{90 * time.Minute, "1h30m"},
		{time.Hour + 59*time.Second, "1h"},
		{48 * time.Hour, "2d"},
		{51*time.Hour + 10*time.Minute, "2d3h"},
	}
	for _, tt := range tests {
		t.Run(tt.age.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAge(tt.age))
		})
	}
}
