package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// KeyParams identifies one cached collection.
type KeyParams struct {
	// BaseURL keeps snapshots of different backends apart.
	BaseURL string
	// Username keeps snapshots of different users apart.
	Username string
	// Collection names the fetched collection, e.g. "tasks" or "comments".
	Collection string
	// Scope narrows the collection, e.g. a task id for comments.
	Scope string
}

// GenerateKey returns the SHA256 hex digest of p. Case and surrounding
// whitespace of BaseURL and Collection do not matter.
func GenerateKey(p KeyParams) string {
	parts := []string{
		strings.ToLower(strings.TrimRight(strings.TrimSpace(p.BaseURL), "/")),
		strings.TrimSpace(p.Username),
		strings.ToLower(strings.TrimSpace(p.Collection)),
		strings.TrimSpace(p.Scope),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}
