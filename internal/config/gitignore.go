package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// projectIgnores are the entries of a project directory that stay out of
// version control. config.yaml is shared with the team; snapshots and logs
// are per user.
//
//nolint:gochecknoglobals // Lookup table.
var projectIgnores = []string{"cache/", "logs/", "*.log", "session.json"}

// GitignoreContent returns the .gitignore written into project directories.
func GitignoreContent() string {
	content := "# taskdeck project-local data (auto-generated)\n"
	for _, entry := range projectIgnores {
		content += entry + "\n"
	}
	return content
}

// EnsureGitignore writes dir/.gitignore when the directory has none and
// reports whether it did. An existing file is left untouched.
func EnsureGitignore(dir string) (bool, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return false, fmt.Errorf("creating %s: %w", dir, err)
	}

	path := filepath.Join(dir, ".gitignore")
	//nolint:gosec // .gitignore is meant to be readable by everyone.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err = f.WriteString(GitignoreContent()); err != nil {
		_ = f.Close()
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, f.Close()
}
