// Package filex holds filesystem helpers for the local database.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DBPath returns the file a SQLite DSN points at, or "" for in-memory
// databases. A "file:" URI prefix and a "?query" suffix are stripped.
func DBPath(dsn string) string {
	p := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(p, '?'); i >= 0 {
		if strings.Contains(p[i:], "mode=memory") {
			return ""
		}
		p = p[:i]
	}
	if p == "" || p == ":memory:" {
		return ""
	}
	return p
}

// EnsureParentDir creates the directory that will hold path, owner-only.
// Paths with no directory part need nothing.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}
