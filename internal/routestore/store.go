// Package routestore fetches and stores route files by name.
package routestore

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"time"
)

var (
	// ErrNotFound is returned when no file exists under a name.
	ErrNotFound = errors.New("route file not found")
	// ErrInvalidName is returned for names that escape the store root.
	ErrInvalidName = errors.New("invalid route file name")
)

// FileInfo describes a stored route file.
type FileInfo struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"uploaded_at"`
}

// Store is a named blob store for route files. Names are relative paths
// such as "S5_PF_ZG.yaml".
type Store interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, content []byte) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]FileInfo, error)
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeName replaces every character outside [a-zA-Z0-9._-] with "_".
func SanitizeName(name string) string {
	return unsafeChars.ReplaceAllString(name, "_")
}

// ValidName reports whether name stays inside the store root.
func ValidName(name string) bool {
	return name != "" && filepath.IsLocal(filepath.FromSlash(name))
}
