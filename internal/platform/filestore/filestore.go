// Package filestore keeps uploaded image files on local disk or in a Google
// Cloud Storage bucket behind one small interface.
package filestore

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var (
	// ErrNotExist is returned when the named file is not stored.
	ErrNotExist = errors.New("file does not exist")

	// ErrInvalidName is returned for empty, absolute or escaping names.
	ErrInvalidName = errors.New("invalid file name")
)

// Store saves, opens and deletes files addressed by slash-separated
// relative names such as "images/photo.png".
type Store interface {
	// Save writes the content of r under name, replacing any existing file.
	Save(ctx context.Context, name string, r io.Reader) error

	// Open returns a reader for the named file. Callers must close it.
	// Returns ErrNotExist if the file is not stored.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Delete removes the named file.
	// Returns ErrNotExist if the file is not stored.
	Delete(ctx context.Context, name string) error
}

// CleanName normalizes name to a slash-separated relative path. Backslashes
// are treated as separators. Names that are empty, absolute or climb out of
// the store root are rejected with ErrInvalidName.
func CleanName(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	if name == "" || strings.HasPrefix(name, "/") {
		return "", ErrInvalidName
	}

	clean := path.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidName
	}
	return clean, nil
}
