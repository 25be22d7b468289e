// Package storage defines the source library file-system abstraction.
//
// A library holds structured source documents (<name>.json) next to their
// citation lists (<name>.citations.json).
package storage

import (
	"strings"

	"github.com/starford/flashcite/internal/models"
)

const (
	sourceExt    = ".json"
	citationsExt = ".citations.json"
)

// Provider is the interface for library file operations.
type Provider interface {
	// List returns metadata for every source document under dir (relative to library root).
	List(dir string) ([]models.SourceMetadata, error)
	// Read returns the raw bytes of the file at path (relative to library root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to library root).
	Write(path string, content []byte) error
	// Delete removes the file at path (relative to library root).
	Delete(path string) error
	// Move renames oldPath to newPath (both relative to library root).
	Move(oldPath, newPath string) error
}

// IsSource reports whether name is a source document rather than a sidecar.
func IsSource(name string) bool {
	return strings.HasSuffix(name, sourceExt) && !IsCitations(name)
}

// IsCitations reports whether name is a citation sidecar.
func IsCitations(name string) bool {
	return strings.HasSuffix(name, citationsExt)
}

// CitationsPath returns the sidecar path for a source document.
func CitationsPath(source string) string {
	return strings.TrimSuffix(source, sourceExt) + citationsExt
}

// SourcePath returns the source document a sidecar belongs to.
func SourcePath(sidecar string) string {
	return strings.TrimSuffix(sidecar, citationsExt) + sourceExt
}
