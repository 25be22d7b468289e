package catalog

import (
	"github.com/starford/flashcite/internal/citation"
	"github.com/starford/flashcite/internal/models"
)

// Checksums are the stored fingerprints of a source and its citation sidecar.
type Checksums struct {
	Source    string
	Citations string
}

// Catalog defines the catalog operations the rest of the service uses.
// Consumers should depend on this interface rather than the concrete *DB type.
type Catalog interface {
	UpsertSource(src models.Source, citations []citation.Citation) error
	DeleteSource(path string) error
	GetSource(path string) (*models.Source, error)
	ListSources(limit, offset int, kind string) ([]models.Source, int, error)
	Citations(path string) ([]citation.Citation, error)
	SearchCards(query string, limit int) ([]models.CardHit, error)
	AllChecksums() (map[string]Checksums, error)
	Close() error
}

// Verify *DB satisfies Catalog at compile time.
var _ Catalog = (*DB)(nil)
