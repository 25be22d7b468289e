package catalog

import (
	"errors"
	"io/fs"
	"log/slog"
	"time"

	"github.com/starford/flashcite/internal/checksum"
	"github.com/starford/flashcite/internal/citation"
	"github.com/starford/flashcite/internal/document"
	"github.com/starford/flashcite/internal/models"
	"github.com/starford/flashcite/internal/storage"
)

// Sync walks the library and brings the catalog up to date:
//   - new or changed sources (or sidecars) are re-read and upserted
//   - sources removed from disk are deleted from the catalog
func Sync(db Catalog, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if have, ok := checksums[m.Path]; ok && have == (Checksums{Source: m.Checksum, Citations: m.CitationsChecksum}) {
			continue
		}

		if err := IndexSource(db, store, m.Path); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteSource(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// IndexSource reads a source and its sidecar and upserts both into db. A
// source whose structure cannot be walked is still catalogued with an empty
// kind. A missing or unreadable sidecar means no citations, and malformed
// sidecar entries are dropped.
func IndexSource(db Catalog, store storage.Provider, path string) error {
	data, err := store.Read(path)
	if err != nil {
		return err
	}

	src := models.Source{
		Path:      path,
		Checksum:  checksum.Sum(data),
		UpdatedAt: time.Now().UTC(),
	}
	if doc, err := document.Parse(data); err == nil {
		src.Kind = string(doc.Kind)
		src.Title = doc.Title
	}

	var citations []citation.Citation
	sidecar, err := store.Read(storage.CitationsPath(path))
	switch {
	case err == nil:
		src.CitationsChecksum = checksum.Sum(sidecar)
		if decoded, err := citation.DecodeList(sidecar); err == nil {
			citations = decoded.Citations
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return err
	}

	return db.UpsertSource(src, citations)
}
