// Package highlight serves citation highlights for the sources in a library.
// It joins the catalog, the stored documents and the per-source facade cache.
package highlight

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_highlighter.go -package=mocks github.com/starford/flashcite/internal/highlight Highlighter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/flashcite/internal/apperr"
	"github.com/starford/flashcite/internal/catalog"
	"github.com/starford/flashcite/internal/citation"
	"github.com/starford/flashcite/internal/document"
	"github.com/starford/flashcite/internal/models"
	"github.com/starford/flashcite/internal/storage"
)

const defaultSearchLimit = 20

// Highlighter is the read and write surface the transports use.
type Highlighter interface {
	ListSources(ctx context.Context, limit, offset int, kind string) ([]models.Source, int, error)
	GetSource(ctx context.Context, path string) (*models.Source, error)
	Snapshot(ctx context.Context, path string) (*Snapshot, error)
	LookupUnit(ctx context.Context, path string, t citation.Type, n int) (*UnitResult, error)
	LookupItem(ctx context.Context, path string, list, item int) (*UnitResult, error)
	LookupSegment(ctx context.Context, path string, start, end float64) (*SegmentResult, error)
	ReplaceCitations(ctx context.Context, path string, citations []citation.Citation) (*models.Source, error)
	UploadSource(ctx context.Context, path string, data []byte) (*models.Source, error)
	DeleteSource(ctx context.Context, path string) error
	MoveSource(ctx context.Context, from, to string) (*models.Source, error)
	SearchCards(ctx context.Context, query string, limit int) ([]models.CardHit, error)
}

var _ Highlighter = (*Service)(nil)

// Service coordinates storage, catalog and the facade cache.
type Service struct {
	store     storage.Provider
	db        catalog.Catalog
	cache     *citation.Cache
	policy    citation.Policy
	numbering document.Numbering
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithPolicy sets the display policy applied to every facade.
func WithPolicy(p citation.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithNumbering overrides the list and table numbering of every document.
func WithNumbering(n document.Numbering) Option {
	return func(s *Service) {
		s.numbering = n
	}
}

// WithCacheCapacity bounds the number of cached facades.
func WithCacheCapacity(n int) Option {
	return func(s *Service) {
		s.cache = citation.NewCache(n)
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates a new highlight service.
func NewService(store storage.Provider, db catalog.Catalog, opts ...Option) *Service {
	s := &Service{store: store, db: db}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = citation.NewCache(citation.DefaultCacheCapacity)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// ListSources returns paginated catalog entries with an optional kind filter.
func (s *Service) ListSources(_ context.Context, limit, offset int, kind string) ([]models.Source, int, error) {
	items, total, err := s.db.ListSources(limit, offset, kind)
	if err != nil {
		return nil, 0, err
	}
	return nonNilSlice(items), total, nil
}

// GetSource returns the catalog entry for path, indexing it first when the
// file exists but the watcher has not caught up yet.
func (s *Service) GetSource(_ context.Context, path string) (*models.Source, error) {
	return s.source(path)
}

func (s *Service) source(path string) (*models.Source, error) {
	src, err := s.db.GetSource(path)
	if err == nil {
		return src, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) || !storage.IsSource(path) {
		return nil, err
	}
	if _, readErr := s.store.Read(path); readErr != nil {
		return nil, err
	}
	if err := s.IndexSource(path); err != nil {
		return nil, err
	}
	return s.db.GetSource(path)
}

// SearchCards delegates card search to the catalog.
func (s *Service) SearchCards(_ context.Context, query string, limit int) ([]models.CardHit, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	hits, err := s.db.SearchCards(query, limit)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(hits), nil
}

// ReplaceCitations overwrites the citation sidecar of path, re-indexes the
// source and drops its cached facades.
func (s *Service) ReplaceCitations(_ context.Context, path string, citations []citation.Citation) (*models.Source, error) {
	if _, err := s.source(path); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(nonNilSlice(citations), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("highlight: encode citations: %w", err)
	}
	if err := s.store.Write(storage.CitationsPath(path), data); err != nil {
		return nil, err
	}
	if err := s.IndexSource(path); err != nil {
		return nil, err
	}
	return s.db.GetSource(path)
}

// UploadSource stores a structured document at path and catalogs it.
// Documents that cannot be walked are rejected.
func (s *Service) UploadSource(_ context.Context, path string, data []byte) (*models.Source, error) {
	if !storage.IsSource(path) {
		return nil, fmt.Errorf("%w: source path must end with .json: %s", apperr.ErrInvalid, path)
	}
	if _, err := document.Parse(data); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
	}
	if err := s.store.Write(path, data); err != nil {
		return nil, err
	}
	if err := s.IndexSource(path); err != nil {
		return nil, err
	}
	return s.db.GetSource(path)
}

// DeleteSource removes a source, its sidecar and its catalog entry.
func (s *Service) DeleteSource(_ context.Context, path string) error {
	if err := s.store.Delete(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperr.ErrNotFound
		}
		return err
	}
	if err := s.store.Delete(storage.CitationsPath(path)); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("highlight: delete sidecar failed", slog.String("path", path), slog.String("error", err.Error()))
	}
	s.Invalidate(path)
	return s.db.DeleteSource(path)
}

// MoveSource relocates a source and its citation sidecar. The target must
// not exist yet.
func (s *Service) MoveSource(_ context.Context, from, to string) (*models.Source, error) {
	if !storage.IsSource(to) {
		return nil, fmt.Errorf("%w: source path must end with .json: %s", apperr.ErrInvalid, to)
	}
	if _, err := s.store.Read(from); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if _, err := s.store.Read(to); err == nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrAlreadyExists, to)
	}
	if err := s.store.Move(from, to); err != nil {
		return nil, err
	}
	if err := s.store.Move(storage.CitationsPath(from), storage.CitationsPath(to)); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("highlight: move sidecar failed", slog.String("path", from), slog.String("error", err.Error()))
	}

	s.Invalidate(from)
	if err := s.db.DeleteSource(from); err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	if err := s.IndexSource(to); err != nil {
		return nil, err
	}
	return s.db.GetSource(to)
}

// IndexSource re-reads path into the catalog and drops its cached facades.
// Exported so that sync and watcher callers can reuse it.
func (s *Service) IndexSource(path string) error {
	if err := catalog.IndexSource(s.db, s.store, path); err != nil {
		return err
	}
	s.Invalidate(path)
	return nil
}

// Invalidate drops every cached facade of path.
func (s *Service) Invalidate(path string) {
	if n := s.cache.Invalidate(path); n > 0 {
		s.logger.Debug("highlight: invalidated", slog.String("path", path), slog.Int("entries", n))
	}
}

// Reset drops every cached facade.
func (s *Service) Reset() {
	s.cache.Reset()
}

// facade returns the cached facade for path, building it on a miss.
func (s *Service) facade(path string) (*models.Source, *citation.Facade, error) {
	src, err := s.source(path)
	if err != nil {
		return nil, nil, err
	}
	key := citation.Key{Source: path, Document: src.Checksum, Citations: src.CitationsChecksum}
	f, err := s.cache.Get(key, func() (*citation.Facade, error) {
		return s.build(path)
	})
	if err != nil {
		return nil, nil, err
	}
	return src, f, nil
}

func (s *Service) build(path string) (*citation.Facade, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	var layout citation.Layout
	doc, err := document.Parse(data, document.WithNumbering(s.numbering))
	if err != nil {
		s.logger.Warn("highlight: document not walkable, serving fallback",
			slog.String("path", path), slog.String("error", err.Error()))
	} else {
		layout = doc
	}

	citations, err := s.db.Citations(path)
	if err != nil {
		return nil, fmt.Errorf("highlight: load citations: %w", err)
	}

	f := citation.NewFacade(layout, citations, s.policy)
	st := f.Stats()
	s.logger.Debug("highlight: facade built",
		slog.String("path", path),
		slog.Int("indexed", st.Indexed),
		slog.Int("skipped", st.Skipped),
		slog.Int("truncated", st.Truncated))
	return f, nil
}

// documentOf returns the walked document behind f, or nil in fallback mode.
func documentOf(f *citation.Facade) *document.Document {
	doc, _ := f.Layout().(*document.Document)
	return doc
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
