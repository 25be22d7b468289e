package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/flashcite/internal/highlight"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc highlight.Highlighter, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))
	r.Use(LoggerMiddleware)

	// Sources.
	r.Get("/sources", h.ListSources)
	r.Post("/sources", h.UploadSource)
	r.Post("/sources/move", h.MoveSource)
	r.Get("/sources/*", h.GetSource)
	r.Put("/sources/*", h.PutSource)
	r.Delete("/sources/*", h.DeleteSource)

	// Highlights.
	r.Get("/highlights/*", h.Snapshot)
	r.Get("/units/*", h.LookupUnit)
	r.Get("/segments/*", h.LookupSegment)
	r.Put("/citations/*", h.ReplaceCitations)

	// Search.
	r.Get("/search", h.Search)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
