package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/flashcite/internal/citation"
	"github.com/starford/flashcite/internal/highlight"
)

const maxBodyBytes = 10 << 20

// Handler holds API route handlers.
type Handler struct {
	svc highlight.Highlighter
}

// NewHandler creates a new Handler.
func NewHandler(svc highlight.Highlighter) *Handler {
	return &Handler{svc: svc}
}

// sourcePath extracts the source path from the URL wildcard.
// Supports encoded slashes from OpenAPI clients (e.g. bio%2Fcells.json).
func sourcePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListSources handles GET /api/sources.
//
//	@Summary		List catalogued sources
//	@Tags			sources
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			kind	query		string	false	"Filter by document kind"	Enums(html, pdf, text, image, transcript)
//	@Success		200		{object}	SourceListResponse
//	@Security		BearerAuth
//	@Router			/sources [get]
func (h *Handler) ListSources(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	items, total, err := h.svc.ListSources(r.Context(), limit, offset, q.Get("kind"))
	if err != nil {
		writeError(w, r, "list sources", err)
		return
	}
	writeJSON(w, http.StatusOK, SourceListResponse{Sources: items, Total: total})
}

// GetSource handles GET /api/sources/*.
//
//	@Summary		Get catalog metadata for one source
//	@Tags			sources
//	@Produce		json
//	@Param			path	path		string	true	"Source path"
//	@Success		200		{object}	models.Source
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sources/{path} [get]
func (h *Handler) GetSource(w http.ResponseWriter, r *http.Request) {
	path := sourcePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	src, err := h.svc.GetSource(r.Context(), path)
	if err != nil {
		writeError(w, r, "get source", err)
		return
	}
	writeJSON(w, http.StatusOK, src)
}

// PutSource handles PUT /api/sources/*. The body is the structured document.
//
//	@Summary		Create or replace a source document
//	@Tags			sources
//	@Accept			json
//	@Produce		json
//	@Param			path	path		string	true	"Source path (must end with .json)"
//	@Success		200		{object}	models.Source
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sources/{path} [put]
func (h *Handler) PutSource(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	path := sourcePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	src, err := h.svc.UploadSource(r.Context(), path, body)
	if err != nil {
		writeError(w, r, "put source", err)
		return
	}
	writeJSON(w, http.StatusOK, src)
}

// DeleteSource handles DELETE /api/sources/*.
//
//	@Summary		Delete a source and its citations
//	@Tags			sources
//	@Param			path	path	string	true	"Source path"
//	@Success		204		"Source deleted"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sources/{path} [delete]
func (h *Handler) DeleteSource(w http.ResponseWriter, r *http.Request) {
	path := sourcePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	if err := h.svc.DeleteSource(r.Context(), path); err != nil {
		writeError(w, r, "delete source", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveSource handles POST /api/sources/move.
//
//	@Summary		Move a source and its citations to a new path
//	@Tags			sources
//	@Accept			json
//	@Produce		json
//	@Param			body	body		MoveSourceRequest	true	"Source and target paths"
//	@Success		200		{object}	models.Source
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sources/move [post]
func (h *Handler) MoveSource(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req MoveSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	src, err := h.svc.MoveSource(r.Context(), req.From, req.To)
	if err != nil {
		writeError(w, r, "move source", err)
		return
	}
	writeJSON(w, http.StatusOK, src)
}

// Snapshot handles GET /api/highlights/*.
//
//	@Summary		Render every unit of a source with its highlighting cards
//	@Tags			highlights
//	@Produce		json
//	@Param			path	path		string	true	"Source path"
//	@Success		200		{object}	Snapshot
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/highlights/{path} [get]
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	path := sourcePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	snap, err := h.svc.Snapshot(r.Context(), path)
	if err != nil {
		writeError(w, r, "snapshot", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// LookupUnit handles GET /api/units/*.
//
//	@Summary		Cards highlighting one unit
//	@Tags			highlights
//	@Produce		json
//	@Param			path	path		string	true	"Source path"
//	@Param			type	query		string	true	"Unit type"	Enums(sentence_range, paragraph, section, list, table, block, list_item)
//	@Param			number	query		int		true	"Unit number"
//	@Param			list	query		int		false	"List number (list_item only)"
//	@Success		200		{object}	UnitResult
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/units/{path} [get]
func (h *Handler) LookupUnit(w http.ResponseWriter, r *http.Request) {
	path := sourcePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	q := r.URL.Query()
	n, err := strconv.Atoi(q.Get("number"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'number' must be an integer"))
		return
	}

	rawType := q.Get("type")
	if rawType == string(citation.TypeListItem) {
		list, err := strconv.Atoi(q.Get("list"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'list' must be an integer"))
			return
		}
		res, err := h.svc.LookupItem(r.Context(), path, list, n)
		if err != nil {
			writeError(w, r, "lookup item", err)
			return
		}
		writeJSON(w, http.StatusOK, res)
		return
	}

	t, ok := citation.ParseType(rawType)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody(fmt.Sprintf("unknown unit type %q", rawType)))
		return
	}
	res, err := h.svc.LookupUnit(r.Context(), path, t, n)
	if err != nil {
		writeError(w, r, "lookup unit", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// LookupSegment handles GET /api/segments/*.
//
//	@Summary		Cards whose timestamps overlap a transcript segment
//	@Tags			highlights
//	@Produce		json
//	@Param			path	path		string	true	"Source path"
//	@Param			start	query		number	true	"Segment start in seconds"
//	@Param			end		query		number	true	"Segment end in seconds"
//	@Success		200		{object}	SegmentResult
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/segments/{path} [get]
func (h *Handler) LookupSegment(w http.ResponseWriter, r *http.Request) {
	path := sourcePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	q := r.URL.Query()
	start, err := strconv.ParseFloat(q.Get("start"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'start' must be a number"))
		return
	}
	end, err := strconv.ParseFloat(q.Get("end"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'end' must be a number"))
		return
	}
	res, err := h.svc.LookupSegment(r.Context(), path, start, end)
	if err != nil {
		writeError(w, r, "lookup segment", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ReplaceCitations handles PUT /api/citations/*.
//
//	@Summary		Replace the citation list of a source
//	@Tags			highlights
//	@Accept			json
//	@Produce		json
//	@Param			path	path		string					true	"Source path"
//	@Param			body	body		ReplaceCitationsRequest	true	"Citation list"
//	@Success		200		{object}	models.Source
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/citations/{path} [put]
func (h *Handler) ReplaceCitations(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	path := sourcePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}

	decoded, err := citation.DecodeList(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if len(decoded.Rejected) > 0 {
		writeJSON(w, http.StatusBadRequest, errorBody(decoded.Rejected[0].Error()))
		return
	}
	req := ReplaceCitationsRequest{Citations: decoded.Citations}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	src, err := h.svc.ReplaceCitations(r.Context(), path, req.Citations)
	if err != nil {
		writeError(w, r, "replace citations", err)
		return
	}
	writeJSON(w, http.StatusOK, src)
}

// Search handles GET /api/search.
//
//	@Summary		Search cards by front, back and preview text
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.SearchCards(r.Context(), q, limit)
	if err != nil {
		writeError(w, r, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
