package api

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"
)

const maxUploadBytes = 50 << 20 // 50 MB

// uploadName validates that the filename is a plain name (no path separators,
// no traversal) and joins it onto the optional target directory.
func uploadName(dir, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("filename is required")
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid filename: %s", name)
	}
	dir = strings.Trim(filepath.ToSlash(dir), "/")
	if strings.Contains(dir, "..") {
		return "", fmt.Errorf("invalid directory: %s", dir)
	}
	return path.Join(dir, cleaned), nil
}

// UploadSource handles POST /api/sources (multipart/form-data, field "file",
// optional field "dir").
//
//	@Summary		Upload a structured source document
//	@Tags			sources
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Document JSON"
//	@Param			dir		formData	string	false	"Target directory inside the library"
//	@Success		201		{object}	models.Source
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sources [post]
func (h *Handler) UploadSource(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	rel, err := uploadName(r.FormValue("dir"), header.Filename)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read file"))
		return
	}

	src, err := h.svc.UploadSource(r.Context(), rel, data)
	if err != nil {
		writeError(w, r, "upload source", err)
		return
	}
	writeJSON(w, http.StatusCreated, src)
}
