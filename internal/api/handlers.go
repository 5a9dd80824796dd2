package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/check"
)

// Handler holds API route handlers.
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// notePath extracts the note path from the URL (everything after /notes/).
// Supports encoded slashes from clients (e.g. topics%2Fnote.md).
func notePath(r *http.Request) string {
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

// CheckResponse wraps the result of a link-integrity scan.
type CheckResponse struct {
	Broken []check.BrokenLink `json:"broken"`
	Total  int                `json:"total"`
}

// Check handles GET /check. Query parameters: mode (all|current, default
// all) and note (required for current mode).
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := check.ModeAll
	if m := q.Get("mode"); m != "" {
		mode = check.Mode(m)
	}
	note := q.Get("note")
	if mode == check.ModeCurrent && note == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("current mode requires a note parameter"))
		return
	}

	broken, err := h.svc.Check(r.Context(), mode, note)
	if err != nil {
		slog.Error("check failed", slog.String("mode", string(mode)), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if broken == nil {
		broken = []check.BrokenLink{}
	}
	writeJSON(w, http.StatusOK, CheckResponse{Broken: broken, Total: len(broken)})
}

// GetNote handles GET /notes/*.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	note, err := h.svc.GetNote(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get note failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, note)
}
