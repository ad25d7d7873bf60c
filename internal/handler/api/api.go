// Copyright (c) 2025-2026 Voyago
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the /api/cms REST handlers for the CMS resources:
// users, pages, shortlets, tours, and media.
package api

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voyago/voyago-cms/internal/store"
)

// Error codes shared across resources.
const (
	CodeInvalidJSON   = "INVALID_JSON"
	CodeInvalidID     = "INVALID_ID"
	CodeInternalError = "INTERNAL_ERROR"
	CodeInvalidUser   = "INVALID_USER"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db      *sql.DB
	queries *store.Queries
}

// NewHandler creates a new API handler.
func NewHandler(db *sql.DB) *Handler {
	return &Handler{
		db:      db,
		queries: store.New(db),
	}
}

// Routes registers all /api/cms routes on the given router.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api/cms", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.ListUsers)
			r.Post("/", h.CreateUser)
			r.Get("/{id}", h.GetUser)
			r.Put("/{id}", h.UpdateUser)
			r.Delete("/{id}", h.DeleteUser)
		})

		r.Route("/pages", func(r chi.Router) {
			r.Get("/", h.ListPages)
			r.Post("/", h.CreatePage)
			r.Put("/", h.UpdatePage) // ?id=<n> form
			r.Get("/by-slug/{slug}", h.GetPageBySlug)
			r.Get("/{id}", h.GetPage)
			r.Put("/{id}", h.UpdatePage)
			r.Delete("/{id}", h.DeletePage)
		})

		r.Route("/shortlets", func(r chi.Router) {
			r.Get("/", h.ListShortlets)
			r.Post("/", h.CreateShortlet)
			r.Put("/", h.UpdateShortlet) // ?id=<n> form
			r.Get("/{id}", h.GetShortlet)
			r.Put("/{id}", h.UpdateShortlet)
			r.Delete("/{id}", h.DeleteShortlet)
		})

		r.Route("/tours", func(r chi.Router) {
			r.Get("/", h.ListTours)
			r.Post("/", h.CreateTour)
			r.Put("/", h.UpdateTour) // ?id=<n> form
			r.Get("/{id}", h.GetTour)
			r.Put("/{id}", h.UpdateTour)
			r.Delete("/{id}", h.DeleteTour)
		})

		r.Route("/media", func(r chi.Router) {
			r.Get("/", h.ListMedia)
			r.Post("/", h.CreateMedia)
			r.Get("/{id}", h.GetMedia)
			r.Delete("/{id}", h.DeleteMedia)
		})
	})
}

// errorResponse is the standard API error body.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error JSON response in the {error, code} shape.
func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, errorResponse{Error: message, Code: code})
}

// writeBadRequest writes a 400 Bad Request response.
func writeBadRequest(w http.ResponseWriter, code, message string) {
	writeError(w, http.StatusBadRequest, code, message)
}

// writeNotFound writes a 404 Not Found response.
func writeNotFound(w http.ResponseWriter, code, message string) {
	writeError(w, http.StatusNotFound, code, message)
}

// writeInternalError logs err and writes a 500 response wrapping its message.
func writeInternalError(w http.ResponseWriter, logMsg string, err error) {
	slog.Error(logMsg, "error", err)
	writeError(w, http.StatusInternalServerError, CodeInternalError,
		"Internal server error: "+err.Error())
}

// writeDeleted writes the standard delete response: a message plus the
// deleted record under the resource key.
func writeDeleted(w http.ResponseWriter, message, resourceKey string, deleted any) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   message,
		resourceKey: deleted,
	})
}

// decodeJSON decodes JSON from a request body.
func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
