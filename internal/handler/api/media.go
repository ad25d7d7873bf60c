// Copyright (c) 2025-2026 Voyago
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voyago/voyago-cms/internal/model"
	"github.com/voyago/voyago-cms/internal/store"
)

// CreateMediaRequest is the request body for registering a media record.
// Media rows are write-once: there is no update endpoint.
type CreateMediaRequest struct {
	Filename     string  `json:"filename"`
	OriginalName string  `json:"original_name"`
	MimeType     string  `json:"mime_type"`
	Size         FlexInt `json:"size"`
	URL          string  `json:"url"`
	AltText      string  `json:"alt_text"`
	UploadedBy   FlexInt `json:"uploaded_by"`
}

// ListMedia handles GET /api/cms/media
func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseListWindow(r)

	media, err := h.queries.ListMedia(r.Context(), store.ListMediaParams{
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
		MimeType: strings.TrimSpace(r.URL.Query().Get("mime_type")),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		writeInternalError(w, "failed to list media", err)
		return
	}

	writeJSON(w, http.StatusOK, media)
}

// GetMedia handles GET /api/cms/media/{id}
func (h *Handler) GetMedia(w http.ResponseWriter, r *http.Request) {
	media, ok := h.requireMedia(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, media)
}

// CreateMedia handles POST /api/cms/media
func (h *Handler) CreateMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateMediaRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, CodeInvalidJSON, "Invalid JSON body")
		return
	}

	filename := strings.TrimSpace(req.Filename)
	if filename == "" {
		writeBadRequest(w, "MISSING_FILENAME", "Filename is required")
		return
	}
	originalName := strings.TrimSpace(req.OriginalName)
	if originalName == "" {
		writeBadRequest(w, "MISSING_ORIGINAL_NAME", "Original name is required")
		return
	}
	mimeType := strings.TrimSpace(req.MimeType)
	if mimeType == "" {
		writeBadRequest(w, "MISSING_MIME_TYPE", "MIME type is required")
		return
	}
	if !req.Size.Set {
		writeBadRequest(w, "MISSING_SIZE", "size is required")
		return
	}
	if !req.Size.Valid || req.Size.Value <= 0 {
		writeBadRequest(w, "INVALID_SIZE", "size must be a positive number")
		return
	}
	url := strings.TrimSpace(req.URL)
	if url == "" {
		writeBadRequest(w, "MISSING_URL", "URL is required")
		return
	}

	if !req.UploadedBy.Set {
		writeBadRequest(w, "MISSING_UPLOADED_BY", "uploaded_by is required")
		return
	}
	if !req.UploadedBy.Valid {
		writeBadRequest(w, CodeInvalidUser, "uploaded_by must reference an existing user")
		return
	}
	userExists, err := h.queries.UserExists(ctx, req.UploadedBy.Value)
	if err != nil {
		writeInternalError(w, "failed to check user", err)
		return
	}
	if !userExists {
		writeBadRequest(w, CodeInvalidUser, "uploaded_by must reference an existing user")
		return
	}

	media, err := h.queries.CreateMedia(ctx, store.CreateMediaParams{
		UUID:         uuid.NewString(),
		Filename:     filename,
		OriginalName: originalName,
		MimeType:     mimeType,
		Size:         req.Size.Value,
		URL:          url,
		AltText:      strings.TrimSpace(req.AltText),
		UploadedBy:   req.UploadedBy.Value,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		writeInternalError(w, "failed to create media", err)
		return
	}

	writeJSON(w, http.StatusCreated, media)
}

// DeleteMedia handles DELETE /api/cms/media/{id}
func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	media, ok := h.requireMedia(w, r)
	if !ok {
		return
	}

	if err := h.queries.DeleteMedia(r.Context(), media.ID); err != nil {
		writeInternalError(w, "failed to delete media", err)
		return
	}

	writeDeleted(w, "Media deleted", "media", media)
}

// requireMedia parses the media ID from the request and fetches the record.
func (h *Handler) requireMedia(w http.ResponseWriter, r *http.Request) (model.Media, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeBadRequest(w, CodeInvalidID, "Invalid media ID")
		return model.Media{}, false
	}

	media, err := h.queries.GetMediaByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeNotFound(w, "MEDIA_NOT_FOUND", "Media not found")
		} else {
			writeInternalError(w, "failed to retrieve media", err)
		}
		return model.Media{}, false
	}
	return media, true
}
