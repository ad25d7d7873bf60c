// Copyright (c) 2025-2026 Voyago
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"

	"github.com/voyago/voyago-cms/internal/model"
	"github.com/voyago/voyago-cms/internal/store"
)

// pagePolicy sanitizes editor-supplied page content before persistence.
var pagePolicy = bluemonday.UGCPolicy()

// PageResponse represents a page in API responses.
type PageResponse struct {
	ID              int64      `json:"id"`
	Slug            string     `json:"slug"`
	Title           string     `json:"title"`
	Content         string     `json:"content"`
	MetaTitle       string     `json:"meta_title,omitempty"`
	MetaDescription string     `json:"meta_description,omitempty"`
	Status          string     `json:"status"`
	CreatedBy       int64      `json:"created_by"`
	UpdatedBy       *int64     `json:"updated_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	PublishedAt     *time.Time `json:"published_at"`
}

// CreatePageRequest is the request body for creating a page.
type CreatePageRequest struct {
	Slug            string  `json:"slug"`
	Title           string  `json:"title"`
	Content         string  `json:"content"`
	MetaTitle       string  `json:"meta_title"`
	MetaDescription string  `json:"meta_description"`
	Status          string  `json:"status"`
	CreatedBy       FlexInt `json:"created_by"`
}

// UpdatePageRequest is the request body for updating a page.
// Absent fields are left unchanged.
type UpdatePageRequest struct {
	Slug            *string  `json:"slug"`
	Title           *string  `json:"title"`
	Content         *string  `json:"content"`
	MetaTitle       *string  `json:"meta_title"`
	MetaDescription *string  `json:"meta_description"`
	Status          *string  `json:"status"`
	UpdatedBy       *FlexInt `json:"updated_by"`
}

// pageToResponse converts a model.Page to PageResponse.
func pageToResponse(p model.Page) PageResponse {
	resp := PageResponse{
		ID:              p.ID,
		Slug:            p.Slug,
		Title:           p.Title,
		Content:         p.Content,
		MetaTitle:       p.MetaTitle,
		MetaDescription: p.MetaDescription,
		Status:          p.Status,
		CreatedBy:       p.CreatedBy,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if p.UpdatedBy.Valid {
		resp.UpdatedBy = &p.UpdatedBy.Int64
	}
	if p.PublishedAt.Valid {
		resp.PublishedAt = &p.PublishedAt.Time
	}
	return resp
}

// ListPages handles GET /api/cms/pages
// With ?id=<n> it switches to single-object mode.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("id") != "" {
		h.GetPage(w, r)
		return
	}

	limit, offset := parseListWindow(r)

	status := r.URL.Query().Get("status")
	if status != "" && !model.IsValidPageStatus(status) {
		writeBadRequest(w, "INVALID_STATUS", "Status must be one of: draft, published, archived")
		return
	}

	pages, err := h.queries.ListPages(r.Context(), store.ListPagesParams{
		Status: status,
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Sort:   r.URL.Query().Get("sort"),
		Order:  r.URL.Query().Get("order"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeInternalError(w, "failed to list pages", err)
		return
	}

	responses := make([]PageResponse, 0, len(pages))
	for _, p := range pages {
		responses = append(responses, pageToResponse(p))
	}
	writeJSON(w, http.StatusOK, responses)
}

// GetPage handles GET /api/cms/pages/{id}
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	page, ok := h.requirePage(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, pageToResponse(page))
}

// GetPageBySlug handles GET /api/cms/pages/by-slug/{slug}
// Only published pages are visible to the slug lookup; drafts and archived
// pages are reported as not found.
func (h *Handler) GetPageBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		writeBadRequest(w, "MISSING_SLUG", "Slug is required")
		return
	}

	page, err := h.queries.GetPublishedPageBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeNotFound(w, "PAGE_NOT_FOUND", "Page not found")
		} else {
			writeInternalError(w, "failed to retrieve page", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, pageToResponse(page))
}

// CreatePage handles POST /api/cms/pages
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreatePageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, CodeInvalidJSON, "Invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Slug) == "" {
		writeBadRequest(w, "MISSING_SLUG", "Slug is required")
		return
	}
	slug, ok := normalizeSlug(req.Slug)
	if !ok {
		writeBadRequest(w, "INVALID_SLUG", "Slug must contain only lowercase letters, numbers, and hyphens")
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		writeBadRequest(w, "MISSING_TITLE", "Title is required")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		writeBadRequest(w, "MISSING_CONTENT", "Content is required")
		return
	}

	if !req.CreatedBy.Set {
		writeBadRequest(w, "MISSING_CREATED_BY", "created_by is required")
		return
	}
	if !req.CreatedBy.Valid {
		writeBadRequest(w, CodeInvalidUser, "created_by must reference an existing user")
		return
	}
	userExists, err := h.queries.UserExists(ctx, req.CreatedBy.Value)
	if err != nil {
		writeInternalError(w, "failed to check user", err)
		return
	}
	if !userExists {
		writeBadRequest(w, CodeInvalidUser, "created_by must reference an existing user")
		return
	}

	status := req.Status
	if status == "" {
		status = model.PageStatusDraft
	}
	if !model.IsValidPageStatus(status) {
		writeBadRequest(w, "INVALID_STATUS", "Status must be one of: draft, published, archived")
		return
	}

	exists, err := h.queries.PageSlugExists(ctx, slug)
	if err != nil {
		writeInternalError(w, "failed to check slug", err)
		return
	}
	if exists {
		writeBadRequest(w, "DUPLICATE_SLUG", "A page with this slug already exists")
		return
	}

	now := time.Now()
	params := store.CreatePageParams{
		Slug:            slug,
		Title:           title,
		Content:         pagePolicy.Sanitize(content),
		MetaTitle:       strings.TrimSpace(req.MetaTitle),
		MetaDescription: strings.TrimSpace(req.MetaDescription),
		Status:          status,
		CreatedBy:       req.CreatedBy.Value,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if status == model.PageStatusPublished {
		params.PublishedAt = sql.NullTime{Time: now, Valid: true}
	}

	page, err := h.queries.CreatePage(ctx, params)
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeBadRequest(w, "DUPLICATE_SLUG", "A page with this slug already exists")
			return
		}
		writeInternalError(w, "failed to create page", err)
		return
	}

	writeJSON(w, http.StatusCreated, pageToResponse(page))
}

// UpdatePage handles PUT /api/cms/pages/{id} and PUT /api/cms/pages?id=<n>
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := h.requirePage(w, r)
	if !ok {
		return
	}

	var req UpdatePageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, CodeInvalidJSON, "Invalid JSON body")
		return
	}

	params := store.UpdatePageParams{
		ID:              existing.ID,
		Slug:            existing.Slug,
		Title:           existing.Title,
		Content:         existing.Content,
		MetaTitle:       existing.MetaTitle,
		MetaDescription: existing.MetaDescription,
		Status:          existing.Status,
		UpdatedBy:       existing.UpdatedBy,
		UpdatedAt:       time.Now(),
		PublishedAt:     existing.PublishedAt,
	}

	if req.Slug != nil {
		if strings.TrimSpace(*req.Slug) == "" {
			writeBadRequest(w, "MISSING_SLUG", "Slug is required")
			return
		}
		slug, ok := normalizeSlug(*req.Slug)
		if !ok {
			writeBadRequest(w, "INVALID_SLUG", "Slug must contain only lowercase letters, numbers, and hyphens")
			return
		}
		if slug != existing.Slug {
			exists, err := h.queries.PageSlugExistsExcluding(ctx, store.PageSlugExistsExcludingParams{
				Slug: slug,
				ID:   existing.ID,
			})
			if err != nil {
				writeInternalError(w, "failed to check slug", err)
				return
			}
			if exists {
				writeBadRequest(w, "DUPLICATE_SLUG", "A page with this slug already exists")
				return
			}
		}
		params.Slug = slug
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			writeBadRequest(w, "MISSING_TITLE", "Title is required")
			return
		}
		params.Title = title
	}

	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			writeBadRequest(w, "MISSING_CONTENT", "Content is required")
			return
		}
		params.Content = pagePolicy.Sanitize(content)
	}

	if req.MetaTitle != nil {
		params.MetaTitle = strings.TrimSpace(*req.MetaTitle)
	}
	if req.MetaDescription != nil {
		params.MetaDescription = strings.TrimSpace(*req.MetaDescription)
	}

	if req.Status != nil {
		if !model.IsValidPageStatus(*req.Status) {
			writeBadRequest(w, "INVALID_STATUS", "Status must be one of: draft, published, archived")
			return
		}
		params.Status = *req.Status

		// publishedAt is stamped exactly once: the first time the page
		// enters the published status. Later transitions leave it alone.
		if *req.Status == model.PageStatusPublished && !existing.PublishedAt.Valid {
			params.PublishedAt = sql.NullTime{Time: time.Now(), Valid: true}
		}
	}

	if req.UpdatedBy != nil {
		if !req.UpdatedBy.Valid {
			writeBadRequest(w, CodeInvalidUser, "updated_by must reference an existing user")
			return
		}
		userExists, err := h.queries.UserExists(ctx, req.UpdatedBy.Value)
		if err != nil {
			writeInternalError(w, "failed to check user", err)
			return
		}
		if !userExists {
			writeBadRequest(w, CodeInvalidUser, "updated_by must reference an existing user")
			return
		}
		params.UpdatedBy = sql.NullInt64{Int64: req.UpdatedBy.Value, Valid: true}
	}

	page, err := h.queries.UpdatePage(ctx, params)
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeBadRequest(w, "DUPLICATE_SLUG", "A page with this slug already exists")
			return
		}
		writeInternalError(w, "failed to update page", err)
		return
	}

	writeJSON(w, http.StatusOK, pageToResponse(page))
}

// DeletePage handles DELETE /api/cms/pages/{id}
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	page, ok := h.requirePage(w, r)
	if !ok {
		return
	}

	if err := h.queries.DeletePage(r.Context(), page.ID); err != nil {
		writeInternalError(w, "failed to delete page", err)
		return
	}

	writeDeleted(w, "Page deleted", "page", pageToResponse(page))
}

// requirePage parses the page ID from the request and fetches the page.
// Returns the page and true on success; on failure the response is written.
func (h *Handler) requirePage(w http.ResponseWriter, r *http.Request) (model.Page, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeBadRequest(w, CodeInvalidID, "Invalid page ID")
		return model.Page{}, false
	}

	page, err := h.queries.GetPageByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeNotFound(w, "PAGE_NOT_FOUND", "Page not found")
		} else {
			writeInternalError(w, "failed to retrieve page", err)
		}
		return model.Page{}, false
	}
	return page, true
}
