// Copyright (c) 2025-2026 Voyago
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/voyago/voyago-cms/internal/model"
	"github.com/voyago/voyago-cms/internal/store"
)

// CreateTourRequest is the request body for creating a tour.
// price_from accepts a number or a numeric string, same as shortlets.
type CreateTourRequest struct {
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Description string        `json:"description"`
	Duration    string        `json:"duration"`
	PriceFrom   FlexInt       `json:"price_from"`
	Tag         string        `json:"tag"`
	Images      StringList    `json:"images"`
	Itinerary   ItineraryList `json:"itinerary"`
	Inclusions  StringList    `json:"inclusions"`
	Exclusions  StringList    `json:"exclusions"`
	Status      string        `json:"status"`
}

// UpdateTourRequest is the request body for updating a tour.
// Absent fields are left unchanged.
type UpdateTourRequest struct {
	Title       *string        `json:"title"`
	Slug        *string        `json:"slug"`
	Description *string        `json:"description"`
	Duration    *string        `json:"duration"`
	PriceFrom   *FlexInt       `json:"price_from"`
	Tag         *string        `json:"tag"`
	Images      *StringList    `json:"images"`
	Itinerary   *ItineraryList `json:"itinerary"`
	Inclusions  *StringList    `json:"inclusions"`
	Exclusions  *StringList    `json:"exclusions"`
	Status      *string        `json:"status"`
}

// ListTours handles GET /api/cms/tours
// With ?id=<n> it switches to single-object mode.
func (h *Handler) ListTours(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("id") != "" {
		h.GetTour(w, r)
		return
	}

	limit, offset := parseListWindow(r)

	status := r.URL.Query().Get("status")
	if status != "" && !model.IsValidListingStatus(status) {
		writeBadRequest(w, "INVALID_STATUS", "Status must be one of: active, inactive")
		return
	}

	tours, err := h.queries.ListTours(r.Context(), store.ListToursParams{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Status: status,
		Tag:    strings.TrimSpace(r.URL.Query().Get("tag")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeInternalError(w, "failed to list tours", err)
		return
	}

	writeJSON(w, http.StatusOK, tours)
}

// GetTour handles GET /api/cms/tours/{id}
func (h *Handler) GetTour(w http.ResponseWriter, r *http.Request) {
	tour, ok := h.requireTour(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, tour)
}

// CreateTour handles POST /api/cms/tours
func (h *Handler) CreateTour(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateTourRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, CodeInvalidJSON, "Invalid JSON body")
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		writeBadRequest(w, "MISSING_TITLE", "Title is required")
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
	description := strings.TrimSpace(req.Description)
	if description == "" {
		writeBadRequest(w, "MISSING_DESCRIPTION", "Description is required")
		return
	}
	duration := strings.TrimSpace(req.Duration)
	if duration == "" {
		writeBadRequest(w, "MISSING_DURATION", "Duration is required")
		return
	}
	tag := strings.TrimSpace(req.Tag)
	if tag == "" {
		writeBadRequest(w, "MISSING_TAG", "Tag is required")
		return
	}

	if !req.PriceFrom.Set {
		writeBadRequest(w, "MISSING_PRICE_FROM", "price_from is required")
		return
	}
	if !req.PriceFrom.Valid || req.PriceFrom.Value <= 0 {
		writeBadRequest(w, "INVALID_PRICE_FROM", "price_from must be a positive number")
		return
	}

	if req.Images.Set && !req.Images.OK() {
		writeBadRequest(w, "INVALID_IMAGES_JSON", "images must be an array of strings")
		return
	}
	if req.Itinerary.Set && !req.Itinerary.OK() {
		writeBadRequest(w, "INVALID_ITINERARY_JSON", "itinerary must be an array of day objects")
		return
	}
	if req.Inclusions.Set && !req.Inclusions.OK() {
		writeBadRequest(w, "INVALID_INCLUSIONS_JSON", "inclusions must be an array of strings")
		return
	}
	if req.Exclusions.Set && !req.Exclusions.OK() {
		writeBadRequest(w, "INVALID_EXCLUSIONS_JSON", "exclusions must be an array of strings")
		return
	}

	status := req.Status
	if status == "" {
		status = model.ListingStatusActive
	}
	if !model.IsValidListingStatus(status) {
		writeBadRequest(w, "INVALID_STATUS", "Status must be one of: active, inactive")
		return
	}

	exists, err := h.queries.TourSlugExists(ctx, slug)
	if err != nil {
		writeInternalError(w, "failed to check slug", err)
		return
	}
	if exists {
		writeBadRequest(w, "SLUG_EXISTS", "A tour with this slug already exists")
		return
	}

	now := time.Now()
	tour, err := h.queries.CreateTour(ctx, store.CreateTourParams{
		Title:       title,
		Slug:        slug,
		Description: description,
		Duration:    duration,
		PriceFrom:   req.PriceFrom.Value,
		Tag:         tag,
		Images:      req.Images.Values,
		Itinerary:   req.Itinerary.Values,
		Inclusions:  req.Inclusions.Values,
		Exclusions:  req.Exclusions.Values,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeBadRequest(w, "SLUG_EXISTS", "A tour with this slug already exists")
			return
		}
		writeInternalError(w, "failed to create tour", err)
		return
	}

	writeJSON(w, http.StatusCreated, tour)
}

// UpdateTour handles PUT /api/cms/tours/{id} and PUT /api/cms/tours?id=<n>
func (h *Handler) UpdateTour(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := h.requireTour(w, r)
	if !ok {
		return
	}

	var req UpdateTourRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, CodeInvalidJSON, "Invalid JSON body")
		return
	}

	params := store.UpdateTourParams{
		ID:          existing.ID,
		Title:       existing.Title,
		Slug:        existing.Slug,
		Description: existing.Description,
		Duration:    existing.Duration,
		PriceFrom:   existing.PriceFrom,
		Tag:         existing.Tag,
		Images:      existing.Images,
		Itinerary:   existing.Itinerary,
		Inclusions:  existing.Inclusions,
		Exclusions:  existing.Exclusions,
		Status:      existing.Status,
		UpdatedAt:   time.Now(),
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			writeBadRequest(w, "MISSING_TITLE", "Title is required")
			return
		}
		params.Title = title
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
			exists, err := h.queries.TourSlugExistsExcluding(ctx, store.TourSlugExistsExcludingParams{
				Slug: slug,
				ID:   existing.ID,
			})
			if err != nil {
				writeInternalError(w, "failed to check slug", err)
				return
			}
			if exists {
				writeBadRequest(w, "SLUG_EXISTS", "A tour with this slug already exists")
				return
			}
		}
		params.Slug = slug
	}

	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			writeBadRequest(w, "MISSING_DESCRIPTION", "Description is required")
			return
		}
		params.Description = description
	}

	if req.Duration != nil {
		duration := strings.TrimSpace(*req.Duration)
		if duration == "" {
			writeBadRequest(w, "MISSING_DURATION", "Duration is required")
			return
		}
		params.Duration = duration
	}

	if req.PriceFrom != nil {
		if !req.PriceFrom.Valid || req.PriceFrom.Value <= 0 {
			writeBadRequest(w, "INVALID_PRICE_FROM", "price_from must be a positive number")
			return
		}
		params.PriceFrom = req.PriceFrom.Value
	}

	if req.Tag != nil {
		tag := strings.TrimSpace(*req.Tag)
		if tag == "" {
			writeBadRequest(w, "MISSING_TAG", "Tag is required")
			return
		}
		params.Tag = tag
	}

	if req.Images != nil {
		if !req.Images.OK() {
			writeBadRequest(w, "INVALID_IMAGES_JSON", "images must be an array of strings")
			return
		}
		params.Images = req.Images.Values
	}

	if req.Itinerary != nil {
		if !req.Itinerary.OK() {
			writeBadRequest(w, "INVALID_ITINERARY_JSON", "itinerary must be an array of day objects")
			return
		}
		params.Itinerary = req.Itinerary.Values
	}

	if req.Inclusions != nil {
		if !req.Inclusions.OK() {
			writeBadRequest(w, "INVALID_INCLUSIONS_JSON", "inclusions must be an array of strings")
			return
		}
		params.Inclusions = req.Inclusions.Values
	}

	if req.Exclusions != nil {
		if !req.Exclusions.OK() {
			writeBadRequest(w, "INVALID_EXCLUSIONS_JSON", "exclusions must be an array of strings")
			return
		}
		params.Exclusions = req.Exclusions.Values
	}

	if req.Status != nil {
		if !model.IsValidListingStatus(*req.Status) {
			writeBadRequest(w, "INVALID_STATUS", "Status must be one of: active, inactive")
			return
		}
		params.Status = *req.Status
	}

	tour, err := h.queries.UpdateTour(ctx, params)
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeBadRequest(w, "SLUG_EXISTS", "A tour with this slug already exists")
			return
		}
		writeInternalError(w, "failed to update tour", err)
		return
	}

	writeJSON(w, http.StatusOK, tour)
}

// DeleteTour handles DELETE /api/cms/tours/{id}
func (h *Handler) DeleteTour(w http.ResponseWriter, r *http.Request) {
	tour, ok := h.requireTour(w, r)
	if !ok {
		return
	}

	if err := h.queries.DeleteTour(r.Context(), tour.ID); err != nil {
		writeInternalError(w, "failed to delete tour", err)
		return
	}

	writeDeleted(w, "Tour deleted", "tour", tour)
}

// requireTour parses the tour ID from the request and fetches the record.
func (h *Handler) requireTour(w http.ResponseWriter, r *http.Request) (model.Tour, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeBadRequest(w, CodeInvalidID, "Invalid tour ID")
		return model.Tour{}, false
	}

	tour, err := h.queries.GetTourByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeNotFound(w, "TOUR_NOT_FOUND", "Tour not found")
		} else {
			writeInternalError(w, "failed to retrieve tour", err)
		}
		return model.Tour{}, false
	}
	return tour, true
}
