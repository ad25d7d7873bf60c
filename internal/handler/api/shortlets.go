// Copyright (c) 2025-2026 Voyago
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/voyago/voyago-cms/internal/model"
	"github.com/voyago/voyago-cms/internal/store"
)

// CreateShortletRequest is the request body for creating a shortlet.
type CreateShortletRequest struct {
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Description   string     `json:"description"`
	Location      string     `json:"location"`
	PricePerNight FlexInt    `json:"price_per_night"`
	Bedrooms      FlexInt    `json:"bedrooms"`
	Amenities     StringList `json:"amenities"`
	Images        StringList `json:"images"`
	Status        string     `json:"status"`
}

// UpdateShortletRequest is the request body for updating a shortlet.
// Absent fields are left unchanged.
type UpdateShortletRequest struct {
	Title         *string     `json:"title"`
	Slug          *string     `json:"slug"`
	Description   *string     `json:"description"`
	Location      *string     `json:"location"`
	PricePerNight *FlexInt    `json:"price_per_night"`
	Bedrooms      *FlexInt    `json:"bedrooms"`
	Amenities     *StringList `json:"amenities"`
	Images        *StringList `json:"images"`
	Rating        *FlexFloat  `json:"rating"`
	ReviewsCount  *FlexInt    `json:"reviews_count"`
	Status        *string     `json:"status"`
}

// ListShortlets handles GET /api/cms/shortlets
// With ?id=<n> it switches to single-object mode.
func (h *Handler) ListShortlets(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("id") != "" {
		h.GetShortlet(w, r)
		return
	}

	limit, offset := parseListWindow(r)

	status := r.URL.Query().Get("status")
	if status != "" && !model.IsValidListingStatus(status) {
		writeBadRequest(w, "INVALID_STATUS", "Status must be one of: active, inactive")
		return
	}

	params := store.ListShortletsParams{
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
		Status:   status,
		Location: strings.TrimSpace(r.URL.Query().Get("location")),
		Limit:    limit,
		Offset:   offset,
	}
	if s := r.URL.Query().Get("min_price"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			params.MinPrice = &v
		}
	}
	if s := r.URL.Query().Get("max_price"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			params.MaxPrice = &v
		}
	}

	shortlets, err := h.queries.ListShortlets(r.Context(), params)
	if err != nil {
		writeInternalError(w, "failed to list shortlets", err)
		return
	}

	writeJSON(w, http.StatusOK, shortlets)
}

// GetShortlet handles GET /api/cms/shortlets/{id}
func (h *Handler) GetShortlet(w http.ResponseWriter, r *http.Request) {
	shortlet, ok := h.requireShortlet(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, shortlet)
}

// CreateShortlet handles POST /api/cms/shortlets
func (h *Handler) CreateShortlet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateShortletRequest
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
	location := strings.TrimSpace(req.Location)
	if location == "" {
		writeBadRequest(w, "MISSING_LOCATION", "Location is required")
		return
	}

	if !req.PricePerNight.Set {
		writeBadRequest(w, "MISSING_PRICE_PER_NIGHT", "price_per_night is required")
		return
	}
	if !req.PricePerNight.Valid || req.PricePerNight.Value <= 0 {
		writeBadRequest(w, "INVALID_PRICE_PER_NIGHT", "price_per_night must be a positive number")
		return
	}
	if !req.Bedrooms.Set {
		writeBadRequest(w, "MISSING_BEDROOMS", "bedrooms is required")
		return
	}
	if !req.Bedrooms.Valid || req.Bedrooms.Value <= 0 {
		writeBadRequest(w, "INVALID_BEDROOMS", "bedrooms must be a positive number")
		return
	}

	if req.Amenities.Set && !req.Amenities.OK() {
		writeBadRequest(w, "INVALID_AMENITIES_JSON", "amenities must be an array of strings")
		return
	}
	if req.Images.Set && !req.Images.OK() {
		writeBadRequest(w, "INVALID_IMAGES_JSON", "images must be an array of strings")
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

	exists, err := h.queries.ShortletSlugExists(ctx, slug)
	if err != nil {
		writeInternalError(w, "failed to check slug", err)
		return
	}
	if exists {
		writeBadRequest(w, "SLUG_EXISTS", "A shortlet with this slug already exists")
		return
	}

	now := time.Now()
	shortlet, err := h.queries.CreateShortlet(ctx, store.CreateShortletParams{
		Title:         title,
		Slug:          slug,
		Description:   description,
		Location:      location,
		PricePerNight: req.PricePerNight.Value,
		Bedrooms:      req.Bedrooms.Value,
		Amenities:     req.Amenities.Values,
		Images:        req.Images.Values,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeBadRequest(w, "SLUG_EXISTS", "A shortlet with this slug already exists")
			return
		}
		writeInternalError(w, "failed to create shortlet", err)
		return
	}

	writeJSON(w, http.StatusCreated, shortlet)
}

// UpdateShortlet handles PUT /api/cms/shortlets/{id} and PUT /api/cms/shortlets?id=<n>
func (h *Handler) UpdateShortlet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := h.requireShortlet(w, r)
	if !ok {
		return
	}

	var req UpdateShortletRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, CodeInvalidJSON, "Invalid JSON body")
		return
	}

	params := store.UpdateShortletParams{
		ID:            existing.ID,
		Title:         existing.Title,
		Slug:          existing.Slug,
		Description:   existing.Description,
		Location:      existing.Location,
		PricePerNight: existing.PricePerNight,
		Bedrooms:      existing.Bedrooms,
		Amenities:     existing.Amenities,
		Images:        existing.Images,
		Rating:        existing.Rating,
		ReviewsCount:  existing.ReviewsCount,
		Status:        existing.Status,
		UpdatedAt:     time.Now(),
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
			exists, err := h.queries.ShortletSlugExistsExcluding(ctx, store.ShortletSlugExistsExcludingParams{
				Slug: slug,
				ID:   existing.ID,
			})
			if err != nil {
				writeInternalError(w, "failed to check slug", err)
				return
			}
			if exists {
				writeBadRequest(w, "SLUG_EXISTS", "A shortlet with this slug already exists")
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

	if req.Location != nil {
		location := strings.TrimSpace(*req.Location)
		if location == "" {
			writeBadRequest(w, "MISSING_LOCATION", "Location is required")
			return
		}
		params.Location = location
	}

	if req.PricePerNight != nil {
		if !req.PricePerNight.Valid || req.PricePerNight.Value <= 0 {
			writeBadRequest(w, "INVALID_PRICE_PER_NIGHT", "price_per_night must be a positive number")
			return
		}
		params.PricePerNight = req.PricePerNight.Value
	}

	if req.Bedrooms != nil {
		if !req.Bedrooms.Valid || req.Bedrooms.Value <= 0 {
			writeBadRequest(w, "INVALID_BEDROOMS", "bedrooms must be a positive number")
			return
		}
		params.Bedrooms = req.Bedrooms.Value
	}

	if req.Amenities != nil {
		if !req.Amenities.OK() {
			writeBadRequest(w, "INVALID_AMENITIES_JSON", "amenities must be an array of strings")
			return
		}
		params.Amenities = req.Amenities.Values
	}

	if req.Images != nil {
		if !req.Images.OK() {
			writeBadRequest(w, "INVALID_IMAGES_JSON", "images must be an array of strings")
			return
		}
		params.Images = req.Images.Values
	}

	if req.Rating != nil {
		if !req.Rating.Valid || req.Rating.Value < 0 || req.Rating.Value > 5 {
			writeBadRequest(w, "INVALID_RATING", "rating must be a number between 0 and 5")
			return
		}
		params.Rating = req.Rating.Value
	}

	if req.ReviewsCount != nil {
		if !req.ReviewsCount.Valid || req.ReviewsCount.Value < 0 {
			writeBadRequest(w, "INVALID_REVIEWS_COUNT", "reviews_count must be a non-negative number")
			return
		}
		params.ReviewsCount = req.ReviewsCount.Value
	}

	if req.Status != nil {
		if !model.IsValidListingStatus(*req.Status) {
			writeBadRequest(w, "INVALID_STATUS", "Status must be one of: active, inactive")
			return
		}
		params.Status = *req.Status
	}

	shortlet, err := h.queries.UpdateShortlet(ctx, params)
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeBadRequest(w, "SLUG_EXISTS", "A shortlet with this slug already exists")
			return
		}
		writeInternalError(w, "failed to update shortlet", err)
		return
	}

	writeJSON(w, http.StatusOK, shortlet)
}

// DeleteShortlet handles DELETE /api/cms/shortlets/{id}
func (h *Handler) DeleteShortlet(w http.ResponseWriter, r *http.Request) {
	shortlet, ok := h.requireShortlet(w, r)
	if !ok {
		return
	}

	if err := h.queries.DeleteShortlet(r.Context(), shortlet.ID); err != nil {
		writeInternalError(w, "failed to delete shortlet", err)
		return
	}

	writeDeleted(w, "Shortlet deleted", "shortlet", shortlet)
}

// requireShortlet parses the shortlet ID from the request and fetches the record.
func (h *Handler) requireShortlet(w http.ResponseWriter, r *http.Request) (model.Shortlet, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeBadRequest(w, CodeInvalidID, "Invalid shortlet ID")
		return model.Shortlet{}, false
	}

	shortlet, err := h.queries.GetShortletByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeNotFound(w, "SHORTLET_NOT_FOUND", "Shortlet not found")
		} else {
			writeInternalError(w, "failed to retrieve shortlet", err)
		}
		return model.Shortlet{}, false
	}
	return shortlet, true
}
