// Copyright (c) 2025-2026 Voyago
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/voyago/voyago-cms/internal/model"
)

const tourColumns = "id, title, slug, description, duration, price_from, tag, " +
	"images, itinerary, inclusions, exclusions, status, created_at, updated_at"

func scanTour(row interface{ Scan(...any) error }) (model.Tour, error) {
	var t model.Tour
	var images, itinerary, inclusions, exclusions string
	err := row.Scan(&t.ID, &t.Title, &t.Slug, &t.Description, &t.Duration, &t.PriceFrom,
		&t.Tag, &images, &itinerary, &inclusions, &exclusions, &t.Status,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return t, err
	}
	t.Images = decodeStringList(images)
	t.Inclusions = decodeStringList(inclusions)
	t.Exclusions = decodeStringList(exclusions)
	t.Itinerary = []model.ItineraryDay{}
	_ = json.Unmarshal([]byte(itinerary), &t.Itinerary)
	return t, nil
}

// ListToursParams holds filters for ListTours.
type ListToursParams struct {
	Search string
	Status string
	Tag    string
	Limit  int64
	Offset int64
}

// ListTours returns tours filtered by status, tag, and a free-text search
// over title and description.
func (q *Queries) ListTours(ctx context.Context, arg ListToursParams) ([]model.Tour, error) {
	query := "SELECT " + tourColumns + " FROM tours"
	var conds []string
	var args []any

	if arg.Search != "" {
		conds = append(conds, "(title LIKE ? OR description LIKE ?)")
		pattern := "%" + arg.Search + "%"
		args = append(args, pattern, pattern)
	}
	if arg.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, arg.Status)
	}
	if arg.Tag != "" {
		conds = append(conds, "tag = ?")
		args = append(args, arg.Tag)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, arg.Limit, arg.Offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tours := []model.Tour{}
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, err
		}
		tours = append(tours, t)
	}
	return tours, rows.Err()
}

// GetTourByID returns a single tour by id.
func (q *Queries) GetTourByID(ctx context.Context, id int64) (model.Tour, error) {
	row := q.db.QueryRowContext(ctx, "SELECT "+tourColumns+" FROM tours WHERE id = ?", id)
	return scanTour(row)
}

// TourSlugExists reports whether any tour has the given slug.
func (q *Queries) TourSlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tours WHERE slug = ?", slug).Scan(&n)
	return n > 0, err
}

// TourSlugExistsExcludingParams holds arguments for TourSlugExistsExcluding.
type TourSlugExistsExcludingParams struct {
	Slug string
	ID   int64
}

// TourSlugExistsExcluding reports whether a tour other than id has the slug.
func (q *Queries) TourSlugExistsExcluding(ctx context.Context, arg TourSlugExistsExcludingParams) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tours WHERE slug = ? AND id != ?", arg.Slug, arg.ID).Scan(&n)
	return n > 0, err
}

// CreateTourParams holds the fields for CreateTour.
type CreateTourParams struct {
	Title       string
	Slug        string
	Description string
	Duration    string
	PriceFrom   int64
	Tag         string
	Images      []string
	Itinerary   []model.ItineraryDay
	Inclusions  []string
	Exclusions  []string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateTour inserts a tour and returns the stored row.
func (q *Queries) CreateTour(ctx context.Context, arg CreateTourParams) (model.Tour, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO tours (title, slug, description, duration, price_from, tag,
			images, itinerary, inclusions, exclusions, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+tourColumns,
		arg.Title, arg.Slug, arg.Description, arg.Duration, arg.PriceFrom, arg.Tag,
		encodeJSON(arg.Images), encodeJSON(arg.Itinerary), encodeJSON(arg.Inclusions),
		encodeJSON(arg.Exclusions), arg.Status, arg.CreatedAt, arg.UpdatedAt)
	return scanTour(row)
}

// UpdateTourParams holds the fields for UpdateTour.
type UpdateTourParams struct {
	ID          int64
	Title       string
	Slug        string
	Description string
	Duration    string
	PriceFrom   int64
	Tag         string
	Images      []string
	Itinerary   []model.ItineraryDay
	Inclusions  []string
	Exclusions  []string
	Status      string
	UpdatedAt   time.Time
}

// UpdateTour updates a tour row and returns the stored row.
func (q *Queries) UpdateTour(ctx context.Context, arg UpdateTourParams) (model.Tour, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE tours
		SET title = ?, slug = ?, description = ?, duration = ?, price_from = ?, tag = ?,
			images = ?, itinerary = ?, inclusions = ?, exclusions = ?, status = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+tourColumns,
		arg.Title, arg.Slug, arg.Description, arg.Duration, arg.PriceFrom, arg.Tag,
		encodeJSON(arg.Images), encodeJSON(arg.Itinerary), encodeJSON(arg.Inclusions),
		encodeJSON(arg.Exclusions), arg.Status, arg.UpdatedAt, arg.ID)
	return scanTour(row)
}

// DeleteTour removes a tour row.
func (q *Queries) DeleteTour(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM tours WHERE id = ?", id)
	return err
}
