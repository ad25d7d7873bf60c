// Copyright (c) 2025-2026 Voyago
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"strings"
	"time"

	"github.com/voyago/voyago-cms/internal/model"
)

const shortletColumns = "id, title, slug, description, location, price_per_night, bedrooms, " +
	"amenities, images, rating, reviews_count, status, created_at, updated_at"

func scanShortlet(row interface{ Scan(...any) error }) (model.Shortlet, error) {
	var s model.Shortlet
	var amenities, images string
	err := row.Scan(&s.ID, &s.Title, &s.Slug, &s.Description, &s.Location, &s.PricePerNight,
		&s.Bedrooms, &amenities, &images, &s.Rating, &s.ReviewsCount, &s.Status,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return s, err
	}
	s.Amenities = decodeStringList(amenities)
	s.Images = decodeStringList(images)
	return s, nil
}

// ListShortletsParams holds filters for ListShortlets.
type ListShortletsParams struct {
	Search   string
	Status   string
	Location string
	MinPrice *int64
	MaxPrice *int64
	Limit    int64
	Offset   int64
}

// ListShortlets returns shortlets filtered by status, location substring,
// nightly price range, and a free-text search over title and description.
func (q *Queries) ListShortlets(ctx context.Context, arg ListShortletsParams) ([]model.Shortlet, error) {
	query := "SELECT " + shortletColumns + " FROM shortlets"
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
	if arg.Location != "" {
		conds = append(conds, "location LIKE ?")
		args = append(args, "%"+arg.Location+"%")
	}
	if arg.MinPrice != nil {
		conds = append(conds, "price_per_night >= ?")
		args = append(args, *arg.MinPrice)
	}
	if arg.MaxPrice != nil {
		conds = append(conds, "price_per_night <= ?")
		args = append(args, *arg.MaxPrice)
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

	shortlets := []model.Shortlet{}
	for rows.Next() {
		s, err := scanShortlet(rows)
		if err != nil {
			return nil, err
		}
		shortlets = append(shortlets, s)
	}
	return shortlets, rows.Err()
}

// GetShortletByID returns a single shortlet by id.
func (q *Queries) GetShortletByID(ctx context.Context, id int64) (model.Shortlet, error) {
	row := q.db.QueryRowContext(ctx, "SELECT "+shortletColumns+" FROM shortlets WHERE id = ?", id)
	return scanShortlet(row)
}

// ShortletSlugExists reports whether any shortlet has the given slug.
func (q *Queries) ShortletSlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM shortlets WHERE slug = ?", slug).Scan(&n)
	return n > 0, err
}

// ShortletSlugExistsExcludingParams holds arguments for ShortletSlugExistsExcluding.
type ShortletSlugExistsExcludingParams struct {
	Slug string
	ID   int64
}

// ShortletSlugExistsExcluding reports whether a shortlet other than id has the slug.
func (q *Queries) ShortletSlugExistsExcluding(ctx context.Context, arg ShortletSlugExistsExcludingParams) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM shortlets WHERE slug = ? AND id != ?", arg.Slug, arg.ID).Scan(&n)
	return n > 0, err
}

// CreateShortletParams holds the fields for CreateShortlet.
type CreateShortletParams struct {
	Title         string
	Slug          string
	Description   string
	Location      string
	PricePerNight int64
	Bedrooms      int64
	Amenities     []string
	Images        []string
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateShortlet inserts a shortlet and returns the stored row.
// Rating and reviews count start at their zero defaults.
func (q *Queries) CreateShortlet(ctx context.Context, arg CreateShortletParams) (model.Shortlet, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO shortlets (title, slug, description, location, price_per_night, bedrooms,
			amenities, images, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+shortletColumns,
		arg.Title, arg.Slug, arg.Description, arg.Location, arg.PricePerNight, arg.Bedrooms,
		encodeJSON(arg.Amenities), encodeJSON(arg.Images), arg.Status, arg.CreatedAt, arg.UpdatedAt)
	return scanShortlet(row)
}

// UpdateShortletParams holds the fields for UpdateShortlet.
type UpdateShortletParams struct {
	ID            int64
	Title         string
	Slug          string
	Description   string
	Location      string
	PricePerNight int64
	Bedrooms      int64
	Amenities     []string
	Images        []string
	Rating        float64
	ReviewsCount  int64
	Status        string
	UpdatedAt     time.Time
}

// UpdateShortlet updates a shortlet row and returns the stored row.
func (q *Queries) UpdateShortlet(ctx context.Context, arg UpdateShortletParams) (model.Shortlet, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE shortlets
		SET title = ?, slug = ?, description = ?, location = ?, price_per_night = ?,
			bedrooms = ?, amenities = ?, images = ?, rating = ?, reviews_count = ?,
			status = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+shortletColumns,
		arg.Title, arg.Slug, arg.Description, arg.Location, arg.PricePerNight,
		arg.Bedrooms, encodeJSON(arg.Amenities), encodeJSON(arg.Images), arg.Rating,
		arg.ReviewsCount, arg.Status, arg.UpdatedAt, arg.ID)
	return scanShortlet(row)
}

// DeleteShortlet removes a shortlet row.
func (q *Queries) DeleteShortlet(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM shortlets WHERE id = ?", id)
	return err
}
