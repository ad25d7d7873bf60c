// Copyright (c) 2025-2026 Voyago
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/voyago/voyago-cms/internal/model"
)

const pageColumns = "id, slug, title, content, meta_title, meta_description, status, " +
	"created_by, updated_by, created_at, updated_at, published_at"

func scanPage(row interface{ Scan(...any) error }) (model.Page, error) {
	var p model.Page
	err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Content, &p.MetaTitle, &p.MetaDescription,
		&p.Status, &p.CreatedBy, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt, &p.PublishedAt)
	return p, err
}

// Sortable page columns, keyed by the API sort parameter.
var pageSortColumns = map[string]string{
	"title":       "title",
	"status":      "status",
	"publishedAt": "published_at",
	"createdAt":   "created_at",
}

// ListPagesParams holds filters for ListPages.
type ListPagesParams struct {
	Status string
	Search string
	Sort   string // one of title, status, publishedAt, createdAt
	Order  string // asc or desc
	Limit  int64
	Offset int64
}

// ListPages returns pages filtered by status and a free-text search over
// title, slug, and content, sorted by the requested column.
func (q *Queries) ListPages(ctx context.Context, arg ListPagesParams) ([]model.Page, error) {
	query := "SELECT " + pageColumns + " FROM pages"
	var conds []string
	var args []any

	if arg.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, arg.Status)
	}
	if arg.Search != "" {
		conds = append(conds, "(title LIKE ? OR slug LIKE ? OR content LIKE ?)")
		pattern := "%" + arg.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	col, ok := pageSortColumns[arg.Sort]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if strings.EqualFold(arg.Order, "desc") {
		dir = "DESC"
	}
	query += " ORDER BY " + col + " " + dir + " LIMIT ? OFFSET ?"
	args = append(args, arg.Limit, arg.Offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pages := []model.Page{}
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// GetPageByID returns a single page by id.
func (q *Queries) GetPageByID(ctx context.Context, id int64) (model.Page, error) {
	row := q.db.QueryRowContext(ctx, "SELECT "+pageColumns+" FROM pages WHERE id = ?", id)
	return scanPage(row)
}

// GetPublishedPageBySlug returns a page by slug only if it is published.
// Draft and archived pages are invisible to the public slug lookup.
func (q *Queries) GetPublishedPageBySlug(ctx context.Context, slug string) (model.Page, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+pageColumns+" FROM pages WHERE slug = ? AND status = ?",
		slug, model.PageStatusPublished)
	return scanPage(row)
}

// PageSlugExists reports whether any page has the given slug.
func (q *Queries) PageSlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pages WHERE slug = ?", slug).Scan(&n)
	return n > 0, err
}

// PageSlugExistsExcludingParams holds arguments for PageSlugExistsExcluding.
type PageSlugExistsExcludingParams struct {
	Slug string
	ID   int64
}

// PageSlugExistsExcluding reports whether a page other than id has the slug.
func (q *Queries) PageSlugExistsExcluding(ctx context.Context, arg PageSlugExistsExcludingParams) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM pages WHERE slug = ? AND id != ?", arg.Slug, arg.ID).Scan(&n)
	return n > 0, err
}

// CreatePageParams holds the fields for CreatePage.
type CreatePageParams struct {
	Slug            string
	Title           string
	Content         string
	MetaTitle       string
	MetaDescription string
	Status          string
	CreatedBy       int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	PublishedAt     sql.NullTime
}

// CreatePage inserts a page and returns the stored row.
func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (model.Page, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO pages (slug, title, content, meta_title, meta_description, status,
			created_by, created_at, updated_at, published_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+pageColumns,
		arg.Slug, arg.Title, arg.Content, arg.MetaTitle, arg.MetaDescription, arg.Status,
		arg.CreatedBy, arg.CreatedAt, arg.UpdatedAt, arg.PublishedAt)
	return scanPage(row)
}

// UpdatePageParams holds the fields for UpdatePage.
type UpdatePageParams struct {
	ID              int64
	Slug            string
	Title           string
	Content         string
	MetaTitle       string
	MetaDescription string
	Status          string
	UpdatedBy       sql.NullInt64
	UpdatedAt       time.Time
	PublishedAt     sql.NullTime
}

// UpdatePage updates a page row and returns the stored row.
func (q *Queries) UpdatePage(ctx context.Context, arg UpdatePageParams) (model.Page, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE pages
		SET slug = ?, title = ?, content = ?, meta_title = ?, meta_description = ?,
			status = ?, updated_by = ?, updated_at = ?, published_at = ?
		WHERE id = ?
		RETURNING `+pageColumns,
		arg.Slug, arg.Title, arg.Content, arg.MetaTitle, arg.MetaDescription,
		arg.Status, arg.UpdatedBy, arg.UpdatedAt, arg.PublishedAt, arg.ID)
	return scanPage(row)
}

// DeletePage removes a page row.
func (q *Queries) DeletePage(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM pages WHERE id = ?", id)
	return err
}
