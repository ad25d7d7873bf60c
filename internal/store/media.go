// Copyright (c) 2025-2026 Voyago
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"strings"
	"time"

	"github.com/voyago/voyago-cms/internal/model"
)

const mediaColumns = "id, uuid, filename, original_name, mime_type, size, url, " +
	"alt_text, uploaded_by, created_at"

func scanMedia(row interface{ Scan(...any) error }) (model.Media, error) {
	var m model.Media
	err := row.Scan(&m.ID, &m.UUID, &m.Filename, &m.OriginalName, &m.MimeType, &m.Size,
		&m.URL, &m.AltText, &m.UploadedBy, &m.CreatedAt)
	return m, err
}

// ListMediaParams holds filters for ListMedia.
type ListMediaParams struct {
	Search   string
	MimeType string
	Limit    int64
	Offset   int64
}

// ListMedia returns media records newest-first, optionally filtered by a
// filename search and an exact MIME type.
func (q *Queries) ListMedia(ctx context.Context, arg ListMediaParams) ([]model.Media, error) {
	query := "SELECT " + mediaColumns + " FROM media"
	var conds []string
	var args []any

	if arg.Search != "" {
		conds = append(conds, "filename LIKE ?")
		args = append(args, "%"+arg.Search+"%")
	}
	if arg.MimeType != "" {
		conds = append(conds, "mime_type = ?")
		args = append(args, arg.MimeType)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, arg.Limit, arg.Offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	media := []model.Media{}
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		media = append(media, m)
	}
	return media, rows.Err()
}

// GetMediaByID returns a single media record by id.
func (q *Queries) GetMediaByID(ctx context.Context, id int64) (model.Media, error) {
	row := q.db.QueryRowContext(ctx, "SELECT "+mediaColumns+" FROM media WHERE id = ?", id)
	return scanMedia(row)
}

// CreateMediaParams holds the fields for CreateMedia.
type CreateMediaParams struct {
	UUID         string
	Filename     string
	OriginalName string
	MimeType     string
	Size         int64
	URL          string
	AltText      string
	UploadedBy   int64
	CreatedAt    time.Time
}

// CreateMedia inserts a media record and returns the stored row.
func (q *Queries) CreateMedia(ctx context.Context, arg CreateMediaParams) (model.Media, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO media (uuid, filename, original_name, mime_type, size, url,
			alt_text, uploaded_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+mediaColumns,
		arg.UUID, arg.Filename, arg.OriginalName, arg.MimeType, arg.Size, arg.URL,
		arg.AltText, arg.UploadedBy, arg.CreatedAt)
	return scanMedia(row)
}

// DeleteMedia removes a media record.
func (q *Queries) DeleteMedia(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM media WHERE id = ?", id)
	return err
}
