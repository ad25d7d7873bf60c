// Copyright (c) 2025-2026 Voyago
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"strings"
	"time"

	"github.com/voyago/voyago-cms/internal/model"
)

const userColumns = "id, email, password_hash, full_name, role, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// ListUsersParams holds filters for ListUsers.
type ListUsersParams struct {
	Role   string
	Search string
	Limit  int64
	Offset int64
}

// ListUsers returns users in insertion order, optionally filtered by role
// and a free-text search over email and full name.
func (q *Queries) ListUsers(ctx context.Context, arg ListUsersParams) ([]model.User, error) {
	query := "SELECT " + userColumns + " FROM users"
	var conds []string
	var args []any

	if arg.Role != "" {
		conds = append(conds, "role = ?")
		args = append(args, arg.Role)
	}
	if arg.Search != "" {
		conds = append(conds, "(email LIKE ? OR full_name LIKE ?)")
		pattern := "%" + arg.Search + "%"
		args = append(args, pattern, pattern)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id LIMIT ? OFFSET ?"
	args = append(args, arg.Limit, arg.Offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetUserByID returns a single user by id.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	row := q.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

// GetUserByEmail returns a single user by email, compared case-insensitively.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE lower(email) = lower(?)", email)
	return scanUser(row)
}

// UserExists reports whether a user with the given id exists.
func (q *Queries) UserExists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE id = ?", id).Scan(&n)
	return n > 0, err
}

// EmailExists reports whether any user has the given email (case-insensitive).
func (q *Queries) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE lower(email) = lower(?)", email).Scan(&n)
	return n > 0, err
}

// EmailExistsExcluding reports whether a user other than id has the given email.
type EmailExistsExcludingParams struct {
	Email string
	ID    int64
}

// EmailExistsExcluding reports whether any other user holds the given email.
func (q *Queries) EmailExistsExcluding(ctx context.Context, arg EmailExistsExcludingParams) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE lower(email) = lower(?) AND id != ?",
		arg.Email, arg.ID).Scan(&n)
	return n > 0, err
}

// CountUsers returns the total number of users.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}

// CreateUserParams holds the fields for CreateUser.
type CreateUserParams struct {
	Email        string
	PasswordHash string
	FullName     string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUser inserts a user and returns the stored row.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, full_name, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+userColumns,
		arg.Email, arg.PasswordHash, arg.FullName, arg.Role, arg.CreatedAt, arg.UpdatedAt)
	return scanUser(row)
}

// UpdateUserParams holds the fields for UpdateUser.
type UpdateUserParams struct {
	ID           int64
	Email        string
	PasswordHash string
	FullName     string
	Role         string
	UpdatedAt    time.Time
}

// UpdateUser updates a user row and returns the stored row.
func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE users
		SET email = ?, password_hash = ?, full_name = ?, role = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+userColumns,
		arg.Email, arg.PasswordHash, arg.FullName, arg.Role, arg.UpdatedAt, arg.ID)
	return scanUser(row)
}

// DeleteUser removes a user row.
func (q *Queries) DeleteUser(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	return err
}
