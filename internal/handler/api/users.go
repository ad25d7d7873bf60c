// Copyright (c) 2025-2026 Voyago
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/voyago/voyago-cms/internal/auth"
	"github.com/voyago/voyago-cms/internal/model"
	"github.com/voyago/voyago-cms/internal/store"
)

// emailRegex is deliberately permissive: local@domain.tld shape only.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// CreateUserRequest is the request body for creating a user.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// UpdateUserRequest is the request body for updating a user.
// Absent fields are left unchanged.
type UpdateUserRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
}

// ListUsers handles GET /api/cms/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseListWindow(r)

	users, err := h.queries.ListUsers(r.Context(), store.ListUsersParams{
		Role:   strings.TrimSpace(r.URL.Query().Get("role")),
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeInternalError(w, "failed to list users", err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// GetUser handles GET /api/cms/users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// CreateUser handles POST /api/cms/users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, CodeInvalidJSON, "Invalid JSON body")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		writeBadRequest(w, "MISSING_EMAIL", "Email is required")
		return
	}
	if !emailRegex.MatchString(email) {
		writeBadRequest(w, "INVALID_EMAIL", "Email address is not valid")
		return
	}

	if req.Password == "" {
		writeBadRequest(w, "MISSING_PASSWORD", "Password is required")
		return
	}
	if len(req.Password) < auth.MinPasswordLength {
		writeBadRequest(w, "INVALID_PASSWORD", "Password must be at least 8 characters")
		return
	}

	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		writeBadRequest(w, "MISSING_FULL_NAME", "Full name is required")
		return
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = model.RoleViewer
	}
	if !model.IsValidRole(role) {
		writeBadRequest(w, "INVALID_ROLE", "Role must be one of: admin, editor, viewer")
		return
	}

	exists, err := h.queries.EmailExists(ctx, email)
	if err != nil {
		writeInternalError(w, "failed to check email", err)
		return
	}
	if exists {
		writeBadRequest(w, "EMAIL_EXISTS", "A user with this email already exists")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeInternalError(w, "failed to hash password", err)
		return
	}

	now := time.Now()
	user, err := h.queries.CreateUser(ctx, store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// The unique index on lower(email) closes the check-then-insert race.
		if store.IsUniqueViolation(err) {
			writeBadRequest(w, "EMAIL_EXISTS", "A user with this email already exists")
			return
		}
		writeInternalError(w, "failed to create user", err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// UpdateUser handles PUT /api/cms/users/{id}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, CodeInvalidJSON, "Invalid JSON body")
		return
	}

	params := store.UpdateUserParams{
		ID:           existing.ID,
		Email:        existing.Email,
		PasswordHash: existing.PasswordHash,
		FullName:     existing.FullName,
		Role:         existing.Role,
		UpdatedAt:    time.Now(),
	}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" {
			writeBadRequest(w, "MISSING_EMAIL", "Email is required")
			return
		}
		if !emailRegex.MatchString(email) {
			writeBadRequest(w, "INVALID_EMAIL", "Email address is not valid")
			return
		}
		if !strings.EqualFold(email, existing.Email) {
			exists, err := h.queries.EmailExistsExcluding(ctx, store.EmailExistsExcludingParams{
				Email: email,
				ID:    existing.ID,
			})
			if err != nil {
				writeInternalError(w, "failed to check email", err)
				return
			}
			if exists {
				writeBadRequest(w, "EMAIL_EXISTS", "A user with this email already exists")
				return
			}
		}
		params.Email = email
	}

	if req.Password != nil {
		if len(*req.Password) < auth.MinPasswordLength {
			writeBadRequest(w, "INVALID_PASSWORD", "Password must be at least 8 characters")
			return
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			writeInternalError(w, "failed to hash password", err)
			return
		}
		params.PasswordHash = hash
	}

	if req.FullName != nil {
		fullName := strings.TrimSpace(*req.FullName)
		if fullName == "" {
			writeBadRequest(w, "MISSING_FULL_NAME", "Full name is required")
			return
		}
		params.FullName = fullName
	}

	if req.Role != nil {
		role := strings.TrimSpace(*req.Role)
		if !model.IsValidRole(role) {
			writeBadRequest(w, "INVALID_ROLE", "Role must be one of: admin, editor, viewer")
			return
		}
		params.Role = role
	}

	user, err := h.queries.UpdateUser(ctx, params)
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeBadRequest(w, "EMAIL_EXISTS", "A user with this email already exists")
			return
		}
		writeInternalError(w, "failed to update user", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// DeleteUser handles DELETE /api/cms/users/{id}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	if err := h.queries.DeleteUser(r.Context(), user.ID); err != nil {
		writeInternalError(w, "failed to delete user", err)
		return
	}

	writeDeleted(w, "User deleted", "user", user)
}

// requireUser parses the user ID from the request and fetches the user.
// Returns the user and true on success; on failure the response is written.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (model.User, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeBadRequest(w, CodeInvalidID, "Invalid user ID")
		return model.User{}, false
	}

	user, err := h.queries.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeNotFound(w, "USER_NOT_FOUND", "User not found")
		} else {
			writeInternalError(w, "failed to retrieve user", err)
		}
		return model.User{}, false
	}
	return user, true
}
