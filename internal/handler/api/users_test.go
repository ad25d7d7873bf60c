// Copyright (c) 2025-2026 Voyago
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/voyago/voyago-cms/internal/model"
)

func TestCreateUser(t *testing.T) {
	_, h := testSetup(t)

	body := `{"email": "jane@example.com", "password": "secret123", "full_name": "Jane Doe", "role": "editor"}`
	req := newJSONRequest(t, http.MethodPost, "/api/cms/users", body, nil)
	w := executeHandler(t, h.CreateUser, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	user := unmarshalBody[model.User](t, w)
	if user.Email != "jane@example.com" {
		t.Errorf("expected email jane@example.com, got %s", user.Email)
	}
	if user.Role != model.RoleEditor {
		t.Errorf("expected role editor, got %s", user.Role)
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Error("response must not contain the password hash")
	}
}

func TestCreateUser_DefaultsRoleToViewer(t *testing.T) {
	_, h := testSetup(t)

	body := `{"email": "jane@example.com", "password": "secret123", "full_name": "Jane Doe"}`
	req := newJSONRequest(t, http.MethodPost, "/api/cms/users", body, nil)
	w := executeHandler(t, h.CreateUser, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	user := unmarshalBody[model.User](t, w)
	if user.Role != model.RoleViewer {
		t.Errorf("expected default role viewer, got %s", user.Role)
	}
}

func TestCreateUser_Validation(t *testing.T) {
	_, h := testSetup(t)

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"missing email", `{"password": "secret123", "full_name": "Jane"}`, "MISSING_EMAIL"},
		{"empty email", `{"email": "  ", "password": "secret123", "full_name": "Jane"}`, "MISSING_EMAIL"},
		{"bad email", `{"email": "not-an-email", "password": "secret123", "full_name": "Jane"}`, "INVALID_EMAIL"},
		{"missing password", `{"email": "j@example.com", "full_name": "Jane"}`, "MISSING_PASSWORD"},
		{"short password", `{"email": "j@example.com", "password": "short", "full_name": "Jane"}`, "INVALID_PASSWORD"},
		{"missing full name", `{"email": "j@example.com", "password": "secret123"}`, "MISSING_FULL_NAME"},
		{"bad role", `{"email": "j@example.com", "password": "secret123", "full_name": "Jane", "role": "root"}`, "INVALID_ROLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newJSONRequest(t, http.MethodPost, "/api/cms/users", tt.body, nil)
			w := executeHandler(t, h.CreateUser, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
			}
			if resp := unmarshalError(t, w); resp.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db, h := testSetup(t)
	createTestUser(t, db, "jane@example.com", model.RoleAdmin)

	// Duplicate check is case-insensitive.
	body := `{"email": "JANE@example.com", "password": "secret123", "full_name": "Other Jane"}`
	req := newJSONRequest(t, http.MethodPost, "/api/cms/users", body, nil)
	w := executeHandler(t, h.CreateUser, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
	if resp := unmarshalError(t, w); resp.Code != "EMAIL_EXISTS" {
		t.Errorf("expected code EMAIL_EXISTS, got %s", resp.Code)
	}
	if n := countRows(t, db, "users"); n != 1 {
		t.Errorf("expected 1 user row, got %d", n)
	}
}

func TestGetUser(t *testing.T) {
	db, h := testSetup(t)
	user := createTestUser(t, db, "jane@example.com", model.RoleEditor)

	req := newGetRequest(t, "/api/cms/users/1", map[string]string{"id": strconv.FormatInt(user.ID, 10)})
	w := executeHandler(t, h.GetUser, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	got := unmarshalBody[model.User](t, w)
	if got.ID != user.ID {
		t.Errorf("expected id %d, got %d", user.ID, got.ID)
	}
	if strings.Contains(w.Body.String(), "passwordHash") || strings.Contains(w.Body.String(), "password_hash") {
		t.Error("response must not contain the password hash")
	}
}

func TestGetUser_NotFound(t *testing.T) {
	_, h := testSetup(t)

	req := newGetRequest(t, "/api/cms/users/999", map[string]string{"id": "999"})
	w := executeHandler(t, h.GetUser, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
	if resp := unmarshalError(t, w); resp.Code != "USER_NOT_FOUND" {
		t.Errorf("expected code USER_NOT_FOUND, got %s", resp.Code)
	}
}

func TestListUsers(t *testing.T) {
	db, h := testSetup(t)
	createTestUser(t, db, "a@example.com", model.RoleAdmin)
	createTestUser(t, db, "b@example.com", model.RoleViewer)

	req := newGetRequest(t, "/api/cms/users", nil)
	w := executeHandler(t, h.ListUsers, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	users := unmarshalBody[[]model.User](t, w)
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Error("list response must not contain password hashes")
	}
}

func TestListUsers_RoleFilter(t *testing.T) {
	db, h := testSetup(t)
	createTestUser(t, db, "a@example.com", model.RoleAdmin)
	createTestUser(t, db, "b@example.com", model.RoleViewer)

	req := newGetRequest(t, "/api/cms/users?role=admin", nil)
	w := executeHandler(t, h.ListUsers, req)

	users := unmarshalBody[[]model.User](t, w)
	if len(users) != 1 || users[0].Role != model.RoleAdmin {
		t.Errorf("expected one admin user, got %v", users)
	}
}

func TestUpdateUser(t *testing.T) {
	db, h := testSetup(t)
	user := createTestUser(t, db, "jane@example.com", model.RoleViewer)
	id := strconv.FormatInt(user.ID, 10)

	body := `{"full_name": "Jane Updated", "role": "editor"}`
	req := newJSONRequest(t, http.MethodPut, "/api/cms/users/"+id, body, map[string]string{"id": id})
	w := executeHandler(t, h.UpdateUser, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	got := unmarshalBody[model.User](t, w)
	if got.FullName != "Jane Updated" {
		t.Errorf("expected updated full name, got %s", got.FullName)
	}
	if got.Role != model.RoleEditor {
		t.Errorf("expected role editor, got %s", got.Role)
	}
	// Untouched field stays the same.
	if got.Email != "jane@example.com" {
		t.Errorf("expected email unchanged, got %s", got.Email)
	}
}

func TestUpdateUser_RoleTrimmed(t *testing.T) {
	db, h := testSetup(t)
	user := createTestUser(t, db, "jane@example.com", model.RoleViewer)
	id := strconv.FormatInt(user.ID, 10)

	// Whitespace around the role is ignored, same as on create.
	body := `{"role": " admin "}`
	req := newJSONRequest(t, http.MethodPut, "/api/cms/users/"+id, body, map[string]string{"id": id})
	w := executeHandler(t, h.UpdateUser, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := unmarshalBody[model.User](t, w); got.Role != model.RoleAdmin {
		t.Errorf("expected role admin, got %q", got.Role)
	}

	req = newJSONRequest(t, http.MethodPut, "/api/cms/users/"+id, `{"role": "owner"}`, map[string]string{"id": id})
	w = executeHandler(t, h.UpdateUser, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
	if resp := unmarshalError(t, w); resp.Code != "INVALID_ROLE" {
		t.Errorf("expected code INVALID_ROLE, got %s", resp.Code)
	}
}

func TestUpdateUser_EmailConflict(t *testing.T) {
	db, h := testSetup(t)
	createTestUser(t, db, "taken@example.com", model.RoleViewer)
	user := createTestUser(t, db, "jane@example.com", model.RoleViewer)
	id := strconv.FormatInt(user.ID, 10)

	body := `{"email": "taken@example.com"}`
	req := newJSONRequest(t, http.MethodPut, "/api/cms/users/"+id, body, map[string]string{"id": id})
	w := executeHandler(t, h.UpdateUser, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
	if resp := unmarshalError(t, w); resp.Code != "EMAIL_EXISTS" {
		t.Errorf("expected code EMAIL_EXISTS, got %s", resp.Code)
	}
}

func TestUpdateUser_OwnEmailAllowed(t *testing.T) {
	db, h := testSetup(t)
	user := createTestUser(t, db, "jane@example.com", model.RoleViewer)
	id := strconv.FormatInt(user.ID, 10)

	body := `{"email": "jane@example.com"}`
	req := newJSONRequest(t, http.MethodPut, "/api/cms/users/"+id, body, map[string]string{"id": id})
	w := executeHandler(t, h.UpdateUser, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteUser(t *testing.T) {
	db, h := testSetup(t)
	user := createTestUser(t, db, "jane@example.com", model.RoleViewer)
	id := strconv.FormatInt(user.ID, 10)

	req := newDeleteRequest(t, "/api/cms/users/"+id, map[string]string{"id": id})
	w := executeHandler(t, h.DeleteUser, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "User deleted") {
		t.Errorf("expected delete message in body: %s", w.Body.String())
	}
	if n := countRows(t, db, "users"); n != 0 {
		t.Errorf("expected 0 user rows after delete, got %d", n)
	}

	// Subsequent fetch is a 404.
	getReq := newGetRequest(t, "/api/cms/users/"+id, map[string]string{"id": id})
	getW := executeHandler(t, h.GetUser, getReq)
	if getW.Code != http.StatusNotFound {
		t.Errorf("expected status 404 after delete, got %d", getW.Code)
	}
}

func TestDeleteUser_NotFound(t *testing.T) {
	_, h := testSetup(t)

	req := newDeleteRequest(t, "/api/cms/users/999", map[string]string{"id": "999"})
	w := executeHandler(t, h.DeleteUser, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}
