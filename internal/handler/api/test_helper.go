// Copyright (c) 2025-2026 Voyago
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"

	"github.com/voyago/voyago-cms/internal/model"
)

// testDB creates an in-memory SQLite database with the CMS tables for testing.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			full_name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'viewer',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);
		CREATE UNIQUE INDEX idx_users_email ON users(lower(email));

		CREATE TABLE pages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			slug TEXT NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			meta_title TEXT NOT NULL DEFAULT '',
			meta_description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'draft',
			created_by INTEGER NOT NULL REFERENCES users(id),
			updated_by INTEGER REFERENCES users(id),
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			published_at DATETIME
		);
		CREATE UNIQUE INDEX idx_pages_slug ON pages(slug);

		CREATE TABLE shortlets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			slug TEXT NOT NULL,
			description TEXT NOT NULL,
			location TEXT NOT NULL,
			price_per_night INTEGER NOT NULL,
			bedrooms INTEGER NOT NULL,
			amenities TEXT NOT NULL DEFAULT '[]',
			images TEXT NOT NULL DEFAULT '[]',
			rating REAL NOT NULL DEFAULT 0,
			reviews_count INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'active',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);
		CREATE UNIQUE INDEX idx_shortlets_slug ON shortlets(slug);

		CREATE TABLE tours (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			slug TEXT NOT NULL,
			description TEXT NOT NULL,
			duration TEXT NOT NULL,
			price_from INTEGER NOT NULL,
			tag TEXT NOT NULL DEFAULT '',
			images TEXT NOT NULL DEFAULT '[]',
			itinerary TEXT NOT NULL DEFAULT '[]',
			inclusions TEXT NOT NULL DEFAULT '[]',
			exclusions TEXT NOT NULL DEFAULT '[]',
			status TEXT NOT NULL DEFAULT 'active',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);
		CREATE UNIQUE INDEX idx_tours_slug ON tours(slug);

		CREATE TABLE media (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			uuid TEXT NOT NULL UNIQUE,
			filename TEXT NOT NULL,
			original_name TEXT NOT NULL,
			mime_type TEXT NOT NULL,
			size INTEGER NOT NULL,
			url TEXT NOT NULL,
			alt_text TEXT NOT NULL DEFAULT '',
			uploaded_by INTEGER NOT NULL REFERENCES users(id),
			created_at DATETIME NOT NULL
		);
	`

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// testSetup creates a test database and API handler for testing.
func testSetup(t *testing.T) (*sql.DB, *Handler) {
	t.Helper()
	db := testDB(t)
	return db, NewHandler(db)
}

// createTestUser creates a test user in the database.
func createTestUser(t *testing.T, db *sql.DB, email, role string) model.User {
	t.Helper()
	now := time.Now()

	result, err := db.Exec(
		`INSERT INTO users (email, password_hash, full_name, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		email, "x", "Test User", role, now, now,
	)
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	id, _ := result.LastInsertId()
	return model.User{
		ID:        id,
		Email:     email,
		FullName:  "Test User",
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// createTestPage creates a test page in the database.
func createTestPage(t *testing.T, db *sql.DB, slug, status string, createdBy int64) model.Page {
	t.Helper()
	now := time.Now()

	var publishedAt any
	if status == model.PageStatusPublished {
		publishedAt = now
	}
	result, err := db.Exec(
		`INSERT INTO pages (slug, title, content, status, created_by, created_at, updated_at, published_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		slug, "Title "+slug, "content", status, createdBy, now, now, publishedAt,
	)
	if err != nil {
		t.Fatalf("failed to create test page: %v", err)
	}

	id, _ := result.LastInsertId()
	return model.Page{
		ID:        id,
		Slug:      slug,
		Title:     "Title " + slug,
		Content:   "content",
		Status:    status,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// createTestShortlet creates a test shortlet in the database.
func createTestShortlet(t *testing.T, db *sql.DB, slug string) model.Shortlet {
	t.Helper()
	now := time.Now()

	result, err := db.Exec(
		`INSERT INTO shortlets (title, slug, description, location, price_per_night, bedrooms, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		"Shortlet "+slug, slug, "desc", "Lagos", 50000, 2, now, now,
	)
	if err != nil {
		t.Fatalf("failed to create test shortlet: %v", err)
	}

	id, _ := result.LastInsertId()
	return model.Shortlet{
		ID:            id,
		Title:         "Shortlet " + slug,
		Slug:          slug,
		Description:   "desc",
		Location:      "Lagos",
		PricePerNight: 50000,
		Bedrooms:      2,
		Status:        model.ListingStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// createTestTour creates a test tour in the database.
func createTestTour(t *testing.T, db *sql.DB, slug string) model.Tour {
	t.Helper()
	now := time.Now()

	result, err := db.Exec(
		`INSERT INTO tours (title, slug, description, duration, price_from, tag, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		"Tour "+slug, slug, "desc", "5 days", 200000, "adventure", now, now,
	)
	if err != nil {
		t.Fatalf("failed to create test tour: %v", err)
	}

	id, _ := result.LastInsertId()
	return model.Tour{
		ID:          id,
		Title:       "Tour " + slug,
		Slug:        slug,
		Description: "desc",
		Duration:    "5 days",
		PriceFrom:   200000,
		Tag:         "adventure",
		Status:      model.ListingStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// createTestMedia creates a test media record in the database.
func createTestMedia(t *testing.T, db *sql.DB, uuid, filename string, uploadedBy int64) model.Media {
	t.Helper()
	now := time.Now()

	result, err := db.Exec(
		`INSERT INTO media (uuid, filename, original_name, mime_type, size, url, uploaded_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid, filename, filename, "image/jpeg", 1024, "/uploads/"+filename, uploadedBy, now,
	)
	if err != nil {
		t.Fatalf("failed to create test media: %v", err)
	}

	id, _ := result.LastInsertId()
	return model.Media{
		ID:         id,
		UUID:       uuid,
		Filename:   filename,
		MimeType:   "image/jpeg",
		Size:       1024,
		UploadedBy: uploadedBy,
		CreatedAt:  now,
	}
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// newJSONRequest creates an HTTP request with JSON body and optional URL params.
func newJSONRequest(t *testing.T, method, path string, body string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	return req
}

// newGetRequest creates an HTTP GET request with optional URL params.
func newGetRequest(t *testing.T, path string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	return req
}

// newDeleteRequest creates an HTTP DELETE request with optional URL params.
func newDeleteRequest(t *testing.T, path string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodDelete, path, nil)
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	return req
}

// unmarshalBody unmarshals a JSON response body into the given type.
func unmarshalBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return v
}

// unmarshalError unmarshals an API error response body.
func unmarshalError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	return unmarshalBody[errorResponse](t, w)
}

// executeHandler executes a handler and returns the response recorder.
func executeHandler(t *testing.T, handler func(http.ResponseWriter, *http.Request), req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

// countRows counts rows in a table.
func countRows(t *testing.T, db *sql.DB, table string) int64 {
	t.Helper()
	var n int64
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("failed to count %s rows: %v", table, err)
	}
	return n
}
