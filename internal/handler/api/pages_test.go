// Copyright (c) 2025-2026 Voyago
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"testing"

	"github.com/voyago/voyago-cms/internal/model"
)

func TestCreatePage(t *testing.T) {
	db, h := testSetup(t)
	user := createTestUser(t, db, "author@example.com", model.RoleEditor)

	body := fmt.Sprintf(`{"slug": "about-us", "title": "About Us", "content": "<p>Hello</p>", "created_by": %d}`, user.ID)
	req := newJSONRequest(t, http.MethodPost, "/api/cms/pages", body, nil)
	w := executeHandler(t, h.CreatePage, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	page := unmarshalBody[PageResponse](t, w)
	if page.Slug != "about-us" {
		t.Errorf("expected slug about-us, got %s", page.Slug)
	}
	if page.Status != model.PageStatusDraft {
		t.Errorf("expected default status draft, got %s", page.Status)
	}
	if page.PublishedAt != nil {
		t.Error("draft page must not have publishedAt set")
	}
}

func TestCreatePage_PublishedSetsPublishedAt(t *testing.T) {
	db, h := testSetup(t)
	user := createTestUser(t, db, "author@example.com", model.RoleEditor)

	body := fmt.Sprintf(`{"slug": "live", "title": "Live", "content": "c", "status": "published", "created_by": %d}`, user.ID)
	req := newJSONRequest(t, http.MethodPost, "/api/cms/pages", body, nil)
	w := executeHandler(t, h.CreatePage, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	page := unmarshalBody[PageResponse](t, w)
	if page.PublishedAt == nil {
		t.Error("publishing on create must set publishedAt")
	}
}

func TestCreatePage_Validation(t *testing.T) {
	db, h := testSetup(t)
	user := createTestUser(t, db, "author@example.com", model.RoleEditor)
	uid := user.ID

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"missing slug", fmt.Sprintf(`{"title": "T", "content": "c", "created_by": %d}`, uid), "MISSING_SLUG"},
		{"missing title", fmt.Sprintf(`{"slug": "s", "content": "c", "created_by": %d}`, uid), "MISSING_TITLE"},
		{"missing content", fmt.Sprintf(`{"slug": "s", "title": "T", "created_by": %d}`, uid), "MISSING_CONTENT"},
		{"missing created_by", `{"slug": "s", "title": "T", "content": "c"}`, "MISSING_CREATED_BY"},
		{"unknown created_by", `{"slug": "s", "title": "T", "content": "c", "created_by": 999}`, "INVALID_USER"},
		{"non-numeric created_by", `{"slug": "s", "title": "T", "content": "c", "created_by": "abc"}`, "INVALID_USER"},
		{"bad status", fmt.Sprintf(`{"slug": "s", "title": "T", "content": "c", "status": "live", "created_by": %d}`, uid), "INVALID_STATUS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newJSONRequest(t, http.MethodPost, "/api/cms/pages", tt.body, nil)
			w := executeHandler(t, h.CreatePage, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
			}
			if resp := unmarshalError(t, w); resp.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestCreatePage_SlugNormalization(t *testing.T) {
	db, h := testSetup(t)
	user := createTestUser(t, db, "author@example.com", model.RoleEditor)

	body := fmt.Sprintf(`{"slug": "About Us!", "title": "About", "content": "c", "created_by": %d}`, user.ID)
	req := newJSONRequest(t, http.MethodPost, "/api/cms/pages", body, nil)
	w := executeHandler(t, h.CreatePage, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	page := unmarshalBody[PageResponse](t, w)
	if page.Slug != "about-us" {
		t.Errorf("expected normalized slug about-us, got %s", page.Slug)
	}

	// A slug with nothing usable left after normalization is rejected.
	body = fmt.Sprintf(`{"slug": "!!!", "title": "T", "content": "c", "created_by": %d}`, user.ID)
	req = newJSONRequest(t, http.MethodPost, "/api/cms/pages", body, nil)
	w = executeHandler(t, h.CreatePage, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
	if resp := unmarshalError(t, w); resp.Code != "INVALID_SLUG" {
		t.Errorf("expected code INVALID_SLUG, got %s", resp.Code)
	}
}

func TestCreatePage_DuplicateSlug(t *testing.T) {
	db, h := testSetup(t)
	user := createTestUser(t, db, "author@example.com", model.RoleEditor)

	body := fmt.Sprintf(`{"slug": "about", "title": "About", "content": "c", "created_by": %d}`, user.ID)

	req := newJSONRequest(t, http.MethodPost, "/api/cms/pages", body, nil)
	w := executeHandler(t, h.CreatePage, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("first create: expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	req = newJSONRequest(t, http.MethodPost, "/api/cms/pages", body, nil)
	w = executeHandler(t, h.CreatePage, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("second create: expected status 400, got %d: %s", w.Code, w.Body.String())
	}
	if resp := unmarshalError(t, w); resp.Code != "DUPLICATE_SLUG" {
		t.Errorf("expected code DUPLICATE_SLUG, got %s", resp.Code)
	}
	if n := countRows(t, db, "pages"); n != 1 {
		t.Errorf("expected 1 page row, got %d", n)
	}
}

func TestUpdatePage_PublishedAtStampedOnce(t *testing.T) {
	db, h := testSetup(t)
	user := createTestUser(t, db, "author@example.com", model.RoleEditor)
	page := createTestPage(t, db, "news", model.PageStatusDraft, user.ID)
	id := strconv.FormatInt(page.ID, 10)

	// draft -> published stamps publishedAt
	req := newJSONRequest(t, http.MethodPut, "/api/cms/pages/"+id, `{"status": "published"}`, map[string]string{"id": id})
	w := executeHandler(t, h.UpdatePage, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	first := unmarshalBody[PageResponse](t, w)
	if first.PublishedAt == nil {
		t.Fatal("expected publishedAt to be stamped on first publish")
	}

	// published -> draft -> published leaves publishedAt unchanged
	req = newJSONRequest(t, http.MethodPut, "/api/cms/pages/"+id, `{"status": "draft"}`, map[string]string{"id": id})
	executeHandler(t, h.UpdatePage, req)

	req = newJSONRequest(t, http.MethodPut, "/api/cms/pages/"+id, `{"status": "published"}`, map[string]string{"id": id})
	w = executeHandler(t, h.UpdatePage, req)
	second := unmarshalBody[PageResponse](t, w)
	if second.PublishedAt == nil {
		t.Fatal("expected publishedAt to survive republish")
	}
	if !second.PublishedAt.Equal(*first.PublishedAt) {
		t.Errorf("publishedAt changed on republish: %v != %v", second.PublishedAt, first.PublishedAt)
	}
}

func TestUpdatePage_SlugConflict(t *testing.T) {
	db, h := testSetup(t)
	user := createTestUser(t, db, "author@example.com", model.RoleEditor)
	createTestPage(t, db, "taken", model.PageStatusDraft, user.ID)
	page := createTestPage(t, db, "mine", model.PageStatusDraft, user.ID)
	id := strconv.FormatInt(page.ID, 10)

	req := newJSONRequest(t, http.MethodPut, "/api/cms/pages/"+id, `{"slug": "taken"}`, map[string]string{"id": id})
	w := executeHandler(t, h.UpdatePage, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
	if resp := unmarshalError(t, w); resp.Code != "DUPLICATE_SLUG" {
		t.Errorf("expected code DUPLICATE_SLUG, got %s", resp.Code)
	}

	// Keeping the current slug is fine.
	req = newJSONRequest(t, http.MethodPut, "/api/cms/pages/"+id, `{"slug": "mine"}`, map[string]string{"id": id})
	w = executeHandler(t, h.UpdatePage, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 for self slug, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdatePage_InvalidUpdatedBy(t *testing.T) {
	db, h := testSetup(t)
	user := createTestUser(t, db, "author@example.com", model.RoleEditor)
	page := createTestPage(t, db, "news", model.PageStatusDraft, user.ID)
	id := strconv.FormatInt(page.ID, 10)

	req := newJSONRequest(t, http.MethodPut, "/api/cms/pages/"+id, `{"updated_by": 999}`, map[string]string{"id": id})
	w := executeHandler(t, h.UpdatePage, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
	if resp := unmarshalError(t, w); resp.Code != "INVALID_USER" {
		t.Errorf("expected code INVALID_USER, got %s", resp.Code)
	}
}

func TestGetPageBySlug_PublishedOnly(t *testing.T) {
	db, h := testSetup(t)
	user := createTestUser(t, db, "author@example.com", model.RoleEditor)
	createTestPage(t, db, "draft-page", model.PageStatusDraft, user.ID)
	createTestPage(t, db, "live-page", model.PageStatusPublished, user.ID)

	// Draft pages are invisible to the slug lookup.
	req := newGetRequest(t, "/api/cms/pages/by-slug/draft-page", map[string]string{"slug": "draft-page"})
	w := executeHandler(t, h.GetPageBySlug, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for draft, got %d: %s", w.Code, w.Body.String())
	}

	req = newGetRequest(t, "/api/cms/pages/by-slug/live-page", map[string]string{"slug": "live-page"})
	w = executeHandler(t, h.GetPageBySlug, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 for published, got %d: %s", w.Code, w.Body.String())
	}
	page := unmarshalBody[PageResponse](t, w)
	if page.Slug != "live-page" {
		t.Errorf("expected slug live-page, got %s", page.Slug)
	}
}

func TestListPages_StatusFilter(t *testing.T) {
	db, h := testSetup(t)
	user := createTestUser(t, db, "author@example.com", model.RoleEditor)
	createTestPage(t, db, "a", model.PageStatusDraft, user.ID)
	createTestPage(t, db, "b", model.PageStatusPublished, user.ID)

	req := newGetRequest(t, "/api/cms/pages?status=published", nil)
	w := executeHandler(t, h.ListPages, req)

	pages := unmarshalBody[[]PageResponse](t, w)
	if len(pages) != 1 || pages[0].Slug != "b" {
		t.Errorf("expected one published page, got %v", pages)
	}
}

func TestListPages_SingleObjectMode(t *testing.T) {
	db, h := testSetup(t)
	user := createTestUser(t, db, "author@example.com", model.RoleEditor)
	page := createTestPage(t, db, "single", model.PageStatusDraft, user.ID)

	req := newGetRequest(t, fmt.Sprintf("/api/cms/pages?id=%d", page.ID), nil)
	w := executeHandler(t, h.ListPages, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	got := unmarshalBody[PageResponse](t, w)
	if got.ID != page.ID {
		t.Errorf("expected single page %d, got %d", page.ID, got.ID)
	}
}

func TestDeletePage(t *testing.T) {
	db, h := testSetup(t)
	user := createTestUser(t, db, "author@example.com", model.RoleEditor)
	page := createTestPage(t, db, "gone", model.PageStatusDraft, user.ID)
	id := strconv.FormatInt(page.ID, 10)

	req := newDeleteRequest(t, "/api/cms/pages/"+id, map[string]string{"id": id})
	w := executeHandler(t, h.DeletePage, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if n := countRows(t, db, "pages"); n != 0 {
		t.Errorf("expected 0 page rows after delete, got %d", n)
	}

	getReq := newGetRequest(t, "/api/cms/pages/"+id, map[string]string{"id": id})
	getW := executeHandler(t, h.GetPage, getReq)
	if getW.Code != http.StatusNotFound {
		t.Errorf("expected status 404 after delete, got %d", getW.Code)
	}
}

func TestDeletePage_NotFound(t *testing.T) {
	_, h := testSetup(t)

	req := newDeleteRequest(t, "/api/cms/pages/999", map[string]string{"id": "999"})
	w := executeHandler(t, h.DeletePage, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}
