// Copyright (c) 2025-2026 Voyago
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Page statuses
const (
	PageStatusDraft     = "draft"
	PageStatusPublished = "published"
	PageStatusArchived  = "archived"
)

// Page represents a CMS page.
//
// PublishedAt is stamped exactly once, the first time the page enters the
// published status, and is never cleared or overwritten afterwards.
type Page struct {
	ID              int64         `json:"id"`
	Slug            string        `json:"slug"`
	Title           string        `json:"title"`
	Content         string        `json:"content"`
	MetaTitle       string        `json:"meta_title,omitempty"`
	MetaDescription string        `json:"meta_description,omitempty"`
	Status          string        `json:"status"`
	CreatedBy       int64         `json:"created_by"`
	UpdatedBy       sql.NullInt64 `json:"-"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	PublishedAt     sql.NullTime  `json:"-"`
}

// IsPublished returns true if the page is published.
func (p *Page) IsPublished() bool {
	return p.Status == PageStatusPublished
}

// IsValidPageStatus checks a page status string against the allowed set.
func IsValidPageStatus(status string) bool {
	switch status {
	case PageStatusDraft, PageStatusPublished, PageStatusArchived:
		return true
	default:
		return false
	}
}
