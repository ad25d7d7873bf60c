// Copyright (c) 2025-2026 Voyago
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"
)

// ItineraryDay is a single day entry in a tour itinerary.
type ItineraryDay struct {
	Day         int64  `json:"day"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Tour represents a packaged tour offering.
type Tour struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Description string         `json:"description"`
	Duration    string         `json:"duration"`
	PriceFrom   int64          `json:"price_from"`
	Tag         string         `json:"tag"`
	Images      []string       `json:"images"`
	Itinerary   []ItineraryDay `json:"itinerary"`
	Inclusions  []string       `json:"inclusions"`
	Exclusions  []string       `json:"exclusions"`
	Status      string         `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
