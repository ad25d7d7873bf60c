// Copyright (c) 2025-2026 Voyago
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"
)

// Listing statuses shared by shortlets and tours.
const (
	ListingStatusActive   = "active"
	ListingStatusInactive = "inactive"
)

// Shortlet represents a short-stay apartment listing.
type Shortlet struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	PricePerNight int64     `json:"price_per_night"`
	Bedrooms      int64     `json:"bedrooms"`
	Amenities     []string  `json:"amenities"`
	Images        []string  `json:"images"`
	Rating        float64   `json:"rating"`
	ReviewsCount  int64     `json:"reviews_count"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsValidListingStatus checks a listing status string against the allowed set.
func IsValidListingStatus(status string) bool {
	return status == ListingStatusActive || status == ListingStatusInactive
}
