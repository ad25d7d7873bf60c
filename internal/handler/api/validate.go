// Copyright (c) 2025-2026 Voyago
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/voyago/voyago-cms/internal/model"
	"github.com/voyago/voyago-cms/internal/util"
)

// normalizeSlug trims and normalizes a raw slug value. Values that are
// already valid slugs pass through unchanged; anything else is slugified.
// Returns false when nothing slug-like survives normalization.
func normalizeSlug(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if util.IsValidSlug(s) {
		return s, true
	}
	slug := util.Slugify(s)
	return slug, slug != ""
}

// The wrapper types below decode request fields tolerantly: they never fail
// the surrounding json.Decode, so handlers can report a field-specific error
// code instead of a generic malformed-body error.

// FlexInt accepts a JSON number or a numeric string.
// Set reports whether the field was present; Valid whether it coerced to an
// integer. Fractional values are truncated toward zero.
type FlexInt struct {
	Value int64
	Set   bool
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	f.Set = true

	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		if v, err := num.Int64(); err == nil {
			f.Value, f.Valid = v, true
			return nil
		}
		if v, err := num.Float64(); err == nil {
			f.Value, f.Valid = int64(v), true
			return nil
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			f.Value, f.Valid = v, true
			return nil
		}
		// ParseFloat accepts "NaN" and "Inf"; neither is a usable integer.
		if v, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			f.Value, f.Valid = int64(v), true
			return nil
		}
	}

	return nil
}

// FlexFloat accepts a JSON number or a numeric string.
type FlexFloat struct {
	Value float64
	Set   bool
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	f.Set = true

	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		if v, err := num.Float64(); err == nil {
			f.Value, f.Valid = v, true
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		// ParseFloat accepts "NaN" and "Inf"; neither is a usable value.
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			f.Value, f.Valid = v, true
		}
	}

	return nil
}

// List decode outcomes for StringList and ItineraryList.
const (
	listOK       = iota
	listBadJSON  // value was a string that does not parse as JSON
	listNotArray // value parsed but is not an array of the expected shape
)

// StringList accepts either a JSON array of strings or a JSON-encoded string
// containing such an array.
type StringList struct {
	Values []string
	Set    bool
	state  int
}

// OK reports whether the field decoded to a valid string array.
func (l *StringList) OK() bool { return l.state == listOK }

// BadJSON reports whether the field was a string that failed to parse as JSON.
func (l *StringList) BadJSON() bool { return l.state == listBadJSON }

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	l.Set = true

	var values []string
	if err := json.Unmarshal(data, &values); err == nil {
		l.Values = values
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		// A JSON-encoded string: the content itself must parse to an array.
		if err := json.Unmarshal([]byte(s), &values); err == nil {
			l.Values = values
			return nil
		}
		var probe any
		if err := json.Unmarshal([]byte(s), &probe); err != nil {
			l.state = listBadJSON
		} else {
			l.state = listNotArray
		}
		return nil
	}

	l.state = listNotArray
	return nil
}

// ItineraryList accepts either a JSON array of itinerary day objects or a
// JSON-encoded string containing such an array.
type ItineraryList struct {
	Values []model.ItineraryDay
	Set    bool
	state  int
}

// OK reports whether the field decoded to a valid itinerary array.
func (l *ItineraryList) OK() bool { return l.state == listOK }

// BadJSON reports whether the field was a string that failed to parse as JSON.
func (l *ItineraryList) BadJSON() bool { return l.state == listBadJSON }

// UnmarshalJSON implements json.Unmarshaler.
func (l *ItineraryList) UnmarshalJSON(data []byte) error {
	l.Set = true

	var values []model.ItineraryDay
	if err := json.Unmarshal(data, &values); err == nil {
		l.Values = values
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if err := json.Unmarshal([]byte(s), &values); err == nil {
			l.Values = values
			return nil
		}
		var probe any
		if err := json.Unmarshal([]byte(s), &probe); err != nil {
			l.state = listBadJSON
		} else {
			l.state = listNotArray
		}
		return nil
	}

	l.state = listNotArray
	return nil
}
