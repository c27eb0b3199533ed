// Package models defines the data types exchanged with the Open436 auth and
// section services, plus the client-side validation rules for user input.
package models

import "time"

// Section is a forum category as served by the section service.
// Slug is immutable after creation; slug and name are unique among
// non-deleted sections. SortOrder defines the display order, ties
// broken by ID.
type Section struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	IconURL     string    `json:"icon_url,omitempty"`
	Color       string    `json:"color"`
	SortOrder   int       `json:"sort_order"`
	IsEnabled   bool      `json:"is_enabled"`
	PostsCount  int64     `json:"posts_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SectionInput is the payload for create and update calls. On update the
// server ignores Slug. Zero-valued optional fields are omitted from the
// request body.
type SectionInput struct {
	Slug        string `json:"slug,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
	IconFileID  string `json:"icon_file_id,omitempty"`
	Color       string `json:"color,omitempty"`
	SortOrder   int    `json:"sort_order,omitempty"`
	IsEnabled   *bool  `json:"is_enabled,omitempty"`
}

// Page is the section list response shape (DRF-style pagination).
type Page struct {
	Count    int64     `json:"count"`
	Next     string    `json:"next"`
	Previous string    `json:"previous"`
	Results  []Section `json:"results"`
}

// Statistics is the server-computed aggregate snapshot for sections.
type Statistics struct {
	TotalSections    int64   `json:"total_sections"`
	EnabledSections  int64   `json:"enabled_sections"`
	DisabledSections int64   `json:"disabled_sections"`
	TotalPosts       int64   `json:"total_posts"`
	AveragePosts     float64 `json:"average_posts"`
}

// OrderEntry is one element of the {id, sort_order} reorder form. The server
// only cares about the sequence of IDs; sort orders are reassigned as
// index+1 on its side.
type OrderEntry struct {
	ID        int64 `json:"id"`
	SortOrder int   `json:"sort_order"`
}

// ListQuery carries the section list endpoint parameters.
//
// Enabled maps to the is_enabled query param; nil means "do not filter".
// SortBy is translated to the ordering param; recognized values are
// sort_order, name and posts_count.
type ListQuery struct {
	Page     int
	PageSize int
	Search   string
	SortBy   string
	Enabled  *bool
}

// Bool returns a pointer to b, for filling optional fields inline.
func Bool(b bool) *bool { return &b }
