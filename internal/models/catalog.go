// Streamkeep - Self-Hosted Streaming Media Catalog API
// Copyright 2026 Streamkeep Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streamkeep/streamkeep

// Package models defines the persisted record kinds and the typed patch
// structs used for partial updates.
//
// Every record kind carries validate tags; the store validates documents on
// every load and save, so a file that fails these rules is rejected rather
// than silently coerced. Patch structs use pointer fields: nil means the
// field was absent from the payload and must not overwrite the stored value.
package models

import "time"

// Category groups movies and series for display. Categories live together
// in one shared list file, sorted by Order with ties broken by Name.
type Category struct {
	ID    string `json:"id" validate:"required,uuid4"`
	Name  string `json:"name" validate:"required,min=1,max=200"`
	Slug  string `json:"slug" validate:"required,slug"`
	Order int    `json:"order" validate:"gte=0"`
}

// CategoryPatch lists the updatable fields of a Category.
type CategoryPatch struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Order *int    `json:"order,omitempty" validate:"omitempty,gte=0"`
}

// SubtitleTrack is one subtitle file attached to a movie or episode.
type SubtitleTrack struct {
	Language string `json:"language" validate:"required,min=2,max=12"`
	Label    string `json:"label" validate:"required,min=1,max=100"`
	URL      string `json:"url" validate:"required,mediahost"`
}

// Movie is a standalone film. All movies share one list file, sorted by
// title.
type Movie struct {
	ID          string          `json:"id" validate:"required,uuid4"`
	Title       string          `json:"title" validate:"required,min=1,max=300"`
	Slug        string          `json:"slug" validate:"required,slug"`
	Description string          `json:"description"`
	Year        int             `json:"year" validate:"omitempty,gte=1880,lte=2100"`
	Duration    int             `json:"duration" validate:"gt=0"`
	PosterURL   string          `json:"posterUrl" validate:"omitempty,mediahost"`
	StreamURL   string          `json:"streamUrl" validate:"required,mediahost"`
	Subtitles   []SubtitleTrack `json:"subtitles" validate:"dive"`
	Categories  []string        `json:"categories" validate:"dive,uuid4"`
	Published   bool            `json:"published"`
	Featured    bool            `json:"featured"`
	Views       int64           `json:"views" validate:"gte=0"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// MoviePatch lists the updatable fields of a Movie. Slug is recomputed from
// Title when Title changes; ID, Views and timestamps are never client-settable.
type MoviePatch struct {
	Title       *string          `json:"title,omitempty" validate:"omitempty,min=1,max=300"`
	Description *string          `json:"description,omitempty"`
	Year        *int             `json:"year,omitempty" validate:"omitempty,gte=1880,lte=2100"`
	Duration    *int             `json:"duration,omitempty" validate:"omitempty,gt=0"`
	PosterURL   *string          `json:"posterUrl,omitempty" validate:"omitempty,mediahost"`
	StreamURL   *string          `json:"streamUrl,omitempty" validate:"omitempty,mediahost"`
	Subtitles   *[]SubtitleTrack `json:"subtitles,omitempty" validate:"omitempty,dive"`
	Categories  *[]string        `json:"categories,omitempty" validate:"omitempty,dive,uuid4"`
	Published   *bool            `json:"published,omitempty"`
	Featured    *bool            `json:"featured,omitempty"`
}
