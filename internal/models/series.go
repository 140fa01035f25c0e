// Streamkeep - Self-Hosted Streaming Media Catalog API
// Copyright 2026 Streamkeep Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streamkeep/streamkeep

package models

import "time"

// Episode is one episode within a season. Episode numbers are unique within
// their season and the episode list is kept sorted ascending by number.
type Episode struct {
	ID          string          `json:"id" validate:"required,uuid4"`
	Title       string          `json:"title" validate:"required,min=1,max=300"`
	Description string          `json:"description"`
	Season      int             `json:"season" validate:"gt=0"`
	Episode     int             `json:"episode" validate:"gt=0"`
	Duration    int             `json:"duration" validate:"omitempty,gt=0"`
	StreamURL   string          `json:"streamUrl" validate:"omitempty,mediahost"`
	Subtitles   []SubtitleTrack `json:"subtitles" validate:"dive"`
	Published   bool            `json:"published"`
	Views       int64           `json:"views" validate:"gte=0"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// Season is a numbered collection of episodes. Season numbers are unique
// within their series and the season list is kept sorted ascending.
type Season struct {
	Season   int       `json:"season" validate:"gt=0"`
	Episodes []Episode `json:"episodes" validate:"dive"`
}

// Series is a show with nested seasons. Each series is stored as its own
// file named by slug; the slug doubles as the file identity.
type Series struct {
	ID          string    `json:"id" validate:"required,uuid4"`
	Name        string    `json:"name" validate:"required,min=1,max=300"`
	Slug        string    `json:"slug" validate:"required,slug"`
	Description string    `json:"description"`
	PosterURL   string    `json:"posterUrl" validate:"omitempty,mediahost"`
	Categories  []string  `json:"categories" validate:"dive,uuid4"`
	Published   bool      `json:"published"`
	Featured    bool      `json:"featured"`
	Views       int64     `json:"views" validate:"gte=0"`
	Seasons     []Season  `json:"seasons" validate:"dive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SeriesPatch lists the updatable top-level fields of a Series. Seasons are
// reconciled through the merge engine, never replaced wholesale.
type SeriesPatch struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=1,max=300"`
	Description *string   `json:"description,omitempty"`
	PosterURL   *string   `json:"posterUrl,omitempty" validate:"omitempty,mediahost"`
	Categories  *[]string `json:"categories,omitempty" validate:"omitempty,dive,uuid4"`
	Published   *bool     `json:"published,omitempty"`
	Featured    *bool     `json:"featured,omitempty"`
}

// EpisodeInput is a full or partial episode payload addressed by season and
// episode number. For an episode that does not exist yet it is inserted
// verbatim with fresh identity; for an existing episode only the non-nil
// fields overwrite, so omitted fields survive repeated partial updates.
type EpisodeInput struct {
	Season      int              `json:"season" validate:"gt=0"`
	Episode     int              `json:"episode" validate:"gt=0"`
	Title       *string          `json:"title,omitempty" validate:"omitempty,min=1,max=300"`
	Description *string          `json:"description,omitempty"`
	Duration    *int             `json:"duration,omitempty" validate:"omitempty,gt=0"`
	StreamURL   *string          `json:"streamUrl,omitempty" validate:"omitempty,mediahost"`
	Subtitles   *[]SubtitleTrack `json:"subtitles,omitempty" validate:"omitempty,dive"`
	Published   *bool            `json:"published,omitempty"`
}

// SeasonInput is an incoming season with a full or partial episode set.
type SeasonInput struct {
	Season   int            `json:"season" validate:"gt=0"`
	Episodes []EpisodeInput `json:"episodes" validate:"dive"`
}

// SeriesInput is the create-or-merge payload for a series.
type SeriesInput struct {
	Name        string        `json:"name" validate:"required,min=1,max=300"`
	Slug        string        `json:"slug,omitempty" validate:"omitempty,slug"`
	Description string        `json:"description"`
	PosterURL   string        `json:"posterUrl" validate:"omitempty,mediahost"`
	Categories  []string      `json:"categories" validate:"dive,uuid4"`
	Published   bool          `json:"published"`
	Featured    bool          `json:"featured"`
	Seasons     []SeasonInput `json:"seasons" validate:"dive"`
}
