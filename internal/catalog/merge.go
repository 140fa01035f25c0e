// Streamkeep - Self-Hosted Streaming Media Catalog API
// Copyright 2026 Streamkeep Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streamkeep/streamkeep

package catalog

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/streamkeep/streamkeep/internal/models"
	"github.com/streamkeep/streamkeep/internal/store"
	"github.com/streamkeep/streamkeep/internal/validation"
)

// mergeSeasons reconciles an existing season list with an incoming partial
// payload at season and episode granularity.
//
// A season number not yet present is inserted whole, after validation. For
// a season already present, episodes reconcile by episode number: a new
// number inserts a fresh episode, an existing number merges field-level so
// that fields omitted from the incoming payload survive. lastUpdated is
// stamped on every touched episode regardless of whether a field changed.
// Merge never deletes: seasons and episodes absent from the incoming
// payload are kept untouched. The result is sorted ascending by season and
// episode number with no duplicate numbers.
func mergeSeasons(existing []models.Season, incoming []models.SeasonInput, now time.Time) ([]models.Season, error) {
	bySeason := make(map[int]models.Season, len(existing))
	for _, s := range existing {
		// copy the episode list to avoid aliasing the caller's slices
		eps := make([]models.Episode, len(s.Episodes))
		copy(eps, s.Episodes)
		s.Episodes = eps
		bySeason[s.Season] = s
	}

	for _, in := range incoming {
		current, ok := bySeason[in.Season]
		if !ok {
			current = models.Season{Season: in.Season}
		}

		byEpisode := make(map[int]models.Episode, len(current.Episodes))
		for _, ep := range current.Episodes {
			byEpisode[ep.Episode] = ep
		}

		for _, epIn := range in.Episodes {
			if prev, ok := byEpisode[epIn.Episode]; ok {
				byEpisode[epIn.Episode] = applyEpisodeInput(prev, epIn, now)
				continue
			}
			ep, err := newEpisode(in.Season, epIn, now)
			if err != nil {
				return nil, err
			}
			byEpisode[epIn.Episode] = ep
		}

		current.Episodes = flattenEpisodes(byEpisode)
		bySeason[in.Season] = current
	}

	return flattenSeasons(bySeason), nil
}

// newEpisode builds a fresh episode from an incoming payload: new identity,
// zero view count, lastUpdated stamped. The result must pass the episode
// schema, so an insert without a title is rejected rather than stored.
func newEpisode(season int, in models.EpisodeInput, now time.Time) (models.Episode, error) {
	ep := models.Episode{
		ID:          uuid.NewString(),
		Season:      season,
		Episode:     in.Episode,
		Views:       0,
		LastUpdated: now,
	}
	if in.Title != nil {
		ep.Title = *in.Title
	}
	if in.Description != nil {
		ep.Description = *in.Description
	}
	if in.Duration != nil {
		ep.Duration = *in.Duration
	}
	if in.StreamURL != nil {
		ep.StreamURL = *in.StreamURL
	}
	if in.Subtitles != nil {
		ep.Subtitles = *in.Subtitles
	}
	if in.Published != nil {
		ep.Published = *in.Published
	}

	if verr := validation.ValidateStruct(ep); verr != nil {
		return models.Episode{}, fmt.Errorf("%w: season %d episode %d: %v",
			store.ErrValidation, season, in.Episode, verr)
	}
	return ep, nil
}

// applyEpisodeInput merges incoming non-absent fields onto an existing
// episode. Identity, numbering and view count are preserved; lastUpdated is
// stamped unconditionally.
func applyEpisodeInput(ep models.Episode, in models.EpisodeInput, now time.Time) models.Episode {
	if in.Title != nil {
		ep.Title = *in.Title
	}
	if in.Description != nil {
		ep.Description = *in.Description
	}
	if in.Duration != nil {
		ep.Duration = *in.Duration
	}
	if in.StreamURL != nil {
		ep.StreamURL = *in.StreamURL
	}
	if in.Subtitles != nil {
		ep.Subtitles = *in.Subtitles
	}
	if in.Published != nil {
		ep.Published = *in.Published
	}
	ep.LastUpdated = now
	return ep
}

// flattenEpisodes returns the mapping values sorted ascending by episode
// number.
func flattenEpisodes(byEpisode map[int]models.Episode) []models.Episode {
	eps := make([]models.Episode, 0, len(byEpisode))
	for _, ep := range byEpisode {
		eps = append(eps, ep)
	}
	sort.Slice(eps, func(i, j int) bool { return eps[i].Episode < eps[j].Episode })
	return eps
}

// flattenSeasons returns the mapping values sorted ascending by season
// number.
func flattenSeasons(bySeason map[int]models.Season) []models.Season {
	seasons := make([]models.Season, 0, len(bySeason))
	for _, s := range bySeason {
		seasons = append(seasons, s)
	}
	sort.Slice(seasons, func(i, j int) bool { return seasons[i].Season < seasons[j].Season })
	return seasons
}
