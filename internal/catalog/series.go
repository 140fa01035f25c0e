// Streamkeep - Self-Hosted Streaming Media Catalog API
// Copyright 2026 Streamkeep Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streamkeep/streamkeep

package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/streamkeep/streamkeep/internal/logging"
	"github.com/streamkeep/streamkeep/internal/models"
	"github.com/streamkeep/streamkeep/internal/store"
)

// seriesDir is the subdirectory holding one JSON file per series, named by
// slug. The slug is the file identity.
const seriesDir = "series"

// Series provides series catalog operations, including the season/episode
// merge engine.
type Series struct {
	store *store.Store
}

// NewSeries creates the series service.
func NewSeries(st *store.Store) *Series {
	return &Series{store: st}
}

func (s *Series) path(slug string) string {
	return s.store.Path(seriesDir, slug+".json")
}

// List returns all series sorted by name. Each file is read under its own
// lock; the listing itself is not a cross-file snapshot.
func (s *Series) List(ctx context.Context) ([]models.Series, error) {
	dir := s.store.Path(seriesDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Series{}, nil
		}
		return nil, &store.IOError{Op: "readdir", Path: dir, Err: err}
	}

	out := make([]models.Series, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		slug := strings.TrimSuffix(name, ".json")
		sr, err := s.Get(ctx, slug)
		if err != nil {
			return nil, err
		}
		out = append(out, sr)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get returns the series stored under slug.
func (s *Series) Get(ctx context.Context, slug string) (models.Series, error) {
	var out models.Series
	path := s.path(slug)
	err := s.store.WithLock(ctx, path, func() error {
		doc, err := store.Get[models.Series](s.store, path, "series")
		if err != nil {
			return err
		}
		out = doc
		return nil
	})
	return out, err
}

// CreateOrMerge imports a series payload. The slug is recomputed from the
// provided slug or name and is the file key. When no series exists under
// that slug a new one is created; otherwise the incoming payload merges
// into the existing document: top-level fields overwrite, seasons and
// episodes reconcile through the merge engine, and identity and createdAt
// are preserved from the existing record.
func (s *Series) CreateOrMerge(ctx context.Context, in models.SeriesInput) (models.Series, error) {
	slug := in.Slug
	if slug == "" {
		slug = in.Name
	}
	slug = Slugify(slug)
	if slug == "" {
		return models.Series{}, fmt.Errorf("%w: series name %q yields an empty slug", store.ErrValidation, in.Name)
	}

	now := time.Now().UTC()
	path := s.path(slug)

	var out models.Series
	err := s.store.WithLock(ctx, path, func() error {
		existing, err := store.Get[models.Series](s.store, path, "series")
		isNew := false
		switch {
		case err == nil:
		case isNotFound(err):
			isNew = true
			existing = models.Series{
				ID:        uuid.NewString(),
				CreatedAt: now,
			}
		default:
			return err
		}

		merged, err := mergeSeasons(existing.Seasons, in.Seasons, now)
		if err != nil {
			return err
		}

		existing.Name = in.Name
		existing.Slug = slug
		existing.Description = in.Description
		existing.PosterURL = in.PosterURL
		existing.Categories = in.Categories
		existing.Published = in.Published
		existing.Featured = in.Featured
		existing.Seasons = merged
		existing.UpdatedAt = now

		if err := store.Save(s.store, path, "series", existing); err != nil {
			return err
		}

		logging.Info().
			Str("slug", slug).
			Bool("created", isNew).
			Int("seasons", len(existing.Seasons)).
			Msg("series merged")
		out = existing
		return nil
	})
	if err != nil {
		return models.Series{}, err
	}
	return out, nil
}

// Update applies a top-level patch to the series stored under slug. The
// slug itself is the file identity and does not change here; seasons are
// only touched through CreateOrMerge and MergeEpisode.
func (s *Series) Update(ctx context.Context, slug string, patch models.SeriesPatch) (models.Series, error) {
	path := s.path(slug)
	var out models.Series
	err := s.store.WithLock(ctx, path, func() error {
		sr, err := store.Get[models.Series](s.store, path, "series")
		if err != nil {
			return err
		}

		if patch.Name != nil {
			sr.Name = *patch.Name
		}
		if patch.Description != nil {
			sr.Description = *patch.Description
		}
		if patch.PosterURL != nil {
			sr.PosterURL = *patch.PosterURL
		}
		if patch.Categories != nil {
			sr.Categories = *patch.Categories
		}
		if patch.Published != nil {
			sr.Published = *patch.Published
		}
		if patch.Featured != nil {
			sr.Featured = *patch.Featured
		}
		sr.UpdatedAt = time.Now().UTC()

		if err := store.Save(s.store, path, "series", sr); err != nil {
			return err
		}
		out = sr
		return nil
	})
	if err != nil {
		return models.Series{}, err
	}
	return out, nil
}

// Delete removes the series stored under slug.
func (s *Series) Delete(ctx context.Context, slug string) error {
	path := s.path(slug)
	return s.store.WithLock(ctx, path, func() error {
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%w: series %s", store.ErrNotFound, slug)
			}
			return &store.IOError{Op: "remove", Path: path, Err: err}
		}
		return nil
	})
}

// MergeEpisode upserts exactly one (season, episode) pair against the
// persisted series: an absent episode is inserted with fresh identity, zero
// view count and a current timestamp; a present episode has only the
// supplied fields overwritten and its lastUpdated re-stamped. Episode and
// season ordering is restored and the series' updatedAt always advances.
func (s *Series) MergeEpisode(ctx context.Context, slug string, in models.EpisodeInput) (models.Series, error) {
	now := time.Now().UTC()
	path := s.path(slug)

	var out models.Series
	err := s.store.WithLock(ctx, path, func() error {
		sr, err := store.Get[models.Series](s.store, path, "series")
		if err != nil {
			return err
		}

		incoming := []models.SeasonInput{{
			Season:   in.Season,
			Episodes: []models.EpisodeInput{in},
		}}
		merged, err := mergeSeasons(sr.Seasons, incoming, now)
		if err != nil {
			return err
		}
		sr.Seasons = merged
		sr.UpdatedAt = now

		if err := store.Save(s.store, path, "series", sr); err != nil {
			return err
		}
		out = sr
		return nil
	})
	if err != nil {
		return models.Series{}, err
	}
	return out, nil
}

// IncrementView bumps the view counter for the series with the given id.
// An unknown id is a silent no-op: stale client-side ids are tolerated.
// The id-to-slug scan runs unlocked; the increment itself re-checks the id
// under the file lock.
func (s *Series) IncrementView(ctx context.Context, id string) error {
	all, err := s.List(ctx)
	if err != nil {
		return err
	}

	slug := ""
	for _, sr := range all {
		if sr.ID == id {
			slug = sr.Slug
			break
		}
	}
	if slug == "" {
		return nil
	}

	path := s.path(slug)
	return s.store.WithLock(ctx, path, func() error {
		sr, err := store.Get[models.Series](s.store, path, "series")
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		if sr.ID != id {
			return nil
		}
		sr.Views++
		return store.Save(s.store, path, "series", sr)
	})
}

// isNotFound reports whether err wraps store.ErrNotFound.
func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
