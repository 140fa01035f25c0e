// Streamkeep - Self-Hosted Streaming Media Catalog API
// Copyright 2026 Streamkeep Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streamkeep/streamkeep

package catalog

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/streamkeep/streamkeep/internal/logging"
	"github.com/streamkeep/streamkeep/internal/models"
	"github.com/streamkeep/streamkeep/internal/store"
)

// moviesFile is the shared list file holding all movies.
const moviesFile = "movies.json"

// Movies provides movie catalog operations over the record store.
type Movies struct {
	store *store.Store
}

// NewMovies creates the movie service.
func NewMovies(st *store.Store) *Movies {
	return &Movies{store: st}
}

func (m *Movies) path() string {
	return m.store.Path(moviesFile)
}

// List returns all movies sorted by title.
func (m *Movies) List(ctx context.Context) ([]models.Movie, error) {
	var out []models.Movie
	err := store.View(ctx, m.store, m.path(), "movie", []models.Movie{}, func(movies []models.Movie) error {
		out = movies
		return nil
	})
	return out, err
}

// Get returns the movie with the given id.
func (m *Movies) Get(ctx context.Context, id string) (models.Movie, error) {
	var out models.Movie
	err := store.View(ctx, m.store, m.path(), "movie", []models.Movie{}, func(movies []models.Movie) error {
		for _, mv := range movies {
			if mv.ID == id {
				out = mv
				return nil
			}
		}
		return fmt.Errorf("%w: movie %s", store.ErrNotFound, id)
	})
	return out, err
}

// Create adds a new movie. Identity, view counter and timestamps are
// assigned here; the slug is derived from the title when absent and must be
// unique across all movies.
func (m *Movies) Create(ctx context.Context, in models.Movie) (models.Movie, error) {
	now := time.Now().UTC()
	in.ID = uuid.NewString()
	if in.Slug == "" {
		in.Slug = Slugify(in.Title)
	}
	in.Views = 0
	in.CreatedAt = now
	in.UpdatedAt = now

	var created models.Movie
	_, err := store.Update(ctx, m.store, m.path(), "movie", []models.Movie{}, func(movies []models.Movie) ([]models.Movie, error) {
		for _, mv := range movies {
			if mv.Slug == in.Slug {
				return nil, fmt.Errorf("%w: movie slug %q", store.ErrConflict, in.Slug)
			}
		}
		movies = append(movies, in)
		sortMovies(movies)
		created = in
		return movies, nil
	})
	if err != nil {
		return models.Movie{}, err
	}

	logging.Info().Str("id", created.ID).Str("slug", created.Slug).Msg("movie created")
	return created, nil
}

// Update applies a patch to the movie with the given id. Only fields present
// in the patch overwrite; a title change recomputes the slug, which must
// stay unique.
func (m *Movies) Update(ctx context.Context, id string, patch models.MoviePatch) (models.Movie, error) {
	var updated models.Movie
	_, err := store.Update(ctx, m.store, m.path(), "movie", []models.Movie{}, func(movies []models.Movie) ([]models.Movie, error) {
		idx := -1
		for i, mv := range movies {
			if mv.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: movie %s", store.ErrNotFound, id)
		}

		mv := movies[idx]
		if patch.Title != nil {
			mv.Title = *patch.Title
			mv.Slug = Slugify(*patch.Title)
		}
		if patch.Description != nil {
			mv.Description = *patch.Description
		}
		if patch.Year != nil {
			mv.Year = *patch.Year
		}
		if patch.Duration != nil {
			mv.Duration = *patch.Duration
		}
		if patch.PosterURL != nil {
			mv.PosterURL = *patch.PosterURL
		}
		if patch.StreamURL != nil {
			mv.StreamURL = *patch.StreamURL
		}
		if patch.Subtitles != nil {
			mv.Subtitles = *patch.Subtitles
		}
		if patch.Categories != nil {
			mv.Categories = *patch.Categories
		}
		if patch.Published != nil {
			mv.Published = *patch.Published
		}
		if patch.Featured != nil {
			mv.Featured = *patch.Featured
		}
		mv.UpdatedAt = time.Now().UTC()

		for i, other := range movies {
			if i != idx && other.Slug == mv.Slug {
				return nil, fmt.Errorf("%w: movie slug %q", store.ErrConflict, mv.Slug)
			}
		}

		movies[idx] = mv
		sortMovies(movies)
		updated = mv
		return movies, nil
	})
	if err != nil {
		return models.Movie{}, err
	}
	return updated, nil
}

// Delete removes the movie with the given id.
func (m *Movies) Delete(ctx context.Context, id string) error {
	_, err := store.Update(ctx, m.store, m.path(), "movie", []models.Movie{}, func(movies []models.Movie) ([]models.Movie, error) {
		for i, mv := range movies {
			if mv.ID == id {
				return append(movies[:i], movies[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%w: movie %s", store.ErrNotFound, id)
	})
	return err
}

// IncrementView bumps the view counter for the movie with the given id.
// An unknown id is a silent no-op: stale client-side ids are tolerated.
func (m *Movies) IncrementView(ctx context.Context, id string) error {
	_, err := store.Update(ctx, m.store, m.path(), "movie", []models.Movie{}, func(movies []models.Movie) ([]models.Movie, error) {
		for i := range movies {
			if movies[i].ID == id {
				movies[i].Views++
				break
			}
		}
		return movies, nil
	})
	return err
}

// sortMovies orders the shared list by title, ties broken by slug so the
// order is deterministic.
func sortMovies(movies []models.Movie) {
	sort.SliceStable(movies, func(i, j int) bool {
		if movies[i].Title != movies[j].Title {
			return movies[i].Title < movies[j].Title
		}
		return movies[i].Slug < movies[j].Slug
	})
}
