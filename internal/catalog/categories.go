// Streamkeep - Self-Hosted Streaming Media Catalog API
// Copyright 2026 Streamkeep Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streamkeep/streamkeep

package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/streamkeep/streamkeep/internal/models"
	"github.com/streamkeep/streamkeep/internal/store"
)

// categoriesFile is the shared list file holding all categories.
const categoriesFile = "categories.json"

// Categories provides category operations over the record store.
type Categories struct {
	store *store.Store
}

// NewCategories creates the category service.
func NewCategories(st *store.Store) *Categories {
	return &Categories{store: st}
}

func (c *Categories) path() string {
	return c.store.Path(categoriesFile)
}

// List returns all categories sorted by order, ties broken by name.
func (c *Categories) List(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := store.View(ctx, c.store, c.path(), "category", []models.Category{}, func(cats []models.Category) error {
		out = cats
		return nil
	})
	return out, err
}

// Create adds a new category. The slug is derived from the name when absent
// and must be unique.
func (c *Categories) Create(ctx context.Context, in models.Category) (models.Category, error) {
	in.ID = uuid.NewString()
	if in.Slug == "" {
		in.Slug = Slugify(in.Name)
	}

	var created models.Category
	_, err := store.Update(ctx, c.store, c.path(), "category", []models.Category{}, func(cats []models.Category) ([]models.Category, error) {
		for _, cat := range cats {
			if cat.Slug == in.Slug {
				return nil, fmt.Errorf("%w: category slug %q", store.ErrConflict, in.Slug)
			}
		}
		cats = append(cats, in)
		sortCategories(cats)
		created = in
		return cats, nil
	})
	if err != nil {
		return models.Category{}, err
	}
	return created, nil
}

// Update applies a patch to the category with the given id. A name change
// recomputes the slug, which must stay unique.
func (c *Categories) Update(ctx context.Context, id string, patch models.CategoryPatch) (models.Category, error) {
	var updated models.Category
	_, err := store.Update(ctx, c.store, c.path(), "category", []models.Category{}, func(cats []models.Category) ([]models.Category, error) {
		idx := -1
		for i, cat := range cats {
			if cat.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: category %s", store.ErrNotFound, id)
		}

		cat := cats[idx]
		if patch.Name != nil {
			cat.Name = *patch.Name
			cat.Slug = Slugify(*patch.Name)
		}
		if patch.Order != nil {
			cat.Order = *patch.Order
		}

		for i, other := range cats {
			if i != idx && other.Slug == cat.Slug {
				return nil, fmt.Errorf("%w: category slug %q", store.ErrConflict, cat.Slug)
			}
		}

		cats[idx] = cat
		sortCategories(cats)
		updated = cat
		return cats, nil
	})
	if err != nil {
		return models.Category{}, err
	}
	return updated, nil
}

// Delete removes the category with the given id. Movies and series keep
// their references; category ids are not validated against existence.
func (c *Categories) Delete(ctx context.Context, id string) error {
	_, err := store.Update(ctx, c.store, c.path(), "category", []models.Category{}, func(cats []models.Category) ([]models.Category, error) {
		for i, cat := range cats {
			if cat.ID == id {
				return append(cats[:i], cats[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%w: category %s", store.ErrNotFound, id)
	})
	return err
}

// sortCategories orders by display order, ties broken by name.
func sortCategories(cats []models.Category) {
	sort.SliceStable(cats, func(i, j int) bool {
		if cats[i].Order != cats[j].Order {
			return cats[i].Order < cats[j].Order
		}
		return cats[i].Name < cats[j].Name
	})
}
