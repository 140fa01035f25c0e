// Streamkeep - Self-Hosted Streaming Media Catalog API
// Copyright 2026 Streamkeep Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streamkeep/streamkeep

package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/streamkeep/streamkeep/internal/models"
	"github.com/streamkeep/streamkeep/internal/store"
)

func TestCategories_CreateAndListOrdering(t *testing.T) {
	svc := NewCategories(newTestStore(t))
	ctx := context.Background()

	inputs := []models.Category{
		{Name: "Sci-Fi", Order: 2},
		{Name: "Drama", Order: 1},
		{Name: "Comedy", Order: 1},
	}
	for _, in := range inputs {
		if _, err := svc.Create(ctx, in); err != nil {
			t.Fatalf("Create(%q) error = %v", in.Name, err)
		}
	}

	cats, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	// Order ascending, ties broken by name.
	want := []string{"Comedy", "Drama", "Sci-Fi"}
	if len(cats) != len(want) {
		t.Fatalf("got %d categories, want %d", len(cats), len(want))
	}
	for i := range want {
		if cats[i].Name != want[i] {
			t.Errorf("cats[%d] = %q, want %q", i, cats[i].Name, want[i])
		}
	}
	if cats[0].Slug != "comedy" {
		t.Errorf("slug = %q, want derived from name", cats[0].Slug)
	}
}

func TestCategories_CreateRejectsDuplicateSlug(t *testing.T) {
	svc := NewCategories(newTestStore(t))
	ctx := context.Background()

	if _, err := svc.Create(ctx, models.Category{Name: "Horror"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	_, err := svc.Create(ctx, models.Category{Name: "Horror"})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCategories_UpdateRenameAndReorder(t *testing.T) {
	svc := NewCategories(newTestStore(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, models.Category{Name: "Docs", Order: 5})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := svc.Update(ctx, created.ID, models.CategoryPatch{
		Name:  strPtr("Documentaries"),
		Order: intPtr(1),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Name != "Documentaries" || updated.Order != 1 {
		t.Errorf("patch not applied: %+v", updated)
	}
	if updated.Slug != "documentaries" {
		t.Errorf("slug = %q, want recomputed from new name", updated.Slug)
	}
	if updated.ID != created.ID {
		t.Error("update changed identity")
	}
}

func TestCategories_UpdateUnknownID(t *testing.T) {
	svc := NewCategories(newTestStore(t))

	_, err := svc.Update(context.Background(), "ffffffff-ffff-4fff-8fff-ffffffffffff", models.CategoryPatch{Order: intPtr(3)})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCategories_Delete(t *testing.T) {
	svc := NewCategories(newTestStore(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, models.Category{Name: "Shorts"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	cats, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(cats) != 0 {
		t.Errorf("category still listed after delete: %+v", cats)
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}
