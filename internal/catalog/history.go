// Streamkeep - Self-Hosted Streaming Media Catalog API
// Copyright 2026 Streamkeep Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streamkeep/streamkeep

package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/streamkeep/streamkeep/internal/models"
	"github.com/streamkeep/streamkeep/internal/store"
)

// historyDir holds one JSON file per user, named by user id.
const historyDir = "history"

// History provides per-user watch history over the record store.
type History struct {
	store *store.Store
}

// NewHistory creates the history service.
func NewHistory(st *store.Store) *History {
	return &History{store: st}
}

func (h *History) path(userID string) string {
	return h.store.Path(historyDir, userID+".json")
}

// Get returns the user's watch history, most recently watched first.
func (h *History) Get(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}

	var out []models.HistoryEntry
	err := store.View(ctx, h.store, h.path(userID), "history", []models.HistoryEntry{}, func(entries []models.HistoryEntry) error {
		out = entries
		return nil
	})
	return out, err
}

// Record upserts a watch entry. At most one entry exists per contentId: a
// duplicate removes the prior entry and the new one is inserted at the
// front, so the list stays ordered most-recently-watched first. There is no
// eviction.
func (h *History) Record(ctx context.Context, userID string, entry models.HistoryEntry) ([]models.HistoryEntry, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}
	entry.LastWatched = time.Now().UTC()

	var out []models.HistoryEntry
	_, err := store.Update(ctx, h.store, h.path(userID), "history", []models.HistoryEntry{}, func(entries []models.HistoryEntry) ([]models.HistoryEntry, error) {
		kept := make([]models.HistoryEntry, 0, len(entries)+1)
		kept = append(kept, entry)
		for _, e := range entries {
			if e.ContentID != entry.ContentID {
				kept = append(kept, e)
			}
		}
		out = kept
		return kept, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// checkUserID rejects anything that is not a UUID before it reaches a file
// path. The user id names the history file on disk.
func checkUserID(userID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return fmt.Errorf("%w: user id %q is not a valid UUID", store.ErrValidation, userID)
	}
	return nil
}
