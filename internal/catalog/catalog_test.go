// Streamkeep - Self-Hosted Streaming Media Catalog API
// Copyright 2026 Streamkeep Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streamkeep/streamkeep

package catalog

import (
	"os"
	"testing"
	"time"

	"github.com/streamkeep/streamkeep/internal/config"
	"github.com/streamkeep/streamkeep/internal/store"
	"github.com/streamkeep/streamkeep/internal/validation"
)

func TestMain(m *testing.M) {
	// The mediahost tag consults the configured allow-list; tests use
	// cdn.example.org for every media URL.
	validation.SetAllowedHosts([]string{"cdn.example.org"})
	os.Exit(m.Run())
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(config.StorageConfig{
		DataDir:        t.TempDir(),
		LockAttempts:   5,
		LockBackoffMin: 10 * time.Millisecond,
		LockBackoffMax: 40 * time.Millisecond,
	})
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }
