// Streamkeep - Self-Hosted Streaming Media Catalog API
// Copyright 2026 Streamkeep Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streamkeep/streamkeep

package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"github.com/streamkeep/streamkeep/internal/config"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(config.StorageConfig{
		DataDir:        t.TempDir(),
		LockAttempts:   5,
		LockBackoffMin: 10 * time.Millisecond,
		LockBackoffMax: 40 * time.Millisecond,
	})
}

// Critical sections for the same path must never overlap.
func TestWithLock_SerializesSamePath(t *testing.T) {
	s := newTestStore(t)
	path := s.Path("doc.json")

	const goroutines = 8
	const iterations = 25

	var counter, inSection atomic.Int64
	var wg sync.WaitGroup
	errCh := make(chan error, goroutines)

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				err := s.WithLock(context.Background(), path, func() error {
					if holders := inSection.Add(1); holders != 1 {
						t.Errorf("overlapping critical sections: %d holders", holders)
					}
					counter.Add(1)
					inSection.Add(-1)
					return nil
				})
				if err != nil {
					errCh <- err
					return
				}
			}
		}()
	}
	wg.Wait()

	select {
	case err := <-errCh:
		t.Fatalf("WithLock failed: %v", err)
	default:
	}
	if got := counter.Load(); got != goroutines*iterations {
		t.Errorf("lost updates: counter = %d, want %d", got, goroutines*iterations)
	}
}

// Different paths lock independently: a section holding one path must not
// block a section on another path.
func TestWithLock_IndependentPaths(t *testing.T) {
	s := newTestStore(t)
	pathA := s.Path("a.json")
	pathB := s.Path("b.json")

	release := make(chan struct{})
	held := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- s.WithLock(context.Background(), pathA, func() error {
			close(held)
			<-release
			return nil
		})
	}()

	<-held
	bDone := make(chan error, 1)
	go func() {
		bDone <- s.WithLock(context.Background(), pathB, func() error { return nil })
	}()

	select {
	case err := <-bDone:
		if err != nil {
			t.Fatalf("independent path lock failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("lock on different path blocked behind unrelated holder")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("holder failed: %v", err)
	}
}

// A lock held elsewhere exhausts the retry budget and surfaces ErrLockTimeout.
func TestWithLock_TimeoutWhenHeld(t *testing.T) {
	s := newTestStore(t)
	path := s.Path("doc.json")

	// Hold the advisory lock through an independent handle, as another
	// process would.
	holder := flock.New(path + lockSuffix)
	if err := holder.Lock(); err != nil {
		t.Fatalf("failed to pre-acquire lock: %v", err)
	}
	defer holder.Unlock()

	start := time.Now()
	err := s.WithLock(context.Background(), path, func() error {
		t.Error("critical section ran despite held lock")
		return nil
	})
	if !errors.Is(err, ErrLockTimeout) {
		t.Fatalf("expected ErrLockTimeout, got %v", err)
	}
	// 4 waits of 10,20,40,40ms: acquisition must have actually backed off.
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("retry budget consumed too fast: %s", elapsed)
	}
}

// A released lock is immediately acquirable again, including after a
// critical section that failed.
func TestWithLock_ReleasedOnErrorPath(t *testing.T) {
	s := newTestStore(t)
	path := s.Path("doc.json")

	wantErr := errors.New("section failed")
	if err := s.WithLock(context.Background(), path, func() error { return wantErr }); !errors.Is(err, wantErr) {
		t.Fatalf("expected section error to propagate, got %v", err)
	}

	if err := s.WithLock(context.Background(), path, func() error { return nil }); err != nil {
		t.Fatalf("lock was not released after failed section: %v", err)
	}
}

func TestWithLock_ContextCancelled(t *testing.T) {
	s := newTestStore(t)
	path := s.Path("doc.json")

	holder := flock.New(path + lockSuffix)
	if err := holder.Lock(); err != nil {
		t.Fatalf("failed to pre-acquire lock: %v", err)
	}
	defer holder.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.WithLock(ctx, path, func() error { return nil })
	if !errors.Is(err, ErrLockTimeout) {
		t.Fatalf("expected ErrLockTimeout on cancelled context, got %v", err)
	}
}

func TestStore_PathJoinsUnderDataDir(t *testing.T) {
	s := newTestStore(t)
	got := s.Path("series", "echoes.json")
	want := filepath.Join(s.DataDir(), "series", "echoes.json")
	if got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}
