// Streamkeep - Self-Hosted Streaming Media Catalog API
// Copyright 2026 Streamkeep Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streamkeep/streamkeep

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/streamkeep/streamkeep/internal/logging"
	"github.com/streamkeep/streamkeep/internal/metrics"
)

// lockSuffix is appended to the target path to form the lock file. Locking
// a sibling file instead of the target keeps the lock stable across the
// atomic rename of the target itself.
const lockSuffix = ".lock"

// WithLock runs fn while holding the advisory lock for path. It grants
// at-most-one-holder mutual exclusion across goroutines and OS processes
// for all operations addressing the same path. Acquisition retries with
// growing backoff up to the configured attempt budget and returns
// ErrLockTimeout once exhausted. The lock is released on every exit path.
func (s *Store) WithLock(ctx context.Context, path string, fn func() error) error {
	lockPath := path + lockSuffix
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return &IOError{Op: "mkdir", Path: filepath.Dir(lockPath), Err: err}
	}

	fl := flock.New(lockPath)
	start := time.Now()

	wait := s.cfg.LockBackoffMin
	acquired := false
	for attempt := 1; attempt <= s.cfg.LockAttempts; attempt++ {
		locked, err := fl.TryLock()
		if err != nil {
			return &IOError{Op: "lock", Path: lockPath, Err: err}
		}
		if locked {
			acquired = true
			break
		}
		if attempt == s.cfg.LockAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s: %v", ErrLockTimeout, path, ctx.Err())
		case <-time.After(wait):
		}
		wait *= 2
		if wait > s.cfg.LockBackoffMax {
			wait = s.cfg.LockBackoffMax
		}
	}

	if !acquired {
		metrics.LockTimeouts.Inc()
		logging.Warn().
			Str("path", path).
			Int("attempts", s.cfg.LockAttempts).
			Dur("waited", time.Since(start)).
			Msg("lock acquisition exhausted retry budget")
		return fmt.Errorf("%w: %s", ErrLockTimeout, path)
	}
	metrics.LockWaitDuration.Observe(time.Since(start).Seconds())

	defer func() {
		if err := fl.Unlock(); err != nil {
			logging.Err(err).Str("path", path).Msg("failed to release file lock")
		}
	}()

	return fn()
}
