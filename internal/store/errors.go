// Streamkeep - Self-Hosted Streaming Media Catalog API
// Copyright 2026 Streamkeep Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streamkeep/streamkeep

package store

import (
	"errors"
	"fmt"
)

// Sentinel errors for the store and the domain services built on it.
// Callers classify failures with errors.Is.
var (
	// ErrNotFound indicates a referenced id, slug or username is absent.
	ErrNotFound = errors.New("record not found")

	// ErrConflict indicates a uniqueness violation such as a duplicate
	// slug or username.
	ErrConflict = errors.New("record already exists")

	// ErrLockTimeout indicates the per-file lock could not be acquired
	// within the bounded retry budget.
	ErrLockTimeout = errors.New("lock acquisition timed out")

	// ErrValidation indicates a payload or stored document failed schema
	// checks. Invalid content is never silently coerced.
	ErrValidation = errors.New("document failed validation")
)

// IOError wraps a filesystem failure other than "file absent". It is never
// retried by the store and propagates to the caller unchanged.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// validationErr wraps ErrValidation with the offending path and detail.
func validationErr(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrValidation, path, err)
}

// ErrorType classifies an error for metrics labels.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrLockTimeout):
		return "lock_timeout"
	default:
		return "io"
	}
}
