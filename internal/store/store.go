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
	"reflect"
	"time"

	"github.com/streamkeep/streamkeep/internal/config"
	"github.com/streamkeep/streamkeep/internal/metrics"
	"github.com/streamkeep/streamkeep/internal/validation"
)

// Store is the validated record store rooted at a data directory. It holds
// no document state: every operation re-reads from the filesystem, which is
// the single authoritative copy of every record.
type Store struct {
	cfg config.StorageConfig
}

// New creates a Store rooted at cfg.DataDir.
func New(cfg config.StorageConfig) *Store {
	return &Store{cfg: cfg}
}

// Path joins path elements under the data directory.
func (s *Store) Path(elem ...string) string {
	return filepath.Join(append([]string{s.cfg.DataDir}, elem...)...)
}

// DataDir returns the root data directory.
func (s *Store) DataDir() string {
	return s.cfg.DataDir
}

// Load returns the parsed document at path, creating it with defaultValue
// (atomically written) if absent. The parsed content is validated against
// the record schema; a non-conforming file fails with ErrValidation.
//
// Load does not itself take the path lock: callers doing read-modify-write
// must wrap the whole cycle in WithLock so the read snapshot and the write
// are consistent.
func Load[T any](s *Store, path string, kind string, defaultValue T) (T, error) {
	start := time.Now()
	var doc T

	err := readJSON(path, &doc)
	switch {
	case err == nil:
	case os.IsNotExist(err):
		if werr := WriteJSON(path, defaultValue); werr != nil {
			metrics.RecordStoreOp("load", kind, time.Since(start), ErrorType(werr))
			return doc, werr
		}
		doc = defaultValue
	default:
		metrics.RecordStoreOp("load", kind, time.Since(start), ErrorType(err))
		return doc, err
	}

	if verr := validateDoc(doc); verr != nil {
		err := validationErr(path, verr)
		metrics.RecordStoreOp("load", kind, time.Since(start), ErrorType(err))
		return doc, err
	}

	metrics.RecordStoreOp("load", kind, time.Since(start), "")
	return doc, nil
}

// Get returns the parsed document at path, failing with ErrNotFound when
// the file is absent. Unlike Load it never materializes a default. Like
// Load it does not take the path lock itself.
func Get[T any](s *Store, path string, kind string) (T, error) {
	start := time.Now()
	var doc T

	err := readJSON(path, &doc)
	switch {
	case err == nil:
	case os.IsNotExist(err):
		err = fmt.Errorf("%w: %s", ErrNotFound, path)
		metrics.RecordStoreOp("get", kind, time.Since(start), ErrorType(err))
		return doc, err
	default:
		metrics.RecordStoreOp("get", kind, time.Since(start), ErrorType(err))
		return doc, err
	}

	if verr := validateDoc(doc); verr != nil {
		err := validationErr(path, verr)
		metrics.RecordStoreOp("get", kind, time.Since(start), ErrorType(err))
		return doc, err
	}

	metrics.RecordStoreOp("get", kind, time.Since(start), "")
	return doc, nil
}

// Save validates value against the record schema and writes it atomically.
// A validation failure aborts without touching the file.
func Save[T any](s *Store, path string, kind string, value T) error {
	start := time.Now()

	if verr := validateDoc(value); verr != nil {
		err := validationErr(path, verr)
		metrics.RecordStoreOp("save", kind, time.Since(start), ErrorType(err))
		return err
	}

	err := WriteJSON(path, value)
	metrics.RecordStoreOp("save", kind, time.Since(start), ErrorType(err))
	return err
}

// Update runs one read-modify-write cycle for path entirely inside the path
// lock: load (materializing defaultValue if absent), apply mutate, save the
// result. mutate must be a pure in-memory transformation; returning an error
// aborts without writing.
func Update[T any](ctx context.Context, s *Store, path string, kind string, defaultValue T, mutate func(T) (T, error)) (T, error) {
	var result T
	err := s.WithLock(ctx, path, func() error {
		doc, err := Load(s, path, kind, defaultValue)
		if err != nil {
			return err
		}
		next, err := mutate(doc)
		if err != nil {
			return err
		}
		if err := Save(s, path, kind, next); err != nil {
			return err
		}
		result = next
		return nil
	})
	return result, err
}

// View runs a read-only callback for path inside the path lock, so readers
// never observe a document mid-replacement by a same-process writer holding
// the lock.
func View[T any](ctx context.Context, s *Store, path string, kind string, defaultValue T, fn func(T) error) error {
	return s.WithLock(ctx, path, func() error {
		doc, err := Load(s, path, kind, defaultValue)
		if err != nil {
			return err
		}
		return fn(doc)
	})
}

// validateDoc validates a document of any supported shape: a single record
// struct, or a slice of records validated element-wise.
func validateDoc(doc interface{}) error {
	v := reflect.ValueOf(doc)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := validation.ValidateStruct(v.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	case reflect.Struct:
		if err := validation.ValidateStruct(doc); err != nil {
			return err
		}
		return nil
	default:
		// Nothing to validate for scalar documents.
		return nil
	}
}
