// Streamkeep - Self-Hosted Streaming Media Catalog API
// Copyright 2026 Streamkeep Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streamkeep/streamkeep

// Package store implements the concurrent file-backed document store.
//
// Flat JSON files are treated as a lock-protected, schema-validated record
// store. Three layers compose:
//
//   - WriteJSON: atomic writes via a sibling temp file and rename, so a
//     concurrent reader observes either the fully-old or fully-new content.
//   - WithLock: cross-process advisory locking keyed by file path, with a
//     bounded retry budget and scoped release on every exit path.
//   - Load/Save/Update: a generic read-modify-write cycle that validates
//     the document against its schema on every load and before every save.
//
// Locks are keyed by file path, not by logical entity: two entities in the
// same file serialize together, while different files never block each
// other. There is no cross-file atomicity.
package store
