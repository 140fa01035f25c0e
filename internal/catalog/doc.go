// Streamkeep - Self-Hosted Streaming Media Catalog API
// Copyright 2026 Streamkeep Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streamkeep/streamkeep

// Package catalog implements the domain services over the record store:
// movies, categories, series (including the season/episode merge engine)
// and per-user watch history.
//
// Services are thin: they generate identity on creation, enforce kind
// uniqueness, re-stamp timestamps on mutation and re-sort the owning
// collection with its stable comparator. Every read-modify-write runs
// inside one lock scope for the owning file.
package catalog
