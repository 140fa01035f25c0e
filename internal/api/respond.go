// Streamkeep - Self-Hosted Streaming Media Catalog API
// Copyright 2026 Streamkeep Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streamkeep/streamkeep

package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/streamkeep/streamkeep/internal/logging"
	"github.com/streamkeep/streamkeep/internal/store"
	"github.com/streamkeep/streamkeep/internal/users"
)

// errorResponse is the JSON body returned for any failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes v with the given status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Err(err).Msg("failed to encode response")
	}
}

// respondError maps a service error onto an HTTP status. Validation,
// conflict and not-found surface their message; lock and I/O failures map
// to server-error responses without leaking internal detail.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	message := err.Error()

	switch {
	case errors.Is(err, store.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, users.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, store.ErrLockTimeout):
		status = http.StatusServiceUnavailable
		message = "storage is busy, try again"
	default:
		status = http.StatusInternalServerError
		message = "internal error"
	}

	if status >= http.StatusInternalServerError {
		logging.Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	respondJSON(w, status, errorResponse{Error: message})
}

// decodeBody parses the request body into v, limiting its size.
func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &badRequestError{msg: "malformed request body: " + err.Error()}
	}
	return nil
}

// badRequestError marks a client payload error before it reaches a service.
type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

// Is lets respondError classify payload errors as validation failures.
func (e *badRequestError) Is(target error) bool { return target == store.ErrValidation }
