// Streamkeep - Self-Hosted Streaming Media Catalog API
// Copyright 2026 Streamkeep Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streamkeep/streamkeep

// Package api provides the HTTP surface over the catalog services: chi
// routing, JWT session auth, rate limiting and error mapping.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/streamkeep/streamkeep/internal/audit"
	"github.com/streamkeep/streamkeep/internal/catalog"
	"github.com/streamkeep/streamkeep/internal/models"
	"github.com/streamkeep/streamkeep/internal/users"
	"github.com/streamkeep/streamkeep/internal/validation"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	movies     *catalog.Movies
	categories *catalog.Categories
	series     *catalog.Series
	history    *catalog.History
	users      *users.Service
	audit      *audit.Logger
	jwt        *JWTManager
}

// NewHandler wires the services into one handler set.
func NewHandler(
	movies *catalog.Movies,
	categories *catalog.Categories,
	series *catalog.Series,
	history *catalog.History,
	userSvc *users.Service,
	auditLog *audit.Logger,
	jwtManager *JWTManager,
) *Handler {
	return &Handler{
		movies:     movies,
		categories: categories,
		series:     series,
		history:    history,
		users:      userSvc,
		audit:      auditLog,
		jwt:        jwtManager,
	}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// loginRequest is the login payload.
type loginRequest struct {
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// Login authenticates a username/password pair and returns a session token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error()})
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	token, err := h.jwt.Generate(user.ID, user.Username, string(user.Role))
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.audit.Log(audit.Record{
		Actor:  user.Username,
		Action: audit.ActionLogin,
		Target: audit.TargetSession,
	})
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// ---- movies ----

func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.movies.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, movies)
}

func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	movie, err := h.movies.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, movie)
}

func (h *Handler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var in models.Movie
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	movie, err := h.movies.Create(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.auditAction(r, audit.ActionCreate, audit.TargetMovie, movie.Slug)
	respondJSON(w, http.StatusCreated, movie)
}

func (h *Handler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	var patch models.MoviePatch
	if err := decodeBody(r, &patch); err != nil {
		respondError(w, r, err)
		return
	}
	movie, err := h.movies.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.auditAction(r, audit.ActionUpdate, audit.TargetMovie, movie.Slug)
	respondJSON(w, http.StatusOK, movie)
}

func (h *Handler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.movies.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	h.auditAction(r, audit.ActionDelete, audit.TargetMovie, id)
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) IncrementMovieView(w http.ResponseWriter, r *http.Request) {
	if err := h.movies.IncrementView(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// ---- categories ----

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.categories.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cats)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in models.Category
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	cat, err := h.categories.Create(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.auditAction(r, audit.ActionCreate, audit.TargetCategory, cat.Slug)
	respondJSON(w, http.StatusCreated, cat)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var patch models.CategoryPatch
	if err := decodeBody(r, &patch); err != nil {
		respondError(w, r, err)
		return
	}
	cat, err := h.categories.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.auditAction(r, audit.ActionUpdate, audit.TargetCategory, cat.Slug)
	respondJSON(w, http.StatusOK, cat)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.categories.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	h.auditAction(r, audit.ActionDelete, audit.TargetCategory, id)
	respondJSON(w, http.StatusNoContent, nil)
}

// ---- series ----

func (h *Handler) ListSeries(w http.ResponseWriter, r *http.Request) {
	all, err := h.series.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, all)
}

func (h *Handler) GetSeries(w http.ResponseWriter, r *http.Request) {
	sr, err := h.series.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sr)
}

func (h *Handler) CreateOrMergeSeries(w http.ResponseWriter, r *http.Request) {
	var in models.SeriesInput
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&in); verr != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error()})
		return
	}
	sr, err := h.series.CreateOrMerge(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.auditAction(r, audit.ActionMerge, audit.TargetSeries, sr.Slug)
	respondJSON(w, http.StatusOK, sr)
}

func (h *Handler) UpdateSeries(w http.ResponseWriter, r *http.Request) {
	var patch models.SeriesPatch
	if err := decodeBody(r, &patch); err != nil {
		respondError(w, r, err)
		return
	}
	sr, err := h.series.Update(r.Context(), chi.URLParam(r, "slug"), patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.auditAction(r, audit.ActionUpdate, audit.TargetSeries, sr.Slug)
	respondJSON(w, http.StatusOK, sr)
}

func (h *Handler) DeleteSeries(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := h.series.Delete(r.Context(), slug); err != nil {
		respondError(w, r, err)
		return
	}
	h.auditAction(r, audit.ActionDelete, audit.TargetSeries, slug)
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) MergeEpisode(w http.ResponseWriter, r *http.Request) {
	var in models.EpisodeInput
	if err := decodeBody(r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&in); verr != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error()})
		return
	}
	slug := chi.URLParam(r, "slug")
	sr, err := h.series.MergeEpisode(r.Context(), slug, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.auditAction(r, audit.ActionMerge, audit.TargetSeries, slug)
	respondJSON(w, http.StatusOK, sr)
}

func (h *Handler) IncrementSeriesView(w http.ResponseWriter, r *http.Request) {
	if err := h.series.IncrementView(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// ---- users ----

// createUserRequest is the user creation payload.
type createUserRequest struct {
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	us, err := h.users.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	// hashes stay server-side
	type userView struct {
		ID        string `json:"id"`
		Username  string `json:"username"`
		Role      string `json:"role"`
		Active    bool   `json:"active"`
		CreatedAt string `json:"createdAt"`
	}
	views := make([]userView, len(us))
	for i, u := range us {
		views[i] = userView{
			ID:        u.ID,
			Username:  u.Username,
			Role:      string(u.Role),
			Active:    u.Active,
			CreatedAt: u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	respondJSON(w, http.StatusOK, views)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error()})
		return
	}
	user, err := h.users.Create(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.auditAction(r, audit.ActionCreate, audit.TargetUser, user.Username)
	respondJSON(w, http.StatusCreated, map[string]string{"id": user.ID, "username": user.Username})
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var patch models.UserPatch
	if err := decodeBody(r, &patch); err != nil {
		respondError(w, r, err)
		return
	}
	user, err := h.users.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.auditAction(r, audit.ActionUpdate, audit.TargetUser, user.Username)
	respondJSON(w, http.StatusOK, map[string]string{"id": user.ID, "username": user.Username})
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.users.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	h.auditAction(r, audit.ActionDelete, audit.TargetUser, id)
	respondJSON(w, http.StatusNoContent, nil)
}

// ---- history ----

// GetHistory returns the calling user's watch history.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	entries, err := h.history.Get(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// RecordHistory upserts a watch entry for the calling user.
func (h *Handler) RecordHistory(w http.ResponseWriter, r *http.Request) {
	var entry models.HistoryEntry
	if err := decodeBody(r, &entry); err != nil {
		respondError(w, r, err)
		return
	}
	claims := ClaimsFromContext(r.Context())
	entries, err := h.history.Record(r.Context(), claims.UserID, entry)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// auditAction records one mutation with the acting user from the request.
func (h *Handler) auditAction(r *http.Request, action audit.Action, target audit.TargetKind, details string) {
	actor := "anonymous"
	if claims := ClaimsFromContext(r.Context()); claims != nil {
		actor = claims.Username
	}
	h.audit.Log(audit.Record{
		Actor:   actor,
		Action:  action,
		Target:  target,
		Details: details,
	})
}
