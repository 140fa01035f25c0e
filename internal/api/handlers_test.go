// Streamkeep - Self-Hosted Streaming Media Catalog API
// Copyright 2026 Streamkeep Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streamkeep/streamkeep

package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/streamkeep/streamkeep/internal/models"
)

func movieBody(title string) map[string]interface{} {
	return map[string]interface{}{
		"title":     title,
		"duration":  95,
		"streamUrl": "https://cdn.example.org/movies/stream.m3u8",
		"published": true,
	}
}

func TestMovieLifecycle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/movies", env.adminToken, movieBody("The Long Orbit"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d body %s", rec.Code, rec.Body.String())
	}
	var created models.Movie
	decodeResponse(t, rec, &created)
	if created.ID == "" || created.Slug != "the-long-orbit" {
		t.Fatalf("created = %+v", created)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/movies/"+created.ID, env.userToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodPut, "/api/v1/movies/"+created.ID, env.adminToken,
		map[string]interface{}{"year": 2024})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status = %d body %s", rec.Code, rec.Body.String())
	}
	var updated models.Movie
	decodeResponse(t, rec, &updated)
	if updated.Year != 2024 || updated.Title != "The Long Orbit" {
		t.Errorf("updated = %+v", updated)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/views/movies/"+created.ID, env.userToken, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("view: status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodDelete, "/api/v1/movies/"+created.ID, env.adminToken, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/api/v1/movies/"+created.ID, env.userToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status = %d, want 404", rec.Code)
	}
}

func TestCreateMovie_DuplicateSlugConflict(t *testing.T) {
	env := newTestEnv(t)

	if rec := env.do(t, http.MethodPost, "/api/v1/movies", env.adminToken, movieBody("Echo Chamber")); rec.Code != http.StatusCreated {
		t.Fatalf("first create: status = %d", rec.Code)
	}
	rec := env.do(t, http.MethodPost, "/api/v1/movies", env.adminToken, movieBody("Echo Chamber"))
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate create: status = %d, want 409", rec.Code)
	}
}

func TestCreateMovie_DisallowedHostRejected(t *testing.T) {
	env := newTestEnv(t)

	body := movieBody("Offsite")
	body["streamUrl"] = "https://evil.example.net/movie.m3u8"
	rec := env.do(t, http.MethodPost, "/api/v1/movies", env.adminToken, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateMovie_UnknownFieldRejected(t *testing.T) {
	env := newTestEnv(t)

	body := movieBody("Strict")
	body["surprise"] = true
	rec := env.do(t, http.MethodPost, "/api/v1/movies", env.adminToken, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSeriesImportAndEpisodeMerge(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]interface{}{
		"name":      "Echoes of Atlas",
		"published": true,
		"seasons": []map[string]interface{}{{
			"season": 1,
			"episodes": []map[string]interface{}{
				{"season": 1, "episode": 1, "title": "Landfall"},
			},
		}},
	}
	rec := env.do(t, http.MethodPost, "/api/v1/series", env.adminToken, payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("import: status = %d body %s", rec.Code, rec.Body.String())
	}
	var created models.Series
	decodeResponse(t, rec, &created)
	if created.Slug != "echoes-of-atlas" {
		t.Fatalf("slug = %q", created.Slug)
	}

	// Upsert one episode.
	rec = env.do(t, http.MethodPost, "/api/v1/series/echoes-of-atlas/episodes", env.adminToken,
		map[string]interface{}{"season": 1, "episode": 2, "title": "The Cartographer"})
	if rec.Code != http.StatusOK {
		t.Fatalf("episode merge: status = %d body %s", rec.Code, rec.Body.String())
	}
	var merged models.Series
	decodeResponse(t, rec, &merged)
	if len(merged.Seasons) != 1 || len(merged.Seasons[0].Episodes) != 2 {
		t.Fatalf("merged seasons = %+v", merged.Seasons)
	}

	// Re-import with a retitled episode 1: episode 2 must survive.
	payload["seasons"] = []map[string]interface{}{{
		"season": 1,
		"episodes": []map[string]interface{}{
			{"season": 1, "episode": 1, "title": "Landfall (Director's Cut)"},
		},
	}}
	rec = env.do(t, http.MethodPost, "/api/v1/series", env.adminToken, payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("re-import: status = %d", rec.Code)
	}
	var reimported models.Series
	decodeResponse(t, rec, &reimported)
	if reimported.ID != created.ID {
		t.Error("re-import replaced series identity")
	}
	eps := reimported.Seasons[0].Episodes
	if len(eps) != 2 || eps[0].Title != "Landfall (Director's Cut)" || eps[1].Title != "The Cartographer" {
		t.Errorf("episodes after re-import = %+v", eps)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/series/echoes-of-atlas", env.userToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodDelete, "/api/v1/series/echoes-of-atlas", env.adminToken, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d", rec.Code)
	}
}

func TestMergeEpisode_UnknownSeries(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/series/no-such-show/episodes", env.adminToken,
		map[string]interface{}{"season": 1, "episode": 1, "title": "Orphan"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCategoryLifecycle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/categories", env.adminToken,
		map[string]interface{}{"name": "Sci-Fi", "order": 1})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d body %s", rec.Code, rec.Body.String())
	}
	var created models.Category
	decodeResponse(t, rec, &created)
	if created.Slug != "sci-fi" {
		t.Errorf("slug = %q", created.Slug)
	}

	rec = env.do(t, http.MethodPut, "/api/v1/categories/"+created.ID, env.adminToken,
		map[string]interface{}{"order": 3})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodDelete, "/api/v1/categories/"+created.ID, env.adminToken, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d", rec.Code)
	}
}

func TestHistoryScopedToSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/history", env.userToken, map[string]interface{}{
		"contentId": "a2f1f9f0-3d6b-4f6e-9c7a-1b2c3d4e5f60",
		"type":      "movie",
		"progress":  0.5,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("record: status = %d body %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/v1/history", env.userToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status = %d", rec.Code)
	}
	var entries []models.HistoryEntry
	decodeResponse(t, rec, &entries)
	if len(entries) != 1 || entries[0].Progress != 0.5 {
		t.Fatalf("entries = %+v", entries)
	}

	// The admin's history is a separate file and stays empty.
	rec = env.do(t, http.MethodGet, "/api/v1/history", env.adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin get: status = %d", rec.Code)
	}
	var adminEntries []models.HistoryEntry
	decodeResponse(t, rec, &adminEntries)
	if len(adminEntries) != 0 {
		t.Errorf("history leaked across sessions: %+v", adminEntries)
	}
}

func TestUserManagement(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/users", env.adminToken,
		map[string]string{"username": "viewer02", "password": "another-secret"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d body %s", rec.Code, rec.Body.String())
	}
	var created map[string]string
	decodeResponse(t, rec, &created)
	if created["id"] == "" {
		t.Fatal("create returned no id")
	}

	// Duplicate username, including the admin's, conflicts.
	rec = env.do(t, http.MethodPost, "/api/v1/users", env.adminToken,
		map[string]string{"username": "admin", "password": "another-secret"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate username: status = %d, want 409", rec.Code)
	}

	// The listing never exposes password hashes.
	rec = env.do(t, http.MethodGet, "/api/v1/users", env.adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status = %d", rec.Code)
	}
	if body := rec.Body.String(); strings.Contains(body, "passwordHash") || strings.Contains(body, "$2a$") {
		t.Errorf("listing leaks hashes: %s", body)
	}

	rec = env.do(t, http.MethodPut, "/api/v1/users/"+created["id"], env.adminToken,
		map[string]interface{}{"active": false})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodDelete, "/api/v1/users/"+created["id"], env.adminToken, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d", rec.Code)
	}
}
