// Streamkeep - Self-Hosted Streaming Media Catalog API
// Copyright 2026 Streamkeep Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streamkeep/streamkeep

package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/streamkeep/streamkeep/internal/config"
	"github.com/streamkeep/streamkeep/internal/models"
	"github.com/streamkeep/streamkeep/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return New(store.New(config.StorageConfig{
		DataDir:        t.TempDir(),
		LockAttempts:   5,
		LockBackoffMin: 10 * time.Millisecond,
		LockBackoffMax: 40 * time.Millisecond,
	}))
}

func TestBootstrap_CreatesAdminOnce(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Bootstrap(ctx, "admin", "initial-password"); err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	admin, err := svc.Admin(ctx)
	if err != nil {
		t.Fatalf("Admin() error = %v", err)
	}
	if admin.Username != "admin" || admin.Role != models.RoleAdmin || !admin.Active {
		t.Errorf("admin = %+v", admin)
	}
	if admin.PasswordHash == "initial-password" {
		t.Error("password stored in clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("initial-password")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}

	// A second bootstrap, even with different credentials, leaves the
	// existing record untouched.
	if err := svc.Bootstrap(ctx, "other", "other-password"); err != nil {
		t.Fatalf("second Bootstrap() error = %v", err)
	}
	again, err := svc.Admin(ctx)
	if err != nil {
		t.Fatalf("Admin() error = %v", err)
	}
	if again.ID != admin.ID || again.Username != "admin" {
		t.Errorf("second bootstrap replaced the admin: %+v", again)
	}
}

func TestCreate_User(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, "viewer01", "watchlist-secret")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if user.Role != models.RoleUser || !user.Active {
		t.Errorf("user = %+v", user)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 || list[0].Username != "viewer01" {
		t.Errorf("List() = %+v", list)
	}
}

func TestCreate_UsernameUniqueAcrossStores(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Bootstrap(ctx, "admin", "initial-password"); err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	if _, err := svc.Create(ctx, "viewer01", "watchlist-secret"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Colliding with another user.
	if _, err := svc.Create(ctx, "viewer01", "other-secret"); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate username, got %v", err)
	}
	// Colliding with the admin singleton.
	if _, err := svc.Create(ctx, "admin", "other-secret"); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict for admin username, got %v", err)
	}
	// Usernames are case-sensitive; a different casing is a different name.
	if _, err := svc.Create(ctx, "Viewer01", "other-secret"); err != nil {
		t.Fatalf("case variant must not conflict, got %v", err)
	}
}

func TestUpdate_PasswordRehash(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, "viewer01", "old-password1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	newPass := "new-password1"
	updated, err := svc.Update(ctx, user.ID, models.UserPatch{Password: &newPass})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.PasswordHash == user.PasswordHash {
		t.Error("password hash not rotated")
	}

	if _, err := svc.Authenticate(ctx, "viewer01", "new-password1"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "viewer01", "old-password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password still accepted: %v", err)
	}
}

func TestUpdate_Deactivate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, "viewer01", "watchlist-secret")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	inactive := false
	if _, err := svc.Update(ctx, user.ID, models.UserPatch{Active: &inactive}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	// A deactivated account fails exactly like a wrong password.
	if _, err := svc.Authenticate(ctx, "viewer01", "watchlist-secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for inactive account, got %v", err)
	}
}

func TestUpdate_UnknownID(t *testing.T) {
	svc := newTestService(t)

	active := true
	_, err := svc.Update(context.Background(), "ffffffff-ffff-4fff-8fff-ffffffffffff", models.UserPatch{Active: &active})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete_User(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, "viewer01", "watchlist-secret")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := svc.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 0 {
		t.Errorf("user still listed after delete: %+v", list)
	}
	if err := svc.Delete(ctx, user.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Bootstrap(ctx, "admin", "admin-password1"); err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	if _, err := svc.Create(ctx, "viewer01", "watchlist-secret"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	admin, err := svc.Authenticate(ctx, "admin", "admin-password1")
	if err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	if admin.Role != models.RoleAdmin {
		t.Errorf("admin role = %q", admin.Role)
	}

	user, err := svc.Authenticate(ctx, "viewer01", "watchlist-secret")
	if err != nil {
		t.Fatalf("user login failed: %v", err)
	}
	if user.Role != models.RoleUser {
		t.Errorf("user role = %q", user.Role)
	}

	if _, err := svc.Authenticate(ctx, "viewer01", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown username: got %v", err)
	}
}

func TestList_SortedByUsername(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"zoe", "amir", "mira"} {
		if _, err := svc.Create(ctx, name, "watchlist-secret"); err != nil {
			t.Fatalf("Create(%q) error = %v", name, err)
		}
	}
	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{"amir", "mira", "zoe"}
	for i := range want {
		if list[i].Username != want[i] {
			t.Errorf("list[%d] = %q, want %q", i, list[i].Username, want[i])
		}
	}
}
