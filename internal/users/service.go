// Streamkeep - Self-Hosted Streaming Media Catalog API
// Copyright 2026 Streamkeep Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streamkeep/streamkeep

// Package users manages accounts: the admin singleton record and the shared
// list of non-admin users. Usernames are unique across both stores,
// case-sensitive. Passwords are stored as bcrypt hashes only.
package users

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/streamkeep/streamkeep/internal/logging"
	"github.com/streamkeep/streamkeep/internal/models"
	"github.com/streamkeep/streamkeep/internal/store"
)

const (
	// adminFile is the distinguished single-record file holding the one
	// admin-role account.
	adminFile = "admin.json"

	// usersFile is the shared list file holding all non-admin users.
	usersFile = "users.json"

	// bcryptCost balances hashing strength against login latency.
	bcryptCost = 12
)

// ErrInvalidCredentials indicates an unknown username, a wrong password, or
// a deactivated account. Callers must not distinguish which.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Service provides account operations over the record store.
type Service struct {
	store *store.Store
}

// New creates the user service.
func New(st *store.Store) *Service {
	return &Service{store: st}
}

func (s *Service) adminPath() string { return s.store.Path(adminFile) }
func (s *Service) usersPath() string { return s.store.Path(usersFile) }

// Bootstrap materializes the admin singleton on first run. An existing
// admin record is left untouched, whatever credentials it holds.
func (s *Service) Bootstrap(ctx context.Context, username, password string) error {
	path := s.adminPath()
	return s.store.WithLock(ctx, path, func() error {
		_, err := store.Get[models.User](s.store, path, "user")
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		now := time.Now().UTC()
		admin := models.User{
			ID:           uuid.NewString(),
			Username:     username,
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := store.Save(s.store, path, "user", admin); err != nil {
			return err
		}
		logging.Info().Str("username", username).Msg("admin account bootstrapped")
		return nil
	})
}

// Admin returns the admin singleton record.
func (s *Service) Admin(ctx context.Context) (models.User, error) {
	var out models.User
	path := s.adminPath()
	err := s.store.WithLock(ctx, path, func() error {
		admin, err := store.Get[models.User](s.store, path, "user")
		if err != nil {
			return err
		}
		out = admin
		return nil
	})
	return out, err
}

// List returns all non-admin users sorted by username.
func (s *Service) List(ctx context.Context) ([]models.User, error) {
	var out []models.User
	err := store.View(ctx, s.store, s.usersPath(), "user", []models.User{}, func(us []models.User) error {
		out = us
		return nil
	})
	return out, err
}

// Create adds a non-admin user. The username must be unique across the
// admin singleton and the user list. The two files are checked under their
// own locks; there is no cross-file transaction.
func (s *Service) Create(ctx context.Context, username, password string) (models.User, error) {
	admin, err := s.Admin(ctx)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return models.User{}, err
	}
	if err == nil && admin.Username == username {
		return models.User{}, fmt.Errorf("%w: username %q", store.ErrConflict, username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = store.Update(ctx, s.store, s.usersPath(), "user", []models.User{}, func(us []models.User) ([]models.User, error) {
		for _, u := range us {
			if u.Username == username {
				return nil, fmt.Errorf("%w: username %q", store.ErrConflict, username)
			}
		}
		us = append(us, user)
		sort.SliceStable(us, func(i, j int) bool { return us[i].Username < us[j].Username })
		return us, nil
	})
	if err != nil {
		return models.User{}, err
	}

	logging.Info().Str("username", username).Msg("user created")
	return user, nil
}

// Update applies a patch to the user with the given id. Username and role
// are immutable; a new password is re-hashed here.
func (s *Service) Update(ctx context.Context, id string, patch models.UserPatch) (models.User, error) {
	var hash string
	if patch.Password != nil {
		h, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcryptCost)
		if err != nil {
			return models.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		hash = string(h)
	}

	var updated models.User
	_, err := store.Update(ctx, s.store, s.usersPath(), "user", []models.User{}, func(us []models.User) ([]models.User, error) {
		for i := range us {
			if us[i].ID != id {
				continue
			}
			if hash != "" {
				us[i].PasswordHash = hash
			}
			if patch.Active != nil {
				us[i].Active = *patch.Active
			}
			us[i].UpdatedAt = time.Now().UTC()
			updated = us[i]
			return us, nil
		}
		return nil, fmt.Errorf("%w: user %s", store.ErrNotFound, id)
	})
	if err != nil {
		return models.User{}, err
	}
	return updated, nil
}

// Delete removes the user with the given id from the user list. The admin
// singleton cannot be deleted.
func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := store.Update(ctx, s.store, s.usersPath(), "user", []models.User{}, func(us []models.User) ([]models.User, error) {
		for i, u := range us {
			if u.ID == id {
				return append(us[:i], us[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%w: user %s", store.ErrNotFound, id)
	})
	return err
}

// Authenticate verifies a username/password pair against the admin
// singleton and the user list. Deactivated accounts fail the same way as
// wrong passwords.
func (s *Service) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	candidate, err := s.findByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a hash comparison so unknown usernames take as long
			// as wrong passwords.
			_ = bcrypt.CompareHashAndPassword(
				[]byte("$2a$12$000000000000000000000uGZLKQgNBRXgyxmr9tEXEnX3O4e5F0G2"),
				[]byte(password))
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(candidate.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	if !candidate.Active {
		return models.User{}, ErrInvalidCredentials
	}
	return candidate, nil
}

// findByUsername checks the admin singleton first, then the user list.
func (s *Service) findByUsername(ctx context.Context, username string) (models.User, error) {
	admin, err := s.Admin(ctx)
	if err == nil && admin.Username == username {
		return admin, nil
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return models.User{}, err
	}

	us, err := s.List(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range us {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("%w: username %q", store.ErrNotFound, username)
}
