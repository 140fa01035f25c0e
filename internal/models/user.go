// Streamkeep - Self-Hosted Streaming Media Catalog API
// Copyright 2026 Streamkeep Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streamkeep/streamkeep

package models

import "time"

// Role is the authorization role of a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is an account record. Exactly one admin-role record lives in its own
// single-record file; all other users share one list file. Usernames are
// unique across both stores, case-sensitive.
type User struct {
	ID           string    `json:"id" validate:"required,uuid4"`
	Username     string    `json:"username" validate:"required,username"`
	PasswordHash string    `json:"passwordHash" validate:"required"`
	Role         Role      `json:"role" validate:"required,oneof=admin user"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserPatch lists the updatable fields of a User. Password arrives in clear
// and is hashed by the user service; Username and Role are immutable after
// creation.
type UserPatch struct {
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=128"`
	Active   *bool   `json:"active,omitempty"`
}

// HistoryEntry records one watched item for a user. Per user there is at
// most one entry per ContentID; re-watching moves the entry to the front.
type HistoryEntry struct {
	ContentID   string    `json:"contentId" validate:"required,uuid4"`
	Type        string    `json:"type" validate:"required,oneof=movie series"`
	Progress    float64   `json:"progress" validate:"gte=0,lte=1"`
	Season      *int      `json:"season,omitempty" validate:"omitempty,gt=0"`
	Episode     *int      `json:"episode,omitempty" validate:"omitempty,gt=0"`
	LastWatched time.Time `json:"lastWatched"`
}
