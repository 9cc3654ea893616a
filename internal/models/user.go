// Package models defines the records persisted by the key-value store.
package models

import (
	"strings"
	"time"

	"github.com/udx-labs/userdesk/internal/timex"
)

// Role classifies a user's privileges.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleGuest     Role = "guest"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleModerator, RoleGuest:
		return true
	}
	return false
}

// Status is a user's lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusPending   Status = "pending"
	StatusSuspended Status = "suspended"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending, StatusSuspended:
		return true
	}
	return false
}

// User is a single user record. Identity lives only in the encoded form:
// every read re-decodes from storage, so two reads return independent copies.
//
// Email uniqueness is enforced at the API boundary, not here; a caller
// writing through the repository directly can create duplicates.
type User struct {
	ID             int        `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Role           Role       `json:"role"`
	Status         Status     `json:"status"`
	RegisteredDate timex.Date `json:"registeredDate"`
	LastLogin      *time.Time `json:"lastLogin"`
	Notes          string     `json:"notes,omitempty"`
	// PasswordHash holds the argon2id hash for users registered through the
	// API. Seeded demo users carry none and authenticate by email alone.
	PasswordHash string    `json:"passwordHash,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Clone returns a structural copy of u. LastLogin is re-pointed so the copy
// shares no mutable state with the original; all other fields are values.
func (u User) Clone() User {
	c := u
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	return c
}

// EmailEquals compares e against the record's email, case-insensitively.
func (u User) EmailEquals(e string) bool {
	return strings.EqualFold(u.Email, e)
}
