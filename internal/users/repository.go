// Package users implements CRUD, search, and aggregate queries over the
// user collection held in the key-value store. Every mutation re-reads the
// collection, rewrites it whole, and appends an audit entry.
//
// Lookups signal "not found" with a nil return, never an error; it is the
// API layer's job to turn that into a 404. Email uniqueness is likewise the
// API layer's check: writing through this package directly can create
// duplicate emails.
package users

import (
	"context"
	"strings"
	"time"

	"github.com/udx-labs/userdesk/internal/audit"
	"github.com/udx-labs/userdesk/internal/kvstore"
	"github.com/udx-labs/userdesk/internal/logging"
	"github.com/udx-labs/userdesk/internal/models"
	"github.com/udx-labs/userdesk/internal/timex"
)

// recentWindow is the trailing interval Stats counts registrations over.
const recentWindow = 30 * 24 * time.Hour

type Repository struct {
	kv    *kvstore.Store
	trail *audit.Trail
	log   logging.Logger
	now   func() time.Time
}

func NewRepository(kv *kvstore.Store, trail *audit.Trail, log logging.Logger) *Repository {
	return &Repository{kv: kv, trail: trail, log: log, now: time.Now}
}

// GetUsers returns the whole collection in insertion order.
func (r *Repository) GetUsers(ctx context.Context) []models.User {
	var users []models.User
	r.kv.Get(ctx, kvstore.KeyUsers, &users)
	return users
}

// GetByID returns the user with the given id, or nil.
func (r *Repository) GetByID(ctx context.Context, id int) *models.User {
	for _, u := range r.GetUsers(ctx) {
		if u.ID == id {
			c := u.Clone()
			return &c
		}
	}
	return nil
}

// GetByEmail returns the first user whose email matches case-insensitively,
// or nil.
func (r *Repository) GetByEmail(ctx context.Context, email string) *models.User {
	for _, u := range r.GetUsers(ctx) {
		if u.EmailEquals(email) {
			c := u.Clone()
			return &c
		}
	}
	return nil
}

// NewUser carries the caller-supplied fields of a user to create.
type NewUser struct {
	Name         string
	Email        string
	Role         models.Role
	Status       models.Status
	Notes        string
	PasswordHash string
}

// CreateUser appends a new record: id is one more than the current maximum
// (1 on an empty collection), the registration date is today, and the
// created/updated stamps are now.
func (r *Repository) CreateUser(ctx context.Context, data NewUser) models.User {
	users := r.GetUsers(ctx)

	maxID := 0
	for _, u := range users {
		if u.ID > maxID {
			maxID = u.ID
		}
	}

	role := data.Role
	if !role.Valid() {
		role = models.RoleUser
	}
	status := data.Status
	if !status.Valid() {
		status = models.StatusActive
	}

	now := r.now()
	user := models.User{
		ID:             maxID + 1,
		Name:           data.Name,
		Email:          data.Email,
		Role:           role,
		Status:         status,
		RegisteredDate: timex.DateOf(now),
		Notes:          data.Notes,
		PasswordHash:   data.PasswordHash,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	users = append(users, user)
	r.save(ctx, users)
	r.trail.Record(ctx, audit.ActionUserCreated, user)

	return user
}

// Patch holds the fields UpdateUser may overwrite. Nil fields are left as
// they are; id, registration date, and createdAt are never touched.
type Patch struct {
	Name         *string
	Email        *string
	Role         *models.Role
	Status       *models.Status
	Notes        *string
	LastLogin    *time.Time
	PasswordHash *string
}

// UpdateUser merges patch over the record with the given id, refreshes
// updatedAt, persists, and audits. Returns nil when the id is unknown.
func (r *Repository) UpdateUser(ctx context.Context, id int, patch Patch) *models.User {
	users := r.GetUsers(ctx)

	for i := range users {
		if users[i].ID != id {
			continue
		}

		u := &users[i]
		if patch.Name != nil {
			u.Name = *patch.Name
		}
		if patch.Email != nil {
			u.Email = *patch.Email
		}
		if patch.Role != nil {
			u.Role = *patch.Role
		}
		if patch.Status != nil {
			u.Status = *patch.Status
		}
		if patch.Notes != nil {
			u.Notes = *patch.Notes
		}
		if patch.LastLogin != nil {
			t := *patch.LastLogin
			u.LastLogin = &t
		}
		if patch.PasswordHash != nil {
			u.PasswordHash = *patch.PasswordHash
		}
		u.UpdatedAt = r.now()

		r.save(ctx, users)
		r.trail.Record(ctx, audit.ActionUserUpdated, *u)

		c := u.Clone()
		return &c
	}

	return nil
}

// DeleteUser removes the record with the given id. Returns false, leaving
// the collection untouched, when the id is unknown.
func (r *Repository) DeleteUser(ctx context.Context, id int) bool {
	users := r.GetUsers(ctx)

	for i, u := range users {
		if u.ID != id {
			continue
		}

		users = append(users[:i], users[i+1:]...)
		r.save(ctx, users)
		r.trail.Record(ctx, audit.ActionUserDeleted, u)
		return true
	}

	return false
}

// DeleteUsers removes each given id and returns how many actually existed.
func (r *Repository) DeleteUsers(ctx context.Context, ids []int) int {
	deleted := 0
	for _, id := range ids {
		if r.DeleteUser(ctx, id) {
			deleted++
		}
	}
	return deleted
}

// Filters narrows Search results; zero-valued fields are ignored.
type Filters struct {
	Role   models.Role
	Status models.Status
}

// Search matches query as a case-insensitive substring of name, email, or
// notes (any of the three), then applies the filters as exact matches.
// An empty query matches every record.
func (r *Repository) Search(ctx context.Context, query string, filters Filters) []models.User {
	q := strings.ToLower(query)

	var out []models.User
	for _, u := range r.GetUsers(ctx) {
		if q != "" &&
			!strings.Contains(strings.ToLower(u.Name), q) &&
			!strings.Contains(strings.ToLower(u.Email), q) &&
			!strings.Contains(strings.ToLower(u.Notes), q) {
			continue
		}
		if filters.Role != "" && u.Role != filters.Role {
			continue
		}
		if filters.Status != "" && u.Status != filters.Status {
			continue
		}
		out = append(out, u)
	}
	return out
}

// Stats recomputes the aggregate counters on every call; recent
// registrations are those within the trailing 30 days of wall-clock time.
func (r *Repository) Stats(ctx context.Context) models.Stats {
	now := r.now()

	var s models.Stats
	for _, u := range r.GetUsers(ctx) {
		s.Total++
		switch u.Status {
		case models.StatusActive:
			s.Active++
		case models.StatusInactive:
			s.Inactive++
		}
		if u.Role == models.RoleAdmin {
			s.Admins++
		} else {
			s.RegularUsers++
		}
		if u.RegisteredDate.WithinLast(recentWindow, now) {
			s.RecentRegistrations++
		}
	}
	return s
}

func (r *Repository) save(ctx context.Context, users []models.User) {
	if !r.kv.Set(ctx, kvstore.KeyUsers, users) {
		r.log.Warn(ctx, "user collection not persisted", "count", len(users))
	}
}
