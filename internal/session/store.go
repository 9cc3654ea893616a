// Package session manages the single current-user slot: one session record
// plus a lightweight logged-in flag, both in the key-value store.
//
// IsLoggedIn and IsSessionExpired are deliberately independent checks. The
// flag says a login happened and its token is genuine; only IsSessionExpired
// consults last-activity. Callers guarding anything must combine both.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/udx-labs/userdesk/internal/kvstore"
	"github.com/udx-labs/userdesk/internal/logging"
	"github.com/udx-labs/userdesk/internal/models"
	"github.com/udx-labs/userdesk/internal/users"
)

// DefaultTimeout is the inactivity window after which a session counts as
// expired.
const DefaultTimeout = 30 * time.Minute

type Store struct {
	kv     *kvstore.Store
	users  *users.Repository
	secret []byte
	log    logging.Logger
	now    func() time.Time
}

// NewStore wires the session slot to its storage namespace and the user
// repository it writes lastLogin through.
func NewStore(kv *kvstore.Store, users *users.Repository, tokenSecret string, log logging.Logger) *Store {
	return &Store{
		kv:     kv,
		users:  users,
		secret: []byte(tokenSecret),
		log:    log,
		now:    time.Now,
	}
}

// SetCurrentUser starts a session for user: it stores the session record
// and the flag record, and stamps lastLogin onto the underlying user row.
// The embedded user is a snapshot, not a live reference.
func (s *Store) SetCurrentUser(ctx context.Context, user models.User) (models.Session, error) {
	now := s.now()
	sessionID := s.GenerateSessionID()

	token, err := s.mintToken(user, sessionID, now)
	if err != nil {
		return models.Session{}, fmt.Errorf("mint session token: %w", err)
	}

	sess := models.Session{
		User:         user.Clone(),
		LoginTime:    now,
		LastActivity: now,
		SessionID:    sessionID,
	}
	s.kv.Set(ctx, kvstore.KeyCurrentUser, sess)

	flag := models.SessionFlag{
		IsLoggedIn:   true,
		SessionStart: now,
		SessionID:    sessionID,
		Token:        token,
	}
	s.kv.Set(ctx, kvstore.KeySessionFlag, flag)

	// login mutates the user table; a user absent from the collection (the
	// hard-coded demo account) is simply skipped
	if s.users.UpdateUser(ctx, user.ID, users.Patch{LastLogin: &now}) == nil {
		s.log.Debug(ctx, "lastLogin not stamped, user not in collection", "id", user.ID)
	}

	return sess, nil
}

// Current returns the full session record, or nil when nobody is logged in.
func (s *Store) Current(ctx context.Context) *models.Session {
	var sess models.Session
	if !s.kv.Get(ctx, kvstore.KeyCurrentUser, &sess) {
		return nil
	}
	return &sess
}

// GetCurrentUser returns the logged-in user snapshot, or nil.
func (s *Store) GetCurrentUser(ctx context.Context) *models.User {
	sess := s.Current(ctx)
	if sess == nil {
		return nil
	}
	u := sess.User.Clone()
	return &u
}

// IsLoggedIn reads the flag record only and verifies its token signature.
// It never checks activity-based expiry; see IsSessionExpired.
func (s *Store) IsLoggedIn(ctx context.Context) bool {
	var flag models.SessionFlag
	if !s.kv.Get(ctx, kvstore.KeySessionFlag, &flag) {
		return false
	}
	if !flag.IsLoggedIn {
		return false
	}
	if err := s.verifyToken(flag.Token); err != nil {
		s.log.Warn(ctx, "session flag token rejected", "error", err)
		return false
	}
	return true
}

// UpdateActivity refreshes the session's last-activity stamp. No-op when no
// session exists.
func (s *Store) UpdateActivity(ctx context.Context) {
	sess := s.Current(ctx)
	if sess == nil {
		return
	}
	sess.LastActivity = s.now()
	s.kv.Set(ctx, kvstore.KeyCurrentUser, sess)
}

// IsSessionExpired reports whether the session has been inactive for longer
// than timeout. A missing session counts as expired; inactivity exactly
// equal to the timeout does not.
func (s *Store) IsSessionExpired(ctx context.Context, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	sess := s.Current(ctx)
	if sess == nil {
		return true
	}
	return s.now().Sub(sess.LastActivity) > timeout
}

// Logout removes the session record and the flag record. Idempotent.
func (s *Store) Logout(ctx context.Context) {
	s.kv.Remove(ctx, kvstore.KeyCurrentUser)
	s.kv.Remove(ctx, kvstore.KeySessionFlag)
}

// GenerateSessionID builds an opaque id from a time-based prefix and a
// random suffix. Uniqueness is probabilistic, not guaranteed.
func (s *Store) GenerateSessionID() string {
	return fmt.Sprintf("sess-%d-%s", s.now().UnixMilli(), uuid.NewString()[:8])
}
