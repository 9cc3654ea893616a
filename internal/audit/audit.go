// Package audit keeps a bounded, append-only record of user mutations in
// the key-value store. Entries are never modified after being written; when
// the trail overflows, the oldest entries are dropped.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/udx-labs/userdesk/internal/kvstore"
	"github.com/udx-labs/userdesk/internal/logging"
	"github.com/udx-labs/userdesk/internal/models"
)

// Action tags the kind of mutation an entry records.
type Action string

const (
	ActionUserCreated Action = "USER_CREATED"
	ActionUserUpdated Action = "USER_UPDATED"
	ActionUserDeleted Action = "USER_DELETED"
)

// MaxEntries bounds the trail; the oldest entries are trimmed on overflow.
const MaxEntries = 1000

// Entry is one recorded mutation. Snapshot is a structural copy of the
// affected record taken at write time.
type Entry struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Action    Action      `json:"action"`
	UserID    int         `json:"userId"`
	Snapshot  models.User `json:"snapshot"`
	Agent     string      `json:"agent"`
}

// Trail records entries under the audit key of the given store.
type Trail struct {
	kv    *kvstore.Store
	agent string
	log   logging.Logger
	now   func() time.Time
}

func NewTrail(kv *kvstore.Store, agent string, log logging.Logger) *Trail {
	return &Trail{kv: kv, agent: agent, log: log, now: time.Now}
}

// Record appends an entry for the given action and user snapshot. Failures
// are logged and swallowed: auditing never blocks the mutation it describes.
func (t *Trail) Record(ctx context.Context, action Action, user models.User) {
	now := t.now()
	entry := Entry{
		ID:        newEntryID(now),
		Timestamp: now,
		Action:    action,
		UserID:    user.ID,
		Snapshot:  user.Clone(),
		Agent:     t.agent,
	}

	var entries []Entry
	t.kv.Get(ctx, kvstore.KeyAuditLog, &entries)

	entries = append(entries, entry)
	if len(entries) > MaxEntries {
		entries = entries[len(entries)-MaxEntries:]
	}

	if !t.kv.Set(ctx, kvstore.KeyAuditLog, entries) {
		t.log.Warn(ctx, "audit entry not persisted", "action", action, "userId", user.ID)
	}
}

// Entries returns the trail newest-first.
func (t *Trail) Entries(ctx context.Context) []Entry {
	var entries []Entry
	t.kv.Get(ctx, kvstore.KeyAuditLog, &entries)

	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	return out
}

// newEntryID builds a synthetic id: millisecond timestamp plus a random
// suffix. Uniqueness is probabilistic.
func newEntryID(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}
