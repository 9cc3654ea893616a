package audit

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udx-labs/userdesk/internal/kvstore"
	"github.com/udx-labs/userdesk/internal/logging"
	"github.com/udx-labs/userdesk/internal/models"

	_ "modernc.org/sqlite"
)

func setupTrail(t *testing.T) (*Trail, *kvstore.Store) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(1)

	require.NoError(t, kvstore.RunMigrations(context.Background(), db))

	kv := kvstore.New(db, "test_", logging.Discard())
	return NewTrail(kv, "userdesk-test", logging.Discard()), kv
}

func TestRecord_AppendsWithSnapshot(t *testing.T) {
	trail, _ := setupTrail(t)
	ctx := context.Background()

	lastLogin := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	u := models.User{ID: 7, Name: "Dana", Email: "dana@example.com", LastLogin: &lastLogin}

	trail.Record(ctx, ActionUserCreated, u)

	got := trail.Entries(ctx)
	require.Len(t, got, 1)
	e := got[0]
	assert.Equal(t, ActionUserCreated, e.Action)
	assert.Equal(t, 7, e.UserID)
	assert.Equal(t, "userdesk-test", e.Agent)
	assert.NotEmpty(t, e.ID)
	require.NotNil(t, e.Snapshot.LastLogin)
	assert.True(t, e.Snapshot.LastLogin.Equal(lastLogin))
	// the snapshot's pointer must not alias the original
	assert.NotSame(t, u.LastLogin, e.Snapshot.LastLogin)
}

func TestEntries_NewestFirst(t *testing.T) {
	trail, _ := setupTrail(t)
	ctx := context.Background()

	trail.Record(ctx, ActionUserCreated, models.User{ID: 1})
	trail.Record(ctx, ActionUserUpdated, models.User{ID: 1})
	trail.Record(ctx, ActionUserDeleted, models.User{ID: 1})

	got := trail.Entries(ctx)
	require.Len(t, got, 3)
	assert.Equal(t, ActionUserDeleted, got[0].Action)
	assert.Equal(t, ActionUserCreated, got[2].Action)
}

func TestRecord_TrimsOldestBeyondBound(t *testing.T) {
	trail, kv := setupTrail(t)
	ctx := context.Background()

	// pre-fill the trail right at the bound; ids mark the order
	entries := make([]Entry, MaxEntries)
	for i := range entries {
		entries[i] = Entry{ID: "old", UserID: i, Action: ActionUserCreated}
	}
	require.True(t, kv.Set(ctx, kvstore.KeyAuditLog, entries))

	trail.Record(ctx, ActionUserDeleted, models.User{ID: -1})

	got := trail.Entries(ctx)
	require.Len(t, got, MaxEntries)
	assert.Equal(t, -1, got[0].UserID)     // newest kept
	assert.Equal(t, 1, got[len(got)-1].UserID) // entry 0 trimmed
}
