package api

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udx-labs/userdesk/internal/audit"
	"github.com/udx-labs/userdesk/internal/backup"
	"github.com/udx-labs/userdesk/internal/kvstore"
	"github.com/udx-labs/userdesk/internal/logging"
	"github.com/udx-labs/userdesk/internal/models"
	"github.com/udx-labs/userdesk/internal/session"
	"github.com/udx-labs/userdesk/internal/users"

	_ "modernc.org/sqlite"
)

// setupClient builds a zero-latency client over an empty in-memory store.
func setupClient(t *testing.T) (*Client, *users.Repository) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(1)

	require.NoError(t, kvstore.RunMigrations(context.Background(), db))

	log := logging.Discard()
	kv := kvstore.New(db, "test_", log)
	trail := audit.NewTrail(kv, "userdesk-test", log)
	repo := users.NewRepository(kv, trail, log)
	sessions := session.NewStore(kv, repo, "test-secret", log)
	backups := backup.NewStore(kv, log)

	return NewClient(repo, sessions, backups, kv, 0, log), repo
}

func login(t *testing.T, c *Client) {
	t.Helper()
	_, err := c.Request(context.Background(), "POST", "/auth/login",
		LoginRequest{Email: DemoEmail, Password: DemoPassword})
	require.NoError(t, err)
}

func TestLogin_DemoPairAlwaysSucceeds(t *testing.T) {
	c, repo := setupClient(t)
	ctx := context.Background()

	// the collection is empty, the demo pair still works
	require.Empty(t, repo.GetUsers(ctx))

	resp, err := c.Request(ctx, "POST", "/auth/login",
		LoginRequest{Email: "ADMIN@demo.com", Password: DemoPassword})
	require.NoError(t, err)
	assert.True(t, resp.Success)

	data, ok := resp.Data.(LoginData)
	require.True(t, ok)
	assert.Equal(t, models.RoleAdmin, data.User.Role)
	assert.NotEmpty(t, data.Session.SessionID)
}

func TestLogin_DemoPairWrongPasswordFails(t *testing.T) {
	c, _ := setupClient(t)

	_, err := c.Request(context.Background(), "POST", "/auth/login",
		LoginRequest{Email: DemoEmail, Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, StatusUnauthorized, StatusOf(err))
}

func TestLogin_HashlessUserAcceptedByEmailAlone(t *testing.T) {
	// seeded users carry no password hash; any password is accepted.
	// This pins the documented demo-data quirk.
	c, repo := setupClient(t)
	ctx := context.Background()

	repo.CreateUser(ctx, users.NewUser{Name: "A", Email: "a@x.com", Status: models.StatusActive})

	resp, err := c.Request(ctx, "POST", "/auth/login",
		LoginRequest{Email: "a@x.com", Password: "anything-at-all"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestLogin_InactiveUserRejected(t *testing.T) {
	c, repo := setupClient(t)
	ctx := context.Background()

	repo.CreateUser(ctx, users.NewUser{Name: "A", Email: "a@x.com", Status: models.StatusSuspended})

	_, err := c.Request(ctx, "POST", "/auth/login", LoginRequest{Email: "a@x.com"})
	require.Error(t, err)
	assert.Equal(t, StatusUnauthorized, StatusOf(err))
}

func TestRegister_ThenLoginVerifiesPassword(t *testing.T) {
	c, _ := setupClient(t)
	ctx := context.Background()

	resp, err := c.Request(ctx, "POST", "/auth/register",
		RegisterRequest{Name: "New", Email: "new@x.com", Password: "hunter2"})
	require.NoError(t, err)
	assert.Equal(t, "Registration successful", resp.Message)

	data, ok := resp.Data.(LoginData)
	require.True(t, ok)
	assert.Empty(t, data.User.PasswordHash, "hashes never leave the API layer")

	_, err = c.Request(ctx, "POST", "/auth/logout", nil)
	require.NoError(t, err)

	// wrong password: registered users get a real credential check
	_, err = c.Request(ctx, "POST", "/auth/login",
		LoginRequest{Email: "new@x.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, StatusUnauthorized, StatusOf(err))

	// right password
	_, err = c.Request(ctx, "POST", "/auth/login",
		LoginRequest{Email: "new@x.com", Password: "hunter2"})
	require.NoError(t, err)
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	c, repo := setupClient(t)
	ctx := context.Background()

	repo.CreateUser(ctx, users.NewUser{Name: "A", Email: "taken@x.com"})

	_, err := c.Request(ctx, "POST", "/auth/register",
		RegisterRequest{Name: "B", Email: "Taken@X.com", Password: "pw"})
	require.Error(t, err)
	assert.Equal(t, StatusConflict, StatusOf(err))
}

func TestUsers_RequireAuthentication(t *testing.T) {
	c, _ := setupClient(t)
	ctx := context.Background()

	for _, call := range []struct{ method, endpoint string }{
		{"GET", "/users"},
		{"POST", "/users"},
		{"PUT", "/users/1"},
		{"DELETE", "/users/1"},
		{"POST", "/users/bulk"},
		{"GET", "/reports"},
		{"POST", "/reports/generate"},
		{"GET", "/metrics/system"},
	} {
		_, err := c.Request(ctx, call.method, call.endpoint, nil)
		require.Error(t, err, "%s %s", call.method, call.endpoint)
		assert.Equal(t, StatusUnauthorized, StatusOf(err), "%s %s", call.method, call.endpoint)
	}
}

func TestUsers_CRUDFlow(t *testing.T) {
	c, _ := setupClient(t)
	ctx := context.Background()
	login(t, c)

	// create
	resp, err := c.Request(ctx, "POST", "/users",
		CreateUserRequest{Name: "A", Email: "a@x.com", Role: models.RoleModerator})
	require.NoError(t, err)
	created, ok := resp.Data.(models.User)
	require.True(t, ok)
	assert.Equal(t, 1, created.ID)

	// duplicate email conflicts at the API boundary
	_, err = c.Request(ctx, "POST", "/users", CreateUserRequest{Name: "B", Email: "A@X.com"})
	require.Error(t, err)
	assert.Equal(t, StatusConflict, StatusOf(err))

	// list
	resp, err = c.Request(ctx, "GET", "/users", nil)
	require.NoError(t, err)
	list, ok := resp.Data.(UserListData)
	require.True(t, ok)
	assert.Equal(t, 1, list.Count)

	// partial update via a map payload, as a loosely typed caller would send
	resp, err = c.Request(ctx, "PUT", "/users/1", map[string]any{"notes": "vip"})
	require.NoError(t, err)
	updated, ok := resp.Data.(models.User)
	require.True(t, ok)
	assert.Equal(t, "vip", updated.Notes)
	assert.Equal(t, "A", updated.Name, "unpatched fields survive")

	// update/delete unknown ids are 404s
	_, err = c.Request(ctx, "PUT", "/users/99", map[string]any{"notes": "x"})
	assert.Equal(t, StatusNotFound, StatusOf(err))
	_, err = c.Request(ctx, "DELETE", "/users/99", nil)
	assert.Equal(t, StatusNotFound, StatusOf(err))

	// delete
	_, err = c.Request(ctx, "DELETE", "/users/1", nil)
	require.NoError(t, err)

	// malformed id
	_, err = c.Request(ctx, "DELETE", "/users/abc", nil)
	assert.Equal(t, StatusBadRequest, StatusOf(err))
}

func TestBulk_SkipsMissingIDs(t *testing.T) {
	c, repo := setupClient(t)
	ctx := context.Background()
	login(t, c)

	u1 := repo.CreateUser(ctx, users.NewUser{Name: "A", Email: "a@x.com"})
	u3 := repo.CreateUser(ctx, users.NewUser{Name: "C", Email: "c@x.com"})

	resp, err := c.Request(ctx, "POST", "/users/bulk",
		BulkRequest{Operation: BulkDeactivate, UserIDs: []int{u1.ID, 42, u3.ID}})
	require.NoError(t, err)

	result, ok := resp.Data.(BulkResult)
	require.True(t, ok)
	assert.Equal(t, 3, result.Requested)
	assert.Equal(t, 2, result.Affected)

	assert.Equal(t, models.StatusInactive, repo.GetByID(ctx, u1.ID).Status)

	// delete through bulk
	resp, err = c.Request(ctx, "POST", "/users/bulk",
		BulkRequest{Operation: BulkDelete, UserIDs: []int{u1.ID, u3.ID, 42}})
	require.NoError(t, err)
	result = resp.Data.(BulkResult)
	assert.Equal(t, 2, result.Affected)

	// unknown operation
	_, err = c.Request(ctx, "POST", "/users/bulk",
		BulkRequest{Operation: "explode", UserIDs: []int{1}})
	assert.Equal(t, StatusBadRequest, StatusOf(err))
}

func TestReports_GenerateAndExport(t *testing.T) {
	c, repo := setupClient(t)
	ctx := context.Background()
	login(t, c)

	repo.CreateUser(ctx, users.NewUser{Name: "A", Email: "a@x.com", Role: models.RoleAdmin})
	repo.CreateUser(ctx, users.NewUser{Name: "B", Email: "b@x.com"})

	resp, err := c.Request(ctx, "GET", "/reports", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Data.([]ReportDescriptor))

	resp, err = c.Request(ctx, "POST", "/reports/generate",
		GenerateReportRequest{Type: "user-activity", Filters: ReportFilters{Role: models.RoleAdmin}})
	require.NoError(t, err)
	desc := resp.Data.(ReportDescriptor)
	assert.Equal(t, 1, desc.RowCount)
	assert.Equal(t, "completed", desc.Status)
	assert.NotEmpty(t, desc.ID)

	resp, err = c.Request(ctx, "POST", "/reports/export",
		ExportReportRequest{Format: "csv", Filters: ReportFilters{}})
	require.NoError(t, err)
	exported := resp.Data.(ExportData)
	assert.Equal(t, 2, exported.Count)
	assert.Contains(t, exported.Content, `"a@x.com"`)

	_, err = c.Request(ctx, "POST", "/reports/export",
		ExportReportRequest{Format: "xlsx"})
	assert.Equal(t, StatusBadRequest, StatusOf(err))
}

func TestMetrics_Endpoints(t *testing.T) {
	c, repo := setupClient(t)
	ctx := context.Background()
	login(t, c)

	repo.CreateUser(ctx, users.NewUser{Name: "A", Email: "a@x.com"})

	resp, err := c.Request(ctx, "GET", "/metrics/users", nil)
	require.NoError(t, err)
	stats := resp.Data.(models.Stats)
	assert.Equal(t, 1, stats.Total)

	resp, err = c.Request(ctx, "GET", "/metrics/system", nil)
	require.NoError(t, err)
	sys := resp.Data.(SystemMetrics)
	assert.NotZero(t, sys.Storage.TotalBytes)
	assert.Contains(t, sys.Keys, kvstore.KeyUsers)

	resp, err = c.Request(ctx, "GET", "/metrics/performance", nil)
	require.NoError(t, err)
	perf := resp.Data.(PerformanceMetrics)
	assert.NotZero(t, perf.RequestsHandled)
	assert.GreaterOrEqual(t, perf.LifetimeRequests, perf.RequestsHandled)

	_, err = c.Request(ctx, "GET", "/metrics/unknown", nil)
	assert.Equal(t, StatusNotFound, StatusOf(err))
}

func TestRequest_UnmatchedEndpoint(t *testing.T) {
	c, _ := setupClient(t)

	_, err := c.Request(context.Background(), "GET", "/teapots", nil)
	require.Error(t, err)
	assert.Equal(t, StatusNotFound, StatusOf(err))
}

func TestRequest_CancelledContext(t *testing.T) {
	c, _ := setupClient(t)
	c.latency = 5 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.Request(ctx, "GET", "/users", nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second, "cancellation must not wait out the latency")
}

func TestStatusOf_DefaultsToInternal(t *testing.T) {
	assert.Equal(t, StatusInternal, StatusOf(assert.AnError))
	assert.Equal(t, StatusNotFound, StatusOf(notFound("x")))
}
