package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/udx-labs/userdesk/internal/api"
	"github.com/udx-labs/userdesk/internal/audit"
	"github.com/udx-labs/userdesk/internal/backup"
	"github.com/udx-labs/userdesk/internal/config"
	"github.com/udx-labs/userdesk/internal/kvstore"
	"github.com/udx-labs/userdesk/internal/logging"
	"github.com/udx-labs/userdesk/internal/session"
	"github.com/udx-labs/userdesk/internal/users"

	_ "modernc.org/sqlite"
)

type App struct {
	config   *config.Config
	api      *api.Client
	users    *users.Repository
	sessions *session.Store
	backups  *backup.Store
	trail    *audit.Trail
	kv       *kvstore.Store
	log      logging.Logger

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the store and wires the full stack behind the REPL.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	kv, err := kvstore.Open(ctx, c.DatabaseDSN, c.Namespace, log)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	agent := fmt.Sprintf("userdesk (%s/%s)", runtime.GOOS, runtime.GOARCH)
	trail := audit.NewTrail(kv, agent, log)
	repo := users.NewRepository(kv, trail, log)
	sessions := session.NewStore(kv, repo, c.TokenSecret, log)
	backups := backup.NewStore(kv, log)
	client := api.NewClient(repo, sessions, backups, kv, c.Latency, log)

	return &App{
		config:   c,
		api:      client,
		users:    repo,
		sessions: sessions,
		backups:  backups,
		trail:    trail,
		kv:       kv,
		log:      log,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to userdesk (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// isLoggedIn is the REPL's guard: the flag must be genuine and the session
// must not have gone stale. A stale session is logged out on the spot.
func (a *App) isLoggedIn() bool {
	ctx := context.Background()
	if !a.sessions.IsLoggedIn(ctx) {
		return false
	}
	if a.sessions.IsSessionExpired(ctx, a.config.SessionTimeout) {
		fmt.Fprintln(a.out, "Session expired, please log in again")
		a.sessions.Logout(ctx)
		return false
	}
	return true
}

func (a *App) getStatus() string {
	if u := a.sessions.GetCurrentUser(context.Background()); u != nil {
		return fmt.Sprintf("(%s)", u.Email)
	}
	return ""
}

// touch refreshes last-activity after a successful guarded command.
func (a *App) touch(ctx context.Context) {
	a.sessions.UpdateActivity(ctx)
}
