package kvstore

import (
	"context"
	"time"

	"github.com/udx-labs/userdesk/internal/models"
	"github.com/udx-labs/userdesk/internal/timex"
)

// seed writes the sample user collection and the default settings record on
// first open. It keys off the users record alone: if that exists the store
// is considered initialized, whatever else is present.
func (s *Store) seed(ctx context.Context) {
	if s.Has(ctx, KeyUsers) {
		return
	}

	now := time.Now()
	users := sampleUsers(now)

	err := s.WithTx(ctx, func(ctx context.Context, tx *Store) error {
		tx.Set(ctx, KeyUsers, users)
		tx.Set(ctx, KeySettings, models.DefaultSettings())
		return nil
	})
	if err != nil {
		s.log.Warn(ctx, "seeding default data failed", "error", err)
		return
	}
	s.log.Info(ctx, "seeded default data", "users", len(users))
}

// sampleUsers is the demo collection a fresh store starts with. None of
// them carry a password hash; the simulated login accepts them by email.
func sampleUsers(now time.Time) []models.User {
	return []models.User{
		{
			ID:             1,
			Name:           "Alice Johnson",
			Email:          "alice@example.com",
			Role:           models.RoleAdmin,
			Status:         models.StatusActive,
			RegisteredDate: timex.DateOf(now.AddDate(0, 0, -45)),
			Notes:          "Primary administrator account",
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		{
			ID:             2,
			Name:           "Bob Smith",
			Email:          "bob@example.com",
			Role:           models.RoleUser,
			Status:         models.StatusActive,
			RegisteredDate: timex.DateOf(now.AddDate(0, 0, -12)),
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		{
			ID:             3,
			Name:           "Carol Davis",
			Email:          "carol@example.com",
			Role:           models.RoleModerator,
			Status:         models.StatusPending,
			RegisteredDate: timex.DateOf(now.AddDate(0, 0, -3)),
			Notes:          "Awaiting e-mail confirmation",
			CreatedAt:      now,
			UpdatedAt:      now,
		},
	}
}
