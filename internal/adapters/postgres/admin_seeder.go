package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/casira/connect/internal/platform/postgres"
	"github.com/casira/connect/internal/platform/seeder"
	"github.com/casira/connect/internal/users/domain"
)

// AdminSeeder promotes the configured accounts to admin. Accounts that have
// not registered yet are picked up on the next start.
type AdminSeeder struct {
	emails []string
	now    func() time.Time
}

func NewAdminSeeder(emails []string, now func() time.Time) *AdminSeeder {
	normalized := make([]string, 0, len(emails))
	for _, e := range emails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			normalized = append(normalized, e)
		}
	}
	return &AdminSeeder{emails: normalized, now: now}
}

func (s *AdminSeeder) Name() string { return "admin_accounts" }

func (s *AdminSeeder) Seed(ctx context.Context, db postgres.Querier) error {
	if len(s.emails) == 0 {
		return nil
	}

	repo := postgres.NewBaseRepositoryWith(db)
	_, err := repo.Exec(ctx, repo.SB.
		Update("users").
		Set("role", string(domain.RoleAdmin)).
		Set("updated_at", postgres.Timestamptz(s.now())).
		Where(sq.Eq{"LOWER(email)": s.emails}).
		Where(sq.NotEq{"role": string(domain.RoleAdmin)}))
	if err != nil {
		return fmt.Errorf("AdminSeeder.Seed: %w", err)
	}
	return nil
}

var _ seeder.Seeder = (*AdminSeeder)(nil)
