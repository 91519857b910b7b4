// Package seeder runs idempotent data fixes before the server accepts traffic.
package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/casira/connect/internal/platform/logger"
	"github.com/casira/connect/internal/platform/postgres"
	"github.com/jackc/pgx/v5"
)

// Seeder must be idempotent; it runs on every start.
type Seeder interface {
	Name() string
	Seed(ctx context.Context, db postgres.Querier) error
}

// Orchestrator runs seeders in order, each in its own transaction, and stops
// at the first failure. Earlier seeders stay committed.
type Orchestrator struct {
	db      postgres.TransactionManager
	seeders []Seeder
	logger  logger.Logger
}

func NewOrchestrator(logger logger.Logger, db postgres.TransactionManager, seeders []Seeder) *Orchestrator {
	return &Orchestrator{db: db, seeders: seeders, logger: logger}
}

func (o *Orchestrator) RunAll(ctx context.Context) error {
	for _, s := range o.seeders {
		start := time.Now()
		err := postgres.WithinTx(ctx, o.db, func(tx pgx.Tx) error {
			return s.Seed(ctx, tx)
		})
		if err != nil {
			o.logger.Error(ctx, "seeder failed", "seeder", s.Name(), "error", err)
			return fmt.Errorf("seeder %s failed: %w", s.Name(), err)
		}
		o.logger.Debug(ctx, "seeder completed", "seeder", s.Name(), "elapsed", time.Since(start))
	}
	o.logger.Info(ctx, "seeding finished", "seeders", len(o.seeders))
	return nil
}
