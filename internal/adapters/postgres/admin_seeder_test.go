package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/casira/connect/internal/adapters/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingQuerier struct {
	sql  []string
	args [][]any
}

func (q *recordingQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.sql = append(q.sql, sql)
	q.args = append(q.args, args)
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (q *recordingQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("unexpected query")
}

func (q *recordingQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("unexpected query")
}

func TestAdminSeeder(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("promotes normalized emails", func(t *testing.T) {
		db := &recordingQuerier{}
		seeder := postgres.NewAdminSeeder([]string{" Ana@Casira.org ", "", "luis@casira.org"}, clock)

		require.NoError(t, seeder.Seed(context.Background(), db))

		require.Len(t, db.sql, 1)
		assert.Contains(t, db.sql[0], "UPDATE users SET role = $1, updated_at = $2")
		assert.Contains(t, db.sql[0], "LOWER(email) IN ($3,$4)")
		assert.Contains(t, db.sql[0], "role <> $5")
		assert.Equal(t, "admin", db.args[0][0])
		assert.Equal(t, "ana@casira.org", db.args[0][2])
		assert.Equal(t, "luis@casira.org", db.args[0][3])
	})

	t.Run("does nothing without emails", func(t *testing.T) {
		db := &recordingQuerier{}
		require.NoError(t, postgres.NewAdminSeeder(nil, clock).Seed(context.Background(), db))
		assert.Empty(t, db.sql)
	})

	assert.Equal(t, "admin_accounts", postgres.NewAdminSeeder(nil, clock).Name())
}
