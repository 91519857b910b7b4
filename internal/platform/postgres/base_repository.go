package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL SQLSTATE codes for constraint failures
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Querier is a common interface for both pgxpool.Pool and pgx.Tx
// This allows us to support both regular queries and transactions
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row
}

// BaseRepository contains the common database components that all repositories need
type BaseRepository struct {
	DB Querier                 // Database connection (pool or transaction)
	SB sq.StatementBuilderType // SQL builder with PostgreSQL placeholders
}

// NewBaseRepository creates a new base repository with a database pool
func NewBaseRepository(db *pgxpool.Pool) BaseRepository {
	return NewBaseRepositoryWith(db)
}

// NewBaseRepositoryWith creates a base repository over any Querier
func NewBaseRepositoryWith(db Querier) BaseRepository {
	return BaseRepository{
		DB: db,
		SB: sq.StatementBuilder.PlaceholderFormat(sq.Dollar), // PostgreSQL $1, $2 placeholders
	}
}

// WithTx creates a new BaseRepository that uses the provided transaction
func (b BaseRepository) WithTx(tx pgx.Tx) BaseRepository {
	return BaseRepository{
		DB: tx,
		SB: b.SB, // Keep the same statement builder configuration
	}
}

// Exec builds and runs a statement
func (b BaseRepository) Exec(ctx context.Context, q sq.Sqlizer) (pgconn.CommandTag, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("build query: %w", err)
	}
	return b.DB.Exec(ctx, query, args...)
}

// QueryRow builds a query and returns its single row
func (b BaseRepository) QueryRow(ctx context.Context, q sq.Sqlizer) (pgx.Row, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return b.DB.QueryRow(ctx, query, args...), nil
}

// Query builds a query and returns its rows. The caller closes them.
func (b BaseRepository) Query(ctx context.Context, q sq.Sqlizer) (pgx.Rows, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return b.DB.Query(ctx, query, args...)
}

// Exists wraps sub in SELECT EXISTS(...)
func (b BaseRepository) Exists(ctx context.Context, sub sq.SelectBuilder) (bool, error) {
	subSQL, args, err := sub.ToSql()
	if err != nil {
		return false, fmt.Errorf("build subquery: %w", err)
	}

	// squirrel has no EXISTS builder
	var exists bool
	if err := b.DB.QueryRow(ctx, fmt.Sprintf("SELECT EXISTS(%s)", subSQL), args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Count runs a COUNT(*) query
func (b BaseRepository) Count(ctx context.Context, q sq.SelectBuilder) (int, error) {
	row, err := b.QueryRow(ctx, q)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Page applies LIMIT and OFFSET when they are positive
func Page(qb sq.SelectBuilder, limit, offset int) sq.SelectBuilder {
	if limit > 0 {
		qb = qb.Limit(uint64(limit))
	}
	if offset > 0 {
		qb = qb.Offset(uint64(offset))
	}
	return qb
}

// IsUniqueViolation reports whether err is a unique constraint failure
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// IsForeignKeyViolation reports whether err is a failed reference to a missing row
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

// IsNoRows reports whether err means the query matched nothing
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// UUID converts an ID for use as a query argument
func UUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

// NullUUID converts an optional ID; nil becomes SQL NULL
func NullUUID(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return UUID(*id)
}

// UUIDPtr converts a nullable column back to an optional ID
func UUIDPtr(v pgtype.UUID) *uuid.UUID {
	if !v.Valid {
		return nil
	}
	id := uuid.UUID(v.Bytes)
	return &id
}

// Timestamptz converts a time for use as a query argument
func Timestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

// NullTimestamptz converts an optional time; nil becomes SQL NULL
func NullTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return Timestamptz(*t)
}

// TimePtr converts a nullable timestamp column back to an optional time
func TimePtr(v pgtype.Timestamptz) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

// Text converts an optional string column to its value, "" for NULL
func Text(v pgtype.Text) string {
	if !v.Valid {
		return ""
	}
	return v.String
}

// NullText stores "" as SQL NULL
func NullText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
