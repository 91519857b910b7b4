package postgres

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/casira/connect/internal/activities/domain"
	"github.com/casira/connect/internal/activities/ports"
	"github.com/casira/connect/internal/platform/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var activityColumns = []string{
	"id", "title", "slug", "description", "location", "creator_id",
	"start_date", "end_date", "max_volunteers", "current_volunteers",
	"status", "priority", "tags", "created_at", "updated_at",
}

// ActivityRepository implements activities.ActivityRepository using PostgreSQL
type ActivityRepository struct {
	postgres.BaseRepository
}

func NewActivityRepository(db *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{
		BaseRepository: postgres.NewBaseRepository(db),
	}
}

// WithTx creates a new repository instance that uses the provided transaction
func (r *ActivityRepository) WithTx(tx pgx.Tx) ports.ActivityRepository {
	return &ActivityRepository{
		BaseRepository: r.BaseRepository.WithTx(tx),
	}
}

func (r *ActivityRepository) Create(ctx context.Context, a *domain.Activity) error {
	_, err := r.Exec(ctx, r.SB.
		Insert("activities").
		Columns(activityColumns...).
		Values(
			postgres.UUID(a.ID),
			a.Title,
			a.Slug,
			a.Description,
			a.Location,
			postgres.UUID(a.CreatorID),
			postgres.NullTimestamptz(a.StartDate),
			postgres.NullTimestamptz(a.EndDate),
			nullInt(a.MaxVolunteers),
			a.CurrentVolunteers,
			string(a.Status),
			string(a.Priority),
			tags(a.Tags),
			postgres.Timestamptz(a.CreatedAt),
			postgres.Timestamptz(a.UpdatedAt),
		))
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("ActivityRepository.Create: slug %q taken: %w", a.Slug, err)
		}
		return fmt.Errorf("ActivityRepository.Create: %w", err)
	}
	return nil
}

func (r *ActivityRepository) Update(ctx context.Context, a *domain.Activity) error {
	result, err := r.Exec(ctx, r.SB.
		Update("activities").
		SetMap(map[string]any{
			"title":              a.Title,
			"slug":               a.Slug,
			"description":        a.Description,
			"location":           a.Location,
			"start_date":         postgres.NullTimestamptz(a.StartDate),
			"end_date":           postgres.NullTimestamptz(a.EndDate),
			"max_volunteers":     nullInt(a.MaxVolunteers),
			"current_volunteers": a.CurrentVolunteers,
			"status":             string(a.Status),
			"priority":           string(a.Priority),
			"tags":               tags(a.Tags),
			"updated_at":         postgres.Timestamptz(a.UpdatedAt),
		}).
		Where(sq.Eq{"id": postgres.UUID(a.ID)}))
	if err != nil {
		return fmt.Errorf("ActivityRepository.Update: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ports.ErrActivityNotFound
	}
	return nil
}

// Delete removes the activity; sign-ups go with it through ON DELETE CASCADE
func (r *ActivityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.Exec(ctx, r.SB.Delete("activities").Where(sq.Eq{"id": postgres.UUID(id)}))
	if err != nil {
		return fmt.Errorf("ActivityRepository.Delete: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ports.ErrActivityNotFound
	}
	return nil
}

func (r *ActivityRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	return r.findOne(ctx, "ActivityRepository.FindByID", r.selectByID(id))
}

// FindByIDForUpdate locks the row until the surrounding transaction ends
func (r *ActivityRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	return r.findOne(ctx, "ActivityRepository.FindByIDForUpdate", r.selectByID(id).Suffix("FOR UPDATE"))
}

func (r *ActivityRepository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Activity, int, error) {
	where := activityFilters(filter)

	total, err := r.Count(ctx, r.SB.Select("COUNT(*)").From("activities").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("ActivityRepository.List: count: %w", err)
	}

	qb := r.SB.Select(activityColumns...).From("activities").Where(where).
		OrderBy("start_date ASC NULLS LAST", "created_at DESC")
	rows, err := r.Query(ctx, postgres.Page(qb, filter.Limit, filter.Offset))
	if err != nil {
		return nil, 0, fmt.Errorf("ActivityRepository.List: %w", err)
	}
	defer rows.Close()

	var activities []*domain.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ActivityRepository.List: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ActivityRepository.List: rows error: %w", err)
	}
	return activities, total, nil
}

func (r *ActivityRepository) SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	sub := r.SB.Select("1").From("activities").Where(sq.Eq{"slug": slug})
	if excludeID != nil {
		sub = sub.Where(sq.NotEq{"id": postgres.UUID(*excludeID)})
	}

	exists, err := r.Exists(ctx, sub)
	if err != nil {
		return false, fmt.Errorf("ActivityRepository.SlugExists: %w", err)
	}
	return exists, nil
}

// GetCreator retrieves just the creator ID for an activity (for ownership checks)
func (r *ActivityRepository) GetCreator(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row, err := r.QueryRow(ctx, r.SB.Select("creator_id").From("activities").Where(sq.Eq{"id": postgres.UUID(id)}))
	if err != nil {
		return uuid.Nil, fmt.Errorf("ActivityRepository.GetCreator: %w", err)
	}

	var creator pgtype.UUID
	if err := row.Scan(&creator); err != nil {
		if postgres.IsNoRows(err) {
			return uuid.Nil, ports.ErrActivityNotFound
		}
		return uuid.Nil, fmt.Errorf("ActivityRepository.GetCreator: %w", err)
	}
	return uuid.UUID(creator.Bytes), nil
}

func (r *ActivityRepository) AddVolunteer(ctx context.Context, activityID, userID uuid.UUID) error {
	_, err := r.Exec(ctx, r.SB.
		Insert("activity_volunteers").
		Columns("activity_id", "user_id", "joined_at").
		Values(postgres.UUID(activityID), postgres.UUID(userID), sq.Expr("NOW()")))
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return ports.ErrAlreadyVolunteer
		}
		return fmt.Errorf("ActivityRepository.AddVolunteer: %w", err)
	}
	return nil
}

func (r *ActivityRepository) RemoveVolunteer(ctx context.Context, activityID, userID uuid.UUID) error {
	result, err := r.Exec(ctx, r.SB.
		Delete("activity_volunteers").
		Where(sq.Eq{"activity_id": postgres.UUID(activityID), "user_id": postgres.UUID(userID)}))
	if err != nil {
		return fmt.Errorf("ActivityRepository.RemoveVolunteer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ports.ErrVolunteerNotFound
	}
	return nil
}

func (r *ActivityRepository) IsVolunteer(ctx context.Context, activityID, userID uuid.UUID) (bool, error) {
	exists, err := r.Exists(ctx, r.SB.
		Select("1").
		From("activity_volunteers").
		Where(sq.Eq{"activity_id": postgres.UUID(activityID), "user_id": postgres.UUID(userID)}))
	if err != nil {
		return false, fmt.Errorf("ActivityRepository.IsVolunteer: %w", err)
	}
	return exists, nil
}

func (r *ActivityRepository) ListVolunteers(ctx context.Context, activityID uuid.UUID) ([]*domain.Volunteer, error) {
	rows, err := r.Query(ctx, r.SB.
		Select("v.activity_id", "v.user_id", "u.username", "v.joined_at").
		From("activity_volunteers v").
		Join("users u ON u.id = v.user_id").
		Where(sq.Eq{"v.activity_id": postgres.UUID(activityID)}).
		OrderBy("v.joined_at ASC"))
	if err != nil {
		return nil, fmt.Errorf("ActivityRepository.ListVolunteers: %w", err)
	}
	defer rows.Close()

	var volunteers []*domain.Volunteer
	for rows.Next() {
		var v domain.Volunteer
		var aid, uid pgtype.UUID
		if err := rows.Scan(&aid, &uid, &v.Username, &v.JoinedAt); err != nil {
			return nil, fmt.Errorf("ActivityRepository.ListVolunteers: %w", err)
		}
		v.ActivityID = uuid.UUID(aid.Bytes)
		v.UserID = uuid.UUID(uid.Bytes)
		volunteers = append(volunteers, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ActivityRepository.ListVolunteers: rows error: %w", err)
	}
	return volunteers, nil
}

func (r *ActivityRepository) VolunteerIDs(ctx context.Context, activityID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.Query(ctx, r.SB.
		Select("user_id").
		From("activity_volunteers").
		Where(sq.Eq{"activity_id": postgres.UUID(activityID)}))
	if err != nil {
		return nil, fmt.Errorf("ActivityRepository.VolunteerIDs: %w", err)
	}

	ids, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (uuid.UUID, error) {
		var id pgtype.UUID
		err := row.Scan(&id)
		return uuid.UUID(id.Bytes), err
	})
	if err != nil {
		return nil, fmt.Errorf("ActivityRepository.VolunteerIDs: %w", err)
	}
	return ids, nil
}

// Helper methods

func (r *ActivityRepository) selectByID(id uuid.UUID) sq.SelectBuilder {
	return r.SB.Select(activityColumns...).From("activities").Where(sq.Eq{"id": postgres.UUID(id)})
}

func (r *ActivityRepository) findOne(ctx context.Context, op string, qb sq.SelectBuilder) (*domain.Activity, error) {
	row, err := r.QueryRow(ctx, qb)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a, err := scanActivity(row)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, ports.ErrActivityNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// activityFilters builds the WHERE clause shared by List and its count
func activityFilters(filter ports.ListFilter) sq.And {
	where := sq.And{}
	if filter.Status != nil {
		where = append(where, sq.Eq{"status": string(*filter.Status)})
	}
	if filter.Priority != nil {
		where = append(where, sq.Eq{"priority": string(*filter.Priority)})
	}
	if filter.CreatorID != nil {
		where = append(where, sq.Eq{"creator_id": postgres.UUID(*filter.CreatorID)})
	}
	if filter.Tag != "" {
		where = append(where, sq.Expr("? = ANY(tags)", strings.ToLower(filter.Tag)))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + s + "%"
		where = append(where, sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"description": pattern},
		})
	}
	return where
}

func scanActivity(row pgx.Row) (*domain.Activity, error) {
	var a domain.Activity
	var id, creator pgtype.UUID
	var start, end pgtype.Timestamptz
	var maxVolunteers pgtype.Int4
	var status, priority string

	err := row.Scan(
		&id,
		&a.Title,
		&a.Slug,
		&a.Description,
		&a.Location,
		&creator,
		&start,
		&end,
		&maxVolunteers,
		&a.CurrentVolunteers,
		&status,
		&priority,
		&a.Tags,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.ID = uuid.UUID(id.Bytes)
	a.CreatorID = uuid.UUID(creator.Bytes)
	a.StartDate = postgres.TimePtr(start)
	a.EndDate = postgres.TimePtr(end)
	if maxVolunteers.Valid {
		n := int(maxVolunteers.Int32)
		a.MaxVolunteers = &n
	}
	if a.Status, err = domain.ParseStatus(status); err != nil {
		return nil, fmt.Errorf("scanActivity: %w", err)
	}
	if a.Priority, err = domain.ParsePriority(priority); err != nil {
		return nil, fmt.Errorf("scanActivity: %w", err)
	}
	return &a, nil
}

func nullInt(n *int) pgtype.Int4 {
	if n == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: int32(*n), Valid: true}
}

// tags keeps an empty tag list as '{}' rather than NULL
func tags(t []string) []string {
	if t == nil {
		return []string{}
	}
	return t
}
