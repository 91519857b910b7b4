package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/casira/connect/internal/notifications/domain"
	"github.com/casira/connect/internal/notifications/ports"
	"github.com/casira/connect/internal/platform/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var notificationColumns = []string{
	"id", "user_id", "kind", "title", "message", "resource_id", "read", "read_at", "created_at",
}

// NotificationRepository implements the notifications.NotificationRepository interface using PostgreSQL
type NotificationRepository struct {
	postgres.BaseRepository
}

// NewNotificationRepository creates a new PostgreSQL notification repository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{
		BaseRepository: postgres.NewBaseRepository(db),
	}
}

// Create inserts all notifications with one multi-row INSERT
func (r *NotificationRepository) Create(ctx context.Context, notifications ...*domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	q := r.SB.Insert("notifications").Columns(notificationColumns...)
	for _, n := range notifications {
		q = q.Values(
			postgres.UUID(n.ID),
			postgres.UUID(n.UserID),
			string(n.Kind),
			n.Title,
			postgres.NullText(n.Message),
			postgres.NullUUID(n.ResourceID),
			n.Read,
			postgres.NullTimestamptz(n.ReadAt),
			postgres.Timestamptz(n.CreatedAt),
		)
	}

	if _, err := r.Exec(ctx, q); err != nil {
		return fmt.Errorf("NotificationRepository.Create: %w", err)
	}
	return nil
}

// FindByID retrieves a notification by its ID
func (r *NotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	row, err := r.QueryRow(ctx, r.SB.Select(notificationColumns...).From("notifications").Where(sq.Eq{"id": postgres.UUID(id)}))
	if err != nil {
		return nil, fmt.Errorf("NotificationRepository.FindByID: %w", err)
	}

	n, err := scanNotification(row)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, ports.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("NotificationRepository.FindByID: %w", err)
	}
	return n, nil
}

// ListForUser returns a page of the user's notifications with total and unread counts
func (r *NotificationRepository) ListForUser(ctx context.Context, userID uuid.UUID, filter ports.ListFilter) ([]*domain.Notification, int, int, error) {
	owner := sq.Eq{"user_id": postgres.UUID(userID)}
	where := sq.And{owner}
	if filter.UnreadOnly {
		where = append(where, sq.Eq{"read": false})
	}

	// One round trip for both counters
	row, err := r.QueryRow(ctx, r.SB.
		Select("COUNT(*) FILTER (WHERE NOT read)", "COUNT(*)").
		From("notifications").
		Where(owner))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("NotificationRepository.ListForUser: count: %w", err)
	}
	var unread, all int
	if err := row.Scan(&unread, &all); err != nil {
		return nil, 0, 0, fmt.Errorf("NotificationRepository.ListForUser: count: %w", err)
	}
	total := all
	if filter.UnreadOnly {
		total = unread
	}

	qb := r.SB.Select(notificationColumns...).From("notifications").Where(where).OrderBy("created_at DESC")
	rows, err := r.Query(ctx, postgres.Page(qb, filter.Limit, filter.Offset))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("NotificationRepository.ListForUser: %w", err)
	}

	notifications, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Notification, error) {
		return scanNotification(row)
	})
	if err != nil {
		return nil, 0, 0, fmt.Errorf("NotificationRepository.ListForUser: %w", err)
	}
	return notifications, total, unread, nil
}

// MarkRead persists the read flag of a notification
func (r *NotificationRepository) MarkRead(ctx context.Context, n *domain.Notification) error {
	result, err := r.Exec(ctx, r.SB.
		Update("notifications").
		Set("read", n.Read).
		Set("read_at", postgres.NullTimestamptz(n.ReadAt)).
		Where(sq.Eq{"id": postgres.UUID(n.ID)}))
	if err != nil {
		return fmt.Errorf("NotificationRepository.MarkRead: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ports.ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of the user as read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	result, err := r.Exec(ctx, r.SB.
		Update("notifications").
		Set("read", true).
		Set("read_at", postgres.Timestamptz(at)).
		Where(sq.Eq{"user_id": postgres.UUID(userID), "read": false}))
	if err != nil {
		return 0, fmt.Errorf("NotificationRepository.MarkAllRead: %w", err)
	}
	return result.RowsAffected(), nil
}

// GetRecipient retrieves just the recipient of a notification (for ownership checks)
func (r *NotificationRepository) GetRecipient(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row, err := r.QueryRow(ctx, r.SB.Select("user_id").From("notifications").Where(sq.Eq{"id": postgres.UUID(id)}))
	if err != nil {
		return uuid.Nil, fmt.Errorf("NotificationRepository.GetRecipient: %w", err)
	}

	var recipient pgtype.UUID
	if err := row.Scan(&recipient); err != nil {
		if postgres.IsNoRows(err) {
			return uuid.Nil, ports.ErrNotificationNotFound
		}
		return uuid.Nil, fmt.Errorf("NotificationRepository.GetRecipient: %w", err)
	}
	return uuid.UUID(recipient.Bytes), nil
}

// PurgeRead deletes read notifications created before the cutoff
func (r *NotificationRepository) PurgeRead(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.Exec(ctx, r.SB.
		Delete("notifications").
		Where(sq.Eq{"read": true}).
		Where(sq.Lt{"created_at": postgres.Timestamptz(before)}))
	if err != nil {
		return 0, fmt.Errorf("NotificationRepository.PurgeRead: %w", err)
	}
	return result.RowsAffected(), nil
}

func scanNotification(row pgx.Row) (*domain.Notification, error) {
	var n domain.Notification
	var id, user, resource pgtype.UUID
	var kind string
	var message pgtype.Text
	var readAt pgtype.Timestamptz

	if err := row.Scan(&id, &user, &kind, &n.Title, &message, &resource, &n.Read, &readAt, &n.CreatedAt); err != nil {
		return nil, err
	}

	n.ID = uuid.UUID(id.Bytes)
	n.UserID = uuid.UUID(user.Bytes)
	n.Kind = domain.Kind(kind)
	n.Message = postgres.Text(message)
	n.ResourceID = postgres.UUIDPtr(resource)
	n.ReadAt = postgres.TimePtr(readAt)
	return &n, nil
}
