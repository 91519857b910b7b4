package ports

import (
	"context"
	"errors"
	"time"

	"github.com/casira/connect/internal/notifications/domain"
	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	// Create stores one or more notifications in a single batch
	Create(ctx context.Context, notifications ...*domain.Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)

	// ListForUser returns a page of the user's notifications, newest first,
	// with the total matching count and the user's unread count
	ListForUser(ctx context.Context, userID uuid.UUID, filter ListFilter) (notifications []*domain.Notification, total int, unread int, err error)

	MarkRead(ctx context.Context, n *domain.Notification) error

	// MarkAllRead marks every unread notification of the user and reports how many changed
	MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)

	// GetRecipient retrieves just the recipient for ownership checks
	GetRecipient(ctx context.Context, id uuid.UUID) (uuid.UUID, error)

	// PurgeRead deletes read notifications created before the cutoff
	PurgeRead(ctx context.Context, before time.Time) (int64, error)
}

type ListFilter struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

func DefaultListFilter() ListFilter {
	return ListFilter{Limit: 20}
}
