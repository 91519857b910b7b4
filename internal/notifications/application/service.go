package application

import (
	"context"
	"errors"

	"github.com/benbjohnson/clock"
	"github.com/casira/connect/internal/authz/permission"
	"github.com/casira/connect/internal/notifications/domain"
	"github.com/casira/connect/internal/notifications/ports"
	"github.com/casira/connect/internal/platform/apperror"
	"github.com/casira/connect/internal/platform/logger"
	"github.com/google/uuid"
)

// ResourceType is the name notifications are registered under for ownership checks.
const ResourceType = "notifications"

var (
	ErrNotificationNotFound = apperror.NotFound(apperror.BusinessCodeNotificationNotFound, "notification not found")
	ErrAuthorization        = apperror.Internal(nil, "authorization check failed")
)

// Page is one page of a user's inbox
type Page struct {
	Notifications []*domain.Notification
	Total         int
	Unread        int
}

// NotificationsService serves a user's inbox
type NotificationsService struct {
	repo       ports.NotificationRepository
	authorizer ports.Authorizer
	clock      clock.Clock
	logger     logger.Logger
}

func NewNotificationsService(
	repo ports.NotificationRepository,
	authorizer ports.Authorizer,
	clk clock.Clock,
	logger logger.Logger,
) *NotificationsService {
	return &NotificationsService{
		repo:       repo,
		authorizer: authorizer,
		clock:      clk,
		logger:     logger,
	}
}

// ListForUser returns the user's notifications, newest first
func (s *NotificationsService) ListForUser(ctx context.Context, userID uuid.UUID, filter ports.ListFilter) (*Page, error) {
	if err := s.require(ctx, userID, permission.NotificationsReadOwn); err != nil {
		return nil, err
	}

	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = ports.DefaultListFilter().Limit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	list, total, unread, err := s.repo.ListForUser(ctx, userID, filter)
	if err != nil {
		return nil, s.internal(ctx, err, "failed to list notifications", "userID", userID)
	}
	return &Page{Notifications: list, Total: total, Unread: unread}, nil
}

// MarkRead marks one of the user's notifications as read
func (s *NotificationsService) MarkRead(ctx context.Context, userID, id uuid.UUID) (*domain.Notification, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotificationNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, s.internal(ctx, err, "failed to get notification", "notificationID", id)
	}

	allowed, err := s.authorizer.Can(ctx, userID, ResourceType, "update", &id)
	if err != nil {
		return nil, s.authzError(ctx, err, userID)
	}
	if !allowed {
		// Other users' notifications are indistinguishable from missing ones
		return nil, ErrNotificationNotFound
	}

	if !n.MarkRead(s.clock.Now()) {
		return n, nil
	}
	if err := s.repo.MarkRead(ctx, n); err != nil {
		return nil, s.internal(ctx, err, "failed to mark notification read", "notificationID", id)
	}
	return n, nil
}

// MarkAllRead marks the whole inbox as read and reports how many changed
func (s *NotificationsService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if err := s.require(ctx, userID, permission.NotificationsUpdateOwn); err != nil {
		return 0, err
	}

	n, err := s.repo.MarkAllRead(ctx, userID, s.clock.Now())
	if err != nil {
		return 0, s.internal(ctx, err, "failed to mark notifications read", "userID", userID)
	}
	return n, nil
}

func (s *NotificationsService) require(ctx context.Context, userID uuid.UUID, permissionID string) error {
	allowed, err := s.authorizer.HasPermission(ctx, userID, permissionID)
	if err != nil {
		return s.authzError(ctx, err, userID)
	}
	if !allowed {
		return apperror.Forbidden("not authorized to access notifications")
	}
	return nil
}

func (s *NotificationsService) authzError(ctx context.Context, err error, userID uuid.UUID) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	s.logger.Error(ctx, "failed to check authorization", "error", err, "userID", userID)
	return ErrAuthorization
}

func (s *NotificationsService) internal(ctx context.Context, err error, msg string, kv ...any) error {
	s.logger.Error(ctx, msg, append([]any{"error", err}, kv...)...)
	return apperror.Internal(err, msg)
}
