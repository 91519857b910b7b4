package application

import (
	"context"
	"errors"

	"github.com/casira/connect/internal/notifications/ports"
	"github.com/casira/connect/internal/platform/logger"
	"github.com/casira/connect/internal/platform/ownership"
	"github.com/google/uuid"
)

// RegisterNotificationsOwnership registers a checker that matches notifications to their recipient
func RegisterNotificationsOwnership(registry ownership.Registry, repo ports.NotificationRepository, log logger.Logger) {
	registry.RegisterChecker(ResourceType, ownership.CheckerFunc(func(ctx context.Context, userID, id uuid.UUID) (bool, error) {
		recipient, err := repo.GetRecipient(ctx, id)
		if err != nil {
			if errors.Is(err, ports.ErrNotificationNotFound) {
				return false, nil
			}
			log.Error(ctx, "failed to get notification recipient", "error", err, "notificationID", id)
			return false, err
		}
		return recipient == userID, nil
	}))
}
