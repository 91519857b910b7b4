package application

import (
	"context"
	"errors"

	"github.com/casira/connect/internal/activities/ports"
	"github.com/casira/connect/internal/platform/logger"
	"github.com/casira/connect/internal/platform/ownership"
	"github.com/google/uuid"
)

// ResourceType is the name activities are registered under for ownership checks.
const ResourceType = "activities"

// ActivitiesOwnershipChecker checks ownership of activities
// It depends directly on the repository, not the service
type ActivitiesOwnershipChecker struct {
	repo   ports.ActivityRepository
	logger logger.Logger
}

func NewActivitiesOwnershipChecker(repo ports.ActivityRepository, logger logger.Logger) *ActivitiesOwnershipChecker {
	return &ActivitiesOwnershipChecker{
		repo:   repo,
		logger: logger,
	}
}

// CheckOwnership reports whether userID created the activity
func (c *ActivitiesOwnershipChecker) CheckOwnership(ctx context.Context, userID uuid.UUID, resourceID uuid.UUID) (bool, error) {
	creatorID, err := c.repo.GetCreator(ctx, resourceID)
	if err != nil {
		if errors.Is(err, ports.ErrActivityNotFound) {
			return false, nil
		}
		c.logger.Error(ctx, "failed to get activity creator", "error", err, "activityID", resourceID)
		return false, err
	}

	return creatorID == userID, nil
}

// RegisterActivitiesOwnership registers the activities ownership checker with the registry
func RegisterActivitiesOwnership(registry ownership.Registry, repo ports.ActivityRepository, logger logger.Logger) {
	registry.RegisterChecker(ResourceType, NewActivitiesOwnershipChecker(repo, logger))
}
