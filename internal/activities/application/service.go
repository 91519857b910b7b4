package application

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/benbjohnson/clock"
	"github.com/casira/connect/internal/activities/domain"
	"github.com/casira/connect/internal/activities/ports"
	"github.com/casira/connect/internal/platform/apperror"
	"github.com/casira/connect/internal/platform/cache"
	"github.com/casira/connect/internal/platform/eventbus"
	"github.com/casira/connect/internal/platform/events"
	"github.com/casira/connect/internal/platform/logger"
	"github.com/casira/connect/internal/platform/postgres"
	"github.com/casira/connect/internal/platform/validator"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// EventSource labels events emitted by this service.
const EventSource = "ActivitiesService"

const maxSlugAttempts = 100

// ActivitiesService handles activity-related business logic
type ActivitiesService struct {
	txManager  postgres.TransactionManager
	repo       ports.ActivityRepository
	authorizer ports.Authorizer
	eventBus   *eventbus.Bus
	cache      *cache.Cache[*domain.Activity]
	clock      clock.Clock
	logger     logger.Logger
	listeners  eventbus.Group
}

// NewActivitiesService creates the service and subscribes its read cache to
// activity events and cache.invalidate requests.
func NewActivitiesService(
	txManager postgres.TransactionManager,
	repo ports.ActivityRepository,
	authorizer ports.Authorizer,
	eventBus *eventbus.Bus,
	cacheCfg cache.Config,
	clk clock.Clock,
	logger logger.Logger,
) (*ActivitiesService, error) {
	c, err := cache.New[*domain.Activity]("activities", cacheCfg.EntriesPerCache(), logger)
	if err != nil {
		return nil, fmt.Errorf("NewActivitiesService: %w", err)
	}

	s := &ActivitiesService{
		txManager:  txManager,
		repo:       repo,
		authorizer: authorizer,
		eventBus:   eventBus,
		cache:      c,
		clock:      clk,
		logger:     logger,
	}
	s.listeners.Add(
		c.InvalidateOn(eventBus, events.ActivityTopicPattern, activityCacheKey),
		c.ListenForInvalidation(eventBus),
	)
	return s, nil
}

// Close detaches the service's cache from the bus.
func (s *ActivitiesService) Close() {
	s.listeners.Close()
}

// CacheStats exposes the read cache counters.
func (s *ActivitiesService) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// Create creates a draft activity owned by the actor
func (s *ActivitiesService) Create(ctx context.Context, actorID uuid.UUID, details domain.Details) (*domain.Activity, error) {
	if err := s.authorize(ctx, actorID, "create", nil, "not authorized to create activities"); err != nil {
		return nil, err
	}

	activity, err := domain.NewActivity(details, actorID, s.clock.Now())
	if err != nil {
		return nil, domainError(err)
	}

	if err := s.ensureUniqueSlug(ctx, activity, nil); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, activity); err != nil {
		return nil, s.internal(ctx, err, "failed to create activity", "activityID", activity.ID)
	}

	s.eventBus.Emit(ctx, events.ActivityCreatedTopic, events.ActivityCreatedEvent{
		ActivityID: activity.ID,
		ActorID:    actorID,
		Title:      activity.Title,
		Status:     string(activity.Status),
		Priority:   string(activity.Priority),
		OccurredAt: activity.CreatedAt,
	}, eventbus.WithSource(EventSource))

	return activity, nil
}

// Get returns an activity, served from the read cache when possible
func (s *ActivitiesService) Get(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	activity, err := s.cache.GetOrLoad(activityKey(id), func() (*domain.Activity, error) {
		a, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return clone(a), nil
	})
	if err != nil {
		if errors.Is(err, ports.ErrActivityNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, s.internal(ctx, err, "failed to get activity", "activityID", id)
	}
	// cached values are shared; callers get their own copy
	return clone(activity), nil
}

// List returns a page of activities and the total matching count
func (s *ActivitiesService) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Activity, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = ports.DefaultListFilter().Limit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	activities, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, s.internal(ctx, err, "failed to list activities")
	}
	return activities, total, nil
}

// Update replaces an activity's details
func (s *ActivitiesService) Update(ctx context.Context, actorID, id uuid.UUID, details domain.Details) (*domain.Activity, error) {
	if err := s.authorize(ctx, actorID, "update", &id, "not authorized to update this activity"); err != nil {
		return nil, err
	}

	activity, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}

	oldSlug := activity.Slug
	if err := activity.Update(details, s.clock.Now()); err != nil {
		return nil, domainError(err)
	}
	if activity.Slug != oldSlug {
		if err := s.ensureUniqueSlug(ctx, activity, &id); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, activity); err != nil {
		return nil, s.internal(ctx, err, "failed to update activity", "activityID", id)
	}

	s.eventBus.Emit(ctx, events.ActivityUpdatedTopic, events.ActivityUpdatedEvent{
		ActivityID: activity.ID,
		ActorID:    actorID,
		Title:      activity.Title,
		OccurredAt: activity.UpdatedAt,
	}, eventbus.WithSource(EventSource))

	return activity, nil
}

// Delete removes an activity and its volunteer sign-ups
func (s *ActivitiesService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if err := s.authorize(ctx, actorID, "delete", &id, "not authorized to delete this activity"); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ports.ErrActivityNotFound) {
			return ErrActivityNotFound
		}
		return s.internal(ctx, err, "failed to delete activity", "activityID", id)
	}

	s.eventBus.Emit(ctx, events.ActivityDeletedTopic, events.ActivityDeletedEvent{
		ActivityID: id,
		ActorID:    actorID,
		OccurredAt: s.clock.Now(),
	}, eventbus.WithSource(EventSource))

	return nil
}

// ChangeStatus moves an activity through draft -> active -> completed, or to cancelled
func (s *ActivitiesService) ChangeStatus(ctx context.Context, actorID, id uuid.UUID, status string) (*domain.Activity, error) {
	if err := s.authorize(ctx, actorID, "status", &id, "not authorized to change the status of this activity"); err != nil {
		return nil, err
	}

	next, err := domain.ParseStatus(status)
	if err != nil {
		return nil, apperror.Validation(apperror.BusinessCodeInvalidFormat, err.Error())
	}

	activity, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}

	prev, err := activity.TransitionTo(next, s.clock.Now())
	if err != nil {
		return nil, apperror.Conflict(apperror.BusinessCodeInvalidStatusTransition, err.Error()).WithDetails(map[string]string{
			"from": string(activity.Status),
			"to":   string(next),
		})
	}

	if err := s.repo.Update(ctx, activity); err != nil {
		return nil, s.internal(ctx, err, "failed to update activity status", "activityID", id)
	}

	volunteers, err := s.repo.VolunteerIDs(ctx, id)
	if err != nil {
		// The status change is already stored; subscribers just get no recipients.
		s.logger.Warn(ctx, "failed to load volunteers for status event", "error", err, "activityID", id)
	}

	s.logger.Info(ctx, "activity status changed",
		"activityID", id,
		"actorID", actorID,
		"from", prev,
		"to", next,
	)

	s.eventBus.Emit(ctx, events.ActivityStatusChangedTopic, events.ActivityStatusChangedEvent{
		ActivityID: activity.ID,
		ActorID:    actorID,
		Title:      activity.Title,
		OldStatus:  string(prev),
		NewStatus:  string(next),
		Volunteers: volunteers,
		OccurredAt: activity.UpdatedAt,
	}, eventbus.WithSource(EventSource))

	return activity, nil
}

// Join signs the user up as a volunteer
func (s *ActivitiesService) Join(ctx context.Context, userID, id uuid.UUID) (*domain.Activity, error) {
	if err := s.authorize(ctx, userID, "join", nil, "not authorized to volunteer"); err != nil {
		return nil, err
	}

	var activity *domain.Activity
	err := postgres.WithinTx(ctx, s.txManager, func(tx pgx.Tx) error {
		repo := s.repo.WithTx(tx)

		var err error
		activity, err = s.loadForUpdate(ctx, repo, id)
		if err != nil {
			return err
		}

		already, err := repo.IsVolunteer(ctx, id, userID)
		if err != nil {
			return s.internal(ctx, err, "failed to check volunteer", "activityID", id)
		}
		if already {
			return ErrAlreadyVolunteer
		}

		if err := activity.AddVolunteer(s.clock.Now()); err != nil {
			return domainError(err)
		}
		if err := repo.AddVolunteer(ctx, id, userID); err != nil {
			if errors.Is(err, ports.ErrAlreadyVolunteer) {
				return ErrAlreadyVolunteer
			}
			return s.internal(ctx, err, "failed to add volunteer", "activityID", id)
		}
		if err := repo.Update(ctx, activity); err != nil {
			return s.internal(ctx, err, "failed to update volunteer count", "activityID", id)
		}
		return nil
	})
	if err != nil {
		return nil, s.txError(ctx, err, id)
	}

	s.emitVolunteer(ctx, events.ActivityVolunteerJoinedTopic, activity, userID)
	return activity, nil
}

// Leave withdraws the user's sign-up
func (s *ActivitiesService) Leave(ctx context.Context, userID, id uuid.UUID) (*domain.Activity, error) {
	var activity *domain.Activity
	err := postgres.WithinTx(ctx, s.txManager, func(tx pgx.Tx) error {
		repo := s.repo.WithTx(tx)

		var err error
		activity, err = s.loadForUpdate(ctx, repo, id)
		if err != nil {
			return err
		}

		if err := repo.RemoveVolunteer(ctx, id, userID); err != nil {
			if errors.Is(err, ports.ErrVolunteerNotFound) {
				return ErrNotVolunteer
			}
			return s.internal(ctx, err, "failed to remove volunteer", "activityID", id)
		}
		if err := activity.RemoveVolunteer(s.clock.Now()); err != nil {
			return ErrNotVolunteer
		}
		if err := repo.Update(ctx, activity); err != nil {
			return s.internal(ctx, err, "failed to update volunteer count", "activityID", id)
		}
		return nil
	})
	if err != nil {
		return nil, s.txError(ctx, err, id)
	}

	s.emitVolunteer(ctx, events.ActivityVolunteerLeftTopic, activity, userID)
	return activity, nil
}

// ListVolunteers returns the sign-ups of an activity
func (s *ActivitiesService) ListVolunteers(ctx context.Context, actorID, id uuid.UUID) ([]*domain.Volunteer, error) {
	if err := s.authorize(ctx, actorID, "volunteers", nil, "not authorized to list volunteers"); err != nil {
		return nil, err
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	volunteers, err := s.repo.ListVolunteers(ctx, id)
	if err != nil {
		return nil, s.internal(ctx, err, "failed to list volunteers", "activityID", id)
	}
	return volunteers, nil
}

// ===== HELPERS =====

func (s *ActivitiesService) emitVolunteer(ctx context.Context, topic eventbus.Topic, activity *domain.Activity, userID uuid.UUID) {
	s.eventBus.Emit(ctx, topic, events.ActivityVolunteerEvent{
		ActivityID:        activity.ID,
		CreatorID:         activity.CreatorID,
		VolunteerID:       userID,
		Title:             activity.Title,
		CurrentVolunteers: activity.CurrentVolunteers,
		MaxVolunteers:     activity.MaxVolunteers,
		OccurredAt:        activity.UpdatedAt,
	}, eventbus.WithSource(EventSource))
}

func (s *ActivitiesService) authorize(ctx context.Context, actorID uuid.UUID, action string, id *uuid.UUID, denied string) error {
	allowed, err := s.authorizer.Can(ctx, actorID, "activities", action, id)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		s.logger.Error(ctx, "failed to check authorization", "error", err, "actorID", actorID, "action", action)
		return ErrAuthorization
	}
	if !allowed {
		return apperror.Forbidden(denied)
	}
	return nil
}

func (s *ActivitiesService) load(ctx context.Context, repo ports.ActivityRepository, id uuid.UUID) (*domain.Activity, error) {
	activity, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrActivityNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, s.internal(ctx, err, "failed to load activity", "activityID", id)
	}
	return activity, nil
}

func (s *ActivitiesService) loadForUpdate(ctx context.Context, repo ports.ActivityRepository, id uuid.UUID) (*domain.Activity, error) {
	activity, err := repo.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrActivityNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, s.internal(ctx, err, "failed to lock activity", "activityID", id)
	}
	return activity, nil
}

// txError passes AppErrors through and wraps transaction plumbing failures.
func (s *ActivitiesService) txError(ctx context.Context, err error, id uuid.UUID) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return s.internal(ctx, err, "volunteer transaction failed", "activityID", id)
}

func (s *ActivitiesService) ensureUniqueSlug(ctx context.Context, activity *domain.Activity, excludeID *uuid.UUID) error {
	base := activity.Slug
	for i := 0; i < maxSlugAttempts; i++ {
		candidate := validator.MakeSlugUnique(base, i, domain.MaxSlugLength)
		exists, err := s.repo.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return s.internal(ctx, err, "failed to check slug", "slug", candidate)
		}
		if !exists {
			activity.Slug = candidate
			return nil
		}
	}
	return apperror.Conflict(apperror.BusinessCodeGeneral, "could not generate a unique slug")
}

func (s *ActivitiesService) internal(ctx context.Context, err error, msg string, kv ...any) error {
	s.logger.Error(ctx, msg, append([]any{"error", err}, kv...)...)
	return apperror.Internal(err, msg)
}

func activityKey(id uuid.UUID) string {
	return "activity:" + id.String()
}

// activityCacheKey names the cache entry an activity event makes stale.
func activityCacheKey(e eventbus.Event) (string, bool) {
	switch p := e.Payload.(type) {
	case events.ActivityCreatedEvent:
		return activityKey(p.ActivityID), true
	case events.ActivityUpdatedEvent:
		return activityKey(p.ActivityID), true
	case events.ActivityDeletedEvent:
		return activityKey(p.ActivityID), true
	case events.ActivityVolunteerEvent:
		return activityKey(p.ActivityID), true
	case events.ActivityStatusChangedEvent:
		return activityKey(p.ActivityID), true
	default:
		return "", false
	}
}

func clone(a *domain.Activity) *domain.Activity {
	cp := *a
	cp.Tags = slices.Clone(a.Tags)
	return &cp
}
