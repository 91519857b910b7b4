package application

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/casira/connect/internal/platform/apperror"
	"github.com/casira/connect/internal/platform/eventbus"
	"github.com/casira/connect/internal/platform/events"
	"github.com/casira/connect/internal/platform/logger"
	"github.com/casira/connect/internal/users/domain"
	"github.com/casira/connect/internal/users/ports"
	"github.com/google/uuid"
)

// EventSource labels events emitted by this service.
const EventSource = "UserService"

var (
	ErrUserNotFound      = apperror.NotFound(apperror.BusinessCodeUserNotFound, "user not found")
	ErrUserAlreadyExists = apperror.Conflict(apperror.BusinessCodeUserAlreadyExists, "user already exists")
	ErrUsernameTaken     = apperror.Conflict(apperror.BusinessCodeUsernameTaken, "username already taken")
	ErrRoleUnchanged     = apperror.Conflict(apperror.BusinessCodeRoleUnchanged, "user already has this role")
	ErrCannotChangeSelf  = apperror.New(
		apperror.CodeForbidden,
		apperror.BusinessCodeCannotChangeSelf,
		"admins cannot change their own role",
		http.StatusForbidden,
	)
)

// RegisterParams contains all parameters needed to create a new user
type RegisterParams struct {
	ExternalID  string
	Email       string
	Username    string
	DisplayName string
	Bio         string
	AvatarURL   string
}

// UpdateProfileParams contains parameters for updating user profile
type UpdateProfileParams struct {
	UserID      uuid.UUID
	DisplayName string
	Bio         string
	AvatarURL   string
}

type UserService struct {
	repo     ports.UserRepository
	eventBus *eventbus.Bus
	clock    clock.Clock
	logger   logger.Logger
}

func NewUserService(repo ports.UserRepository, eventBus *eventbus.Bus, clk clock.Clock, logger logger.Logger) *UserService {
	return &UserService{
		repo:     repo,
		eventBus: eventBus,
		clock:    clk,
		logger:   logger,
	}
}

// Register creates the local profile for an authenticated identity.
func (s *UserService) Register(ctx context.Context, params RegisterParams) (*domain.User, error) {
	if _, err := s.repo.FindByExternalID(ctx, params.ExternalID); err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, ports.ErrUserNotFound) {
		return nil, s.internal(ctx, err, "failed to look up user")
	}

	user, err := domain.NewUser(params.ExternalID, params.Email, params.Username, s.clock.Now())
	if err != nil {
		return nil, validationError(err)
	}

	exists, err := s.repo.ExistsByUsername(ctx, params.Username)
	if err != nil {
		return nil, s.internal(ctx, err, "failed to check username availability")
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	exists, err = s.repo.ExistsByEmail(ctx, params.Email)
	if err != nil {
		return nil, s.internal(ctx, err, "failed to check email availability")
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	user.UpdateProfile(params.DisplayName, params.Bio, params.AvatarURL, user.CreatedAt)

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, s.internal(ctx, err, "failed to save user")
	}

	s.eventBus.Emit(ctx, events.UserRegisteredTopic, events.UserRegisteredEvent{
		UserID:     user.ID,
		Email:      user.Email,
		Username:   user.Username,
		Role:       string(user.Role),
		OccurredAt: user.CreatedAt,
	}, eventbus.WithSource(EventSource))

	return user, nil
}

func (s *UserService) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	user, err := s.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, s.lookupError(ctx, err)
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(ctx, err)
	}
	return user, nil
}

// UpdateProfile edits the caller's own profile. No event is emitted when
// nothing changed.
func (s *UserService) UpdateProfile(ctx context.Context, params UpdateProfileParams) (*domain.User, error) {
	user, err := s.GetByID(ctx, params.UserID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	changed := user.UpdateProfile(params.DisplayName, params.Bio, params.AvatarURL, now)
	if len(changed) == 0 {
		return user, nil
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, s.internal(ctx, err, "failed to update user")
	}

	s.eventBus.Emit(ctx, events.UserProfileUpdatedTopic, events.UserProfileUpdatedEvent{
		UserID:        user.ID,
		ChangedFields: changed,
		OccurredAt:    now,
	}, eventbus.WithSource(EventSource))

	return user, nil
}

// ChangeRole is the admin operation behind role promotion and demotion.
func (s *UserService) ChangeRole(ctx context.Context, actorID, targetID uuid.UUID, role string) (*domain.User, error) {
	if actorID == targetID {
		return nil, ErrCannotChangeSelf
	}

	newRole, err := domain.ParseRole(role)
	if err != nil {
		return nil, apperror.Validation(apperror.BusinessCodeInvalidRole, "invalid role").
			WithDetails(map[string]any{"role": role})
	}

	user, err := s.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	oldRole, err := user.ChangeRole(newRole, now)
	if err != nil {
		return nil, ErrRoleUnchanged
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, s.internal(ctx, err, "failed to update user role")
	}

	s.logger.Info(ctx, "user role changed",
		"user_id", user.ID,
		"actor_id", actorID,
		"old_role", oldRole,
		"new_role", newRole,
	)

	s.eventBus.Emit(ctx, events.UserRoleChangedTopic, events.UserRoleChangedEvent{
		UserID:     user.ID,
		ActorID:    actorID,
		OldRole:    string(oldRole),
		NewRole:    string(newRole),
		OccurredAt: now,
	}, eventbus.WithSource(EventSource))

	return user, nil
}

func (s *UserService) List(ctx context.Context, filter ports.ListFilter) ([]*domain.User, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = ports.DefaultListFilter().Limit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, s.internal(ctx, err, "failed to list users")
	}
	return users, total, nil
}

// RecordLogin stamps the login time and announces the session.
func (s *UserService) RecordLogin(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user.RecordLogin(now)
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, s.internal(ctx, err, "failed to record login")
	}

	s.emitSession(ctx, events.UserLoggedInTopic, user, now)
	return user, nil
}

func (s *UserService) RecordLogout(ctx context.Context, userID uuid.UUID) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	s.emitSession(ctx, events.UserLoggedOutTopic, user, s.clock.Now())
	return nil
}

func (s *UserService) emitSession(ctx context.Context, topic eventbus.Topic, user *domain.User, now time.Time) {
	s.eventBus.Emit(ctx, topic, events.UserSessionEvent{
		UserID:     user.ID,
		Email:      user.Email,
		Role:       string(user.Role),
		OccurredAt: now,
	}, eventbus.WithSource(EventSource))
}

func (s *UserService) lookupError(ctx context.Context, err error) error {
	if errors.Is(err, ports.ErrUserNotFound) {
		return ErrUserNotFound
	}
	return s.internal(ctx, err, "failed to find user")
}

func (s *UserService) internal(ctx context.Context, err error, msg string) error {
	s.logger.Error(ctx, msg, "error", err)
	return apperror.Internal(err, msg)
}

func validationError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidEmail):
		return apperror.Validation(apperror.BusinessCodeInvalidEmail, err.Error())
	case errors.Is(err, domain.ErrInvalidUsername),
		errors.Is(err, domain.ErrUsernameTooShort),
		errors.Is(err, domain.ErrUsernameTooLong):
		return apperror.Validation(apperror.BusinessCodeInvalidUsername, err.Error())
	default:
		return apperror.Validation(apperror.BusinessCodeInvalidFormat, err.Error())
	}
}
