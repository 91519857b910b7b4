package application

import (
	"context"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/casira/connect/internal/notifications/domain"
	"github.com/casira/connect/internal/notifications/ports"
	"github.com/casira/connect/internal/platform/eventbus"
	"github.com/casira/connect/internal/platform/events"
	"github.com/casira/connect/internal/platform/logger"
	"github.com/google/uuid"
)

// EventSource labels events emitted by this module.
const EventSource = "NotificationsService"

// Role change notifications run ahead of other user.role_changed listeners.
const roleChangedPriority = 10

// Subscriber turns domain events into stored notifications
type Subscriber struct {
	repo      ports.NotificationRepository
	eventBus  *eventbus.Bus
	clock     clock.Clock
	logger    logger.Logger
	listeners eventbus.Group
}

// NewSubscriber creates the subscriber and registers its listeners on the bus
func NewSubscriber(
	repo ports.NotificationRepository,
	eventBus *eventbus.Bus,
	clk clock.Clock,
	logger logger.Logger,
) *Subscriber {
	s := &Subscriber{
		repo:     repo,
		eventBus: eventBus,
		clock:    clk,
		logger:   logger,
	}

	s.listeners.Add(
		eventBus.On(events.UserRoleChangedTopic, eventbus.Bind(s, (*Subscriber).onRoleChanged),
			eventbus.WithPriority(roleChangedPriority), eventbus.WithReceiver(s)),
		eventBus.On(events.ActivityVolunteerJoinedTopic, eventbus.Bind(s, (*Subscriber).onVolunteerJoined), eventbus.WithReceiver(s)),
		eventBus.On(events.ActivityStatusChangedTopic, eventbus.Bind(s, (*Subscriber).onStatusChanged), eventbus.WithReceiver(s)),
		eventBus.On(events.PostLikedTopic, eventbus.Bind(s, (*Subscriber).onPostLiked), eventbus.WithReceiver(s)),
		eventBus.On(events.PostCommentedTopic, eventbus.Bind(s, (*Subscriber).onPostCommented), eventbus.WithReceiver(s)),
	)
	return s
}

// Close unregisters every listener the subscriber added
func (s *Subscriber) Close() {
	s.listeners.Close()
}

func (s *Subscriber) onRoleChanged(ctx context.Context, e eventbus.Event) error {
	p, err := payloadAs[events.UserRoleChangedEvent](e)
	if err != nil {
		return err
	}
	return s.notify(ctx, e, []uuid.UUID{p.UserID}, domain.KindRoleChanged,
		"Your role has changed",
		fmt.Sprintf("An administrator changed your role from %s to %s.", p.OldRole, p.NewRole),
		nil)
}

func (s *Subscriber) onVolunteerJoined(ctx context.Context, e eventbus.Event) error {
	p, err := payloadAs[events.ActivityVolunteerEvent](e)
	if err != nil {
		return err
	}
	if p.CreatorID == p.VolunteerID {
		return nil
	}

	message := fmt.Sprintf("A volunteer joined %q. %d signed up so far.", p.Title, p.CurrentVolunteers)
	if p.MaxVolunteers != nil {
		message = fmt.Sprintf("A volunteer joined %q. %d of %d spots taken.", p.Title, p.CurrentVolunteers, *p.MaxVolunteers)
	}
	return s.notify(ctx, e, []uuid.UUID{p.CreatorID}, domain.KindVolunteerJoined, "New volunteer", message, &p.ActivityID)
}

func (s *Subscriber) onStatusChanged(ctx context.Context, e eventbus.Event) error {
	p, err := payloadAs[events.ActivityStatusChangedEvent](e)
	if err != nil {
		return err
	}

	recipients := make([]uuid.UUID, 0, len(p.Volunteers))
	for _, id := range p.Volunteers {
		if id != p.ActorID {
			recipients = append(recipients, id)
		}
	}
	return s.notify(ctx, e, recipients, domain.KindActivityUpdate,
		fmt.Sprintf("%s is now %s", p.Title, p.NewStatus),
		fmt.Sprintf("An activity you volunteer for moved from %s to %s.", p.OldStatus, p.NewStatus),
		&p.ActivityID)
}

func (s *Subscriber) onPostLiked(ctx context.Context, e eventbus.Event) error {
	p, err := payloadAs[events.PostLikeEvent](e)
	if err != nil {
		return err
	}
	if p.AuthorID == p.UserID {
		return nil
	}
	return s.notify(ctx, e, []uuid.UUID{p.AuthorID}, domain.KindPostLiked,
		"Someone liked your post",
		fmt.Sprintf("Your post now has %d likes.", p.LikesCount),
		&p.PostID)
}

func (s *Subscriber) onPostCommented(ctx context.Context, e eventbus.Event) error {
	p, err := payloadAs[events.PostCommentedEvent](e)
	if err != nil {
		return err
	}
	if p.AuthorID == p.CommenterID {
		return nil
	}
	return s.notify(ctx, e, []uuid.UUID{p.AuthorID}, domain.KindPostCommented, "New comment on your post", p.Excerpt, &p.PostID)
}

// notify stores one notification per recipient and announces each on notification.created.
func (s *Subscriber) notify(ctx context.Context, e eventbus.Event, recipients []uuid.UUID, kind domain.Kind, title, message string, resourceID *uuid.UUID) error {
	if len(recipients) == 0 {
		return nil
	}

	now := s.clock.Now()
	batch := make([]*domain.Notification, 0, len(recipients))
	for _, userID := range recipients {
		n, err := domain.NewNotification(userID, kind, title, message, resourceID, now)
		if err != nil {
			return s.fail(ctx, e, fmt.Errorf("build notification: %w", err))
		}
		batch = append(batch, n)
	}

	if err := s.repo.Create(ctx, batch...); err != nil {
		return s.fail(ctx, e, fmt.Errorf("store notifications: %w", err))
	}

	for _, n := range batch {
		s.eventBus.Emit(ctx, events.NotificationCreatedTopic, events.NotificationCreatedEvent{
			NotificationID: n.ID,
			UserID:         n.UserID,
			Kind:           string(n.Kind),
			Title:          n.Title,
			OccurredAt:     n.CreatedAt,
		}, eventbus.WithSource(EventSource))
	}

	s.logger.Debug(ctx, "notifications created", "topic", e.Topic, "kind", kind, "count", len(batch))
	return nil
}

// fail reports err on system.error and returns it so the bus records the listener failure.
func (s *Subscriber) fail(ctx context.Context, e eventbus.Event, err error) error {
	s.eventBus.Emit(ctx, events.SystemErrorTopic, events.SystemErrorEvent{
		Component:  EventSource,
		Message:    fmt.Sprintf("failed to notify for %s", e.Topic),
		Err:        err,
		OccurredAt: s.clock.Now(),
	}, eventbus.WithSource(EventSource))
	return err
}

func payloadAs[T any](e eventbus.Event) (T, error) {
	p, ok := e.Payload.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("unexpected payload %T on %s", e.Payload, e.Topic)
	}
	return p, nil
}
