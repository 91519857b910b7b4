package domain

import (
	"errors"
	"time"

	"github.com/casira/connect/internal/platform/validator"
	"github.com/google/uuid"
)

const (
	MaxTitleLength   = 200
	MaxMessageLength = 1000
)

var (
	ErrInvalidRecipient = errors.New("notification recipient is required")
	ErrInvalidKind      = errors.New("unknown notification kind")
)

// Kind says what happened to trigger the notification
type Kind string

const (
	KindRoleChanged     Kind = "role_changed"
	KindVolunteerJoined Kind = "volunteer_joined"
	KindActivityUpdate  Kind = "activity_update"
	KindPostLiked       Kind = "post_liked"
	KindPostCommented   Kind = "post_commented"
)

func (k Kind) Valid() bool {
	switch k {
	case KindRoleChanged, KindVolunteerJoined, KindActivityUpdate, KindPostLiked, KindPostCommented:
		return true
	}
	return false
}

// Notification is a message addressed to one user
type Notification struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Kind       Kind
	Title      string
	Message    string
	ResourceID *uuid.UUID // Activity or post the notification links to
	Read       bool
	ReadAt     *time.Time
	CreatedAt  time.Time
}

// NewNotification creates an unread notification
func NewNotification(userID uuid.UUID, kind Kind, title, message string, resourceID *uuid.UUID, now time.Time) (*Notification, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidRecipient
	}
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	title, err := validator.RequiredText("title", title, MaxTitleLength)
	if err != nil {
		return nil, err
	}
	message, err = validator.OptionalText("message", message, MaxMessageLength)
	if err != nil {
		return nil, err
	}

	return &Notification{
		ID:         uuid.New(),
		UserID:     userID,
		Kind:       kind,
		Title:      title,
		Message:    message,
		ResourceID: resourceID,
		CreatedAt:  now,
	}, nil
}

// MarkRead flags the notification as read. It reports false if it already was.
func (n *Notification) MarkRead(now time.Time) bool {
	if n.Read {
		return false
	}
	n.Read = true
	n.ReadAt = &now
	return true
}
