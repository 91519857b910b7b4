package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/casira/connect/internal/notifications/domain"
	"github.com/casira/connect/internal/platform/validator"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotification(t *testing.T) {
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	user := uuid.New()
	activity := uuid.New()

	n, err := domain.NewNotification(user, domain.KindVolunteerJoined, " New volunteer ", "Ana joined", &activity, now)
	require.NoError(t, err)
	assert.Equal(t, "New volunteer", n.Title)
	assert.False(t, n.Read)
	assert.Nil(t, n.ReadAt)
	assert.Equal(t, &activity, n.ResourceID)

	tests := []struct {
		name    string
		user    uuid.UUID
		kind    domain.Kind
		title   string
		message string
		wantErr error
	}{
		{"missing recipient", uuid.Nil, domain.KindPostLiked, "t", "", domain.ErrInvalidRecipient},
		{"unknown kind", user, domain.Kind("digest"), "t", "", domain.ErrInvalidKind},
		{"empty title", user, domain.KindPostLiked, " ", "", validator.ErrRequired},
		{"message too long", user, domain.KindPostLiked, "t", strings.Repeat("m", domain.MaxMessageLength+1), validator.ErrTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewNotification(tt.user, tt.kind, tt.title, tt.message, nil, now)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMarkRead(t *testing.T) {
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	n, err := domain.NewNotification(uuid.New(), domain.KindRoleChanged, "Role changed", "", nil, now)
	require.NoError(t, err)

	readAt := now.Add(time.Hour)
	assert.True(t, n.MarkRead(readAt))
	assert.True(t, n.Read)
	assert.Equal(t, readAt, *n.ReadAt)

	assert.False(t, n.MarkRead(readAt.Add(time.Hour)))
	assert.Equal(t, readAt, *n.ReadAt)
}
