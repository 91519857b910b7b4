package ownership_test

import (
	"context"
	"errors"
	"testing"

	"github.com/casira/connect/internal/platform/ownership"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	owner := uuid.New()
	resource := uuid.New()

	registry := ownership.NewRegistry()
	registry.RegisterChecker("posts", ownership.CheckerFunc(func(_ context.Context, userID, resourceID uuid.UUID) (bool, error) {
		return userID == owner && resourceID == resource, nil
	}))

	ok, err := registry.CheckOwnership(context.Background(), owner, "posts", resource)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = registry.CheckOwnership(context.Background(), uuid.New(), "posts", resource)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = registry.CheckOwnership(context.Background(), owner, "activities", resource)
	assert.ErrorIs(t, err, ownership.ErrNoChecker)

	_, found := registry.GetChecker("posts")
	assert.True(t, found)
}

func TestRegistry_CheckerFailure(t *testing.T) {
	boom := errors.New("connection reset")
	registry := ownership.NewRegistry()
	registry.RegisterChecker("notifications", ownership.CheckerFunc(func(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
		return true, boom
	}))

	owned, err := registry.CheckOwnership(context.Background(), uuid.New(), "notifications", uuid.New())
	assert.False(t, owned)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "notifications")

	assert.Panics(t, func() { registry.RegisterChecker("posts", nil) })
}
