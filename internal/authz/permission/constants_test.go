package permission_test

import (
	"testing"

	"github.com/casira/connect/internal/authz/domain"
	"github.com/casira/connect/internal/authz/permission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryIsConsistent(t *testing.T) {
	for _, p := range permission.All() {
		resource, action, scope := domain.ParsePermissionID(p.ID)
		assert.Equal(t, p.Resource, resource, p.ID)
		assert.Equal(t, p.Action, action, p.ID)
		assert.Equal(t, p.Scope, scope, p.ID)
		assert.NotEmpty(t, p.Description, p.ID)
	}
}

func TestModeratedResourcesHaveAnyVariant(t *testing.T) {
	for _, resource := range []string{"activities", "posts", "comments"} {
		for _, p := range permission.ByResource(resource) {
			if p.Scope != "own" {
				continue
			}
			assert.True(t, permission.IsValid(permission.AnyVariant(p.ID)), "%s has no :any variant", p.ID)
		}
	}
}

func TestAnyVariant(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{permission.ActivitiesUpdateOwn, permission.ActivitiesUpdateAny},
		{permission.UsersReadSelf, permission.UsersReadAny},
		{permission.ActivitiesCreate, permission.ActivitiesCreate},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, permission.AnyVariant(tt.in))
	}
}

func TestFromID(t *testing.T) {
	p, ok := permission.FromID(permission.PostsLike)
	require.True(t, ok)
	assert.Equal(t, "posts", p.Resource)

	_, ok = permission.FromID("posts:publish")
	assert.False(t, ok)

	assert.Panics(t, func() { permission.MustFromID("nope:nope") })
	assert.Len(t, permission.ByResource("notifications"), 2)
	assert.True(t, permission.IsOwnershipBased(permission.NotificationsReadOwn))
	assert.True(t, permission.IsGlobalPermission(permission.PostsDeleteAny))
}
