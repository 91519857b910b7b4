package domain_test

import (
	"testing"

	"github.com/casira/connect/internal/authz/domain"
	"github.com/casira/connect/internal/authz/permission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleByName(t *testing.T) {
	for _, name := range []string{domain.RoleVisitor, domain.RoleVolunteer, domain.RoleAdmin} {
		role, err := domain.RoleByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, role.Name)
		assert.NotEmpty(t, role.Permissions)
	}

	_, err := domain.RoleByName("donor")
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)
}

func TestRolePermissions(t *testing.T) {
	tests := []struct {
		permission string
		visitor    bool
		volunteer  bool
		admin      bool
	}{
		{permission.ActivitiesRead, true, true, true},
		{permission.NotificationsReadOwn, true, true, true},
		{permission.ActivitiesJoin, false, true, true},
		{permission.PostsCreate, false, true, true},
		{permission.PostsDeleteOwn, false, true, true},
		{permission.ActivitiesCreate, false, false, true},
		{permission.ActivitiesStatusAny, false, false, true},
		{permission.UsersRoleAssign, false, false, true},
		{permission.SystemStats, false, false, true},
	}

	visitor, _ := domain.RoleByName(domain.RoleVisitor)
	volunteer, _ := domain.RoleByName(domain.RoleVolunteer)
	admin, _ := domain.RoleByName(domain.RoleAdmin)

	for _, tt := range tests {
		t.Run(tt.permission, func(t *testing.T) {
			assert.Equal(t, tt.visitor, visitor.HasPermission(tt.permission), "visitor")
			assert.Equal(t, tt.volunteer, volunteer.HasPermission(tt.permission), "volunteer")
			assert.Equal(t, tt.admin, admin.HasPermission(tt.permission), "admin")
		})
	}
}

func TestRolesAreCumulative(t *testing.T) {
	roles := domain.AllRoles()
	require.Len(t, roles, 3)

	for i := 1; i < len(roles); i++ {
		lower, higher := roles[i-1], roles[i]
		for _, id := range lower.PermissionIDs() {
			assert.True(t, higher.HasPermission(id), "%s should include %s from %s", higher.Name, id, lower.Name)
		}
	}
}

func TestRolePermissionsAreRegistered(t *testing.T) {
	for _, role := range domain.AllRoles() {
		for _, id := range role.PermissionIDs() {
			assert.True(t, permission.IsValid(id), "%s grants unknown permission %s", role.Name, id)
		}
	}
}

func TestRole_HasPermissionForResource(t *testing.T) {
	admin, err := domain.RoleByName(domain.RoleAdmin)
	require.NoError(t, err)
	visitor, err := domain.RoleByName(domain.RoleVisitor)
	require.NoError(t, err)

	assert.True(t, admin.HasPermissionForResource("activities", "update"))
	assert.False(t, visitor.HasPermissionForResource("activities", "update"))
	assert.True(t, visitor.HasPermissionForResource("activities", "read"))
}
