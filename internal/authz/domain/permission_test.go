package domain_test

import (
	"testing"

	"github.com/casira/connect/internal/authz/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPermissionFromID(t *testing.T) {
	tests := []struct {
		name         string
		permissionID string
		wantResource string
		wantAction   string
		wantScope    string
		wantErr      bool
	}{
		{
			name:         "simple permission",
			permissionID: "activities:create",
			wantResource: "activities",
			wantAction:   "create",
		},
		{
			name:         "permission with scope",
			permissionID: "activities:update:own",
			wantResource: "activities",
			wantAction:   "update",
			wantScope:    "own",
		},
		{
			name:         "permission with qualified action",
			permissionID: "posts:read:draft:any",
			wantResource: "posts",
			wantAction:   "read:draft",
			wantScope:    "any",
		},
		{
			name:         "invalid permission - no action",
			permissionID: "activities",
			wantErr:      true,
		},
		{
			name:         "invalid permission - empty segment",
			permissionID: "activities::own",
			wantErr:      true,
		},
		{
			name:         "empty permission",
			permissionID: "",
			wantErr:      true,
		},
		{
			name:         "too many segments",
			permissionID: "posts:read:draft:own:extra",
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perm, err := domain.NewPermissionFromID(tt.permissionID, "description")

			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidPermissionID)
				assert.Nil(t, perm)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantResource, perm.Resource)
			assert.Equal(t, tt.wantAction, perm.Action)
			assert.Equal(t, tt.wantScope, perm.Scope)
			assert.Equal(t, "description", perm.Description)
			assert.Equal(t, tt.permissionID, perm.IDString())
		})
	}
}

func TestPermission_IsOwnershipBased(t *testing.T) {
	tests := []struct {
		scope string
		want  bool
	}{
		{domain.ScopeOwn, true},
		{domain.ScopeSelf, true},
		{domain.ScopeAny, false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run("scope "+tt.scope, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.NewPermission("activities", "update", tt.scope, "").IsOwnershipBased())
		})
	}
}

func TestPermission_Matches(t *testing.T) {
	perm := domain.NewPermission("posts", "delete", "own", "")

	assert.True(t, perm.Matches("posts", "delete"))
	assert.False(t, perm.Matches("posts", "create"))
	assert.False(t, perm.Matches("comments", "delete"))
}
