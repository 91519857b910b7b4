package domain

import (
	"errors"
	"slices"

	"github.com/casira/connect/internal/authz/permission"
)

var ErrRoleNotFound = errors.New("role not found")

// Role names. They mirror the role stored on each user profile.
const (
	RoleVisitor   = "visitor"
	RoleVolunteer = "volunteer"
	RoleAdmin     = "admin"
)

// Role is a named, fixed set of permissions.
type Role struct {
	Name        string
	Description string
	Permissions []*Permission
}

var (
	visitorPermissions = []string{
		permission.ActivitiesRead,
		permission.PostsRead,
		permission.CommentsRead,
		permission.NotificationsReadOwn,
		permission.NotificationsUpdateOwn,
		permission.UsersReadSelf,
		permission.UsersUpdateSelf,
	}

	volunteerPermissions = append(slices.Clone(visitorPermissions),
		permission.ActivitiesJoin,
		permission.PostsCreate,
		permission.PostsLike,
		permission.PostsDeleteOwn,
		permission.CommentsCreate,
		permission.CommentsDeleteOwn,
	)

	adminPermissions = append(slices.Clone(volunteerPermissions),
		permission.ActivitiesCreate,
		permission.ActivitiesUpdateOwn,
		permission.ActivitiesUpdateAny,
		permission.ActivitiesDeleteOwn,
		permission.ActivitiesDeleteAny,
		permission.ActivitiesStatusOwn,
		permission.ActivitiesStatusAny,
		permission.ActivitiesVolunteers,
		permission.PostsDeleteAny,
		permission.CommentsDeleteAny,
		permission.UsersReadAny,
		permission.UsersUpdateAny,
		permission.UsersRoleAssign,
		permission.SystemStats,
		permission.SystemCache,
	)
)

var roles = map[string]*Role{
	RoleVisitor:   newRole(RoleVisitor, "Browses activities and the community feed", visitorPermissions),
	RoleVolunteer: newRole(RoleVolunteer, "Joins activities and takes part in the feed", volunteerPermissions),
	RoleAdmin:     newRole(RoleAdmin, "Runs activities and manages users", adminPermissions),
}

func newRole(name, description string, ids []string) *Role {
	role := &Role{Name: name, Description: description}
	for _, id := range ids {
		p := permission.MustFromID(id)
		role.Permissions = append(role.Permissions, NewPermission(p.Resource, p.Action, p.Scope, p.Description))
	}
	return role
}

// RoleByName returns the built-in role with the given name.
func RoleByName(name string) (*Role, error) {
	role, ok := roles[name]
	if !ok {
		return nil, ErrRoleNotFound
	}
	return role, nil
}

// AllRoles returns the built-in roles from least to most privileged.
func AllRoles() []*Role {
	return []*Role{roles[RoleVisitor], roles[RoleVolunteer], roles[RoleAdmin]}
}

// HasPermission checks if the role has a specific permission
func (r *Role) HasPermission(permissionID string) bool {
	for _, p := range r.Permissions {
		if p.IDString() == permissionID {
			return true
		}
	}
	return false
}

// HasPermissionForResource checks if the role has any permission for a resource
func (r *Role) HasPermissionForResource(resource, action string) bool {
	for _, p := range r.Permissions {
		if p.Matches(resource, action) {
			return true
		}
	}
	return false
}

// PermissionIDs lists the role's permission identifiers.
func (r *Role) PermissionIDs() []string {
	ids := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		ids = append(ids, p.IDString())
	}
	return ids
}
