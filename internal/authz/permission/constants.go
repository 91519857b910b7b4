package permission

import "strings"

// Permission represents a structured permission with metadata
type Permission struct {
	ID          string // The permission identifier (e.g., "posts:create")
	Resource    string // The resource being accessed (e.g., "posts")
	Action      string // The action being performed (e.g., "create")
	Scope       string // Optional scope qualifier (e.g., "own", "any", "self")
	Description string // Human-readable description
}

// Permission ID constants
const (
	// Activities permissions
	ActivitiesCreate     = "activities:create"
	ActivitiesRead       = "activities:read"
	ActivitiesUpdateOwn  = "activities:update:own"
	ActivitiesUpdateAny  = "activities:update:any"
	ActivitiesDeleteOwn  = "activities:delete:own"
	ActivitiesDeleteAny  = "activities:delete:any"
	ActivitiesStatusOwn  = "activities:status:own"
	ActivitiesStatusAny  = "activities:status:any"
	ActivitiesJoin       = "activities:join"
	ActivitiesVolunteers = "activities:volunteers"

	// Posts permissions
	PostsCreate    = "posts:create"
	PostsRead      = "posts:read"
	PostsLike      = "posts:like"
	PostsDeleteOwn = "posts:delete:own"
	PostsDeleteAny = "posts:delete:any"

	// Comments permissions
	CommentsCreate    = "comments:create"
	CommentsRead      = "comments:read"
	CommentsDeleteOwn = "comments:delete:own"
	CommentsDeleteAny = "comments:delete:any"

	// Notifications permissions
	NotificationsReadOwn   = "notifications:read:own"
	NotificationsUpdateOwn = "notifications:update:own"

	// Users permissions
	UsersReadSelf   = "users:read:self"
	UsersReadAny    = "users:read:any"
	UsersUpdateSelf = "users:update:self"
	UsersUpdateAny  = "users:update:any"
	UsersRoleAssign = "users:role:assign"

	// System permissions
	SystemStats = "system:stats"
	SystemCache = "system:cache"
)

// registry holds all structured Permission objects
var registry = map[string]*Permission{
	// Activities permissions
	ActivitiesCreate:     {ID: ActivitiesCreate, Resource: "activities", Action: "create", Description: "Create volunteer activities"},
	ActivitiesRead:       {ID: ActivitiesRead, Resource: "activities", Action: "read", Description: "Browse activities"},
	ActivitiesUpdateOwn:  {ID: ActivitiesUpdateOwn, Resource: "activities", Action: "update", Scope: "own", Description: "Edit own activities"},
	ActivitiesUpdateAny:  {ID: ActivitiesUpdateAny, Resource: "activities", Action: "update", Scope: "any", Description: "Edit any activity"},
	ActivitiesDeleteOwn:  {ID: ActivitiesDeleteOwn, Resource: "activities", Action: "delete", Scope: "own", Description: "Delete own activities"},
	ActivitiesDeleteAny:  {ID: ActivitiesDeleteAny, Resource: "activities", Action: "delete", Scope: "any", Description: "Delete any activity"},
	ActivitiesStatusOwn:  {ID: ActivitiesStatusOwn, Resource: "activities", Action: "status", Scope: "own", Description: "Change status of own activities"},
	ActivitiesStatusAny:  {ID: ActivitiesStatusAny, Resource: "activities", Action: "status", Scope: "any", Description: "Change status of any activity"},
	ActivitiesJoin:       {ID: ActivitiesJoin, Resource: "activities", Action: "join", Description: "Volunteer for activities"},
	ActivitiesVolunteers: {ID: ActivitiesVolunteers, Resource: "activities", Action: "volunteers", Description: "See who volunteered"},

	// Posts permissions
	PostsCreate:    {ID: PostsCreate, Resource: "posts", Action: "create", Description: "Publish posts"},
	PostsRead:      {ID: PostsRead, Resource: "posts", Action: "read", Description: "Read the feed"},
	PostsLike:      {ID: PostsLike, Resource: "posts", Action: "like", Description: "Like posts"},
	PostsDeleteOwn: {ID: PostsDeleteOwn, Resource: "posts", Action: "delete", Scope: "own", Description: "Delete own posts"},
	PostsDeleteAny: {ID: PostsDeleteAny, Resource: "posts", Action: "delete", Scope: "any", Description: "Delete any post"},

	// Comments permissions
	CommentsCreate:    {ID: CommentsCreate, Resource: "comments", Action: "create", Description: "Comment on posts"},
	CommentsRead:      {ID: CommentsRead, Resource: "comments", Action: "read", Description: "Read comments"},
	CommentsDeleteOwn: {ID: CommentsDeleteOwn, Resource: "comments", Action: "delete", Scope: "own", Description: "Delete own comments"},
	CommentsDeleteAny: {ID: CommentsDeleteAny, Resource: "comments", Action: "delete", Scope: "any", Description: "Delete any comment"},

	// Notifications permissions
	NotificationsReadOwn:   {ID: NotificationsReadOwn, Resource: "notifications", Action: "read", Scope: "own", Description: "Read own notifications"},
	NotificationsUpdateOwn: {ID: NotificationsUpdateOwn, Resource: "notifications", Action: "update", Scope: "own", Description: "Mark own notifications read"},

	// Users permissions
	UsersReadSelf:   {ID: UsersReadSelf, Resource: "users", Action: "read", Scope: "self", Description: "Read own profile"},
	UsersReadAny:    {ID: UsersReadAny, Resource: "users", Action: "read", Scope: "any", Description: "Read any profile"},
	UsersUpdateSelf: {ID: UsersUpdateSelf, Resource: "users", Action: "update", Scope: "self", Description: "Update own profile"},
	UsersUpdateAny:  {ID: UsersUpdateAny, Resource: "users", Action: "update", Scope: "any", Description: "Update any profile"},
	UsersRoleAssign: {ID: UsersRoleAssign, Resource: "users", Action: "role", Scope: "assign", Description: "Change user roles"},

	// System permissions
	SystemStats: {ID: SystemStats, Resource: "system", Action: "stats", Description: "Inspect event bus and cache statistics"},
	SystemCache: {ID: SystemCache, Resource: "system", Action: "cache", Description: "Request cache invalidation"},
}

// FromID looks up a permission by its ID and returns the structured Permission object
func FromID(id string) (*Permission, bool) {
	perm, exists := registry[id]
	return perm, exists
}

// MustFromID looks up a permission by its ID and panics if not found
func MustFromID(id string) *Permission {
	perm, exists := registry[id]
	if !exists {
		panic("permission not found: " + id)
	}
	return perm
}

// All returns all registered permissions
func All() []*Permission {
	result := make([]*Permission, 0, len(registry))
	for _, perm := range registry {
		result = append(result, perm)
	}
	return result
}

// ByResource returns all permissions for a specific resource
func ByResource(resource string) []*Permission {
	var result []*Permission
	for _, perm := range registry {
		if perm.Resource == resource {
			result = append(result, perm)
		}
	}
	return result
}

// IsOwnershipBased returns true if the permission includes ownership scope
func IsOwnershipBased(permissionID string) bool {
	return strings.HasSuffix(permissionID, ":own") || strings.HasSuffix(permissionID, ":self")
}

// IsGlobalPermission returns true if the permission applies to any resource
func IsGlobalPermission(permissionID string) bool {
	return strings.HasSuffix(permissionID, ":any")
}

// AnyVariant returns the ":any" form of an ownership-scoped permission.
func AnyVariant(permissionID string) string {
	for _, suffix := range []string{":own", ":self"} {
		if base, ok := strings.CutSuffix(permissionID, suffix); ok {
			return base + ":any"
		}
	}
	return permissionID
}

// IsValid checks if a permission ID exists in the registry
func IsValid(permissionID string) bool {
	_, exists := registry[permissionID]
	return exists
}
