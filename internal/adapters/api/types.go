// Package api holds the /api/v1 wire types and chi routing, in the layout
// oapi-codegen produces for a chi server.
package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Defines values for HealthStatusStatus.
const (
	Degraded  HealthStatusStatus = "degraded"
	Healthy   HealthStatusStatus = "healthy"
	Unhealthy HealthStatusStatus = "unhealthy"
)

// Defines values for HealthStatusChecksDatabase.
const (
	Down HealthStatusChecksDatabase = "down"
	Up   HealthStatusChecksDatabase = "up"
)

// Error defines model for Error.
type Error struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthStatus defines model for HealthStatus.
type HealthStatus struct {
	Checks    *HealthStatusChecks `json:"checks,omitempty"`
	Status    HealthStatusStatus  `json:"status"`
	Timestamp time.Time           `json:"timestamp"`
	Version   *string             `json:"version,omitempty"`
}

// HealthStatusChecks defines model for HealthStatus.Checks.
type HealthStatusChecks struct {
	Database *HealthStatusChecksDatabase `json:"database,omitempty"`
}

// HealthStatusStatus defines model for HealthStatus.Status.
type HealthStatusStatus string

// HealthStatusChecksDatabase defines model for HealthStatus.Checks.Database.
type HealthStatusChecksDatabase string

// User defines model for User.
type User struct {
	AvatarUrl   *string             `json:"avatarUrl,omitempty"`
	Bio         *string             `json:"bio,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	DisplayName *string             `json:"displayName,omitempty"`
	Email       openapi_types.Email `json:"email"`
	Id          openapi_types.UUID  `json:"id"`
	LastLoginAt *time.Time          `json:"lastLoginAt,omitempty"`
	Role        string              `json:"role"`
	UpdatedAt   time.Time           `json:"updatedAt"`
	Username    string              `json:"username"`
}

// UserList defines model for UserList.
type UserList struct {
	Total int    `json:"total"`
	Users []User `json:"users"`
}

// NewUserRequest defines model for NewUserRequest.
type NewUserRequest struct {
	AvatarUrl   *string `json:"avatarUrl,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	DisplayName *string `json:"displayName,omitempty"`
	Username    string  `json:"username"`
}

// UpdateProfileRequest defines model for UpdateProfileRequest.
type UpdateProfileRequest struct {
	AvatarUrl   *string `json:"avatarUrl,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	DisplayName *string `json:"displayName,omitempty"`
}

// ChangeRoleRequest defines model for ChangeRoleRequest.
type ChangeRoleRequest struct {
	Role string `json:"role"`
}

// Activity defines model for Activity.
type Activity struct {
	CreatedAt         time.Time          `json:"createdAt"`
	CreatorId         openapi_types.UUID `json:"creatorId"`
	CurrentVolunteers int                `json:"currentVolunteers"`
	Description       *string            `json:"description,omitempty"`
	EndDate           *time.Time         `json:"endDate,omitempty"`
	Id                openapi_types.UUID `json:"id"`
	Location          *string            `json:"location,omitempty"`
	MaxVolunteers     *int               `json:"maxVolunteers,omitempty"`
	Priority          string             `json:"priority"`
	Slug              string             `json:"slug"`
	StartDate         *time.Time         `json:"startDate,omitempty"`
	Status            string             `json:"status"`
	Tags              []string           `json:"tags"`
	Title             string             `json:"title"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// ActivityList defines model for ActivityList.
type ActivityList struct {
	Activities []Activity `json:"activities"`
	Total      int        `json:"total"`
}

// ActivityRequest defines model for ActivityRequest.
type ActivityRequest struct {
	Description   *string    `json:"description,omitempty"`
	EndDate       *time.Time `json:"endDate,omitempty"`
	Location      *string    `json:"location,omitempty"`
	MaxVolunteers *int       `json:"maxVolunteers,omitempty"`
	Priority      *string    `json:"priority,omitempty"`
	StartDate     *time.Time `json:"startDate,omitempty"`
	Tags          *[]string  `json:"tags,omitempty"`
	Title         string     `json:"title"`
}

// ChangeStatusRequest defines model for ChangeStatusRequest.
type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// Volunteer defines model for Volunteer.
type Volunteer struct {
	JoinedAt time.Time          `json:"joinedAt"`
	UserId   openapi_types.UUID `json:"userId"`
	Username string             `json:"username"`
}

// Post defines model for Post.
type Post struct {
	ActivityId    *openapi_types.UUID `json:"activityId,omitempty"`
	AuthorId      openapi_types.UUID  `json:"authorId"`
	CommentsCount int                 `json:"commentsCount"`
	Content       string              `json:"content"`
	CreatedAt     time.Time           `json:"createdAt"`
	Id            openapi_types.UUID  `json:"id"`
	LikesCount    int                 `json:"likesCount"`
	Title         *string             `json:"title,omitempty"`
	Type          string              `json:"type"`
	UpdatedAt     time.Time           `json:"updatedAt"`
	Visibility    string              `json:"visibility"`
}

// PostList defines model for PostList.
type PostList struct {
	Posts []Post `json:"posts"`
	Total int    `json:"total"`
}

// CreatePostRequest defines model for CreatePostRequest.
type CreatePostRequest struct {
	ActivityId *openapi_types.UUID `json:"activityId,omitempty"`
	Content    string              `json:"content"`
	Title      *string             `json:"title,omitempty"`
	Type       *string             `json:"type,omitempty"`
	Visibility *string             `json:"visibility,omitempty"`
}

// Comment defines model for Comment.
type Comment struct {
	AuthorId  openapi_types.UUID `json:"authorId"`
	Content   string             `json:"content"`
	CreatedAt time.Time          `json:"createdAt"`
	Id        openapi_types.UUID `json:"id"`
	PostId    openapi_types.UUID `json:"postId"`
}

// CreateCommentRequest defines model for CreateCommentRequest.
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// Notification defines model for Notification.
type Notification struct {
	CreatedAt  time.Time           `json:"createdAt"`
	Id         openapi_types.UUID  `json:"id"`
	Kind       string              `json:"kind"`
	Message    *string             `json:"message,omitempty"`
	Read       bool                `json:"read"`
	ReadAt     *time.Time          `json:"readAt,omitempty"`
	ResourceId *openapi_types.UUID `json:"resourceId,omitempty"`
	Title      string              `json:"title"`
}

// NotificationPage defines model for NotificationPage.
type NotificationPage struct {
	Notifications []Notification `json:"notifications"`
	Total         int            `json:"total"`
	Unread        int            `json:"unread"`
}

// MarkAllReadResponse defines model for MarkAllReadResponse.
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// EventBusStats defines model for EventBusStats.
type EventBusStats struct {
	Caches             []CacheStats `json:"caches"`
	DebugMode          bool         `json:"debugMode"`
	NormalEvents       []string     `json:"normalEvents"`
	OnceEvents         []string     `json:"onceEvents"`
	TotalEvents        int          `json:"totalEvents"`
	TotalListeners     int          `json:"totalListeners"`
	TotalOnceListeners int          `json:"totalOnceListeners"`
	WildcardListeners  int          `json:"wildcardListeners"`
}

// CacheStats defines model for CacheStats.
type CacheStats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
	Name   string `json:"name"`
	Size   int    `json:"size"`
}

// DebugModeRequest defines model for DebugModeRequest.
type DebugModeRequest struct {
	Enabled bool `json:"enabled"`
}

// CacheInvalidateRequest defines model for CacheInvalidateRequest.
type CacheInvalidateRequest struct {
	// Pattern is a wildcard key pattern; empty clears every cache
	Pattern *string `json:"pattern,omitempty"`
}

// ListUsersParams defines parameters for ListUsers.
type ListUsersParams struct {
	Role   *string `form:"role,omitempty" json:"role,omitempty"`
	Search *string `form:"search,omitempty" json:"search,omitempty"`
	Limit  *int    `form:"limit,omitempty" json:"limit,omitempty"`
	Offset *int    `form:"offset,omitempty" json:"offset,omitempty"`
}

// ListActivitiesParams defines parameters for ListActivities.
type ListActivitiesParams struct {
	Status    *string             `form:"status,omitempty" json:"status,omitempty"`
	Priority  *string             `form:"priority,omitempty" json:"priority,omitempty"`
	CreatorId *openapi_types.UUID `form:"creatorId,omitempty" json:"creatorId,omitempty"`
	Tag       *string             `form:"tag,omitempty" json:"tag,omitempty"`
	Search    *string             `form:"search,omitempty" json:"search,omitempty"`
	Limit     *int                `form:"limit,omitempty" json:"limit,omitempty"`
	Offset    *int                `form:"offset,omitempty" json:"offset,omitempty"`
}

// ListPostsParams defines parameters for ListPosts.
type ListPostsParams struct {
	ActivityId *openapi_types.UUID `form:"activityId,omitempty" json:"activityId,omitempty"`
	AuthorId   *openapi_types.UUID `form:"authorId,omitempty" json:"authorId,omitempty"`
	Type       *string             `form:"type,omitempty" json:"type,omitempty"`
	Limit      *int                `form:"limit,omitempty" json:"limit,omitempty"`
	Offset     *int                `form:"offset,omitempty" json:"offset,omitempty"`
}

// ListCommentsParams defines parameters for ListComments.
type ListCommentsParams struct {
	Limit  *int `form:"limit,omitempty" json:"limit,omitempty"`
	Offset *int `form:"offset,omitempty" json:"offset,omitempty"`
}

// ListNotificationsParams defines parameters for ListNotifications.
type ListNotificationsParams struct {
	UnreadOnly *bool `form:"unreadOnly,omitempty" json:"unreadOnly,omitempty"`
	Limit      *int  `form:"limit,omitempty" json:"limit,omitempty"`
	Offset     *int  `form:"offset,omitempty" json:"offset,omitempty"`
}
