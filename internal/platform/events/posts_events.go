package events

import (
	"time"

	"github.com/casira/connect/internal/platform/eventbus"
	"github.com/google/uuid"
)

// Post event topics
const (
	PostCreatedTopic   eventbus.Topic = "post.created"
	PostLikedTopic     eventbus.Topic = "post.liked"
	PostUnlikedTopic   eventbus.Topic = "post.unliked"
	PostCommentedTopic eventbus.Topic = "post.commented"
)

// PostCreatedEvent is published when a new post is created
type PostCreatedEvent struct {
	PostID     uuid.UUID
	AuthorID   uuid.UUID
	ActivityID *uuid.UUID
	OccurredAt time.Time
}

// PostLikeEvent is published when a post is liked or unliked
type PostLikeEvent struct {
	PostID     uuid.UUID
	AuthorID   uuid.UUID
	UserID     uuid.UUID // User who liked or unliked
	LikesCount int
	OccurredAt time.Time
}

// PostCommentedEvent is published when a comment is added to a post
type PostCommentedEvent struct {
	PostID      uuid.UUID
	AuthorID    uuid.UUID
	CommentID   uuid.UUID
	CommenterID uuid.UUID
	Excerpt     string
	OccurredAt  time.Time
}
