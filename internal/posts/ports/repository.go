package ports

import (
	"context"
	"errors"

	"github.com/casira/connect/internal/posts/domain"
	"github.com/google/uuid"
)

// Repository errors - these are the canonical errors that repository
// implementations should return. The PostgreSQL implementation will
// translate pgx.ErrNoRows and unique violations to these errors.
var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrAlreadyLiked    = errors.New("post already liked")
	ErrNotLiked        = errors.New("post not liked")
)

// PostRepository defines the interface for post persistence
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns a page of posts visible under the filter and the total count
	List(ctx context.Context, filter ListFilter) ([]*domain.Post, int, error)

	// GetAuthor retrieves just the author ID for a post (for ownership checks)
	GetAuthor(ctx context.Context, postID uuid.UUID) (uuid.UUID, error)

	// AddLike records the like and returns the post's new like count
	AddLike(ctx context.Context, postID, userID uuid.UUID) (int, error)

	// RemoveLike deletes the like and returns the post's new like count
	RemoveLike(ctx context.Context, postID, userID uuid.UUID) (int, error)

	// AddComment stores the comment and bumps the post's comment count
	AddComment(ctx context.Context, comment *domain.Comment) error
	ListComments(ctx context.Context, postID uuid.UUID, limit, offset int) ([]*domain.Comment, error)
	DeleteComment(ctx context.Context, commentID uuid.UUID) error
	GetCommentAuthor(ctx context.Context, commentID uuid.UUID) (uuid.UUID, error)
}

// ListFilter contains filtering and pagination options for listing posts
type ListFilter struct {
	ActivityID *uuid.UUID
	AuthorID   *uuid.UUID
	Type       *domain.PostType

	// Visibilities other people's posts must have; the viewer's own posts are always included
	Visibilities []domain.Visibility
	ViewerID     uuid.UUID

	Limit  int
	Offset int
}

// DefaultListFilter returns a sensible default filter
func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:  20,
		Offset: 0,
	}
}
