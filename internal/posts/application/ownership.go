package application

import (
	"context"
	"errors"

	"github.com/casira/connect/internal/platform/logger"
	"github.com/casira/connect/internal/platform/ownership"
	"github.com/casira/connect/internal/posts/ports"
	"github.com/google/uuid"
)

// Resource types posts and comments are registered under for ownership checks.
const (
	ResourceType        = "posts"
	CommentResourceType = "comments"
)

// PostsOwnershipChecker checks ownership of posts and comments
// It depends directly on the repository, not the service, for cleaner architecture
type PostsOwnershipChecker struct {
	repo   ports.PostRepository
	logger logger.Logger
}

// NewPostsOwnershipChecker creates a new posts ownership checker
func NewPostsOwnershipChecker(repo ports.PostRepository, logger logger.Logger) *PostsOwnershipChecker {
	return &PostsOwnershipChecker{
		repo:   repo,
		logger: logger,
	}
}

// CheckOwnership checks if a user wrote a specific post
// Implements the ownership.Checker interface
func (p *PostsOwnershipChecker) CheckOwnership(ctx context.Context, userID uuid.UUID, resourceID uuid.UUID) (bool, error) {
	authorID, err := p.repo.GetAuthor(ctx, resourceID)
	if err != nil {
		if errors.Is(err, ports.ErrPostNotFound) {
			return false, nil
		}
		p.logger.Error(ctx, "failed to get post author", "error", err, "postID", resourceID)
		return false, err
	}

	return authorID == userID, nil
}

// CheckCommentOwnership checks if a user wrote a specific comment
func (p *PostsOwnershipChecker) CheckCommentOwnership(ctx context.Context, userID uuid.UUID, commentID uuid.UUID) (bool, error) {
	authorID, err := p.repo.GetCommentAuthor(ctx, commentID)
	if err != nil {
		if errors.Is(err, ports.ErrCommentNotFound) {
			return false, nil
		}
		p.logger.Error(ctx, "failed to get comment author", "error", err, "commentID", commentID)
		return false, err
	}

	return authorID == userID, nil
}

// RegisterPostsOwnership registers the post and comment ownership checkers with the registry
func RegisterPostsOwnership(registry ownership.Registry, repo ports.PostRepository, logger logger.Logger) {
	checker := NewPostsOwnershipChecker(repo, logger)
	registry.RegisterChecker(ResourceType, checker)
	registry.RegisterChecker(CommentResourceType, ownership.CheckerFunc(checker.CheckCommentOwnership))
}
