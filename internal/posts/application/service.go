package application

import (
	"context"
	"errors"

	"github.com/benbjohnson/clock"
	"github.com/casira/connect/internal/platform/apperror"
	"github.com/casira/connect/internal/platform/eventbus"
	"github.com/casira/connect/internal/platform/events"
	"github.com/casira/connect/internal/platform/logger"
	"github.com/casira/connect/internal/posts/domain"
	"github.com/casira/connect/internal/posts/ports"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// EventSource labels events emitted by this service.
const EventSource = "PostsService"

const maxCommentPage = 100

// PostsService handles the community feed: posts, likes and comments
type PostsService struct {
	repo       ports.PostRepository
	authorizer ports.Authorizer
	eventBus   *eventbus.Bus
	clock      clock.Clock
	logger     logger.Logger
	sanitizer  *bluemonday.Policy // Post bodies keep safe formatting
	plain      *bluemonday.Policy // Titles and comments are plain text
}

// NewPostsService creates a new posts service
func NewPostsService(
	repo ports.PostRepository,
	authorizer ports.Authorizer,
	eventBus *eventbus.Bus,
	clk clock.Clock,
	logger logger.Logger,
) *PostsService {
	return &PostsService{
		repo:       repo,
		authorizer: authorizer,
		eventBus:   eventBus,
		clock:      clk,
		logger:     logger,
		sanitizer:  bluemonday.UGCPolicy(),
		plain:      bluemonday.StrictPolicy(),
	}
}

// CreatePostParams contains parameters for creating a new post
type CreatePostParams struct {
	ActivityID *uuid.UUID
	Title      string
	Content    string
	Type       string
	Visibility string
}

// Create publishes a post to the feed
func (s *PostsService) Create(ctx context.Context, authorID uuid.UUID, params CreatePostParams) (*domain.Post, error) {
	if err := s.authorize(ctx, authorID, "posts", "create", nil, "not authorized to create posts"); err != nil {
		return nil, err
	}

	post, err := domain.NewPost(domain.NewPostParams{
		AuthorID:   authorID,
		ActivityID: params.ActivityID,
		Title:      s.plain.Sanitize(params.Title),
		Content:    s.sanitizer.Sanitize(params.Content),
		Type:       params.Type,
		Visibility: params.Visibility,
	}, s.clock.Now())
	if err != nil {
		return nil, domainError(err)
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, s.internal(ctx, err, "failed to create post", "postID", post.ID)
	}

	s.eventBus.Emit(ctx, events.PostCreatedTopic, events.PostCreatedEvent{
		PostID:     post.ID,
		AuthorID:   authorID,
		ActivityID: post.ActivityID,
		OccurredAt: post.CreatedAt,
	}, eventbus.WithSource(EventSource))

	return post, nil
}

// Get returns a post the viewer is allowed to read. Posts hidden from the
// viewer are reported as not found.
func (s *PostsService) Get(ctx context.Context, viewerID, id uuid.UUID) (*domain.Post, error) {
	if err := s.authorize(ctx, viewerID, "posts", "read", nil, "not authorized to read posts"); err != nil {
		return nil, err
	}

	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	viewer, err := s.viewer(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if !post.CanView(viewer) {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// List returns a page of the feed as seen by the viewer
func (s *PostsService) List(ctx context.Context, viewerID uuid.UUID, filter ports.ListFilter) ([]*domain.Post, int, error) {
	if err := s.authorize(ctx, viewerID, "posts", "read", nil, "not authorized to read posts"); err != nil {
		return nil, 0, err
	}

	viewer, err := s.viewer(ctx, viewerID)
	if err != nil {
		return nil, 0, err
	}

	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = ports.DefaultListFilter().Limit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.ViewerID = viewer.UserID
	filter.Visibilities = domain.VisibleTo(viewer)

	posts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, s.internal(ctx, err, "failed to list posts")
	}
	return posts, total, nil
}

// Delete removes a post. Authors may delete their own posts, admins any post.
func (s *PostsService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if err := s.authorize(ctx, actorID, "posts", "delete", &id, "not authorized to delete this post"); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ports.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return s.internal(ctx, err, "failed to delete post", "postID", id)
	}

	s.logger.Info(ctx, "post deleted", "postID", id, "actorID", actorID)
	return nil
}

// Like records the user's like on a post
func (s *PostsService) Like(ctx context.Context, userID, id uuid.UUID) (*domain.Post, error) {
	return s.toggleLike(ctx, userID, id, true)
}

// Unlike withdraws the user's like
func (s *PostsService) Unlike(ctx context.Context, userID, id uuid.UUID) (*domain.Post, error) {
	return s.toggleLike(ctx, userID, id, false)
}

func (s *PostsService) toggleLike(ctx context.Context, userID, id uuid.UUID, like bool) (*domain.Post, error) {
	if err := s.authorize(ctx, userID, "posts", "like", nil, "not authorized to like posts"); err != nil {
		return nil, err
	}

	post, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	topic := events.PostLikedTopic
	var count int
	if like {
		count, err = s.repo.AddLike(ctx, id, userID)
	} else {
		topic = events.PostUnlikedTopic
		count, err = s.repo.RemoveLike(ctx, id, userID)
	}
	switch {
	case errors.Is(err, ports.ErrAlreadyLiked):
		return nil, ErrAlreadyLiked
	case errors.Is(err, ports.ErrNotLiked):
		return nil, ErrNotLiked
	case errors.Is(err, ports.ErrPostNotFound):
		return nil, ErrPostNotFound
	case err != nil:
		return nil, s.internal(ctx, err, "failed to update like", "postID", id, "userID", userID)
	}

	post.LikesCount = count
	s.eventBus.Emit(ctx, topic, events.PostLikeEvent{
		PostID:     post.ID,
		AuthorID:   post.AuthorID,
		UserID:     userID,
		LikesCount: count,
		OccurredAt: s.clock.Now(),
	}, eventbus.WithSource(EventSource))

	return post, nil
}

// Comment adds a plain-text comment to a post
func (s *PostsService) Comment(ctx context.Context, userID, postID uuid.UUID, content string) (*domain.Comment, error) {
	if err := s.authorize(ctx, userID, "comments", "create", nil, "not authorized to comment"); err != nil {
		return nil, err
	}

	post, err := s.Get(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	comment, err := domain.NewComment(postID, userID, s.plain.Sanitize(content), s.clock.Now())
	if err != nil {
		return nil, domainError(err)
	}

	if err := s.repo.AddComment(ctx, comment); err != nil {
		if errors.Is(err, ports.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, s.internal(ctx, err, "failed to add comment", "postID", postID)
	}

	s.eventBus.Emit(ctx, events.PostCommentedTopic, events.PostCommentedEvent{
		PostID:      postID,
		AuthorID:    post.AuthorID,
		CommentID:   comment.ID,
		CommenterID: userID,
		Excerpt:     comment.Excerpt(),
		OccurredAt:  comment.CreatedAt,
	}, eventbus.WithSource(EventSource))

	return comment, nil
}

// ListComments returns comments on a post, oldest first
func (s *PostsService) ListComments(ctx context.Context, viewerID, postID uuid.UUID, limit, offset int) ([]*domain.Comment, error) {
	if err := s.authorize(ctx, viewerID, "comments", "read", nil, "not authorized to read comments"); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, viewerID, postID); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > maxCommentPage {
		limit = maxCommentPage
	}
	if offset < 0 {
		offset = 0
	}

	comments, err := s.repo.ListComments(ctx, postID, limit, offset)
	if err != nil {
		return nil, s.internal(ctx, err, "failed to list comments", "postID", postID)
	}
	return comments, nil
}

// DeleteComment removes a comment. Authors may delete their own, admins any.
func (s *PostsService) DeleteComment(ctx context.Context, actorID, commentID uuid.UUID) error {
	if err := s.authorize(ctx, actorID, "comments", "delete", &commentID, "not authorized to delete this comment"); err != nil {
		return err
	}

	if err := s.repo.DeleteComment(ctx, commentID); err != nil {
		if errors.Is(err, ports.ErrCommentNotFound) {
			return ErrCommentNotFound
		}
		return s.internal(ctx, err, "failed to delete comment", "commentID", commentID)
	}
	return nil
}

// ===== HELPERS =====

func (s *PostsService) viewer(ctx context.Context, userID uuid.UUID) (domain.Viewer, error) {
	v := domain.Viewer{UserID: userID}

	isAdmin, err := s.authorizer.HasRole(ctx, userID, ports.RoleAdmin)
	if err != nil {
		return v, s.authzError(ctx, err, userID, "role")
	}
	if isAdmin {
		v.IsAdmin, v.Member = true, true
		return v, nil
	}

	v.Member, err = s.authorizer.HasRole(ctx, userID, ports.RoleVolunteer)
	if err != nil {
		return v, s.authzError(ctx, err, userID, "role")
	}
	return v, nil
}

func (s *PostsService) authorize(ctx context.Context, actorID uuid.UUID, resource, action string, id *uuid.UUID, denied string) error {
	allowed, err := s.authorizer.Can(ctx, actorID, resource, action, id)
	if err != nil {
		return s.authzError(ctx, err, actorID, resource+":"+action)
	}
	if !allowed {
		return apperror.Forbidden(denied)
	}
	return nil
}

func (s *PostsService) authzError(ctx context.Context, err error, actorID uuid.UUID, check string) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	s.logger.Error(ctx, "failed to check authorization", "error", err, "actorID", actorID, "check", check)
	return ErrAuthorization
}

func (s *PostsService) load(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, s.internal(ctx, err, "failed to get post", "postID", id)
	}
	return post, nil
}

func (s *PostsService) internal(ctx context.Context, err error, msg string, kv ...any) error {
	s.logger.Error(ctx, msg, append([]any{"error", err}, kv...)...)
	return apperror.Internal(err, msg)
}
