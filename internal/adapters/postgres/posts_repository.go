package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/casira/connect/internal/platform/postgres"
	"github.com/casira/connect/internal/posts/domain"
	"github.com/casira/connect/internal/posts/ports"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var postColumns = []string{
	"id", "author_id", "activity_id", "title", "content", "type", "visibility",
	"likes_count", "comments_count", "created_at", "updated_at",
}

// PostRepository implements the posts.PostRepository interface using PostgreSQL
type PostRepository struct {
	postgres.BaseRepository // Embed the base repository for common functionality
}

// NewPostRepository creates a new PostgreSQL posts repository
func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{
		BaseRepository: postgres.NewBaseRepository(db),
	}
}

// Create inserts a new post into the database
func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	_, err := r.Exec(ctx, r.SB.
		Insert("posts").
		Columns(postColumns...).
		Values(
			postgres.UUID(post.ID),
			postgres.UUID(post.AuthorID),
			postgres.NullUUID(post.ActivityID),
			postgres.NullText(post.Title),
			post.Content,
			string(post.Type),
			string(post.Visibility),
			post.LikesCount,
			post.CommentsCount,
			postgres.Timestamptz(post.CreatedAt),
			postgres.Timestamptz(post.UpdatedAt),
		))
	if err != nil {
		return fmt.Errorf("PostRepository.Create: %w", err)
	}
	return nil
}

// FindByID retrieves a post by its ID
func (r *PostRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	row, err := r.QueryRow(ctx, r.SB.Select(postColumns...).From("posts").Where(sq.Eq{"id": postgres.UUID(id)}))
	if err != nil {
		return nil, fmt.Errorf("PostRepository.FindByID: %w", err)
	}

	post, err := scanPost(row)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, ports.ErrPostNotFound
		}
		return nil, fmt.Errorf("PostRepository.FindByID: %w", err)
	}
	return post, nil
}

// Delete removes a post; likes and comments go with it through ON DELETE CASCADE
func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.Exec(ctx, r.SB.Delete("posts").Where(sq.Eq{"id": postgres.UUID(id)}))
	if err != nil {
		return fmt.Errorf("PostRepository.Delete: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ports.ErrPostNotFound
	}
	return nil
}

// List retrieves a page of the feed, newest first
func (r *PostRepository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Post, int, error) {
	where := postFilters(filter)

	total, err := r.Count(ctx, r.SB.Select("COUNT(*)").From("posts").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("PostRepository.List: count: %w", err)
	}

	qb := r.SB.Select(postColumns...).From("posts").Where(where).OrderBy("created_at DESC")
	rows, err := r.Query(ctx, postgres.Page(qb, filter.Limit, filter.Offset))
	if err != nil {
		return nil, 0, fmt.Errorf("PostRepository.List: %w", err)
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("PostRepository.List: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("PostRepository.List: rows error: %w", err)
	}
	return posts, total, nil
}

// GetAuthor retrieves just the author ID for a post (for ownership checks)
func (r *PostRepository) GetAuthor(ctx context.Context, postID uuid.UUID) (uuid.UUID, error) {
	return r.authorOf(ctx, "posts", postID, ports.ErrPostNotFound)
}

// AddLike records the like and bumps the counter in one statement
func (r *PostRepository) AddLike(ctx context.Context, postID, userID uuid.UUID) (int, error) {
	q := r.SB.Update("posts").
		Prefix("WITH liked AS (INSERT INTO post_likes (post_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING RETURNING post_id)",
			postgres.UUID(postID), postgres.UUID(userID)).
		Set("likes_count", sq.Expr("likes_count + 1")).
		Where("id IN (SELECT post_id FROM liked)").
		Suffix("RETURNING likes_count")

	count, err := r.returningCount(ctx, q)
	switch {
	case postgres.IsNoRows(err):
		return 0, ports.ErrAlreadyLiked
	case postgres.IsForeignKeyViolation(err):
		return 0, ports.ErrPostNotFound
	case err != nil:
		return 0, fmt.Errorf("PostRepository.AddLike: %w", err)
	}
	return count, nil
}

// RemoveLike deletes the like and lowers the counter in one statement
func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID uuid.UUID) (int, error) {
	q := r.SB.Update("posts").
		Prefix("WITH unliked AS (DELETE FROM post_likes WHERE post_id = ? AND user_id = ? RETURNING post_id)",
			postgres.UUID(postID), postgres.UUID(userID)).
		Set("likes_count", sq.Expr("GREATEST(likes_count - 1, 0)")).
		Where("id IN (SELECT post_id FROM unliked)").
		Suffix("RETURNING likes_count")

	count, err := r.returningCount(ctx, q)
	switch {
	case postgres.IsNoRows(err):
		return 0, ports.ErrNotLiked
	case err != nil:
		return 0, fmt.Errorf("PostRepository.RemoveLike: %w", err)
	}
	return count, nil
}

// AddComment stores the comment and bumps the post's counter in one statement
func (r *PostRepository) AddComment(ctx context.Context, c *domain.Comment) error {
	q := r.SB.Update("posts").
		Prefix("WITH added AS (INSERT INTO post_comments (id, post_id, author_id, content, created_at) VALUES (?, ?, ?, ?, ?) RETURNING post_id)",
			postgres.UUID(c.ID), postgres.UUID(c.PostID), postgres.UUID(c.AuthorID), c.Content, postgres.Timestamptz(c.CreatedAt)).
		Set("comments_count", sq.Expr("comments_count + 1")).
		Where("id IN (SELECT post_id FROM added)")

	if _, err := r.Exec(ctx, q); err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return ports.ErrPostNotFound
		}
		return fmt.Errorf("PostRepository.AddComment: %w", err)
	}
	return nil
}

// ListComments returns a page of comments, oldest first
func (r *PostRepository) ListComments(ctx context.Context, postID uuid.UUID, limit, offset int) ([]*domain.Comment, error) {
	qb := r.SB.
		Select("id", "post_id", "author_id", "content", "created_at").
		From("post_comments").
		Where(sq.Eq{"post_id": postgres.UUID(postID)}).
		OrderBy("created_at ASC")
	rows, err := r.Query(ctx, postgres.Page(qb, limit, offset))
	if err != nil {
		return nil, fmt.Errorf("PostRepository.ListComments: %w", err)
	}

	comments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Comment, error) {
		var c domain.Comment
		var id, post, author pgtype.UUID
		if err := row.Scan(&id, &post, &author, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.ID = uuid.UUID(id.Bytes)
		c.PostID = uuid.UUID(post.Bytes)
		c.AuthorID = uuid.UUID(author.Bytes)
		return &c, nil
	})
	if err != nil {
		return nil, fmt.Errorf("PostRepository.ListComments: %w", err)
	}
	return comments, nil
}

// DeleteComment removes a comment and lowers the post's counter in one statement
func (r *PostRepository) DeleteComment(ctx context.Context, commentID uuid.UUID) error {
	q := r.SB.Update("posts").
		Prefix("WITH removed AS (DELETE FROM post_comments WHERE id = ? RETURNING post_id)", postgres.UUID(commentID)).
		Set("comments_count", sq.Expr("GREATEST(comments_count - 1, 0)")).
		Where("id IN (SELECT post_id FROM removed)")

	result, err := r.Exec(ctx, q)
	if err != nil {
		return fmt.Errorf("PostRepository.DeleteComment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ports.ErrCommentNotFound
	}
	return nil
}

// GetCommentAuthor retrieves just the author ID for a comment (for ownership checks)
func (r *PostRepository) GetCommentAuthor(ctx context.Context, commentID uuid.UUID) (uuid.UUID, error) {
	return r.authorOf(ctx, "post_comments", commentID, ports.ErrCommentNotFound)
}

// Helper methods

func (r *PostRepository) authorOf(ctx context.Context, table string, id uuid.UUID, notFound error) (uuid.UUID, error) {
	row, err := r.QueryRow(ctx, r.SB.Select("author_id").From(table).Where(sq.Eq{"id": postgres.UUID(id)}))
	if err != nil {
		return uuid.Nil, fmt.Errorf("PostRepository.authorOf(%s): %w", table, err)
	}

	var author pgtype.UUID
	if err := row.Scan(&author); err != nil {
		if postgres.IsNoRows(err) {
			return uuid.Nil, notFound
		}
		return uuid.Nil, fmt.Errorf("PostRepository.authorOf(%s): %w", table, err)
	}
	return uuid.UUID(author.Bytes), nil
}

func (r *PostRepository) returningCount(ctx context.Context, q sq.UpdateBuilder) (int, error) {
	row, err := r.QueryRow(ctx, q)
	if err != nil {
		return 0, err
	}
	var n int
	err = row.Scan(&n)
	return n, err
}

// postFilters builds the WHERE clause shared by List and its count
func postFilters(filter ports.ListFilter) sq.And {
	where := sq.And{}
	if filter.ActivityID != nil {
		where = append(where, sq.Eq{"activity_id": postgres.UUID(*filter.ActivityID)})
	}
	if filter.AuthorID != nil {
		where = append(where, sq.Eq{"author_id": postgres.UUID(*filter.AuthorID)})
	}
	if filter.Type != nil {
		where = append(where, sq.Eq{"type": string(*filter.Type)})
	}

	visibilities := make([]string, 0, len(filter.Visibilities))
	for _, v := range filter.Visibilities {
		visibilities = append(visibilities, string(v))
	}
	visible := sq.Or{sq.Eq{"visibility": visibilities}}
	if filter.ViewerID != uuid.Nil {
		visible = append(visible, sq.Eq{"author_id": postgres.UUID(filter.ViewerID)})
	}
	return append(where, visible)
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var post domain.Post
	var id, author, activity pgtype.UUID
	var title pgtype.Text
	var postType, visibility string

	err := row.Scan(
		&id,
		&author,
		&activity,
		&title,
		&post.Content,
		&postType,
		&visibility,
		&post.LikesCount,
		&post.CommentsCount,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	post.ID = uuid.UUID(id.Bytes)
	post.AuthorID = uuid.UUID(author.Bytes)
	post.ActivityID = postgres.UUIDPtr(activity)
	post.Title = postgres.Text(title)
	if post.Type, err = domain.ParsePostType(postType); err != nil {
		return nil, fmt.Errorf("scanPost: %w", err)
	}
	if post.Visibility, err = domain.ParseVisibility(visibility); err != nil {
		return nil, fmt.Errorf("scanPost: %w", err)
	}
	return &post, nil
}
