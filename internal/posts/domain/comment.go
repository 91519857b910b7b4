package domain

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/casira/connect/internal/platform/validator"
	"github.com/google/uuid"
)

const (
	MaxCommentLength = 1000
	excerptLength    = 80
)

var ErrInvalidCommentAuthor = errors.New("comment author is required")

type Comment struct {
	ID        uuid.UUID
	PostID    uuid.UUID
	AuthorID  uuid.UUID
	Content   string // Plain text
	CreatedAt time.Time
}

// NewComment creates a comment. Content must already be stripped of markup.
func NewComment(postID, authorID uuid.UUID, content string, now time.Time) (*Comment, error) {
	if authorID == uuid.Nil {
		return nil, ErrInvalidCommentAuthor
	}
	content, err := validator.RequiredText("content", content, MaxCommentLength)
	if err != nil {
		return nil, err
	}
	return &Comment{
		ID:        uuid.New(),
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: now,
	}, nil
}

// Excerpt returns the first characters of the comment for notifications.
func (c *Comment) Excerpt() string {
	if utf8.RuneCountInString(c.Content) <= excerptLength {
		return c.Content
	}
	runes := []rune(c.Content)
	return string(runes[:excerptLength-1]) + "…"
}
