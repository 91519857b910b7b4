package domain

import (
	"errors"
	"time"

	"github.com/casira/connect/internal/platform/validator"
	"github.com/google/uuid"
)

// Business rule constants
const (
	MaxTitleLength   = 255
	MaxContentLength = 2000
)

// Validation errors
var (
	ErrInvalidAuthorID   = errors.New("author ID is required")
	ErrInvalidPostType   = errors.New("post type must be update, announcement, request, achievement or story")
	ErrInvalidVisibility = errors.New("visibility must be public, members or private")
)

// PostType classifies what a post is about
type PostType string

const (
	PostTypeUpdate       PostType = "update"
	PostTypeAnnouncement PostType = "announcement"
	PostTypeRequest      PostType = "request"
	PostTypeAchievement  PostType = "achievement"
	PostTypeStory        PostType = "story"
)

func ParsePostType(s string) (PostType, error) {
	switch t := PostType(s); t {
	case PostTypeUpdate, PostTypeAnnouncement, PostTypeRequest, PostTypeAchievement, PostTypeStory:
		return t, nil
	case "":
		return PostTypeUpdate, nil
	default:
		return "", ErrInvalidPostType
	}
}

// Visibility decides who can read a post
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityMembers Visibility = "members" // Everyone but visitors
	VisibilityPrivate Visibility = "private" // Author and admins
)

func ParseVisibility(s string) (Visibility, error) {
	switch v := Visibility(s); v {
	case VisibilityPublic, VisibilityMembers, VisibilityPrivate:
		return v, nil
	case "":
		return VisibilityPublic, nil
	default:
		return "", ErrInvalidVisibility
	}
}

// Viewer is who is reading the feed.
type Viewer struct {
	UserID  uuid.UUID
	IsAdmin bool
	Member  bool // false for visitors
}

// VisibleTo returns the visibilities a viewer may read on other people's posts.
func VisibleTo(v Viewer) []Visibility {
	switch {
	case v.IsAdmin:
		return []Visibility{VisibilityPublic, VisibilityMembers, VisibilityPrivate}
	case v.Member:
		return []Visibility{VisibilityPublic, VisibilityMembers}
	default:
		return []Visibility{VisibilityPublic}
	}
}

// Post is an entry in the community feed, optionally tied to an activity
type Post struct {
	ID            uuid.UUID
	AuthorID      uuid.UUID
	ActivityID    *uuid.UUID
	Title         string
	Content       string // Sanitized HTML
	Type          PostType
	Visibility    Visibility
	LikesCount    int
	CommentsCount int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewPostParams holds the author-supplied fields. Content must already be sanitized.
type NewPostParams struct {
	AuthorID   uuid.UUID
	ActivityID *uuid.UUID
	Title      string
	Content    string
	Type       string
	Visibility string
}

// NewPost creates a new post with validation
func NewPost(p NewPostParams, now time.Time) (*Post, error) {
	if p.AuthorID == uuid.Nil {
		return nil, ErrInvalidAuthorID
	}
	title, err := validator.OptionalText("title", p.Title, MaxTitleLength)
	if err != nil {
		return nil, err
	}
	content, err := validator.RequiredText("content", p.Content, MaxContentLength)
	if err != nil {
		return nil, err
	}
	postType, err := ParsePostType(p.Type)
	if err != nil {
		return nil, err
	}
	visibility, err := ParseVisibility(p.Visibility)
	if err != nil {
		return nil, err
	}

	return &Post{
		ID:         uuid.New(),
		AuthorID:   p.AuthorID,
		ActivityID: p.ActivityID,
		Title:      title,
		Content:    content,
		Type:       postType,
		Visibility: visibility,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// CanView applies the visibility rules for one viewer.
func (p *Post) CanView(v Viewer) bool {
	if p.AuthorID == v.UserID {
		return true
	}
	for _, vis := range VisibleTo(v) {
		if p.Visibility == vis {
			return true
		}
	}
	return false
}

// EngagementScore weighs comments twice as much as likes.
func (p *Post) EngagementScore() int {
	return p.LikesCount + 2*p.CommentsCount
}
