package application_test

import (
	"context"
	"sort"
	"sync"

	"github.com/casira/connect/internal/posts/domain"
	"github.com/casira/connect/internal/posts/ports"
	"github.com/google/uuid"
)

type memoryRepo struct {
	mu       sync.Mutex
	posts    map[uuid.UUID]*domain.Post
	likes    map[uuid.UUID]map[uuid.UUID]bool
	comments map[uuid.UUID]*domain.Comment
	failErr  error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		posts:    make(map[uuid.UUID]*domain.Post),
		likes:    make(map[uuid.UUID]map[uuid.UUID]bool),
		comments: make(map[uuid.UUID]*domain.Comment),
	}
}

func (r *memoryRepo) Create(_ context.Context, p *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	cp := *p
	r.posts[p.ID] = &cp
	return nil
}

func (r *memoryRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, ports.ErrPostNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return ports.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *memoryRepo) List(_ context.Context, filter ports.ListFilter) ([]*domain.Post, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Post
	for _, p := range r.posts {
		visible := p.AuthorID == filter.ViewerID
		for _, v := range filter.Visibilities {
			if p.Visibility == v {
				visible = true
			}
		}
		if !visible {
			continue
		}
		if filter.AuthorID != nil && p.AuthorID != *filter.AuthorID {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := len(out)
	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

func (r *memoryRepo) GetAuthor(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return uuid.Nil, ports.ErrPostNotFound
	}
	return p.AuthorID, nil
}

func (r *memoryRepo) AddLike(_ context.Context, postID, userID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return 0, ports.ErrPostNotFound
	}
	if r.likes[postID] == nil {
		r.likes[postID] = make(map[uuid.UUID]bool)
	}
	if r.likes[postID][userID] {
		return 0, ports.ErrAlreadyLiked
	}
	r.likes[postID][userID] = true
	p.LikesCount = len(r.likes[postID])
	return p.LikesCount, nil
}

func (r *memoryRepo) RemoveLike(_ context.Context, postID, userID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return 0, ports.ErrPostNotFound
	}
	if !r.likes[postID][userID] {
		return 0, ports.ErrNotLiked
	}
	delete(r.likes[postID], userID)
	p.LikesCount = len(r.likes[postID])
	return p.LikesCount, nil
}

func (r *memoryRepo) AddComment(_ context.Context, c *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[c.PostID]
	if !ok {
		return ports.ErrPostNotFound
	}
	cp := *c
	r.comments[c.ID] = &cp
	p.CommentsCount++
	return nil
}

func (r *memoryRepo) ListComments(_ context.Context, postID uuid.UUID, limit, offset int) ([]*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryRepo) DeleteComment(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return ports.ErrCommentNotFound
	}
	delete(r.comments, id)
	if p, ok := r.posts[c.PostID]; ok {
		p.CommentsCount--
	}
	return nil
}

func (r *memoryRepo) GetCommentAuthor(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return uuid.Nil, ports.ErrCommentNotFound
	}
	return c.AuthorID, nil
}

// roleAuthorizer answers permission checks from a user -> role table and
// checks ":own" access against the repo's authors.
type roleAuthorizer struct {
	roles map[uuid.UUID]string
	repo  *memoryRepo
	err   error
}

var rolePermissions = map[string][]string{
	"visitor":   {"posts:read", "comments:read"},
	"volunteer": {"posts:read", "comments:read", "posts:create", "posts:like", "comments:create", "posts:delete:own", "comments:delete:own"},
	"admin":     {"posts:read", "comments:read", "posts:create", "posts:like", "comments:create", "posts:delete:any", "comments:delete:any"},
}

func (a roleAuthorizer) Can(ctx context.Context, userID uuid.UUID, resource, action string, resourceID *uuid.UUID) (bool, error) {
	if a.err != nil {
		return false, a.err
	}
	perms := rolePermissions[a.roles[userID]]
	has := func(id string) bool {
		for _, p := range perms {
			if p == id {
				return true
			}
		}
		return false
	}

	id := resource + ":" + action
	if resourceID == nil {
		return has(id), nil
	}
	if has(id + ":any") {
		return true, nil
	}
	if !has(id + ":own") {
		return false, nil
	}

	var owner uuid.UUID
	var err error
	if resource == "comments" {
		owner, err = a.repo.GetCommentAuthor(ctx, *resourceID)
	} else {
		owner, err = a.repo.GetAuthor(ctx, *resourceID)
	}
	if err != nil {
		return false, nil
	}
	return owner == userID, nil
}

func (a roleAuthorizer) HasRole(_ context.Context, userID uuid.UUID, role string) (bool, error) {
	if a.err != nil {
		return false, a.err
	}
	return a.roles[userID] == role, nil
}
