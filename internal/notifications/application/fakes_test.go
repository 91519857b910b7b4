package application_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/casira/connect/internal/notifications/domain"
	"github.com/casira/connect/internal/notifications/ports"
	"github.com/google/uuid"
)

type memoryRepo struct {
	mu         sync.Mutex
	items      map[uuid.UUID]*domain.Notification
	failCreate error
	failPurge  error
	purges     []time.Time
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: make(map[uuid.UUID]*domain.Notification)}
}

func (r *memoryRepo) Create(_ context.Context, ns ...*domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	for _, n := range ns {
		cp := *n
		r.items[n.ID] = &cp
	}
	return nil
}

func (r *memoryRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotificationNotFound
	}
	cp := *n
	return &cp, nil
}

func (r *memoryRepo) ListForUser(_ context.Context, userID uuid.UUID, filter ports.ListFilter) ([]*domain.Notification, int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Notification
	unread := 0
	for _, n := range r.items {
		if n.UserID != userID {
			continue
		}
		if !n.Read {
			unread++
		}
		if filter.UnreadOnly && n.Read {
			continue
		}
		cp := *n
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := len(out)
	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, total, unread, nil
}

func (r *memoryRepo) MarkRead(_ context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *n
	r.items[n.ID] = &cp
	return nil
}

func (r *memoryRepo) MarkAllRead(_ context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var changed int64
	for _, n := range r.items {
		if n.UserID == userID && n.MarkRead(at) {
			changed++
		}
	}
	return changed, nil
}

func (r *memoryRepo) GetRecipient(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return uuid.Nil, ports.ErrNotificationNotFound
	}
	return n.UserID, nil
}

func (r *memoryRepo) PurgeRead(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purges = append(r.purges, before)
	if r.failPurge != nil {
		return 0, r.failPurge
	}
	var purged int64
	for id, n := range r.items {
		if n.Read && n.CreatedAt.Before(before) {
			delete(r.items, id)
			purged++
		}
	}
	return purged, nil
}

func (r *memoryRepo) forUser(userID uuid.UUID) []*domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Notification
	for _, n := range r.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func (r *memoryRepo) purgeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.purges)
}

// recipientAuthorizer grants the own-notification permissions to everyone
// except the blocked user, and checks ownership against the repo.
type recipientAuthorizer struct {
	repo    *memoryRepo
	blocked uuid.UUID
}

func (a recipientAuthorizer) HasPermission(_ context.Context, userID uuid.UUID, _ string) (bool, error) {
	return userID != a.blocked, nil
}

func (a recipientAuthorizer) Can(ctx context.Context, userID uuid.UUID, _ string, _ string, resourceID *uuid.UUID) (bool, error) {
	if userID == a.blocked {
		return false, nil
	}
	if resourceID == nil {
		return true, nil
	}
	owner, err := a.repo.GetRecipient(ctx, *resourceID)
	if err != nil {
		return false, nil
	}
	return owner == userID, nil
}
