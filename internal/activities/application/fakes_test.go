package application_test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/casira/connect/internal/activities/domain"
	"github.com/casira/connect/internal/activities/ports"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// memoryRepo is an in-memory ports.ActivityRepository. WithTx returns the
// same store, so transactional work is applied immediately.
type memoryRepo struct {
	mu         sync.Mutex
	activities map[uuid.UUID]*domain.Activity
	volunteers map[uuid.UUID][]uuid.UUID
	finds      int
	failUpdate error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		activities: make(map[uuid.UUID]*domain.Activity),
		volunteers: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (r *memoryRepo) WithTx(pgx.Tx) ports.ActivityRepository { return r }

func (r *memoryRepo) Create(_ context.Context, a *domain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.activities[a.ID] = &cp
	return nil
}

func (r *memoryRepo) Update(_ context.Context, a *domain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdate != nil {
		return r.failUpdate
	}
	if _, ok := r.activities[a.ID]; !ok {
		return ports.ErrActivityNotFound
	}
	cp := *a
	r.activities[a.ID] = &cp
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.activities[id]; !ok {
		return ports.ErrActivityNotFound
	}
	delete(r.activities, id)
	delete(r.volunteers, id)
	return nil
}

func (r *memoryRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	a, ok := r.activities[id]
	if !ok {
		return nil, ports.ErrActivityNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memoryRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	return r.FindByID(ctx, id)
}

func (r *memoryRepo) findCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finds
}

func (r *memoryRepo) List(_ context.Context, filter ports.ListFilter) ([]*domain.Activity, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Activity
	for _, a := range r.activities {
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	total := len(out)
	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

func (r *memoryRepo) SlugExists(_ context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, a := range r.activities {
		if excludeID != nil && id == *excludeID {
			continue
		}
		if a.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) GetCreator(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.activities[id]
	if !ok {
		return uuid.Nil, ports.ErrActivityNotFound
	}
	return a.CreatorID, nil
}

func (r *memoryRepo) AddVolunteer(_ context.Context, activityID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.volunteers[activityID] {
		if v == userID {
			return ports.ErrAlreadyVolunteer
		}
	}
	r.volunteers[activityID] = append(r.volunteers[activityID], userID)
	return nil
}

func (r *memoryRepo) RemoveVolunteer(_ context.Context, activityID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	vs := r.volunteers[activityID]
	for i, v := range vs {
		if v == userID {
			r.volunteers[activityID] = append(vs[:i], vs[i+1:]...)
			return nil
		}
	}
	return ports.ErrVolunteerNotFound
}

func (r *memoryRepo) IsVolunteer(_ context.Context, activityID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.volunteers[activityID] {
		if v == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) ListVolunteers(_ context.Context, activityID uuid.UUID) ([]*domain.Volunteer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Volunteer
	for _, v := range r.volunteers[activityID] {
		out = append(out, &domain.Volunteer{ActivityID: activityID, UserID: v})
	}
	return out, nil
}

func (r *memoryRepo) VolunteerIDs(_ context.Context, activityID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uuid.UUID(nil), r.volunteers[activityID]...), nil
}

// pausingRepo holds the first FindByID after it has read the row, until
// release is closed.
type pausingRepo struct {
	*memoryRepo
	armed   atomic.Bool
	read    chan struct{}
	release chan struct{}
}

func newPausingRepo(inner *memoryRepo) *pausingRepo {
	r := &pausingRepo{memoryRepo: inner, read: make(chan struct{}), release: make(chan struct{})}
	r.armed.Store(true)
	return r
}

func (r *pausingRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	a, err := r.memoryRepo.FindByID(ctx, id)
	if r.armed.CompareAndSwap(true, false) {
		close(r.read)
		<-r.release
	}
	return a, err
}

type noopTx struct{ pgx.Tx }

func (noopTx) Commit(context.Context) error   { return nil }
func (noopTx) Rollback(context.Context) error { return nil }

type noopTxManager struct{}

func (noopTxManager) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) { return noopTx{}, nil }

// roleAuthorizer grants actions per user; "*" grants everything.
type roleAuthorizer map[uuid.UUID][]string

func (a roleAuthorizer) Can(_ context.Context, userID uuid.UUID, _ string, action string, _ *uuid.UUID) (bool, error) {
	for _, granted := range a[userID] {
		if granted == "*" || granted == action {
			return true, nil
		}
	}
	return false, nil
}
