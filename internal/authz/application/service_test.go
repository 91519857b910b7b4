package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/casira/connect/internal/authz/application"
	"github.com/casira/connect/internal/authz/permission"
	"github.com/casira/connect/internal/authz/ports"
	"github.com/casira/connect/internal/platform/apperror"
	"github.com/casira/connect/internal/platform/cache"
	"github.com/casira/connect/internal/platform/eventbus"
	"github.com/casira/connect/internal/platform/events"
	"github.com/casira/connect/internal/platform/logger"
	"github.com/casira/connect/internal/platform/ownership"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRoles struct {
	mu      sync.Mutex
	roles   map[uuid.UUID]string
	lookups int
	err     error
}

func (f *fakeRoles) GetUserRole(_ context.Context, userID uuid.UUID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.err != nil {
		return "", f.err
	}
	role, ok := f.roles[userID]
	if !ok {
		return "", ports.ErrSubjectNotFound
	}
	return role, nil
}

func (f *fakeRoles) set(userID uuid.UUID, role string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[userID] = role
}

func (f *fakeRoles) lookupCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookups
}

// pausingRoles holds the first lookup after it has read the role, until
// release is closed.
type pausingRoles struct {
	*fakeRoles
	armed   sync.Once
	read    chan struct{}
	release chan struct{}
}

func (p *pausingRoles) GetUserRole(ctx context.Context, userID uuid.UUID) (string, error) {
	role, err := p.fakeRoles.GetUserRole(ctx, userID)
	p.armed.Do(func() {
		close(p.read)
		<-p.release
	})
	return role, err
}

// ownerChecker treats resources listed in owned as belonging to their value.
type ownerChecker map[uuid.UUID]uuid.UUID

func (o ownerChecker) CheckOwnership(_ context.Context, userID, resourceID uuid.UUID) (bool, error) {
	return o[resourceID] == userID, nil
}

type fixture struct {
	roles   *fakeRoles
	bus     *eventbus.Bus
	owned   ownerChecker
	service *application.AuthzService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		roles: &fakeRoles{roles: make(map[uuid.UUID]string)},
		bus:   eventbus.NewBus(logger.Nop{}),
		owned: ownerChecker{},
	}
	registry := ownership.NewRegistry()
	registry.RegisterChecker("activities", f.owned)

	svc, err := application.NewAuthzService(f.roles, registry, f.bus, cache.Config{Size: 16}, logger.Nop{})
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	f.service = svc
	return f
}

func (f *fixture) user(role string) uuid.UUID {
	id := uuid.New()
	f.roles.set(id, role)
	return id
}

func TestHasPermission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	visitor := f.user("visitor")
	volunteer := f.user("volunteer")
	admin := f.user("admin")

	tests := []struct {
		name       string
		userID     uuid.UUID
		permission string
		want       bool
	}{
		{"visitor reads activities", visitor, permission.ActivitiesRead, true},
		{"visitor cannot join", visitor, permission.ActivitiesJoin, false},
		{"volunteer joins", volunteer, permission.ActivitiesJoin, true},
		{"volunteer cannot create", volunteer, permission.ActivitiesCreate, false},
		{"admin creates", admin, permission.ActivitiesCreate, true},
		{"admin inspects the bus", admin, permission.SystemStats, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.service.HasPermission(ctx, tt.userID, tt.permission)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasPermissionRejectsUnknownPermission(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.HasPermission(context.Background(), f.user("admin"), "activities:teleport")

	assert.ErrorIs(t, err, application.ErrInvalidPermission)
}

func TestHasPermissionUnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.HasPermission(context.Background(), uuid.New(), permission.ActivitiesRead)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestHasPermissionForResource(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	volunteer := f.user("volunteer")
	admin := f.user("admin")
	otherAdmin := f.user("admin")

	activity := uuid.New()
	f.owned[activity] = admin

	tests := []struct {
		name       string
		userID     uuid.UUID
		permission string
		want       bool
	}{
		{"owner with own permission", admin, permission.ActivitiesUpdateOwn, true},
		{"any permission skips ownership", otherAdmin, permission.ActivitiesUpdateOwn, true},
		{"no own permission", volunteer, permission.ActivitiesUpdateOwn, false},
		{"unscoped permission", volunteer, permission.ActivitiesJoin, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.service.HasPermissionForResource(ctx, tt.userID, tt.permission, "activities", activity)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := f.service.HasPermissionForResource(ctx, admin, "nope:nope", "activities", activity)
	assert.ErrorIs(t, err, application.ErrInvalidPermission)
}

func TestOwnershipWithoutAnyVariant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	volunteer := f.user("volunteer")

	registry := ownership.NewRegistry()
	notification := uuid.New()
	registry.RegisterChecker("notifications", ownerChecker{notification: volunteer})
	svc, err := application.NewAuthzService(f.roles, registry, f.bus, cache.Config{}, logger.Nop{})
	require.NoError(t, err)
	defer svc.Close()

	ok, err := svc.HasPermissionForResource(ctx, volunteer, permission.NotificationsReadOwn, "notifications", notification)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.HasPermissionForResource(ctx, volunteer, permission.NotificationsReadOwn, "notifications", uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.HasPermissionForResource(ctx, volunteer, permission.NotificationsReadOwn, "unregistered", notification)
	assert.Error(t, err)
}

func TestCan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user("admin")
	volunteer := f.user("volunteer")
	post := uuid.New()

	registry := ownership.NewRegistry()
	registry.RegisterChecker("posts", ownerChecker{post: volunteer})
	svc, err := application.NewAuthzService(f.roles, registry, f.bus, cache.Config{}, logger.Nop{})
	require.NoError(t, err)
	defer svc.Close()

	ok, err := svc.Can(ctx, volunteer, "posts", "create", nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Can(ctx, volunteer, "posts", "delete", &post)
	require.NoError(t, err)
	assert.True(t, ok, "author deletes own post")

	other := uuid.New()
	ok, err = svc.Can(ctx, volunteer, "posts", "delete", &other)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Can(ctx, admin, "posts", "delete", &other)
	require.NoError(t, err)
	assert.True(t, ok, "admin deletes any post")
}

func TestHasAnyAndAllPermissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	volunteer := f.user("volunteer")

	anyOf, err := f.service.HasAnyPermission(ctx, volunteer, []string{permission.ActivitiesCreate, permission.ActivitiesJoin})
	require.NoError(t, err)
	assert.True(t, anyOf)

	allOf, err := f.service.HasAllPermissions(ctx, volunteer, []string{permission.ActivitiesCreate, permission.ActivitiesJoin})
	require.NoError(t, err)
	assert.False(t, allOf)

	_, err = f.service.HasAllPermissions(ctx, volunteer, []string{"bad"})
	assert.ErrorIs(t, err, application.ErrInvalidPermission)
}

func TestHasRoleAndPermissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	visitor := f.user("visitor")

	isVisitor, err := f.service.HasRole(ctx, visitor, "visitor")
	require.NoError(t, err)
	assert.True(t, isVisitor)

	perms, err := f.service.GetUserPermissions(ctx, visitor)
	require.NoError(t, err)
	assert.Contains(t, perms, permission.ActivitiesRead)
	assert.NotContains(t, perms, permission.ActivitiesJoin)
}

func TestRoleCacheIsInvalidatedByRoleChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user("visitor")

	for range 3 {
		ok, err := f.service.HasPermission(ctx, user, permission.ActivitiesJoin)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, 1, f.roles.lookupCount(), "role is cached after the first lookup")

	f.roles.set(user, "volunteer")
	f.bus.Emit(ctx, events.UserRoleChangedTopic, events.UserRoleChangedEvent{
		UserID:     user,
		ActorID:    uuid.New(),
		OldRole:    "visitor",
		NewRole:    "volunteer",
		OccurredAt: time.Now(),
	})

	ok, err := f.service.HasPermission(ctx, user, permission.ActivitiesJoin)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, f.roles.lookupCount())

	stats := f.service.CacheStats()
	assert.Equal(t, "authz_roles", stats.Name)
	assert.Equal(t, uint64(2), stats.Misses)
}

func TestLookupFailureIsNotCached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user("admin")

	f.roles.err = errors.New("db down")
	_, err := f.service.HasPermission(ctx, user, permission.ActivitiesRead)
	require.Error(t, err)

	f.roles.err = nil
	ok, err := f.service.HasPermission(ctx, user, permission.ActivitiesRead)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDemotionDuringPermissionCheckIsNotCached(t *testing.T) {
	roles := &pausingRoles{
		fakeRoles: &fakeRoles{roles: make(map[uuid.UUID]string)},
		read:      make(chan struct{}),
		release:   make(chan struct{}),
	}
	bus := eventbus.NewBus(logger.Nop{})
	svc, err := application.NewAuthzService(roles, ownership.NewRegistry(), bus, cache.Config{Size: 16}, logger.Nop{})
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	ctx := context.Background()
	admin := uuid.New()
	roles.set(admin, "admin")

	inFlight := make(chan bool)
	go func() {
		ok, _ := svc.HasPermission(ctx, admin, permission.ActivitiesCreate)
		inFlight <- ok
	}()

	<-roles.read
	roles.set(admin, "visitor")
	bus.Emit(ctx, events.UserRoleChangedTopic, events.UserRoleChangedEvent{
		UserID:     admin,
		OldRole:    "admin",
		NewRole:    "visitor",
		OccurredAt: time.Now(),
	})
	close(roles.release)
	assert.True(t, <-inFlight, "the check that started before the demotion sees the old role")

	ok, err := svc.HasPermission(ctx, admin, permission.ActivitiesCreate)
	require.NoError(t, err)
	assert.False(t, ok, "demoted user keeps no cached admin role")
}
