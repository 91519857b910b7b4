package ownership

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrNoChecker is returned for resource types nobody registered.
var ErrNoChecker = errors.New("no ownership checker registered")

// MapRegistry keeps one checker per resource type. Modules register during
// wiring; lookups happen on every authorization check.
type MapRegistry struct {
	checkers sync.Map // resource type -> Checker
}

func NewRegistry() *MapRegistry {
	return &MapRegistry{}
}

// RegisterChecker replaces any checker already registered for resourceType.
func (r *MapRegistry) RegisterChecker(resourceType string, checker Checker) {
	if checker == nil {
		panic("ownership: nil checker for " + resourceType)
	}
	r.checkers.Store(resourceType, checker)
}

func (r *MapRegistry) GetChecker(resourceType string) (Checker, bool) {
	v, ok := r.checkers.Load(resourceType)
	if !ok {
		return nil, false
	}
	return v.(Checker), true
}

func (r *MapRegistry) CheckOwnership(ctx context.Context, userID uuid.UUID, resourceType string, resourceID uuid.UUID) (bool, error) {
	checker, ok := r.GetChecker(resourceType)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNoChecker, resourceType)
	}
	owned, err := checker.CheckOwnership(ctx, userID, resourceID)
	if err != nil {
		return false, fmt.Errorf("check %s ownership: %w", resourceType, err)
	}
	return owned, nil
}
