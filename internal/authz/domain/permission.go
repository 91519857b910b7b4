package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidPermissionID = errors.New("invalid permission ID format")

// Scopes that narrow a grant. A grant without a scope covers every resource
// of its type.
const (
	ScopeOwn  = "own"
	ScopeSelf = "self"
	ScopeAny  = "any"
)

// Permission is a parsed "resource:action[:scope]" grant. Actions may carry a
// qualifier, as in "posts:read:draft:any".
type Permission struct {
	Resource    string
	Action      string
	Scope       string
	Description string
}

func NewPermission(resource, action, scope, description string) *Permission {
	return &Permission{Resource: resource, Action: action, Scope: scope, Description: description}
}

// NewPermissionFromID parses id, rejecting empty segments and wrong arity.
func NewPermissionFromID(id, description string) (*Permission, error) {
	resource, action, scope := ParsePermissionID(id)
	if resource == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPermissionID, id)
	}
	return NewPermission(resource, action, scope, description), nil
}

func (p *Permission) IDString() string {
	parts := []string{p.Resource, p.Action}
	if p.Scope != "" {
		parts = append(parts, p.Scope)
	}
	return strings.Join(parts, ":")
}

// IsOwnershipBased reports whether the grant only covers resources the caller owns.
func (p *Permission) IsOwnershipBased() bool {
	return p.Scope == ScopeOwn || p.Scope == ScopeSelf
}

func (p *Permission) Matches(resource, action string) bool {
	return p.Resource == resource && p.Action == action
}

// ParsePermissionID splits id into its parts. All three are empty when id is
// malformed.
func ParsePermissionID(id string) (resource, action, scope string) {
	parts := strings.Split(id, ":")
	if len(parts) < 2 || len(parts) > 4 {
		return "", "", ""
	}
	for _, part := range parts {
		if part == "" {
			return "", "", ""
		}
	}

	resource = parts[0]
	switch len(parts) {
	case 2:
		action = parts[1]
	case 3:
		action, scope = parts[1], parts[2]
	case 4:
		action, scope = parts[1]+":"+parts[2], parts[3]
	}
	return resource, action, scope
}
