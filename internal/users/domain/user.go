package domain

import (
	"errors"
	"regexp"
	"slices"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidUsername  = errors.New("invalid username format")
	ErrUsernameTooShort = errors.New("username must be at least 3 characters")
	ErrUsernameTooLong  = errors.New("username must not exceed 30 characters")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrEmptyExternalID  = errors.New("external ID cannot be empty")
	ErrInvalidRole      = errors.New("invalid role")
	ErrRoleUnchanged    = errors.New("user already has this role")
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Role is the coarse access level of a user.
type Role string

const (
	RoleVisitor   Role = "visitor"
	RoleVolunteer Role = "volunteer"
	RoleAdmin     Role = "admin"
)

// Roles lists every valid role from least to most privileged.
var Roles = []Role{RoleVisitor, RoleVolunteer, RoleAdmin}

// ParseRole validates a role name.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !slices.Contains(Roles, r) {
		return "", ErrInvalidRole
	}
	return r, nil
}

type User struct {
	ID          uuid.UUID
	ExternalID  string // Subject of the identity provider token
	Email       string
	Username    string
	DisplayName string
	Bio         string
	AvatarURL   string
	Role        Role
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewUser creates a visitor account.
func NewUser(externalID, email, username string, now time.Time) (*User, error) {
	if externalID == "" {
		return nil, ErrEmptyExternalID
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}

	return &User{
		ID:         uuid.New(),
		ExternalID: externalID,
		Email:      email,
		Username:   username,
		Role:       RoleVisitor,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// UpdateProfile applies the non-empty fields and returns the names of the
// fields that actually changed.
func (u *User) UpdateProfile(displayName, bio, avatarURL string, now time.Time) []string {
	var changed []string
	if displayName != "" && displayName != u.DisplayName {
		u.DisplayName = displayName
		changed = append(changed, "display_name")
	}
	if bio != "" && bio != u.Bio {
		u.Bio = bio
		changed = append(changed, "bio")
	}
	if avatarURL != "" && avatarURL != u.AvatarURL {
		u.AvatarURL = avatarURL
		changed = append(changed, "avatar_url")
	}
	if len(changed) > 0 {
		u.UpdatedAt = now
	}
	return changed
}

// ChangeRole moves the user to role and returns the previous one.
func (u *User) ChangeRole(role Role, now time.Time) (Role, error) {
	if _, err := ParseRole(string(role)); err != nil {
		return "", err
	}
	if role == u.Role {
		return "", ErrRoleUnchanged
	}
	old := u.Role
	u.Role = role
	u.UpdatedAt = now
	return old, nil
}

func (u *User) RecordLogin(now time.Time) {
	u.LastLoginAt = &now
}

func validateEmail(email string) error {
	if email == "" || !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func validateUsername(username string) error {
	if len(username) < 3 {
		return ErrUsernameTooShort
	}
	if len(username) > 30 {
		return ErrUsernameTooLong
	}
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}
