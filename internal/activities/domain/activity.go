package domain

import (
	"errors"
	"slices"
	"time"

	"github.com/casira/connect/internal/platform/validator"
	"github.com/google/uuid"
)

// Business rule constants
const (
	MaxTitleLength       = 150
	MaxSlugLength        = 160
	MaxDescriptionLength = 5000
	MaxLocationLength    = 255
	MaxTags              = 10
)

// Validation and state errors
var (
	ErrInvalidCreatorID        = errors.New("creator ID is required")
	ErrInvalidStatus           = errors.New("status must be draft, active, completed or cancelled")
	ErrInvalidPriority         = errors.New("priority must be low, normal, high or urgent")
	ErrInvalidCapacity         = errors.New("max volunteers must be greater than zero")
	ErrCapacityBelowVolunteers = errors.New("max volunteers cannot be lower than current volunteers")
	ErrInvalidSchedule         = errors.New("start date must be before end date")
	ErrTooManyTags             = errors.New("an activity can have at most 10 tags")
	ErrInvalidTransition       = errors.New("status transition not allowed")
	ErrNotOpen                 = errors.New("activity is not accepting volunteers")
	ErrFull                    = errors.New("activity has no volunteer spots left")
	ErrNoVolunteers            = errors.New("activity has no volunteers to remove")
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// transitions lists the statuses reachable from each status.
var transitions = map[Status][]Status{
	StatusDraft:     {StatusActive, StatusCancelled},
	StatusActive:    {StatusCompleted, StatusCancelled},
	StatusCompleted: nil,
	StatusCancelled: nil,
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := transitions[st]; !ok {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(transitions[s], next)
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func ParsePriority(s string) (Priority, error) {
	switch p := Priority(s); p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return p, nil
	case "":
		return PriorityNormal, nil
	default:
		return "", ErrInvalidPriority
	}
}

// Activity is a volunteer opportunity people can sign up for.
type Activity struct {
	ID                uuid.UUID
	Title             string
	Slug              string
	Description       string
	Location          string
	CreatorID         uuid.UUID
	StartDate         *time.Time
	EndDate           *time.Time
	MaxVolunteers     *int // nil means unlimited
	CurrentVolunteers int
	Status            Status
	Priority          Priority
	Tags              []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Details holds the editable fields of an activity.
type Details struct {
	Title         string
	Description   string
	Location      string
	StartDate     *time.Time
	EndDate       *time.Time
	MaxVolunteers *int
	Priority      string
	Tags          []string
}

// NewActivity creates a draft activity owned by creatorID.
func NewActivity(details Details, creatorID uuid.UUID, now time.Time) (*Activity, error) {
	if creatorID == uuid.Nil {
		return nil, ErrInvalidCreatorID
	}

	a := &Activity{
		ID:        uuid.New(),
		CreatorID: creatorID,
		Status:    StatusDraft,
		CreatedAt: now,
	}
	if err := a.apply(details, now); err != nil {
		return nil, err
	}
	return a, nil
}

// Update replaces the editable fields. The slug follows the title.
func (a *Activity) Update(details Details, now time.Time) error {
	return a.apply(details, now)
}

func (a *Activity) apply(d Details, now time.Time) error {
	title, err := validator.RequiredText("title", d.Title, MaxTitleLength)
	if err != nil {
		return err
	}
	description, err := validator.RequiredText("description", d.Description, MaxDescriptionLength)
	if err != nil {
		return err
	}
	location, err := validator.OptionalText("location", d.Location, MaxLocationLength)
	if err != nil {
		return err
	}
	priority, err := ParsePriority(d.Priority)
	if err != nil {
		return err
	}
	if d.StartDate != nil && d.EndDate != nil && !d.StartDate.Before(*d.EndDate) {
		return ErrInvalidSchedule
	}
	if d.MaxVolunteers != nil {
		if *d.MaxVolunteers < 1 {
			return ErrInvalidCapacity
		}
		if *d.MaxVolunteers < a.CurrentVolunteers {
			return ErrCapacityBelowVolunteers
		}
	}
	if len(d.Tags) > MaxTags {
		return ErrTooManyTags
	}

	a.Title = title
	a.Slug = validator.GenerateSlug(title, MaxSlugLength)
	a.Description = description
	a.Location = location
	a.StartDate = d.StartDate
	a.EndDate = d.EndDate
	a.MaxVolunteers = d.MaxVolunteers
	a.Priority = priority
	a.Tags = normalizeTags(d.Tags)
	a.UpdatedAt = now
	return nil
}

// TransitionTo moves the activity through its lifecycle and returns the
// previous status.
func (a *Activity) TransitionTo(next Status, now time.Time) (Status, error) {
	if !a.Status.CanTransitionTo(next) {
		return "", ErrInvalidTransition
	}
	prev := a.Status
	a.Status = next
	a.UpdatedAt = now
	return prev, nil
}

// CanAcceptVolunteers is true for active activities with spots left.
func (a *Activity) CanAcceptVolunteers() bool {
	return a.Status == StatusActive && a.hasSpots()
}

func (a *Activity) hasSpots() bool {
	return a.MaxVolunteers == nil || a.CurrentVolunteers < *a.MaxVolunteers
}

// AddVolunteer takes one spot.
func (a *Activity) AddVolunteer(now time.Time) error {
	if a.Status != StatusActive {
		return ErrNotOpen
	}
	if !a.hasSpots() {
		return ErrFull
	}
	a.CurrentVolunteers++
	a.UpdatedAt = now
	return nil
}

// RemoveVolunteer frees one spot.
func (a *Activity) RemoveVolunteer(now time.Time) error {
	if a.CurrentVolunteers <= 0 {
		return ErrNoVolunteers
	}
	a.CurrentVolunteers--
	a.UpdatedAt = now
	return nil
}

// SpotsLeft returns nil for unlimited activities.
func (a *Activity) SpotsLeft() *int {
	if a.MaxVolunteers == nil {
		return nil
	}
	left := *a.MaxVolunteers - a.CurrentVolunteers
	return &left
}

// FillPercentage is the rounded share of spots taken, 0 when unlimited.
func (a *Activity) FillPercentage() int {
	if a.MaxVolunteers == nil || *a.MaxVolunteers == 0 {
		return 0
	}
	return (a.CurrentVolunteers*100 + *a.MaxVolunteers/2) / *a.MaxVolunteers
}

// IsUpcoming reports whether an active activity has not started yet.
func (a *Activity) IsUpcoming(now time.Time) bool {
	return a.Status == StatusActive && a.StartDate != nil && a.StartDate.After(now)
}

// IsOngoing reports whether an active activity is running at now.
func (a *Activity) IsOngoing(now time.Time) bool {
	if a.Status != StatusActive || a.StartDate == nil || a.StartDate.After(now) {
		return false
	}
	return a.EndDate == nil || !a.EndDate.Before(now)
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		slug := validator.GenerateSlug(tag, 40)
		if slug != "" && !slices.Contains(out, slug) {
			out = append(out, slug)
		}
	}
	return out
}
