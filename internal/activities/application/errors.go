package application

import (
	"errors"
	"net/http"

	"github.com/casira/connect/internal/activities/domain"
	"github.com/casira/connect/internal/platform/apperror"
	"github.com/casira/connect/internal/platform/validator"
)

// Error definitions for service operations
var (
	ErrActivityNotFound = apperror.NotFound(apperror.BusinessCodeActivityNotFound, "activity not found")
	ErrActivityFull     = apperror.Conflict(apperror.BusinessCodeActivityFull, "activity has no volunteer spots left")
	ErrActivityNotOpen  = apperror.Conflict(apperror.BusinessCodeActivityNotOpen, "activity is not accepting volunteers")
	ErrAlreadyVolunteer = apperror.Conflict(apperror.BusinessCodeAlreadyVolunteering, "already volunteering for this activity")
	ErrNotVolunteer     = apperror.Conflict(apperror.BusinessCodeNotVolunteering, "not volunteering for this activity")
	ErrAuthorization    = apperror.New(
		apperror.CodeInternalError,
		apperror.BusinessCodeGeneral,
		"authorization check failed",
		http.StatusInternalServerError,
	)
)

// domainError maps domain validation and state errors to AppErrors.
func domainError(err error) error {
	var fieldErr *validator.FieldError
	switch {
	case errors.As(err, &fieldErr):
		return apperror.Validation(apperror.BusinessCodeInvalidFormat, err.Error()).
			WithDetails(map[string]string{"field": fieldErr.Field})
	case errors.Is(err, domain.ErrInvalidTransition):
		return apperror.Conflict(apperror.BusinessCodeInvalidStatusTransition, err.Error())
	case errors.Is(err, domain.ErrInvalidSchedule):
		return apperror.Validation(apperror.BusinessCodeInvalidSchedule, err.Error())
	case errors.Is(err, domain.ErrFull):
		return ErrActivityFull
	case errors.Is(err, domain.ErrNotOpen):
		return ErrActivityNotOpen
	case errors.Is(err, domain.ErrCapacityBelowVolunteers):
		return apperror.Conflict(apperror.BusinessCodeActivityFull, err.Error())
	default:
		return apperror.Validation(apperror.BusinessCodeInvalidFormat, err.Error())
	}
}
