package application

import (
	"errors"
	"net/http"

	"github.com/casira/connect/internal/platform/apperror"
	"github.com/casira/connect/internal/platform/validator"
)

// Error definitions for service operations
var (
	ErrPostNotFound    = apperror.NotFound(apperror.BusinessCodePostNotFound, "post not found")
	ErrCommentNotFound = apperror.NotFound(apperror.BusinessCodeCommentNotFound, "comment not found")
	ErrAlreadyLiked    = apperror.Conflict(apperror.BusinessCodeAlreadyLiked, "post already liked")
	ErrNotLiked        = apperror.Conflict(apperror.BusinessCodeNotLiked, "post not liked")
	ErrAuthorization   = apperror.New(
		apperror.CodeInternalError,
		apperror.BusinessCodeGeneral,
		"authorization check failed",
		http.StatusInternalServerError,
	)
)

// domainError maps post validation errors to AppErrors.
func domainError(err error) error {
	var fieldErr *validator.FieldError
	if !errors.As(err, &fieldErr) {
		return apperror.Validation(apperror.BusinessCodeInvalidFormat, err.Error())
	}

	code := apperror.BusinessCodeInvalidFormat
	switch {
	case errors.Is(err, validator.ErrRequired):
		code = apperror.BusinessCodeEmptyContent
	case errors.Is(err, validator.ErrTooLong):
		code = apperror.BusinessCodeContentTooLong
	}
	return apperror.Validation(code, err.Error()).WithDetails(map[string]string{"field": fieldErr.Field})
}
