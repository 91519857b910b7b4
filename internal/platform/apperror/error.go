package apperror

import (
	"fmt"
	"log/slog"
	"net/http"
)

// AppError carries what the REST layer needs to answer a failed request:
// a coarse Code, the BusinessCode clients switch on, and the HTTP status.
type AppError struct {
	Code         ErrorCode
	BusinessCode BusinessCode
	Message      string
	HTTPStatus   int
	// Details is written to the response "context" field
	Details any
	Inner   error
}

func New(code ErrorCode, bizCode BusinessCode, message string, httpStatus int) *AppError {
	return Wrap(nil, code, bizCode, message, httpStatus)
}

// Wrap is New with an underlying cause kept for errors.Is/As and logs.
func Wrap(inner error, code ErrorCode, bizCode BusinessCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:         code,
		BusinessCode: bizCode,
		Message:      message,
		HTTPStatus:   httpStatus,
		Inner:        inner,
	}
}

func NotFound(bizCode BusinessCode, message string) *AppError {
	return New(CodeNotFound, bizCode, message, http.StatusNotFound)
}

func Validation(bizCode BusinessCode, message string) *AppError {
	return New(CodeValidationFailed, bizCode, message, http.StatusBadRequest)
}

func Conflict(bizCode BusinessCode, message string) *AppError {
	return New(CodeConflict, bizCode, message, http.StatusConflict)
}

func Forbidden(message string) *AppError {
	return New(CodeForbidden, BusinessCodePermissionDenied, message, http.StatusForbidden)
}

// Internal hides inner from clients; HandleError logs it.
func Internal(inner error, message string) *AppError {
	return Wrap(inner, CodeInternalError, BusinessCodeGeneral, message, http.StatusInternalServerError)
}

// WithDetails sets Details in place and returns e for chaining.
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Inner }

// Is matches any AppError with the same Code and BusinessCode, so sentinel
// values work with errors.Is regardless of message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && e.Code == t.Code && e.BusinessCode == t.BusinessCode
}

// LogValue groups the codes under one slog attribute.
func (e *AppError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("code", string(e.Code)),
		slog.String("business_code", string(e.BusinessCode)),
		slog.String("message", e.Message),
		slog.Int("status", e.HTTPStatus),
	}
	if e.Inner != nil {
		attrs = append(attrs, slog.String("cause", e.Inner.Error()))
	}
	return slog.GroupValue(attrs...)
}

// Format prints only the message, except for %+v which adds codes, the cause
// and any details on separate lines.
func (e *AppError) Format(f fmt.State, verb rune) {
	if verb != 'v' || !f.Flag('+') {
		_, _ = fmt.Fprint(f, e.Message)
		return
	}
	_, _ = fmt.Fprintf(f, "Code: %s, BusinessCode: %s, Message: %s, HTTPStatus: %d",
		e.Code, e.BusinessCode, e.Message, e.HTTPStatus)
	if e.Inner != nil {
		_, _ = fmt.Fprintf(f, "\nCaused by: %+v", e.Inner)
	}
	if e.Details != nil {
		_, _ = fmt.Fprintf(f, "\nDetails: %+v", e.Details)
	}
}
