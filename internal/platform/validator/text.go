package validator

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrRequired = errors.New("is required")
	ErrTooLong  = errors.New("is too long")
)

// FieldError names the field that failed validation.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// RequiredText trims s and checks it is non-empty and at most maxRunes long.
func RequiredText(field, s string, maxRunes int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &FieldError{Field: field, Err: ErrRequired}
	}
	return OptionalText(field, s, maxRunes)
}

// OptionalText trims s and checks it is at most maxRunes long.
func OptionalText(field, s string, maxRunes int) (string, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > maxRunes {
		return "", &FieldError{Field: field, Err: ErrTooLong}
	}
	return s, nil
}
