package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/casira/connect/internal/adapters/api"
	"github.com/casira/connect/internal/adapters/rest/middleware"
	"github.com/casira/connect/internal/platform/apperror"
	"github.com/casira/connect/internal/platform/logger"
	"github.com/google/uuid"
)

// Pagination bounds shared by the list endpoints
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// BaseHandler contains common dependencies and helper methods for all handlers
type BaseHandler struct {
	logger logger.Logger
}

// NewBaseHandler creates a new base handler with common dependencies
func NewBaseHandler(logger logger.Logger) *BaseHandler {
	return &BaseHandler{
		logger: logger,
	}
}

// errorResponse is the body written for AppErrors
type errorResponse struct {
	Error        string `json:"error"`
	BusinessCode string `json:"business_code,omitempty"`
	Message      string `json:"message"`
	Context      any    `json:"context,omitempty"`
}

// WriteJSONError writes a JSON error response matching the API error model
func (h *BaseHandler) WriteJSONError(w http.ResponseWriter, r *http.Request, code string, message string, statusCode int) {
	h.writeJSON(w, r, api.Error{Error: code, Message: message}, statusCode)
}

// WriteJSONResponse writes a successful JSON response
func (h *BaseHandler) WriteJSONResponse(w http.ResponseWriter, r *http.Request, data any, statusCode int) {
	h.writeJSON(w, r, data, statusCode)
}

// HandleError maps service errors to HTTP responses. Anything that is not an
// AppError is logged and reported as an internal error.
func (h *BaseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		h.logger.Error(r.Context(), "unhandled error",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
		)
		h.WriteJSONError(w, r, string(apperror.CodeInternalError), "An unexpected error occurred", http.StatusInternalServerError)
		return
	}

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed",
			"error", appErr,
			"cause", appErr.Inner,
			"method", r.Method,
			"path", r.URL.Path,
		)
	}

	h.writeJSON(w, r, errorResponse{
		Error:        string(appErr.Code),
		BusinessCode: string(appErr.BusinessCode),
		Message:      appErr.Message,
		Context:      appErr.Details,
	}, appErr.HTTPStatus)
}

// GetUserIDFromContext returns the authenticated user. Routes that call it
// always sit behind the auth middleware, so a missing ID is a wiring bug.
func (h *BaseHandler) GetUserIDFromContext(r *http.Request) uuid.UUID {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		panic("rest: user ID missing from request context")
	}
	return userID
}

// DecodeJSON reads the request body into dst, writing a 400 response on failure
func (h *BaseHandler) DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.WriteJSONError(w, r, middleware.ErrorCodeValidationError, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func (h *BaseHandler) writeJSON(w http.ResponseWriter, r *http.Request, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error(r.Context(), "failed to encode response",
			"error", err,
			"status_code", statusCode,
		)
	}
}

// page converts optional limit/offset query values, clamping the limit
func page(limit, offset *int) (int, int) {
	l, o := defaultPageSize, 0
	if limit != nil && *limit > 0 {
		l = min(*limit, maxPageSize)
	}
	if offset != nil && *offset > 0 {
		o = *offset
	}
	return l, o
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
