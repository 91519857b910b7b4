package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/casira/connect/internal/adapters/api"
)

// Codes written in the "error" field of middleware rejections
const (
	ErrorCodeUnauthorized        = "unauthorized"
	ErrorCodeForbidden           = "forbidden"
	ErrorCodeNotFound            = "not_found"
	ErrorCodeValidationError     = "validation_error"
	ErrorCodeInvalidToken        = "invalid_token"
	ErrorCodeTokenExpired        = "token_expired"
	ErrorCodeInternalServerError = "internal_server_error"
)

// WriteJSONError rejects a request with the api.Error body shared by all handlers
func WriteJSONError(w http.ResponseWriter, code string, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// headers are already out; nothing useful to do with an encode failure
	_ = json.NewEncoder(w).Encode(api.Error{Error: code, Message: message})
}
