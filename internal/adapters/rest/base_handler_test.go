package rest_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/casira/connect/internal/adapters/rest"
	"github.com/casira/connect/internal/adapters/rest/middleware"
	"github.com/casira/connect/internal/platform/apperror"
	"github.com/casira/connect/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   map[string]any
		wantLogged bool
	}{
		{
			name:       "app error keeps its codes",
			err:        apperror.Conflict(apperror.BusinessCodeActivityFull, "activity is full"),
			wantStatus: http.StatusConflict,
			wantBody: map[string]any{
				"error":         "CONFLICT",
				"business_code": "ACTIVITY_FULL",
				"message":       "activity is full",
			},
		},
		{
			name: "details become the context field",
			err: apperror.Validation(apperror.BusinessCodeInvalidFormat, "invalid status").
				WithDetails(map[string]string{"status": "paused"}),
			wantStatus: http.StatusBadRequest,
			wantBody: map[string]any{
				"error":         "VALIDATION_FAILED",
				"business_code": "INVALID_FORMAT",
				"message":       "invalid status",
				"context":       map[string]any{"status": "paused"},
			},
		},
		{
			name:       "wrapped app error is found",
			err:        fmt.Errorf("join: %w", apperror.Forbidden("not allowed")),
			wantStatus: http.StatusForbidden,
			wantBody: map[string]any{
				"error":         "FORBIDDEN",
				"business_code": "PERMISSION_DENIED",
				"message":       "not allowed",
			},
		},
		{
			name:       "internal app error is logged",
			err:        apperror.Internal(errors.New("pool closed"), "failed to load activity"),
			wantStatus: http.StatusInternalServerError,
			wantBody: map[string]any{
				"error":         "INTERNAL_SERVER_ERROR",
				"business_code": "GENERAL",
				"message":       "failed to load activity",
			},
			wantLogged: true,
		},
		{
			name:       "plain error is hidden",
			err:        errors.New("dial tcp: refused"),
			wantStatus: http.StatusInternalServerError,
			wantBody: map[string]any{
				"error":   "INTERNAL_SERVER_ERROR",
				"message": "An unexpected error occurred",
			},
			wantLogged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			h := rest.NewBaseHandler(logger.NewSlogAdapterWithWriter(&logs, "production", "debug"))
			rec := httptest.NewRecorder()

			h.HandleError(rec, httptest.NewRequest(http.MethodPost, "/api/v1/activities", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantBody, decodeBody(t, rec))
			assert.Equal(t, tt.wantLogged, logs.Len() > 0)
		})
	}
}

func TestWriteJSONError(t *testing.T) {
	h := rest.NewBaseHandler(logger.Nop{})
	rec := httptest.NewRecorder()

	h.WriteJSONError(rec, httptest.NewRequest(http.MethodGet, "/", nil), middleware.ErrorCodeNotFound, "Activity not found", http.StatusNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]any{"error": "not_found", "message": "Activity not found"}, decodeBody(t, rec))
}

func TestWriteJSONResponse(t *testing.T) {
	h := rest.NewBaseHandler(logger.Nop{})

	t.Run("encodes data", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.WriteJSONResponse(rec, httptest.NewRequest(http.MethodGet, "/", nil), map[string]int{"total": 3}, http.StatusOK)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"total":3}`, rec.Body.String())
	})

	t.Run("nil data writes no body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.WriteJSONResponse(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil, http.StatusAccepted)

		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Zero(t, rec.Body.Len())
	})
}

func TestDecodeJSON(t *testing.T) {
	h := rest.NewBaseHandler(logger.Nop{})

	tests := []struct {
		name   string
		body   string
		wantOK bool
	}{
		{"valid body", `{"status":"active"}`, true},
		{"malformed body", `{"status":`, false},
		{"empty body", ``, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			var dst struct{ Status string }

			ok := h.DecodeJSON(rec, httptest.NewRequest(http.MethodPut, "/", strings.NewReader(tt.body)), &dst)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, "active", dst.Status)
				return
			}
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "validation_error", decodeBody(t, rec)["error"])
		})
	}
}

func TestGetUserIDFromContext(t *testing.T) {
	h := rest.NewBaseHandler(logger.Nop{})
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Panics(t, func() { h.GetUserIDFromContext(req) })

	req = req.WithContext(middleware.SetUserID(req.Context(), userID))
	assert.Equal(t, userID, h.GetUserIDFromContext(req))
}
