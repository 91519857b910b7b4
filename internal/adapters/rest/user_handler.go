package rest

import (
	"net/http"

	"github.com/casira/connect/internal/adapters/api"
	"github.com/casira/connect/internal/adapters/rest/middleware"
	"github.com/casira/connect/internal/users/application"
	"github.com/casira/connect/internal/users/domain"
	"github.com/casira/connect/internal/users/ports"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type UserHandler struct {
	*BaseHandler
	service *application.UserService
}

func NewUserHandler(base *BaseHandler, service *application.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		service:     service,
	}
}

// CreateUser registers the authenticated identity. It runs behind the JWT
// middleware only, since no local profile exists yet.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.GetJWTUserID(r.Context())
	if !ok {
		h.WriteJSONError(w, r, middleware.ErrorCodeUnauthorized, "User ID not found in context", http.StatusUnauthorized)
		return
	}
	email, ok := middleware.GetJWTUserEmail(r.Context())
	if !ok {
		h.WriteJSONError(w, r, middleware.ErrorCodeUnauthorized, "Email not found in context", http.StatusUnauthorized)
		return
	}

	var req api.NewUserRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.Register(r.Context(), application.RegisterParams{
		ExternalID:  subject,
		Email:       email,
		Username:    req.Username,
		DisplayName: deref(req.DisplayName),
		Bio:         deref(req.Bio),
		AvatarURL:   deref(req.AvatarUrl),
	})
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, domainUserToAPI(user), http.StatusCreated)
}

func (h *UserHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetByID(r.Context(), h.GetUserIDFromContext(r))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, domainUserToAPI(user), http.StatusOK)
}

func (h *UserHandler) UpdateCurrentUser(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateProfileRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), application.UpdateProfileParams{
		UserID:      h.GetUserIDFromContext(r),
		DisplayName: deref(req.DisplayName),
		Bio:         deref(req.Bio),
		AvatarURL:   deref(req.AvatarUrl),
	})
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, domainUserToAPI(user), http.StatusOK)
}

// RecordLogin is called by the client right after it obtains a session
func (h *UserHandler) RecordLogin(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.RecordLogin(r.Context(), h.GetUserIDFromContext(r))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, domainUserToAPI(user), http.StatusOK)
}

func (h *UserHandler) RecordLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RecordLogout(r.Context(), h.GetUserIDFromContext(r)); err != nil {
		h.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListUsers is admin-only; the route requires users:read:any
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request, params api.ListUsersParams) {
	filter := ports.ListFilter{Search: deref(params.Search)}
	filter.Limit, filter.Offset = page(params.Limit, params.Offset)
	if params.Role != nil {
		role, err := domain.ParseRole(*params.Role)
		if err != nil {
			h.WriteJSONError(w, r, middleware.ErrorCodeValidationError, "Invalid role", http.StatusBadRequest)
			return
		}
		filter.Role = &role
	}

	users, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	response := api.UserList{Users: make([]api.User, 0, len(users)), Total: total}
	for _, u := range users {
		response.Users = append(response.Users, domainUserToAPI(u))
	}
	h.WriteJSONResponse(w, r, response, http.StatusOK)
}

// ChangeUserRole is admin-only; the route requires users:role:assign
func (h *UserHandler) ChangeUserRole(w http.ResponseWriter, r *http.Request, id openapi_types.UUID) {
	var req api.ChangeRoleRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.ChangeRole(r.Context(), h.GetUserIDFromContext(r), uuid.UUID(id), req.Role)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, domainUserToAPI(user), http.StatusOK)
}

func domainUserToAPI(user *domain.User) api.User {
	return api.User{
		Id:          user.ID,
		Email:       openapi_types.Email(user.Email),
		Username:    user.Username,
		DisplayName: optional(user.DisplayName),
		Bio:         optional(user.Bio),
		AvatarUrl:   optional(user.AvatarURL),
		Role:        string(user.Role),
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}
