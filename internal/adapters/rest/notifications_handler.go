package rest

import (
	"net/http"

	"github.com/casira/connect/internal/adapters/api"
	"github.com/casira/connect/internal/notifications/application"
	"github.com/casira/connect/internal/notifications/domain"
	"github.com/casira/connect/internal/notifications/ports"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// NotificationsHandler serves the caller's inbox
type NotificationsHandler struct {
	*BaseHandler
	service *application.NotificationsService
}

func NewNotificationsHandler(base *BaseHandler, service *application.NotificationsService) *NotificationsHandler {
	return &NotificationsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// ListNotifications is what the client polls for new notifications
func (h *NotificationsHandler) ListNotifications(w http.ResponseWriter, r *http.Request, params api.ListNotificationsParams) {
	filter := ports.ListFilter{UnreadOnly: deref(params.UnreadOnly)}
	filter.Limit, filter.Offset = page(params.Limit, params.Offset)

	result, err := h.service.ListForUser(r.Context(), h.GetUserIDFromContext(r), filter)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	response := api.NotificationPage{
		Notifications: make([]api.Notification, 0, len(result.Notifications)),
		Total:         result.Total,
		Unread:        result.Unread,
	}
	for _, n := range result.Notifications {
		response.Notifications = append(response.Notifications, domainNotificationToAPI(n))
	}
	h.WriteJSONResponse(w, r, response, http.StatusOK)
}

func (h *NotificationsHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request, id openapi_types.UUID) {
	n, err := h.service.MarkRead(r.Context(), h.GetUserIDFromContext(r), uuid.UUID(id))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, domainNotificationToAPI(n), http.StatusOK)
}

func (h *NotificationsHandler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	updated, err := h.service.MarkAllRead(r.Context(), h.GetUserIDFromContext(r))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, api.MarkAllReadResponse{Updated: updated}, http.StatusOK)
}

func domainNotificationToAPI(n *domain.Notification) api.Notification {
	return api.Notification{
		Id:         n.ID,
		Kind:       string(n.Kind),
		Title:      n.Title,
		Message:    optional(n.Message),
		ResourceId: n.ResourceID,
		Read:       n.Read,
		ReadAt:     n.ReadAt,
		CreatedAt:  n.CreatedAt,
	}
}
