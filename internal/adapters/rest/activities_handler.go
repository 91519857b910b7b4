package rest

import (
	"net/http"

	"github.com/casira/connect/internal/activities/application"
	"github.com/casira/connect/internal/activities/domain"
	"github.com/casira/connect/internal/activities/ports"
	"github.com/casira/connect/internal/adapters/api"
	"github.com/casira/connect/internal/adapters/rest/middleware"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ActivitiesHandler handles HTTP requests for volunteer activities.
// Permission and ownership checks happen in the service.
type ActivitiesHandler struct {
	*BaseHandler
	service *application.ActivitiesService
}

// NewActivitiesHandler creates a new activities handler
func NewActivitiesHandler(base *BaseHandler, service *application.ActivitiesService) *ActivitiesHandler {
	return &ActivitiesHandler{
		BaseHandler: base,
		service:     service,
	}
}

// ListActivities is public
func (h *ActivitiesHandler) ListActivities(w http.ResponseWriter, r *http.Request, params api.ListActivitiesParams) {
	filter := ports.ListFilter{
		CreatorID: params.CreatorId,
		Tag:       deref(params.Tag),
		Search:    deref(params.Search),
	}
	filter.Limit, filter.Offset = page(params.Limit, params.Offset)

	if params.Status != nil {
		status, err := domain.ParseStatus(*params.Status)
		if err != nil {
			h.WriteJSONError(w, r, middleware.ErrorCodeValidationError, "Invalid status", http.StatusBadRequest)
			return
		}
		filter.Status = &status
	}
	if params.Priority != nil {
		priority, err := domain.ParsePriority(*params.Priority)
		if err != nil {
			h.WriteJSONError(w, r, middleware.ErrorCodeValidationError, "Invalid priority", http.StatusBadRequest)
			return
		}
		filter.Priority = &priority
	}

	activities, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	response := api.ActivityList{Activities: make([]api.Activity, 0, len(activities)), Total: total}
	for _, a := range activities {
		response.Activities = append(response.Activities, domainActivityToAPI(a))
	}
	h.WriteJSONResponse(w, r, response, http.StatusOK)
}

func (h *ActivitiesHandler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req api.ActivityRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	activity, err := h.service.Create(r.Context(), h.GetUserIDFromContext(r), activityDetails(req))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, domainActivityToAPI(activity), http.StatusCreated)
}

// GetActivity is public
func (h *ActivitiesHandler) GetActivity(w http.ResponseWriter, r *http.Request, id openapi_types.UUID) {
	activity, err := h.service.Get(r.Context(), uuid.UUID(id))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, domainActivityToAPI(activity), http.StatusOK)
}

func (h *ActivitiesHandler) UpdateActivity(w http.ResponseWriter, r *http.Request, id openapi_types.UUID) {
	var req api.ActivityRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	activity, err := h.service.Update(r.Context(), h.GetUserIDFromContext(r), uuid.UUID(id), activityDetails(req))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, domainActivityToAPI(activity), http.StatusOK)
}

func (h *ActivitiesHandler) DeleteActivity(w http.ResponseWriter, r *http.Request, id openapi_types.UUID) {
	if err := h.service.Delete(r.Context(), h.GetUserIDFromContext(r), uuid.UUID(id)); err != nil {
		h.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ActivitiesHandler) ChangeActivityStatus(w http.ResponseWriter, r *http.Request, id openapi_types.UUID) {
	var req api.ChangeStatusRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	activity, err := h.service.ChangeStatus(r.Context(), h.GetUserIDFromContext(r), uuid.UUID(id), req.Status)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, domainActivityToAPI(activity), http.StatusOK)
}

func (h *ActivitiesHandler) ListVolunteers(w http.ResponseWriter, r *http.Request, id openapi_types.UUID) {
	volunteers, err := h.service.ListVolunteers(r.Context(), h.GetUserIDFromContext(r), uuid.UUID(id))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	response := make([]api.Volunteer, 0, len(volunteers))
	for _, v := range volunteers {
		response = append(response, api.Volunteer{UserId: v.UserID, Username: v.Username, JoinedAt: v.JoinedAt})
	}
	h.WriteJSONResponse(w, r, response, http.StatusOK)
}

func (h *ActivitiesHandler) JoinActivity(w http.ResponseWriter, r *http.Request, id openapi_types.UUID) {
	activity, err := h.service.Join(r.Context(), h.GetUserIDFromContext(r), uuid.UUID(id))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, domainActivityToAPI(activity), http.StatusOK)
}

func (h *ActivitiesHandler) LeaveActivity(w http.ResponseWriter, r *http.Request, id openapi_types.UUID) {
	activity, err := h.service.Leave(r.Context(), h.GetUserIDFromContext(r), uuid.UUID(id))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, domainActivityToAPI(activity), http.StatusOK)
}

func activityDetails(req api.ActivityRequest) domain.Details {
	return domain.Details{
		Title:         req.Title,
		Description:   deref(req.Description),
		Location:      deref(req.Location),
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		MaxVolunteers: req.MaxVolunteers,
		Priority:      deref(req.Priority),
		Tags:          deref(req.Tags),
	}
}

func domainActivityToAPI(a *domain.Activity) api.Activity {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	return api.Activity{
		Id:                a.ID,
		Title:             a.Title,
		Slug:              a.Slug,
		Description:       optional(a.Description),
		Location:          optional(a.Location),
		CreatorId:         a.CreatorID,
		StartDate:         a.StartDate,
		EndDate:           a.EndDate,
		MaxVolunteers:     a.MaxVolunteers,
		CurrentVolunteers: a.CurrentVolunteers,
		Status:            string(a.Status),
		Priority:          string(a.Priority),
		Tags:              tags,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}
