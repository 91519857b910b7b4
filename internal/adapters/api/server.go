package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Liveness probe
	// (GET /health/live)
	GetLiveness(w http.ResponseWriter, r *http.Request)
	// Readiness probe
	// (GET /health/ready)
	GetReadiness(w http.ResponseWriter, r *http.Request)

	// List users
	// (GET /users)
	ListUsers(w http.ResponseWriter, r *http.Request, params ListUsersParams)
	// Register the authenticated identity
	// (POST /users)
	CreateUser(w http.ResponseWriter, r *http.Request)
	// (GET /users/me)
	GetCurrentUser(w http.ResponseWriter, r *http.Request)
	// (PUT /users/me)
	UpdateCurrentUser(w http.ResponseWriter, r *http.Request)
	// (POST /users/me/login)
	RecordLogin(w http.ResponseWriter, r *http.Request)
	// (POST /users/me/logout)
	RecordLogout(w http.ResponseWriter, r *http.Request)
	// Change a user's role
	// (PUT /users/{id}/role)
	ChangeUserRole(w http.ResponseWriter, r *http.Request, id openapi_types.UUID)

	// (GET /activities)
	ListActivities(w http.ResponseWriter, r *http.Request, params ListActivitiesParams)
	// (POST /activities)
	CreateActivity(w http.ResponseWriter, r *http.Request)
	// (GET /activities/{id})
	GetActivity(w http.ResponseWriter, r *http.Request, id openapi_types.UUID)
	// (PUT /activities/{id})
	UpdateActivity(w http.ResponseWriter, r *http.Request, id openapi_types.UUID)
	// (DELETE /activities/{id})
	DeleteActivity(w http.ResponseWriter, r *http.Request, id openapi_types.UUID)
	// (PUT /activities/{id}/status)
	ChangeActivityStatus(w http.ResponseWriter, r *http.Request, id openapi_types.UUID)
	// (GET /activities/{id}/volunteers)
	ListVolunteers(w http.ResponseWriter, r *http.Request, id openapi_types.UUID)
	// (POST /activities/{id}/volunteers)
	JoinActivity(w http.ResponseWriter, r *http.Request, id openapi_types.UUID)
	// (DELETE /activities/{id}/volunteers)
	LeaveActivity(w http.ResponseWriter, r *http.Request, id openapi_types.UUID)

	// (GET /posts)
	ListPosts(w http.ResponseWriter, r *http.Request, params ListPostsParams)
	// (POST /posts)
	CreatePost(w http.ResponseWriter, r *http.Request)
	// (GET /posts/{id})
	GetPost(w http.ResponseWriter, r *http.Request, id openapi_types.UUID)
	// (DELETE /posts/{id})
	DeletePost(w http.ResponseWriter, r *http.Request, id openapi_types.UUID)
	// (POST /posts/{id}/likes)
	LikePost(w http.ResponseWriter, r *http.Request, id openapi_types.UUID)
	// (DELETE /posts/{id}/likes)
	UnlikePost(w http.ResponseWriter, r *http.Request, id openapi_types.UUID)
	// (GET /posts/{id}/comments)
	ListComments(w http.ResponseWriter, r *http.Request, id openapi_types.UUID, params ListCommentsParams)
	// (POST /posts/{id}/comments)
	CreateComment(w http.ResponseWriter, r *http.Request, id openapi_types.UUID)
	// (DELETE /comments/{id})
	DeleteComment(w http.ResponseWriter, r *http.Request, id openapi_types.UUID)

	// (GET /notifications)
	ListNotifications(w http.ResponseWriter, r *http.Request, params ListNotificationsParams)
	// (POST /notifications/read-all)
	MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request)
	// (POST /notifications/{id}/read)
	MarkNotificationRead(w http.ResponseWriter, r *http.Request, id openapi_types.UUID)

	// (GET /system/eventbus)
	GetEventBusStats(w http.ResponseWriter, r *http.Request)
	// (PUT /system/eventbus/debug)
	SetEventBusDebug(w http.ResponseWriter, r *http.Request)
	// (POST /system/cache/invalidate)
	InvalidateCache(w http.ResponseWriter, r *http.Request)
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

type MiddlewareFunc func(http.Handler) http.Handler

// serve runs the operation behind the per-route middlewares.
func (siw *ServerInterfaceWrapper) serve(w http.ResponseWriter, r *http.Request, op http.HandlerFunc) {
	handler := http.Handler(op)
	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}
	handler.ServeHTTP(w, r)
}

// pathID binds the {id} path parameter.
func (siw *ServerInterfaceWrapper) pathID(w http.ResponseWriter, r *http.Request) (openapi_types.UUID, bool) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "id", Err: err})
		return id, false
	}
	return id, true
}

// query binds one optional form-style query parameter.
func (siw *ServerInterfaceWrapper) query(w http.ResponseWriter, r *http.Request, name string, dest any) bool {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return false
	}
	return true
}

// GetLiveness operation middleware
func (siw *ServerInterfaceWrapper) GetLiveness(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.GetLiveness)
}

// GetReadiness operation middleware
func (siw *ServerInterfaceWrapper) GetReadiness(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.GetReadiness)
}

// ListUsers operation middleware
func (siw *ServerInterfaceWrapper) ListUsers(w http.ResponseWriter, r *http.Request) {
	var params ListUsersParams
	if !siw.query(w, r, "role", &params.Role) ||
		!siw.query(w, r, "search", &params.Search) ||
		!siw.query(w, r, "limit", &params.Limit) ||
		!siw.query(w, r, "offset", &params.Offset) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ListUsers(w, r, params)
	})
}

// CreateUser operation middleware
func (siw *ServerInterfaceWrapper) CreateUser(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.CreateUser)
}

// GetCurrentUser operation middleware
func (siw *ServerInterfaceWrapper) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.GetCurrentUser)
}

// UpdateCurrentUser operation middleware
func (siw *ServerInterfaceWrapper) UpdateCurrentUser(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.UpdateCurrentUser)
}

// RecordLogin operation middleware
func (siw *ServerInterfaceWrapper) RecordLogin(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.RecordLogin)
}

// RecordLogout operation middleware
func (siw *ServerInterfaceWrapper) RecordLogout(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.RecordLogout)
}

// ChangeUserRole operation middleware
func (siw *ServerInterfaceWrapper) ChangeUserRole(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.pathID(w, r)
	if !ok {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ChangeUserRole(w, r, id)
	})
}

// ListActivities operation middleware
func (siw *ServerInterfaceWrapper) ListActivities(w http.ResponseWriter, r *http.Request) {
	var params ListActivitiesParams
	if !siw.query(w, r, "status", &params.Status) ||
		!siw.query(w, r, "priority", &params.Priority) ||
		!siw.query(w, r, "creatorId", &params.CreatorId) ||
		!siw.query(w, r, "tag", &params.Tag) ||
		!siw.query(w, r, "search", &params.Search) ||
		!siw.query(w, r, "limit", &params.Limit) ||
		!siw.query(w, r, "offset", &params.Offset) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ListActivities(w, r, params)
	})
}

// CreateActivity operation middleware
func (siw *ServerInterfaceWrapper) CreateActivity(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.CreateActivity)
}

// withID binds {id} and serves an operation taking it.
func (siw *ServerInterfaceWrapper) withID(w http.ResponseWriter, r *http.Request, op func(http.ResponseWriter, *http.Request, openapi_types.UUID)) {
	id, ok := siw.pathID(w, r)
	if !ok {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		op(w, r, id)
	})
}

// GetActivity operation middleware
func (siw *ServerInterfaceWrapper) GetActivity(w http.ResponseWriter, r *http.Request) {
	siw.withID(w, r, siw.Handler.GetActivity)
}

// UpdateActivity operation middleware
func (siw *ServerInterfaceWrapper) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	siw.withID(w, r, siw.Handler.UpdateActivity)
}

// DeleteActivity operation middleware
func (siw *ServerInterfaceWrapper) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	siw.withID(w, r, siw.Handler.DeleteActivity)
}

// ChangeActivityStatus operation middleware
func (siw *ServerInterfaceWrapper) ChangeActivityStatus(w http.ResponseWriter, r *http.Request) {
	siw.withID(w, r, siw.Handler.ChangeActivityStatus)
}

// ListVolunteers operation middleware
func (siw *ServerInterfaceWrapper) ListVolunteers(w http.ResponseWriter, r *http.Request) {
	siw.withID(w, r, siw.Handler.ListVolunteers)
}

// JoinActivity operation middleware
func (siw *ServerInterfaceWrapper) JoinActivity(w http.ResponseWriter, r *http.Request) {
	siw.withID(w, r, siw.Handler.JoinActivity)
}

// LeaveActivity operation middleware
func (siw *ServerInterfaceWrapper) LeaveActivity(w http.ResponseWriter, r *http.Request) {
	siw.withID(w, r, siw.Handler.LeaveActivity)
}

// ListPosts operation middleware
func (siw *ServerInterfaceWrapper) ListPosts(w http.ResponseWriter, r *http.Request) {
	var params ListPostsParams
	if !siw.query(w, r, "activityId", &params.ActivityId) ||
		!siw.query(w, r, "authorId", &params.AuthorId) ||
		!siw.query(w, r, "type", &params.Type) ||
		!siw.query(w, r, "limit", &params.Limit) ||
		!siw.query(w, r, "offset", &params.Offset) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ListPosts(w, r, params)
	})
}

// CreatePost operation middleware
func (siw *ServerInterfaceWrapper) CreatePost(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.CreatePost)
}

// GetPost operation middleware
func (siw *ServerInterfaceWrapper) GetPost(w http.ResponseWriter, r *http.Request) {
	siw.withID(w, r, siw.Handler.GetPost)
}

// DeletePost operation middleware
func (siw *ServerInterfaceWrapper) DeletePost(w http.ResponseWriter, r *http.Request) {
	siw.withID(w, r, siw.Handler.DeletePost)
}

// LikePost operation middleware
func (siw *ServerInterfaceWrapper) LikePost(w http.ResponseWriter, r *http.Request) {
	siw.withID(w, r, siw.Handler.LikePost)
}

// UnlikePost operation middleware
func (siw *ServerInterfaceWrapper) UnlikePost(w http.ResponseWriter, r *http.Request) {
	siw.withID(w, r, siw.Handler.UnlikePost)
}

// ListComments operation middleware
func (siw *ServerInterfaceWrapper) ListComments(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.pathID(w, r)
	if !ok {
		return
	}
	var params ListCommentsParams
	if !siw.query(w, r, "limit", &params.Limit) || !siw.query(w, r, "offset", &params.Offset) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ListComments(w, r, id, params)
	})
}

// CreateComment operation middleware
func (siw *ServerInterfaceWrapper) CreateComment(w http.ResponseWriter, r *http.Request) {
	siw.withID(w, r, siw.Handler.CreateComment)
}

// DeleteComment operation middleware
func (siw *ServerInterfaceWrapper) DeleteComment(w http.ResponseWriter, r *http.Request) {
	siw.withID(w, r, siw.Handler.DeleteComment)
}

// ListNotifications operation middleware
func (siw *ServerInterfaceWrapper) ListNotifications(w http.ResponseWriter, r *http.Request) {
	var params ListNotificationsParams
	if !siw.query(w, r, "unreadOnly", &params.UnreadOnly) ||
		!siw.query(w, r, "limit", &params.Limit) ||
		!siw.query(w, r, "offset", &params.Offset) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ListNotifications(w, r, params)
	})
}

// MarkAllNotificationsRead operation middleware
func (siw *ServerInterfaceWrapper) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.MarkAllNotificationsRead)
}

// MarkNotificationRead operation middleware
func (siw *ServerInterfaceWrapper) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	siw.withID(w, r, siw.Handler.MarkNotificationRead)
}

// GetEventBusStats operation middleware
func (siw *ServerInterfaceWrapper) GetEventBusStats(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.GetEventBusStats)
}

// SetEventBusDebug operation middleware
func (siw *ServerInterfaceWrapper) SetEventBusDebug(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.SetEventBusDebug)
}

// InvalidateCache operation middleware
func (siw *ServerInterfaceWrapper) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.InvalidateCache)
}

type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

// Handler creates http.Handler with routing matching OpenAPI spec.
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerWithOptions creates http.Handler with additional options
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}
	base := options.BaseURL

	r.Group(func(r chi.Router) {
		r.Get(base+"/health/live", wrapper.GetLiveness)
		r.Get(base+"/health/ready", wrapper.GetReadiness)

		r.Get(base+"/users", wrapper.ListUsers)
		r.Post(base+"/users", wrapper.CreateUser)
		r.Get(base+"/users/me", wrapper.GetCurrentUser)
		r.Put(base+"/users/me", wrapper.UpdateCurrentUser)
		r.Post(base+"/users/me/login", wrapper.RecordLogin)
		r.Post(base+"/users/me/logout", wrapper.RecordLogout)
		r.Put(base+"/users/{id}/role", wrapper.ChangeUserRole)

		r.Get(base+"/activities", wrapper.ListActivities)
		r.Post(base+"/activities", wrapper.CreateActivity)
		r.Get(base+"/activities/{id}", wrapper.GetActivity)
		r.Put(base+"/activities/{id}", wrapper.UpdateActivity)
		r.Delete(base+"/activities/{id}", wrapper.DeleteActivity)
		r.Put(base+"/activities/{id}/status", wrapper.ChangeActivityStatus)
		r.Get(base+"/activities/{id}/volunteers", wrapper.ListVolunteers)
		r.Post(base+"/activities/{id}/volunteers", wrapper.JoinActivity)
		r.Delete(base+"/activities/{id}/volunteers", wrapper.LeaveActivity)

		r.Get(base+"/posts", wrapper.ListPosts)
		r.Post(base+"/posts", wrapper.CreatePost)
		r.Get(base+"/posts/{id}", wrapper.GetPost)
		r.Delete(base+"/posts/{id}", wrapper.DeletePost)
		r.Post(base+"/posts/{id}/likes", wrapper.LikePost)
		r.Delete(base+"/posts/{id}/likes", wrapper.UnlikePost)
		r.Get(base+"/posts/{id}/comments", wrapper.ListComments)
		r.Post(base+"/posts/{id}/comments", wrapper.CreateComment)
		r.Delete(base+"/comments/{id}", wrapper.DeleteComment)

		r.Get(base+"/notifications", wrapper.ListNotifications)
		r.Post(base+"/notifications/read-all", wrapper.MarkAllNotificationsRead)
		r.Post(base+"/notifications/{id}/read", wrapper.MarkNotificationRead)

		r.Get(base+"/system/eventbus", wrapper.GetEventBusStats)
		r.Put(base+"/system/eventbus/debug", wrapper.SetEventBusDebug)
		r.Post(base+"/system/cache/invalidate", wrapper.InvalidateCache)
	})

	return r
}
