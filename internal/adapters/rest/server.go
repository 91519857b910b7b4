package rest

import (
	"github.com/casira/connect/internal/adapters/api"
)

// Server combines all handlers to implement api.ServerInterface
type Server struct {
	*HealthHandler
	*UserHandler
	*ActivitiesHandler
	*PostsHandler
	*NotificationsHandler
	*SystemHandler
}

// NewServer creates a new server that implements api.ServerInterface
func NewServer(
	healthHandler *HealthHandler,
	userHandler *UserHandler,
	activitiesHandler *ActivitiesHandler,
	postsHandler *PostsHandler,
	notificationsHandler *NotificationsHandler,
	systemHandler *SystemHandler,
) api.ServerInterface {
	return &Server{
		HealthHandler:        healthHandler,
		UserHandler:          userHandler,
		ActivitiesHandler:    activitiesHandler,
		PostsHandler:         postsHandler,
		NotificationsHandler: notificationsHandler,
		SystemHandler:        systemHandler,
	}
}

// Ensure Server implements api.ServerInterface
var _ api.ServerInterface = (*Server)(nil)
