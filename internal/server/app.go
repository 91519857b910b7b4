package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	activitiesApp "github.com/casira/connect/internal/activities/application"
	authzApp "github.com/casira/connect/internal/authz/application"
	notificationsApp "github.com/casira/connect/internal/notifications/application"
	"github.com/casira/connect/internal/platform/eventbus"
	"github.com/casira/connect/internal/platform/logger"
	"github.com/casira/connect/internal/platform/seeder"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	server     *http.Server
	seeder     *seeder.Orchestrator
	syncWorker *notificationsApp.SyncWorker
	subscriber *notificationsApp.Subscriber
	listeners  *GlobalListeners
	activities *activitiesApp.ActivitiesService
	authz      *authzApp.AuthzService
	bus        *eventbus.Bus
	logger     logger.Logger
}

func NewApp(
	server *http.Server,
	orchestrator *seeder.Orchestrator,
	syncWorker *notificationsApp.SyncWorker,
	subscriber *notificationsApp.Subscriber,
	listeners *GlobalListeners,
	activities *activitiesApp.ActivitiesService,
	authz *authzApp.AuthzService,
	bus *eventbus.Bus,
	log logger.Logger,
) *App {
	return &App{
		server:     server,
		seeder:     orchestrator,
		syncWorker: syncWorker,
		subscriber: subscriber,
		listeners:  listeners,
		activities: activities,
		authz:      authz,
		bus:        bus,
		logger:     log,
	}
}

// Run serves HTTP and runs the sync worker until ctx is cancelled, SIGINT or
// SIGTERM arrives, or either of them fails. The bus is cleared on the way out.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.seeder.RunAll(ctx); err != nil {
		return multierr.Append(err, a.shutdown())
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info(gctx, "starting server", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return a.syncWorker.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info(context.Background(), "shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to gracefully shutdown server: %w", err)
		}
		return nil
	})

	err := multierr.Append(g.Wait(), a.shutdown())
	a.logger.Info(context.Background(), "server stopped", "error", err)
	return err
}

// shutdown detaches every bus consumer and empties the bus
func (a *App) shutdown() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("shutdown: %v", r)
		}
	}()

	a.subscriber.Close()
	a.listeners.Close()
	a.activities.Close()
	a.authz.Close()

	stats := a.bus.Stats()
	a.bus.Clear()
	a.logger.Info(context.Background(), "event bus cleared",
		"listeners", stats.TotalListeners+stats.TotalOnceListeners+stats.WildcardListeners,
	)
	return nil
}
