package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gocab/gocab/config"
	"github.com/gocab/gocab/internal/adapter/http/handler"
	"github.com/gocab/gocab/internal/adapter/http/middleware"
	"github.com/gocab/gocab/pkg/logger"
	wrap "github.com/gocab/gocab/pkg/logger/wrapper"
)

const serverIPAddress = "%s:%s"

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	log  logger.Logger
}

type handlers struct {
	health *handler.Health
	ride   *handler.Ride
	maps   *handler.Maps
	ws     http.Handler
}

func New(
	cfg config.Config,
	rideService handler.RideService,
	geoService handler.GeoService,
	wsGateway http.Handler,
	log logger.Logger,
) (*API, error) {
	if rideService == nil {
		return nil, errors.New("ride service is required")
	}
	if geoService == nil {
		return nil, errors.New("geo service is required")
	}

	routes := &handlers{
		health: handler.NewHealth(cfg.ServiceName, log),
		ride:   handler.NewRide(rideService, log),
		maps:   handler.NewMaps(geoService, log),
		ws:     wsGateway,
	}

	api := &API{
		mux:    http.NewServeMux(),
		routes: routes,
		m:      middleware.NewMiddleware(cfg.JWT.Secret, log),
		addr:   fmt.Sprintf(serverIPAddress, "0.0.0.0", cfg.Server.Port),
		log:    log,
	}

	api.server = &http.Server{
		Addr:    api.addr,
		Handler: api.withMiddleware(),
	}

	api.setupRoutes()

	return api, nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	return a.m.Recover(a.m.RequestID(a.m.Metrics(a.m.Logging(a.m.Auth(a.mux)))))
}
