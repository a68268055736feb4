package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gocab/gocab/config"
	"github.com/gocab/gocab/internal/adapter/googlemaps"
	"github.com/gocab/gocab/internal/adapter/http/server"
	repo "github.com/gocab/gocab/internal/adapter/postgres"
	broker "github.com/gocab/gocab/internal/adapter/rabbit"
	"github.com/gocab/gocab/internal/adapter/ws"
	"github.com/gocab/gocab/internal/service/fare"
	"github.com/gocab/gocab/internal/service/presence"
	"github.com/gocab/gocab/internal/service/proximity"
	"github.com/gocab/gocab/internal/service/ride"
	"github.com/gocab/gocab/pkg/logger"
	"github.com/gocab/gocab/pkg/postgres"
	"github.com/gocab/gocab/pkg/rabbit"
	"github.com/gocab/gocab/pkg/trm"
	"github.com/gocab/gocab/pkg/wshub"
)

// App wires every adapter and service together and owns their lifecycle.
type App struct {
	httpServer *server.API
	postgresDB *postgres.DB
	rabbitMQ   *rabbit.RabbitMQ
	hub        *wshub.Hub

	cfg config.Config
	log logger.Logger
}

func New(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	postgresDB, err := postgres.New(ctx, cfg.Postgres)
	if err != nil {
		log.Error(ctx, "Failed to setup database", err)
		return nil, err
	}

	rabbitMQ, err := rabbit.New(ctx, cfg.Rabbit.DSN, log)
	if err != nil {
		log.Error(ctx, "Failed to connect to RabbitMQ", err)
		postgresDB.Pool.Close()
		return nil, err
	}

	rideBroker, err := broker.NewRideBroker(ctx, rabbitMQ, log)
	if err != nil {
		log.Error(ctx, "Failed to setup ride broker", err)
		postgresDB.Pool.Close()
		_ = rabbitMQ.Close(ctx)
		return nil, err
	}

	rideRepo := repo.NewRideRepository(postgresDB)
	riderRepo := repo.NewRiderRepository(postgresDB)
	driverRepo := repo.NewDriverRepository(postgresDB)

	hub := wshub.NewHub(log)
	notifier := ws.NewNotifier(hub, log)

	geoClient := googlemaps.New(cfg.GoogleMaps.APIKey)
	txManager := trm.New(postgresDB.Pool)

	presenceService := presence.NewService(riderRepo, driverRepo, log)
	proximityService := proximity.NewService(driverRepo, log)

	rideService := ride.NewService(
		rideRepo,
		riderRepo,
		geoClient,
		fare.NewCalculator(),
		proximityService,
		notifier,
		rideBroker,
		txManager,
		log,
		ride.Config{
			DispatchRadiusKm: cfg.Ride.DispatchRadiusKm,
			OTPLength:        cfg.Ride.OTPLength,
		},
	)

	gateway := ws.NewGateway(hub, presenceService, log)

	httpServer, err := server.New(cfg, rideService, geoClient, gateway, log)
	if err != nil {
		log.Error(ctx, "Failed to setup http server", err)
		postgresDB.Pool.Close()
		_ = rabbitMQ.Close(ctx)
		return nil, err
	}

	return &App{
		httpServer: httpServer,
		postgresDB: postgresDB,
		rabbitMQ:   rabbitMQ,
		hub:        hub,
		cfg:        cfg,
		log:        log,
	}, nil
}

// Start runs the HTTP server and blocks until a shutdown signal or a fatal
// server error.
func (a *App) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.httpServer.Run(ctx, errCh)
	defer func() {
		a.close(ctx)
		a.log.Info(ctx, "application closed")
	}()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	a.log.Info(ctx, "application started", "service", a.cfg.ServiceName)

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		a.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	}
}

func (a *App) close(ctx context.Context) {
	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			a.log.Warn(ctx, "Failed to gracefully close http server", "error", err.Error())
		}
	}

	if a.hub != nil {
		a.hub.Close()
	}

	if a.rabbitMQ != nil {
		if err := a.rabbitMQ.Close(ctx); err != nil {
			a.log.Warn(ctx, "Failed to gracefully close broker", "error", err.Error())
		}
	}

	if a.postgresDB != nil && a.postgresDB.Pool != nil {
		a.postgresDB.Pool.Close()
	}
}
