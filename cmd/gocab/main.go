package main

import (
	"context"
	"os"

	"github.com/gocab/gocab/config"
	"github.com/gocab/gocab/internal/app"
	"github.com/gocab/gocab/pkg/logger"
)

func main() {
	ctx := context.Background()
	log := logger.New("gocab", logger.LevelDebug)

	cfg, err := config.Load()
	if err != nil {
		log.Error(ctx, "failed to configure application", err)
		os.Exit(1)
	}

	if logger.ValidateLevel(cfg.LogLevel) {
		log = logger.New(cfg.ServiceName, cfg.LogLevel)
	}

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to init application", err)
		os.Exit(1)
	}

	if err := application.Start(ctx); err != nil {
		log.Error(ctx, "failed to run application", err)
		os.Exit(1)
	}
}
