package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/99minutos/order-tracking/internal/app"
	"github.com/99minutos/order-tracking/internal/pkg/config"
	"github.com/99minutos/order-tracking/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{Service: "order-tracking"})
		l.Error().Err(err).Msg("load config")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "order-tracking",
	})

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("create app")
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		log.Error().Err(err).Msg("run app")
		os.Exit(1)
	}
}
