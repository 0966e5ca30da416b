package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/armonaut/armonaut/app/web"
	"github.com/armonaut/armonaut/core/config"
	"github.com/armonaut/armonaut/core/logger"
	"github.com/armonaut/armonaut/middleware"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg web.Config
	config.MustLoad(&cfg)

	log := logger.NewFromConfig(cfg.Log,
		logger.WithContextExtractors(middleware.RequestIDExtractor))

	app, err := web.New(ctx, cfg, web.WithLogger(log))
	if err != nil {
		log.Error("Failed to start application", logger.Component("app"), logger.Error(err))
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		log.Error("Application stopped with error", logger.Component("app"), logger.Error(err))
		stop()
		app.Close()
		os.Exit(1)
	}
}
