package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/km-arc/go-force/app"
	forceapp "github.com/km-arc/go-force/framework/app"
)

func main() {
	application, err := forceapp.New() // loads .env and application.yaml
	if err != nil {
		zap.NewExample().Fatal("configuration failed", zap.Error(err))
	}
	logger := application.Logger
	defer logger.Sync() //nolint:errcheck

	if err := application.Register(&app.CatalogueServiceProvider{DB: application.Config.DB}); err != nil {
		logger.Fatal("registering providers failed", zap.Error(err))
	}
	if err := application.Boot(); err != nil {
		logger.Fatal("boot failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
