package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/chantierpro/chantierpro/internal/app"
	"github.com/chantierpro/chantierpro/internal/service"
	"github.com/chantierpro/chantierpro/pkg/config"
	applogger "github.com/chantierpro/chantierpro/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.App.Context = ctx

	logger := applogger.NewLogger(cfg.App.LogLevel, cfg.App.Environment == "production")
	logger.Info("Starting scheduler service")

	application, err := app.NewApplication(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application", err)
	}
	defer application.Close()

	schedulerService := service.NewSchedulerService(
		application.Repositories.VillaRepository,
		application.Repositories.TaskRepository,
		application.Repositories.TeamRepository,
		application.Services.StatsService,
		application.Repositories.CacheRepository,
		&cfg.Scheduler,
		logger,
	)

	if err := schedulerService.Start(ctx); err != nil {
		logger.Fatal("Failed to start scheduler service", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Info("Shutting down scheduler service")

	schedulerService.Stop()
	logger.Info("Scheduler service stopped")
}
