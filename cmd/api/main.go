package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/chantierpro/chantierpro/internal/api"
	"github.com/chantierpro/chantierpro/internal/app"
	"github.com/chantierpro/chantierpro/pkg/auth"
	"github.com/chantierpro/chantierpro/pkg/config"
	"github.com/chantierpro/chantierpro/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.App.Context = ctx

	log := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment == "production")
	log.Info("Starting API server", map[string]interface{}{
		"app_name": cfg.App.Name,
		"env":      cfg.App.Environment,
	})

	application, err := app.NewApplication(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", err)
	}
	defer application.Close()

	jwtManager := auth.NewJWTManager(&cfg.JWT)

	server := api.NewServer(cfg, log, jwtManager, application.Redis.Client, &api.Services{
		ProjectService:  application.Services.ProjectService,
		VillaService:    application.Services.VillaService,
		CategoryService: application.Services.CategoryService,
		TaskService:     application.Services.TaskService,
		TeamService:     application.Services.TeamService,
		TemplateService: application.Services.TemplateService,
	})

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", err)
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info("Shutting down server...")
	case <-ctx.Done():
		log.Info("Shutting down server due to context cancellation...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", err)
	}

	log.Info("Server gracefully stopped")
}
