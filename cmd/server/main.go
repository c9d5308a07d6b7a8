// Package main is the entry point for the charter availability service.
//
//	@title						Charter Availability API
//	@version					1.0.0
//	@description				Aggregates seat availability and fares from charter operators' reservation portals into one searchable result.
//
//	@contact.name				API Support
//	@contact.url				https://github.com/charter-search/charter-availability/issues
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	// Import generated docs for swagger
	_ "github.com/charter-search/charter-availability/docs"

	// Application layers
	charterhttp "github.com/charter-search/charter-availability/internal/adapter/http"
	"github.com/charter-search/charter-availability/internal/adapter/http/middleware"
	"github.com/charter-search/charter-availability/internal/app"
	"github.com/charter-search/charter-availability/internal/config"
	"github.com/charter-search/charter-availability/internal/infrastructure/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	startupTimeout  = 30 * time.Second
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	startCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	a, err := app.New(startCtx, cfg)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}
	log := a.Logger

	log.Info().
		Str("env", cfg.App.Env).
		Int("port", cfg.Server.Port).
		Str("directory", cfg.Directory.Backend).
		Bool("metrics", cfg.Metrics.Enabled).
		Msg("Configuration loaded")

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Configure server timeouts from config
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	// Setup middleware
	middleware.Setup(e, log)

	// Setup routes
	setupRoutes(e, a)

	// Start server with graceful shutdown
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		log.Info().Str("address", addr).Msg("Starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	gracefulShutdown(e, a, log)
}

// setupRoutes configures the HTTP routes.
func setupRoutes(e *echo.Echo, a *app.App) {
	opts := []charterhttp.HandlerOption{
		charterhttp.WithHandlerLogger(a.Logger),
		charterhttp.WithSessionCount(a.Source.Sessions),
	}
	if a.Metrics != nil {
		opts = append(opts, charterhttp.WithMetricsHandler(a.Metrics.Handler()))
	}

	handler := charterhttp.NewCharterHandler(a.UseCase, opts...)
	charterhttp.RegisterRoutes(e, handler)

	// Swagger documentation endpoint
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}

// gracefulShutdown handles graceful server shutdown on interrupt signals.
// Browser sessions are closed after the server stops accepting searches.
func gracefulShutdown(e *echo.Echo, a *app.App, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	if err := a.Close(ctx); err != nil {
		log.Error().Err(err).Msg("Error releasing resources")
	}

	log.Info().Msg("Server stopped")
}
