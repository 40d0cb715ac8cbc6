// Package server defines the core Server struct that composes the app's main dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - database pool
//
// Commands build one Server, run against it, and shut it down on exit.
package server

import (
	"fmt"

	"github.com/deppfellow/questions/internal/config"
	"github.com/deppfellow/questions/internal/database"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/questions/internal/logger"
)

// Server is the application container that holds shared resources.
type Server struct {
	// Config holds all environment/config values for the app.
	Config *config.Config

	// Logger is the application's main structured logger.
	Logger *zerolog.Logger

	// LoggerService optionally holds the New Relic application instance.
	// If New Relic is disabled, this may exist but contain nil nrApp.
	LoggerService *loggerPkg.LoggerService

	// DB holds the PostgreSQL pool wrapper.
	DB *database.Database
}

// New constructs a Server and connects to the database. The pool is pinged
// before New returns, so an unreachable database fails here.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
	}

	return server, nil
}

// Shutdown closes the database pool and flushes New Relic.
func (s *Server) Shutdown() error {
	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	if s.LoggerService != nil {
		s.LoggerService.Shutdown()
	}

	return nil
}
