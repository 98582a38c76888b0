package main

import (
	"context"
	"fmt"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/config"
	"github.com/pesio-ai/be-lit-backoffice/internal/common/database"
	"github.com/pesio-ai/be-lit-backoffice/internal/common/logger"
	"github.com/pesio-ai/be-lit-backoffice/internal/repository"
	"github.com/pesio-ai/be-lit-backoffice/internal/repository/memory"
	"github.com/pesio-ai/be-lit-backoffice/internal/repository/postgres"
	"github.com/pesio-ai/be-lit-backoffice/internal/service"
)

// devSecret signs tokens in development when JWT_SECRET is unset.
const devSecret = "development-only-secret"

// app holds what every subcommand needs.
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	db    *database.DB
	store repository.Store
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	log := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Service.Environment,
		ServiceName: cfg.Service.Name,
		Version:     cfg.Service.Version,
	})
	return &app{cfg: cfg, log: log}, nil
}

// openDB connects to PostgreSQL. It fails for the memory provider.
func (a *app) openDB(ctx context.Context) error {
	if a.cfg.Database.Provider != config.ProviderPostgres {
		return fmt.Errorf("provider %q has no database to connect to", a.cfg.Database.Provider)
	}
	db, err := database.New(ctx, database.Config{
		URL:         a.cfg.Database.URL,
		MaxConns:    a.cfg.Database.MaxConns,
		MinConns:    a.cfg.Database.MinConns,
		MaxConnTime: a.cfg.Database.MaxConnTime,
		MaxIdleTime: a.cfg.Database.MaxIdleTime,
		HealthCheck: a.cfg.Database.HealthCheck,
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	a.db = db
	a.log.Info().Msg("Database connection established")
	return nil
}

// openStore selects the configured provider.
func (a *app) openStore(ctx context.Context) error {
	switch a.cfg.Database.Provider {
	case config.ProviderMemory:
		a.store = memory.NewStore()
		a.log.Warn().Msg("Using in-memory store; data is lost on exit")
	default:
		if err := a.openDB(ctx); err != nil {
			return err
		}
		a.store = postgres.NewStore(a.db)
	}
	return a.store.Ping(ctx)
}

func (a *app) authConfig() service.AuthConfig {
	secret := a.cfg.Auth.JWTSecret
	if secret == "" {
		a.log.Warn().Msg("JWT_SECRET not set, using the development secret")
		secret = devSecret
	}
	return service.AuthConfig{
		Secret:   []byte(secret),
		TokenTTL: a.cfg.Auth.TokenTTL,
		Issuer:   a.cfg.Service.Name,
	}
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}
