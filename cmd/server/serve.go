package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	natsclient "github.com/pesio-ai/be-lit-backoffice/internal/common/nats"
	"github.com/pesio-ai/be-lit-backoffice/internal/events"
	"github.com/pesio-ai/be-lit-backoffice/internal/handler"
	"github.com/pesio-ai/be-lit-backoffice/internal/repository/postgres"
	"github.com/pesio-ai/be-lit-backoffice/internal/service"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and gRPC servers",
	RunE:  runServe,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, serveCmd} {
		c.Flags().BoolVar(&serveMigrate, "migrate", false, "apply pending migrations before serving")
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()
	log := a.log

	log.Info().
		Str("environment", a.cfg.Service.Environment).
		Str("provider", a.cfg.Database.Provider).
		Msg("Starting back office service")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.openStore(ctx); err != nil {
		return err
	}
	if serveMigrate && a.db != nil {
		if _, err := postgres.Migrate(ctx, a.db, log); err != nil {
			return err
		}
	}

	var nc *natsclient.Client
	if a.cfg.NATS.URL != "" {
		nc, err = natsclient.Connect(a.cfg.NATS.URL, a.cfg.Service.Name, log.Logger)
		if err != nil {
			return fmt.Errorf("connect to nats: %w", err)
		}
		defer nc.Close()
	}
	publisher := events.NewPublisher(nc, a.cfg.NATS.SubjectPrefix, log.Logger)

	svc := service.New(a.store, publisher, log, a.authConfig())
	if a.cfg.Auth.Disabled {
		log.Warn().Msg("Authentication is disabled")
	}

	router := handler.NewRouter(handler.NewHTTPHandler(svc, log), handler.RouterConfig{
		AuthDisabled:   a.cfg.Auth.Disabled,
		CORSOrigins:    a.cfg.CORS.Origins,
		RequestTimeout: a.cfg.Server.RequestTimeout,
	})
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}

	grpcServer := handler.NewGRPCServer(log.Logger)
	grpcListener, err := net.Listen("tcp", fmt.Sprintf(":%d", a.cfg.GRPC.Port))
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Int("port", a.cfg.Server.Port).Msg("Starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		log.Info().Int("port", a.cfg.GRPC.Port).Msg("Starting gRPC server")
		grpcServer.SetServing(true)
		return grpcServer.Serve(grpcListener)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.Server.ShutdownTimeout)
		defer cancel()

		grpcServer.Stop()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("HTTP server shutdown failed")
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("Server stopped")
	return nil
}
