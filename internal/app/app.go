package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"tower_backend/internal/config"
	"tower_backend/internal/telemetry"
)

type App struct {
	ServiceProvider *ServiceProvider
}

func NewApp() *App {
	return &App{}
}

func (s *App) initServiceProvider() {
	s.ServiceProvider = newServiceProvider()
}

// Run serves HTTP until SIGINT or SIGTERM, then drains requests and stops
// the janitor.
func (s *App) Run() error {
	envErr := config.Load(".env")
	s.initServiceProvider()
	defer s.ServiceProvider.Close()

	log := s.ServiceProvider.Logger()
	if envErr != nil {
		log.Debug().Err(envErr).Msg(".env not loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, s.ServiceProvider.TelemetryCfg())
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}

	r := s.ServiceProvider.Router(ctx)
	j := s.ServiceProvider.Janitor(ctx)
	j.Start()

	srv := &http.Server{
		Addr:    s.ServiceProvider.HTTPCfg().Address(),
		Handler: r,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("storage", s.ServiceProvider.StorageCfg().Driver()).
			Msg("starting server")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err = <-serveErr:
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ServiceProvider.HTTPCfg().ShutdownTimeout())
	defer cancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Error().Err(shutdownErr).Msg("http shutdown")
	}
	j.Stop(shutdownCtx)
	if tracingErr := shutdownTracing(shutdownCtx); tracingErr != nil {
		log.Error().Err(tracingErr).Msg("tracing shutdown")
	}

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
