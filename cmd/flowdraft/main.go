package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	app "github.com/kode4food/flowdraft"
	"github.com/kode4food/flowdraft/internal/config"
	"github.com/kode4food/flowdraft/internal/events"
	"github.com/kode4food/flowdraft/internal/server"
	"github.com/kode4food/flowdraft/internal/store"
	"github.com/kode4food/flowdraft/pkg/log"
)

type flowdraft struct {
	cfg        *config.Config
	store      *store.Store
	hub        *events.Hub
	apiServer  *server.Server
	httpServer *http.Server
	quit       chan os.Signal
}

var ErrOpenStore = errors.New("failed to open workflow store")

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env file", log.Error(err))
	}

	cfg := config.NewDefaultConfig()
	if err := cfg.LoadFromEnv(); err != nil {
		slog.Error("Invalid configuration", log.Error(err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", log.Error(err))
		os.Exit(1)
	}

	s := &flowdraft{
		cfg:  cfg,
		quit: make(chan os.Signal, 1),
	}
	s.setupLogging()

	if err := s.run(); err != nil {
		slog.Error("Failed to start application", log.Error(err))
		os.Exit(1)
	}
}

func (s *flowdraft) run() error {
	if err := s.openStore(context.Background()); err != nil {
		return err
	}
	s.startServer()

	signal.Notify(s.quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(s.quit)
	<-s.quit

	s.shutdown()
	return nil
}

func (s *flowdraft) setupLogging() {
	level, ok := log.ParseLevel(s.cfg.LogLevel)

	logger := log.NewWithLevel(app.Name, s.cfg.Env, app.Version, level)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level)

	if !ok {
		slog.Warn("Unknown log level, using info",
			slog.String("log_level", s.cfg.LogLevel))
	}

	slog.Info("Workflow server starting",
		slog.String("log_level", s.cfg.LogLevel))

	slog.Info("Configuration loaded",
		slog.String("storage", s.cfg.StorageLocation()),
		slog.String("storage_prefix", s.cfg.StoragePrefix),
		slog.String("api_host", s.cfg.APIHost),
		slog.Int("api_port", s.cfg.APIPort))
}

func (s *flowdraft) openStore(ctx context.Context) error {
	var err error
	if s.cfg.StorageURL != "" {
		s.store, err = store.Open(ctx, s.cfg.StorageURL, s.cfg.StoragePrefix)
	} else {
		s.store, err = store.OpenDir(s.cfg.StorageDir, s.cfg.StoragePrefix)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOpenStore, err)
	}

	names, err := s.store.List(ctx)
	if err != nil {
		_ = s.store.Close()
		return fmt.Errorf("%w: %w", ErrOpenStore, err)
	}
	slog.Info("Workflow store opened",
		slog.String("storage", s.cfg.StorageLocation()),
		slog.Int("workflows", len(names)))
	return nil
}

func (s *flowdraft) startServer() {
	s.hub = events.NewHub()
	s.apiServer = server.NewServer(s.cfg, s.store, s.hub)
	router := s.apiServer.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.cfg.APIHost, s.cfg.APIPort),
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server starting",
			slog.String("addr", s.httpServer.Addr))
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", log.Error(err))
			s.quit <- syscall.SIGTERM
		}
	}()
}

func (s *flowdraft) shutdown() {
	slog.Info("Shutting down")

	ctx, cancel := context.WithTimeout(
		context.Background(), s.cfg.ShutdownTimeout,
	)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", log.Error(err))
	}

	s.apiServer.CloseWebSockets()
	s.hub.Close()

	if err := s.store.Close(); err != nil {
		slog.Error("Store shutdown failed", log.Error(err))
	}

	slog.Info("Server exited")
}
