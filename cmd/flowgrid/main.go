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

	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"

	app "github.com/flowgrid/engine"
	"github.com/flowgrid/engine/internal/archive"
	"github.com/flowgrid/engine/internal/config"
	"github.com/flowgrid/engine/internal/engine"
	"github.com/flowgrid/engine/internal/server"
	"github.com/flowgrid/engine/internal/store"
	"github.com/flowgrid/engine/pkg/log"
)

type flowgrid struct {
	cfg        *config.Config
	store      *store.Store
	archiver   *archive.Writer
	engine     *engine.Engine
	apiServer  *server.Server
	httpServer *http.Server
	quit       chan os.Signal
}

var (
	ErrConnectStore = errors.New("failed to connect to store")
	ErrOpenArchive  = errors.New("failed to open archive bucket")
	ErrCreateEngine = errors.New("failed to create engine")
	ErrStartEngine  = errors.New("failed to start engine")
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func main() {
	cfg := config.NewDefaultConfig()
	if err := cfg.LoadFromEnv(); err != nil {
		slog.Error("Invalid configuration", log.Error(err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", log.Error(err))
		os.Exit(1)
	}

	s := &flowgrid{
		cfg:  cfg,
		quit: make(chan os.Signal, 1),
	}
	s.setupLogging()

	if err := s.run(); err != nil {
		slog.Error("Failed to start application", log.Error(err))
		os.Exit(1)
	}
}

func (s *flowgrid) run() error {
	if err := s.initializeStore(); err != nil {
		return err
	}

	if err := s.initializeEngine(); err != nil {
		return err
	}
	s.startServer()

	signal.Notify(s.quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(s.quit)
	<-s.quit

	s.shutdown()
	return nil
}

func (s *flowgrid) setupLogging() {
	level, ok := logLevels[s.cfg.LogLevel]
	if !ok {
		level = slog.LevelInfo
	}

	env := os.Getenv("ENV")
	logger := log.NewWithLevel(app.Name, env, app.Version, level)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level)

	slog.Info("Flowgrid Engine starting",
		slog.String("log_level", s.cfg.LogLevel))

	slog.Info("Configuration loaded",
		slog.String("redis_addr", s.cfg.Store.Addr),
		slog.Int("redis_db", s.cfg.Store.DB),
		slog.String("redis_prefix", s.cfg.Store.Prefix),
		slog.String("api_host", s.cfg.APIHost),
		slog.Int("api_port", s.cfg.APIPort),
		slog.Bool("scheduler_enabled", s.cfg.SchedulerEnabled))
}

func (s *flowgrid) initializeStore() error {
	s.store = store.New(s.cfg.Store)
	if err := s.store.Ping(context.Background()); err != nil {
		_ = s.store.Close()
		return fmt.Errorf("%w: %w", ErrConnectStore, err)
	}
	return nil
}

func (s *flowgrid) initializeEngine() error {
	deps := engine.Dependencies{
		Store: s.store,
	}

	if s.cfg.ArchiveBucketURL != "" {
		writer, err := archive.Open(
			context.Background(),
			s.cfg.ArchiveBucketURL, s.cfg.ArchivePrefix,
		)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrOpenArchive, err)
		}
		s.archiver = writer
		deps.Archiver = writer
	}

	eng, err := engine.New(s.cfg, deps)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCreateEngine, err)
	}
	s.engine = eng

	if err := s.engine.Start(context.Background()); err != nil {
		return fmt.Errorf("%w: %w", ErrStartEngine, err)
	}
	return nil
}

func (s *flowgrid) startServer() {
	s.apiServer = server.NewServer(s.engine)
	mux := s.apiServer.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.cfg.APIHost, s.cfg.APIPort),
		Handler: mux,
	}

	go func() {
		slog.Info("HTTP server starting",
			slog.String("addr", s.httpServer.Addr))
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", log.Error(err))
		}
	}()
}

func (s *flowgrid) shutdown() {
	slog.Info("Shutting down")

	ctx, cancel := context.WithTimeout(
		context.Background(), s.cfg.ShutdownTimeout,
	)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", log.Error(err))
	}

	s.apiServer.CloseWebSockets()
	s.engine.Stop()

	_ = s.store.Close()

	slog.Info("Server exited")
}
