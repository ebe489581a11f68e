package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ucsboard/internal/config"
	"ucsboard/internal/handler"
	"ucsboard/internal/hub"
	"ucsboard/internal/logging"
	"ucsboard/internal/metrics"
	"ucsboard/internal/repository/sqlite"
	"ucsboard/internal/searchclient"
	"ucsboard/internal/service"
	"ucsboard/internal/watcher"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveOptions are the serve-only flag overrides
type serveOptions struct {
	addr      string
	searchURL string
	watch     string
}

func serveCmd(opts *rootOptions) *cobra.Command {
	so := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := opts.loadConfig()
			if err != nil {
				return err
			}
			so.apply(cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if path != "" {
				logger.Info("config loaded", zap.String("path", path))
			}
			logger.Debug("effective configuration", zap.String("summary", cfg.Summary()))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logger)
		},
	}

	cmd.Flags().StringVar(&so.addr, "addr", "", "HTTP listen address")
	cmd.Flags().StringVar(&so.searchURL, "search-url", "", "Base URL of the search service")
	cmd.Flags().StringVar(&so.watch, "watch", "", "Record file to import on every change")
	return cmd
}

func (so *serveOptions) apply(cfg *config.Config) {
	if so.addr != "" {
		cfg.Server.Addr = so.addr
	}
	if so.searchURL != "" {
		cfg.Search.URL = so.searchURL
	}
	if so.watch != "" {
		cfg.Watch.File = so.watch
	}
}

// serve wires every component and blocks until ctx is cancelled
func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("starting ucsboard", zap.String("version", version))

	m := metrics.NewCollector("ucsboard")

	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repo.Close()
	logger.Info("database opened", zap.String("path", cfg.Database.Path))

	client, err := searchclient.New(searchclient.Config{
		URL:         cfg.Search.URL,
		Timeout:     cfg.Search.Timeout.Duration(),
		MaxFailures: cfg.Search.Breaker.MaxFailures,
		OpenTimeout: cfg.Search.Breaker.OpenTimeout.Duration(),
	}, logger, m)
	if err != nil {
		return err
	}

	eventBus := service.NewEventBus()

	sseHub := hub.New(logger)
	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	go sseHub.Run(hubCtx)

	// Connect event bus to SSE hub
	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	defer eventBus.Unsubscribe(eventChan)
	go func() {
		for {
			select {
			case ev := <-eventChan:
				sseHub.BroadcastNamed(string(ev.Type), ev.Payload)
			case <-hubCtx.Done():
				return
			}
		}
	}()

	ws := service.NewWorkspace(repo, client, eventBus, logger, m)

	if cfg.Watch.File != "" {
		if err := watcher.ImportFile(cfg.Watch.File, ws); err != nil {
			logger.Warn("initial import failed", zap.String("path", cfg.Watch.File), zap.Error(err))
		}
		w := watcher.Reimport(cfg.Watch.File, ws, logger)
		go func() {
			if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("watcher stopped", zap.Error(err))
			}
		}()
	}

	router := handler.NewRouter(handler.RouterConfig{
		Handler:        handler.NewWorkspaceHandler(ws, logger),
		Events:         sseHub,
		Metrics:        m,
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	server := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		// SSE streams and searches outlive a short write timeout
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	// SSE clients hold their connections open until the hub stops
	hubCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown error", zap.Error(err))
	}

	logger.Info("server stopped")
	return nil
}
