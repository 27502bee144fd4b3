package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/bimtodo/internal/config"
	"github.com/rpggio/bimtodo/internal/domain/activity"
	"github.com/rpggio/bimtodo/internal/domain/annotation"
	"github.com/rpggio/bimtodo/internal/feed"
	"github.com/rpggio/bimtodo/internal/mcp"
	"github.com/rpggio/bimtodo/internal/scene"
	"github.com/rpggio/bimtodo/internal/sqlite"
	"github.com/rpggio/bimtodo/internal/transport"
	"github.com/rpggio/bimtodo/internal/view"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport == config.TransportStdio {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, err := newLogFileWriter(cfg.Log.Path, cfg.Log.MaxBytes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer fileWriter.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	viewer := scene.NewViewer(cfg.Camera.Viewpoint())
	annotationSvc := annotation.NewService(viewer, logger)
	defer annotationSvc.Close()

	styles, err := cfg.Highlight.PriorityStyles()
	if err != nil {
		logger.Error("invalid highlight colors", "error", err)
		os.Exit(1)
	}
	policy := annotation.NewHighlightPolicy(viewer.FragmentHighlighter(), cfg.Highlight.Prefix, logger)
	if err := policy.RegisterPriorityStyles(styles); err != nil {
		logger.Error("failed to register highlight styles", "error", err)
		os.Exit(1)
	}

	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), logger)
	stopTracking := activitySvc.Track(ctx, annotationSvc)
	defer stopTracking()

	board := view.NewBoard(ctx, annotationSvc, view.NewWindow("To-dos"), view.NewWindow("Filtered to-dos"), logger)
	defer board.Close()

	annotationSvc.OnCreated(func(a annotation.Annotation) {
		logger.Info("annotation created", "id", a.ID, "priority", a.Priority, "description", a.Description)
	})

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Annotations: annotationSvc,
			Board:       board,
			Highlights:  policy,
			Scene:       viewer,
			Activity:    activitySvc,
		},
		AuthToken:     cfg.Auth.Token,
		TransportMode: cfg.Transport,
		Logger:        logger,
	})

	// Branch based on transport mode
	var runErr error
	if cfg.Transport == config.TransportStdio {
		runErr = runStdioMode(ctx, logger, mcpServer)
	} else {
		hub := feed.NewHub(annotationSvc, logger)
		defer hub.Close()
		runErr = runHTTPMode(ctx, logger, cfg, mcpServer, hub)
	}
	if runErr != nil {
		logger.Error("server error", "error", runErr)
		cancel()
		os.Exit(1)
	}
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport", "auth", "disabled")

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, cfg config.Config, mcpServer *sdkmcp.Server, hub *feed.Hub) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	var auth func(http.Handler) http.Handler
	if cfg.Auth.Token != "" {
		auth = transport.AuthMiddleware(cfg.Auth.Token)
	}
	router := transport.NewServer(transport.Handlers{MCP: mcpHandler, Events: hub}, auth)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "auth", auth != nil)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	hub.Close()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
