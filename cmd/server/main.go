// Bible AI devotional server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/ashureev/bibleai/internal/api"
	"github.com/ashureev/bibleai/internal/bookmark"
	"github.com/ashureev/bibleai/internal/chat"
	"github.com/ashureev/bibleai/internal/completion"
	"github.com/ashureev/bibleai/internal/config"
	"github.com/ashureev/bibleai/internal/middleware"
	"github.com/ashureev/bibleai/internal/onboarding"
	"github.com/ashureev/bibleai/internal/scripture"
	"github.com/ashureev/bibleai/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment(), "db_driver", cfg.DBDriver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize storage.
	repo, err := store.Open(ctx, cfg.DBDriver, cfg.DSN())
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(ctx); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	mirror := store.NewMirror(repo, store.MirrorConfig{
		WriteTimeout: cfg.PersistTimeout,
		OnFailure: func(key string, err error) {
			slog.Error("Persistence failed; in-memory state kept", "key", key, "error", err)
		},
	}, logger)
	keys := store.NewKeys(cfg.StorageNamespace)

	// Scripture dataset.
	var verses *scripture.VerseStore
	if cfg.ScripturePath != "" {
		verses, err = scripture.LoadFile(cfg.ScripturePath)
	} else {
		verses, err = scripture.Default()
	}
	if err != nil {
		slog.Error("Failed to load scripture", "path", cfg.ScripturePath, "error", err)
		os.Exit(1)
	}
	slog.Info("Scripture loaded", "verses", verses.VerseCount())

	// Load stores. Each recovers from corrupt data on its own.
	bookmarks := bookmark.NewStore(repo, mirror, keys.Bookmarks, logger)
	if err := bookmarks.Load(ctx); err != nil {
		slog.Warn("Failed to load bookmarks", "error", err)
	}
	onboard := onboarding.NewStore(repo, keys, logger)
	if err := onboard.Load(ctx); err != nil {
		slog.Warn("Failed to load onboarding state", "error", err)
	}
	sessions := chat.NewSessionStore(repo, mirror, keys.Chats, logger)
	if err := sessions.Load(ctx); err != nil {
		slog.Warn("Failed to load chat sessions", "error", err)
	}

	// Chat services.
	completer := completion.NewClient(completion.Config{
		APIKey:      cfg.Completion.APIKey,
		BaseURL:     cfg.Completion.BaseURL,
		Model:       cfg.Completion.Model,
		Temperature: cfg.Completion.Temperature,
		Timeout:     cfg.Completion.Timeout,
	}, logger)
	if !completer.Configured() {
		slog.Info("AI features disabled (OPENAI_API_KEY not set)")
	}

	conversationLogger, err := chat.NewConversationLogger(chat.ConversationLogConfig{
		Enabled:       cfg.ConversationLog.Enabled,
		Dir:           cfg.ConversationLog.Dir,
		GlobalEnabled: cfg.ConversationLog.GlobalEnabled,
		GlobalPath:    cfg.ConversationLog.GlobalPath,
		QueueSize:     cfg.ConversationLog.QueueSize,
	}, logger)
	if err != nil {
		slog.Error("Failed to initialize conversation logger", "error", err)
		os.Exit(1)
	}
	chatService := chat.NewService(sessions, completer, conversationLogger, chat.ServiceConfig{
		MaxTokens: cfg.Completion.MaxTokens,
	}, logger)

	// Initialize handlers.
	handler := api.NewHandler(verses, bookmarks, onboard, chatService, completer.Configured())
	healthHandler := api.NewHealthHandler(repo, mirror)
	wsHandler := api.NewChatSocket(chatService, cfg.FrontendURL, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS(middleware.Origins(cfg.FrontendURL, cfg.IsDevelopment())))

	healthHandler.RegisterHealth(r)
	handler.RegisterRoutes(r)

	// WebSocket endpoint.
	r.Get("/ws/chat", wsHandler.ServeHTTP)

	// Chat turns wait on the completion service, bounded by COMPLETION_TIMEOUT.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2*cfg.Completion.Timeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start gRPC health.
	grpcDone := make(chan struct{})
	if cfg.GRPCPort != "" {
		grpcHealth, err := api.NewGRPCHealth(":"+cfg.GRPCPort, repo)
		if err != nil {
			slog.Error("Failed to start gRPC health server", "error", err)
			os.Exit(1)
		}
		go func() {
			defer close(grpcDone)
			slog.Info("gRPC health listening", "addr", grpcHealth.Addr())
			if err := grpcHealth.Serve(ctx); err != nil {
				slog.Error("gRPC health server failed", "error", err)
			}
		}()
	} else {
		close(grpcDone)
	}

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	<-grpcDone

	if err := mirror.Close(shutdownCtx); err != nil {
		slog.Error("Pending writes were not flushed", "error", err)
	}
	if err := conversationLogger.Close(); err != nil {
		slog.Warn("Failed to close conversation logger", "error", err)
	}

	slog.Info("Server stopped successfully")
}
