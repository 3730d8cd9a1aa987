package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hanbat-ai/hanbatbot/internal/api"
	"github.com/hanbat-ai/hanbatbot/internal/config"
	"github.com/hanbat-ai/hanbatbot/internal/repository"
	"github.com/hanbat-ai/hanbatbot/internal/service"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize chat history database
	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	sessionRepo := repository.NewSessionRepository(db)

	// Build the RAG index up front. A failure here degrades the chatbot
	// instead of killing the process: sessions still work, chat is disabled.
	engine := service.NewEngine(cfg, logger)
	engine.Warmup(context.Background())
	status, warnings := engine.Status(context.Background())
	if status != service.StatusReady {
		logger.Warn("RAG engine not ready, running degraded",
			zap.String("status", status.String()),
			zap.Strings("warnings", warnings),
		)
	}

	chatService := service.NewChatService(cfg, sessionRepo, engine, logger)

	// Setup router
	router := api.SetupRouter(chatService, engine, api.RouterConfig{
		AllowOrigins: []string{"*"},
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting HanbatBot server",
			zap.String("address", cfg.Address()),
			zap.String("rag_status", status.String()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
