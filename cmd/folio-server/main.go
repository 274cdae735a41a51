package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/vbonduro/folio/internal/caption"
	claudecaption "github.com/vbonduro/folio/internal/caption/claude"
	ollamacaption "github.com/vbonduro/folio/internal/caption/ollama"
	"github.com/vbonduro/folio/internal/config"
	"github.com/vbonduro/folio/internal/db"
	"github.com/vbonduro/folio/internal/logging"
	"github.com/vbonduro/folio/internal/mediastore/local"
	"github.com/vbonduro/folio/internal/service"
	"github.com/vbonduro/folio/internal/store"
	"github.com/vbonduro/folio/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	mediaStg, err := local.NewLocalMediaStore(cfg.MediaPath)
	if err != nil {
		logger.Error("failed to initialize media store", "error", err)
		return
	}

	svc := service.NewPortfolioService(
		store.NewPortfolioStore(database),
		store.NewSectionStore(database),
		store.NewItemStore(database),
		newCaptioner(cfg, logger),
		mediaStg,
		cfg.MediaURLPrefix,
		logger,
	)
	server := web.NewServer(svc, mediaStg, cfg.MediaURLPrefix, cfg.CORSOrigins, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.HTTPServer(cfg.ListenAddr)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	logger.Info("starting server", "addr", cfg.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
	}
}

// newCaptioner returns nil when captioning is disabled or misconfigured.
func newCaptioner(cfg *config.Config, logger *slog.Logger) caption.Captioner {
	switch cfg.CaptionBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			logger.Error("CLAUDE_API_KEY is required when CAPTION_BACKEND=claude, captions disabled")
			return nil
		}
		logger.Info("using Claude caption backend", "model", cfg.ClaudeModel)
		return claudecaption.NewClaudeCaptioner(cfg.ClaudeAPIKey, cfg.ClaudeModel)
	case "ollama":
		logger.Info("using Ollama caption backend", "model", cfg.OllamaModel)
		return ollamacaption.NewOllamaCaptioner(cfg.OllamaHost, cfg.OllamaModel)
	default:
		logger.Info("captions disabled")
		return nil
	}
}
