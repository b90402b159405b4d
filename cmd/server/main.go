package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"news-agent/internal/adapter/gemini"
	"news-agent/internal/adapter/headlinecache"
	"news-agent/internal/adapter/httpapi"
	"news-agent/internal/adapter/newsapi"
	"news-agent/internal/adapter/repository"
	"news-agent/internal/domain"
	"news-agent/internal/infra"
	"news-agent/internal/infra/config"
	"news-agent/internal/infra/logger"
	"news-agent/internal/usecase"
	"news-agent/internal/worker"
)

func main() {
	// 1. Load Config
	cfg := config.Load()

	// 2. Initialize Logger
	log := logger.New()
	slog.SetDefault(log)

	// 3. Initialize DB
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	dbPool, err := infra.NewPostgresDB(context.Background(), dsn)
	if err != nil {
		log.Error("failed to connect to db", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Initialize Adapters
	articleRepo := repository.NewArticleRepository(dbPool)
	txManager := repository.NewPostgresTransactionManager(dbPool)
	newsClient := newsapi.NewClient(cfg.NewsAPIBaseURL, cfg.NewsAPIKey, cfg.NewsAPITimeout, log)
	embedder := gemini.NewEmbedder(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.EmbeddingModel, cfg.GeminiTimeout, log)
	generator := gemini.NewGenerator(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout, log)
	cache := headlinecache.NewSelector(cfg.RestrictedMode(), cfg.CacheDir, log, nil)

	// 5. Initialize Usecases
	idPolicy := domain.NewArticleIDPolicy()
	searchUsecase := usecase.NewSearchNewsUsecase(articleRepo, embedder)
	headlinesUsecase := usecase.NewHeadlinesUsecase(newsClient, cache, idPolicy)
	chatUsecase := usecase.NewChatUsecase(articleRepo, embedder, generator, cfg.ChatSimilarLimit, cfg.ChatTokenBudget, 0)
	ingestUsecase := usecase.NewIngestArticlesUsecase(
		newsClient,
		embedder,
		articleRepo,
		txManager,
		idPolicy,
		cfg.NewsLanguage,
		cfg.NewsSortBy,
	)

	// 6. Initialize & Start Worker
	if len(cfg.IngestTopics) > 0 || len(cfg.IngestCategories) > 0 {
		ingestWorker := worker.NewIngestWorker(
			ingestUsecase,
			cfg.IngestTopics,
			cfg.IngestCountry,
			cfg.IngestCategories,
			time.Duration(cfg.IngestInterval)*time.Minute,
			log,
		)
		ingestWorker.Start()
		defer func() {
			log.Info("Stopping worker...")
			ingestWorker.Stop()
		}()
	}

	// 7. Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(httpapi.RequestLogging(log))
	e.Use(middleware.Recover())

	// 8. Register Handlers
	handler := httpapi.NewHandler(searchUsecase, headlinesUsecase, chatUsecase, dbPool)
	handler.Register(e)

	// 9. Start Server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Info("Starting server", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()

	// 10. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
}
