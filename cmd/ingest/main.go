package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"news-agent/internal/adapter/gemini"
	"news-agent/internal/adapter/newsapi"
	"news-agent/internal/adapter/repository"
	"news-agent/internal/domain"
	"news-agent/internal/infra"
	"news-agent/internal/infra/config"
	"news-agent/internal/infra/logger"
	"news-agent/internal/usecase"
	"news-agent/internal/worker"
)

var (
	fromDate string
	country  string
	category string
	watch    bool
)

type pipeline struct {
	ingest usecase.IngestArticlesUsecase
	repo   domain.ArticleRepository
	cfg    *config.Config
	log    *slog.Logger
	close  func()
}

func newPipeline(ctx context.Context) (*pipeline, error) {
	cfg := config.Load()
	log := logger.New()
	slog.SetDefault(log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	dbPool, err := infra.NewPostgresDB(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	newsClient := newsapi.NewClient(cfg.NewsAPIBaseURL, cfg.NewsAPIKey, cfg.NewsAPITimeout, log)
	embedder := gemini.NewEmbedder(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.EmbeddingModel, cfg.GeminiTimeout, log)
	repo := repository.NewArticleRepository(dbPool)
	ingest := usecase.NewIngestArticlesUsecase(
		newsClient,
		embedder,
		repo,
		repository.NewPostgresTransactionManager(dbPool),
		domain.NewArticleIDPolicy(),
		cfg.NewsLanguage,
		cfg.NewsSortBy,
	)

	return &pipeline{ingest: ingest, repo: repo, cfg: cfg, log: log, close: dbPool.Close}, nil
}

var rootCmd = &cobra.Command{
	Use:           "ingest",
	Short:         "News ingestion pipeline",
	Long:          "Fetches articles from the news provider, embeds them and upserts them into the vector store.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var topicCmd = &cobra.Command{
	Use:   "topic <topic>",
	Short: "Ingest articles matching a search topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(cmd.Context())
		if err != nil {
			return err
		}
		defer p.close()

		result, err := p.ingest.ProcessTopic(cmd.Context(), args[0], fromDate)
		if err != nil {
			return err
		}
		printResult(result)
		return nil
	},
}

var headlinesCmd = &cobra.Command{
	Use:   "headlines",
	Short: "Ingest current top headlines",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(cmd.Context())
		if err != nil {
			return err
		}
		defer p.close()

		result, err := p.ingest.ProcessHeadlines(cmd.Context(), country, category)
		if err != nil {
			return err
		}
		printResult(result)
		return nil
	},
}

var domainCmd = &cobra.Command{
	Use:   "domain <domain>",
	Short: "Ingest articles from a specific publisher domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(cmd.Context())
		if err != nil {
			return err
		}
		defer p.close()

		result, err := p.ingest.ProcessDomain(cmd.Context(), args[0], fromDate)
		if err != nil {
			return err
		}
		printResult(result)
		return nil
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch [topic ...]",
	Short: "Ingest multiple topics, or run the configured schedule with --watch",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(cmd.Context())
		if err != nil {
			return err
		}
		defer p.close()

		topics := args
		if len(topics) == 0 {
			topics = p.cfg.IngestTopics
		}

		if watch {
			w := worker.NewIngestWorker(
				p.ingest,
				topics,
				p.cfg.IngestCountry,
				p.cfg.IngestCategories,
				time.Duration(p.cfg.IngestInterval)*time.Minute,
				p.log,
			)
			w.Start()
			defer w.Stop()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit
			return nil
		}

		if len(topics) == 0 {
			return fmt.Errorf("no topics given and INGEST_TOPICS is not set")
		}

		batch, err := p.ingest.ProcessBatch(cmd.Context(), topics, fromDate)
		if err != nil {
			return err
		}
		fmt.Printf("Batch complete. Topics: %d, Processed: %d, Failed: %d\n",
			batch.TopicsProcessed, batch.TotalProcessed, batch.TotalFailed)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <article-id>",
	Short: "Remove a single article from the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(cmd.Context())
		if err != nil {
			return err
		}
		defer p.close()

		if err := p.repo.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted article %s\n", args[0])
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pipeline status",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(cmd.Context())
		if err != nil {
			return err
		}
		defer p.close()

		status, err := p.ingest.Status(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Articles stored: %d\n", status.ArticleCount)
		fmt.Printf("Embedding model: %s\n", status.EncoderModel)
		return nil
	},
}

func printResult(r *usecase.IngestResult) {
	fmt.Printf("Source: %s\n", r.SourceType)
	fmt.Printf("Fetched: %d, Processed: %d, Failed: %d\n",
		r.ArticlesFetched, r.ArticlesProcessed, r.ArticlesFailed)
}

func init() {
	topicCmd.Flags().StringVar(&fromDate, "from", "", "earliest publish date (YYYY-MM-DD)")
	domainCmd.Flags().StringVar(&fromDate, "from", "", "earliest publish date (YYYY-MM-DD)")
	batchCmd.Flags().StringVar(&fromDate, "from", "", "earliest publish date (YYYY-MM-DD)")
	headlinesCmd.Flags().StringVar(&country, "country", "us", "two-letter country code")
	headlinesCmd.Flags().StringVar(&category, "category", "", "headline category")
	batchCmd.Flags().BoolVar(&watch, "watch", false, "keep running on the configured interval")

	rootCmd.AddCommand(topicCmd, headlinesCmd, domainCmd, batchCmd, deleteCmd, statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
