package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"news-agent/internal/domain"
)

const articleContentLimit = 1000

// IngestResult summarizes one pipeline run for a single source.
type IngestResult struct {
	SourceType        string
	ArticlesFetched   int
	ArticlesProcessed int
	ArticlesFailed    int
	Timestamp         time.Time
}

// BatchResult aggregates per-topic results of a batch run.
type BatchResult struct {
	TopicsProcessed int
	TotalProcessed  int
	TotalFailed     int
	Results         []IngestResult
	Timestamp       time.Time
}

// PipelineStatus reports reachability of the article store.
type PipelineStatus struct {
	ArticleCount int64
	EncoderModel string
	Timestamp    time.Time
}

// IngestArticlesUsecase defines the ingestion pipeline: fetch articles from
// the news provider, embed their text and upsert them into the vector store.
type IngestArticlesUsecase interface {
	ProcessTopic(ctx context.Context, topic, fromDate string) (*IngestResult, error)
	ProcessHeadlines(ctx context.Context, country, category string) (*IngestResult, error)
	ProcessDomain(ctx context.Context, domainName, fromDate string) (*IngestResult, error)
	ProcessBatch(ctx context.Context, topics []string, fromDate string) (*BatchResult, error)
	Status(ctx context.Context) (*PipelineStatus, error)
}

type ingestArticlesUsecase struct {
	fetcher   domain.NewsFetcher
	encoder   domain.VectorEncoder
	repo      domain.ArticleRepository
	txManager domain.TransactionManager
	idPolicy  domain.ArticleIDPolicy
	language  string
	sortBy    string
}

// NewIngestArticlesUsecase wires the ingestion pipeline together.
func NewIngestArticlesUsecase(
	fetcher domain.NewsFetcher,
	encoder domain.VectorEncoder,
	repo domain.ArticleRepository,
	txManager domain.TransactionManager,
	idPolicy domain.ArticleIDPolicy,
	language, sortBy string,
) IngestArticlesUsecase {
	return &ingestArticlesUsecase{
		fetcher:   fetcher,
		encoder:   encoder,
		repo:      repo,
		txManager: txManager,
		idPolicy:  idPolicy,
		language:  language,
		sortBy:    sortBy,
	}
}

func (u *ingestArticlesUsecase) ProcessTopic(ctx context.Context, topic, fromDate string) (*IngestResult, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("topic is required")
	}

	slog.Info("starting ingestion pipeline", slog.String("topic", topic))

	articles, err := u.fetcher.Everything(ctx, domain.EverythingQuery{
		Query:    topic,
		From:     fromDate,
		Language: u.language,
		SortBy:   u.sortBy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch articles for topic %q: %w", topic, err)
	}

	return u.store(ctx, articles, topic)
}

func (u *ingestArticlesUsecase) ProcessHeadlines(ctx context.Context, country, category string) (*IngestResult, error) {
	if country == "" {
		country = "us"
	}

	slog.Info("starting headlines ingestion",
		slog.String("country", country),
		slog.String("category", category))

	articles, err := u.fetcher.TopHeadlines(ctx, country, category)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch headlines for country %q: %w", country, err)
	}

	return u.store(ctx, articles, "headlines_"+country)
}

func (u *ingestArticlesUsecase) ProcessDomain(ctx context.Context, domainName, fromDate string) (*IngestResult, error) {
	if strings.TrimSpace(domainName) == "" {
		return nil, fmt.Errorf("domain is required")
	}

	slog.Info("starting domain ingestion", slog.String("domain", domainName))

	articles, err := u.fetcher.Everything(ctx, domain.EverythingQuery{
		Domains: domainName,
		From:    fromDate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch articles for domain %q: %w", domainName, err)
	}

	return u.store(ctx, articles, "domain_"+domainName)
}

// ProcessBatch runs the topic pipeline for each topic with bounded
// concurrency. A failing topic does not abort the others; it is counted and
// the batch continues.
func (u *ingestArticlesUsecase) ProcessBatch(ctx context.Context, topics []string, fromDate string) (*BatchResult, error) {
	if len(topics) == 0 {
		return nil, fmt.Errorf("at least one topic is required")
	}

	results := make([]IngestResult, len(topics))
	failed := make([]bool, len(topics))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, topic := range topics {
		g.Go(func() error {
			result, err := u.ProcessTopic(gctx, topic, fromDate)
			if err != nil {
				slog.Error("topic ingestion failed",
					slog.String("topic", topic),
					slog.String("error", err.Error()))
				failed[i] = true
				return nil
			}
			results[i] = *result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch := &BatchResult{
		TopicsProcessed: len(topics),
		Timestamp:       time.Now(),
	}
	for i := range topics {
		if failed[i] {
			batch.TotalFailed++
			continue
		}
		batch.Results = append(batch.Results, results[i])
		batch.TotalProcessed += results[i].ArticlesProcessed
		batch.TotalFailed += results[i].ArticlesFailed
	}

	slog.Info("batch ingestion completed",
		slog.Int("topics", batch.TopicsProcessed),
		slog.Int("processed", batch.TotalProcessed),
		slog.Int("failed", batch.TotalFailed))
	return batch, nil
}

func (u *ingestArticlesUsecase) Status(ctx context.Context) (*PipelineStatus, error) {
	stats, err := u.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read store stats: %w", err)
	}
	return &PipelineStatus{
		ArticleCount: stats.ArticleCount,
		EncoderModel: u.encoder.Version(),
		Timestamp:    time.Now(),
	}, nil
}

// store embeds and upserts the fetched articles under one source type.
// Articles that cannot produce a usable text are skipped and counted as
// failed; the rest are written in a single transaction.
func (u *ingestArticlesUsecase) store(ctx context.Context, articles []domain.NewsArticle, sourceType string) (*IngestResult, error) {
	result := &IngestResult{
		SourceType:      sourceType,
		ArticlesFetched: len(articles),
		Timestamp:       time.Now(),
	}
	if len(articles) == 0 {
		slog.Warn("no articles found", slog.String("source_type", sourceType))
		return result, nil
	}

	records := make([]domain.ArticleRecord, 0, len(articles))
	texts := make([]string, 0, len(articles))
	now := time.Now()
	for _, a := range articles {
		text := prepareArticleText(a)
		if text == "" || a.URL == "" {
			result.ArticlesFailed++
			continue
		}
		records = append(records, domain.ArticleRecord{
			ID:          u.idPolicy.Compute(a.URL, a.PublishedAt),
			SourceType:  sourceType,
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
			SourceName:  a.SourceName,
			Author:      a.Author,
			ImageURL:    a.ImageURL,
			Text:        text,
			TextLength:  len(text),
			ProcessedAt: now,
		})
		texts = append(texts, text)
	}
	if len(records) == 0 {
		return result, nil
	}

	vectors, err := u.encoder.Encode(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode article texts: %w", err)
	}
	if len(vectors) != len(records) {
		return nil, fmt.Errorf("encoder returned %d vectors for %d texts", len(vectors), len(records))
	}
	for i := range records {
		records[i].Embedding = vectors[i]
	}

	err = u.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return u.repo.BulkUpsert(txCtx, records)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert articles: %w", err)
	}

	result.ArticlesProcessed = len(records)
	slog.Info("ingestion pipeline completed",
		slog.String("source_type", sourceType),
		slog.Int("fetched", result.ArticlesFetched),
		slog.Int("processed", result.ArticlesProcessed),
		slog.Int("failed", result.ArticlesFailed))
	return result, nil
}

// prepareArticleText builds the text that is embedded: title, description and
// the first portion of the body joined by spaces.
func prepareArticleText(a domain.NewsArticle) string {
	parts := make([]string, 0, 3)
	if a.Title != "" {
		parts = append(parts, a.Title)
	}
	if a.Description != "" {
		parts = append(parts, a.Description)
	}
	if a.Content != "" {
		content := a.Content
		if len(content) > articleContentLimit {
			content = content[:articleContentLimit]
		}
		parts = append(parts, content)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
