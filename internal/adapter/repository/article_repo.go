package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"news-agent/internal/domain"
)

// upsertBatchSize bounds how many records go into a single batch. Mirrors the
// upstream vector store's per-request record limit.
const upsertBatchSize = 96

type articleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository creates a new ArticleRepository backed by Postgres/pgvector.
func NewArticleRepository(pool *pgxpool.Pool) domain.ArticleRepository {
	return &articleRepository{pool: pool}
}

type dbExecutor interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

func (r *articleRepository) getExecutor(ctx context.Context) dbExecutor {
	tx := ExtractTx(ctx)
	if tx != nil {
		return tx
	}
	return r.pool
}

const upsertArticleSQL = `
	INSERT INTO articles (
		id, source_type, title, description, url, published_at,
		source_name, author, image_url, text, text_length, processed_at, embedding
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (id) DO UPDATE SET
		source_type = EXCLUDED.source_type,
		title = EXCLUDED.title,
		description = EXCLUDED.description,
		url = EXCLUDED.url,
		published_at = EXCLUDED.published_at,
		source_name = EXCLUDED.source_name,
		author = EXCLUDED.author,
		image_url = EXCLUDED.image_url,
		text = EXCLUDED.text,
		text_length = EXCLUDED.text_length,
		processed_at = EXCLUDED.processed_at,
		embedding = EXCLUDED.embedding
`

func (r *articleRepository) BulkUpsert(ctx context.Context, records []domain.ArticleRecord) error {
	if len(records) == 0 {
		return nil
	}

	for start := 0; start < len(records); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(records) {
			end = len(records)
		}

		batch := &pgx.Batch{}
		for _, rec := range records[start:end] {
			batch.Queue(upsertArticleSQL,
				rec.ID,
				rec.SourceType,
				rec.Title,
				rec.Description,
				rec.URL,
				rec.PublishedAt,
				rec.SourceName,
				rec.Author,
				rec.ImageURL,
				rec.Text,
				rec.TextLength,
				rec.ProcessedAt,
				pgvector.NewVector(rec.Embedding),
			)
		}

		results := r.getExecutor(ctx).SendBatch(ctx, batch)
		var batchErr error
		for i := start; i < end; i++ {
			if _, err := results.Exec(); err != nil && batchErr == nil {
				batchErr = fmt.Errorf("failed to upsert article %s: %w", records[i].ID, err)
			}
		}
		if err := results.Close(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to close batch: %w", err)
		}
		if batchErr != nil {
			return batchErr
		}
	}

	return nil
}

func (r *articleRepository) SearchSimilar(ctx context.Context, queryVector []float32, limit int) ([]domain.ArticleMatch, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, title, url, description, published_at, source_name, author, image_url, text,
		       1 - (embedding <=> $1) AS score
		FROM articles
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2
	`
	rows, err := r.getExecutor(ctx).Query(ctx, query, pgvector.NewVector(queryVector), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search articles: %w", err)
	}
	defer rows.Close()

	var matches []domain.ArticleMatch
	for rows.Next() {
		var m domain.ArticleMatch
		if err := rows.Scan(
			&m.Article.ID,
			&m.Article.Title,
			&m.Article.URL,
			&m.Article.Summary,
			&m.Article.PublishedAt,
			&m.Article.SourceName,
			&m.Article.Author,
			&m.Article.ImageURL,
			&m.Text,
			&m.Score,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return matches, nil
}

func (r *articleRepository) Delete(ctx context.Context, id string) error {
	_, err := r.getExecutor(ctx).Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	return nil
}

func (r *articleRepository) Stats(ctx context.Context) (domain.StoreStats, error) {
	var stats domain.StoreStats
	err := r.getExecutor(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM articles`).Scan(&stats.ArticleCount)
	if err != nil {
		return domain.StoreStats{}, fmt.Errorf("failed to count articles: %w", err)
	}
	return stats, nil
}
