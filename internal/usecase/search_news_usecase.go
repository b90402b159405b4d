package usecase

import (
	"context"
	"fmt"
	"strings"

	"news-agent/internal/domain"
)

// SearchNewsUsecase defines the contract for semantic search over stored
// articles.
type SearchNewsUsecase interface {
	Execute(ctx context.Context, query string, limit int) ([]domain.Article, error)
}

type searchNewsUsecase struct {
	repo    domain.ArticleRepository
	encoder domain.VectorEncoder
}

// NewSearchNewsUsecase creates a new semantic search usecase.
func NewSearchNewsUsecase(repo domain.ArticleRepository, encoder domain.VectorEncoder) SearchNewsUsecase {
	return &searchNewsUsecase{repo: repo, encoder: encoder}
}

func (u *searchNewsUsecase) Execute(ctx context.Context, query string, limit int) ([]domain.Article, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required")
	}
	if limit <= 0 {
		limit = 10
	}

	vectors, err := u.encoder.Encode(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("encoder returned no vector")
	}

	matches, err := u.repo.SearchSimilar(ctx, vectors[0], limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search articles: %w", err)
	}

	articles := make([]domain.Article, 0, len(matches))
	for _, m := range matches {
		articles = append(articles, m.Article)
	}
	return articles, nil
}
