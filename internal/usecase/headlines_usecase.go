package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"news-agent/internal/domain"
)

// HeadlinesUsecase serves today's top headlines for a country and optional
// category, memoized for the calendar day.
type HeadlinesUsecase interface {
	Execute(ctx context.Context, country, category string) ([]domain.Article, error)
}

type headlinesUsecase struct {
	fetcher  domain.NewsFetcher
	cache    domain.HeadlineCache
	idPolicy domain.ArticleIDPolicy
}

// NewHeadlinesUsecase creates a new headlines usecase backed by the given
// cache.
func NewHeadlinesUsecase(fetcher domain.NewsFetcher, cache domain.HeadlineCache, idPolicy domain.ArticleIDPolicy) HeadlinesUsecase {
	return &headlinesUsecase{fetcher: fetcher, cache: cache, idPolicy: idPolicy}
}

func (u *headlinesUsecase) Execute(ctx context.Context, country, category string) ([]domain.Article, error) {
	if country == "" {
		country = "us"
	}

	u.cache.EvictStale()

	if articles, ok := u.cache.Get(country, category); ok {
		slog.Info("serving headlines from cache",
			slog.String("country", country),
			slog.String("category", category),
			slog.Int("count", len(articles)))
		return articles, nil
	}

	raw, err := u.fetcher.TopHeadlines(ctx, country, category)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top headlines: %w", err)
	}

	articles := make([]domain.Article, 0, len(raw))
	for _, a := range raw {
		articles = append(articles, domain.Article{
			ID:          u.idPolicy.Compute(a.URL, a.PublishedAt),
			Title:       a.Title,
			URL:         a.URL,
			Summary:     a.Description,
			PublishedAt: a.PublishedAt,
			SourceName:  a.SourceName,
			Author:      a.Author,
			ImageURL:    a.ImageURL,
		})
	}

	u.cache.Put(country, category, articles)
	return articles, nil
}
