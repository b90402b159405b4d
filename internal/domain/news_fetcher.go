package domain

import "context"

// NewsArticle is a raw article as returned by the upstream news provider,
// before it is assigned a stable ID and stored.
type NewsArticle struct {
	SourceName  string
	Author      string
	Title       string
	Description string
	URL         string
	ImageURL    string
	PublishedAt string // ISO8601 string from the provider, not parsed
	Content     string
}

// EverythingQuery selects articles from the provider's full-archive endpoint.
// Exactly one of Query or Domains should be set.
type EverythingQuery struct {
	Query    string
	Domains  string
	From     string // YYYY-MM-DD, optional
	Language string
	SortBy   string
}

// NewsFetcher defines the interface for pulling articles from the news provider.
type NewsFetcher interface {
	Everything(ctx context.Context, q EverythingQuery) ([]NewsArticle, error)
	TopHeadlines(ctx context.Context, country, category string) ([]NewsArticle, error)
}
