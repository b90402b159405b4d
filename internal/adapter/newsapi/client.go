package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"news-agent/internal/domain"
	"news-agent/internal/infra/httpclient"
)

// Client calls the NewsAPI v2 REST endpoints. Requests are throttled with a
// token-bucket limiter to stay under the free-tier quota.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient constructs a NewsAPI client for the given endpoint and key.
func NewClient(baseURL, apiKey string, timeoutSeconds int, logger *slog.Logger) *Client {
	timeout := 15 * time.Second
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpclient.NewPooledClient(timeout),
		limiter:    rate.NewLimiter(rate.Every(time.Second), 5),
		logger:     logger,
	}
}

type sourceDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type articleDTO struct {
	Source      sourceDTO `json:"source"`
	Author      string    `json:"author"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	URLToImage  string    `json:"urlToImage"`
	PublishedAt string    `json:"publishedAt"`
	Content     string    `json:"content"`
}

type articlesResponse struct {
	Status       string       `json:"status"`
	Code         string       `json:"code"`
	Message      string       `json:"message"`
	TotalResults int          `json:"totalResults"`
	Articles     []articleDTO `json:"articles"`
}

// Everything fetches articles from the /everything endpoint.
func (c *Client) Everything(ctx context.Context, q domain.EverythingQuery) ([]domain.NewsArticle, error) {
	params := url.Values{}
	if q.Query != "" {
		params.Set("q", q.Query)
	}
	if q.Domains != "" {
		params.Set("domains", q.Domains)
	}
	if q.From != "" {
		params.Set("from", q.From)
	}
	if q.Language != "" {
		params.Set("language", q.Language)
	}
	if q.SortBy != "" {
		params.Set("sortBy", q.SortBy)
	}

	return c.fetch(ctx, "/everything", params)
}

// TopHeadlines fetches articles from the /top-headlines endpoint.
func (c *Client) TopHeadlines(ctx context.Context, country, category string) ([]domain.NewsArticle, error) {
	params := url.Values{}
	params.Set("country", country)
	if category != "" {
		params.Set("category", category)
	}

	return c.fetch(ctx, "/top-headlines", params)
}

func (c *Client) fetch(ctx context.Context, path string, params url.Values) ([]domain.NewsArticle, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call news api: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body articlesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// NewsAPI reports errors in the payload, with the HTTP status mirroring it.
	if body.Status != "ok" {
		return nil, fmt.Errorf("news api error (%s): %s", body.Code, body.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news api returned status %d", resp.StatusCode)
	}

	c.logger.Info("fetched articles from news api",
		slog.String("path", path),
		slog.Int("count", len(body.Articles)),
		slog.Int("total_results", body.TotalResults),
		slog.Duration("elapsed", time.Since(start)),
	)

	articles := make([]domain.NewsArticle, 0, len(body.Articles))
	for _, dto := range body.Articles {
		articles = append(articles, domain.NewsArticle{
			SourceName:  dto.Source.Name,
			Author:      dto.Author,
			Title:       dto.Title,
			Description: dto.Description,
			URL:         dto.URL,
			ImageURL:    dto.URLToImage,
			PublishedAt: dto.PublishedAt,
			Content:     dto.Content,
		})
	}
	return articles, nil
}

var _ domain.NewsFetcher = (*Client)(nil)
