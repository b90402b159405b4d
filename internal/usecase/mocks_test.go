package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"news-agent/internal/domain"
)

// --- Mocks shared across the usecase tests ---

type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) BulkUpsert(ctx context.Context, records []domain.ArticleRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockArticleRepository) SearchSimilar(ctx context.Context, queryVector []float32, limit int) ([]domain.ArticleMatch, error) {
	args := m.Called(ctx, queryVector, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ArticleMatch), args.Error(1)
}

func (m *MockArticleRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockArticleRepository) Stats(ctx context.Context) (domain.StoreStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.StoreStats), args.Error(1)
}

type MockVectorEncoder struct {
	mock.Mock
}

func (m *MockVectorEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

func (m *MockVectorEncoder) Version() string {
	args := m.Called()
	return args.String(0)
}

type MockLLMClient struct {
	mock.Mock
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt string, maxTokens int) (*domain.LLMResponse, error) {
	args := m.Called(ctx, prompt, maxTokens)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LLMResponse), args.Error(1)
}

func (m *MockLLMClient) Version() string {
	args := m.Called()
	return args.String(0)
}

type MockNewsFetcher struct {
	mock.Mock
}

func (m *MockNewsFetcher) Everything(ctx context.Context, q domain.EverythingQuery) ([]domain.NewsArticle, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NewsArticle), args.Error(1)
}

func (m *MockNewsFetcher) TopHeadlines(ctx context.Context, country, category string) ([]domain.NewsArticle, error) {
	args := m.Called(ctx, country, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NewsArticle), args.Error(1)
}

type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubHeadlineCache struct {
	entries    map[string][]domain.Article
	putCalls   int
	evictCalls int
}

func newStubHeadlineCache() *stubHeadlineCache {
	return &stubHeadlineCache{entries: map[string][]domain.Article{}}
}

func (c *stubHeadlineCache) Get(country, category string) ([]domain.Article, bool) {
	articles, ok := c.entries[country+"|"+category]
	return articles, ok
}

func (c *stubHeadlineCache) Put(country, category string, articles []domain.Article) {
	c.putCalls++
	c.entries[country+"|"+category] = articles
}

func (c *stubHeadlineCache) EvictStale() {
	c.evictCalls++
}
