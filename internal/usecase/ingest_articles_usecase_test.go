package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"news-agent/internal/domain"
	"news-agent/internal/usecase"
)

func newIngestUsecase(fetcher *MockNewsFetcher, encoder *MockVectorEncoder, repo *MockArticleRepository) usecase.IngestArticlesUsecase {
	return usecase.NewIngestArticlesUsecase(
		fetcher, encoder, repo,
		new(MockTransactionManager),
		domain.NewArticleIDPolicy(),
		"en", "publishedAt",
	)
}

func TestIngestArticlesUsecase_ProcessTopic(t *testing.T) {
	fetcher := new(MockNewsFetcher)
	encoder := new(MockVectorEncoder)
	repo := new(MockArticleRepository)

	fetcher.On("Everything", mock.Anything, domain.EverythingQuery{
		Query:    "ai",
		From:     "2025-03-01",
		Language: "en",
		SortBy:   "publishedAt",
	}).Return([]domain.NewsArticle{
		{Title: "AI advances", Description: "desc", Content: "body", URL: "https://example.com/1", PublishedAt: "2025-03-09T00:00:00Z"},
		{Title: "More AI", URL: "https://example.com/2", PublishedAt: "2025-03-09T01:00:00Z"},
	}, nil)
	encoder.On("Encode", mock.Anything, []string{"AI advances desc body", "More AI"}).
		Return([][]float32{{0.1}, {0.2}}, nil)
	repo.On("BulkUpsert", mock.Anything, mock.MatchedBy(func(records []domain.ArticleRecord) bool {
		return len(records) == 2 &&
			records[0].SourceType == "ai" &&
			records[0].Text == "AI advances desc body" &&
			records[0].TextLength == len("AI advances desc body") &&
			len(records[0].Embedding) == 1
	})).Return(nil)

	uc := newIngestUsecase(fetcher, encoder, repo)
	result, err := uc.ProcessTopic(context.Background(), "ai", "2025-03-01")

	require.NoError(t, err)
	assert.Equal(t, 2, result.ArticlesFetched)
	assert.Equal(t, 2, result.ArticlesProcessed)
	assert.Zero(t, result.ArticlesFailed)
	repo.AssertExpectations(t)
}

func TestIngestArticlesUsecase_ProcessTopic_SkipsUnusableArticles(t *testing.T) {
	fetcher := new(MockNewsFetcher)
	encoder := new(MockVectorEncoder)
	repo := new(MockArticleRepository)

	fetcher.On("Everything", mock.Anything, mock.Anything).Return([]domain.NewsArticle{
		{Title: "Good", URL: "https://example.com/1", PublishedAt: "2025-03-09T00:00:00Z"},
		{Title: "", Description: "", Content: "", URL: "https://example.com/2"}, // no text
		{Title: "No URL"}, // no url
	}, nil)
	encoder.On("Encode", mock.Anything, []string{"Good"}).Return([][]float32{{0.1}}, nil)
	repo.On("BulkUpsert", mock.Anything, mock.MatchedBy(func(records []domain.ArticleRecord) bool {
		return len(records) == 1
	})).Return(nil)

	uc := newIngestUsecase(fetcher, encoder, repo)
	result, err := uc.ProcessTopic(context.Background(), "ai", "")

	require.NoError(t, err)
	assert.Equal(t, 3, result.ArticlesFetched)
	assert.Equal(t, 1, result.ArticlesProcessed)
	assert.Equal(t, 2, result.ArticlesFailed)
}

func TestIngestArticlesUsecase_ProcessTopic_TruncatesLongContent(t *testing.T) {
	fetcher := new(MockNewsFetcher)
	encoder := new(MockVectorEncoder)
	repo := new(MockArticleRepository)

	longBody := strings.Repeat("x", 5000)
	fetcher.On("Everything", mock.Anything, mock.Anything).Return([]domain.NewsArticle{
		{Title: "T", Content: longBody, URL: "https://example.com/1", PublishedAt: "2025-03-09T00:00:00Z"},
	}, nil)
	encoder.On("Encode", mock.Anything, mock.MatchedBy(func(texts []string) bool {
		return len(texts) == 1 && len(texts[0]) == len("T ")+1000
	})).Return([][]float32{{0.1}}, nil)
	repo.On("BulkUpsert", mock.Anything, mock.Anything).Return(nil)

	uc := newIngestUsecase(fetcher, encoder, repo)
	_, err := uc.ProcessTopic(context.Background(), "ai", "")

	require.NoError(t, err)
	encoder.AssertExpectations(t)
}

func TestIngestArticlesUsecase_ProcessTopic_NoArticles(t *testing.T) {
	fetcher := new(MockNewsFetcher)
	encoder := new(MockVectorEncoder)
	repo := new(MockArticleRepository)

	fetcher.On("Everything", mock.Anything, mock.Anything).Return([]domain.NewsArticle{}, nil)

	uc := newIngestUsecase(fetcher, encoder, repo)
	result, err := uc.ProcessTopic(context.Background(), "obscure", "")

	require.NoError(t, err)
	assert.Zero(t, result.ArticlesFetched)
	assert.Zero(t, result.ArticlesProcessed)
	repo.AssertNotCalled(t, "BulkUpsert", mock.Anything, mock.Anything)
}

func TestIngestArticlesUsecase_ProcessHeadlines(t *testing.T) {
	fetcher := new(MockNewsFetcher)
	encoder := new(MockVectorEncoder)
	repo := new(MockArticleRepository)

	fetcher.On("TopHeadlines", mock.Anything, "us", "business").Return([]domain.NewsArticle{
		{Title: "Markets up", URL: "https://example.com/m", PublishedAt: "2025-03-09T00:00:00Z"},
	}, nil)
	encoder.On("Encode", mock.Anything, mock.Anything).Return([][]float32{{0.1}}, nil)
	repo.On("BulkUpsert", mock.Anything, mock.MatchedBy(func(records []domain.ArticleRecord) bool {
		return len(records) == 1 && records[0].SourceType == "headlines_us"
	})).Return(nil)

	uc := newIngestUsecase(fetcher, encoder, repo)
	result, err := uc.ProcessHeadlines(context.Background(), "us", "business")

	require.NoError(t, err)
	assert.Equal(t, "headlines_us", result.SourceType)
	repo.AssertExpectations(t)
}

func TestIngestArticlesUsecase_ProcessDomain(t *testing.T) {
	fetcher := new(MockNewsFetcher)
	encoder := new(MockVectorEncoder)
	repo := new(MockArticleRepository)

	fetcher.On("Everything", mock.Anything, domain.EverythingQuery{
		Domains: "bbc.co.uk",
		From:    "2025-03-01",
	}).Return([]domain.NewsArticle{
		{Title: "BBC story", URL: "https://bbc.co.uk/1", PublishedAt: "2025-03-09T00:00:00Z"},
	}, nil)
	encoder.On("Encode", mock.Anything, mock.Anything).Return([][]float32{{0.1}}, nil)
	repo.On("BulkUpsert", mock.Anything, mock.MatchedBy(func(records []domain.ArticleRecord) bool {
		return records[0].SourceType == "domain_bbc.co.uk"
	})).Return(nil)

	uc := newIngestUsecase(fetcher, encoder, repo)
	result, err := uc.ProcessDomain(context.Background(), "bbc.co.uk", "2025-03-01")

	require.NoError(t, err)
	assert.Equal(t, "domain_bbc.co.uk", result.SourceType)
}

func TestIngestArticlesUsecase_ProcessBatch_ContinuesPastFailures(t *testing.T) {
	fetcher := new(MockNewsFetcher)
	encoder := new(MockVectorEncoder)
	repo := new(MockArticleRepository)

	okQuery := domain.EverythingQuery{Query: "good", Language: "en", SortBy: "publishedAt"}
	badQuery := domain.EverythingQuery{Query: "bad", Language: "en", SortBy: "publishedAt"}
	fetcher.On("Everything", mock.Anything, okQuery).Return([]domain.NewsArticle{
		{Title: "Fine", URL: "https://example.com/1", PublishedAt: "2025-03-09T00:00:00Z"},
	}, nil)
	fetcher.On("Everything", mock.Anything, badQuery).Return(nil, errors.New("upstream error"))
	encoder.On("Encode", mock.Anything, mock.Anything).Return([][]float32{{0.1}}, nil)
	repo.On("BulkUpsert", mock.Anything, mock.Anything).Return(nil)

	uc := newIngestUsecase(fetcher, encoder, repo)
	batch, err := uc.ProcessBatch(context.Background(), []string{"good", "bad"}, "")

	require.NoError(t, err)
	assert.Equal(t, 2, batch.TopicsProcessed)
	assert.Equal(t, 1, batch.TotalProcessed)
	assert.Equal(t, 1, batch.TotalFailed)
	require.Len(t, batch.Results, 1)
	assert.Equal(t, "good", batch.Results[0].SourceType)
}

func TestIngestArticlesUsecase_Status(t *testing.T) {
	fetcher := new(MockNewsFetcher)
	encoder := new(MockVectorEncoder)
	repo := new(MockArticleRepository)

	repo.On("Stats", mock.Anything).Return(domain.StoreStats{ArticleCount: 42}, nil)
	encoder.On("Version").Return("text-embedding-004")

	uc := newIngestUsecase(fetcher, encoder, repo)
	status, err := uc.Status(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(42), status.ArticleCount)
	assert.Equal(t, "text-embedding-004", status.EncoderModel)
}
