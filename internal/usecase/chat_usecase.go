package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"news-agent/internal/domain"
)

// ChatInput carries one user turn plus the client-held conversation state.
type ChatInput struct {
	Content         string
	ChatHistory     []string
	SelectedArticle string
}

// ChatOutput is the generated reply plus how much retrieved context survived
// the token budget.
type ChatOutput struct {
	Reply               string
	SimilarArticlesUsed int
}

// ChatUsecase defines the contract for answering a chat turn grounded in
// stored articles.
type ChatUsecase interface {
	Execute(ctx context.Context, input ChatInput) (*ChatOutput, error)
}

type chatUsecase struct {
	repo         domain.ArticleRepository
	encoder      domain.VectorEncoder
	llmClient    domain.LLMClient
	similarLimit int
	tokenBudget  int
	maxTokens    int
}

// NewChatUsecase wires together retrieval and generation for the chat endpoint.
func NewChatUsecase(
	repo domain.ArticleRepository,
	encoder domain.VectorEncoder,
	llmClient domain.LLMClient,
	similarLimit, tokenBudget, maxTokens int,
) ChatUsecase {
	if similarLimit <= 0 {
		similarLimit = 20
	}
	if tokenBudget <= 0 {
		tokenBudget = 1000000
	}
	return &chatUsecase{
		repo:         repo,
		encoder:      encoder,
		llmClient:    llmClient,
		similarLimit: similarLimit,
		tokenBudget:  tokenBudget,
		maxTokens:    maxTokens,
	}
}

func (u *chatUsecase) Execute(ctx context.Context, input ChatInput) (*ChatOutput, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, fmt.Errorf("message content is required")
	}

	var similar []string
	if input.SelectedArticle != "" {
		texts, err := u.findSimilarTexts(ctx, input.SelectedArticle)
		if err != nil {
			// Retrieval failure degrades to an ungrounded answer.
			slog.Warn("similar article retrieval failed", slog.String("error", err.Error()))
		} else {
			similar = texts
		}
	}

	result := BuildChatPrompt(ChatPromptInput{
		ChatHistory:     input.ChatHistory,
		SelectedArticle: input.SelectedArticle,
		SimilarArticles: similar,
		UserMessage:     input.Content,
		TokenBudget:     u.tokenBudget,
	})

	resp, err := u.llmClient.Generate(ctx, result.Prompt, u.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to generate chat response: %w", err)
	}

	return &ChatOutput{
		Reply:               resp.Text,
		SimilarArticlesUsed: len(result.SimilarArticles),
	}, nil
}

func (u *chatUsecase) findSimilarTexts(ctx context.Context, selected string) ([]string, error) {
	vectors, err := u.encoder.Encode(ctx, []string{selected})
	if err != nil {
		return nil, fmt.Errorf("failed to encode selected article: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("encoder returned no vector")
	}

	matches, err := u.repo.SearchSimilar(ctx, vectors[0], u.similarLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search similar articles: %w", err)
	}

	texts := make([]string, 0, len(matches))
	for _, m := range matches {
		text := m.Text
		if text == "" {
			text = fmt.Sprintf("%s\n%s", m.Article.Title, m.Article.Summary)
		}
		texts = append(texts, text)
	}
	return texts, nil
}
