package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"news-agent/internal/domain"
	"news-agent/internal/infra/httpclient"
)

type embedContent struct {
	Parts []contentPart `json:"parts"`
}

type embedRequestItem struct {
	Model   string       `json:"model"`
	Content embedContent `json:"content"`
}

type batchEmbedRequest struct {
	Requests []embedRequestItem `json:"requests"`
}

type batchEmbedResponse struct {
	Embeddings []struct {
		Values []float32 `json:"values"`
	} `json:"embeddings"`
}

// Embedder generates text embeddings via the Gemini batchEmbedContents endpoint.
type Embedder struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewEmbedder constructs an embedder for the given endpoint, key, and model name.
func NewEmbedder(baseURL, apiKey, model string, timeoutSeconds int, logger *slog.Logger) *Embedder {
	timeout := 30 * time.Second
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	return &Embedder{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: httpclient.NewPooledClient(timeout),
		logger:     logger,
	}
}

func (e *Embedder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	start := time.Now()

	reqBody := batchEmbedRequest{
		Requests: make([]embedRequestItem, len(texts)),
	}
	for i, text := range texts {
		reqBody.Requests[i] = embedRequestItem{
			Model:   "models/" + e.model,
			Content: embedContent{Parts: []contentPart{{Text: text}}},
		}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:batchEmbedContents", e.baseURL, e.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		e.logger.Error("gemini embed failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)),
		)
		return nil, fmt.Errorf("failed to call embedding endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		e.logger.Error("gemini embed bad status",
			slog.Int("status", resp.StatusCode),
			slog.Duration("elapsed", time.Since(start)),
		)
		return nil, fmt.Errorf("embedding endpoint returned status: %d", resp.StatusCode)
	}

	var respBody batchEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(respBody.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(respBody.Embeddings))
	}

	embeddings := make([][]float32, len(respBody.Embeddings))
	for i, emb := range respBody.Embeddings {
		embeddings[i] = emb.Values
	}

	e.logger.Info("gemini embed completed",
		slog.Int("text_count", len(texts)),
		slog.Duration("elapsed", time.Since(start)),
	)

	return embeddings, nil
}

func (e *Embedder) Version() string {
	return e.model
}

var _ domain.VectorEncoder = (*Embedder)(nil)
