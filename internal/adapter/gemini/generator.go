package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"news-agent/internal/domain"
	"news-agent/internal/infra/httpclient"
)

const generationTemperature = 0.2

type contentPart struct {
	Text string `json:"text"`
}

type content struct {
	Role  string        `json:"role,omitempty"`
	Parts []contentPart `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
}

// Generator sends prompts to the Gemini generateContent endpoint and returns
// the model's text response.
type Generator struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewGenerator constructs a generator using the provided endpoint, key, and model name.
func NewGenerator(baseURL, apiKey, model string, timeoutSeconds int, logger *slog.Logger) *Generator {
	timeout := 60 * time.Second
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	return &Generator{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: httpclient.NewPooledClient(timeout),
		logger:     logger,
	}
}

// Generate sends the prompt to Gemini and returns the first candidate's text.
func (g *Generator) Generate(ctx context.Context, prompt string, maxTokens int) (*domain.LLMResponse, error) {
	reqBody := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []contentPart{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			Temperature: generationTemperature,
		},
	}
	if maxTokens > 0 {
		reqBody.GenerationConfig.MaxOutputTokens = maxTokens
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generate request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call generation endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("generation endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, fmt.Errorf("failed to decode generation response: %w", err)
	}

	if len(genResp.Candidates) == 0 {
		return nil, fmt.Errorf("generation response has no candidates")
	}

	candidate := genResp.Candidates[0]
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		sb.WriteString(part.Text)
	}

	g.logger.Info("gemini generation completed",
		slog.String("model", g.model),
		slog.String("finish_reason", candidate.FinishReason),
		slog.Duration("elapsed", time.Since(start)),
	)

	return &domain.LLMResponse{
		Text: strings.TrimSpace(sb.String()),
		Done: candidate.FinishReason == "" || candidate.FinishReason == "STOP",
	}, nil
}

// Version returns the wrapped model name.
func (g *Generator) Version() string {
	return g.model
}

var _ domain.LLMClient = (*Generator)(nil)
