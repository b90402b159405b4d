package usecase

import (
	"strings"
)

// ChatPromptInput defines the input for assembling a chat prompt
type ChatPromptInput struct {
	ChatHistory     []string
	SelectedArticle string
	SimilarArticles []string // ranked most similar first
	UserMessage     string
	TokenBudget     int
}

// ChatPromptResult holds the assembled prompt and the similar articles that
// survived trimming, in their original order.
type ChatPromptResult struct {
	Prompt          string
	SimilarArticles []string
}

// EstimateTokens approximates a string's token count as one token per four
// characters. Deliberately rough; the trimming loop cares about ordering, not
// exactness.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// BuildChatPrompt assembles the prompt in fixed section order, omitting empty
// sections. While the estimate exceeds the budget, the least similar article
// is dropped from the end of the list and the prompt is rebuilt; once the list
// is exhausted the over-budget prompt is returned as-is. The caller's slice is
// never mutated.
func BuildChatPrompt(input ChatPromptInput) ChatPromptResult {
	similar := make([]string, len(input.SimilarArticles))
	copy(similar, input.SimilarArticles)

	prompt := renderChatPrompt(input.ChatHistory, input.SelectedArticle, similar, input.UserMessage)
	for EstimateTokens(prompt) > input.TokenBudget && len(similar) > 0 {
		similar = similar[:len(similar)-1]
		prompt = renderChatPrompt(input.ChatHistory, input.SelectedArticle, similar, input.UserMessage)
	}

	return ChatPromptResult{Prompt: prompt, SimilarArticles: similar}
}

func renderChatPrompt(history []string, selected string, similar []string, userMessage string) string {
	var sb strings.Builder

	if len(history) > 0 {
		sb.WriteString("Chat history:\n")
		sb.WriteString(strings.Join(history, "\n"))
		sb.WriteString("\n")
	}
	if selected != "" {
		sb.WriteString("Selected article:\n")
		sb.WriteString(selected)
		sb.WriteString("\n")
	}
	if len(similar) > 0 {
		sb.WriteString("Similar articles:\n")
		sb.WriteString(strings.Join(similar, "\n"))
		sb.WriteString("\n")
	}
	if userMessage != "" {
		sb.WriteString("User message:\n")
		sb.WriteString(userMessage)
		sb.WriteString("\n")
	}

	return sb.String()
}
