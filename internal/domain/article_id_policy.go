package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ArticleIDPolicy defines the logic to derive a stable identifier for an
// article from its URL and published timestamp. The same input always yields
// the same ID across processes and runs, so re-ingesting an article is an
// idempotent overwrite rather than a duplicate.
type ArticleIDPolicy interface {
	Compute(url, publishedAt string) string
}

type articleIDPolicy struct{}

// NewArticleIDPolicy creates the default SHA-256 based ArticleIDPolicy.
func NewArticleIDPolicy() ArticleIDPolicy {
	return &articleIDPolicy{}
}

// Compute returns the hex SHA-256 of the normalized URL and timestamp.
// A null byte separates the components to avoid boundary ambiguity.
func (p *articleIDPolicy) Compute(url, publishedAt string) string {
	normalizedURL := strings.TrimSpace(url)
	normalizedTS := strings.TrimSpace(publishedAt)

	hash := sha256.Sum256([]byte(normalizedURL + "\x00" + normalizedTS))
	return hex.EncodeToString(hash[:])
}
