package domain

import "time"

// Article is the public shape of a stored news article, as returned by search
// and headline endpoints.
type Article struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Summary     string `json:"summary"`
	PublishedAt string `json:"published_at"` // ISO8601 string, stored as-is
	SourceName  string `json:"source,omitempty"`
	Author      string `json:"author,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// ArticleRecord is the full persistable record: the article metadata plus the
// text that was embedded. Records are immutable once stored; a later upsert
// with the same ID supersedes the previous record wholesale.
type ArticleRecord struct {
	ID          string
	SourceType  string // e.g. "news_ai", "headlines_us", "domain_bbc.co.uk"
	Title       string
	Description string
	URL         string
	PublishedAt string
	SourceName  string
	Author      string
	ImageURL    string
	Text        string // title + description + truncated content, the embedded text
	TextLength  int
	ProcessedAt time.Time
	Embedding   []float32
}

// ArticleMatch is a single vector-search hit with its similarity score.
type ArticleMatch struct {
	Article Article
	Text    string
	Score   float32
}
