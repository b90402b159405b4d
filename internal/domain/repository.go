package domain

import "context"

// ArticleRepository defines the operations for storing and searching articles
// in the vector-backed store.
type ArticleRepository interface {
	// BulkUpsert stores records, superseding any existing record with the same
	// ID. Implementations chunk large inputs to respect backend batch limits.
	BulkUpsert(ctx context.Context, records []ArticleRecord) error

	// SearchSimilar returns up to limit articles ordered by similarity to the
	// query vector, most similar first.
	SearchSimilar(ctx context.Context, queryVector []float32, limit int) ([]ArticleMatch, error)

	// Delete removes a single record by ID. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// Stats reports store-level statistics.
	Stats(ctx context.Context) (StoreStats, error)
}

// StoreStats summarizes the state of the article store.
type StoreStats struct {
	ArticleCount int64
}

// TransactionManager defines the interface for handling database transactions.
type TransactionManager interface {
	// RunInTx executes the given function within a transaction.
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
