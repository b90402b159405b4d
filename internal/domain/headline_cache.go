package domain

// HeadlineCache memoizes top-headline results per (country, category) for one
// calendar day. An entry is valid only while its date matches "today"; a stale
// or missing entry is a miss, never an error. Implementations absorb storage
// failures internally.
type HeadlineCache interface {
	// Get returns today's cached headlines for the key, or ok=false on a miss.
	Get(country, category string) ([]Article, bool)

	// Put overwrites today's entry for the key with the given list.
	Put(country, category string, articles []Article)

	// EvictStale removes all entries whose date is not today. Idempotent and
	// safe to call with zero entries.
	EvictStale()
}
