package headlinecache

import (
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"news-agent/internal/domain"
)

const memoryCacheSize = 128

// MemoryStore holds day-keyed headline entries in an in-process LRU. It is the
// only backend allowed in restricted deployments and the fallback everywhere
// else.
type MemoryStore struct {
	cache *lru.Cache[string, cacheEntry]
	now   func() time.Time
}

func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	// Size can only fail for non-positive values.
	cache, _ := lru.New[string, cacheEntry](memoryCacheSize)
	return &MemoryStore{cache: cache, now: now}
}

func memoryKey(country, category, date string) string {
	return fmt.Sprintf("%s|%s|%s", country, category, date)
}

func (s *MemoryStore) Get(country, category string) ([]domain.Article, bool) {
	today := s.now().Format(dateLayout)
	entry, ok := s.cache.Get(memoryKey(country, category, today))
	if !ok || entry.Date != today {
		return nil, false
	}
	return entry.Headlines, true
}

func (s *MemoryStore) Put(country, category string, articles []domain.Article) error {
	nowTime := s.now()
	date := nowTime.Format(dateLayout)
	s.cache.Add(memoryKey(country, category, date), cacheEntry{
		Date:      date,
		Timestamp: nowTime.UTC().Format(time.RFC3339),
		Country:   country,
		Category:  category,
		Headlines: articles,
	})
	return nil
}

func (s *MemoryStore) EvictStale() {
	today := s.now().Format(dateLayout)
	for _, key := range s.cache.Keys() {
		if !strings.HasSuffix(key, "|"+today) {
			s.cache.Remove(key)
		}
	}
}
