package headlinecache

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"news-agent/internal/domain"
)

// backend is one physical cache storage. Put reports failure so the selector
// can switch backends; Get and EvictStale never fail.
type backend interface {
	Get(country, category string) ([]domain.Article, bool)
	Put(country, category string, articles []domain.Article) error
	EvictStale()
}

// Selector picks the cache backend at construction (file storage when the
// deployment allows local writes and the directory proves writable, memory
// otherwise) and demotes itself to memory permanently if a durable write fails
// at runtime. Cache failures are logged and absorbed, never surfaced to
// callers.
type Selector struct {
	mu      sync.Mutex
	backend backend
	durable bool
	now     func() time.Time
	logger  *slog.Logger
}

func NewSelector(restricted bool, dir string, logger *slog.Logger, now func() time.Time) *Selector {
	if now == nil {
		now = time.Now
	}
	s := &Selector{now: now, logger: logger}

	if restricted {
		logger.Info("headline cache using memory backend", "reason", "restricted mode")
		s.backend = NewMemoryStore(now)
		return s
	}

	if err := probeWritable(dir); err != nil {
		logger.Warn("cache directory not writable, using memory backend",
			"dir", dir,
			"error", err)
		s.backend = NewMemoryStore(now)
		return s
	}

	logger.Info("headline cache using file backend", "dir", dir)
	s.backend = NewFileStore(dir, now)
	s.durable = true
	return s
}

// probeWritable creates the directory and writes a throwaway file to prove the
// filesystem actually accepts writes, not just that the path exists.
func probeWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	probe := filepath.Join(dir, ".write-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return err
	}
	os.Remove(probe)
	return nil
}

func (s *Selector) Get(country, category string) ([]domain.Article, bool) {
	s.mu.Lock()
	b := s.backend
	s.mu.Unlock()
	return b.Get(country, category)
}

func (s *Selector) Put(country, category string, articles []domain.Article) {
	s.mu.Lock()
	b := s.backend
	s.mu.Unlock()

	if err := b.Put(country, category, articles); err != nil {
		s.logger.Warn("durable cache write failed, switching to memory backend",
			"country", country,
			"category", category,
			"error", err)
		s.mu.Lock()
		mem := NewMemoryStore(s.now)
		s.backend = mem
		s.durable = false
		s.mu.Unlock()
		mem.Put(country, category, articles)
	}
}

func (s *Selector) EvictStale() {
	s.mu.Lock()
	b := s.backend
	s.mu.Unlock()
	b.EvictStale()
}

// Durable reports whether the selector is currently writing to file storage.
func (s *Selector) Durable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.durable
}

var _ domain.HeadlineCache = (*Selector)(nil)
