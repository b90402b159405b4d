package headlinecache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"news-agent/internal/domain"
)

const dateLayout = "2006-01-02"

// cacheEntry is the on-disk shape of one day's headlines for a (country,
// category) pair.
type cacheEntry struct {
	Date      string           `json:"date"`
	Timestamp string           `json:"timestamp"`
	Country   string           `json:"country"`
	Category  string           `json:"category"`
	Headlines []domain.Article `json:"headlines"`
}

// FileStore persists one JSON file per (country, category, day). Entries for
// past days are logically expired even if the file still exists.
type FileStore struct {
	dir string
	now func() time.Time
}

func NewFileStore(dir string, now func() time.Time) *FileStore {
	if now == nil {
		now = time.Now
	}
	return &FileStore{dir: dir, now: now}
}

func cacheFileName(country, category, date string) string {
	country = sanitizeKeyComponent(country)
	category = sanitizeKeyComponent(category)
	if category == "" {
		return fmt.Sprintf("headlines_%s_%s.json", country, date)
	}
	return fmt.Sprintf("headlines_%s_%s_%s.json", country, category, date)
}

// sanitizeKeyComponent strips anything that could alter the cache path.
// Provider country and category values are plain ASCII words.
func sanitizeKeyComponent(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (s *FileStore) Get(country, category string) ([]domain.Article, bool) {
	today := s.now().Format(dateLayout)
	path := filepath.Join(s.dir, cacheFileName(country, category, today))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// Corrupt cache data is a miss, not an error.
		return nil, false
	}
	if entry.Date != today {
		return nil, false
	}
	return entry.Headlines, true
}

// Put writes today's entry atomically via a temp file and rename. The error is
// returned so the caller can decide whether to fall back to another backend.
func (s *FileStore) Put(country, category string, articles []domain.Article) error {
	nowTime := s.now()
	entry := cacheEntry{
		Date:      nowTime.Format(dateLayout),
		Timestamp: nowTime.UTC().Format(time.RFC3339),
		Country:   country,
		Category:  category,
		Headlines: articles,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	path := filepath.Join(s.dir, cacheFileName(country, category, entry.Date))
	tmp, err := os.CreateTemp(s.dir, "headlines-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close cache file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	return nil
}

// EvictStale removes every cache file whose date suffix is not today. Safe to
// call repeatedly and with an empty or missing directory.
func (s *FileStore) EvictStale() {
	today := s.now().Format(dateLayout)

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "headlines_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		// Filename ends with _YYYY-MM-DD.json.
		base := strings.TrimSuffix(name, ".json")
		if len(base) < len(dateLayout) {
			continue
		}
		date := base[len(base)-len(dateLayout):]
		if date != today {
			os.Remove(filepath.Join(s.dir, name))
		}
	}
}
