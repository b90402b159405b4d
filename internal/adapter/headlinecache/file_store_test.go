package headlinecache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_PutThenGetSameDay(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	s := NewFileStore(dir, fixedClock(day))

	require.NoError(t, s.Put("us", "technology", sampleArticles()))

	got, ok := s.Get("us", "technology")
	require.True(t, ok)
	assert.Equal(t, sampleArticles(), got)

	// One file per key per day, named after country, category and date.
	_, err := os.Stat(filepath.Join(dir, "headlines_us_technology_2025-03-10.json"))
	assert.NoError(t, err)
}

func TestFileStore_FileNameOmitsEmptyCategory(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	s := NewFileStore(dir, fixedClock(day))

	require.NoError(t, s.Put("us", "", sampleArticles()))

	_, err := os.Stat(filepath.Join(dir, "headlines_us_2025-03-10.json"))
	assert.NoError(t, err)
}

func TestFileStore_PutOverwritesSameDayEntry(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	s := NewFileStore(dir, fixedClock(day))

	require.NoError(t, s.Put("us", "", sampleArticles()))
	require.NoError(t, s.Put("us", "", sampleArticles()[:1]))

	got, ok := s.Get("us", "")
	require.True(t, ok)
	assert.Len(t, got, 1, "put replaces the day's entry wholesale")
}

func TestFileStore_MalformedFileIsAMiss(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	s := NewFileStore(dir, fixedClock(day))

	path := filepath.Join(dir, "headlines_us_2025-03-10.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, ok := s.Get("us", "")
	assert.False(t, ok)
}

func TestFileStore_StaleDateFieldIsAMiss(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	s := NewFileStore(dir, fixedClock(day))

	// File exists under today's name but carries yesterday's date field.
	entry := cacheEntry{Date: "2025-03-09", Country: "us", Headlines: sampleArticles()}
	data, err := json.Marshal(entry)
	require.NoError(t, err)
	path := filepath.Join(dir, "headlines_us_2025-03-10.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, ok := s.Get("us", "")
	assert.False(t, ok)
}

func TestFileStore_PathSeparatorsStrippedFromKey(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	s := NewFileStore(dir, fixedClock(day))

	// Hostile key components must not escape the cache directory.
	require.NoError(t, s.Put("../../us", "tech/../../nology", sampleArticles()))

	got, ok := s.Get("../../us", "tech/../../nology")
	require.True(t, ok)
	assert.Equal(t, sampleArticles(), got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "headlines_us_technology_2025-03-10.json", entries[0].Name())

	outside, err := os.ReadDir(filepath.Dir(dir))
	require.NoError(t, err)
	for _, e := range outside {
		assert.NotContains(t, e.Name(), ".json")
	}
}

func TestFileStore_EvictStaleRemovesOldDays(t *testing.T) {
	dir := t.TempDir()
	day1 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	clock := day1
	s := NewFileStore(dir, func() time.Time { return clock })

	// Three days' worth of files for the same key, plus a second key.
	require.NoError(t, s.Put("us", "technology", sampleArticles()))
	require.NoError(t, s.Put("gb", "", sampleArticles()))

	clock = day1.Add(24 * time.Hour)
	require.NoError(t, s.Put("us", "technology", sampleArticles()))

	clock = day1.Add(48 * time.Hour)
	require.NoError(t, s.Put("us", "technology", sampleArticles()))

	s.EvictStale()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "headlines_us_technology_2025-03-12.json", entries[0].Name())
}
