// Package cache persists reference resolutions, including negative
// results, across process restarts. The cache is the sole deduplication
// mechanism: identical keys always short-circuit to the stored value,
// even when external services would now answer differently.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matsen/citeline/internal/reference"
)

// Key prefixes distinguish DOI resolutions from citation-text resolutions.
const (
	DOIPrefix      = "doi:"
	CitationPrefix = "citation:"
)

// DOIKey returns the cache key for a DOI resolution.
func DOIKey(doi string) string {
	return DOIPrefix + doi
}

// CitationKey returns the cache key for a citation-text resolution.
func CitationKey(text string) string {
	return CitationPrefix + text
}

// Cache is a SQLite-backed key/resolution store. Each Put is a single
// upsert, so entries land on disk immediately without rewriting the file.
type Cache struct {
	db *sql.DB
}

const schema = `CREATE TABLE IF NOT EXISTS resolutions (
  key TEXT PRIMARY KEY,
  resolved INTEGER NOT NULL,
  payload TEXT,
  updated_at TEXT NOT NULL
)`

// Open opens (creating if needed) a cache database at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache table: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get looks up a key. The second return reports whether the key exists;
// a found key with a nil resolution is a stored negative result.
func (c *Cache) Get(key string) (*reference.Resolution, bool, error) {
	var resolved int
	var payload sql.NullString

	err := c.db.QueryRow(
		"SELECT resolved, payload FROM resolutions WHERE key = ?", key,
	).Scan(&resolved, &payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}

	if resolved == 0 || !payload.Valid {
		return nil, true, nil
	}

	var res reference.Resolution
	if err := json.Unmarshal([]byte(payload.String), &res); err != nil {
		return nil, false, fmt.Errorf("decoding cache entry %q: %w", key, err)
	}
	return &res, true, nil
}

// Put stores a resolution (or nil for an explicit negative result).
func (c *Cache) Put(key string, res *reference.Resolution) error {
	var payload sql.NullString
	resolved := 0

	if res != nil {
		data, err := json.Marshal(res)
		if err != nil {
			return fmt.Errorf("encoding cache entry: %w", err)
		}
		payload = sql.NullString{String: string(data), Valid: true}
		resolved = 1
	}

	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO resolutions (key, resolved, payload, updated_at) VALUES (?, ?, ?, ?)",
		key, resolved, payload, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Len returns the number of stored entries.
func (c *Cache) Len() (int, error) {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM resolutions").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cache entries: %w", err)
	}
	return n, nil
}

// Clear removes all entries.
func (c *Cache) Clear() error {
	if _, err := c.db.Exec("DELETE FROM resolutions"); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}
