package embedcache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is the on-disk cache record. One file per key, named by the decimal
// string form of the hash. Timestamps are unix seconds.
type Entry struct {
	TextHash  uint64    `json:"text_hash"`
	Embedding []float32 `json:"embedding"`
	Model     string    `json:"model"`
	Timestamp int64     `json:"timestamp"`
}

// DurableStore is the on-disk tier and the source of truth. There is no
// file locking: concurrent writers to the same hash race at the filesystem
// level and the last writer wins.
type DurableStore struct {
	dir string
}

// NewDurableStore creates the cache directory if needed.
func NewDurableStore(dir string) (*DurableStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &DurableStore{dir: dir}, nil
}

// Dir returns the cache directory.
func (d *DurableStore) Dir() string {
	return d.dir
}

// Read loads the entry for key. A missing file is (nil, nil); decode and
// I/O failures surface to the caller.
func (d *DurableStore) Read(key uint64) (*Entry, error) {
	data, err := os.ReadFile(d.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return &entry, nil
}

// Write persists entry under its hash, unconditionally overwriting any
// existing file for that key.
func (d *DurableStore) Write(entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	if err := os.WriteFile(d.path(entry.TextHash), data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// RemoveOlderThan deletes every entry with a timestamp before cutoff and
// returns the number removed. Files that cannot be decoded are left alone.
func (d *DurableStore) RemoveOlderThan(cutoff time.Time) (int, error) {
	dirEntries, err := os.ReadDir(d.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to scan cache directory: %w", err)
	}

	removed := 0
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}

		path := filepath.Join(d.dir, de.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}

		if entry.Timestamp < cutoff.Unix() {
			if err := os.Remove(path); err != nil {
				return removed, fmt.Errorf("failed to remove cache entry: %w", err)
			}
			removed++
		}
	}

	return removed, nil
}

func (d *DurableStore) path(key uint64) string {
	return filepath.Join(d.dir, strconv.FormatUint(key, 10)+".json")
}
