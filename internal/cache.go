package internal

import (
	"crypto/md5"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gnoswap-labs/qmin/internal/types"
)

const (
	cacheFileName = "qmin_cache.gob"
	// DefaultCacheMaxAge is how long a cached report stays valid.
	DefaultCacheMaxAge = 24 * time.Hour
)

type fileStamp struct {
	Hash    string
	ModTime time.Time
}

// CacheEntry is a cached report for one problem file together with
// everything the report was derived from.
type CacheEntry struct {
	Source   fileStamp
	Settings string
	// Dependencies maps each dependency file to its content hash when the
	// entry was stored. A missing file hashes to "".
	Dependencies map[string]string
	Report       types.Report
	CreatedAt    time.Time
}

// CacheOptions configures a Cache.
type CacheOptions struct {
	// Settings identifies the engine settings reports are computed under.
	// Entries stored under other settings are misses.
	Settings string
	// Dependencies are files whose content is recorded with every entry.
	Dependencies []string
	// MaxAge defaults to DefaultCacheMaxAge.
	MaxAge time.Duration
}

// Cache stores reports keyed by problem file path in a gob file under
// CacheDir. An entry is a hit only while the problem file, the settings and
// every dependency file are unchanged from when it was stored, and while it
// is younger than the max age.
type Cache struct {
	CacheDir string

	settings     string
	dependencies []string
	maxAge       time.Duration

	mu      sync.Mutex
	entries map[string]CacheEntry
}

func NewCache(cacheDir string, opts CacheOptions) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	cache := &Cache{
		CacheDir:     cacheDir,
		settings:     opts.Settings,
		dependencies: opts.Dependencies,
		maxAge:       opts.MaxAge,
		entries:      make(map[string]CacheEntry),
	}
	if cache.maxAge <= 0 {
		cache.maxAge = DefaultCacheMaxAge
	}

	if err := cache.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}
	return cache, nil
}

func (c *Cache) file() string {
	return filepath.Join(c.CacheDir, cacheFileName)
}

func (c *Cache) load() error {
	f, err := os.Open(c.file())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer f.Close()

	if err := gob.NewDecoder(f).Decode(&c.entries); err != nil {
		return fmt.Errorf("failed to decode cache file: %w", err)
	}
	return nil
}

func (c *Cache) save() error {
	f, err := os.Create(c.file())
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(c.entries); err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}
	return nil
}

// Set records report as the result for filename and persists the cache.
func (c *Cache) Set(filename string, report *types.Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	source, err := stampFile(filename)
	if err != nil {
		return err
	}
	deps, err := c.dependencyHashes()
	if err != nil {
		return err
	}

	c.entries[filename] = CacheEntry{
		Source:       source,
		Settings:     c.settings,
		Dependencies: deps,
		Report:       *report,
		CreatedAt:    time.Now(),
	}
	return c.save()
}

// Get returns the cached report for filename if it is still valid.
func (c *Cache) Get(filename string) (*types.Report, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[filename]
	if !ok {
		return nil, false
	}
	if !c.valid(filename, entry) {
		delete(c.entries, filename)
		return nil, false
	}

	report := entry.Report
	return &report, true
}

func (c *Cache) valid(filename string, entry CacheEntry) bool {
	if time.Since(entry.CreatedAt) > c.maxAge || entry.Settings != c.settings {
		return false
	}

	source, err := stampFile(filename)
	if err != nil || source.Hash != entry.Source.Hash || !source.ModTime.Equal(entry.Source.ModTime) {
		return false
	}

	deps, err := c.dependencyHashes()
	return err == nil && maps.Equal(deps, entry.Dependencies)
}

func (c *Cache) dependencyHashes() (map[string]string, error) {
	hashes := make(map[string]string, len(c.dependencies))
	for _, dep := range c.dependencies {
		stamp, err := stampFile(dep)
		switch {
		case errors.Is(err, os.ErrNotExist):
			hashes[dep] = ""
		case err != nil:
			return nil, err
		default:
			hashes[dep] = stamp.Hash
		}
	}
	return hashes, nil
}

// Clear drops every entry and persists the empty cache.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]CacheEntry)
	return c.save()
}

func stampFile(filename string) (fileStamp, error) {
	f, err := os.Open(filename)
	if err != nil {
		return fileStamp{}, err
	}
	defer f.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, f); err != nil {
		return fileStamp{}, fmt.Errorf("failed to hash %s: %w", filename, err)
	}
	info, err := f.Stat()
	if err != nil {
		return fileStamp{}, err
	}

	return fileStamp{
		Hash:    fmt.Sprintf("%x", hash.Sum(nil)),
		ModTime: info.ModTime(),
	}, nil
}
