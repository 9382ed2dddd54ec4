package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erraggy/xsd2oas/config"
	"github.com/erraggy/xsd2oas/converter"
	"github.com/erraggy/xsd2oas/internal/source"
)

// bundleInput represents the two ways a documentation bundle can be
// provided to a tool. Exactly one of Path or Files must be set.
type bundleInput struct {
	Path  string            `json:"path,omitempty"  jsonschema:"Path to a bundle zip archive or an unpacked bundle directory"`
	Files map[string]string `json:"files,omitempty" jsonschema:"Inline schema files keyed by bundle path (e.g. doc/etc/1.5/schemas/master/common.xsd)"`
}

// cacheEntry holds a cached conversion with LRU ordering and TTL expiry.
type cacheEntry struct {
	result    *converter.ConversionResult
	insertAt  time.Time
	expiresAt time.Time
}

// bundleCacheStore provides a session-scoped cache for converted bundles.
// Path inputs are keyed by (absolutePath, modTime). Inline files are keyed
// by a SHA-256 hash over their names and contents.
type bundleCacheStore struct {
	mu             sync.Mutex
	entries        map[string]*cacheEntry
	maxSize        int
	sweeperStarted atomic.Bool
}

var bundleCache = &bundleCacheStore{
	entries: make(map[string]*cacheEntry),
	maxSize: cfg.CacheMaxSize,
}

// get returns a cached result or nil. Expired entries are lazily removed.
func (c *bundleCacheStore) get(key string) *converter.ConversionResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
			delete(c.entries, key)
			return nil
		}
		// Touch entry for LRU.
		e.insertAt = time.Now()
		return e.result
	}
	return nil
}

// putWithTTL stores a result, evicting the least recently used entry if at capacity.
func (c *bundleCacheStore) putWithTTL(key string, result *converter.ConversionResult, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry := &cacheEntry{result: result, insertAt: now, expiresAt: now.Add(ttl)}

	if _, ok := c.entries[key]; ok {
		c.entries[key] = entry
		return
	}

	if len(c.entries) >= c.maxSize {
		var oldestKey string
		var oldestTime time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.insertAt.Before(oldestTime) {
				oldestKey = k
				oldestTime = e.insertAt
			}
		}
		if oldestKey != "" {
			delete(c.entries, oldestKey)
		}
	}

	c.entries[key] = entry
}

// sweep removes all expired entries from the cache.
func (c *bundleCacheStore) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// startSweeper launches a background goroutine that periodically removes
// expired entries. Only the first call spawns a sweeper; it stops when ctx
// is cancelled.
func (c *bundleCacheStore) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	if !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

// reset clears all cached entries. Used in tests.
func (c *bundleCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// size returns the number of cached entries.
func (c *bundleCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// makeCacheKey creates a cache key for the given bundle input. It returns
// the empty string when the input cannot be keyed.
func makeCacheKey(b bundleInput) string {
	switch {
	case b.Path != "":
		absPath, err := filepath.Abs(b.Path)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("path:%s:%d", absPath, info.ModTime().UnixNano())
	case len(b.Files) > 0:
		names := make([]string, 0, len(b.Files))
		for name := range b.Files {
			names = append(names, name)
		}
		slices.Sort(names)
		h := sha256.New()
		for _, name := range names {
			h.Write([]byte(name))
			h.Write([]byte{0})
			h.Write([]byte(b.Files[name]))
			h.Write([]byte{0})
		}
		return "files:" + hex.EncodeToString(h.Sum(nil))
	default:
		return ""
	}
}

// validate checks that exactly one input is set and inline files are
// within limits.
func (b bundleInput) validate() error {
	if (b.Path != "") == (len(b.Files) > 0) {
		return fmt.Errorf("exactly one of path or files must be provided")
	}
	if len(b.Files) > cfg.MaxInlineFiles {
		return fmt.Errorf("%d inline files exceeds maximum %d; use path input instead, or set XSD2OAS_MAX_INLINE_FILES to increase",
			len(b.Files), cfg.MaxInlineFiles)
	}
	var total int64
	for _, content := range b.Files {
		total += int64(len(content))
	}
	if total > cfg.MaxInlineSize {
		return fmt.Errorf("inline files total %d bytes exceeds maximum %d bytes; use path input instead, or set XSD2OAS_MAX_INLINE_SIZE to increase",
			total, cfg.MaxInlineSize)
	}
	return nil
}

// sourceOption returns the converter option selecting the bundle.
func (b bundleInput) sourceOption() converter.Option {
	if b.Path != "" {
		return converter.WithBundle(b.Path)
	}
	files := make([]source.File, 0, len(b.Files))
	for name, content := range b.Files {
		files = append(files, source.File{Name: name, Data: []byte(content)})
	}
	return converter.WithFiles(files...)
}

// convert runs the converter over the bundle. Extra options bypass the
// cache since results with different options cannot share an entry.
func (b bundleInput) convert(extraOpts ...converter.Option) (*converter.ConversionResult, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	var key string
	if cfg.CacheEnabled && len(extraOpts) == 0 {
		key = makeCacheKey(b)
	}
	if key != "" {
		if cached := bundleCache.get(key); cached != nil {
			return cached, nil
		}
	}

	convCfg, err := conversionConfig()
	if err != nil {
		return nil, err
	}

	opts := []converter.Option{
		b.sourceOption(),
		converter.WithConfig(convCfg),
		converter.WithLogger(converter.NewSlogAdapter(slog.Default())),
	}
	opts = append(opts, extraOpts...)

	result, err := converter.ConvertWithOptions(opts...)
	if err != nil {
		return nil, err
	}

	if key != "" {
		bundleCache.putWithTTL(key, result, cfg.CacheTTL)
	}
	return result, nil
}

// conversionConfig returns a fresh configuration, read from
// XSD2OAS_CONFIG when set.
func conversionConfig() (*config.Config, error) {
	if strings.TrimSpace(cfg.ConfigFile) == "" {
		return config.Default(), nil
	}
	return config.Load(cfg.ConfigFile)
}
