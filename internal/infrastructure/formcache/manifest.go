package formcache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/formwright/formengine/internal/domain/form"
)

// ManifestEntry is the advisory compile-health record for one form checksum.
// The compiled graph and handler closures are never serialized here — only
// enough metadata for a caller to decide whether a recompile is worthwhile.
type ManifestEntry struct {
	Checksum    string        `json:"checksum"`
	NodeCount   int           `json:"node_count"`
	PseudoCount int           `json:"pseudo_count"`
	EdgeCount   int           `json:"edge_count"`
	CompiledAt  time.Time     `json:"compiled_at"`
	Duration    time.Duration `json:"duration_ns"`
}

type manifestFile struct {
	Version int                      `json:"version"`
	Entries map[string]ManifestEntry `json:"entries"`
}

// CompiledFormCache persists ManifestEntry records keyed by form checksum,
// grounded on the same atomic-rename JSON persistence idiom as Store — the
// formengine analogue of the teacher's internal/registry.StatusCache, which
// persisted the last known PipelineStatus per pipeline ID between CLI runs.
type CompiledFormCache struct {
	path string
	mu   sync.RWMutex

	entries map[string]ManifestEntry
}

func NewCompiledFormCache(path string) (*CompiledFormCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, form.NewDomainError(form.ErrCodeInternal, "failed to create form cache directory", err, map[string]interface{}{"path": path})
	}

	c := &CompiledFormCache{path: path, entries: make(map[string]ManifestEntry)}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return c, c.save()
	}
	return c, c.load()
}

func (c *CompiledFormCache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return form.NewDomainError(form.ErrCodeInternal, "failed to read form cache", err, map[string]interface{}{"path": c.path})
	}
	var mf manifestFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return form.NewDomainError(form.ErrCodeInvalid, "malformed form cache file", err, map[string]interface{}{"path": c.path})
	}
	if mf.Entries == nil {
		mf.Entries = make(map[string]ManifestEntry)
	}
	c.entries = mf.Entries
	return nil
}

func (c *CompiledFormCache) save() error {
	mf := manifestFile{Version: currentVersion, Entries: c.entries}
	data, err := json.MarshalIndent(mf, "", "  ")
	if err != nil {
		return form.NewDomainError(form.ErrCodeInternal, "failed to marshal form cache", err, nil)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return form.NewDomainError(form.ErrCodeInternal, "failed to write form cache", err, map[string]interface{}{"path": tmp})
	}
	return os.Rename(tmp, c.path)
}

// Lookup reports the manifest entry for checksum, if one is cached.
func (c *CompiledFormCache) Lookup(ctx context.Context, checksum string) (*ManifestEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[checksum]
	if !ok {
		return nil, false
	}
	return &e, true
}

// Record stores (or replaces) the manifest entry for checksum and persists it.
func (c *CompiledFormCache) Record(ctx context.Context, checksum string, entry ManifestEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry.Checksum = checksum
	c.entries[checksum] = entry
	return c.save()
}

// NeedsRecompile reports true when checksum is unknown to the cache — the
// caller should compile and then Record the result.
func (c *CompiledFormCache) NeedsRecompile(ctx context.Context, checksum string) bool {
	_, ok := c.Lookup(ctx, checksum)
	return !ok
}
