package cache

import (
	"sync"
	"time"

	"github.com/lysyi3m/bandcamp-comb/app/feed"
)

// Entry is one generated document and the time its pipeline run started.
type Entry struct {
	Document    []byte
	GeneratedAt time.Time
}

// FreshnessCache keeps the last document per variant for the lifetime of the process.
type FreshnessCache struct {
	ttl     time.Duration
	entries map[feed.Variant]Entry
	mu      sync.RWMutex
}

func NewFreshnessCache(ttl time.Duration) *FreshnessCache {
	return &FreshnessCache{
		ttl:     ttl,
		entries: make(map[feed.Variant]Entry, len(feed.Variants)),
	}
}

func (c *FreshnessCache) Get(variant feed.Variant) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[variant]
	return entry, ok
}

func (c *FreshnessCache) IsValid(entry Entry, now time.Time) bool {
	if entry.Document == nil {
		return false
	}
	return now.Sub(entry.GeneratedAt) < c.ttl
}

// Lookup returns the entry for variant only while it is still fresh.
func (c *FreshnessCache) Lookup(variant feed.Variant, now time.Time) (Entry, bool) {
	entry, ok := c.Get(variant)
	if !ok || !c.IsValid(entry, now) {
		return Entry{}, false
	}
	return entry, true
}

func (c *FreshnessCache) Put(variant feed.Variant, document []byte, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[variant] = Entry{Document: document, GeneratedAt: now}
}

func (c *FreshnessCache) TTL() time.Duration {
	return c.ttl
}

// Stats reports the age of every cached variant.
func (c *FreshnessCache) Stats(now time.Time) map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := make(map[string]interface{}, len(c.entries))
	for variant, entry := range c.entries {
		stats[variant.String()] = map[string]interface{}{
			"generated_at": entry.GeneratedAt.Format(time.RFC3339),
			"age":          now.Sub(entry.GeneratedAt).Round(time.Second).String(),
			"fresh":        now.Sub(entry.GeneratedAt) < c.ttl,
			"bytes":        len(entry.Document),
		}
	}
	return stats
}
