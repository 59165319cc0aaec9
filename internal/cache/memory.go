package cache

import (
	"context"
	"sync"
	"time"

	"learntube-backend/internal/models"
)

type memoryEntry struct {
	transcript *models.Transcript
	storedAt   time.Time
}

// MemoryCache is an in-process TranscriptCache with TTL eviction on read.
// Used in tests and when no Redis is configured.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

func (c *MemoryCache) Get(_ context.Context, videoID string) (*models.Transcript, bool) {
	c.mu.RLock()
	entry, ok := c.entries[videoID]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if time.Since(entry.storedAt) > c.ttl {
		c.mu.Lock()
		delete(c.entries, videoID)
		c.mu.Unlock()
		return nil, false
	}

	return entry.transcript, true
}

func (c *MemoryCache) Set(_ context.Context, transcript *models.Transcript) {
	c.mu.Lock()
	c.entries[transcript.VideoID] = memoryEntry{
		transcript: transcript,
		storedAt:   time.Now(),
	}
	c.mu.Unlock()
}

func (c *MemoryCache) Clear(_ context.Context, videoID string) {
	c.mu.Lock()
	delete(c.entries, videoID)
	c.mu.Unlock()
}
