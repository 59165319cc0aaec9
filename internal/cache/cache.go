package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"learntube-backend/internal/models"
)

// TranscriptCache maps a video ID to its fetched transcript for a fixed TTL.
// The cache is advisory: a Get miss (or error) just means the caller fetches
// again, and concurrent misses for the same video may both fetch and both
// write; entries are idempotent per video ID so last writer wins.
type TranscriptCache interface {
	Get(ctx context.Context, videoID string) (*models.Transcript, bool)
	Set(ctx context.Context, transcript *models.Transcript)
	Clear(ctx context.Context, videoID string)
}

// RedisCache is the production implementation.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func transcriptKey(videoID string) string {
	return fmt.Sprintf("transcript:%s", videoID)
}

func (c *RedisCache) Get(ctx context.Context, videoID string) (*models.Transcript, bool) {
	val, err := c.client.Get(ctx, transcriptKey(videoID)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("transcript cache read failed for %s: %v", videoID, err)
		return nil, false
	}

	var transcript models.Transcript
	if err := json.Unmarshal([]byte(val), &transcript); err != nil {
		log.Printf("transcript cache entry for %s is corrupt, dropping: %v", videoID, err)
		c.Clear(ctx, videoID)
		return nil, false
	}

	return &transcript, true
}

func (c *RedisCache) Set(ctx context.Context, transcript *models.Transcript) {
	data, err := json.Marshal(transcript)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, transcriptKey(transcript.VideoID), data, c.ttl).Err(); err != nil {
		log.Printf("transcript cache write failed for %s: %v", transcript.VideoID, err)
	}
}

func (c *RedisCache) Clear(ctx context.Context, videoID string) {
	c.client.Del(ctx, transcriptKey(videoID))
}
