// Copyright (c) 2026 Fablery. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package story

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/fablery/internal/platform/constants"
	"github.com/taibuivan/fablery/pkg/slug"
)

// # Redis Tag Cache

// TagCache keeps recently fetched uniqueness-tag samples in Redis so the
// generation hot path does not hit PostgreSQL on every request.
type TagCache struct {
	client *redis.Client
}

// NewTagCache constructs a [TagCache] over an existing Redis client.
func NewTagCache(client *redis.Client) *TagCache {
	return &TagCache{client: client}
}

// tagKey builds the Redis key for a topic's tag sample. Custom topics are
// free-form Unicode text, so the topic is slugified for key hygiene.
// Topics with no ASCII representation (e.g. Cyrillic) keep their raw form.
func tagKey(topic string) string {
	key := slug.From(topic)
	if key == "" {
		key = topic
	}
	return constants.RedisPrefixUniquenessTags + key
}

/*
Get returns the cached tag sample for a topic.

Returns:
  - []string: The cached tags
  - bool: false on a cache miss
  - error: Transport failures (a miss is not an error)
*/
func (cache *TagCache) Get(context context.Context, topic string) ([]string, bool, error) {
	payload, err := cache.client.Get(context, tagKey(topic)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis: failed to read tag cache: %w", err)
	}

	var tags []string
	if err := json.Unmarshal([]byte(payload), &tags); err != nil {
		// Corrupt entries behave like a miss; the caller will refresh.
		return nil, false, nil
	}

	return tags, true, nil
}

/*
Set stores a tag sample for a topic with the standard TTL.
*/
func (cache *TagCache) Set(context context.Context, topic string, tags []string) error {
	payload, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("redis: failed to encode tag cache entry: %w", err)
	}

	if err := cache.client.Set(context, tagKey(topic), payload, constants.UniquenessTagCacheTTL).Err(); err != nil {
		return fmt.Errorf("redis: failed to write tag cache: %w", err)
	}

	return nil
}

/*
Invalidate drops the cached sample for a topic. Called after a new story
is persisted so the next generation sees its tags.
*/
func (cache *TagCache) Invalidate(context context.Context, topic string) error {
	if err := cache.client.Del(context, tagKey(topic)).Err(); err != nil {
		return fmt.Errorf("redis: failed to invalidate tag cache: %w", err)
	}
	return nil
}
