// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// article.go provides a Valkey-backed article read cache. Article reads by
// slug are served from Valkey when possible, skipping the database; every
// write path for an article invalidates its entry, so the cache can serve
// stale data only within the TTL window after an external change.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"inkwell/internal/models"
)

const (
	// articleKeyPrefix is the Valkey key prefix for cached articles.
	articleKeyPrefix = "article:"

	// DefaultArticleTTL is how long a cached article stays valid.
	DefaultArticleTTL = 5 * time.Minute
)

// ArticleCache stores JSON-serialized articles keyed by slug.
type ArticleCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewArticleCache creates a new article cache backed by the given Valkey client.
func NewArticleCache(client *redis.Client, ttl time.Duration) *ArticleCache {
	if ttl == 0 {
		ttl = DefaultArticleTTL
	}
	return &ArticleCache{client: client, ttl: ttl}
}

// Get retrieves a cached article by slug. Returns false on miss or on any
// cache failure — the caller falls back to the database either way.
func (ac *ArticleCache) Get(ctx context.Context, slug string) (*models.Article, bool) {
	val, err := ac.client.Get(ctx, articleKeyPrefix+slug).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("article cache get error", "slug", slug, "error", err)
		return nil, false
	}

	var a models.Article
	if err := json.Unmarshal(val, &a); err != nil {
		slog.Warn("article cache decode error", "slug", slug, "error", err)
		return nil, false
	}
	slog.Debug("article cache hit", "slug", slug)
	return &a, true
}

// Set stores an article under its slug with the configured TTL.
func (ac *ArticleCache) Set(ctx context.Context, a *models.Article) {
	val, err := json.Marshal(a)
	if err != nil {
		slog.Warn("article cache encode error", "slug", a.Slug, "error", err)
		return
	}
	if err := ac.client.Set(ctx, articleKeyPrefix+a.Slug, val, ac.ttl).Err(); err != nil {
		slog.Warn("article cache set error", "slug", a.Slug, "error", err)
	}
}

// Invalidate removes a single article from the cache by its slug. Called on
// every update, delete, favorite, and unfavorite.
func (ac *ArticleCache) Invalidate(ctx context.Context, slug string) {
	if err := ac.client.Del(ctx, articleKeyPrefix+slug).Err(); err != nil {
		slog.Warn("article cache invalidate error", "slug", slug, "error", err)
	}
	slog.Debug("article cache invalidated", "slug", slug)
}

// InvalidateAll removes all cached articles by scanning for the prefix.
func (ac *ArticleCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := ac.client.Scan(ctx, cursor, articleKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("article cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := ac.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("article cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("article cache fully cleared", "deleted", deleted)
	}
}
