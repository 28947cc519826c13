package news

import (
	"context"
	"encoding/json"
	"time"

	"newsblog/internal/cache"
	"newsblog/internal/core"
	"newsblog/internal/logger"
)

const cacheKeyPrefix = "newsblog:news:"

// CachedSearcher serves repeated queries from a cache to spare the API quota.
// Cache failures never fail a search.
type CachedSearcher struct {
	next  Searcher
	store cache.Cache
	ttl   time.Duration
}

// NewCachedSearcher wraps next. A nil store or non-positive ttl disables caching.
func NewCachedSearcher(next Searcher, store cache.Cache, ttl time.Duration) *CachedSearcher {
	return &CachedSearcher{next: next, store: store, ttl: ttl}
}

// Search returns cached results when present, otherwise delegates and stores
// non-empty results.
func (s *CachedSearcher) Search(ctx context.Context, query string) ([]core.NewsItem, error) {
	if s.store == nil || s.ttl <= 0 {
		return s.next.Search(ctx, query)
	}

	key := cacheKeyPrefix + query
	if data, ok, err := s.store.Get(ctx, key); err != nil {
		logger.Warn("News cache read failed", "query", query, "error", err.Error())
	} else if ok {
		var items []core.NewsItem
		if err := json.Unmarshal(data, &items); err == nil {
			logger.Debug("News cache hit", "query", query, "results", len(items))
			return items, nil
		}
	}

	items, err := s.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	data, err := json.Marshal(items)
	if err == nil {
		err = s.store.Set(ctx, key, data, s.ttl)
	}
	if err != nil {
		logger.Warn("News cache write failed", "query", query, "error", err.Error())
	}
	return items, nil
}
