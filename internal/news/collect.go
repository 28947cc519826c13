package news

import (
	"context"

	"newsblog/internal/core"
	"newsblog/internal/logger"
)

// Collect searches for q and, when that yields nothing, retries once with
// FallbackQuery. Every returned item is stamped with the requested category.
// It returns the query that produced the items.
func Collect(ctx context.Context, s Searcher, q Query) ([]core.NewsItem, string, error) {
	query := BuildQuery(q)
	items, err := s.Search(ctx, query)
	if err != nil {
		return nil, query, err
	}

	if len(items) == 0 && query != FallbackQuery {
		logger.Info("No news for query, trying fallback", "query", query, "fallback", FallbackQuery)
		query = FallbackQuery
		items, err = s.Search(ctx, query)
		if err != nil {
			return nil, query, err
		}
	}

	category := q.Category()
	stamped := make([]core.NewsItem, len(items))
	for i, item := range items {
		item.Category = category
		stamped[i] = item
	}
	return stamped, query, nil
}
