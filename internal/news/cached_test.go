package news

import (
	"context"
	"errors"
	"testing"
	"time"

	"newsblog/internal/cache"
	"newsblog/internal/core"
)

type countingSearcher struct {
	calls int
	items []core.NewsItem
	err   error
}

func (s *countingSearcher) Search(_ context.Context, _ string) ([]core.NewsItem, error) {
	s.calls++
	return s.items, s.err
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("cache down")
}

func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("cache down")
}

func TestCachedSearcher_ServesRepeatsFromCache(t *testing.T) {
	inner := &countingSearcher{items: []core.NewsItem{{Title: "경제 뉴스", OriginalLink: "https://example.com/1"}}}
	s := NewCachedSearcher(inner, cache.NewMemory(), time.Minute)
	ctx := context.Background()

	first, err := s.Search(ctx, "경제")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	second, err := s.Search(ctx, "경제")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if inner.calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", inner.calls)
	}
	if len(second) != 1 || second[0] != first[0] {
		t.Errorf("cached result differs: %+v vs %+v", second, first)
	}

	if _, err := s.Search(ctx, "정치"); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("different query should miss the cache, calls=%d", inner.calls)
	}
}

func TestCachedSearcher_DoesNotCacheEmptyOrErrors(t *testing.T) {
	inner := &countingSearcher{}
	s := NewCachedSearcher(inner, cache.NewMemory(), time.Minute)
	ctx := context.Background()

	_, _ = s.Search(ctx, "q")
	_, _ = s.Search(ctx, "q")
	if inner.calls != 2 {
		t.Errorf("empty results should not be cached, calls=%d", inner.calls)
	}

	inner.err = &SearchError{Kind: ErrRateLimited, Status: 429}
	_, err := s.Search(ctx, "q")
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected rate limit error to pass through, got %v", err)
	}
}

func TestCachedSearcher_IgnoresCacheFailures(t *testing.T) {
	inner := &countingSearcher{items: []core.NewsItem{{Title: "뉴스"}}}
	s := NewCachedSearcher(inner, brokenCache{}, time.Minute)

	items, err := s.Search(context.Background(), "q")
	if err != nil {
		t.Fatalf("cache failures must not fail the search: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected 1 item, got %d", len(items))
	}
}
