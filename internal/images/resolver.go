package images

import (
	"context"
	"strings"

	"newsblog/internal/core"
	"newsblog/internal/logger"
)

// MaxKeywords is the number of marker slots a post layout has.
const MaxKeywords = 2

// Resolver looks up images for draft keywords, primary provider first.
type Resolver struct {
	primary   Provider
	secondary Provider
}

// NewResolver builds a resolver. Either provider may be nil.
func NewResolver(primary, secondary Provider) *Resolver {
	return &Resolver{primary: primary, secondary: secondary}
}

// FromKeys builds a resolver over Unsplash and Pixabay, skipping providers
// whose key is empty.
func FromKeys(unsplashKey, pixabayKey string, opts ...ProviderOption) *Resolver {
	r := &Resolver{}
	if k := strings.TrimSpace(unsplashKey); k != "" {
		r.primary = NewUnsplash(k, opts...)
	}
	if k := strings.TrimSpace(pixabayKey); k != "" {
		r.secondary = NewPixabay(k, opts...)
	}
	return r
}

// Configured reports whether any provider is available.
func (r *Resolver) Configured() bool {
	return r != nil && (r.primary != nil || r.secondary != nil)
}

// Resolve returns a map with one entry per keyword (at most MaxKeywords),
// keyed 이미지_1, 이미지_2. Provider failures become empty entries.
func (r *Resolver) Resolve(ctx context.Context, keywords []string, perKeyword int) core.ImageMarkerMap {
	if perKeyword <= 0 {
		perKeyword = 1
	}
	if len(keywords) > MaxKeywords {
		keywords = keywords[:MaxKeywords]
	}

	result := make(core.ImageMarkerMap, len(keywords))
	for i, keyword := range keywords {
		key := core.MarkerKey(i + 1)
		images := r.lookup(ctx, strings.TrimSpace(keyword), perKeyword)
		if images == nil {
			images = []core.ResolvedImage{}
		}
		result[key] = images
		logger.Info("Image search completed", "keyword", keyword, "marker", key, "images_found", len(images))
	}
	return result
}

func (r *Resolver) lookup(ctx context.Context, keyword string, count int) []core.ResolvedImage {
	if r == nil || keyword == "" {
		return nil
	}
	images := search(ctx, r.primary, keyword, count)
	if len(images) == 0 {
		images = search(ctx, r.secondary, keyword, count)
	}
	return images
}

func search(ctx context.Context, p Provider, keyword string, count int) []core.ResolvedImage {
	if p == nil {
		return nil
	}
	images, err := p.Search(ctx, keyword, count)
	if err != nil {
		logger.Warn("Image provider failed", "provider", string(p.Source()), "keyword", keyword, "error", err.Error())
		return nil
	}
	return images
}
