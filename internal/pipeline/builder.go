package pipeline

import (
	"time"

	"newsblog/internal/images"
	"newsblog/internal/news"
	"newsblog/internal/postprocess"
)

// Builder helps construct a fully configured Pipeline.
type Builder struct {
	searcher  news.Searcher
	generator Generator
	resolver  ImageResolver
	finalizer Finalizer
	config    *Config
}

// NewBuilder creates a builder with default settings.
func NewBuilder() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithSearcher sets the news searcher.
func (b *Builder) WithSearcher(s news.Searcher) *Builder {
	b.searcher = s
	return b
}

// WithGenerator sets the generation client.
func (b *Builder) WithGenerator(g Generator) *Builder {
	b.generator = g
	return b
}

// WithImageResolver sets the image resolver.
func (b *Builder) WithImageResolver(r ImageResolver) *Builder {
	b.resolver = r
	return b
}

// WithFinalizer overrides the default post-processor.
func (b *Builder) WithFinalizer(f Finalizer) *Builder {
	b.finalizer = f
	return b
}

// WithTimeout sets the wall-clock budget of a run.
func (b *Builder) WithTimeout(d time.Duration) *Builder {
	if d > 0 {
		b.config.Timeout = d
	}
	return b
}

// WithPerKeyword sets how many images are requested per keyword.
func (b *Builder) WithPerKeyword(n int) *Builder {
	if n > 0 {
		b.config.PerKeyword = n
	}
	return b
}

// WithMarkerStyle sets how images are written into the content.
func (b *Builder) WithMarkerStyle(s images.Style) *Builder {
	b.config.MarkerStyle = s
	return b
}

// WithGuidance replaces the per-category writing guidance.
func (b *Builder) WithGuidance(g map[string]string) *Builder {
	b.config.Guidance = g
	return b
}

// Build validates the dependencies and returns the pipeline.
func (b *Builder) Build() (*Pipeline, error) {
	return NewPipeline(b.searcher, b.generator, b.resolver, b.finalizer, b.config)
}

func postprocessFinalizer(label string) Finalizer {
	return postprocess.NewFinalizer(label)
}
