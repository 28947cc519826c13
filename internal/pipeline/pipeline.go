package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"newsblog/internal/core"
	"newsblog/internal/images"
	"newsblog/internal/llm"
	"newsblog/internal/logger"
	"newsblog/internal/news"
	"newsblog/internal/prompts"
	"newsblog/internal/recovery"
)

// DefaultTimeout bounds a whole run from the caller's side.
const DefaultTimeout = 3 * time.Minute

// Config holds pipeline settings.
type Config struct {
	Timeout     time.Duration
	PerKeyword  int
	MarkerStyle images.Style
	// Guidance overrides prompts.DefaultCategoryGuidance when set.
	Guidance map[string]string
}

// DefaultConfig returns the settings used when none are given.
func DefaultConfig() *Config {
	return &Config{
		Timeout:     DefaultTimeout,
		PerKeyword:  1,
		MarkerStyle: images.StyleHTML,
	}
}

// Request is one generation job.
type Request struct {
	Query news.Query `json:"query"`
	// PerKeyword overrides Config.PerKeyword when positive.
	PerKeyword int `json:"perKeyword"`
}

// Pipeline turns a news query into a finished blog record. Stages run
// strictly in sequence; a Pipeline holds no per-run state and may be reused.
type Pipeline struct {
	searcher  news.Searcher
	generator Generator
	resolver  ImageResolver
	finalizer Finalizer
	config    *Config
}

// NewPipeline wires the stages together. searcher and generator are required;
// a nil resolver resolves nothing and a nil finalizer stamps the generator's
// label when it has one.
func NewPipeline(searcher news.Searcher, generator Generator, resolver ImageResolver, finalizer Finalizer, config *Config) (*Pipeline, error) {
	if generator == nil {
		return nil, fmt.Errorf("pipeline requires a generator: %w", llm.ErrModelUnavailable)
	}
	if a, ok := generator.(availability); ok && !a.Available() {
		return nil, fmt.Errorf("pipeline requires a configured generator, set GEMINI_API_KEY: %w", llm.ErrModelUnavailable)
	}
	if searcher == nil {
		return nil, fmt.Errorf("pipeline requires a news searcher: %w", news.ErrMissingCredentials)
	}
	if config == nil {
		config = DefaultConfig()
	}
	if resolver == nil {
		resolver = images.NewResolver(nil, nil)
	}
	if finalizer == nil {
		label := ""
		if l, ok := generator.(labeler); ok {
			label = l.Label()
		}
		finalizer = postprocessFinalizer(label)
	}

	return &Pipeline{
		searcher:  searcher,
		generator: generator,
		resolver:  resolver,
		finalizer: finalizer,
		config:    config,
	}, nil
}

// Config returns the pipeline settings.
func (p *Pipeline) Config() Config {
	return *p.config
}

// Searcher returns the news searcher the pipeline uses.
func (p *Pipeline) Searcher() news.Searcher {
	return p.searcher
}

// Run executes every stage and returns the finished record. Any error is a
// *Failure. Panics inside a stage are recovered and reported as failures.
func (p *Pipeline) Run(ctx context.Context, req Request, onProgress ProgressFunc) (record *core.BlogRecord, err error) {
	runID := uuid.NewString()
	t := newTracker(onProgress)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			record = nil
			err = &Failure{State: t.current(), Reason: fmt.Sprintf("unexpected error: %v", r), Err: fmt.Errorf("panic: %v", r)}
		}
		if err != nil {
			var f *Failure
			if errors.As(err, &f) {
				t.fail(f.Reason)
			}
			logger.Error("Blog generation failed", err, "run_id", runID, "duration_ms", time.Since(start).Milliseconds())
			return
		}
		logger.Info("Blog generation completed", "run_id", runID,
			"title", record.Title,
			"word_count", record.WordCount,
			"duration_ms", time.Since(start).Milliseconds())
	}()

	logger.Info("Blog generation started", "run_id", runID,
		"keyword", req.Query.Keyword,
		"category_id", req.Query.CategoryID,
		"category", req.Query.CategoryName)

	// Searching
	t.enter(SearchingNews)
	items, query, err := news.Collect(ctx, p.searcher, req.Query)
	if err != nil {
		if f := interrupted(ctx, SearchingNews); f != nil {
			return nil, f
		}
		return nil, searchFailure(err)
	}
	if len(items) == 0 {
		return nil, &Failure{State: SearchingNews, Reason: ErrNoNews.Error(), Err: ErrNoNews}
	}
	logger.Info("News collected", "run_id", runID, "query", query, "results", len(items))

	// Ranking
	if f := p.advance(ctx, t, RankingNews); f != nil {
		return nil, f
	}
	ranked := news.Rank(items)
	item := ranked[0].Item
	logger.Info("News selected", "run_id", runID, "title", item.Title, "score", ranked[0].Score)

	// Composing
	if f := p.advance(ctx, t, Composing); f != nil {
		return nil, f
	}
	prompt := prompts.Compose(item, p.config.Guidance, prompts.ContextForItem(item))

	// Generating
	if f := p.advance(ctx, t, Generating); f != nil {
		return nil, f
	}
	raw, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		if f := interrupted(ctx, Generating); f != nil {
			return nil, f
		}
		return nil, generationFailure(err)
	}

	// Recovering
	if f := p.advance(ctx, t, Recovering); f != nil {
		return nil, f
	}
	draft, tier := recovery.RecoverWithTier(raw)
	logger.Info("Draft recovered", "run_id", runID, "tier", tier.String(), "keywords", len(draft.ImageKeywords))

	// Resolving images
	if f := p.advance(ctx, t, ResolvingImages); f != nil {
		return nil, f
	}
	perKeyword := req.PerKeyword
	if perKeyword <= 0 {
		perKeyword = p.config.PerKeyword
	}
	resolved := p.resolver.Resolve(ctx, draft.ImageKeywords, perKeyword)
	images.Apply(&draft, resolved, p.config.MarkerStyle)

	// Finalizing
	if f := p.advance(ctx, t, Finalizing); f != nil {
		return nil, f
	}
	rec := p.finalizer.Finalize(draft, item)

	t.enter(Done)
	return &rec, nil
}

// advance checks for cancellation between stages, then enters next.
func (p *Pipeline) advance(ctx context.Context, t *tracker, next State) *Failure {
	if f := interrupted(ctx, t.current()); f != nil {
		return f
	}
	t.enter(next)
	return nil
}

func interrupted(ctx context.Context, state State) *Failure {
	switch err := ctx.Err(); {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return &Failure{State: state, Reason: "timed out", Err: fmt.Errorf("%w: %w", ErrTimeout, err)}
	default:
		return &Failure{State: state, Reason: "cancelled", Err: fmt.Errorf("%w: %w", ErrCancelled, err)}
	}
}

func searchFailure(err error) *Failure {
	reason := fmt.Sprintf("news search failed: %v", err)
	if hint := news.Hint(err); hint != "" {
		reason = fmt.Sprintf("%s (%s)", reason, hint)
	}
	return &Failure{State: SearchingNews, Reason: reason, Err: err}
}

func generationFailure(err error) *Failure {
	if errors.Is(err, llm.ErrModelUnavailable) {
		return &Failure{State: Generating, Reason: "generation model is not available; set GEMINI_API_KEY", Err: err}
	}
	return &Failure{State: Generating, Reason: fmt.Sprintf("blog generation failed: %v", err), Err: err}
}
