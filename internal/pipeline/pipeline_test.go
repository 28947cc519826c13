package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"newsblog/internal/core"
	"newsblog/internal/images"
	"newsblog/internal/llm"
	"newsblog/internal/news"
	"newsblog/internal/postprocess"
)

const scenarioDraft = "```json\n{\"title\":\"T\",\"content\":\"[이미지_1]\",\"conclusion\":\"C\",\"imageKeywords\":[\"cat\"],\"tags\":[\"#x\"]}\n```"

type fakeSearcher struct {
	mu      sync.Mutex
	results map[string][]core.NewsItem
	err     error
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, query string) ([]core.NewsItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

type fakeGenerator struct {
	text   string
	err    error
	panic  any
	block  chan struct{}
	prompt string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.panic != nil {
		panic(f.panic)
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.text, f.err
}

func (f *fakeGenerator) Label() string { return "fake model" }

type recordingProgress struct {
	mu     sync.Mutex
	events []Progress
}

func (r *recordingProgress) record(p Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, p)
}

func (r *recordingProgress) snapshot() []Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Progress(nil), r.events...)
}

func newTestPipeline(t *testing.T, s news.Searcher, g Generator) *Pipeline {
	t.Helper()
	fixed := time.Date(2024, 10, 15, 9, 0, 0, 0, time.Local)
	p, err := NewBuilder().
		WithSearcher(s).
		WithGenerator(g).
		WithFinalizer(&postprocess.Finalizer{Label: "fake model", Now: func() time.Time { return fixed }}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return p
}

func TestRun_EndToEndWithoutImageProviders(t *testing.T) {
	s := &fakeSearcher{results: map[string][]core.NewsItem{
		"경제": {
			{Title: "날씨 소식", OriginalLink: "https://example.com/weather"},
			{Title: "정책 개혁 발표", OriginalLink: "https://example.com/reform", PubDate: "Tue, 15 Oct 2024 09:00:00 +0900"},
		},
	}}
	g := &fakeGenerator{text: scenarioDraft}
	p := newTestPipeline(t, s, g)
	progress := &recordingProgress{}

	rec, err := p.Run(context.Background(), Request{Query: news.Query{CategoryID: "101"}}, progress.record)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if rec.Title != "T" || rec.Conclusion != "C" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.Content != "" {
		t.Errorf("marker should be removed, got %q", rec.Content)
	}
	if len(rec.Images) != 1 || rec.Images["이미지_1"] == nil || len(rec.Images["이미지_1"]) != 0 {
		t.Errorf("expected one empty image entry, got %#v", rec.Images)
	}
	if rec.SourceNews.Title != "정책 개혁 발표" || rec.SourceNews.URL != "https://example.com/reform" {
		t.Errorf("expected the keyword headline to be selected, got %+v", rec.SourceNews)
	}
	if rec.GeneratorLabel != "fake model" || rec.EstimatedReadMinutes != 1 {
		t.Errorf("unexpected metadata: %+v", rec)
	}
	if !strings.Contains(g.prompt, "카테고리: 경제") {
		t.Error("prompt should carry the requested category")
	}

	events := progress.snapshot()
	wantStates := []State{SearchingNews, RankingNews, Composing, Generating, Recovering, ResolvingImages, Finalizing, Done}
	if len(events) != len(wantStates) {
		t.Fatalf("expected %d progress events, got %d: %+v", len(wantStates), len(events), events)
	}
	for i, ev := range events {
		if ev.State != wantStates[i] {
			t.Errorf("event %d: expected %s, got %s", i, wantStates[i], ev.State)
		}
		if i > 0 && ev.Percent < events[i-1].Percent {
			t.Errorf("progress went backwards at %d: %d < %d", i, ev.Percent, events[i-1].Percent)
		}
	}
	if events[len(events)-1].Percent != 100 {
		t.Errorf("expected 100%% at Done, got %d", events[len(events)-1].Percent)
	}
}

func TestRun_NoNewsFound(t *testing.T) {
	s := &fakeSearcher{}
	g := &fakeGenerator{text: scenarioDraft}
	p := newTestPipeline(t, s, g)
	progress := &recordingProgress{}

	rec, err := p.Run(context.Background(), Request{Query: news.Query{Keyword: "없는뉴스"}}, progress.record)
	if rec != nil {
		t.Fatal("expected no record")
	}

	var f *Failure
	if !errors.As(err, &f) {
		t.Fatalf("expected *Failure, got %T", err)
	}
	if f.Reason != "no news found" || !errors.Is(err, ErrNoNews) {
		t.Errorf("unexpected failure: %v", err)
	}
	if f.State != SearchingNews {
		t.Errorf("expected failure while searching, got %s", f.State)
	}
	if len(s.queries) != 2 || s.queries[1] != news.FallbackQuery {
		t.Errorf("expected one fallback search, got %v", s.queries)
	}
	if g.prompt != "" {
		t.Error("generator must not be called")
	}

	events := progress.snapshot()
	last := events[len(events)-1]
	if last.State != Failed || last.Percent != 10 {
		t.Errorf("expected Failed at 10%%, got %+v", last)
	}
}

func TestRun_SearchErrorsKeepTheirKind(t *testing.T) {
	tests := []struct {
		name string
		kind error
	}{
		{"auth", news.ErrAuth},
		{"rate limit", news.ErrRateLimited},
		{"bad query", news.ErrBadQuery},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &fakeSearcher{err: &news.SearchError{Kind: tt.kind, Status: 400}}
			p := newTestPipeline(t, s, &fakeGenerator{text: scenarioDraft})

			_, err := p.Run(context.Background(), Request{}, nil)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
			if !strings.Contains(err.Error(), tt.kind.Error()) {
				t.Errorf("message should name the cause: %v", err)
			}
		})
	}
}

func TestRun_ModelUnavailable(t *testing.T) {
	s := &fakeSearcher{results: map[string][]core.NewsItem{news.FallbackQuery: {{Title: "뉴스"}}}}
	p := newTestPipeline(t, s, &fakeGenerator{err: llm.ErrModelUnavailable})

	_, err := p.Run(context.Background(), Request{}, nil)
	var f *Failure
	if !errors.As(err, &f) || f.State != Generating {
		t.Fatalf("expected failure while generating, got %v", err)
	}
	if !errors.Is(err, llm.ErrModelUnavailable) {
		t.Errorf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestRun_MalformedOutputStillCompletes(t *testing.T) {
	s := &fakeSearcher{results: map[string][]core.NewsItem{news.FallbackQuery: {{Title: "뉴스"}}}}
	p := newTestPipeline(t, s, &fakeGenerator{text: "모델이 JSON 대신 평문으로 답했습니다."})

	rec, err := p.Run(context.Background(), Request{}, nil)
	if err != nil {
		t.Fatalf("malformed output must not fail the run: %v", err)
	}
	if rec.Title != "AI 생성 블로그" {
		t.Errorf("expected fallback draft, got %q", rec.Title)
	}
	if len(rec.Images) != 2 {
		t.Errorf("fallback keywords should produce two image entries, got %d", len(rec.Images))
	}
}

func TestRun_PanicBecomesFailure(t *testing.T) {
	s := &fakeSearcher{results: map[string][]core.NewsItem{news.FallbackQuery: {{Title: "뉴스"}}}}
	p := newTestPipeline(t, s, &fakeGenerator{panic: "boom"})

	rec, err := p.Run(context.Background(), Request{}, nil)
	if rec != nil {
		t.Error("expected no record")
	}
	var f *Failure
	if !errors.As(err, &f) {
		t.Fatalf("expected *Failure, got %v", err)
	}
	if f.State != Generating || !strings.Contains(f.Reason, "boom") {
		t.Errorf("unexpected failure: %+v", f)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	s := &fakeSearcher{results: map[string][]core.NewsItem{news.FallbackQuery: {{Title: "뉴스"}}}}
	p := newTestPipeline(t, s, &fakeGenerator{text: scenarioDraft})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx, Request{}, nil)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestRunWithTimeout_AbandonsSlowRuns(t *testing.T) {
	s := &fakeSearcher{results: map[string][]core.NewsItem{news.FallbackQuery: {{Title: "뉴스"}}}}
	g := &fakeGenerator{text: scenarioDraft, block: make(chan struct{})}
	defer close(g.block)

	p, err := NewBuilder().WithSearcher(s).WithGenerator(g).WithTimeout(50 * time.Millisecond).Build()
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	rec, err := p.RunWithTimeout(context.Background(), Request{}, nil)
	if rec != nil {
		t.Error("expected no record")
	}
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	var f *Failure
	if errors.As(err, &f) && f.State != Generating {
		t.Errorf("expected the timeout to be reported while generating, got %s", f.State)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("caller waited far beyond the timeout")
	}
}

func TestStart_DeliversResult(t *testing.T) {
	s := &fakeSearcher{results: map[string][]core.NewsItem{"반도체": {{Title: "반도체 수출"}}}}
	p := newTestPipeline(t, s, &fakeGenerator{text: scenarioDraft})

	r := <-p.Start(context.Background(), Request{Query: news.Query{Keyword: "반도체"}}, time.Minute, nil)
	if r.Err != nil {
		t.Fatalf("unexpected error: %v", r.Err)
	}
	if r.Record == nil || r.Record.SourceNews.Title != "반도체 수출" {
		t.Errorf("unexpected record: %+v", r.Record)
	}
}

// cancellingFinalizer cancels the caller's context once the record is built.
type cancellingFinalizer struct {
	cancel context.CancelFunc
}

func (f *cancellingFinalizer) Finalize(draft core.GenerationDraft, item core.NewsItem) core.BlogRecord {
	rec := postprocess.NewFinalizer("fake model").Finalize(draft, item)
	f.cancel()
	return rec
}

func TestStart_KeepsRecordFinishedAsCallerCancels(t *testing.T) {
	s := &fakeSearcher{results: map[string][]core.NewsItem{"반도체": {{Title: "반도체 수출"}}}}

	for i := 0; i < 20; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		p, err := NewBuilder().
			WithSearcher(s).
			WithGenerator(&fakeGenerator{text: scenarioDraft}).
			WithFinalizer(&cancellingFinalizer{cancel: cancel}).
			Build()
		if err != nil {
			t.Fatal(err)
		}

		r := <-p.Start(ctx, Request{Query: news.Query{Keyword: "반도체"}}, time.Minute, nil)
		cancel()
		if r.Err != nil || r.Record == nil {
			t.Fatalf("run %d: expected the finished record, got err=%v", i, r.Err)
		}
	}
}

func TestStart_CallerCancelStopsRun(t *testing.T) {
	s := &fakeSearcher{results: map[string][]core.NewsItem{news.FallbackQuery: {{Title: "뉴스"}}}}
	g := &fakeGenerator{text: scenarioDraft, block: make(chan struct{})}
	defer close(g.block)
	p := newTestPipeline(t, s, g)

	ctx, cancel := context.WithCancel(context.Background())
	results := p.Start(ctx, Request{}, time.Minute, nil)
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case r := <-results:
		if !errors.Is(r.Err, ErrCancelled) {
			t.Errorf("expected ErrCancelled, got %v", r.Err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("cancellation was not delivered")
	}
}

func TestNewPipeline_RequiresGenerator(t *testing.T) {
	_, err := NewBuilder().WithSearcher(&fakeSearcher{}).Build()
	if !errors.Is(err, llm.ErrModelUnavailable) {
		t.Errorf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestNewPipeline_RejectsUnconfiguredClient(t *testing.T) {
	tests := []struct {
		name string
		gen  Generator
	}{
		{"nil client", (*llm.Client)(nil)},
		{"client without model", &llm.Client{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPipeline(&fakeSearcher{}, tt.gen, nil, nil, nil)
			if !errors.Is(err, llm.ErrModelUnavailable) {
				t.Errorf("expected ErrModelUnavailable, got %v", err)
			}
			if p != nil {
				t.Error("expected no pipeline")
			}
		})
	}
}

func TestNewPipeline_DefaultFinalizerUsesGeneratorLabel(t *testing.T) {
	s := &fakeSearcher{results: map[string][]core.NewsItem{news.FallbackQuery: {{Title: "뉴스"}}}}
	p, err := NewPipeline(s, &fakeGenerator{text: scenarioDraft}, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	rec, err := p.Run(context.Background(), Request{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if rec.GeneratorLabel != "fake model" {
		t.Errorf("unexpected label %q", rec.GeneratorLabel)
	}
}

func TestRun_MarkdownMarkerStyle(t *testing.T) {
	s := &fakeSearcher{results: map[string][]core.NewsItem{news.FallbackQuery: {{Title: "뉴스"}}}}
	resolver := resolverFunc(func(_ context.Context, keywords []string, perKeyword int) core.ImageMarkerMap {
		return core.ImageMarkerMap{"이미지_1": {{URL: "https://img.test/cat.jpg", Description: "cat", AttributionName: "kim", SourceProvider: core.SourcePixabay}}}
	})
	p, err := NewBuilder().
		WithSearcher(s).
		WithGenerator(&fakeGenerator{text: scenarioDraft}).
		WithImageResolver(resolver).
		WithMarkerStyle(images.StyleMarkdown).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	rec, err := p.Run(context.Background(), Request{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(rec.Content, "![cat](https://img.test/cat.jpg)") {
		t.Errorf("unexpected content %q", rec.Content)
	}
}

type resolverFunc func(ctx context.Context, keywords []string, perKeyword int) core.ImageMarkerMap

func (f resolverFunc) Resolve(ctx context.Context, keywords []string, perKeyword int) core.ImageMarkerMap {
	return f(ctx, keywords, perKeyword)
}

func TestState_String(t *testing.T) {
	if ResolvingImages.String() != "ResolvingImages" || State(99).String() != "Unknown" {
		t.Error("unexpected state names")
	}
	if !Done.Terminal() || !Failed.Terminal() || Generating.Terminal() {
		t.Error("unexpected terminal states")
	}
}
