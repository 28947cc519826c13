package prompts

import (
	"strings"
	"testing"

	"google.golang.org/genai"

	"newsblog/internal/core"
)

func TestCompose_EmbedsNewsFields(t *testing.T) {
	item := core.NewsItem{
		Title:       "금리 인하 결정",
		Description: "한국은행이 기준금리를 내렸다.",
		Category:    "경제",
		PubDate:     "Tue, 15 Oct 2024 09:00:00 +0900",
	}
	ctx := ContextForItem(item)
	prompt := Compose(item, nil, ctx)

	for _, want := range []string{
		"제목: 금리 인하 결정",
		"카테고리: 경제",
		"발행일: Tue, 15 Oct 2024 09:00:00 +0900",
		"요약: 한국은행이 기준금리를 내렸다.",
		ctx,
		"[이미지_1]",
		"[이미지_2]",
		"30-40자",
		"2500자",
		"영어로",
		"JSON",
		DefaultCategoryGuidance["경제"],
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestCompose_ExactlyOneGuidance(t *testing.T) {
	tests := []struct {
		category string
		want     string
	}{
		{"정치", "정치"},
		{"경제", "경제"},
		{"사회", "사회"},
		{"", "전체"},
		{"스포츠", "전체"},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			prompt := Compose(core.NewsItem{Title: "t", Category: tt.category}, nil, "")
			for cat, sentence := range DefaultCategoryGuidance {
				n := strings.Count(prompt, sentence)
				if cat == tt.want && n != 1 {
					t.Errorf("expected guidance for %s exactly once, found %d", cat, n)
				}
				if cat != tt.want && n != 0 {
					t.Errorf("guidance for %s must not appear", cat)
				}
			}
		})
	}
}

func TestCompose_Defaults(t *testing.T) {
	prompt := Compose(core.NewsItem{}, nil, "")
	if !strings.Contains(prompt, "제목: "+UntitledNews) {
		t.Error("expected untitled placeholder")
	}
	if !strings.Contains(prompt, "카테고리: 전체") {
		t.Error("expected general category placeholder")
	}
}

func TestCompose_Deterministic(t *testing.T) {
	item := core.NewsItem{Title: "같은 뉴스", Category: "사회"}
	if Compose(item, nil, "ctx") != Compose(item, nil, "ctx") {
		t.Error("identical input must produce identical prompts")
	}
}

func TestCompose_CustomGuidance(t *testing.T) {
	custom := map[string]string{"전체": "짧게 써주세요."}
	prompt := Compose(core.NewsItem{Title: "t", Category: "경제"}, custom, "")
	if !strings.Contains(prompt, "짧게 써주세요.") {
		t.Error("custom table should fall back to its own 전체 entry")
	}
}

func TestSearchTerms(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"대통령, 경제 정책 발표 예정", "대통령 경제 정책"},
		{"AI 반도체 수출 급증", "AI 반도체 수출"},
		{"가 나 다", "가 나 다"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SearchTerms(tt.title); got != tt.want {
			t.Errorf("SearchTerms(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestContextFor(t *testing.T) {
	got := ContextFor("정치", "국정감사")
	if !strings.HasPrefix(got, "최근 정치권에서는 '국정감사'") {
		t.Errorf("unexpected politics context: %q", got)
	}
	if ContextFor("날씨", "x") != ContextFor("전체", "x") {
		t.Error("unknown category should use the general template")
	}
}

func TestResponseSchema(t *testing.T) {
	s := ResponseSchema()
	if s.Type != genai.TypeObject {
		t.Fatalf("expected object schema, got %v", s.Type)
	}
	for _, key := range []string{"title", "content", "conclusion", "imageKeywords", "tags"} {
		if _, ok := s.Properties[key]; !ok {
			t.Errorf("schema missing property %q", key)
		}
	}
	if len(s.Required) != 5 {
		t.Errorf("expected 5 required fields, got %v", s.Required)
	}
	kw := s.Properties["imageKeywords"]
	if kw.MaxItems == nil || *kw.MaxItems != 2 {
		t.Error("imageKeywords should be capped at 2 items")
	}
}
