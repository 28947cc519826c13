// Package recovery turns raw model output into a usable draft, whatever
// shape the output arrives in.
package recovery

import (
	"encoding/json"
	"regexp"
	"strings"

	"newsblog/internal/core"
)

// Fallback draft values.
const (
	FallbackTitle      = "AI 생성 블로그"
	FallbackConclusion = "추가 논의가 필요합니다."
	FallbackContentLen = 2000
)

var (
	// FallbackImageKeywords are used when the model supplied none.
	FallbackImageKeywords = []string{"news", "analysis"}
	// FallbackTags are used by the fallback draft.
	FallbackTags = []string{"#뉴스", "#AI", "#블로그"}
)

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// Tier records which step produced a draft.
type Tier int

const (
	TierDirect Tier = iota
	TierFenced
	TierFallback
)

func (t Tier) String() string {
	switch t {
	case TierDirect:
		return "direct"
	case TierFenced:
		return "fenced"
	default:
		return "fallback"
	}
}

type wireDraft struct {
	Title               string   `json:"title"`
	Content             string   `json:"content"`
	Conclusion          string   `json:"conclusion"`
	ImageKeywords       []string `json:"imageKeywords"`
	LegacyImageKeywords []string `json:"image_keywords"`
	Tags                []string `json:"tags"`
}

// Recover always returns a draft.
func Recover(raw string) core.GenerationDraft {
	draft, _ := RecoverWithTier(raw)
	return draft
}

// RecoverWithTier is Recover plus the tier that succeeded.
func RecoverWithTier(raw string) (core.GenerationDraft, Tier) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") {
		if draft, ok := parse(trimmed); ok {
			return draft, TierDirect
		}
	}

	if m := fencedJSON.FindStringSubmatch(raw); m != nil {
		if draft, ok := parse(m[1]); ok {
			return draft, TierFenced
		}
	}

	return fallback(raw), TierFallback
}

var draftKeys = []string{"title", "content", "conclusion", "imageKeywords", "image_keywords", "tags"}

// parse accepts any object that carries at least one draft field. Fields
// present in the object are kept as given, even when empty.
func parse(text string) (core.GenerationDraft, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return core.GenerationDraft{}, false
	}
	known := false
	for _, k := range draftKeys {
		if _, ok := fields[k]; ok {
			known = true
			break
		}
	}
	if !known {
		return core.GenerationDraft{}, false
	}

	var w wireDraft
	if err := json.Unmarshal([]byte(text), &w); err != nil {
		return core.GenerationDraft{}, false
	}

	// A missing or null key decodes to nil; [] stays an empty slice.
	keywords := w.ImageKeywords
	if keywords == nil {
		keywords = w.LegacyImageKeywords
	}
	if keywords == nil {
		keywords = append([]string(nil), FallbackImageKeywords...)
	}
	tags := w.Tags
	if tags == nil {
		tags = []string{}
	}

	return core.GenerationDraft{
		Title:         w.Title,
		Content:       w.Content,
		Conclusion:    w.Conclusion,
		ImageKeywords: keywords,
		Tags:          tags,
	}, true
}

func fallback(raw string) core.GenerationDraft {
	content := raw
	if runes := []rune(raw); len(runes) > FallbackContentLen {
		content = string(runes[:FallbackContentLen])
	}
	return core.GenerationDraft{
		Title:         FallbackTitle,
		Content:       content,
		Conclusion:    FallbackConclusion,
		ImageKeywords: append([]string(nil), FallbackImageKeywords...),
		Tags:          append([]string(nil), FallbackTags...),
	}
}
