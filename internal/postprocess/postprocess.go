// Package postprocess derives the metadata of a finished blog record.
package postprocess

import (
	"strings"
	"time"

	"newsblog/internal/core"
	"newsblog/internal/images"
)

const (
	// TimestampLayout is the generatedAt format, in local time.
	TimestampLayout = "2006-01-02 15:04:05"
	// WordsPerMinute is the reading speed used for the estimate.
	WordsPerMinute = 300
)

// Finalizer turns a draft into a BlogRecord.
type Finalizer struct {
	Label string
	Now   func() time.Time
}

// NewFinalizer returns a Finalizer stamping records with label and the wall clock.
func NewFinalizer(label string) *Finalizer {
	return &Finalizer{Label: label, Now: time.Now}
}

// Finalize performs no I/O and cannot fail.
func (f *Finalizer) Finalize(draft core.GenerationDraft, item core.NewsItem) core.BlogRecord {
	now := time.Now
	label := ""
	if f != nil {
		label = f.Label
		if f.Now != nil {
			now = f.Now
		}
	}

	wc := WordCount(draft.Content)
	return core.BlogRecord{
		Title:         draft.Title,
		Content:       draft.Content,
		Conclusion:    draft.Conclusion,
		Tags:          nonNil(draft.Tags),
		ImageKeywords: nonNil(draft.ImageKeywords),
		Images:        normalizeImages(draft.Images),
		SourceNews: core.SourceNews{
			Title:   item.Title,
			URL:     item.Link(),
			PubDate: item.PubDate,
		},
		GeneratedAt:          now().Local().Format(TimestampLayout),
		GeneratorLabel:       label,
		WordCount:            wc,
		EstimatedReadMinutes: EstimatedReadMinutes(wc),
	}
}

// WordCount counts whitespace-delimited tokens, ignoring image blocks.
func WordCount(content string) int {
	return len(strings.Fields(images.StripImages(content)))
}

// EstimatedReadMinutes is wordCount/300 with a floor of one minute.
func EstimatedReadMinutes(wordCount int) int {
	if m := wordCount / WordsPerMinute; m > 1 {
		return m
	}
	return 1
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func normalizeImages(m core.ImageMarkerMap) core.ImageMarkerMap {
	out := make(core.ImageMarkerMap, len(m))
	for k, v := range m {
		if v == nil {
			v = []core.ResolvedImage{}
		}
		out[k] = v
	}
	return out
}
