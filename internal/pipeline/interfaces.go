package pipeline

import (
	"context"

	"newsblog/internal/core"
)

// Generator sends a prompt to the model and returns its raw text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ImageResolver finds images for draft keywords.
type ImageResolver interface {
	Resolve(ctx context.Context, keywords []string, perKeyword int) core.ImageMarkerMap
}

// Finalizer derives the finished record from a draft.
type Finalizer interface {
	Finalize(draft core.GenerationDraft, item core.NewsItem) core.BlogRecord
}

// labeler is implemented by generators that can describe themselves.
type labeler interface {
	Label() string
}

// availability is implemented by generators that may have been built without
// a usable model, such as a nil *llm.Client.
type availability interface {
	Available() bool
}
