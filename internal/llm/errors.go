package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned by NewClient when no Gemini key is configured
	ErrMissingAPIKey = errors.New("gemini API key is required. Set GEMINI_API_KEY or gemini.api_key in the config file")

	// ErrModelUnavailable is returned when generation is attempted without a usable model
	ErrModelUnavailable = errors.New("generation model is not available")

	// ErrGenerationFailed matches every *GenerationError
	ErrGenerationFailed = errors.New("content generation failed")

	// ErrEmptyResponse is the cause recorded when the model returns no text
	ErrEmptyResponse = errors.New("empty response from model")
)

// GenerationError wraps the remote failure of a single generation call.
type GenerationError struct {
	Model string
	Cause error
}

func (e *GenerationError) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("%v: %v", ErrGenerationFailed, e.Cause)
	}
	return fmt.Sprintf("%v (%s): %v", ErrGenerationFailed, e.Model, e.Cause)
}

func (e *GenerationError) Unwrap() []error {
	return []error{ErrGenerationFailed, e.Cause}
}
