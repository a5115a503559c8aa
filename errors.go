package covergauge

import "errors"

var (
	// ErrEmptyQuestion is returned when the question is empty after trimming.
	ErrEmptyQuestion = errors.New("covergauge: question is empty")

	// ErrMissingDocument is returned when a document part has no content.
	ErrMissingDocument = errors.New("covergauge: document content is empty")

	// ErrExtraction is returned when both extraction methods fail for a
	// document. Fatal for the request; never retried.
	ErrExtraction = errors.New("covergauge: text extraction failed")

	// ErrMissingAPIKey is returned when no completion API key is configured.
	ErrMissingAPIKey = errors.New("covergauge: completion API key not configured")
)
