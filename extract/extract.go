package extract

import (
	"context"
	"fmt"
	"log/slog"
	"unicode"
)

// DefaultMinTextChars is the minimum number of non-whitespace characters
// the primary extractor must produce before its output is accepted.
const DefaultMinTextChars = 50

// Extractor converts one PDF document into plain text. Pages are joined
// with a blank-line separator and outer whitespace is trimmed.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
	Name() string
}

// Chain runs a primary extractor and falls back to a secondary one when
// the primary errors or produces too little text. The decision is an
// explicit branch on returned values.
type Chain struct {
	primary  Extractor
	fallback Extractor
	minChars int
}

// NewChain builds a fallback chain. minChars <= 0 selects
// DefaultMinTextChars.
func NewChain(primary, fallback Extractor, minChars int) *Chain {
	if minChars <= 0 {
		minChars = DefaultMinTextChars
	}
	return &Chain{primary: primary, fallback: fallback, minChars: minChars}
}

func (c *Chain) Name() string { return "chain" }

// Extract attempts the primary extractor and accepts its output when it
// succeeds with at least minChars non-whitespace characters. Otherwise
// the fallback runs; if that also fails, the combined failure is
// returned to the caller.
func (c *Chain) Extract(ctx context.Context, data []byte) (string, error) {
	text, err := c.primary.Extract(ctx, data)
	if err == nil && nonWhitespaceLen(text) >= c.minChars {
		return text, nil
	}
	if err != nil {
		slog.Warn("extract: primary extractor failed",
			"extractor", c.primary.Name(), "error", err)
	} else {
		slog.Warn("extract: primary extractor yielded too little text",
			"extractor", c.primary.Name(), "chars", nonWhitespaceLen(text))
	}

	text, ferr := c.fallback.Extract(ctx, data)
	if ferr != nil {
		if err != nil {
			return "", fmt.Errorf("primary (%s): %v; fallback (%s): %w",
				c.primary.Name(), err, c.fallback.Name(), ferr)
		}
		return "", fmt.Errorf("fallback (%s): %w", c.fallback.Name(), ferr)
	}
	return text, nil
}

// nonWhitespaceLen counts the non-whitespace runes in s.
func nonWhitespaceLen(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
