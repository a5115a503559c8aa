package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// nativeExtractor is the pure-Go fallback path. Individual pages that
// cannot be decoded are skipped rather than failing the whole document.
type nativeExtractor struct{}

// NewNative returns the pure-Go extractor.
func NewNative() Extractor { return &nativeExtractor{} }

func (e *nativeExtractor) Name() string { return "native" }

func (e *nativeExtractor) Extract(_ context.Context, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, text)
	}
	return strings.TrimSpace(strings.Join(pages, "\n\n")), nil
}
