package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// fitzExtractor reads the text layer through MuPDF. It is the
// high-fidelity primary path; any open or page-read error fails the
// whole document so the chain can fall back.
type fitzExtractor struct{}

// NewFitz returns the MuPDF-backed extractor.
func NewFitz() Extractor { return &fitzExtractor{} }

func (e *fitzExtractor) Name() string { return "mupdf" }

func (e *fitzExtractor) Extract(_ context.Context, data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	defer doc.Close()

	pages := make([]string, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			return "", fmt.Errorf("reading page %d: %w", i+1, err)
		}
		pages = append(pages, text)
	}
	return strings.TrimSpace(strings.Join(pages, "\n\n")), nil
}
