package pdfutil

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Page holds the plain text extracted from a single PDF page.
type Page struct {
	Number int
	Text   string
}

// Extractor converts raw document bytes into per-page plain text.
type Extractor interface {
	ExtractPages(ctx context.Context, data []byte) ([]Page, error)
}

type pdfExtractor struct {
}

// NewExtractor creates an Extractor backed by the pdf reader library
func NewExtractor() Extractor {
	return &pdfExtractor{}
}

func (e *pdfExtractor) ExtractPages(ctx context.Context, data []byte) ([]Page, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var pages []Page
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		pages = append(pages, Page{
			Number: i,
			Text:   text,
		})
	}

	return pages, nil
}
