// File: internal/services/document/extractor.go
package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor extracts per-page plain text from a PDF file.
type PDFExtractor struct {
	logger Logger
}

var _ PageExtractor = (*PDFExtractor)(nil)

func NewPDFExtractor(logger Logger) *PDFExtractor {
	return &PDFExtractor{logger: logger}
}

// ExtractPages returns one PageText per page that contains non-whitespace
// text, 1-indexed and strictly increasing. Pages without extractable text
// are skipped, so the sequence may have gaps.
func (e *PDFExtractor) ExtractPages(ctx context.Context, path string) (pages []PageText, err error) {
	// The parser panics on some malformed cross-reference tables; treat
	// that the same as any other unreadable document.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = NewExtractionError(fmt.Sprintf("pdf parser panic: %v", r), nil)
		}
	}()

	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, NewExtractionError("failed to open pdf", err)
	}
	defer file.Close()

	total := reader.NumPage()
	for pageNo := 1; pageNo <= total; pageNo++ {
		if err := ctx.Err(); err != nil {
			return nil, NewExtractionError("extraction cancelled", err)
		}

		page := reader.Page(pageNo)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn("skipping unreadable page", "page", pageNo, "error", err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		pages = append(pages, PageText{Text: text, PageNo: pageNo})
	}

	if len(pages) == 0 {
		e.logger.Warn("no extractable text in document", "path", path, "pages", total)
	}
	e.logger.Debug("extracted pages", "path", path, "pages_with_text", len(pages), "total_pages", total)
	return pages, nil
}
