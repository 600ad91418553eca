package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// A page with fewer visible characters than this counts as image-heavy.
const minPageChars = 40

// extractPDF reads the text layer page by page, concatenated in page order.
// Scanned PDFs (most pages below minPageChars, or nothing at all) are
// retried through document OCR when that capability is configured.
func (e *Extractor) extractPDF(ctx context.Context, blob []byte) string {
	pages, err := pdfPageTexts(blob)
	if err != nil {
		e.log.Error().Err(err).Msg("pdf parse failed, trying ocr")
		return e.recognizeDocument(ctx, blob)
	}

	var parts []string
	imagePages := 0
	for _, t := range pages {
		t = strings.TrimSpace(t)
		if len(t) < minPageChars {
			imagePages++
		}
		if t != "" {
			parts = append(parts, t)
		}
	}
	text := strings.TrimSpace(strings.Join(parts, "\n\n"))

	imageHeavy := len(pages) > 0 && imagePages*10 >= len(pages)*6
	if text == "" || imageHeavy {
		if ocr := e.recognizeDocument(ctx, blob); strings.TrimSpace(ocr) != "" {
			return ocr
		}
	}
	return text
}

// pdfPageTexts returns the plain text of each page, in page order.
// The parser panics on some malformed files; that is converted to an error.
func pdfPageTexts(blob []byte) (texts []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			texts = append(texts, "")
			continue
		}
		t, err := p.GetPlainText(nil)
		if err != nil {
			texts = append(texts, "")
			continue
		}
		texts = append(texts, t)
	}
	return texts, nil
}
