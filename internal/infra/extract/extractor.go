// Package extract turns an uploaded document into raw lesson text.
// Dispatch is by file extension: page-oriented formats get their text layer
// read page by page, images go through OCR. Failures here never fail the
// job; the worst outcome is the fixed placeholder text.
package extract

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tutor-lesson-pipeline/internal/domain/ports/adapter"
	"tutor-lesson-pipeline/internal/infra/metrics"
)

// PlaceholderText substitutes empty or whitespace-only extractions so the
// lesson builder never receives empty input.
const PlaceholderText = "Aucun texte exploitable n'a été extrait du document."

type Extractor struct {
	ocr      adapter.OCRAdapter
	language string // recognition hint, e.g. "fr"
	log      *zerolog.Logger
}

func NewExtractor(ocr adapter.OCRAdapter, language string, log *zerolog.Logger) *Extractor {
	return &Extractor{ocr: ocr, language: language, log: log}
}

// Extract returns the raw text for the file, substituting PlaceholderText
// when nothing usable came out. It never returns an error: extraction
// problems are absorbed here and logged.
func (e *Extractor) Extract(ctx context.Context, filePath string, blob []byte) string {
	start := time.Now()
	kind := kindFromPath(filePath)

	var text string
	switch kind {
	case "pdf":
		text = e.extractPDF(ctx, blob)
	case "image":
		text = e.recognizeImage(ctx, blob)
	default:
		e.log.Warn().Str("file_path", filePath).Msg("unsupported file type, no text extracted")
	}
	metrics.ObserveExtraction(kind, time.Since(start))

	if strings.TrimSpace(text) == "" {
		metrics.IncPlaceholder()
		e.log.Info().Str("file_path", filePath).Msg("no usable text, substituting placeholder")
		return PlaceholderText
	}
	return text
}

func (e *Extractor) recognizeImage(ctx context.Context, img []byte) string {
	if !e.ocr.Available() {
		metrics.IncOCRDegraded("unavailable")
		e.log.Info().Msg("ocr not configured, treating image as empty")
		return ""
	}
	text, err := e.ocr.RecognizeImage(ctx, img, e.language)
	if err != nil {
		metrics.IncOCRDegraded("error")
		e.log.Error().Err(err).Msg("image ocr failed, degrading to empty text")
		return ""
	}
	return text
}

func (e *Extractor) recognizeDocument(ctx context.Context, pdf []byte) string {
	if !e.ocr.Available() {
		metrics.IncOCRDegraded("unavailable")
		e.log.Info().Msg("ocr not configured, keeping pdf text layer only")
		return ""
	}
	text, err := e.ocr.RecognizeDocument(ctx, pdf, e.language)
	if err != nil {
		metrics.IncOCRDegraded("error")
		e.log.Error().Err(err).Msg("document ocr failed, degrading to empty text")
		return ""
	}
	return text
}

func kindFromPath(filePath string) string {
	switch strings.ToLower(path.Ext(filePath)) {
	case ".pdf":
		return "pdf"
	case ".png", ".jpg", ".jpeg":
		return "image"
	default:
		return "unknown"
	}
}
