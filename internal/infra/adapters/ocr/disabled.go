package ocr

import (
	"context"

	"tutor-lesson-pipeline/internal/domain"
	"tutor-lesson-pipeline/internal/domain/ports/adapter"
)

var _ adapter.OCRAdapter = (*Disabled)(nil)

// Disabled is the adapter used when no recognition backend is configured
// (ocr.provider: off). Extraction then treats images and scanned PDFs as
// empty rather than failing the job.
type Disabled struct{}

func NewDisabled() *Disabled { return &Disabled{} }

func (Disabled) Available() bool { return false }

func (Disabled) RecognizeImage(context.Context, []byte, string) (string, error) {
	return "", domain.ErrOCRUnavailable
}

func (Disabled) RecognizeDocument(context.Context, []byte, string) (string, error) {
	return "", domain.ErrOCRUnavailable
}
