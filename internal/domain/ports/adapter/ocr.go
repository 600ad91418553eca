package adapter

import "context"

// OCRAdapter runs optical character recognition on uploaded content.
type OCRAdapter interface {
	// Available reports whether a real recognition backend is configured.
	// When it is not, extraction degrades silently to empty text instead of
	// failing the job.
	Available() bool

	// RecognizeImage returns the text recognized in an image. languageHint
	// is a BCP-47 code matched to the lesson's target language, e.g. "fr".
	RecognizeImage(ctx context.Context, img []byte, languageHint string) (string, error)

	// RecognizeDocument OCRs a scanned PDF whose pages carry no extractable
	// text layer.
	RecognizeDocument(ctx context.Context, pdf []byte, languageHint string) (string, error)
}
