//go:build !integration

package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"tutor-lesson-pipeline/internal/infra/adapters/ocr"
)

// fakeOCR records calls and returns canned text or an error.
type fakeOCR struct {
	imageText string
	docText   string
	err       error

	imageCalls int
	docCalls   int
}

func (f *fakeOCR) Available() bool { return true }

func (f *fakeOCR) RecognizeImage(_ context.Context, _ []byte, _ string) (string, error) {
	f.imageCalls++
	return f.imageText, f.err
}

func (f *fakeOCR) RecognizeDocument(_ context.Context, _ []byte, _ string) (string, error) {
	f.docCalls++
	return f.docText, f.err
}

func newTestExtractor(o *fakeOCR) *Extractor {
	log := zerolog.Nop()
	if o == nil {
		return NewExtractor(ocr.NewDisabled(), "fr", &log)
	}
	return NewExtractor(o, "fr", &log)
}

func TestExtract(t *testing.T) {
	ctx := context.Background()

	t.Run("should return placeholder for unsupported file types", func(t *testing.T) {
		e := newTestExtractor(nil)
		if got := e.Extract(ctx, "uploads/notes.docx", []byte("whatever")); got != PlaceholderText {
			t.Errorf("expected placeholder, got %q", got)
		}
	})

	t.Run("should route images through ocr", func(t *testing.T) {
		o := &fakeOCR{imageText: "La Tour Eiffel mesure 330 mètres."}
		e := newTestExtractor(o)
		got := e.Extract(ctx, "uploads/photo.JPG", []byte{0xff, 0xd8})
		if got != o.imageText {
			t.Errorf("expected ocr text, got %q", got)
		}
		if o.imageCalls != 1 {
			t.Errorf("expected exactly one image ocr call, got %d", o.imageCalls)
		}
	})

	t.Run("should return placeholder for an image when ocr is off", func(t *testing.T) {
		e := newTestExtractor(nil)
		if got := e.Extract(ctx, "uploads/photo.png", []byte{0x89, 0x50}); got != PlaceholderText {
			t.Errorf("expected placeholder, got %q", got)
		}
	})

	t.Run("should return placeholder when image ocr fails", func(t *testing.T) {
		o := &fakeOCR{err: errors.New("quota exceeded")}
		e := newTestExtractor(o)
		if got := e.Extract(ctx, "uploads/photo.png", []byte{0x89, 0x50}); got != PlaceholderText {
			t.Errorf("expected placeholder on ocr failure, got %q", got)
		}
	})

	t.Run("should fall back to document ocr for an unparseable pdf", func(t *testing.T) {
		o := &fakeOCR{docText: "Texte reconnu sur la page scannée."}
		e := newTestExtractor(o)
		got := e.Extract(ctx, "uploads/scan.pdf", []byte("not a real pdf"))
		if got != o.docText {
			t.Errorf("expected ocr text for unparseable pdf, got %q", got)
		}
		if o.docCalls != 1 {
			t.Errorf("expected exactly one document ocr call, got %d", o.docCalls)
		}
	})

	t.Run("should return placeholder for an unparseable pdf when ocr is off", func(t *testing.T) {
		e := newTestExtractor(nil)
		if got := e.Extract(ctx, "uploads/scan.pdf", []byte("not a real pdf")); got != PlaceholderText {
			t.Errorf("expected placeholder, got %q", got)
		}
	})

	t.Run("should return placeholder for whitespace-only ocr output", func(t *testing.T) {
		o := &fakeOCR{imageText: "  \n\t "}
		e := newTestExtractor(o)
		if got := e.Extract(ctx, "uploads/blank.png", []byte{0x89}); got != PlaceholderText {
			t.Errorf("expected placeholder for blank ocr output, got %q", got)
		}
	})
}

func TestKindFromPath(t *testing.T) {
	cases := map[string]string{
		"uploads/book.pdf":   "pdf",
		"uploads/BOOK.PDF":   "pdf",
		"uploads/page.png":   "image",
		"uploads/page.jpg":   "image",
		"uploads/page.jpeg":  "image",
		"uploads/notes.docx": "unknown",
		"uploads/noext":      "unknown",
	}
	for in, want := range cases {
		if got := kindFromPath(in); got != want {
			t.Errorf("kindFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}
