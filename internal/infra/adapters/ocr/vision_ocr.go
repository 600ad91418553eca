package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"tutor-lesson-pipeline/internal/config"
	"tutor-lesson-pipeline/internal/domain/ports/adapter"
)

var _ adapter.OCRAdapter = (*VisionOCR)(nil)

// VisionOCR recognizes text with the Cloud Vision API, passing the lesson's
// target language as a recognition hint.
type VisionOCR struct {
	client *vision.ImageAnnotatorClient
	log    *zerolog.Logger
}

func NewVisionOCR(ctx context.Context, cfg config.OCRConfig, log *zerolog.Logger) (*VisionOCR, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	c, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	return &VisionOCR{client: c, log: log}, nil
}

func (v *VisionOCR) Available() bool { return v != nil && v.client != nil }

func (v *VisionOCR) Close() error {
	if v == nil || v.client == nil {
		return nil
	}
	return v.client.Close()
}

func (v *VisionOCR) RecognizeImage(ctx context.Context, img []byte, languageHint string) (string, error) {
	if len(img) == 0 {
		return "", nil
	}
	req := &visionpb.AnnotateImageRequest{
		Image:        &visionpb.Image{Content: img},
		Features:     []*visionpb.Feature{{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION}},
		ImageContext: imageContext(languageHint),
	}
	resp, err := v.client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{req},
	})
	if err != nil {
		return "", fmt.Errorf("vision BatchAnnotateImages: %w", err)
	}
	if len(resp.GetResponses()) == 0 {
		return "", nil
	}
	r0 := resp.GetResponses()[0]
	if r0.GetError() != nil && r0.GetError().GetMessage() != "" {
		return "", errors.New("vision annotate error: " + r0.GetError().GetMessage())
	}
	return r0.GetFullTextAnnotation().GetText(), nil
}

// RecognizeDocument OCRs a scanned PDF inline. The inline file path of the
// API caps processing at the first five pages, which covers the short scans
// parents upload; longer documents fall back to whatever text layer exists.
func (v *VisionOCR) RecognizeDocument(ctx context.Context, pdf []byte, languageHint string) (string, error) {
	if len(pdf) == 0 {
		return "", nil
	}
	req := &visionpb.AnnotateFileRequest{
		InputConfig: &visionpb.InputConfig{
			Content:  pdf,
			MimeType: "application/pdf",
		},
		Features:     []*visionpb.Feature{{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION}},
		ImageContext: imageContext(languageHint),
		Pages:        []int32{1, 2, 3, 4, 5},
	}
	resp, err := v.client.BatchAnnotateFiles(ctx, &visionpb.BatchAnnotateFilesRequest{
		Requests: []*visionpb.AnnotateFileRequest{req},
	})
	if err != nil {
		return "", fmt.Errorf("vision BatchAnnotateFiles: %w", err)
	}
	if len(resp.GetResponses()) == 0 {
		return "", nil
	}
	var parts []string
	for _, page := range resp.GetResponses()[0].GetResponses() {
		if page.GetError() != nil && page.GetError().GetMessage() != "" {
			v.log.Warn().Str("error", page.GetError().GetMessage()).Msg("vision page annotate error")
			continue
		}
		if t := page.GetFullTextAnnotation().GetText(); strings.TrimSpace(t) != "" {
			parts = append(parts, strings.TrimSpace(t))
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

func imageContext(languageHint string) *visionpb.ImageContext {
	if strings.TrimSpace(languageHint) == "" {
		return nil
	}
	return &visionpb.ImageContext{LanguageHints: []string{languageHint}}
}
