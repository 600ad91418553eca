package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tutor-lesson-pipeline/internal/config"
	"tutor-lesson-pipeline/internal/domain/ports/adapter"
)

var _ adapter.FileStorage = (*SupabaseStorage)(nil)

// SupabaseStorage downloads uploaded documents from Supabase object storage.
// The object URL is derived deterministically from the stored file path
// (which includes the bucket, e.g. "uploads/u1/scan.pdf"). The public URL is
// tried first; if the bucket policy refuses it, the fetch is retried once
// with the service key.
type SupabaseStorage struct {
	baseURL    string
	serviceKey string
	client     *http.Client
	log        *zerolog.Logger
}

func NewSupabaseStorage(cfg config.StorageConfig, log *zerolog.Logger) (*SupabaseStorage, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("storage base url empty")
	}
	timeout := cfg.DownloadTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &SupabaseStorage{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		serviceKey: cfg.ServiceKey,
		client:     &http.Client{Timeout: timeout},
		log:        log,
	}, nil
}

func (s *SupabaseStorage) objectURL(filePath string) string {
	return s.baseURL + "/storage/v1/object/public/" + strings.TrimLeft(filePath, "/")
}

func (s *SupabaseStorage) Download(ctx context.Context, filePath string) ([]byte, error) {
	url := s.objectURL(filePath)

	body, status, err := s.fetch(ctx, url, "")
	if err == nil && status < 300 {
		return body, nil
	}
	if err != nil {
		s.log.Debug().Err(err).Str("url", url).Msg("public fetch failed, retrying with service key")
	}

	// Private buckets need the service role key.
	body, status, err = s.fetch(ctx, url, s.serviceKey)
	if err != nil {
		return nil, fmt.Errorf("storage download %s: %w", filePath, err)
	}
	if status >= 300 {
		return nil, fmt.Errorf("storage download %s: http %d", filePath, status)
	}
	return body, nil
}

func (s *SupabaseStorage) fetch(ctx context.Context, url, bearer string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, resp.StatusCode, nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}
