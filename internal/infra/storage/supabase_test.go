//go:build !integration

package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"tutor-lesson-pipeline/internal/config"
)

func newTestStorage(t *testing.T, baseURL, serviceKey string) *SupabaseStorage {
	t.Helper()
	log := zerolog.Nop()
	s, err := NewSupabaseStorage(config.StorageConfig{
		BaseURL:    baseURL,
		ServiceKey: serviceKey,
	}, &log)
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	return s
}

func TestSupabaseDownload(t *testing.T) {
	ctx := context.Background()

	t.Run("should fetch a public object on the first try", func(t *testing.T) {
		var gotPath string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			_, _ = w.Write([]byte("pdf-bytes"))
		}))
		defer ts.Close()

		s := newTestStorage(t, ts.URL, "service-key")
		body, err := s.Download(ctx, "uploads/u1/scan.pdf")
		if err != nil {
			t.Fatalf("download: %v", err)
		}
		if string(body) != "pdf-bytes" {
			t.Errorf("unexpected body %q", body)
		}
		if gotPath != "/storage/v1/object/public/uploads/u1/scan.pdf" {
			t.Errorf("unexpected object path %q", gotPath)
		}
	})

	t.Run("should retry a refused public fetch with the service key", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte("private-bytes"))
		}))
		defer ts.Close()

		s := newTestStorage(t, ts.URL, "service-key")
		body, err := s.Download(ctx, "uploads/u1/scan.pdf")
		if err != nil {
			t.Fatalf("download: %v", err)
		}
		if string(body) != "private-bytes" {
			t.Errorf("unexpected body %q", body)
		}
	})

	t.Run("should report the status when both attempts are refused", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer ts.Close()

		s := newTestStorage(t, ts.URL, "service-key")
		_, err := s.Download(ctx, "uploads/u1/missing.pdf")
		if err == nil {
			t.Fatal("expected an error for a missing object")
		}
		if !strings.Contains(err.Error(), "http 404") {
			t.Errorf("expected the http status in the error, got %v", err)
		}
	})

	t.Run("should fail fast on an unreachable host", func(t *testing.T) {
		s := newTestStorage(t, "http://127.0.0.1:1", "")
		if _, err := s.Download(ctx, "uploads/u1/scan.pdf"); err == nil {
			t.Fatal("expected a transport error")
		}
	})
}
