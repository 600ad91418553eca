package adapter

import "context"

// FileStorage fetches uploaded documents. filePath includes the bucket,
// e.g. "uploads/u1/scan.pdf"; the adapter derives the object URL from it.
type FileStorage interface {
	Download(ctx context.Context, filePath string) ([]byte, error)
}
