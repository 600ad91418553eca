package queue

import (
	"context"
	"strings"
	"time"

	"tutor-lesson-pipeline/internal/domain"
)

// JobMessage is the payload crossing the queue boundary. Delivery is
// at-least-once and fire-and-forget; consumers validate the schema before
// any pipeline stage runs.
type JobMessage struct {
	JobID    string `json:"job_id"`
	FilePath string `json:"file_path"`
	ChildID  string `json:"child_id"`
}

func (m JobMessage) Validate() error {
	if strings.TrimSpace(m.JobID) == "" {
		return domain.ErrMalformedPayload
	}
	if strings.TrimSpace(m.FilePath) == "" {
		return domain.ErrMalformedPayload
	}
	return nil
}

// JobQueue feeds the competing-consumer worker pool. No ordering guarantee
// across jobs, including jobs for the same child.
type JobQueue interface {
	Enqueue(ctx context.Context, msg JobMessage) error
	// Dequeue blocks until a message is available or ctx is done.
	Dequeue(ctx context.Context) (JobMessage, error)
	Close() error
}

// Claimer guards against two workers running the same job id at once when
// the broker redelivers. A claim expires after ttl so a crashed worker's
// job can be resubmitted.
type Claimer interface {
	Claim(ctx context.Context, jobID string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, jobID string) error
}
