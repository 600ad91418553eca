package repository

import (
	"context"
	"time"

	"tutor-lesson-pipeline/internal/domain/model"
)

// JobUpdate is a partial update. Nil fields are left untouched; set fields
// overwrite whatever is stored (last-write-wins, no versioning).
type JobUpdate struct {
	Status      *model.JobStatus
	RawText     *string
	Preview     *string
	Lesson      *model.Lesson
	LastError   *string
	CompletedAt *time.Time
}

// LessonJobRepository is the status store contract. The worker only writes;
// it never reads back its own writes to make decisions. Concurrent writes to
// distinct job ids must be safe with no cross-job locking.
type LessonJobRepository interface {
	Create(ctx context.Context, job *model.LessonJob) error
	Update(ctx context.Context, id string, upd JobUpdate) error
	FindByID(ctx context.Context, id string) (*model.LessonJob, error)
}
