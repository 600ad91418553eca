package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"tutor-lesson-pipeline/internal/domain"
)

type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusError      JobStatus = "error"
)

// Terminal reports whether the status is final. A terminal job is never
// mutated again by the worker; resubmission requires a new job id.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusError
}

// CanTransition enforces the monotonic status machine:
// processing -> completed | error.
func (s JobStatus) CanTransition(to JobStatus) bool {
	if s.Terminal() {
		return false
	}
	return to == JobStatusCompleted || to == JobStatusError
}

// LessonJob is one unit of work for a single uploaded document.
// The worker that claimed a job exclusively owns its mutable fields
// until the job reaches a terminal status.
type LessonJob struct {
	ID          string
	ChildID     string
	FilePath    string
	Status      JobStatus
	RawText     string  // extracted text, capped at MaxRawTextLen
	Preview     string  // redacted first PreviewLen chars of the untruncated text
	Lesson      *Lesson // set when completed
	LastError   string  // server-side diagnostic only, never exposed to clients
	CreatedAt   time.Time
	CompletedAt *time.Time
}

func NewLessonJob(childID, filePath string) (*LessonJob, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &LessonJob{
		ID:        uuid.NewString(),
		ChildID:   childID,
		FilePath:  strings.TrimSpace(filePath),
		Status:    JobStatusProcessing,
		CreatedAt: time.Now(),
	}, nil
}
