// Package memory is the no-backing-store stand-in for the status store.
// It is selected explicitly with database.store: memory at startup, never
// inferred at runtime. Records vanish on restart.
package memory

import (
	"context"
	"sync"

	"tutor-lesson-pipeline/internal/domain"
	"tutor-lesson-pipeline/internal/domain/model"
	"tutor-lesson-pipeline/internal/domain/ports/repository"
)

var _ repository.LessonJobRepository = (*LessonJobRepo)(nil)

type LessonJobRepo struct {
	mu   sync.RWMutex
	jobs map[string]*model.LessonJob
}

func NewLessonJobRepo() *LessonJobRepo {
	return &LessonJobRepo{jobs: make(map[string]*model.LessonJob)}
}

func (r *LessonJobRepo) Create(_ context.Context, job *model.LessonJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[job.ID]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r *LessonJobRepo) Update(_ context.Context, id string, upd repository.JobUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return domain.ErrNotFound
	}
	if upd.Status != nil {
		job.Status = *upd.Status
	}
	if upd.RawText != nil {
		job.RawText = *upd.RawText
	}
	if upd.Preview != nil {
		job.Preview = *upd.Preview
	}
	if upd.Lesson != nil {
		cp := *upd.Lesson
		job.Lesson = &cp
	}
	if upd.LastError != nil {
		job.LastError = *upd.LastError
	}
	if upd.CompletedAt != nil {
		t := *upd.CompletedAt
		job.CompletedAt = &t
	}
	return nil
}

func (r *LessonJobRepo) FindByID(_ context.Context, id string) (*model.LessonJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *job
	return &cp, nil
}
