//go:build !integration

package worker

import (
	"context"
	"errors"
	"time"

	"tutor-lesson-pipeline/internal/domain/model"
	"tutor-lesson-pipeline/internal/domain/ports/adapter"
	"tutor-lesson-pipeline/internal/domain/ports/repository"
)

// flakyJobRepo wraps the in-memory repo and fails the first N updates.
type flakyJobRepo struct {
	inner       repository.LessonJobRepository
	updateFails int
	updateCalls int
}

func (r *flakyJobRepo) Create(ctx context.Context, job *model.LessonJob) error {
	return r.inner.Create(ctx, job)
}

func (r *flakyJobRepo) Update(ctx context.Context, id string, upd repository.JobUpdate) error {
	r.updateCalls++
	if r.updateFails > 0 {
		r.updateFails--
		return errors.New("simulated store outage")
	}
	return r.inner.Update(ctx, id, upd)
}

func (r *flakyJobRepo) FindByID(ctx context.Context, id string) (*model.LessonJob, error) {
	return r.inner.FindByID(ctx, id)
}

// fakeStorage serves canned bytes or an error.
type fakeStorage struct {
	blob      []byte
	err       error
	downloads int
}

func (s *fakeStorage) Download(_ context.Context, _ string) ([]byte, error) {
	s.downloads++
	if s.err != nil {
		return nil, s.err
	}
	return s.blob, nil
}

// fakeExtractor returns canned text, optionally after a delay.
type fakeExtractor struct {
	text  string
	delay time.Duration
	calls int
}

func (e *fakeExtractor) Extract(ctx context.Context, _ string, _ []byte) string {
	e.calls++
	if e.delay > 0 {
		select {
		case <-time.After(e.delay):
		case <-ctx.Done():
		}
	}
	return e.text
}

// fakeBuilder returns a canned lesson or an error, optionally after a delay.
type fakeBuilder struct {
	lesson *model.Lesson
	err    error
	delay  time.Duration
	calls  int
	gotIn  adapter.BuildInput
}

func (b *fakeBuilder) BuildLesson(ctx context.Context, in adapter.BuildInput) (*model.Lesson, error) {
	b.calls++
	b.gotIn = in
	if b.delay > 0 {
		select {
		case <-time.After(b.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if b.err != nil {
		return nil, b.err
	}
	return b.lesson, nil
}

// fakeClaimer simulates the duplicate-delivery guard.
type fakeClaimer struct {
	held     map[string]bool
	released []string
}

func newFakeClaimer() *fakeClaimer { return &fakeClaimer{held: make(map[string]bool)} }

func (c *fakeClaimer) Claim(_ context.Context, jobID string, _ time.Duration) (bool, error) {
	if c.held[jobID] {
		return false, nil
	}
	c.held[jobID] = true
	return true, nil
}

func (c *fakeClaimer) Release(_ context.Context, jobID string) error {
	delete(c.held, jobID)
	c.released = append(c.released, jobID)
	return nil
}
