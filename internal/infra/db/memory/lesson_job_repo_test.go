//go:build !integration

package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"tutor-lesson-pipeline/internal/domain"
	"tutor-lesson-pipeline/internal/domain/model"
	"tutor-lesson-pipeline/internal/domain/ports/repository"
)

func TestLessonJobRepo(t *testing.T) {
	ctx := context.Background()

	t.Run("should round-trip a job", func(t *testing.T) {
		repo := NewLessonJobRepo()
		job, _ := model.NewLessonJob("child-1", "uploads/book.pdf")

		if err := repo.Create(ctx, job); err != nil {
			t.Fatalf("create: %v", err)
		}
		got, err := repo.FindByID(ctx, job.ID)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if got.FilePath != job.FilePath || got.Status != model.JobStatusProcessing {
			t.Errorf("unexpected job: %+v", got)
		}
	})

	t.Run("should reject duplicate ids", func(t *testing.T) {
		repo := NewLessonJobRepo()
		job, _ := model.NewLessonJob("child-1", "uploads/book.pdf")
		if err := repo.Create(ctx, job); err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := repo.Create(ctx, job); !errors.Is(err, domain.ErrAlreadyExists) {
			t.Errorf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("should apply partial updates without clobbering other fields", func(t *testing.T) {
		repo := NewLessonJobRepo()
		job, _ := model.NewLessonJob("child-1", "uploads/book.pdf")
		if err := repo.Create(ctx, job); err != nil {
			t.Fatalf("create: %v", err)
		}

		raw := "le texte extrait"
		preview := "le texte"
		if err := repo.Update(ctx, job.ID, repository.JobUpdate{RawText: &raw, Preview: &preview}); err != nil {
			t.Fatalf("update text: %v", err)
		}

		status := model.JobStatusCompleted
		now := time.Now()
		lesson := model.FallbackLesson()
		if err := repo.Update(ctx, job.ID, repository.JobUpdate{
			Status:      &status,
			Lesson:      lesson,
			CompletedAt: &now,
		}); err != nil {
			t.Fatalf("update status: %v", err)
		}

		got, err := repo.FindByID(ctx, job.ID)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if got.RawText != raw || got.Preview != preview {
			t.Error("expected text fields to survive the second update")
		}
		if got.Status != model.JobStatusCompleted {
			t.Errorf("expected completed status, got %s", got.Status)
		}
		if got.Lesson == nil || got.Lesson.Title != lesson.Title {
			t.Error("expected lesson to be stored")
		}
		if got.CompletedAt == nil {
			t.Error("expected CompletedAt to be set")
		}
	})

	t.Run("should return ErrNotFound for unknown ids", func(t *testing.T) {
		repo := NewLessonJobRepo()
		if _, err := repo.FindByID(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound from find, got %v", err)
		}
		status := model.JobStatusError
		if err := repo.Update(ctx, "missing", repository.JobUpdate{Status: &status}); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound from update, got %v", err)
		}
	})

	t.Run("should hand out copies, not aliases", func(t *testing.T) {
		repo := NewLessonJobRepo()
		job, _ := model.NewLessonJob("child-1", "uploads/book.pdf")
		if err := repo.Create(ctx, job); err != nil {
			t.Fatalf("create: %v", err)
		}

		got, _ := repo.FindByID(ctx, job.ID)
		got.RawText = "mutated by caller"

		again, _ := repo.FindByID(ctx, job.ID)
		if again.RawText == "mutated by caller" {
			t.Error("caller mutation leaked into the store")
		}
	})
}
