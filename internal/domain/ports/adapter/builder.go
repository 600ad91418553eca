package adapter

import (
	"context"

	"tutor-lesson-pipeline/internal/domain/model"
)

// BuildInput is the payload handed to the lesson builder. Text is never
// empty: extraction substitutes a placeholder before the builder is called.
type BuildInput struct {
	Topic string
	Text  string
	Age   int
}

// LessonBuilder converts extracted text into a structured lesson artifact.
// It is owned by an external collaborator and may fail; the worker falls
// back to model.FallbackLesson and still completes the job.
type LessonBuilder interface {
	BuildLesson(ctx context.Context, in BuildInput) (*model.Lesson, error)
}
