package repository

import (
	"context"

	"tutor-lesson-pipeline/internal/domain/model"
)

// ChildRepository is read-only here; children are managed elsewhere.
type ChildRepository interface {
	FindByID(ctx context.Context, id string) (*model.Child, error)
}
