package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tutor-lesson-pipeline/internal/domain"
	"tutor-lesson-pipeline/internal/domain/model"
	"tutor-lesson-pipeline/internal/domain/ports/repository"
)

var _ repository.ChildRepository = (*childRepo)(nil)

type childRepo struct {
	pool *pgxpool.Pool
}

func NewChildRepo(pool *pgxpool.Pool) *childRepo {
	return &childRepo{pool: pool}
}

func (r *childRepo) FindByID(ctx context.Context, id string) (*model.Child, error) {
	const q = `
SELECT id, parent_id, name, created_at
FROM children
WHERE id = $1;`

	var child model.Child
	row := r.pool.QueryRow(ctx, q, id)
	if err := row.Scan(&child.ID, &child.ParentID, &child.Name, &child.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("postgres find child %s: %w", id, err)
	}
	return &child, nil
}
