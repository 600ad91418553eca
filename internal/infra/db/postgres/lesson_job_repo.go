package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tutor-lesson-pipeline/internal/domain"
	"tutor-lesson-pipeline/internal/domain/model"
	"tutor-lesson-pipeline/internal/domain/ports/repository"
)

var _ repository.LessonJobRepository = (*lessonJobRepo)(nil)

// lessonJobRepo implements the status store on Postgres.
// DB columns: id TEXT PRIMARY KEY, child_id TEXT, file_path TEXT,
// status TEXT, raw_text TEXT, preview TEXT, lesson JSONB, last_error TEXT,
// created_at TIMESTAMPTZ, completed_at TIMESTAMPTZ.
type lessonJobRepo struct {
	pool *pgxpool.Pool
}

func NewLessonJobRepo(pool *pgxpool.Pool) *lessonJobRepo {
	return &lessonJobRepo{pool: pool}
}

func (r *lessonJobRepo) Create(ctx context.Context, job *model.LessonJob) error {
	const q = `
INSERT INTO lesson_jobs (id, child_id, file_path, status, raw_text, preview, lesson, last_error, created_at, completed_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10);`

	lesson, err := marshalLesson(job.Lesson)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, q,
		job.ID, job.ChildID, job.FilePath, string(job.Status),
		job.RawText, job.Preview, lesson, job.LastError,
		job.CreatedAt, job.CompletedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("postgres create lesson job: %w", err)
	}
	return nil
}

// Update merges the set fields into the stored record (last-write-wins).
// Nil fields keep their current value via COALESCE.
func (r *lessonJobRepo) Update(ctx context.Context, id string, upd repository.JobUpdate) error {
	const q = `
UPDATE lesson_jobs SET
  status       = COALESCE($2, status),
  raw_text     = COALESCE($3, raw_text),
  preview      = COALESCE($4, preview),
  lesson       = COALESCE($5::jsonb, lesson),
  last_error   = COALESCE($6, last_error),
  completed_at = COALESCE($7, completed_at)
WHERE id = $1;`

	var status *string
	if upd.Status != nil {
		s := string(*upd.Status)
		status = &s
	}
	var lesson []byte
	if upd.Lesson != nil {
		b, err := marshalLesson(upd.Lesson)
		if err != nil {
			return err
		}
		lesson = b
	}
	tag, err := r.pool.Exec(ctx, q,
		id, status, upd.RawText, upd.Preview, lesson, upd.LastError, upd.CompletedAt)
	if err != nil {
		return fmt.Errorf("postgres update lesson job %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *lessonJobRepo) FindByID(ctx context.Context, id string) (*model.LessonJob, error) {
	const q = `
SELECT id, child_id, file_path, status, raw_text, preview, lesson, last_error, created_at, completed_at
FROM lesson_jobs
WHERE id = $1;`

	var (
		job       model.LessonJob
		status    string
		lessonRaw []byte
		completed *time.Time
	)
	row := r.pool.QueryRow(ctx, q, id)
	if err := row.Scan(&job.ID, &job.ChildID, &job.FilePath, &status,
		&job.RawText, &job.Preview, &lessonRaw, &job.LastError,
		&job.CreatedAt, &completed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("postgres find lesson job %s: %w", id, err)
	}
	job.Status = model.JobStatus(status)
	job.CompletedAt = completed
	if len(lessonRaw) > 0 {
		var lesson model.Lesson
		if err := json.Unmarshal(lessonRaw, &lesson); err != nil {
			return nil, fmt.Errorf("postgres decode lesson for job %s: %w", id, err)
		}
		job.Lesson = &lesson
	}
	return &job, nil
}

func marshalLesson(l *model.Lesson) ([]byte, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal lesson: %w", err)
	}
	return b, nil
}
