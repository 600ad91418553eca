package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"tutor-lesson-pipeline/internal/domain"
	"tutor-lesson-pipeline/internal/domain/model"
	"tutor-lesson-pipeline/internal/domain/ports/adapter"
	"tutor-lesson-pipeline/internal/domain/ports/queue"
	"tutor-lesson-pipeline/internal/domain/ports/repository"
	"tutor-lesson-pipeline/internal/infra/extract"
	"tutor-lesson-pipeline/internal/infra/logging"
	"tutor-lesson-pipeline/internal/infra/metrics"
)

// TextExtractor is what the processor needs from the extraction subsystem.
type TextExtractor interface {
	Extract(ctx context.Context, filePath string, blob []byte) string
}

type ProcessorConfig struct {
	Topic           string // topic hint passed to the builder
	Age             int
	DownloadTimeout time.Duration
	ExtractTimeout  time.Duration
	BuildTimeout    time.Duration
	ClaimTTL        time.Duration
}

func (c *ProcessorConfig) applyDefaults() {
	if c.Topic == "" {
		c.Topic = "Leçon depuis fichier"
	}
	if c.Age <= 0 {
		c.Age = 11
	}
	if c.DownloadTimeout <= 0 {
		c.DownloadTimeout = 60 * time.Second
	}
	if c.ExtractTimeout <= 0 {
		c.ExtractTimeout = 120 * time.Second
	}
	if c.BuildTimeout <= 0 {
		c.BuildTimeout = 120 * time.Second
	}
	if c.ClaimTTL <= 0 {
		c.ClaimTTL = 10 * time.Minute
	}
}

// LessonProcessor runs one job end to end:
//
//	Received -> Downloading -> Extracting -> Redacting -> Building -> Persisting
//
// Download and persistence failures are fatal and mark the job error.
// Extraction and builder failures are absorbed: the former degrades to the
// placeholder text, the latter to the fixed fallback artifact, and the job
// still completes. Diagnostics stay server-side; clients only ever see the
// coarse status.
type LessonProcessor struct {
	jobs    repository.LessonJobRepository
	storage adapter.FileStorage
	extract TextExtractor
	builder adapter.LessonBuilder
	claims  queue.Claimer // optional duplicate-delivery guard
	cfg     ProcessorConfig
	log     *zerolog.Logger
}

func NewLessonProcessor(
	jobs repository.LessonJobRepository,
	storage adapter.FileStorage,
	extractor TextExtractor,
	builder adapter.LessonBuilder,
	claims queue.Claimer,
	cfg ProcessorConfig,
	log *zerolog.Logger,
) *LessonProcessor {
	cfg.applyDefaults()
	return &LessonProcessor{
		jobs:    jobs,
		storage: storage,
		extract: extractor,
		builder: builder,
		claims:  claims,
		cfg:     cfg,
		log:     log,
	}
}

// Process never returns an error: every outcome ends in a status store
// write, and what cannot be written is logged.
func (p *LessonProcessor) Process(ctx context.Context, msg queue.JobMessage) {
	ctx = logging.WithJobID(logging.WithChildID(ctx, msg.ChildID), msg.JobID)
	log := logging.With(ctx, p.log)
	start := time.Now()
	log.Info().Str("file_path", msg.FilePath).Msg("processing lesson job")

	if p.claims != nil {
		ok, err := p.claims.Claim(ctx, msg.JobID, p.cfg.ClaimTTL)
		if err != nil {
			// the guard is best-effort; a broken guard must not stall jobs
			log.Warn().Err(err).Msg("claim check failed, proceeding anyway")
		} else if !ok {
			log.Info().Msg("job already claimed, skipping duplicate delivery")
			return
		}
		defer func() {
			if err := p.claims.Release(context.Background(), msg.JobID); err != nil {
				log.Warn().Err(err).Msg("claim release failed")
			}
		}()
	}

	// Downloading
	dctx, cancel := context.WithTimeout(ctx, p.cfg.DownloadTimeout)
	blob, err := p.storage.Download(dctx, msg.FilePath)
	cancel()
	if err != nil {
		p.fail(ctx, msg.JobID, fmt.Errorf("download %s: %w", msg.FilePath, err))
		return
	}

	// Extracting + Redacting. The preview is cut from the raw, untruncated
	// text; only the preview is redacted, the stored full text is not.
	raw := p.extractText(ctx, msg.FilePath, blob)
	preview := model.Preview(raw)
	stored := model.TruncateRawText(raw)

	if err := p.persist(ctx, msg.JobID, repository.JobUpdate{
		RawText: &stored,
		Preview: &preview,
	}); err != nil {
		p.fail(ctx, msg.JobID, fmt.Errorf("persist extracted text: %w", err))
		return
	}

	// Building
	lesson := p.buildLesson(ctx, stored, log)

	// Persisting the terminal state
	now := time.Now()
	status := model.JobStatusCompleted
	if err := p.persist(ctx, msg.JobID, repository.JobUpdate{
		Status:      &status,
		Lesson:      lesson,
		CompletedAt: &now,
	}); err != nil {
		p.fail(ctx, msg.JobID, fmt.Errorf("persist final state: %w", err))
		return
	}

	metrics.IncJobProcessed(string(model.JobStatusCompleted))
	metrics.ObserveJobDuration(time.Since(start))
	log.Info().Dur("duration", time.Since(start)).Msg("lesson job completed")
}

// extractText bounds the extraction stage. A timeout is absorbed like any
// other extraction problem: the placeholder keeps the builder input
// non-empty and the job alive.
func (p *LessonProcessor) extractText(ctx context.Context, filePath string, blob []byte) string {
	ectx, cancel := context.WithTimeout(ctx, p.cfg.ExtractTimeout)
	defer cancel()

	done := make(chan string, 1)
	go func() { done <- p.extract.Extract(ectx, filePath, blob) }()

	select {
	case raw := <-done:
		return raw
	case <-ectx.Done():
		logging.With(ctx, p.log).Error().Dur("timeout", p.cfg.ExtractTimeout).
			Msg("extraction timed out, substituting placeholder")
		return extract.PlaceholderText
	}
}

// buildLesson bounds the builder call and substitutes the fixed fallback
// artifact on any failure. Content-generation failure is degraded output,
// not a pipeline failure: the job still completes.
func (p *LessonProcessor) buildLesson(ctx context.Context, text string, log *zerolog.Logger) *model.Lesson {
	bctx, cancel := context.WithTimeout(ctx, p.cfg.BuildTimeout)
	defer cancel()

	type result struct {
		lesson *model.Lesson
		err    error
	}
	done := make(chan result, 1)
	go func() {
		l, err := p.builder.BuildLesson(bctx, adapter.BuildInput{
			Topic: p.cfg.Topic,
			Text:  text,
			Age:   p.cfg.Age,
		})
		done <- result{l, err}
	}()

	select {
	case r := <-done:
		if r.err != nil || r.lesson == nil {
			log.Error().Err(r.err).Msg("builder failed, substituting fallback lesson")
			metrics.IncBuildFallback()
			return model.FallbackLesson()
		}
		return r.lesson
	case <-bctx.Done():
		log.Error().Dur("timeout", p.cfg.BuildTimeout).Msg("builder timed out, substituting fallback lesson")
		metrics.IncBuildFallback()
		return model.FallbackLesson()
	}
}

const (
	persistAttempts = 3
	persistBackoff  = 250 * time.Millisecond
)

// persist writes to the status store with bounded retries. A transient
// store outage would otherwise leave the visible state behind the actual
// processing outcome.
func (p *LessonProcessor) persist(ctx context.Context, jobID string, upd repository.JobUpdate) error {
	backoff := persistBackoff
	var err error
	for attempt := 0; attempt < persistAttempts; attempt++ {
		if err = p.jobs.Update(ctx, jobID, upd); err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= 2
	}
	return err
}

// fail moves the job to the terminal error status. The diagnostic is logged
// and stored server-side only; clients never see more than the status.
func (p *LessonProcessor) fail(ctx context.Context, jobID string, cause error) {
	log := logging.With(ctx, p.log)
	log.Error().Err(cause).Msg("lesson job failed")

	now := time.Now()
	status := model.JobStatusError
	note := cause.Error()
	if err := p.persist(ctx, jobID, repository.JobUpdate{
		Status:      &status,
		LastError:   &note,
		CompletedAt: &now,
	}); err != nil {
		log.Error().Err(err).Msg("could not persist error status, visible state may be stale")
	}
	metrics.IncJobProcessed(string(model.JobStatusError))
}
