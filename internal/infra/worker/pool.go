// File: internal/infra/worker/pool.go
package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"tutor-lesson-pipeline/internal/domain"
	"tutor-lesson-pipeline/internal/domain/ports/queue"
)

// Pool runs n competing consumers against a shared job queue. Each consumer
// is fully occupied for the duration of one job; there is no intra-job
// suspension and no cancellation once a message is dequeued.
type Pool struct {
	wg   sync.WaitGroup
	n    int
	proc *LessonProcessor
	log  *zerolog.Logger
}

func NewPool(workers int, proc *LessonProcessor, log *zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = 2
	}
	return &Pool{n: workers, proc: proc, log: log}
}

// Start launches the consumers. They stop when ctx is cancelled; Wait blocks
// until all of them have drained.
func (p *Pool) Start(ctx context.Context, q queue.JobQueue) {
	for i := 0; i < p.n; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for {
				msg, err := q.Dequeue(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					if errors.Is(err, domain.ErrMalformedPayload) {
						// dropped before any pipeline stage runs
						p.log.Error().Err(err).Int("worker", id).Msg("rejecting malformed job payload")
						continue
					}
					p.log.Error().Err(err).Int("worker", id).Msg("dequeue failed")
					continue
				}
				p.proc.Process(ctx, msg)
			}
		}(i)
	}
}

func (p *Pool) Wait() {
	p.wg.Wait()
}
