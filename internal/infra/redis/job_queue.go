package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tutor-lesson-pipeline/internal/domain"
	"tutor-lesson-pipeline/internal/domain/ports/queue"
)

// jobQueue is the Redis-list job queue: LPUSH on submit, BRPOP to consume.
// Competing consumers each block on the same key; Redis hands every message
// to exactly one of them, though delivery remains at-least-once overall
// (a worker that dies mid-job loses nothing but its claim).
type jobQueue struct {
	cli RedisClient
	key string
}

var _ queue.JobQueue = (*jobQueue)(nil)

const popTimeout = 5 * time.Second

func NewJobQueue(cli RedisClient, key string) *jobQueue {
	return &jobQueue{cli: cli, key: key}
}

func (q *jobQueue) Enqueue(ctx context.Context, msg queue.JobMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal job message: %w", err)
	}
	if err := q.cli.LPush(ctx, q.key, b); err != nil {
		return fmt.Errorf("enqueue job %s: %w", msg.JobID, err)
	}
	return nil
}

// Dequeue blocks until a message arrives or ctx is done. Payloads are decoded
// against the explicit schema and validated here, before any pipeline stage
// runs; a malformed payload is dropped with ErrMalformedPayload.
func (q *jobQueue) Dequeue(ctx context.Context) (queue.JobMessage, error) {
	for {
		if err := ctx.Err(); err != nil {
			return queue.JobMessage{}, err
		}
		raw, err := q.cli.BRPop(ctx, popTimeout, q.key)
		if err != nil {
			if IsNil(err) {
				continue // idle poll, keep blocking
			}
			return queue.JobMessage{}, fmt.Errorf("dequeue: %w", err)
		}
		var msg queue.JobMessage
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			return queue.JobMessage{}, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
		}
		if err := msg.Validate(); err != nil {
			return queue.JobMessage{}, err
		}
		return msg, nil
	}
}

func (q *jobQueue) Close() error { return q.cli.Close() }
