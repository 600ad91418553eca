package redis

import (
	"context"
	"time"

	"tutor-lesson-pipeline/internal/domain/ports/queue"
)

// jobClaimer implements the duplicate-delivery guard with SETNX + TTL.
// The broker is at-least-once, so the same job id can arrive twice; the
// first worker to set the claim key runs the job, later deliveries inside
// the TTL are skipped. The TTL bounds how long a crashed worker can hold
// a claim.
type jobClaimer struct {
	cli    RedisClient
	prefix string
}

var _ queue.Claimer = (*jobClaimer)(nil)

func NewJobClaimer(cli RedisClient) *jobClaimer {
	return &jobClaimer{cli: cli, prefix: "lesson:claim:"}
}

func (c *jobClaimer) Claim(ctx context.Context, jobID string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return c.cli.SetNX(ctx, c.prefix+jobID, time.Now().Unix(), ttl)
}

func (c *jobClaimer) Release(ctx context.Context, jobID string) error {
	return c.cli.Del(ctx, c.prefix+jobID)
}
