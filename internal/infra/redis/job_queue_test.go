//go:build !integration

package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"tutor-lesson-pipeline/internal/domain"
	"tutor-lesson-pipeline/internal/domain/ports/queue"
)

// fakeRedis is an in-memory RedisClient for unit tests. One list plus a
// plain key space for SETNX claims.
type fakeRedis struct {
	list    []string
	keys    map[string]struct{}
	pushErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{keys: make(map[string]struct{})}
}

func (f *fakeRedis) Ping(context.Context) error { return nil }

func (f *fakeRedis) LPush(_ context.Context, _ string, value interface{}) error {
	if f.pushErr != nil {
		return f.pushErr
	}
	b, _ := value.([]byte)
	f.list = append([]string{string(b)}, f.list...)
	return nil
}

func (f *fakeRedis) BRPop(_ context.Context, _ time.Duration, _ string) (string, error) {
	if len(f.list) == 0 {
		return "", goredis.Nil
	}
	v := f.list[len(f.list)-1]
	f.list = f.list[:len(f.list)-1]
	return v, nil
}

func (f *fakeRedis) SetNX(_ context.Context, key string, _ interface{}, _ time.Duration) (bool, error) {
	if _, ok := f.keys[key]; ok {
		return false, nil
	}
	f.keys[key] = struct{}{}
	return true, nil
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.keys, k)
	}
	return nil
}

func (f *fakeRedis) Close() error { return nil }

func TestJobQueue(t *testing.T) {
	ctx := context.Background()

	t.Run("should round-trip a message in FIFO order", func(t *testing.T) {
		cli := newFakeRedis()
		q := NewJobQueue(cli, "lesson:jobs")

		first := queue.JobMessage{JobID: "job-1", FilePath: "uploads/a.pdf", ChildID: "child-1"}
		second := queue.JobMessage{JobID: "job-2", FilePath: "uploads/b.pdf", ChildID: "child-1"}
		if err := q.Enqueue(ctx, first); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
		if err := q.Enqueue(ctx, second); err != nil {
			t.Fatalf("enqueue: %v", err)
		}

		got, err := q.Dequeue(ctx)
		if err != nil {
			t.Fatalf("dequeue: %v", err)
		}
		if got != first {
			t.Errorf("expected %+v first, got %+v", first, got)
		}
		got, err = q.Dequeue(ctx)
		if err != nil {
			t.Fatalf("dequeue: %v", err)
		}
		if got != second {
			t.Errorf("expected %+v second, got %+v", second, got)
		}
	})

	t.Run("should refuse to enqueue an invalid message", func(t *testing.T) {
		q := NewJobQueue(newFakeRedis(), "lesson:jobs")
		err := q.Enqueue(ctx, queue.JobMessage{JobID: "", FilePath: "uploads/a.pdf"})
		if !errors.Is(err, domain.ErrMalformedPayload) {
			t.Errorf("expected ErrMalformedPayload, got %v", err)
		}
	})

	t.Run("should reject a malformed payload on dequeue", func(t *testing.T) {
		cli := newFakeRedis()
		cli.list = []string{`{"job_id": 42}`}
		q := NewJobQueue(cli, "lesson:jobs")

		_, err := q.Dequeue(ctx)
		if !errors.Is(err, domain.ErrMalformedPayload) {
			t.Errorf("expected ErrMalformedPayload for bad json, got %v", err)
		}
	})

	t.Run("should reject a payload missing required fields", func(t *testing.T) {
		cli := newFakeRedis()
		cli.list = []string{`{"job_id":"job-1","child_id":"child-1"}`}
		q := NewJobQueue(cli, "lesson:jobs")

		_, err := q.Dequeue(ctx)
		if !errors.Is(err, domain.ErrMalformedPayload) {
			t.Errorf("expected ErrMalformedPayload for missing file_path, got %v", err)
		}
	})

	t.Run("should return the context error once cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		q := NewJobQueue(newFakeRedis(), "lesson:jobs")
		if _, err := q.Dequeue(cctx); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestJobClaimer(t *testing.T) {
	ctx := context.Background()

	t.Run("first claim wins, second loses, release frees", func(t *testing.T) {
		c := NewJobClaimer(newFakeRedis())

		ok, err := c.Claim(ctx, "job-1", time.Minute)
		if err != nil || !ok {
			t.Fatalf("expected first claim to succeed, got ok=%v err=%v", ok, err)
		}
		ok, err = c.Claim(ctx, "job-1", time.Minute)
		if err != nil {
			t.Fatalf("claim: %v", err)
		}
		if ok {
			t.Error("expected second claim on the same job to fail")
		}

		if err := c.Release(ctx, "job-1"); err != nil {
			t.Fatalf("release: %v", err)
		}
		ok, _ = c.Claim(ctx, "job-1", time.Minute)
		if !ok {
			t.Error("expected claim to succeed again after release")
		}
	})

	t.Run("claims on different jobs are independent", func(t *testing.T) {
		c := NewJobClaimer(newFakeRedis())
		if ok, _ := c.Claim(ctx, "job-1", time.Minute); !ok {
			t.Fatal("expected claim on job-1")
		}
		if ok, _ := c.Claim(ctx, "job-2", time.Minute); !ok {
			t.Error("expected claim on job-2 to be unaffected by job-1")
		}
	})
}
