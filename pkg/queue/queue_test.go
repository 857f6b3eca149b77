package queue_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/agrovia/agrovia/pkg/queue"
)

// ─── Job types ────────────────────────────────────────────────────────────────

var (
	echoRuns atomic.Int32
	failRuns atomic.Int32
)

type echoJob struct {
	Val string `json:"val"`
}

func (j *echoJob) Handle() error {
	echoRuns.Add(1)
	return nil
}

type failJob struct{}

func (j *failJob) Handle() error {
	failRuns.Add(1)
	return errors.New("always fails")
}

func init() {
	queue.SetBackoff(func(int) time.Duration { return 0 })
	queue.Register("test.echo", func() queue.Job { return &echoJob{} })
	queue.Register("test.fail", func() queue.Job { return &failJob{} })

	queue.StartWorkers(context.Background(), 2)
}

// ─── Tests ────────────────────────────────────────────────────────────────────

func TestDispatchAndProcess(t *testing.T) {
	before := echoRuns.Load()
	if err := queue.Dispatch("test.echo", &echoJob{Val: "hello"}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	waitFor(t, func() bool { return echoRuns.Load() > before })
}

func TestFailedJobExhaustsRetries(t *testing.T) {
	queue.SetMaxRetry(2)
	defer queue.SetMaxRetry(3)

	before := failRuns.Load()
	if err := queue.Dispatch("test.fail", &failJob{}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	waitFor(t, func() bool { return failRuns.Load() >= before+2 })
	waitFor(t, func() bool { return len(queue.FailedJobs()) > 0 })

	last := queue.FailedJobs()[len(queue.FailedJobs())-1]
	if last.Type != "test.fail" {
		t.Errorf("wrong failed job type: %s", last.Type)
	}
	if last.Attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", last.Attempts)
	}
}

func TestDispatchConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(20)
	for i := 0; i < 20; i++ {
		go func() {
			defer wg.Done()
			queue.Dispatch("test.echo", &echoJob{Val: "c"}) //nolint:errcheck
		}()
	}
	wg.Wait()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}
