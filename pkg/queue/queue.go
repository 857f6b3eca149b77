// Package queue runs background jobs — in this application, the outbound
// notification emails. Jobs retry with backoff; a job that exhausts its
// retries is kept in the failed list instead of aborting any request.
//
//	type QuoteNotifyJob struct{ QuoteID uint }
//	func (j QuoteNotifyJob) Handle() error { … }
//
//	queue.Register("jobs.QuoteNotifyJob", func() queue.Job { return &QuoteNotifyJob{} })
//	queue.Dispatch(QuoteNotifyJob{QuoteID: 17})
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/agrovia/agrovia/pkg/logger"
)

// Job is anything the queue can execute.
type Job interface {
	// Handle runs the job; a non-nil error triggers a retry.
	Handle() error
}

// Driver is the queue's storage backend.
type Driver interface {
	Push(payload []byte) error
	Pop(ctx context.Context) ([]byte, error)
}

// FailedJob records a job that exhausted its retries.
type FailedJob struct {
	Type     string
	Payload  json.RawMessage
	Err      error
	FailedAt time.Time
	Attempts int
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	failed   []FailedJob
	maxRetry int
	backoff  func(attempt int) time.Duration
}

var def = &manager{
	driver:   NewMemoryDriver(),
	registry: map[string]func() Job{},
	maxRetry: 3,
	backoff:  func(attempt int) time.Duration { return time.Duration(attempt) * time.Second },
}

// SetDriver swaps the backend (e.g. the Redis driver). Call before
// StartWorkers.
func SetDriver(d Driver) {
	def.mu.Lock()
	def.driver = d
	def.mu.Unlock()
}

// SetMaxRetry sets the attempt ceiling per job.
func SetMaxRetry(n int) { def.maxRetry = n }

// SetBackoff replaces the retry delay function (tests shrink it to zero).
func SetBackoff(fn func(attempt int) time.Duration) { def.backoff = fn }

// Register maps a job type name to a constructor so payloads can be
// deserialised back into jobs. Call once at boot per job type.
func Register(name string, factory func() Job) {
	def.mu.Lock()
	def.registry[name] = factory
	def.mu.Unlock()
}

// Dispatch serialises job and pushes it onto the queue under its
// registered name.
func Dispatch(name string, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal job %s: %w", name, err)
	}
	env, err := json.Marshal(envelope{Type: name, Payload: payload})
	if err != nil {
		return fmt.Errorf("queue: marshal envelope: %w", err)
	}

	def.mu.RLock()
	d := def.driver
	def.mu.RUnlock()
	return d.Push(env)
}

// StartWorkers launches n workers that process jobs until ctx is cancelled.
func StartWorkers(ctx context.Context, n int) {
	for i := 0; i < n; i++ {
		go def.work(ctx)
	}
	logger.Info("queue: workers started", "count", n)
}

// FailedJobs returns a snapshot of jobs that exhausted their retries.
func FailedJobs() []FailedJob {
	def.mu.RLock()
	defer def.mu.RUnlock()
	out := make([]FailedJob, len(def.failed))
	copy(out, def.failed)
	return out
}

func (m *manager) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		m.mu.RLock()
		d := m.driver
		m.mu.RUnlock()

		raw, err := d.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if raw == nil {
			continue
		}

		m.process(raw)
	}
}

func (m *manager) process(raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()
	if !ok {
		logger.Warn("queue: unregistered job type", "type", env.Type)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: unmarshal payload", "type", env.Type, "error", err)
		return
	}

	m.run(job, env)
}

func (m *manager) run(job Job, env envelope) {
	var lastErr error
	for attempt := 1; attempt <= m.maxRetry; attempt++ {
		if err := job.Handle(); err != nil {
			lastErr = err
			logger.Warn("queue: job failed, retrying",
				"type", env.Type, "attempt", attempt, "error", err)
			time.Sleep(m.backoff(attempt))
			continue
		}
		logger.Info("queue: job processed", "type", env.Type)
		return
	}

	m.mu.Lock()
	m.failed = append(m.failed, FailedJob{
		Type:     env.Type,
		Payload:  env.Payload,
		Err:      lastErr,
		FailedAt: time.Now(),
		Attempts: m.maxRetry,
	})
	m.mu.Unlock()
	logger.Error("queue: job exhausted retries", "type", env.Type, "error", lastErr)
}
