// Package schedule runs recurring background tasks on fixed intervals.
//
//	schedule.Every(1).Hours().Run("cache-sweep", func() { _ = cache.Sweep() })
//	schedule.Start(ctx)
package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/agrovia/agrovia/pkg/logger"
)

type entry struct {
	name     string
	interval time.Duration
	task     func()
	running  bool // overlap guard
	mu       sync.Mutex
}

var (
	regMu   sync.Mutex
	entries []*entry
)

// Builder carries the interval while the fluent chain completes.
type Builder struct {
	n int
}

// Every starts a schedule of n units.
func Every(n int) *Builder {
	if n < 1 {
		n = 1
	}
	return &Builder{n: n}
}

// Interval wraps a concrete duration, ready to register a task.
type Interval struct {
	d time.Duration
}

func (b *Builder) Minutes() *Interval { return &Interval{d: time.Duration(b.n) * time.Minute} }
func (b *Builder) Hours() *Interval   { return &Interval{d: time.Duration(b.n) * time.Hour} }

// Run registers task to run on this interval once Start is called.
func (iv *Interval) Run(name string, task func()) {
	regMu.Lock()
	entries = append(entries, &entry{name: name, interval: iv.d, task: task})
	regMu.Unlock()
}

// Start launches one goroutine per registered task. Tasks stop when ctx is
// cancelled. A task still running when its next tick arrives is skipped
// for that tick.
func Start(ctx context.Context) {
	regMu.Lock()
	current := make([]*entry, len(entries))
	copy(current, entries)
	regMu.Unlock()

	for _, e := range current {
		go e.loop(ctx)
	}
	if len(current) > 0 {
		logger.Info("schedule: started", "tasks", len(current))
	}
}

// Reset clears all registered tasks (tests).
func Reset() {
	regMu.Lock()
	entries = nil
	regMu.Unlock()
}

func (e *entry) loop(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.fire()
		}
	}
}

func (e *entry) fire() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		logger.Warn("schedule: task still running, skipping tick", "task", e.name)
		return
	}
	e.running = true
	e.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("schedule: task panicked", "task", e.name, "panic", r)
		}
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	e.task()
}
