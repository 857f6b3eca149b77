package queue

import "context"

// MemoryDriver is an in-process, channel-backed driver. Not durable across
// restarts; the default for development and tests.
type MemoryDriver struct {
	ch chan []byte
}

// NewMemoryDriver returns a driver buffering up to 1000 jobs.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{ch: make(chan []byte, 1000)}
}

func (d *MemoryDriver) Push(payload []byte) error {
	d.ch <- payload
	return nil
}

func (d *MemoryDriver) Pop(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case payload := <-d.ch:
		return payload, nil
	}
}
