package inspect

import (
	"context"
	"sync"
	"time"

	"quill/internal/ports"
)

// Allocator hands out debug inspector ports to child processes. It owns the
// last assigned port and serializes concurrent requests, so every answer is
// a distinct free port strictly above the previous assignment.
type Allocator struct {
	mu       sync.Mutex
	last     int
	attempts int
	budget   time.Duration
}

// NewAllocator seeds the allocator so the first assignment lands above
// lastAssigned.
func NewAllocator(lastAssigned int) *Allocator {
	return &Allocator{
		last:     lastAssigned,
		attempts: ports.DefaultAttempts,
		budget:   ports.DefaultBudget,
	}
}

// Next reserves the next free port above the previous assignment.
func (a *Allocator) Next(ctx context.Context) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	port, err := ports.FindFreePort(ctx, a.last+1, a.attempts, a.budget)
	if err != nil {
		return 0, err
	}
	a.last = port
	return port, nil
}

// Last returns the most recently assigned port.
func (a *Allocator) Last() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}
