// Package ports probes for free local TCP ports.
//
// Probing is sequential from a base port, bounded both by a candidate count
// and a time budget, matching the launcher contract that a failed probe
// aborts the launch rather than retrying forever.
package ports

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// Probe defaults used by the startup profiling modes.
const (
	DebugBasePort   = 9222
	DefaultAttempts = 10
	DefaultBudget   = 3 * time.Second
)

// ErrNoFreePort indicates probing exhausted its attempts or time budget.
var ErrNoFreePort = errors.New("no free port found")

// FindFreePort returns the first free TCP port at or above start, trying at
// most attempts candidates within the given time budget.
func FindFreePort(ctx context.Context, start, attempts int, budget time.Duration) (int, error) {
	if start <= 0 || start > 65535 {
		return 0, fmt.Errorf("invalid base port %d", start)
	}
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	if budget <= 0 {
		budget = DefaultBudget
	}

	probeCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	for i := 0; i < attempts; i++ {
		candidate := start + i
		if candidate > 65535 {
			break
		}
		if err := probeCtx.Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrNoFreePort, err)
		}
		if portFree(candidate) {
			return candidate, nil
		}
	}
	return 0, fmt.Errorf("%w: tried %d ports from %d", ErrNoFreePort, attempts, start)
}

// FindFreePorts reserves count strictly increasing free ports, each probe
// starting one above the previous result.
func FindFreePorts(ctx context.Context, start, count int) ([]int, error) {
	result := make([]int, 0, count)
	next := start
	for i := 0; i < count; i++ {
		port, err := FindFreePort(ctx, next, DefaultAttempts, DefaultBudget)
		if err != nil {
			return nil, err
		}
		result = append(result, port)
		next = port + 1
	}
	return result, nil
}

func portFree(port int) bool {
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return false
	}
	_ = listener.Close()
	return true
}
