// Package sequence allocates the per-scope counters behind application
// reference numbers.
package sequence

import (
	"context"
	"sync"
)

// Memory is a process-local Sequencer.
type Memory struct {
	mu       sync.Mutex
	counters map[string]int64
}

func NewMemory() *Memory {
	return &Memory{counters: make(map[string]int64)}
}

func (m *Memory) Next(_ context.Context, scope string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[scope]++
	return m.counters[scope], nil
}
