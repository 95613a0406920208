package observability

import (
	"sync"
	"time"
)

// Metrics provides basic in-memory counters keyed by message pattern.
type Metrics struct {
	mu           sync.Mutex
	handledCount map[string]int64
	errorCount   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		handledCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
	}
}

// RecordHandled increments the counter for a processed message.
func (m *Metrics) RecordHandled(pattern string, duration time.Duration) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handledCount[pattern]++
}

// RecordError increments error counters per pattern and error code.
func (m *Metrics) RecordError(pattern, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[pattern+"|"+code]++
}

// HandledCount returns the number of messages processed for a pattern.
func (m *Metrics) HandledCount(pattern string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handledCount[pattern]
}

// ErrorCount returns the number of errors recorded for a pattern and code.
func (m *Metrics) ErrorCount(pattern, code string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errorCount[pattern+"|"+code]
}
