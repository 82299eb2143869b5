package services

import (
	"sync"
	"time"

	"hostwatch/internal/models"
)

const DefaultHistoryCapacity = 60

// HistoryBuffer keeps the most recent cpu/memory readings for trend charts.
// Rows live in a ring; cpu, memory and timestamps always have the same length.
type HistoryBuffer struct {
	mu         sync.Mutex
	cpu        []float64
	memory     []float64
	timestamps []time.Time
	start      int // index of the oldest row
	size       int
}

// NewHistoryBuffer creates a buffer holding at most capacity rows
func NewHistoryBuffer(capacity int) *HistoryBuffer {
	if capacity < 1 {
		capacity = DefaultHistoryCapacity
	}
	return &HistoryBuffer{
		cpu:        make([]float64, capacity),
		memory:     make([]float64, capacity),
		timestamps: make([]time.Time, capacity),
	}
}

// Capacity returns the maximum number of rows retained
func (h *HistoryBuffer) Capacity() int {
	return len(h.timestamps)
}

// Len returns the number of rows currently held
func (h *HistoryBuffer) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.size
}

// AppendSample records one full cpu/memory row
func (h *HistoryBuffer) AppendSample(cpu, memory float64, ts time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.push(cpu, memory, ts)
}

// Append records a single metric reading. The other series repeats its latest
// value so that every row stays complete. Kinds other than cpu and memory are ignored.
func (h *HistoryBuffer) Append(kind models.MetricKind, value float64, ts time.Time) {
	if kind != models.MetricCPU && kind != models.MetricMemory {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	var lastCPU, lastMem float64
	if h.size > 0 {
		last := (h.start + h.size - 1) % len(h.timestamps)
		lastCPU, lastMem = h.cpu[last], h.memory[last]
	}

	switch kind {
	case models.MetricCPU:
		h.push(value, lastMem, ts)
	case models.MetricMemory:
		h.push(lastCPU, value, ts)
	}
}

// push must be called with mu held
func (h *HistoryBuffer) push(cpu, memory float64, ts time.Time) {
	capacity := len(h.timestamps)
	var idx int
	if h.size < capacity {
		idx = (h.start + h.size) % capacity
		h.size++
	} else {
		// full: overwrite the oldest row
		idx = h.start
		h.start = (h.start + 1) % capacity
	}
	h.cpu[idx] = cpu
	h.memory[idx] = memory
	h.timestamps[idx] = ts
}

// Snapshot returns copies of the three series, oldest first
func (h *HistoryBuffer) Snapshot() models.HistorySnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	snap := models.HistorySnapshot{
		CPU:        make([]float64, h.size),
		Memory:     make([]float64, h.size),
		Timestamps: make([]time.Time, h.size),
	}
	capacity := len(h.timestamps)
	for i := 0; i < h.size; i++ {
		idx := (h.start + i) % capacity
		snap.CPU[i] = h.cpu[idx]
		snap.Memory[i] = h.memory[idx]
		snap.Timestamps[i] = h.timestamps[idx]
	}
	return snap
}
