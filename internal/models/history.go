package models

import "time"

// MetricKind names a monitored resource
type MetricKind string

const (
	MetricCPU    MetricKind = "cpu"
	MetricMemory MetricKind = "memory"
	MetricDisk   MetricKind = "disk"
)

// HistorySnapshot is a point-in-time copy of the recent cpu/memory series.
// Index i of every slice refers to the same sampling instant, oldest first.
type HistorySnapshot struct {
	CPU        []float64   `json:"cpu"`
	Memory     []float64   `json:"memory"`
	Timestamps []time.Time `json:"timestamps"`
}

// Len returns the number of rows in the snapshot
func (s HistorySnapshot) Len() int {
	return len(s.Timestamps)
}
