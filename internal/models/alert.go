package models

import "time"

type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// AlertEvent reports a metric above its configured threshold
type AlertEvent struct {
	ID        string     `json:"id"`
	Type      MetricKind `json:"type"`
	Severity  Severity   `json:"severity"`
	Message   string     `json:"message"`
	Concept   string     `json:"concept"`
	Timestamp time.Time  `json:"timestamp"`
}
