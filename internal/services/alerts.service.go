package services

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"hostwatch/internal/models"
)

// alertRule describes how a threshold breach on one metric is reported
type alertRule struct {
	kind     models.MetricKind
	label    string
	severity models.Severity
	concept  string
}

// Evaluation order is part of the contract: cpu, memory, disk.
var alertRules = []alertRule{
	{kind: models.MetricCPU, label: "CPU", severity: models.SeverityWarning, concept: "high processor utilization"},
	{kind: models.MetricMemory, label: "Memory", severity: models.SeverityWarning, concept: "high memory pressure"},
	{kind: models.MetricDisk, label: "Disk", severity: models.SeverityError, concept: "low disk space"},
}

// Evaluate returns one alert per metric whose value is strictly above its
// threshold. It has no side effects; callers publish the result.
func Evaluate(sample models.Sample, thresholds models.ThresholdSet) []models.AlertEvent {
	alerts := make([]models.AlertEvent, 0, len(alertRules))

	for _, rule := range alertRules {
		value, limit := pick(rule.kind, sample, thresholds)
		if value <= limit {
			continue
		}
		alerts = append(alerts, models.AlertEvent{
			ID:        uuid.NewString(),
			Type:      rule.kind,
			Severity:  rule.severity,
			Message:   fmt.Sprintf("%s usage critical: %.1f%% (threshold: %.1f%%)", rule.label, value, limit),
			Concept:   rule.concept,
			Timestamp: sample.Timestamp,
		})
	}

	return alerts
}

func pick(kind models.MetricKind, s models.Sample, t models.ThresholdSet) (value, limit float64) {
	switch kind {
	case models.MetricCPU:
		return s.CPUPercent, t.CPU
	case models.MetricMemory:
		return s.MemoryPercent, t.Memory
	default:
		return s.DiskPercent, t.Disk
	}
}

// AlertMessages extracts the message of every alert, preserving order
func AlertMessages(alerts []models.AlertEvent) []string {
	messages := make([]string, 0, len(alerts))
	for _, a := range alerts {
		messages = append(messages, a.Message)
	}
	return messages
}

// AlertStore holds the alert set produced by the latest evaluation.
// The set is swapped as a whole; readers never see a partial list.
type AlertStore struct {
	current atomic.Pointer[[]models.AlertEvent]
}

// NewAlertStore creates an empty store
func NewAlertStore() *AlertStore {
	s := &AlertStore{}
	empty := []models.AlertEvent{}
	s.current.Store(&empty)
	return s
}

// Publish replaces the current alert set
func (s *AlertStore) Publish(alerts []models.AlertEvent) {
	next := make([]models.AlertEvent, len(alerts))
	copy(next, alerts)
	s.current.Store(&next)
}

// Current returns a copy of the current alert set
func (s *AlertStore) Current() []models.AlertEvent {
	cur := *s.current.Load()
	out := make([]models.AlertEvent, len(cur))
	copy(out, cur)
	return out
}
