package services

import (
	"time"

	"hostwatch/internal/models"
)

// Facade is the read/write surface the HTTP layer uses to reach the monitor state
type Facade struct {
	alerts     *AlertStore
	history    *HistoryBuffer
	thresholds *ThresholdPolicy

	onThresholds []func(models.ThresholdSet)
}

func NewFacade(alerts *AlertStore, history *HistoryBuffer, thresholds *ThresholdPolicy) *Facade {
	return &Facade{alerts: alerts, history: history, thresholds: thresholds}
}

// CurrentAlerts returns the alert set of the latest evaluation
func (f *Facade) CurrentAlerts() []models.AlertEvent {
	return f.alerts.Current()
}

// History returns a copy of the recent cpu/memory series
func (f *Facade) History() models.HistorySnapshot {
	return f.history.Snapshot()
}

// Thresholds returns the thresholds currently in force
func (f *Facade) Thresholds() models.ThresholdSet {
	return f.thresholds.Get()
}

// OnThresholdsChanged registers fn to run after every successful update.
// Register hooks before serving requests.
func (f *Facade) OnThresholdsChanged(fn func(models.ThresholdSet)) {
	f.onThresholds = append(f.onThresholds, fn)
}

// UpdateThresholds applies a partial update and returns the full resulting set
func (f *Facade) UpdateThresholds(partial map[string]interface{}) (models.ThresholdSet, error) {
	values, err := f.thresholds.Update(partial)
	if err != nil {
		return values, err
	}
	for _, fn := range f.onThresholds {
		fn(values)
	}
	return values, nil
}

// RecordReading adds an on-demand reading to the history
func (f *Facade) RecordReading(kind models.MetricKind, value float64, ts time.Time) {
	f.history.Append(kind, value, ts)
}
