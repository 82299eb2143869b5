package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"hostwatch/internal/models"
)

const DefaultMonitorInterval = 10 * time.Second

// AuditSink receives one record per completed cycle
type AuditSink interface {
	Append(record models.AuditRecord)
}

// CycleObserver is notified after every cycle
type CycleObserver interface {
	OnCycle(sample models.Sample, alerts []models.AlertEvent)
	OnCycleError(err error)
}

// MonitorOptions configures a Monitor
type MonitorOptions struct {
	Interval  time.Duration
	Logger    logrus.FieldLogger
	Observers []CycleObserver
}

// Monitor runs the sample → evaluate → log → retain cycle in the background
type Monitor struct {
	source     SampleSource
	thresholds *ThresholdPolicy
	alerts     *AlertStore
	audit      AuditSink
	history    *HistoryBuffer
	interval   time.Duration
	logger     logrus.FieldLogger
	observers  []CycleObserver

	mu     sync.Mutex
	stopFn context.CancelFunc
	done   chan struct{}
}

// NewMonitor wires a monitor to the state objects it updates
func NewMonitor(source SampleSource, thresholds *ThresholdPolicy, alerts *AlertStore, audit AuditSink, history *HistoryBuffer, opts MonitorOptions) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = DefaultMonitorInterval
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Monitor{
		source:     source,
		thresholds: thresholds,
		alerts:     alerts,
		audit:      audit,
		history:    history,
		interval:   opts.Interval,
		logger:     opts.Logger.WithField("component", "monitor"),
		observers:  opts.Observers,
	}
}

// Start launches the loop. Calling Start on a running monitor does nothing.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopFn != nil {
		return
	}

	ctx, m.stopFn = context.WithCancel(ctx)
	m.done = make(chan struct{})
	go m.loop(ctx, m.done)

	m.logger.Infof("Monitor started (interval: %v)", m.interval)
}

// Stop signals the loop and waits for it to finish the current cycle
func (m *Monitor) Stop() {
	m.mu.Lock()
	stop, done := m.stopFn, m.done
	m.stopFn = nil
	m.mu.Unlock()

	if stop == nil {
		return
	}
	stop()
	<-done
	m.logger.Info("Monitor stopped")
}

// Done is closed once the loop has exited. It returns nil before Start.
func (m *Monitor) Done() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done
}

func (m *Monitor) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// a stop request does not interrupt a cycle that has already begun
		if err := m.RunCycle(context.WithoutCancel(ctx)); err != nil {
			m.logger.WithError(err).Error("Monitor cycle failed")
			m.notifyError(err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(m.interval):
		}
	}
}

// RunCycle performs a single monitoring cycle. Panics are turned into errors.
func (m *Monitor) RunCycle(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("monitor cycle panicked: %v", r)
		}
	}()

	sample, err := m.source.Sample(ctx)
	if err != nil {
		return fmt.Errorf("sample: %w", err)
	}

	alerts := Evaluate(sample, m.thresholds.Get())
	m.alerts.Publish(alerts)
	m.audit.Append(RecordFromCycle(sample, alerts))
	m.history.AppendSample(sample.CPUPercent, sample.MemoryPercent, sample.Timestamp)

	m.logger.WithFields(logrus.Fields{
		"cpu":    sample.CPUPercent,
		"memory": sample.MemoryPercent,
		"disk":   sample.DiskPercent,
		"alerts": len(alerts),
	}).Debug("Monitor cycle complete")

	for _, o := range m.observers {
		o.OnCycle(sample, alerts)
	}
	return nil
}

func (m *Monitor) notifyError(err error) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Errorf("Cycle observer panicked: %v", r)
		}
	}()
	for _, o := range m.observers {
		o.OnCycleError(err)
	}
}
