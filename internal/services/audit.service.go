package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"hostwatch/internal/models"
)

const (
	auditTimeLayout = "2006-01-02 15:04:05"
	alertDelimiter  = "|"
	bytesPerMB      = 1024 * 1024
)

var auditHeader = []string{
	"Timestamp", "CPU %", "Memory %", "Disk %",
	"Network Sent (MB)", "Network Recv (MB)", "Alerts",
}

// AuditLogger appends one CSV row per monitoring cycle. Write failures are
// logged and counted but never returned, so a broken log file cannot stop
// monitoring.
type AuditLogger struct {
	path     string
	logger   logrus.FieldLogger
	mu       sync.Mutex
	failures atomic.Uint64
}

// NewAuditLogger creates a logger writing to path
func NewAuditLogger(path string, logger logrus.FieldLogger) *AuditLogger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AuditLogger{
		path:   path,
		logger: logger.WithField("component", "audit"),
	}
}

// Path returns the CSV file location
func (a *AuditLogger) Path() string {
	return a.path
}

// Failures returns how many appends have failed since start
func (a *AuditLogger) Failures() uint64 {
	return a.failures.Load()
}

// EnsureInitialized creates the log with its header row when it does not
// exist yet. An existing file is left untouched.
func (a *AuditLogger) EnsureInitialized() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if dir := filepath.Dir(a.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: create audit directory: %v", ErrPersistence, err)
		}
	}

	f, err := os.OpenFile(a.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return fmt.Errorf("%w: create audit log %s: %v", ErrPersistence, a.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(auditHeader); err != nil {
		return fmt.Errorf("%w: write audit header: %v", ErrPersistence, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: write audit header: %v", ErrPersistence, err)
	}

	a.logger.Infof("Created audit log %s", a.path)
	return nil
}

// Append writes one row. Errors are swallowed after being logged.
func (a *AuditLogger) Append(record models.AuditRecord) {
	if err := a.write(record); err != nil {
		a.failures.Add(1)
		a.logger.WithError(err).Warn("Audit log write failed")
	}
}

func (a *AuditLogger) write(record models.AuditRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	f, err := os.OpenFile(a.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrPersistence, a.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(auditRow(record)); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func auditRow(r models.AuditRecord) []string {
	return []string{
		r.Timestamp.Format(auditTimeLayout),
		formatPercent(r.CPUPercent),
		formatPercent(r.MemoryPercent),
		formatPercent(r.DiskPercent),
		formatPercent(r.NetSentMB),
		formatPercent(r.NetRecvMB),
		strings.Join(r.Alerts, alertDelimiter),
	}
}

// formatPercent prints the shortest exact form, keeping ".0" on whole numbers
func formatPercent(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// RecordFromCycle builds the audit row for one sample and its alerts
func RecordFromCycle(sample models.Sample, alerts []models.AlertEvent) models.AuditRecord {
	return models.AuditRecord{
		Timestamp:     sample.Timestamp,
		CPUPercent:    sample.CPUPercent,
		MemoryPercent: sample.MemoryPercent,
		DiskPercent:   sample.DiskPercent,
		NetSentMB:     toMB(sample.NetSentBytes),
		NetRecvMB:     toMB(sample.NetRecvBytes),
		Alerts:        AlertMessages(alerts),
	}
}

func toMB(bytes uint64) float64 {
	return round2(float64(bytes) / bytesPerMB)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
