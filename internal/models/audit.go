package models

import "time"

// AuditRecord is one row of the audit log
type AuditRecord struct {
	Timestamp     time.Time
	CPUPercent    float64
	MemoryPercent float64
	DiskPercent   float64
	NetSentMB     float64
	NetRecvMB     float64
	Alerts        []string
}
