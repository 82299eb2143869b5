package models

import "time"

// Sample is one monitoring cycle's measurement
type Sample struct {
	Timestamp     time.Time `json:"timestamp"`
	CPUPercent    float64   `json:"cpu_percent"`
	MemoryPercent float64   `json:"memory_percent"`
	DiskPercent   float64   `json:"disk_percent"`
	NetSentBytes  uint64    `json:"network_sent_bytes"`
	NetRecvBytes  uint64    `json:"network_received_bytes"`
}
