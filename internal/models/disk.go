package models

// DiskStatus represents detailed disk usage information for one mountpoint
type DiskStatus struct {
	Device       string  `json:"device"`
	Path         string  `json:"mountpoint"`
	Filesystem   string  `json:"fstype"`
	Total        uint64  `json:"total"`
	Used         uint64  `json:"used"`
	Free         uint64  `json:"free"`
	UsagePercent float64 `json:"percent"`
	TotalGB      float64 `json:"total_gb"`
	UsedGB       float64 `json:"used_gb"`
	FreeGB       float64 `json:"free_gb"`
}

// DiskIOStats aggregates I/O counters over all block devices
type DiskIOStats struct {
	ReadCount  uint64  `json:"read_count"`
	WriteCount uint64  `json:"write_count"`
	ReadBytes  uint64  `json:"read_bytes"`
	WriteBytes uint64  `json:"write_bytes"`
	ReadMB     float64 `json:"read_mb"`
	WriteMB    float64 `json:"write_mb"`
}

// DiskReport lists readable partitions and the global I/O counters.
// IOStats is nil when the platform exposes no counters.
type DiskReport struct {
	Partitions []DiskStatus `json:"partitions"`
	IOStats    *DiskIOStats `json:"io_stats"`
}
