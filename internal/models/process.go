package models

type ProcessStatus struct {
	PID        int32   `json:"pid"`
	Name       string  `json:"name"`
	CPUPercent float64 `json:"cpu_percent"`
	MemPercent float64 `json:"memory_percent"`
	Status     string  `json:"status"`
	NumThreads int32   `json:"num_threads"`
	CreateTime string  `json:"create_time"`
}

// ProcessList is the top of the process table plus the number of processes seen
type ProcessList struct {
	Processes  []ProcessStatus `json:"processes"`
	TotalCount int             `json:"total_count"`
}
