package models

// CPUStatus represents CPU usage information
type CPUStatus struct {
	UsagePercent    float64       `json:"overall_usage"`
	PerCore         []float64     `json:"per_core"`
	CoreCount       int           `json:"core_count"`
	LogicalCount    int           `json:"logical_count"`
	Frequency       *CPUFrequency `json:"frequency"`
	Times           CPUTimes      `json:"times"`
	ContextSwitches uint64        `json:"context_switches"`
	Interrupts      uint64        `json:"interrupts"`
}

// CPUFrequency holds clock speeds in MHz
type CPUFrequency struct {
	Current float64 `json:"current"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// CPUTimes is the share of processor time spent per mode, in percent
type CPUTimes struct {
	User   float64 `json:"user"`
	System float64 `json:"system"`
	Idle   float64 `json:"idle"`
}
