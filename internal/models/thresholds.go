package models

// ThresholdSet holds per-metric alert thresholds in percent
type ThresholdSet struct {
	CPU    float64 `json:"cpu" mapstructure:"cpu"`
	Memory float64 `json:"memory" mapstructure:"memory"`
	Disk   float64 `json:"disk" mapstructure:"disk"`
}

// DefaultThresholds returns the thresholds used when nothing is configured
func DefaultThresholds() ThresholdSet {
	return ThresholdSet{CPU: 80.0, Memory: 85.0, Disk: 90.0}
}
