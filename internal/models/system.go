package models

// SystemInfo describes the host the monitor runs on
type SystemInfo struct {
	Platform        string `json:"platform"`
	PlatformRelease string `json:"platform_release"`
	PlatformVersion string `json:"platform_version"`
	Architecture    string `json:"architecture"`
	Processor       string `json:"processor"`
	Hostname        string `json:"hostname"`
	BootTime        string `json:"boot_time"`
	UptimeSeconds   uint64 `json:"uptime_seconds"`
}
