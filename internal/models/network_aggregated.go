package models

// NetworkStatus represents aggregated network statistics across all interfaces
type NetworkStatus struct {
	BytesSent     uint64            `json:"bytes_sent"`
	BytesRecv     uint64            `json:"bytes_recv"`
	PacketsSent   uint64            `json:"packets_sent"`
	PacketsRecv   uint64            `json:"packets_recv"`
	SentMB        float64           `json:"sent_mb"`
	RecvMB        float64           `json:"recv_mb"`
	ErrorsIn      uint64            `json:"errors_in"`
	ErrorsOut     uint64            `json:"errors_out"`
	DropsIn       uint64            `json:"drop_in"`
	DropsOut      uint64            `json:"drop_out"`
	BytesSentRate float64           `json:"bytes_sent_rate"` // bytes/sec
	BytesRecvRate float64           `json:"bytes_recv_rate"` // bytes/sec
	Interfaces    []InterfaceStatus `json:"interfaces,omitempty"`
}
