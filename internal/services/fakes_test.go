package services

import (
	"context"
	"sync"
	"time"

	"hostwatch/internal/models"
)

// fakeProvider is a MetricsProvider with fixed readings and call counters
type fakeProvider struct {
	mu    sync.Mutex
	calls map[string]int

	cpu     models.CPUStatus
	memory  models.MemoryStatus
	disk    models.DiskStatus
	network models.NetworkStatus
	err     error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		calls:   map[string]int{},
		cpu:     models.CPUStatus{UsagePercent: 42.5, CoreCount: 4, LogicalCount: 8},
		memory:  models.MemoryStatus{Virtual: models.VirtualMemory{Percent: 61.25}},
		disk:    models.DiskStatus{Path: "/", UsagePercent: 70},
		network: models.NetworkStatus{BytesSent: 10 * 1024 * 1024, BytesRecv: 20 * 1024 * 1024},
	}
}

func (f *fakeProvider) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.err
}

func (f *fakeProvider) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeProvider) setNetwork(sent, recv uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.network.BytesSent, f.network.BytesRecv = sent, recv
}

func (f *fakeProvider) CPU(context.Context, time.Duration) (*models.CPUStatus, error) {
	if err := f.record("cpu"); err != nil {
		return nil, err
	}
	c := f.cpu
	return &c, nil
}

func (f *fakeProvider) Memory(context.Context) (*models.MemoryStatus, error) {
	if err := f.record("memory"); err != nil {
		return nil, err
	}
	m := f.memory
	return &m, nil
}

func (f *fakeProvider) Disk(context.Context) (*models.DiskReport, error) {
	if err := f.record("disk"); err != nil {
		return nil, err
	}
	return &models.DiskReport{Partitions: []models.DiskStatus{f.disk}}, nil
}

func (f *fakeProvider) DiskUsage(_ context.Context, path string) (*models.DiskStatus, error) {
	if err := f.record("disk-usage"); err != nil {
		return nil, err
	}
	d := f.disk
	d.Path = path
	return &d, nil
}

func (f *fakeProvider) Network(context.Context) (*models.NetworkStatus, error) {
	if err := f.record("network"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.network
	return &n, nil
}

func (f *fakeProvider) Processes(context.Context) (*models.ProcessList, error) {
	if err := f.record("processes"); err != nil {
		return nil, err
	}
	return &models.ProcessList{Processes: []models.ProcessStatus{{PID: 1, Name: "init"}}, TotalCount: 1}, nil
}

func (f *fakeProvider) SystemInfo(context.Context) (*models.SystemInfo, error) {
	if err := f.record("system-info"); err != nil {
		return nil, err
	}
	return &models.SystemInfo{Platform: "linux", Hostname: "test"}, nil
}
