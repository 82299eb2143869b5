package services

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"hostwatch/internal/models"
)

const (
	GB = 1024 * 1024 * 1024
	MB = 1024 * 1024
)

// MetricsProvider supplies point-in-time readings of the host's resources
type MetricsProvider interface {
	CPU(ctx context.Context, interval time.Duration) (*models.CPUStatus, error)
	Memory(ctx context.Context) (*models.MemoryStatus, error)
	Disk(ctx context.Context) (*models.DiskReport, error)
	DiskUsage(ctx context.Context, path string) (*models.DiskStatus, error)
	Network(ctx context.Context) (*models.NetworkStatus, error)
	Processes(ctx context.Context) (*models.ProcessList, error)
	SystemInfo(ctx context.Context) (*models.SystemInfo, error)
}

// SystemProvider reads metrics of the local host through gopsutil
type SystemProvider struct {
	logger logrus.FieldLogger
}

// NewSystemProvider creates a provider for the local host
func NewSystemProvider(logger logrus.FieldLogger) *SystemProvider {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &SystemProvider{logger: logger.WithField("component", "provider")}
}

// CPU returns usage measured over interval, overall and per core
func (p *SystemProvider) CPU(ctx context.Context, interval time.Duration) (*models.CPUStatus, error) {
	var overall, perCore []float64

	// both windows run side by side so the call costs one interval
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		overall, err = cpu.PercentWithContext(gctx, interval, false)
		return err
	})
	g.Go(func() error {
		var err error
		perCore, err = cpu.PercentWithContext(gctx, interval, true)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: cpu percent: %v", ErrProviderUnavailable, err)
	}
	if len(overall) == 0 {
		return nil, fmt.Errorf("%w: cpu percent: no data", ErrProviderUnavailable)
	}

	status := &models.CPUStatus{
		UsagePercent: round2(overall[0]),
		PerCore:      make([]float64, 0, len(perCore)),
	}
	for _, core := range perCore {
		status.PerCore = append(status.PerCore, round2(core))
	}

	if n, err := cpu.CountsWithContext(ctx, false); err == nil {
		status.CoreCount = n
	} else {
		p.logger.Debugf("Could not get physical core count: %v", err)
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil {
		status.LogicalCount = n
	} else {
		p.logger.Debugf("Could not get logical core count: %v", err)
	}

	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 {
		status.Frequency = &models.CPUFrequency{
			Current: round2(infos[0].Mhz),
			Max:     round2(infos[0].Mhz),
		}
	}

	if times, err := cpu.TimesWithContext(ctx, false); err == nil && len(times) > 0 {
		status.Times = timeShares(times[0])
	} else if err != nil {
		p.logger.Debugf("Could not get cpu times: %v", err)
	}

	if misc, err := load.MiscWithContext(ctx); err == nil {
		status.ContextSwitches = uint64(misc.Ctxt)
	}
	if runtime.GOOS == "linux" {
		if intr, err := readProcStatCounter("/proc/stat", "intr"); err == nil {
			status.Interrupts = intr
		}
	}

	return status, nil
}

func timeShares(t cpu.TimesStat) models.CPUTimes {
	total := t.Total()
	if total <= 0 {
		return models.CPUTimes{}
	}
	return models.CPUTimes{
		User:   round2(t.User / total * 100),
		System: round2(t.System / total * 100),
		Idle:   round2(t.Idle / total * 100),
	}
}

// readProcStatCounter returns the first number following key in a /proc/stat style file
func readProcStatCounter(path, key string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 2 && fields[0] == key {
			return strconv.ParseUint(fields[1], 10, 64)
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("%s not found in %s", key, path)
}

// Memory returns virtual and swap memory usage
func (p *SystemProvider) Memory(ctx context.Context) (*models.MemoryStatus, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: virtual memory: %v", ErrProviderUnavailable, err)
	}

	status := &models.MemoryStatus{
		Virtual: models.VirtualMemory{
			Total:       vm.Total,
			Available:   vm.Available,
			Used:        vm.Used,
			Free:        vm.Free,
			Percent:     round2(vm.UsedPercent),
			TotalGB:     round2(float64(vm.Total) / GB),
			UsedGB:      round2(float64(vm.Used) / GB),
			AvailableGB: round2(float64(vm.Available) / GB),
		},
	}

	swap, err := mem.SwapMemoryWithContext(ctx)
	if err != nil {
		p.logger.Debugf("Could not get swap memory: %v", err)
		return status, nil
	}
	status.Swap = models.SwapMemory{
		Total:   swap.Total,
		Used:    swap.Used,
		Free:    swap.Free,
		Percent: round2(swap.UsedPercent),
		TotalGB: round2(float64(swap.Total) / GB),
		UsedGB:  round2(float64(swap.Used) / GB),
	}
	return status, nil
}

// DiskUsage returns disk usage for a specific path
func (p *SystemProvider) DiskUsage(ctx context.Context, path string) (*models.DiskStatus, error) {
	if path == "" {
		path = "/"
	}

	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: disk usage %s: %v", ErrProviderUnavailable, path, err)
	}

	status := diskStatus(usage)
	status.Path = path
	return &status, nil
}

// Disk returns usage for every readable partition plus global I/O counters.
// Partitions that cannot be read are left out.
func (p *SystemProvider) Disk(ctx context.Context) (*models.DiskReport, error) {
	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("%w: disk partitions: %v", ErrProviderUnavailable, err)
	}

	report := &models.DiskReport{Partitions: []models.DiskStatus{}}
	for _, partition := range partitions {
		usage, err := disk.UsageWithContext(ctx, partition.Mountpoint)
		if err != nil {
			p.logger.Debugf("Skipping partition %s: %v", partition.Mountpoint, err)
			continue
		}
		status := diskStatus(usage)
		status.Device = partition.Device
		status.Path = partition.Mountpoint
		status.Filesystem = partition.Fstype
		report.Partitions = append(report.Partitions, status)
	}

	counters, err := disk.IOCountersWithContext(ctx)
	if err != nil {
		p.logger.Debugf("Could not get disk I/O counters: %v", err)
		return report, nil
	}
	io := &models.DiskIOStats{}
	for _, c := range counters {
		io.ReadCount += c.ReadCount
		io.WriteCount += c.WriteCount
		io.ReadBytes += c.ReadBytes
		io.WriteBytes += c.WriteBytes
	}
	io.ReadMB = round2(float64(io.ReadBytes) / MB)
	io.WriteMB = round2(float64(io.WriteBytes) / MB)
	report.IOStats = io

	return report, nil
}

func diskStatus(usage *disk.UsageStat) models.DiskStatus {
	return models.DiskStatus{
		Path:         usage.Path,
		Filesystem:   usage.Fstype,
		Total:        usage.Total,
		Used:         usage.Used,
		Free:         usage.Free,
		UsagePercent: round2(usage.UsedPercent),
		TotalGB:      round2(float64(usage.Total) / GB),
		UsedGB:       round2(float64(usage.Used) / GB),
		FreeGB:       round2(float64(usage.Free) / GB),
	}
}

// Network returns counters summed over all interfaces, with the per-interface breakdown
func (p *SystemProvider) Network(ctx context.Context) (*models.NetworkStatus, error) {
	counters, err := net.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("%w: network counters: %v", ErrProviderUnavailable, err)
	}

	status := &models.NetworkStatus{}
	for _, c := range counters {
		status.BytesSent += c.BytesSent
		status.BytesRecv += c.BytesRecv
		status.PacketsSent += c.PacketsSent
		status.PacketsRecv += c.PacketsRecv
		status.ErrorsIn += c.Errin
		status.ErrorsOut += c.Errout
		status.DropsIn += c.Dropin
		status.DropsOut += c.Dropout
		status.Interfaces = append(status.Interfaces, models.InterfaceStatus{
			Interface:   c.Name,
			BytesSent:   c.BytesSent,
			BytesRecv:   c.BytesRecv,
			PacketsSent: c.PacketsSent,
			PacketsRecv: c.PacketsRecv,
			ErrorsIn:    c.Errin,
			ErrorsOut:   c.Errout,
			DropsIn:     c.Dropin,
			DropsOut:    c.Dropout,
		})
	}
	status.SentMB = round2(float64(status.BytesSent) / MB)
	status.RecvMB = round2(float64(status.BytesRecv) / MB)

	return status, nil
}

// Processes returns the busiest processes of the host
func (p *SystemProvider) Processes(ctx context.Context) (*models.ProcessList, error) {
	return listProcesses(ctx, p.logger)
}

// SystemInfo returns static information about the host
func (p *SystemProvider) SystemInfo(ctx context.Context) (*models.SystemInfo, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: host info: %v", ErrProviderUnavailable, err)
	}

	sys := &models.SystemInfo{
		Platform:        info.OS,
		PlatformRelease: info.KernelVersion,
		PlatformVersion: strings.TrimSpace(info.Platform + " " + info.PlatformVersion),
		Architecture:    info.KernelArch,
		Hostname:        info.Hostname,
		BootTime:        time.Unix(int64(info.BootTime), 0).Format(auditTimeLayout),
		UptimeSeconds:   info.Uptime,
	}
	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 {
		sys.Processor = infos[0].ModelName
	}
	return sys, nil
}

// SampleSource produces the measurement for one monitoring cycle
type SampleSource interface {
	Sample(ctx context.Context) (models.Sample, error)
}

// ProviderSampler builds cycle samples from a MetricsProvider
type ProviderSampler struct {
	Provider    MetricsProvider
	CPUInterval time.Duration
	DiskPath    string
	Now         func() time.Time
}

// Sample reads cpu, memory, disk and network. Any failing reading fails the sample.
func (s *ProviderSampler) Sample(ctx context.Context) (models.Sample, error) {
	cpuStatus, err := s.Provider.CPU(ctx, s.CPUInterval)
	if err != nil {
		return models.Sample{}, err
	}
	memStatus, err := s.Provider.Memory(ctx)
	if err != nil {
		return models.Sample{}, err
	}
	diskUsage, err := s.Provider.DiskUsage(ctx, s.DiskPath)
	if err != nil {
		return models.Sample{}, err
	}
	netStatus, err := s.Provider.Network(ctx)
	if err != nil {
		return models.Sample{}, err
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return models.Sample{
		Timestamp:     now(),
		CPUPercent:    cpuStatus.UsagePercent,
		MemoryPercent: memStatus.Virtual.Percent,
		DiskPercent:   diskUsage.UsagePercent,
		NetSentBytes:  netStatus.BytesSent,
		NetRecvBytes:  netStatus.BytesRecv,
	}, nil
}
