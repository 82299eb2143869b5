package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/sirupsen/logrus"

	"hostwatch/internal/models"
)

const (
	maxListedProcesses = 100
	DefaultKillTimeout = 3 * time.Second
	exitPollInterval   = 100 * time.Millisecond
)

// listProcesses collects every readable process, sorted by CPU usage.
// Processes that vanish or deny access while being read are skipped.
func listProcesses(ctx context.Context, logger logrus.FieldLogger) (*models.ProcessList, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: process list: %v", ErrProviderUnavailable, err)
	}

	statuses := make([]models.ProcessStatus, 0, len(procs))
	seenPIDs := make(map[int32]bool, len(procs))

	for _, p := range procs {
		if seenPIDs[p.Pid] {
			continue
		}
		seenPIDs[p.Pid] = true

		name, err := p.NameWithContext(ctx)
		if err != nil {
			logger.Debugf("Skipping pid %d: %v", p.Pid, err)
			continue
		}

		cpuPercent, err := p.CPUPercentWithContext(ctx)
		if err != nil {
			cpuPercent = 0
		}
		memPercent, err := p.MemoryPercentWithContext(ctx)
		if err != nil {
			memPercent = 0
		}
		status, err := p.StatusWithContext(ctx)
		if err != nil || len(status) == 0 {
			status = []string{"unknown"}
		}
		threads, err := p.NumThreadsWithContext(ctx)
		if err != nil {
			threads = 0
		}
		created := ""
		if ms, err := p.CreateTimeWithContext(ctx); err == nil {
			created = time.UnixMilli(ms).Format(auditTimeLayout)
		}

		statuses = append(statuses, models.ProcessStatus{
			PID:        p.Pid,
			Name:       name,
			CPUPercent: round2(cpuPercent),
			MemPercent: round2(float64(memPercent)),
			Status:     mapProcessState(status[0]),
			NumThreads: threads,
			CreateTime: created,
		})
	}

	return &models.ProcessList{
		Processes:  topByCPU(statuses, maxListedProcesses),
		TotalCount: len(statuses),
	}, nil
}

// topByCPU sorts by CPU usage descending and keeps at most limit entries
func topByCPU(processes []models.ProcessStatus, limit int) []models.ProcessStatus {
	sorted := make([]models.ProcessStatus, len(processes))
	copy(sorted, processes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CPUPercent > sorted[j].CPUPercent
	})
	if len(sorted) > limit {
		return sorted[:limit]
	}
	return sorted
}

// mapProcessState converts gopsutil states and raw state codes to readable strings
func mapProcessState(state string) string {
	switch state {
	case "":
		return "unknown"
	case process.Running, "R":
		return "running"
	case process.Sleep, "S":
		return "sleeping"
	case process.Wait, "D":
		return "disk_sleep"
	case process.Zombie, "Z":
		return "zombie"
	case process.Stop, "T":
		return "stopped"
	case process.Idle, "I":
		return "idle"
	case process.Lock, "L":
		return "locked"
	case "t":
		return "tracing_stop"
	case "X", "x":
		return "dead"
	case "K":
		return "wakekill"
	case "P":
		return "parked"
	default:
		return state
	}
}

// ProcessController terminates local processes
type ProcessController interface {
	Exists(ctx context.Context, pid int32) (bool, error)
	Name(ctx context.Context, pid int32) (string, error)
	Terminate(ctx context.Context, pid int32) error
	Kill(ctx context.Context, pid int32) error
	Running(ctx context.Context, pid int32) (bool, error)
}

// SystemProcessController implements ProcessController with gopsutil
type SystemProcessController struct{}

func (SystemProcessController) Exists(ctx context.Context, pid int32) (bool, error) {
	return process.PidExistsWithContext(ctx, pid)
}

func (SystemProcessController) Name(ctx context.Context, pid int32) (string, error) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return "", err
	}
	return p.NameWithContext(ctx)
}

func (SystemProcessController) Terminate(ctx context.Context, pid int32) error {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return err
	}
	return p.TerminateWithContext(ctx)
}

func (SystemProcessController) Kill(ctx context.Context, pid int32) error {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return err
	}
	return p.KillWithContext(ctx)
}

func (SystemProcessController) Running(ctx context.Context, pid int32) (bool, error) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		if errors.Is(err, process.ErrorProcessNotRunning) {
			return false, nil
		}
		return false, err
	}
	return p.IsRunningWithContext(ctx)
}

// KillProcess asks pid to terminate and force-kills it when it is still
// running after timeout. It returns the name the process had.
func KillProcess(ctx context.Context, ctrl ProcessController, pid int32, timeout time.Duration) (string, error) {
	if pid <= 0 {
		return "", fmt.Errorf("%w: PID is required", ErrInvalidInput)
	}

	exists, err := ctrl.Exists(ctx, pid)
	if err != nil {
		return "", classifyProcessError(pid, err)
	}
	if !exists {
		return "", fmt.Errorf("%w: pid %d", ErrProcessNotFound, pid)
	}

	name, err := ctrl.Name(ctx, pid)
	if err != nil {
		return "", classifyProcessError(pid, err)
	}

	if err := ctrl.Terminate(ctx, pid); err != nil {
		return name, classifyProcessError(pid, err)
	}

	exited, err := WaitForExit(ctx, ctrl, pid, timeout)
	if err != nil {
		return name, classifyProcessError(pid, err)
	}
	if !exited {
		if err := ctrl.Kill(ctx, pid); err != nil {
			return name, classifyProcessError(pid, err)
		}
	}
	return name, nil
}

// WaitForExit polls until pid is gone or timeout passes. It reports whether the process exited.
func WaitForExit(ctx context.Context, ctrl ProcessController, pid int32, timeout time.Duration) (bool, error) {
	deadline := time.Now().Add(timeout)
	for {
		running, err := ctrl.Running(ctx, pid)
		if err != nil {
			return false, err
		}
		if !running {
			return true, nil
		}
		if time.Now().After(deadline) {
			return false, nil
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(exitPollInterval):
		}
	}
}

func classifyProcessError(pid int32, err error) error {
	switch {
	case errors.Is(err, process.ErrorProcessNotRunning), errors.Is(err, syscall.ESRCH):
		return fmt.Errorf("%w: pid %d", ErrProcessNotFound, pid)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: insufficient privileges to terminate pid %d", ErrPermissionDenied, pid)
	case errors.Is(err, ErrProcessNotFound), errors.Is(err, ErrPermissionDenied):
		return err
	default:
		return fmt.Errorf("pid %d: %w", pid, err)
	}
}
