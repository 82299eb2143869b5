package services

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hostwatch/internal/models"
)

// Telemetry exposes the monitor's latest readings in prometheus format
type Telemetry struct {
	registry *prometheus.Registry

	cpu           prometheus.Gauge
	memory        prometheus.Gauge
	disk          prometheus.Gauge
	activeAlerts  prometheus.Gauge
	thresholds    *prometheus.GaugeVec
	cycles        prometheus.Counter
	cycleFailures prometheus.Counter
}

// NewTelemetry registers the monitor metrics on a private registry.
// auditFailures and thresholds may be nil.
func NewTelemetry(auditFailures func() uint64, thresholds *ThresholdPolicy) *Telemetry {
	t := &Telemetry{
		registry: prometheus.NewRegistry(),
		cpu: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hostwatch_cpu_percent",
			Help: "Processor utilization measured by the last monitoring cycle",
		}),
		memory: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hostwatch_memory_percent",
			Help: "Virtual memory usage measured by the last monitoring cycle",
		}),
		disk: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hostwatch_disk_percent",
			Help: "Disk usage of the monitored path measured by the last monitoring cycle",
		}),
		activeAlerts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hostwatch_active_alerts",
			Help: "Number of alerts raised by the last evaluation",
		}),
		thresholds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hostwatch_threshold_percent",
			Help: "Alert threshold in force per metric",
		}, []string{"metric"}),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hostwatch_cycles_total",
			Help: "Completed monitoring cycles",
		}),
		cycleFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hostwatch_cycle_failures_total",
			Help: "Monitoring cycles abandoned because of an error",
		}),
	}

	t.registry.MustRegister(t.cpu, t.memory, t.disk, t.activeAlerts, t.cycles, t.cycleFailures)

	if thresholds != nil {
		t.registry.MustRegister(t.thresholds)
		t.observeThresholds(thresholds.Get())
	}

	if auditFailures != nil {
		t.registry.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "hostwatch_audit_write_failures_total",
			Help: "Audit log rows that could not be written",
		}, func() float64 {
			return float64(auditFailures())
		}))
	}

	return t
}

// OnCycle records the readings of a completed cycle
func (t *Telemetry) OnCycle(sample models.Sample, alerts []models.AlertEvent) {
	t.cpu.Set(sample.CPUPercent)
	t.memory.Set(sample.MemoryPercent)
	t.disk.Set(sample.DiskPercent)
	t.activeAlerts.Set(float64(len(alerts)))
	t.cycles.Inc()
}

// OnCycleError counts an abandoned cycle
func (t *Telemetry) OnCycleError(error) {
	t.cycleFailures.Inc()
}

// ObserveThresholds publishes the thresholds after a change
func (t *Telemetry) ObserveThresholds(values models.ThresholdSet) {
	t.observeThresholds(values)
}

func (t *Telemetry) observeThresholds(values models.ThresholdSet) {
	t.thresholds.WithLabelValues(string(models.MetricCPU)).Set(values.CPU)
	t.thresholds.WithLabelValues(string(models.MetricMemory)).Set(values.Memory)
	t.thresholds.WithLabelValues(string(models.MetricDisk)).Set(values.Disk)
}

// Registry returns the registry holding the monitor metrics
func (t *Telemetry) Registry() *prometheus.Registry {
	return t.registry
}

// Handler serves the registry in the prometheus exposition format
func (t *Telemetry) Handler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}
