package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hostwatch/internal/models"
)

const (
	cpuConcept     = "CPU Scheduling: Tracks processor utilization across cores and time"
	memoryConcept  = "Memory Management: Virtual memory, paging, and swap space utilization"
	diskConcept    = "File System: Storage allocation, I/O operations, and disk management"
	networkConcept = "Network I/O: Data transmission and inter-process communication"
)

type cpuResponse struct {
	*models.CPUStatus
	OSConcept string `json:"os_concept"`
}

type memoryResponse struct {
	*models.MemoryStatus
	OSConcept string `json:"os_concept"`
}

type diskResponse struct {
	*models.DiskReport
	OSConcept string `json:"os_concept"`
}

type networkResponse struct {
	*models.NetworkStatus
	OSConcept string `json:"os_concept"`
}

// GetCPU returns processor utilization and records it in the history
func (ctl *Controller) GetCPU(c *gin.Context) {
	cpu, err := ctl.provider.CPU(c.Request.Context(), ctl.cpuInterval)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	ctl.facade.RecordReading(models.MetricCPU, cpu.UsagePercent, ctl.now())
	c.JSON(http.StatusOK, cpuResponse{CPUStatus: cpu, OSConcept: cpuConcept})
}

// GetMemory returns virtual and swap memory and records usage in the history
func (ctl *Controller) GetMemory(c *gin.Context) {
	memory, err := ctl.provider.Memory(c.Request.Context())
	if err != nil {
		ctl.fail(c, err)
		return
	}
	ctl.facade.RecordReading(models.MetricMemory, memory.Virtual.Percent, ctl.now())
	c.JSON(http.StatusOK, memoryResponse{MemoryStatus: memory, OSConcept: memoryConcept})
}

func (ctl *Controller) GetDisk(c *gin.Context) {
	disk, err := ctl.provider.Disk(c.Request.Context())
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, diskResponse{DiskReport: disk, OSConcept: diskConcept})
}

func (ctl *Controller) GetNetwork(c *gin.Context) {
	network, err := ctl.provider.Network(c.Request.Context())
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, networkResponse{NetworkStatus: network, OSConcept: networkConcept})
}

func (ctl *Controller) GetSystemInfo(c *gin.Context) {
	info, err := ctl.provider.SystemInfo(c.Request.Context())
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// Healthz reports liveness along with a few counters
func (ctl *Controller) Healthz(c *gin.Context) {
	clients := 0
	if ctl.hub != nil {
		clients = ctl.hub.ClientCount()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"history_length": ctl.facade.History().Len(),
		"active_alerts":  len(ctl.facade.CurrentAlerts()),
		"ws_clients":     clients,
		"timestamp":      ctl.now(),
	})
}
