package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"hostwatch/internal/models"
	"hostwatch/internal/services"
)

const (
	processConcept     = "Process Management: Process scheduling, context switching, and resource allocation"
	terminationConcept = "Process termination triggers resource cleanup and state transition"
)

type processesResponse struct {
	*models.ProcessList
	OSConcept string `json:"os_concept"`
}

type killRequest struct {
	PID int32 `json:"pid"`
}

// GetProcesses returns the top 100 processes by CPU usage
func (ctl *Controller) GetProcesses(c *gin.Context) {
	list, err := ctl.provider.Processes(c.Request.Context())
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, processesResponse{ProcessList: list, OSConcept: processConcept})
}

// KillProcess terminates the process named by the pid in the request body.
// The process gets a grace period before it is force-killed.
func (ctl *Controller) KillProcess(c *gin.Context) {
	var req killRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.PID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "PID is required"})
		return
	}

	name, err := services.KillProcess(c.Request.Context(), ctl.processes, req.PID, ctl.killTimeout)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrProcessNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Process not found"})
		return
	case errors.Is(err, services.ErrPermissionDenied):
		ctl.logger.Warnf("Refused to terminate pid %d: %v", req.PID, err)
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied. Insufficient privileges to terminate process"})
		return
	default:
		ctl.fail(c, err)
		return
	}

	ctl.logger.Infof("Terminated process %s (pid %d) on request from %s", name, req.PID, c.ClientIP())
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    fmt.Sprintf("Process %s (PID: %d) terminated successfully", name, req.PID),
		"os_concept": terminationConcept,
	})
}
