package controllers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"hostwatch/internal/charts"
)

// GetAlerts returns the alert set published by the last monitoring cycle
func (ctl *Controller) GetAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"alerts": ctl.facade.CurrentAlerts()})
}

// GetHistory returns the recent cpu/memory series, oldest first
func (ctl *Controller) GetHistory(c *gin.Context) {
	c.JSON(http.StatusOK, ctl.facade.History())
}

func (ctl *Controller) GetThresholds(c *gin.Context) {
	c.JSON(http.StatusOK, ctl.facade.Thresholds())
}

// UpdateThresholds applies any of cpu, memory and disk from the body.
// Either every given value is applied or none is.
func (ctl *Controller) UpdateThresholds(c *gin.Context) {
	var partial map[string]interface{}
	if err := c.ShouldBindJSON(&partial); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	thresholds, err := ctl.facade.UpdateThresholds(partial)
	if err != nil {
		ctl.fail(c, err)
		return
	}

	ctl.logger.WithField("thresholds", thresholds).Info("Alert thresholds updated")
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"thresholds": thresholds,
	})
}

// GetHistoryChart renders the history as an HTML line chart
func (ctl *Controller) GetHistoryChart(c *gin.Context) {
	var buf bytes.Buffer
	if err := charts.RenderHistory(&buf, ctl.facade.History(), ctl.facade.Thresholds()); err != nil {
		ctl.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
