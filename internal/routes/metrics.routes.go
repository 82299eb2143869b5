package routes

import (
	"github.com/gin-gonic/gin"

	"hostwatch/internal/controllers"
)

func RegisterMonitorRoutes(api *gin.RouterGroup, ctl *controllers.Controller) {
	api.GET("/cpu", ctl.GetCPU)
	api.GET("/memory", ctl.GetMemory)
	api.GET("/disk", ctl.GetDisk)
	api.GET("/network", ctl.GetNetwork)
	api.GET("/system-info", ctl.GetSystemInfo)

	api.GET("/alerts", ctl.GetAlerts)
	api.GET("/history", ctl.GetHistory)
	api.GET("/thresholds", ctl.GetThresholds)
	api.POST("/update-thresholds", ctl.UpdateThresholds)
}
