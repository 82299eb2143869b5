package routes

import (
	"github.com/gin-gonic/gin"

	"hostwatch/internal/controllers"
)

func RegisterProcessRoutes(api *gin.RouterGroup, ctl *controllers.Controller) {
	api.GET("/processes", ctl.GetProcesses)
	api.POST("/kill-process", ctl.KillProcess)
}
