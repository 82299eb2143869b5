package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hostwatch/internal/controllers"
)

// RegisterLiveRoutes registers the websocket feed, the prometheus scrape
// endpoint, the history chart and the health check.
func RegisterLiveRoutes(r *gin.Engine, ctl *controllers.Controller, metrics http.Handler) {
	r.GET("/ws", ctl.HandleWebSocket)
	r.GET("/history/chart", ctl.GetHistoryChart)
	r.GET("/healthz", ctl.Healthz)
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}
}
