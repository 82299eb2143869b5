package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hostwatch/internal/controllers"
	"hostwatch/internal/middleware"
)

// RouterOptions configures NewRouter
type RouterOptions struct {
	Controller *controllers.Controller
	Metrics    http.Handler
	RateLimit  float64
	RateBurst  int
	WebDir     string
	Logger     logrus.FieldLogger
}

// NewRouter builds the gin engine serving the whole HTTP surface
func NewRouter(opts RouterOptions) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	logger := opts.Logger.WithField("component", "http")

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.SecurityHeadersMiddleware())

	api := r.Group("/api")
	if opts.RateLimit > 0 && opts.RateBurst > 0 {
		api.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter(opts.RateLimit, opts.RateBurst), logger))
	}
	RegisterMonitorRoutes(api, opts.Controller)
	RegisterProcessRoutes(api, opts.Controller)

	RegisterLiveRoutes(r, opts.Controller, opts.Metrics)

	if opts.WebDir != "" {
		r.NoRoute(gin.WrapH(http.FileServer(http.Dir(opts.WebDir))))
	}

	return r
}
