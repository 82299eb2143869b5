package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hostwatch/internal/services"
)

const defaultCPUInterval = 500 * time.Millisecond

// Options carries the dependencies of the HTTP handlers
type Options struct {
	Provider       services.MetricsProvider
	Facade         *services.Facade
	Processes      services.ProcessController
	Hub            *services.WebSocketHub
	CPUInterval    time.Duration
	KillTimeout    time.Duration
	AllowedOrigins []string
	Logger         logrus.FieldLogger
}

// Controller serves the /api endpoints, the live feed and the history chart
type Controller struct {
	provider       services.MetricsProvider
	facade         *services.Facade
	processes      services.ProcessController
	hub            *services.WebSocketHub
	cpuInterval    time.Duration
	killTimeout    time.Duration
	allowedOrigins []string
	logger         logrus.FieldLogger
	now            func() time.Time
}

func New(opts Options) *Controller {
	if opts.CPUInterval <= 0 {
		opts.CPUInterval = defaultCPUInterval
	}
	if opts.KillTimeout <= 0 {
		opts.KillTimeout = services.DefaultKillTimeout
	}
	if opts.Processes == nil {
		opts.Processes = services.SystemProcessController{}
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Controller{
		provider:       opts.Provider,
		facade:         opts.Facade,
		processes:      opts.Processes,
		hub:            opts.Hub,
		cpuInterval:    opts.CPUInterval,
		killTimeout:    opts.KillTimeout,
		allowedOrigins: opts.AllowedOrigins,
		logger:         opts.Logger.WithField("component", "api"),
		now:            time.Now,
	}
}

// statusFor maps a service error to the HTTP status reported to the caller
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, services.ErrProcessNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (ctl *Controller) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		ctl.logger.WithError(err).Errorf("%s %s failed", c.Request.Method, c.FullPath())
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
