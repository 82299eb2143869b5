package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"hostwatch/internal/config"
	"hostwatch/internal/controllers"
	"hostwatch/internal/logging"
	"hostwatch/internal/routes"
	"hostwatch/internal/services"
)

const shutdownTimeout = 5 * time.Second

var (
	RootCmd = &cobra.Command{
		Use:          "hostwatch",
		Short:        "Real-time host resource monitor",
		Long:         "hostwatch samples processor, memory, disk and network usage, raises threshold alerts, keeps a CSV audit log and serves a JSON API with a live websocket feed.",
		SilenceUsage: true,
		RunE:         runMain,
	}

	viperCfg *viper.Viper
)

func init() {
	pFlags := RootCmd.PersistentFlags()
	config.RegisterFlags(pFlags)

	viperCfg = viper.New()
	config.SetDefaults(viperCfg)
	if err := config.BindFlags(viperCfg, pFlags); err != nil {
		panic(err)
	}
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runMain(cmd *cobra.Command, _ []string) error {
	cfgPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	cfg, err := config.Load(viperCfg, cfgPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		return err
	}
	if logger.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, cfg, logger)
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	provider := services.NewSystemProvider(logger)
	cached := services.NewCachedProvider(provider, cfg.Cache.TTL)

	history := services.NewHistoryBuffer(cfg.History.Capacity)
	thresholds := services.NewThresholdPolicy(cfg.Thresholds)
	alerts := services.NewAlertStore()

	audit := services.NewAuditLogger(cfg.AuditFile, logger)
	if err := audit.EnsureInitialized(); err != nil {
		// appends keep retrying and counting failures
		logger.WithError(err).Warn("Audit log could not be initialized")
	}

	hub := services.NewWebSocketHub(logger)
	defer hub.Stop()

	telemetry := services.NewTelemetry(audit.Failures, thresholds)
	facade := services.NewFacade(alerts, history, thresholds)
	facade.OnThresholdsChanged(telemetry.ObserveThresholds)

	sampler := &services.ProviderSampler{
		Provider:    provider,
		CPUInterval: cfg.Monitor.CPUSampleInterval,
		DiskPath:    cfg.Monitor.DiskPath,
	}
	monitor := services.NewMonitor(sampler, thresholds, alerts, audit, history, services.MonitorOptions{
		Interval:  cfg.Monitor.Interval,
		Logger:    logger,
		Observers: []services.CycleObserver{telemetry, hub},
	})

	ctl := controllers.New(controllers.Options{
		Provider:       cached,
		Facade:         facade,
		Hub:            hub,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Logger:         logger,
	})
	router := routes.NewRouter(routes.RouterOptions{
		Controller: ctl,
		Metrics:    telemetry.Handler(),
		RateLimit:  cfg.HTTP.RateLimit,
		RateBurst:  cfg.HTTP.RateBurst,
		WebDir:     cfg.HTTP.WebDir,
		Logger:     logger,
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         86400,
	})
	server := &http.Server{
		Addr:              cfg.Address,
		Handler:           corsHandler.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log := logging.Component(logger, "main")
	printBanner(log, cfg)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		monitor.Start(gctx)
		<-gctx.Done()
		monitor.Stop()
		return nil
	})
	g.Go(func() error {
		log.Infof("HTTP server listening on http://%s", cfg.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func printBanner(logger logrus.FieldLogger, cfg *config.Config) {
	logger.Info("Real-Time System Monitor starting")
	logger.WithFields(logrus.Fields{
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"address":    cfg.Address,
		"audit_file": cfg.AuditFile,
		"interval":   cfg.Monitor.Interval.String(),
		"thresholds": cfg.Thresholds,
	}).Info("Configuration loaded")
}
