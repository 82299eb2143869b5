// Package config loads hostwatch settings from defaults, a config file,
// HOSTWATCH_* environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"hostwatch/internal/models"
)

const EnvPrefix = "HOSTWATCH"

type MonitorConfig struct {
	Interval          time.Duration `mapstructure:"interval"`
	CPUSampleInterval time.Duration `mapstructure:"cpu_sample_interval"`
	DiskPath          string        `mapstructure:"disk_path"`
}

type HistoryConfig struct {
	Capacity int `mapstructure:"capacity"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type HTTPConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	RateLimit      float64  `mapstructure:"rate_limit"`
	RateBurst      int      `mapstructure:"rate_burst"`
	WebDir         string   `mapstructure:"web_dir"`
}

type Config struct {
	Address    string              `mapstructure:"address"`
	LogLevel   string              `mapstructure:"log_level"`
	LogFormat  string              `mapstructure:"log_format"`
	AuditFile  string              `mapstructure:"audit_file"`
	Monitor    MonitorConfig       `mapstructure:"monitor"`
	History    HistoryConfig       `mapstructure:"history"`
	Thresholds models.ThresholdSet `mapstructure:"thresholds"`
	Cache      CacheConfig         `mapstructure:"cache"`
	HTTP       HTTPConfig          `mapstructure:"http"`
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	defaults := models.DefaultThresholds()

	v.SetDefault("address", "127.0.0.1:5000")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("audit_file", "system_logs.csv")
	v.SetDefault("monitor.interval", 10*time.Second)
	v.SetDefault("monitor.cpu_sample_interval", time.Second)
	v.SetDefault("monitor.disk_path", "/")
	v.SetDefault("history.capacity", 60)
	v.SetDefault("thresholds.cpu", defaults.CPU)
	v.SetDefault("thresholds.memory", defaults.Memory)
	v.SetDefault("thresholds.disk", defaults.Disk)
	v.SetDefault("cache.ttl", time.Second)
	v.SetDefault("http.allowed_origins", []string{"*"})
	v.SetDefault("http.rate_limit", 100.0)
	v.SetDefault("http.rate_burst", 200)
	v.SetDefault("http.web_dir", "")
}

// RegisterFlags adds the command line flags understood by BindFlags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringP("config", "c", "", "Path to a config file (toml, yaml or json)")
	flags.StringP("addr", "a", "", "Listen address of the HTTP server, defaults to 127.0.0.1:5000")
	flags.StringP("log-level", "v", "", "Log level: error, warn, info or debug")
	flags.String("log-format", "", "Log format: text or json")
	flags.String("audit-file", "", "Path of the CSV audit log")
	flags.Duration("interval", 0, "Delay between monitor cycles")
	flags.String("disk-path", "", "Mount point whose usage feeds the disk alert")
	flags.String("web-dir", "", "Optional directory with static dashboard files")
}

// BindFlags binds the flags registered by RegisterFlags to their keys.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		"address":           "addr",
		"log_level":         "log-level",
		"log_format":        "log-format",
		"audit_file":        "audit-file",
		"monitor.interval":  "interval",
		"monitor.disk_path": "disk-path",
		"http.web_dir":      "web-dir",
	}
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			return fmt.Errorf("flag %q is not registered", name)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %q: %w", name, err)
		}
	}
	return nil
}

// Load reads the optional config file at path, applies the environment and
// decodes the result. The returned config is validated.
func Load(v *viper.Viper, path string) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var result error

	if c.Address == "" {
		result = multierror.Append(result, errors.New("address must not be empty"))
	}
	if c.AuditFile == "" {
		result = multierror.Append(result, errors.New("audit_file must not be empty"))
	}
	if c.Monitor.Interval <= 0 {
		result = multierror.Append(result, fmt.Errorf("monitor.interval must be positive, got %s", c.Monitor.Interval))
	}
	if c.Monitor.CPUSampleInterval < 0 {
		result = multierror.Append(result, fmt.Errorf("monitor.cpu_sample_interval must not be negative, got %s", c.Monitor.CPUSampleInterval))
	}
	if c.Monitor.DiskPath == "" {
		result = multierror.Append(result, errors.New("monitor.disk_path must not be empty"))
	}
	if c.History.Capacity < 1 {
		result = multierror.Append(result, fmt.Errorf("history.capacity must be at least 1, got %d", c.History.Capacity))
	}
	if c.Cache.TTL < 0 {
		result = multierror.Append(result, fmt.Errorf("cache.ttl must not be negative, got %s", c.Cache.TTL))
	}
	if c.HTTP.RateLimit <= 0 {
		result = multierror.Append(result, fmt.Errorf("http.rate_limit must be positive, got %v", c.HTTP.RateLimit))
	}
	if c.HTTP.RateBurst < 1 {
		result = multierror.Append(result, fmt.Errorf("http.rate_burst must be at least 1, got %d", c.HTTP.RateBurst))
	}

	thresholds := map[string]float64{
		"cpu":    c.Thresholds.CPU,
		"memory": c.Thresholds.Memory,
		"disk":   c.Thresholds.Disk,
	}
	for _, name := range []string{"cpu", "memory", "disk"} {
		value := thresholds[name]
		if math.IsNaN(value) || value < 0 || value > 100 {
			result = multierror.Append(result, fmt.Errorf("thresholds.%s must be between 0 and 100, got %v", name, value))
		}
	}

	return result
}
