package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Addr        string          `mapstructure:"addr"`
	LogDir      string          `mapstructure:"log_dir"`
	DatabaseURL string          `mapstructure:"database_url"`
	Scheduler   SchedulerConfig `mapstructure:"scheduler"`
	Probe       ProbeConfig     `mapstructure:"probe"`
	Classify    ClassifyConfig  `mapstructure:"classify"`
	Alerts      AlertsConfig    `mapstructure:"alerts"`
	SMTP        SMTPConfig      `mapstructure:"smtp"`
}

type SchedulerConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
	Concurrency  int           `mapstructure:"concurrency"`
}

type ProbeConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type ClassifyConfig struct {
	LatencyThresholdMS int64 `mapstructure:"latency_threshold_ms"`
}

type AlertsConfig struct {
	Cooldown   time.Duration `mapstructure:"cooldown"`
	WebhookURL string        `mapstructure:"webhook_url"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	From     string `mapstructure:"from"`
	Password string `mapstructure:"password"`
}

// Load reads config.yaml when present, then applies PULSE_* environment
// overrides (PULSE_SCHEDULER_TICK_INTERVAL, PULSE_DATABASE_URL, ...).
// An empty database_url selects the in-memory stores.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("configs")

	setDefaults(v)

	v.SetEnvPrefix("PULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("log_dir", "logs")
	v.SetDefault("database_url", "")

	v.SetDefault("scheduler.tick_interval", "1m")
	v.SetDefault("scheduler.concurrency", 16)

	v.SetDefault("probe.timeout", "10s")
	v.SetDefault("classify.latency_threshold_ms", 5000)

	v.SetDefault("alerts.cooldown", "30m")
	v.SetDefault("alerts.webhook_url", "")

	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.from", "")
	v.SetDefault("smtp.password", "")
}

func validate(cfg *Config) error {
	if cfg.Addr == "" {
		return errors.New("addr is required")
	}
	if cfg.Scheduler.TickInterval <= 0 {
		return fmt.Errorf("invalid scheduler tick interval %s", cfg.Scheduler.TickInterval)
	}
	if cfg.Scheduler.Concurrency < 1 {
		return fmt.Errorf("scheduler concurrency must be >= 1, got %d", cfg.Scheduler.Concurrency)
	}
	if cfg.Probe.Timeout <= 0 {
		return fmt.Errorf("invalid probe timeout %s", cfg.Probe.Timeout)
	}
	if cfg.Classify.LatencyThresholdMS <= 0 {
		return fmt.Errorf("latency threshold must be positive, got %d", cfg.Classify.LatencyThresholdMS)
	}
	if cfg.Alerts.Cooldown < 0 {
		return fmt.Errorf("alert cooldown cannot be negative, got %s", cfg.Alerts.Cooldown)
	}
	return nil
}
