package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files, environment variables and flags.
type Config struct {
	AppName               string        `mapstructure:"app_name"`
	Env                   string        `mapstructure:"app_env"`
	LogLevel              string        `mapstructure:"log_level"`
	APIKey                string        `mapstructure:"shifter_api_key"`
	BaseURL               string        `mapstructure:"shifter_base_url"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`
	JobsFile              string        `mapstructure:"jobs_file"`
	SinksFile             string        `mapstructure:"sinks_file"`
}

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"api-key":   "shifter_api_key",
	"base-url":  "shifter_base_url",
	"timeout":   "request_timeout_seconds",
	"log-level": "log_level",
	"jobs":      "jobs_file",
	"sinks":     "sinks_file",
}

// Load reads configuration from configs/.env, the environment and any changed flags in fs.
func Load(fs *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "shifter")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("shifter_api_key", "")
	v.SetDefault("shifter_base_url", "https://scrape.shifter.io/v1")
	v.SetDefault("request_timeout_seconds", 30)
	v.SetDefault("jobs_file", "./configs/jobs.yaml")
	v.SetDefault("sinks_file", "")

	v.AutomaticEnv()

	if fs != nil {
		for flag, key := range flagKeys {
			if f := fs.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", flag, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)

	if cfg.RequestTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	return &cfg, nil
}

// MaskedAPIKey returns the API key with all but the last four characters hidden, for logging.
func (c *Config) MaskedAPIKey() string {
	if c == nil || c.APIKey == "" {
		return ""
	}
	if len(c.APIKey) <= 4 {
		return strings.Repeat("*", len(c.APIKey))
	}
	return strings.Repeat("*", len(c.APIKey)-4) + c.APIKey[len(c.APIKey)-4:]
}

// LogFields is the loggable view of the config; the raw API key never leaves this package.
func (c *Config) LogFields() map[string]any {
	return map[string]any{
		"app_name":        c.AppName,
		"app_env":         c.Env,
		"log_level":       c.LogLevel,
		"api_key":         c.MaskedAPIKey(),
		"base_url":        c.BaseURL,
		"request_timeout": c.RequestTimeout.String(),
		"jobs_file":       c.JobsFile,
		"sinks_file":      c.SinksFile,
	}
}
