// Package config loads qa-keywords settings from flags, environment and an
// optional config file.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. QA_KEYWORDS_DB.
const EnvPrefix = "QA_KEYWORDS"

// Config holds all qa-keywords settings.
type Config struct {
	DBPath        string
	MaxOpenConns  int
	BusyTimeoutMs int
	LogLevel      string
	LogFormat     string
	HTTPAddr      string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("db", "data/qa.db")
	v.SetDefault("db_max_open_conns", 1)
	v.SetDefault("db_busy_timeout_ms", 5000)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("http_addr", "127.0.0.1:8080")
}

// New returns a viper instance with defaults and environment binding set up.
// When configFile is non-empty it is read as well.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}
	return v, nil
}

// Load reads a validated Config from v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		DBPath:        strings.TrimSpace(v.GetString("db")),
		MaxOpenConns:  v.GetInt("db_max_open_conns"),
		BusyTimeoutMs: v.GetInt("db_busy_timeout_ms"),
		LogLevel:      strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
		LogFormat:     strings.ToLower(strings.TrimSpace(v.GetString("log_format"))),
		HTTPAddr:      strings.TrimSpace(v.GetString("http_addr")),
	}

	if cfg.DBPath == "" {
		return cfg, fmt.Errorf("db path is required")
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 1
	}
	if cfg.BusyTimeoutMs <= 0 {
		cfg.BusyTimeoutMs = 5000
	}
	switch cfg.LogFormat {
	case "json", "console":
	default:
		return cfg, fmt.Errorf("invalid log format %q (valid: json, console)", cfg.LogFormat)
	}
	return cfg, nil
}
