package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/upiwallet/internal/flagx"
	"github.com/dmitrijs2005/upiwallet/internal/timex"
)

// FileConfig is a DTO used only for file unmarshalling. Pointer fields tell
// a missing key apart from a zero value.
type FileConfig struct {
	GatewayURL          *string         `json:"gateway_url" yaml:"gateway_url"`
	DatabaseDSN         *string         `json:"database_dsn" yaml:"database_dsn"`
	StorageBackend      *string         `json:"storage_backend" yaml:"storage_backend"`
	RedisAddr           *string         `json:"redis_addr" yaml:"redis_addr"`
	RedisPrefix         *string         `json:"redis_prefix" yaml:"redis_prefix"`
	RequestTimeout      *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	ReadRetries         *int            `json:"read_retries" yaml:"read_retries"`
	RetryDelay          *timex.Duration `json:"retry_delay" yaml:"retry_delay"`
	RequestsPerSecond   *float64        `json:"requests_per_second" yaml:"requests_per_second"`
	RequestBurst        *int            `json:"request_burst" yaml:"request_burst"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval" yaml:"online_check_interval"`
	LogLevel            *string         `json:"log_level" yaml:"log_level"`
	LogBackend          *string         `json:"log_backend" yaml:"log_backend"`
	LogFormat           *string         `json:"log_format" yaml:"log_format"`
	OrderedRefresh      *bool           `json:"ordered_refresh" yaml:"ordered_refresh"`
	DeferPaymentRefresh *bool           `json:"defer_payment_refresh" yaml:"defer_payment_refresh"`
}

// parseFile overlays cfg with the file named by -c or -config. Files ending
// in .yaml or .yml are read as YAML, anything else as JSON. Without the flag
// cfg is left alone.
func parseFile(cfg *Config) error {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.GatewayURL, fc.GatewayURL)
	setString(&cfg.DatabaseDSN, fc.DatabaseDSN)
	setString(&cfg.StorageBackend, fc.StorageBackend)
	setString(&cfg.RedisAddr, fc.RedisAddr)
	setString(&cfg.RedisPrefix, fc.RedisPrefix)
	setDuration(&cfg.RequestTimeout, fc.RequestTimeout)
	setDuration(&cfg.RetryDelay, fc.RetryDelay)
	setDuration(&cfg.OnlineCheckInterval, fc.OnlineCheckInterval)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogBackend, fc.LogBackend)
	setString(&cfg.LogFormat, fc.LogFormat)

	if fc.ReadRetries != nil {
		cfg.ReadRetries = *fc.ReadRetries
	}
	if fc.RequestsPerSecond != nil {
		cfg.RequestsPerSecond = *fc.RequestsPerSecond
	}
	if fc.RequestBurst != nil {
		cfg.RequestBurst = *fc.RequestBurst
	}
	if fc.OrderedRefresh != nil {
		cfg.OrderedRefresh = *fc.OrderedRefresh
	}
	if fc.DeferPaymentRefresh != nil {
		cfg.DeferPaymentRefresh = *fc.DeferPaymentRefresh
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
