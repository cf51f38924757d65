// Package config loads runtime configuration for the wallet CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml or .yml are YAML, anything else JSON.
//  3. A .env file (-e or -env-file, or ./.env when present) and UPI_*
//     environment variables.
//  4. Command-line flags, which override everything above.
//
// Supported flags
//
//	-a string   gateway base URL
//	-d string   database DSN
//	-i int      online status check interval (seconds)
//	-l string   log level
//	-t int      request timeout (seconds)
//
// # File schema
//
// Durations use timex.Duration, so values can be strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "gateway_url": "http://localhost:8080",
//	  "database_dsn": "upiwallet.db",
//	  "storage_backend": "sqlite",
//	  "request_timeout": "10s",
//	  "read_retries": 2,
//	  "online_check_interval": "5s",
//	  "log_backend": "zap",
//	  "ordered_refresh": true
//	}
//
// # Environment
//
// Every field has a UPI_ variable named after it, e.g. UPI_GATEWAY_URL,
// UPI_STORAGE_BACKEND, UPI_REQUEST_TIMEOUT=15s, UPI_ORDERED_REFRESH=false.
package config
