package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/upiwallet/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   gateway base URL
//	-d string   database DSN
//	-i int      online check interval in seconds
//	-l string   log level
//	-t int      request timeout in seconds
//
// os.Args is filtered through flagx.FilterArgs first so flags owned by other
// loaders do not trip this set.
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-i", "-l", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.GatewayURL, "a", cfg.GatewayURL, "gateway base URL")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	return nil
}
