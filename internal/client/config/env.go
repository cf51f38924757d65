package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/upiwallet/internal/flagx"
)

const defaultEnvFile = ".env"

// parseEnv loads the .env file, if any, into the process environment and
// then overlays cfg with UPI_* variables. Variables already set in the
// environment win over the .env file.
//
// The file is the one named by -e or -env-file; without the flag a .env in
// the working directory is used when present.
func parseEnv(cfg *Config) error {
	if path := flagx.EnvFileFlag(); path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
	} else if _, err := os.Stat(defaultEnvFile); err == nil {
		if err := godotenv.Load(defaultEnvFile); err != nil {
			return fmt.Errorf("load env file %s: %w", defaultEnvFile, err)
		}
	}

	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("decode environment: %w", err)
	}
	return nil
}
