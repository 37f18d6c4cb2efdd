package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// envConfig holds the settings that can come from the environment.
type envConfig struct {
	Workers     int  `env:"COOLDOWN_WORKERS"`
	Shards      int  `env:"COOLDOWN_SHARDS"`
	MonitorPort int  `env:"COOLDOWN_MONITOR_PORT"`
	Record      bool `env:"COOLDOWN_RECORD"`
}

// loadEnvConfig reads envFile if it exists and then parses the environment.
// Variables already set take precedence over the file.
func loadEnvConfig(envFile string) (envConfig, error) {
	err := godotenv.Load(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return envConfig{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return envConfig{}, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}
