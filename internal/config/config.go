package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Sync struct {
		Enabled      bool           `yaml:"enabled"`
		PollInterval int64          `yaml:"poll_interval_seconds"`
		RunTimeout   int64          `yaml:"run_timeout_seconds"`
		DesiredCases map[string]int `yaml:"desired_cases"`
	} `yaml:"sync"`
}

// LoadConfig reads configuration from the specified YAML file. The
// DATABASE_URL environment variable overrides the file value; a missing
// database URL is an error because the server cannot start without one.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		config.Database.URL = url
	}
	if config.Database.URL == "" {
		return nil, fmt.Errorf("database url is not configured (set database.url or DATABASE_URL)")
	}

	if config.Server.Port == "" {
		config.Server.Port = ":8080"
	}
	if config.Sync.PollInterval <= 0 {
		config.Sync.PollInterval = 3600
	}
	if config.Sync.RunTimeout <= 0 {
		config.Sync.RunTimeout = 300
	}

	return config, nil
}
