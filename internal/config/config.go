// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"` // falls back to HQS_TOKEN env var
	Machine string `yaml:"machine"` // default target machine
}

type PollConfig struct {
	Interval time.Duration `yaml:"interval"` // wait between status polls
	Timeout  time.Duration `yaml:"timeout"`  // total await budget
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Port int `yaml:"port"` // 0 disables the admin server
}

type Config struct {
	API   APIConfig   `yaml:"api"`
	Poll  PollConfig  `yaml:"poll"`
	Log   LogConfig   `yaml:"log"`
	Admin AdminConfig `yaml:"admin"`

	Runtime RuntimeConfig `yaml:"-"`
}

const credentialEnvVar = "HQS_TOKEN"

func LoadConfig(configPath string, dev bool) (*Config, error) {
	b, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://qapi.honeywell.com/v1"
	}
	if cfg.API.Machine == "" {
		cfg.API.Machine = "HQS-LT-1.0-APIVAL"
	}
	if cfg.Poll.Interval <= 0 {
		cfg.Poll.Interval = 2 * time.Second
	}
	if cfg.Poll.Timeout <= 0 {
		cfg.Poll.Timeout = 5 * time.Minute
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}

	// Credential resolution: explicit config value, then environment.
	if cfg.API.APIKey == "" {
		cfg.API.APIKey = os.Getenv(credentialEnvVar)
	}

	// Minimal validation
	if cfg.API.APIKey == "" {
		return nil, errors.New("api.api_key is required (or set " + credentialEnvVar + ")")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
