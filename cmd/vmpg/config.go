package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lzxindustries/videomancer-sdk-sub001/internal/logger"
	"github.com/lzxindustries/videomancer-sdk-sub001/pkg/vmpg"
)

// Config represents the vmpg configuration file
// (~/.config/vmpg/config.yaml). Flags take precedence over every field.
type Config struct {
	PackagesDir string `yaml:"packages_dir"`

	// Signing
	SigningKey string   `yaml:"signing_key"`
	TrustKeys  []string `yaml:"trust_keys"`

	// Server
	ServerAddress string `yaml:"server_address"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "vmpg", "config.yaml")
}

// LoadConfig reads the config file. Returns a zero Config if the file
// doesn't exist or does not parse.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// newLogger builds the CLI logger from the config file's output
// settings.
func newLogger(cfg Config) logger.Logger {
	level := logger.ParseLevel(cfg.LogLevel)
	switch cfg.LogFormat {
	case "json":
		return logger.JSON(os.Stderr, level)
	case "text":
		return logger.Default()
	default:
		return logger.Pretty(os.Stderr, level)
	}
}

// configTrustKeys parses the trust keys configured for verification.
func configTrustKeys(cfg Config) ([]vmpg.PublicKey, error) {
	keys := make([]vmpg.PublicKey, 0, len(cfg.TrustKeys))
	for _, s := range cfg.TrustKeys {
		k, err := vmpg.ParsePublicKey(s)
		if err != nil {
			return nil, fmt.Errorf("config trust_keys: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, nil
}
