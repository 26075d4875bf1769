package config

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Source   SourceConfig   `yaml:"source"`
	Database DatabaseConfig `yaml:"database"`
	Output   OutputConfig   `yaml:"output"`
	Render   RenderConfig   `yaml:"render"`
	Logging  LoggingConfig  `yaml:"logging"`
	Auth     AuthConfig     `yaml:"auth"`
}

type ServerConfig struct {
	Host                string `yaml:"host"`
	Port                int    `yaml:"port"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
}

type SourceConfig struct {
	FeedURL         string `yaml:"feed_url"`
	FallbackPageURL string `yaml:"fallback_page_url"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

type RenderConfig struct {
	// Timezone names the IANA zone used for the footer timestamp on every
	// slide. Empty means UTC.
	Timezone string `yaml:"timezone"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type AuthConfig struct {
	// TokenHash is a bcrypt hash of the API token guarding mutating
	// endpoints. Empty leaves them unguarded (single-user localhost mode).
	TokenHash string `yaml:"token_hash"`
}

func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:                "0.0.0.0",
			Port:                8080,
			ReadTimeoutSeconds:  30,
			WriteTimeoutSeconds: 300,
		},
		Source: SourceConfig{
			FeedURL:        "http://localhost:9000/api/news",
			TimeoutSeconds: 30,
		},
		Database: DatabaseConfig{
			Path: "./newsreel.db",
		},
		Output: OutputConfig{
			Dir: "./videos",
		},
		Render: RenderConfig{
			Timezone: "UTC",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config file and merges it over defaults.
// If the file does not exist, defaults are returned without error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("No config file found, using defaults", "path", path)
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
