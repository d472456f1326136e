// Package config loads application settings from an optional academy.yaml
// plus ACADEMY_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all runtime settings.
type Config struct {
	Content  ContentConfig  `mapstructure:"content"`
	Database DatabaseConfig `mapstructure:"database"`
	Validate ValidateConfig `mapstructure:"validate"`
	Scaffold ScaffoldConfig `mapstructure:"scaffold"`
}

// ContentConfig points at the registry document and the content tree.
type ContentConfig struct {
	RegistryPath string `mapstructure:"registry_path"`
	Dir          string `mapstructure:"dir"`
}

// DatabaseConfig configures the local SQLite store.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ValidateConfig sets the default validation mode.
type ValidateConfig struct {
	Mode string `mapstructure:"mode"`
}

// ScaffoldConfig selects and configures the draft-generation provider.
type ScaffoldConfig struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
}

// Load reads academy.yaml from dir (the working directory when empty) and
// applies environment overrides. A missing config file is not an error;
// defaults and environment cover everything.
func Load(dir string) (*Config, error) {
	v := viper.New()
	if dir == "" {
		dir = "."
	}
	v.AddConfigPath(dir)
	v.SetConfigName("academy")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("ACADEMY")
	v.AutomaticEnv()

	v.SetDefault("content.registry_path", filepath.Join("content", "registry.json"))
	v.SetDefault("content.dir", "content")
	v.SetDefault("validate.mode", "development")
	v.SetDefault("scaffold.provider", "mock")

	bindings := map[string]string{
		"content.registry_path": "ACADEMY_REGISTRY",
		"content.dir":           "ACADEMY_CONTENT_DIR",
		"database.path":         "ACADEMY_DB",
		"validate.mode":         "ACADEMY_VALIDATE_MODE",
		"scaffold.provider":     "ACADEMY_SCAFFOLD_PROVIDER",
		"scaffold.model":        "ACADEMY_SCAFFOLD_MODEL",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
