// Package config loads the application configuration from an optional YAML
// file, applies FICHA_* environment overrides and validates the result.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Storage struct {
		Driver      string `yaml:"driver" env:"FICHA_STORAGE_DRIVER" validate:"oneof=memory sqlite postgres"`
		SQLitePath  string `yaml:"sqlite_path" env:"FICHA_SQLITE_PATH" validate:"required_if=Driver sqlite"`
		PostgresDSN string `yaml:"postgres_dsn" env:"FICHA_POSTGRES_DSN" validate:"required_if=Driver postgres"`
	} `yaml:"storage"`

	Artifacts struct {
		Driver string `yaml:"driver" env:"FICHA_ARTIFACTS_DRIVER" validate:"oneof=fs s3 memory"`
		FSRoot string `yaml:"fs_root" env:"FICHA_ARTIFACTS_DIR" validate:"required_if=Driver fs"`
		S3     struct {
			Bucket    string `yaml:"bucket" env:"FICHA_S3_BUCKET"`
			Region    string `yaml:"region" env:"FICHA_S3_REGION"`
			Endpoint  string `yaml:"endpoint" env:"FICHA_S3_ENDPOINT"`
			PathStyle bool   `yaml:"path_style" env:"FICHA_S3_PATH_STYLE"`
			Prefix    string `yaml:"prefix" env:"FICHA_S3_PREFIX"`
		} `yaml:"s3"`
	} `yaml:"artifacts"`

	Render struct {
		LogoPath string `yaml:"logo_path" env:"FICHA_LOGO_PATH"`
		Compress bool   `yaml:"compress" env:"FICHA_PDF_COMPRESS"`
	} `yaml:"render"`

	Logging struct {
		Level  string `yaml:"level" env:"FICHA_LOG_LEVEL" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" env:"FICHA_LOG_FORMAT" validate:"oneof=json console"`
	} `yaml:"logging"`

	Metrics struct {
		TextfilePath string `yaml:"textfile_path" env:"FICHA_METRICS_FILE"`
	} `yaml:"metrics"`
}

var validate = validator.New()

// LoadConfig loads configuration from a file and environment variables. A
// missing file is not an error; defaults and the environment still apply.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if configPath != "" {
		file, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(file, config); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	config := &Config{}
	setDefaults(config)
	return config
}

func setDefaults(config *Config) {
	config.Storage.Driver = "sqlite"
	config.Storage.SQLitePath = "cadastros.db"

	config.Artifacts.Driver = "fs"
	config.Artifacts.FSRoot = "fichas"
	config.Artifacts.S3.Region = "us-east-1"

	config.Render.LogoPath = "logo.png"
	config.Render.Compress = true

	config.Logging.Level = "info"
	config.Logging.Format = "console"
}

func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		return err
	}
	if config.Artifacts.Driver == "s3" && config.Artifacts.S3.Bucket == "" {
		return fmt.Errorf("artifacts s3 bucket is required")
	}
	return nil
}
