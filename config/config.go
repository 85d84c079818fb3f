// Package config loads runtime configuration: defaults, then an optional
// YAML file, then environment variables. Flags are applied by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Storage types accepted in StorageType.
const (
	StorageFilesystem = "filesystem"
	StorageMemory     = "memory"
	StorageSQLite     = "sqlite"
	StorageS3         = "s3"
)

const (
	DefaultPort         = "5000"
	DefaultStoragePath  = "storage"
	DefaultMaxBodyBytes = 50 << 20
)

var ErrInvalidValue = errors.New("invalid config value")

type Config struct {
	Port             string   `yaml:"port"`
	StorageType      string   `yaml:"storage_type"`
	LocalStoragePath string   `yaml:"local_storage_path"`
	DataSourceName   string   `yaml:"data_source_name"`
	S3BucketName     string   `yaml:"s3_bucket_name"`
	S3Prefix         string   `yaml:"s3_prefix"`
	S3Endpoint       string   `yaml:"s3_endpoint"`
	AllowedOrigins   []string `yaml:"allowed_origins"`
	MaxBodyBytes     int64    `yaml:"max_body_bytes"`
	LogLevel         string   `yaml:"log_level"`
	LogFormat        string   `yaml:"log_format"`
}

func Default() *Config {
	return &Config{
		Port:             DefaultPort,
		StorageType:      StorageFilesystem,
		LocalStoragePath: DefaultStoragePath,
		AllowedOrigins:   []string{"*"},
		MaxBodyBytes:     DefaultMaxBodyBytes,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found", path)
			}
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	setString(&c.Port, "PORT")
	setString(&c.StorageType, "STORAGE_TYPE")
	setString(&c.LocalStoragePath, "LOCAL_STORAGE_PATH")
	setString(&c.DataSourceName, "DATA_SOURCE_NAME")
	setString(&c.S3BucketName, "S3_BUCKET_NAME")
	setString(&c.S3Prefix, "S3_PREFIX")
	setString(&c.S3Endpoint, "S3_ENDPOINT")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.AllowedOrigins = origins
	}
	if v := os.Getenv("MAX_BODY_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: MAX_BODY_BYTES=%q", ErrInvalidValue, v)
		}
		c.MaxBodyBytes = n
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks the settings required by the selected storage type.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("%w: port is empty", ErrInvalidValue)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidValue)
	}
	switch c.StorageType {
	case StorageFilesystem:
		if c.LocalStoragePath == "" {
			return fmt.Errorf("%w: local_storage_path is empty", ErrInvalidValue)
		}
	case StorageSQLite:
		if c.DataSourceName == "" {
			return fmt.Errorf("%w: data_source_name is required for sqlite", ErrInvalidValue)
		}
	case StorageS3:
		if c.S3BucketName == "" {
			return fmt.Errorf("%w: s3_bucket_name is required for s3", ErrInvalidValue)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("%w: unknown storage_type %q", ErrInvalidValue, c.StorageType)
	}
	return nil
}
