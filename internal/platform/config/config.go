// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, storage) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Supported image storage backends.
const (
	StorageDisk = "disk"
	StorageS3   = "s3"
)

// ErrInvalidConfig is wrapped by every [Config.Validate] failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// # Configuration Schema

// Config holds all runtime configuration for the Recipebox API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"3000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Key-Value Cache (Redis). Empty disables the recipe cache.
	RedisURL       string        `env:"REDIS_URL"`
	RecipeCacheTTL time.Duration `env:"RECIPE_CACHE_TTL" envDefault:"1m"`

	// Identity token signing
	TokenSecret string        `env:"SECRET,required"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"1h"`

	// Recipe images
	ImageStorage   string `env:"IMAGE_STORAGE"    envDefault:"disk"`
	ImageDir       string `env:"IMAGE_DIR"        envDefault:"public/images"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"5242880"`

	// Object Storage (S3-compatible)
	S3 S3Config `envPrefix:"S3_"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// S3Config groups the object storage settings used when IMAGE_STORAGE=s3.
type S3Config struct {
	Bucket    string `env:"BUCKET"`
	Region    string `env:"REGION"   envDefault:"auto"`
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates it.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	switch c.ImageStorage {
	case StorageDisk:
		if strings.TrimSpace(c.ImageDir) == "" {
			return fmt.Errorf("%w: IMAGE_DIR must be set for disk storage", ErrInvalidConfig)
		}
	case StorageS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("%w: S3_BUCKET must be set for s3 storage", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown IMAGE_STORAGE %q", ErrInvalidConfig, c.ImageStorage)
	}

	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("%w: MAX_UPLOAD_BYTES must be positive", ErrInvalidConfig)
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// CacheEnabled reports whether a Redis URL was configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != ""
}

// Origins returns the comma separated EXTRA_ORIGINS as a trimmed slice.
func (c *Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
