// ShelfScout - Sporting Goods Recommendations and In-Store Product Location
// Copyright 2026 ShelfScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfscout/shelfscout

// Package config loads and validates ShelfScout configuration.
//
// Configuration is layered with Koanf v2: built-in defaults, then an
// optional YAML config file, then environment variables. Environment
// variables take the highest priority.
package config

import (
	"fmt"
	"time"

	"github.com/shelfscout/shelfscout/internal/validation"
)

// Config is the root configuration for the ShelfScout server.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Recommend RecommendConfig `koanf:"recommend"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the listen address. Default: 0.0.0.0
	Host string `koanf:"host" validate:"required"`

	// Port is the listen port. Default: 8484
	Port int `koanf:"port" validate:"min=1,max=65535"`

	// Timeout is the per-request handler timeout.
	Timeout time.Duration `koanf:"timeout"`

	// ShutdownTimeout bounds graceful shutdown of in-flight requests.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// CatalogConfig holds product catalog settings.
type CatalogConfig struct {
	// Path is the JSON catalog file loaded at startup and on reload.
	Path string `koanf:"path" validate:"required"`

	// Watch enables fsnotify-driven reload when the catalog file changes.
	Watch bool `koanf:"watch"`

	// FeaturePolicy selects how product feature vectors are derived.
	// "onehot" encodes identity only; "attributes" derives dimensions
	// from category and aisle zone.
	FeaturePolicy string `koanf:"feature_policy" validate:"oneof=onehot attributes"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	// DefaultK is the neighbor count used when a request omits k.
	DefaultK int `koanf:"default_k" validate:"min=1"`

	// MaxK caps the neighbor count a request may ask for.
	MaxK int `koanf:"max_k" validate:"min=1"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Validate checks the configuration for consistency.
// Struct tags cover the per-field constraints; cross-field rules live here.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Recommend.DefaultK > c.Recommend.MaxK {
		return fmt.Errorf("recommend.default_k (%d) must not exceed recommend.max_k (%d)",
			c.Recommend.DefaultK, c.Recommend.MaxK)
	}

	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %s", c.Server.ShutdownTimeout)
	}
	if !c.Security.RateLimitDisabled && c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("security.rate_limit_window must be positive, got %s", c.Security.RateLimitWindow)
	}

	return nil
}
