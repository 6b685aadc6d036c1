// Field Atlas - India Field Site and Instrument Map
// Copyright 2026 Field Atlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldatlas/fieldatlas

// Package config holds all application configuration, loaded in layers:
// built-in defaults, then an optional YAML config file, then environment
// variables. Config is immutable after Load() and safe for concurrent reads.
package config

import "time"

// Config holds all application configuration.
//
// Loading order (Koanf v2):
//  1. Defaults: built-in sensible defaults for every setting
//  2. Config file: optional config.yaml for persistent settings
//  3. Environment variables: override any setting (SERVER_PORT, UPSTREAM_URL, ...)
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Upstream UpstreamConfig `koanf:"upstream"`
	GeoData  GeoDataConfig  `koanf:"geodata"`
	Map      MapConfig      `koanf:"map"`
	Cache    CacheConfig    `koanf:"cache"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment" validate:"oneof=development production"`
}

// UpstreamConfig holds the connection settings for the external
// project-management API that supplies project/site/instrument data.
//
// The token is passed through as a bearer credential on every request; the
// service itself performs no further authentication (see SPEC non-goals).
type UpstreamConfig struct {
	// URL is the projects endpoint of the upstream API. Empty disables live
	// fetches entirely; the demo fallback is then the only source.
	URL   string `koanf:"url" validate:"omitempty,url"`
	Token string `koanf:"token"`

	// Timeout bounds each upstream request. The original implementation
	// inherited unbounded transport waits; a bounded timeout is deliberate.
	Timeout time.Duration `koanf:"timeout"`

	// RateLimitRPS throttles outbound requests to the upstream API.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`
}

// GeoDataConfig locates the static GeoJSON artifacts produced by the
// shapefile converter (EPSG:4326 / WGS84 decimal degrees).
type GeoDataConfig struct {
	// Dir is the primary directory holding IND_WHOLE.geojson, IND_adm2.geojson
	// and metadata.json.
	Dir string `koanf:"dir" validate:"required"`

	// FallbackDir is consulted once when a read from Dir fails.
	FallbackDir string `koanf:"fallback_dir"`

	// DemoProjectsPath points at the static fallback project payload. When
	// empty or unreadable, a built-in demo dataset is served instead.
	DemoProjectsPath string `koanf:"demo_projects_path"`
}

// MapConfig holds the viewport invariants and base style selection.
// Bounds and zoom are clamps, not hints: they are re-asserted after every
// bounds-affecting operation.
type MapConfig struct {
	BoundsSouth float64 `koanf:"bounds_south"`
	BoundsWest  float64 `koanf:"bounds_west"`
	BoundsNorth float64 `koanf:"bounds_north"`
	BoundsEast  float64 `koanf:"bounds_east"`

	MinZoom int `koanf:"min_zoom" validate:"min=0,max=22"`
	MaxZoom int `koanf:"max_zoom" validate:"min=0,max=22"`

	// ResetMaxZoom is the zoom ceiling applied by a view reset.
	ResetMaxZoom int `koanf:"reset_max_zoom"`

	// ResetPadding is the padding, in decimal degrees, added around the
	// bounds on a view reset.
	ResetPadding float64 `koanf:"reset_padding"`

	DefaultStyle string `koanf:"default_style"`
}

// CacheConfig holds data cache settings.
type CacheConfig struct {
	// TTL is the shared expiry for the boundary/project snapshot cache.
	TTL time.Duration `koanf:"ttl"`
}

// SecurityConfig holds the HTTP-facing protections.
type SecurityConfig struct {
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Default returns a Config with all default values applied, without
// consulting config files or the environment.
func Default() *Config {
	return defaultConfig()
}

// defaultConfig returns a Config with all default values applied.
// The map bounds default to the India bounding box used for viewport
// clamping: southwest (6.4627, 68.1097), northeast (35.5133, 97.4153).
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Upstream: UpstreamConfig{
			URL:            "",
			Token:          "",
			Timeout:        10 * time.Second,
			RateLimitRPS:   5,
			RateLimitBurst: 10,
		},
		GeoData: GeoDataConfig{
			Dir:              "./geojson_output",
			FallbackDir:      "",
			DemoProjectsPath: "",
		},
		Map: MapConfig{
			BoundsSouth:  6.4627,
			BoundsWest:   68.1097,
			BoundsNorth:  35.5133,
			BoundsEast:   97.4153,
			MinZoom:      4,
			MaxZoom:      18,
			ResetMaxZoom: 6,
			ResetPadding: 0.5,
			DefaultStyle: "streets",
		},
		Cache: CacheConfig{
			TTL: 5 * time.Minute,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}
