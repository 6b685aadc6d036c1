// Field Atlas - India Field Site and Instrument Map
// Copyright 2026 Field Atlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldatlas/fieldatlas

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("expected 5 minute cache TTL, got %s", cfg.Cache.TTL)
	}
	if cfg.Map.MinZoom != 4 || cfg.Map.MaxZoom != 18 {
		t.Errorf("expected zoom clamp [4, 18], got [%d, %d]", cfg.Map.MinZoom, cfg.Map.MaxZoom)
	}
}

func TestValidateRejectsInvertedBounds(t *testing.T) {
	cfg := defaultConfig()
	cfg.Map.BoundsSouth, cfg.Map.BoundsNorth = cfg.Map.BoundsNorth, cfg.Map.BoundsSouth

	if err := cfg.Validate(); !errors.Is(err, ErrInvertedBounds) {
		t.Errorf("expected ErrInvertedBounds, got %v", err)
	}
}

func TestValidateRejectsZoomInversion(t *testing.T) {
	cfg := defaultConfig()
	cfg.Map.MinZoom = 10
	cfg.Map.MaxZoom = 5
	cfg.Map.ResetMaxZoom = 6

	if err := cfg.Validate(); !errors.Is(err, ErrZoomRange) {
		t.Errorf("expected ErrZoomRange, got %v", err)
	}
}

func TestValidateRejectsResetZoomOutsideRange(t *testing.T) {
	cfg := defaultConfig()
	cfg.Map.ResetMaxZoom = 25

	if err := cfg.Validate(); !errors.Is(err, ErrZoomRange) {
		t.Errorf("expected ErrZoomRange for out-of-range reset ceiling, got %v", err)
	}
}

func TestValidateRejectsTokenWithoutURL(t *testing.T) {
	cfg := defaultConfig()
	cfg.Upstream.Token = "secret"
	cfg.Upstream.URL = ""

	if err := cfg.Validate(); !errors.Is(err, ErrTokenWithout) {
		t.Errorf("expected ErrTokenWithout, got %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SERVER_PORT", "server.port"},
		{"UPSTREAM_URL", "upstream.url"},
		{"UPSTREAM_RATE_LIMIT_RPS", "upstream.rate_limit_rps"},
		{"MAP_RESET_MAX_ZOOM", "map.reset_max_zoom"},
		{"SECURITY_CORS_ORIGINS", "security.cors_origins"},
		{"HOME", ""},
		{"PATH", ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("UPSTREAM_URL", "http://127.0.0.1:8000/api/projects-data")
	t.Setenv("UPSTREAM_TOKEN", "test-token")
	t.Setenv("SECURITY_CORS_ORIGINS", "http://localhost:3000, http://localhost:5000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080 from env, got %d", cfg.Server.Port)
	}
	if cfg.Upstream.Token != "test-token" {
		t.Errorf("expected upstream token from env, got %q", cfg.Upstream.Token)
	}
	want := []string{"http://localhost:3000", "http://localhost:5000"}
	if len(cfg.Security.CORSOrigins) != len(want) {
		t.Fatalf("expected %d CORS origins, got %v", len(want), cfg.Security.CORSOrigins)
	}
	for i, origin := range want {
		if cfg.Security.CORSOrigins[i] != origin {
			t.Errorf("CORS origin %d: got %q, want %q", i, cfg.Security.CORSOrigins[i], origin)
		}
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "server:\n  port: 9100\nmap:\n  reset_max_zoom: 7\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("expected port 9100 from file, got %d", cfg.Server.Port)
	}
	if cfg.Map.ResetMaxZoom != 7 {
		t.Errorf("expected reset ceiling 7 from file, got %d", cfg.Map.ResetMaxZoom)
	}
}
