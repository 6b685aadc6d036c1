// Field Atlas - India Field Site and Instrument Map
// Copyright 2026 Field Atlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldatlas/fieldatlas

package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"

	"github.com/fieldatlas/fieldatlas/internal/cache"
	"github.com/fieldatlas/fieldatlas/internal/config"
	"github.com/fieldatlas/fieldatlas/internal/geojson"
	"github.com/fieldatlas/fieldatlas/internal/logging"
	"github.com/fieldatlas/fieldatlas/internal/metrics"
)

// Status names the data source currently backing project data.
type Status string

const (
	// StatusLive means the last projects fetch came from the upstream API.
	StatusLive Status = "live"

	// StatusFallback means the upstream failed and demo data is serving.
	StatusFallback Status = "fallback"

	// StatusUnavailable means neither live nor fallback data could be
	// produced.
	StatusUnavailable Status = "unavailable"
)

// ErrUnknownDataset rejects boundary dataset names outside the fixed
// whitelist.
var ErrUnknownDataset = errors.New("unknown boundary dataset")

// boundaryFiles is the dataset whitelist. Requests never reach the
// filesystem with a caller-supplied path.
var boundaryFiles = map[string]string{
	"IND_WHOLE": "IND_WHOLE.geojson",
	"IND_adm2":  "IND_adm2.geojson",
}

// Expected feature counts for the GADM-derived datasets. A mismatch is an
// anomaly worth a log line, never an error: partial data still renders.
const (
	expectedStateFeatures    = 37
	expectedDistrictFeatures = 667
)

// Source resolves every map dataset through one cascade: snapshot cache,
// then the authoritative origin (GeoJSON files for boundaries, the upstream
// API for projects), then the demo fallback for projects. It owns the
// live/fallback/unavailable status and notifies on transitions.
//
// Thread Safety: safe for concurrent use.
type Source struct {
	cfg    *config.Config
	client fetcher
	snap   *cache.Snapshot

	mu       sync.RWMutex
	status   Status
	onStatus func(Status)
}

// NewSource creates a data source over the given upstream client and
// snapshot cache. Status starts as unavailable until the first successful
// projects fetch.
func NewSource(cfg *config.Config, client fetcher, snap *cache.Snapshot) *Source {
	return &Source{
		cfg:    cfg,
		client: client,
		snap:   snap,
		status: StatusUnavailable,
	}
}

// Status returns the current data source status.
func (s *Source) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// OnStatusChange registers a callback invoked whenever the source status
// transitions. At most one callback is held; registration replaces.
func (s *Source) OnStatusChange(fn func(Status)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStatus = fn
}

func (s *Source) setStatus(status Status) {
	s.mu.Lock()
	changed := s.status != status
	s.status = status
	fn := s.onStatus
	s.mu.Unlock()

	if !changed {
		return
	}
	metrics.SetDataSourceStatus(string(status))
	logging.Info().Str("status", string(status)).Msg("data source status changed")
	if fn != nil {
		fn(status)
	}
}

// FetchBoundaries returns the decoded boundary features for one level,
// serving from the snapshot cache when valid.
func (s *Source) FetchBoundaries(ctx context.Context, level geojson.Level) ([]geojson.BoundaryFeature, error) {
	key, dataset := cache.KeyStates, "IND_WHOLE"
	if level == geojson.LevelDistrict {
		key, dataset = cache.KeyDistricts, "IND_adm2"
	}

	if cached, ok := s.snap.Get(key); ok {
		metrics.CacheHits.Inc()
		return cached.([]geojson.BoundaryFeature), nil
	}
	metrics.CacheMisses.Inc()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := s.BoundaryFileBytes(dataset)
	if err != nil {
		return nil, err
	}

	features, err := geojson.DecodeBoundaries(data, level)
	if err != nil {
		return nil, fmt.Errorf("decoding %s boundaries: %w", level, err)
	}

	expected := expectedStateFeatures
	if level == geojson.LevelDistrict {
		expected = expectedDistrictFeatures
	}
	if len(features) != expected {
		logging.Warn().Str("level", string(level)).Int("got", len(features)).Int("expected", expected).
			Msg("boundary feature count differs from the published dataset")
	}

	metrics.BoundaryFeaturesLoaded.WithLabelValues(string(level)).Set(float64(len(features)))
	s.snap.Set(key, features)
	return features, nil
}

// BoundaryFileBytes returns the raw GeoJSON bytes for a whitelisted dataset
// name, consulting the primary directory first and the fallback directory
// once on failure.
func (s *Source) BoundaryFileBytes(dataset string) ([]byte, error) {
	filename, ok := boundaryFiles[dataset]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDataset, dataset)
	}

	data, err := os.ReadFile(filepath.Join(s.cfg.GeoData.Dir, filename))
	if err == nil {
		return data, nil
	}

	if s.cfg.GeoData.FallbackDir != "" {
		fallback, fbErr := os.ReadFile(filepath.Join(s.cfg.GeoData.FallbackDir, filename))
		if fbErr == nil {
			logging.Warn().Str("dataset", dataset).Err(err).Msg("primary geodata read failed, fallback directory served")
			return fallback, nil
		}
	}

	return nil, fmt.Errorf("reading boundary dataset %s: %w", dataset, err)
}

// Metadata returns the dataset metadata document, synthesizing a minimal one
// when metadata.json is absent.
func (s *Source) Metadata() ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.cfg.GeoData.Dir, "metadata.json"))
	if err == nil {
		return data, nil
	}

	type fileInfo struct {
		Filename    string `json:"filename"`
		Description string `json:"description"`
	}
	synthesized := map[string]any{
		"conversion_info": map[string]any{
			"total_files": 2,
			"files": []fileInfo{
				{Filename: "IND_WHOLE.geojson", Description: "Indian states and union territories"},
				{Filename: "IND_adm2.geojson", Description: "Indian districts"},
			},
		},
	}
	return json.Marshal(synthesized)
}

// FetchProjects resolves the project catalog through the full cascade:
// snapshot cache, live upstream, demo-file fallback, built-in demo dataset.
// The returned catalog is shared; callers must not mutate it.
func (s *Source) FetchProjects(ctx context.Context) (*Catalog, error) {
	if cached, ok := s.snap.Get(cache.KeyProjects); ok {
		metrics.CacheHits.Inc()
		return cached.(*Catalog), nil
	}
	metrics.CacheMisses.Inc()

	if body, err := s.client.FetchProjects(ctx); err == nil {
		catalog := Normalize(body)
		s.snap.Set(cache.KeyProjects, catalog)
		s.setStatus(StatusLive)
		logging.Info().Str("format", string(catalog.Format)).Int("projects", len(catalog.Projects)).
			Int("sites", catalog.SiteCount).Int("instruments", catalog.InstrumentCount).
			Msg("project data fetched from upstream")
		return catalog, nil
	} else if !errors.Is(err, ErrUpstreamDisabled) {
		logging.Warn().Err(err).Msg("live project fetch failed, falling back to demo data")
	}

	catalog, err := s.demoCatalog()
	if err != nil {
		s.setStatus(StatusUnavailable)
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	s.snap.Set(cache.KeyProjects, catalog)
	s.setStatus(StatusFallback)
	return catalog, nil
}

// demoCatalog loads the configured demo file when present, otherwise the
// built-in sample dataset.
func (s *Source) demoCatalog() (*Catalog, error) {
	if path := s.cfg.GeoData.DemoProjectsPath; path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			return Normalize(data), nil
		}
		logging.Warn().Str("path", path).Err(err).Msg("demo projects file unreadable, built-in dataset served")
	}
	return DemoCatalog(), nil
}

// InvalidateCache discards the whole data snapshot so the next read refetches
// every dataset.
func (s *Source) InvalidateCache() {
	s.snap.Invalidate()
}
