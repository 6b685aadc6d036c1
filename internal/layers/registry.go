// Field Atlas - India Field Site and Instrument Map
// Copyright 2026 Field Atlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldatlas/fieldatlas

// Package layers holds the authoritative map presentation state: which
// layers are visible, which base style is active, and the clamped viewport.
// The browser renders from this state and writes back through it; no toggle
// state lives in the view.
package layers

import (
	"context"
	"fmt"
	"sync"

	"github.com/fieldatlas/fieldatlas/internal/boundary"
	"github.com/fieldatlas/fieldatlas/internal/config"
	"github.com/fieldatlas/fieldatlas/internal/geojson"
	"github.com/fieldatlas/fieldatlas/internal/logging"
	"github.com/fieldatlas/fieldatlas/internal/markers"
)

// Name identifies one toggleable layer.
type Name string

const (
	LayerStates      Name = "states"
	LayerDistricts   Name = "districts"
	LayerSites       Name = "sites"
	LayerInstruments Name = "instruments"
)

// BaseStyle describes one base tile style. An empty TileURL means shape-only
// rendering: no base layer at all, just vector layers and the mask.
type BaseStyle struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	TileURL     string `json:"tile_url,omitempty"`
	Attribution string `json:"attribution,omitempty"`
}

// baseStyles is the closed set of selectable base styles.
var baseStyles = map[string]BaseStyle{
	"streets": {
		Key:         "streets",
		Label:       "Streets",
		TileURL:     "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: "© OpenStreetMap contributors",
	},
	"satellite": {
		Key:         "satellite",
		Label:       "Satellite",
		TileURL:     "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}",
		Attribution: "© Esri",
	},
	"topographic": {
		Key:         "topographic",
		Label:       "Topographic",
		TileURL:     "https://{s}.tile.opentopomap.org/{z}/{x}/{y}.png",
		Attribution: "© OpenTopoMap (CC-BY-SA)",
	},
	"shape-only": {
		Key:   "shape-only",
		Label: "Shape Only",
	},
}

// ErrUnknownStyle rejects base style keys outside the fixed set.
var ErrUnknownStyle = fmt.Errorf("unknown base style")

// Viewport is the clamped visible region and zoom.
type Viewport struct {
	// Bounds is ((south, west), (north, east)) in decimal degrees.
	Bounds [2][2]float64 `json:"bounds"`
	Zoom   int           `json:"zoom"`
}

// boundarySource supplies boundary features for lazy layer builds.
type boundarySource interface {
	FetchBoundaries(ctx context.Context, level geojson.Level) ([]geojson.BoundaryFeature, error)
}

// State is a read-only snapshot of the registry for rendering.
type State struct {
	Visible   map[Name]bool `json:"visible"`
	Counts    map[Name]int  `json:"counts"`
	BaseStyle BaseStyle     `json:"base_style"`
	Viewport  Viewport      `json:"viewport"`
}

// Registry owns the toggleable layer set and the viewport invariants.
// Boundary layers build lazily on first enable and are reused for the
// session; marker layers are supplied by the controller after each data
// load.
//
// Thread Safety: safe for concurrent use.
type Registry struct {
	cfg    *config.MapConfig
	source boundarySource

	mu          sync.RWMutex
	visible     map[Name]bool
	boundaries  map[Name]*boundary.Layer
	sites       []*markers.Marker
	instruments []*markers.Marker
	styleKey    string
	viewport    Viewport
}

// NewRegistry creates a registry with the configured default style and the
// viewport clamped to the configured bounds. No layers are visible yet; the
// controller enables the initial set.
func NewRegistry(cfg *config.MapConfig, source boundarySource) *Registry {
	styleKey := cfg.DefaultStyle
	if _, ok := baseStyles[styleKey]; !ok {
		styleKey = "streets"
	}
	r := &Registry{
		cfg:        cfg,
		source:     source,
		visible:    make(map[Name]bool),
		boundaries: make(map[Name]*boundary.Layer),
		styleKey:   styleKey,
	}
	r.viewport = r.clampedViewport(cfg.ResetMaxZoom)
	return r
}

// Toggle sets a layer's visibility. Enabling a boundary layer that has never
// been built triggers a lazy fetch and build first; repeated toggles reuse
// the built layer. Toggling to the current visibility is a no-op.
func (r *Registry) Toggle(ctx context.Context, name Name, visible bool) (changed bool, err error) {
	switch name {
	case LayerStates, LayerDistricts, LayerSites, LayerInstruments:
	default:
		return false, fmt.Errorf("unknown layer %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.visible[name] == visible {
		return false, nil
	}

	if visible && (name == LayerStates || name == LayerDistricts) {
		if err := r.ensureBoundaryLocked(ctx, name); err != nil {
			return false, err
		}
	}

	r.visible[name] = visible
	logging.Debug().Str("layer", string(name)).Bool("visible", visible).Msg("layer toggled")
	return true, nil
}

// ensureBoundaryLocked builds a boundary layer once. Must hold mu.
func (r *Registry) ensureBoundaryLocked(ctx context.Context, name Name) error {
	if _, built := r.boundaries[name]; built {
		return nil
	}

	level := geojson.LevelState
	if name == LayerDistricts {
		level = geojson.LevelDistrict
	}

	features, err := r.source.FetchBoundaries(ctx, level)
	if err != nil {
		return fmt.Errorf("building %s layer: %w", name, err)
	}
	r.boundaries[name] = boundary.BuildLayer(features, level)
	return nil
}

// BoundaryLayer returns the built layer for states or districts, or nil if
// it has never been enabled.
func (r *Registry) BoundaryLayer(name Name) *boundary.Layer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.boundaries[name]
}

// SetMarkers replaces the site and instrument marker sets wholesale after a
// data load.
func (r *Registry) SetMarkers(sites, instruments []*markers.Marker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sites = sites
	r.instruments = instruments
}

// Markers returns the current marker sets.
func (r *Registry) Markers() (sites, instruments []*markers.Marker) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sites, r.instruments
}

// SetBaseStyle selects the active base style. At most one base layer exists
// at any time; the shape-only style removes it entirely.
func (r *Registry) SetBaseStyle(key string) (BaseStyle, error) {
	style, ok := baseStyles[key]
	if !ok {
		return BaseStyle{}, fmt.Errorf("%w: %q", ErrUnknownStyle, key)
	}

	r.mu.Lock()
	r.styleKey = key
	// A style change re-asserts the viewport clamp.
	r.viewport.Bounds = r.clampedViewport(r.viewport.Zoom).Bounds
	r.mu.Unlock()

	logging.Debug().Str("style", key).Msg("base style changed")
	return style, nil
}

// BaseStyle returns the active base style.
func (r *Registry) BaseStyle() BaseStyle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return baseStyles[r.styleKey]
}

// BaseStyles lists the selectable styles, active first is not guaranteed.
func (r *Registry) BaseStyles() []BaseStyle {
	out := make([]BaseStyle, 0, len(baseStyles))
	for _, key := range []string{"streets", "satellite", "topographic", "shape-only"} {
		out = append(out, baseStyles[key])
	}
	return out
}

// SetZoom records the client's zoom, clamped to the configured range.
func (r *Registry) SetZoom(zoom int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.viewport.Zoom = r.clampZoom(zoom, r.cfg.MaxZoom)
}

// ResetView re-clamps the viewport to the configured bounds plus padding and
// caps the zoom at the reset ceiling, regardless of prior pan/zoom state.
func (r *Registry) ResetView() Viewport {
	r.mu.Lock()
	defer r.mu.Unlock()

	zoom := r.viewport.Zoom
	if zoom > r.cfg.ResetMaxZoom {
		zoom = r.cfg.ResetMaxZoom
	}
	r.viewport = r.clampedViewport(zoom)
	return r.viewport
}

// Viewport returns the current viewport.
func (r *Registry) Viewport() Viewport {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.viewport
}

// Snapshot returns the full presentation state for rendering.
func (r *Registry) Snapshot() State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	visible := make(map[Name]bool, len(r.visible))
	for name, v := range r.visible {
		visible[name] = v
	}

	counts := map[Name]int{
		LayerSites:       len(r.sites),
		LayerInstruments: len(r.instruments),
	}
	for name, layer := range r.boundaries {
		counts[name] = layer.Count
	}

	return State{
		Visible:   visible,
		Counts:    counts,
		BaseStyle: baseStyles[r.styleKey],
		Viewport:  r.viewport,
	}
}

// clampedViewport returns the padded configured bounds with the given zoom
// clamped to the configured range.
func (r *Registry) clampedViewport(zoom int) Viewport {
	pad := r.cfg.ResetPadding
	return Viewport{
		Bounds: [2][2]float64{
			{r.cfg.BoundsSouth - pad, r.cfg.BoundsWest - pad},
			{r.cfg.BoundsNorth + pad, r.cfg.BoundsEast + pad},
		},
		Zoom: r.clampZoom(zoom, r.cfg.MaxZoom),
	}
}

func (r *Registry) clampZoom(zoom, ceiling int) int {
	if zoom < r.cfg.MinZoom {
		return r.cfg.MinZoom
	}
	if zoom > ceiling {
		return ceiling
	}
	return zoom
}
