// Field Atlas - India Field Site and Instrument Map
// Copyright 2026 Field Atlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldatlas/fieldatlas

// Package controller wires the map together: one MapController owns the data
// source, the layer registry, the mask builder, and the modal dispatch, and
// sequences them so the viewport is usable before any data arrives.
package controller

import (
	"context"
	"fmt"
	"sync"

	"github.com/fieldatlas/fieldatlas/internal/catalog"
	"github.com/fieldatlas/fieldatlas/internal/config"
	"github.com/fieldatlas/fieldatlas/internal/geojson"
	"github.com/fieldatlas/fieldatlas/internal/layers"
	"github.com/fieldatlas/fieldatlas/internal/logging"
	"github.com/fieldatlas/fieldatlas/internal/markers"
	"github.com/fieldatlas/fieldatlas/internal/mask"
	"github.com/fieldatlas/fieldatlas/internal/modal"
)

// Notifier receives push events for connected clients. The websocket hub
// implements it; a nil notifier is valid and drops events.
type Notifier interface {
	Publish(event string, payload any)
}

// MapController is the single orchestrator constructed at startup. Event
// handlers receive it by reference; there are no ambient globals.
//
// Thread Safety: safe for concurrent use.
type MapController struct {
	cfg      *config.Config
	source   *catalog.Source
	registry *layers.Registry
	masker   *mask.Builder
	notifier Notifier

	mu      sync.RWMutex
	catalog *catalog.Catalog
}

// New creates a controller over an already-constructed source and registry.
// The registry's viewport is live immediately; data loads happen in
// Initialize.
func New(cfg *config.Config, source *catalog.Source, registry *layers.Registry, notifier Notifier) *MapController {
	c := &MapController{
		cfg:      cfg,
		source:   source,
		registry: registry,
		masker:   mask.NewBuilder(),
		notifier: notifier,
	}
	source.OnStatusChange(func(status catalog.Status) {
		c.publish("source_status", map[string]string{"status": string(status)})
	})
	return c
}

// Initialize brings the map up: the viewport first, then boundary and
// project data fetched concurrently. A failure in either fetch degrades its
// own feature area only; the map stays usable throughout, so Initialize
// itself never fails.
func (c *MapController) Initialize(ctx context.Context) {
	// Default layer set. Districts stay off until toggled; their data loads
	// lazily at that point.
	for _, name := range []layers.Name{layers.LayerSites, layers.LayerInstruments} {
		if _, err := c.registry.Toggle(ctx, name, true); err != nil {
			logging.Warn().Err(err).Str("layer", string(name)).Msg("initial layer enable failed")
		}
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		c.loadBoundaries(ctx)
	}()
	go func() {
		defer wg.Done()
		c.loadProjects(ctx)
	}()

	wg.Wait()
	c.publishState()
}

// loadBoundaries enables the state layer and rebuilds the mask from its
// features. Boundary failure leaves the base map usable without outlines.
func (c *MapController) loadBoundaries(ctx context.Context) {
	if _, err := c.registry.Toggle(ctx, layers.LayerStates, true); err != nil {
		logging.Error().Err(err).Msg("state boundary load failed, map shown without outlines")
		return
	}

	features, err := c.source.FetchBoundaries(ctx, geojson.LevelState)
	if err != nil {
		logging.Error().Err(err).Msg("state boundaries unavailable for mask")
		return
	}
	m := c.masker.Rebuild(features)
	c.publish("mask", map[string]int{"holes": len(m.Holes)})
}

// loadProjects fetches project data and rebuilds the marker sets. Failure
// means no markers, never a dead map.
func (c *MapController) loadProjects(ctx context.Context) {
	cat, err := c.source.FetchProjects(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("project data unavailable, map shown without markers")
		c.registry.SetMarkers(nil, nil)
		return
	}

	sites, instruments := markers.BuildAll(cat)
	c.registry.SetMarkers(sites, instruments)

	c.mu.Lock()
	c.catalog = cat
	c.mu.Unlock()
}

// Refresh invalidates the snapshot cache and reloads everything.
func (c *MapController) Refresh(ctx context.Context) {
	c.source.InvalidateCache()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); c.loadBoundaries(ctx) }()
	go func() { defer wg.Done(); c.loadProjects(ctx) }()
	wg.Wait()
	c.publishState()
}

// Toggle changes a layer's visibility through the registry and pushes the
// new state to connected clients.
func (c *MapController) Toggle(ctx context.Context, name layers.Name, visible bool) error {
	changed, err := c.registry.Toggle(ctx, name, visible)
	if err != nil {
		return err
	}
	if changed {
		c.publishState()
	}
	return nil
}

// SetBaseStyle switches the base tile style.
func (c *MapController) SetBaseStyle(key string) (layers.BaseStyle, error) {
	style, err := c.registry.SetBaseStyle(key)
	if err != nil {
		return layers.BaseStyle{}, err
	}
	c.publishState()
	return style, nil
}

// ResetView re-clamps the viewport.
func (c *MapController) ResetView() layers.Viewport {
	vp := c.registry.ResetView()
	c.publishState()
	return vp
}

// Dispatch resolves a marker click command to its modal view. The marker
// carries only a kind and an identifier; the record is looked up here.
func (c *MapController) Dispatch(click markers.Click) (any, error) {
	c.mu.RLock()
	cat := c.catalog
	c.mu.RUnlock()

	if cat == nil {
		return nil, fmt.Errorf("no project data loaded")
	}

	switch click.Kind {
	case markers.KindSite:
		site := cat.SiteByID(click.ID)
		if site == nil {
			return nil, fmt.Errorf("unknown site %d", click.ID)
		}
		return modal.ShowSite(site, site.Project), nil

	case markers.KindInstrument:
		a := cat.AssignmentByID(click.ID)
		if a == nil {
			return nil, fmt.Errorf("unknown instrument assignment %d", click.ID)
		}
		return modal.ShowInstrument(a), nil

	default:
		return nil, fmt.Errorf("unknown marker kind %q", click.Kind)
	}
}

// Registry exposes the layer registry for the HTTP surface.
func (c *MapController) Registry() *layers.Registry {
	return c.registry
}

// Source exposes the data source for the HTTP surface.
func (c *MapController) Source() *catalog.Source {
	return c.source
}

// Mask returns the current inverse-country polygon, or nil before the first
// boundary load.
func (c *MapController) Mask() *mask.Mask {
	return c.masker.Current()
}

func (c *MapController) publish(event string, payload any) {
	if c.notifier != nil {
		c.notifier.Publish(event, payload)
	}
}

func (c *MapController) publishState() {
	c.publish("map_state", c.registry.Snapshot())
}
