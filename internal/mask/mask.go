// Field Atlas - India Field Site and Instrument Map
// Copyright 2026 Field Atlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldatlas/fieldatlas

// Package mask builds the inverse country polygon used to visually crop the
// base map: a world-covering rectangle with one hole per boundary outer ring.
// Rendered with an opaque fill it reads as "India cut out of an opaque
// world", however many disjoint landmasses and islands the boundary data
// contains.
package mask

import (
	"sync/atomic"

	"github.com/fieldatlas/fieldatlas/internal/geojson"
	"github.com/fieldatlas/fieldatlas/internal/logging"
)

// Position is a (lat, lon) pair. Note the order: boundary GeoJSON arrives in
// (lon, lat) order and is swapped here to match the rendering convention.
type Position [2]float64

// Ring is an ordered closed sequence of positions.
type Ring []Position

// Mask is the world rectangle with country-shaped holes. The outer ring is
// always worldRing; Holes carries one swapped ring per boundary outer ring.
type Mask struct {
	Outer Ring   `json:"outer"`
	Holes []Ring `json:"holes"`
}

// worldRing covers the whole map in (lat, lon) order. The ±360 longitude
// span keeps the rectangle closed across wrapped world copies.
func worldRing() Ring {
	return Ring{
		{-90, -360},
		{90, -360},
		{90, 360},
		{-90, 360},
		{-90, -360},
	}
}

// Build derives the mask from state boundary features. Every outer ring of
// every Polygon / MultiPolygon becomes one hole; features carrying other
// geometry types contribute nothing.
func Build(features []geojson.BoundaryFeature) *Mask {
	m := &Mask{Outer: worldRing()}
	for i := range features {
		for _, ring := range features[i].OuterRings() {
			hole := make(Ring, len(ring))
			for j, pt := range ring {
				// orb.Point is (lon, lat); render order is (lat, lon).
				hole[j] = Position{pt[1], pt[0]}
			}
			m.Holes = append(m.Holes, hole)
		}
	}
	return m
}

// Builder owns the current mask and replaces it atomically so readers never
// observe a half-built mask between boundary refreshes.
type Builder struct {
	current atomic.Pointer[Mask]
}

// NewBuilder returns a builder with no mask yet.
func NewBuilder() *Builder {
	return &Builder{}
}

// Rebuild computes a fresh mask from the given features and swaps it in.
// Returns the new mask.
func (b *Builder) Rebuild(features []geojson.BoundaryFeature) *Mask {
	m := Build(features)
	b.current.Store(m)
	logging.Debug().Int("holes", len(m.Holes)).Int("features", len(features)).Msg("mask rebuilt")
	return m
}

// Current returns the active mask, or nil when no boundary data has arrived.
func (b *Builder) Current() *Mask {
	return b.current.Load()
}
