// Field Atlas - India Field Site and Instrument Map
// Copyright 2026 Field Atlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldatlas/fieldatlas

package markers

import (
	"github.com/fieldatlas/fieldatlas/internal/catalog"
	"github.com/fieldatlas/fieldatlas/internal/logging"
	"github.com/fieldatlas/fieldatlas/internal/metrics"
)

// instrumentOffset is the per-index de-overlap delta, in decimal degrees,
// applied to both axes of instruments sharing a site. An approximation, not
// a layout algorithm; dozens of co-located instruments will still crowd.
const instrumentOffset = 0.0005

// Kind distinguishes marker flavors.
type Kind string

const (
	KindSite       Kind = "site"
	KindInstrument Kind = "instrument"
)

// Click is the command a marker carries: a kind and a record identifier the
// dispatcher resolves to a modal call. Markers never capture record state.
type Click struct {
	Kind Kind  `json:"kind"`
	ID   int64 `json:"id"`
}

// Marker is one positioned map marker.
type Marker struct {
	Kind      Kind    `json:"kind"`
	ID        int64   `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Title     string  `json:"title"`

	// IconURL is set when the record supplies a usable image reference;
	// Glyph is the fallback rendering. Exactly one drives the visual.
	IconURL string `json:"icon_url,omitempty"`
	Glyph   string `json:"glyph,omitempty"`

	// Color is the status accent, instrument markers only.
	Color string `json:"color,omitempty"`

	// Pin selects the pin-shaped site rendering over the circular badge.
	Pin bool `json:"pin"`

	Click Click `json:"click"`
}

// BuildSiteMarker produces a pin marker for one site, or nil when the site
// has no usable coordinates. A dropped site is logged and counted, never an
// error: the rest of the batch proceeds.
func BuildSiteMarker(site *catalog.Site) *Marker {
	if site == nil {
		return nil
	}
	if !site.Latitude.Valid || !site.Longitude.Valid {
		logging.Debug().Int64("site_id", site.ID).Str("name", site.Name).
			Msg("site skipped: invalid coordinates")
		metrics.MarkersDropped.WithLabelValues(string(KindSite)).Inc()
		return nil
	}

	m := &Marker{
		Kind:      KindSite,
		ID:        site.ID,
		Latitude:  site.Latitude.Value,
		Longitude: site.Longitude.Value,
		Title:     site.Name,
		Pin:       true,
		Glyph:     defaultGlyph,
		Click:     Click{Kind: KindSite, ID: site.ID},
	}
	if IsIconRef(site.Icon) {
		m.IconURL = site.Icon
		m.Glyph = ""
	}

	metrics.MarkersBuilt.WithLabelValues(string(KindSite)).Inc()
	return m
}

// BuildInstrumentMarker produces a badge marker for one instrument
// assignment at its site's position, offset by index to de-overlap
// co-located instruments. Returns nil when the owning site has no usable
// coordinates.
func BuildInstrumentMarker(a *catalog.InstrumentAssignment, index int) *Marker {
	if a == nil || a.Site == nil {
		return nil
	}
	site := a.Site
	if !site.Latitude.Valid || !site.Longitude.Valid {
		logging.Debug().Int64("assignment_id", a.ID).Str("name", a.Name).
			Msg("instrument skipped: owning site has invalid coordinates")
		metrics.MarkersDropped.WithLabelValues(string(KindInstrument)).Inc()
		return nil
	}

	offset := float64(index) * instrumentOffset
	m := &Marker{
		Kind:      KindInstrument,
		ID:        a.ID,
		Latitude:  site.Latitude.Value + offset,
		Longitude: site.Longitude.Value + offset,
		Title:     a.Name,
		Color:     ColorForStatus(a.Status),
		Click:     Click{Kind: KindInstrument, ID: a.ID},
	}

	// Explicit icon URL always wins; the keyword table is the fallback.
	if IsIconRef(a.Icon) {
		m.IconURL = a.Icon
	} else {
		m.Glyph = GlyphForName(a.Name)
	}

	metrics.MarkersBuilt.WithLabelValues(string(KindInstrument)).Inc()
	return m
}

// BuildAll walks a catalog and produces the full site and instrument marker
// sets in record order. Records without usable coordinates are skipped
// individually.
func BuildAll(c *catalog.Catalog) (sites, instruments []*Marker) {
	for _, site := range c.Sites() {
		if m := BuildSiteMarker(site); m != nil {
			sites = append(sites, m)
		}
		for i, a := range site.Assignments {
			if m := BuildInstrumentMarker(a, i); m != nil {
				instruments = append(instruments, m)
			}
		}
	}
	return sites, instruments
}
