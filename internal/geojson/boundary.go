// Field Atlas - India Field Site and Instrument Map
// Copyright 2026 Field Atlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldatlas/fieldatlas

// Package geojson decodes the administrative boundary FeatureCollections
// produced by the shapefile converter and exposes them as typed boundary
// features.
//
// The converter emits GADM-style properties: states carry NAME_0 (country),
// NAME_1 (state name), ENGTYPE_1 and an optional ISO code; districts carry
// NAME_0, NAME_1 (parent state), NAME_2 (district name) and ENGTYPE_2.
// Coordinates are EPSG:4326 decimal degrees in (lon, lat) order.
package geojson

import (
	"fmt"

	"github.com/paulmach/orb"
	orbgeojson "github.com/paulmach/orb/geojson"
)

// Level distinguishes the two administrative boundary levels.
type Level string

const (
	// LevelState is the state / union territory level (IND_WHOLE).
	LevelState Level = "state"

	// LevelDistrict is the district level (IND_adm2).
	LevelDistrict Level = "district"
)

// Property defaults substituted when the converter output lacks a field.
// Rendering never fails on missing attribution.
const (
	UnknownName    = "Unknown"
	DefaultCountry = "India"
)

// BoundaryFeature is one administrative region. Immutable once decoded.
type BoundaryFeature struct {
	// Name is the region's own name (NAME_1 for states, NAME_2 for districts).
	Name string

	// Parent is the enclosing region's name. Empty for states; the parent
	// state's name (NAME_1) for districts.
	Parent string

	// Country is NAME_0, defaulting to "India".
	Country string

	// TypeName is the English region type (ENGTYPE_1 / ENGTYPE_2),
	// defaulting to "Unknown".
	TypeName string

	// ISO is the optional ISO code carried by some state features.
	ISO string

	// Geometry is a Polygon or MultiPolygon in (lon, lat) order.
	Geometry orb.Geometry
}

// Bound returns the feature's bounding box.
func (f *BoundaryFeature) Bound() orb.Bound {
	return f.Geometry.Bound()
}

// OuterRings returns the outer ring of every polygon in the feature:
// one ring for a Polygon, one per part for a MultiPolygon. Holes in the
// source geometry are not returned; only outer rings participate in
// masking and bounds work.
func (f *BoundaryFeature) OuterRings() []orb.Ring {
	return OuterRings(f.Geometry)
}

// OuterRings extracts outer rings from a Polygon or MultiPolygon geometry.
// Any other geometry type yields nil.
func OuterRings(g orb.Geometry) []orb.Ring {
	switch geom := g.(type) {
	case orb.Polygon:
		if len(geom) == 0 {
			return nil
		}
		return []orb.Ring{geom[0]}
	case orb.MultiPolygon:
		rings := make([]orb.Ring, 0, len(geom))
		for _, poly := range geom {
			if len(poly) > 0 {
				rings = append(rings, poly[0])
			}
		}
		return rings
	default:
		return nil
	}
}

// DecodeBoundaries parses a GeoJSON FeatureCollection into boundary features
// for the given level. Features whose geometry is neither Polygon nor
// MultiPolygon are dropped; missing name properties are substituted, never
// fatal.
func DecodeBoundaries(data []byte, level Level) ([]BoundaryFeature, error) {
	fc, err := orbgeojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s boundaries: %w", level, err)
	}

	features := make([]BoundaryFeature, 0, len(fc.Features))
	for _, feat := range fc.Features {
		switch feat.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
		default:
			continue
		}

		bf := BoundaryFeature{
			Country:  stringProp(feat, "NAME_0", DefaultCountry),
			Geometry: feat.Geometry,
		}
		switch level {
		case LevelDistrict:
			bf.Name = stringProp(feat, "NAME_2", UnknownName)
			bf.Parent = stringProp(feat, "NAME_1", UnknownName)
			bf.TypeName = stringProp(feat, "ENGTYPE_2", UnknownName)
		default:
			bf.Name = stringProp(feat, "NAME_1", UnknownName)
			bf.TypeName = stringProp(feat, "ENGTYPE_1", UnknownName)
			bf.ISO = stringProp(feat, "ISO", "")
		}
		features = append(features, bf)
	}
	return features, nil
}

// stringProp reads a string property with a default for absent or
// non-string values.
func stringProp(feat *orbgeojson.Feature, key, fallback string) string {
	if value, ok := feat.Properties[key].(string); ok && value != "" {
		return value
	}
	return fallback
}
