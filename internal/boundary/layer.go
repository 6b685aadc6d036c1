// Field Atlas - India Field Site and Instrument Map
// Copyright 2026 Field Atlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldatlas/fieldatlas

// Package boundary turns decoded administrative boundary features into the
// interactive layer view-models the map client renders: per-level styling,
// hover emphasis, and click-to-fit popups.
package boundary

import (
	orbgeojson "github.com/paulmach/orb/geojson"

	"github.com/fieldatlas/fieldatlas/internal/geojson"
)

// Style is the subset of vector styling the client applies to a layer.
type Style struct {
	Color       string  `json:"color"`
	Weight      float64 `json:"weight"`
	FillColor   string  `json:"fill_color"`
	FillOpacity float64 `json:"fill_opacity"`
	Opacity     float64 `json:"opacity"`
}

// Popup is the info panel content shown when a feature is clicked.
// Parent is only populated for districts.
type Popup struct {
	Title    string `json:"title"`
	Parent   string `json:"parent,omitempty"`
	TypeName string `json:"type_name"`
	Country  string `json:"country"`
}

// Bounds is the feature's bounding box as ((south, west), (north, east)) in
// (lat, lon) order, ready for a client fit-bounds call.
type Bounds [2][2]float64

// FeatureView is one renderable boundary feature.
type FeatureView struct {
	Name     string               `json:"name"`
	ISO      string               `json:"iso,omitempty"`
	Popup    Popup                `json:"popup"`
	Bounds   Bounds               `json:"bounds"`
	Geometry *orbgeojson.Geometry `json:"geometry"`
}

// Layer is a complete toggleable boundary layer.
type Layer struct {
	Level      geojson.Level `json:"level"`
	Style      Style         `json:"style"`
	HoverStyle Style         `json:"hover_style"`
	Features   []FeatureView `json:"features"`
	Count      int           `json:"count"`
}

// defaultStyle returns the base style for a level. States and districts are
// visually distinguishable by color and stroke weight.
func defaultStyle(level geojson.Level) Style {
	if level == geojson.LevelDistrict {
		return Style{
			Color:       "#e67e22",
			Weight:      1,
			FillColor:   "#f5b041",
			FillOpacity: 0.05,
			Opacity:     0.8,
		}
	}
	return Style{
		Color:       "#2c3e50",
		Weight:      2,
		FillColor:   "#3498db",
		FillOpacity: 0.1,
		Opacity:     1,
	}
}

// hoverStyle derives the mouse-over emphasis from the base style: heavier
// stroke and a stronger fill. Mouse-leave restores the base style.
func hoverStyle(base Style) Style {
	base.Weight += 2
	base.FillOpacity = 0.3
	base.Opacity = 1
	return base
}

// BuildLayer wraps boundary features into a styled interactive layer.
// Missing attribution has already been substituted during decoding
// (Unknown / India); the builder re-applies the defaults so a caller
// constructing features by hand cannot produce an unlabeled popup.
func BuildLayer(features []geojson.BoundaryFeature, level geojson.Level) *Layer {
	base := defaultStyle(level)
	layer := &Layer{
		Level:      level,
		Style:      base,
		HoverStyle: hoverStyle(base),
		Features:   make([]FeatureView, 0, len(features)),
	}

	for i := range features {
		f := &features[i]
		name := orDefault(f.Name, geojson.UnknownName)
		popup := Popup{
			Title:    name,
			TypeName: orDefault(f.TypeName, geojson.UnknownName),
			Country:  orDefault(f.Country, geojson.DefaultCountry),
		}
		if level == geojson.LevelDistrict {
			popup.Parent = orDefault(f.Parent, geojson.UnknownName)
		}

		bound := f.Bound()
		layer.Features = append(layer.Features, FeatureView{
			Name:  name,
			ISO:   f.ISO,
			Popup: popup,
			Bounds: Bounds{
				{bound.Min[1], bound.Min[0]},
				{bound.Max[1], bound.Max[0]},
			},
			Geometry: orbgeojson.NewGeometry(f.Geometry),
		})
	}

	layer.Count = len(layer.Features)
	return layer
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
