// Field Atlas - India Field Site and Instrument Map
// Copyright 2026 Field Atlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldatlas/fieldatlas

package boundary

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/fieldatlas/fieldatlas/internal/geojson"
)

func keralaFeature() geojson.BoundaryFeature {
	return geojson.BoundaryFeature{
		Name:     "Kerala",
		Country:  "India",
		TypeName: "State",
		ISO:      "IN-KL",
		Geometry: orb.Polygon{{{76, 9}, {77, 9}, {77, 10}, {76, 10}, {76, 9}}},
	}
}

func TestBuildLayerStateStyling(t *testing.T) {
	layer := BuildLayer([]geojson.BoundaryFeature{keralaFeature()}, geojson.LevelState)

	if layer.Level != geojson.LevelState {
		t.Errorf("expected state level, got %s", layer.Level)
	}
	if layer.Count != 1 || len(layer.Features) != 1 {
		t.Fatalf("expected 1 feature, got count=%d len=%d", layer.Count, len(layer.Features))
	}
	if layer.HoverStyle.Weight <= layer.Style.Weight {
		t.Error("hover style must emphasize the stroke over the default style")
	}
	if layer.HoverStyle.FillOpacity <= layer.Style.FillOpacity {
		t.Error("hover style must raise fill opacity")
	}
}

func TestBuildLayerStylesDifferByLevel(t *testing.T) {
	state := BuildLayer(nil, geojson.LevelState)
	district := BuildLayer(nil, geojson.LevelDistrict)

	if state.Style == district.Style {
		t.Error("state and district default styles must be distinguishable")
	}
}

func TestBuildLayerPopupFields(t *testing.T) {
	district := geojson.BoundaryFeature{
		Name:     "Ernakulam",
		Parent:   "Kerala",
		Country:  "India",
		TypeName: "District",
		Geometry: orb.Polygon{{{76.2, 9.9}, {76.4, 9.9}, {76.4, 10.1}, {76.2, 9.9}}},
	}
	layer := BuildLayer([]geojson.BoundaryFeature{district}, geojson.LevelDistrict)

	popup := layer.Features[0].Popup
	if popup.Title != "Ernakulam" || popup.Parent != "Kerala" || popup.TypeName != "District" || popup.Country != "India" {
		t.Errorf("unexpected district popup: %+v", popup)
	}

	stateLayer := BuildLayer([]geojson.BoundaryFeature{keralaFeature()}, geojson.LevelState)
	if stateLayer.Features[0].Popup.Parent != "" {
		t.Error("state popups carry no parent")
	}
}

func TestBuildLayerSubstitutesMissingProperties(t *testing.T) {
	bare := geojson.BoundaryFeature{
		Geometry: orb.Polygon{{{70, 20}, {71, 20}, {71, 21}, {70, 20}}},
	}
	layer := BuildLayer([]geojson.BoundaryFeature{bare}, geojson.LevelDistrict)

	popup := layer.Features[0].Popup
	if popup.Title != geojson.UnknownName {
		t.Errorf("expected %q title, got %q", geojson.UnknownName, popup.Title)
	}
	if popup.Parent != geojson.UnknownName {
		t.Errorf("expected %q parent, got %q", geojson.UnknownName, popup.Parent)
	}
	if popup.Country != geojson.DefaultCountry {
		t.Errorf("expected %q country, got %q", geojson.DefaultCountry, popup.Country)
	}
}

func TestBuildLayerBoundsAreLatLon(t *testing.T) {
	layer := BuildLayer([]geojson.BoundaryFeature{keralaFeature()}, geojson.LevelState)

	b := layer.Features[0].Bounds
	// Geometry spans lon [76, 77], lat [9, 10]; bounds are ((south, west), (north, east)).
	if b[0] != [2]float64{9, 76} {
		t.Errorf("unexpected southwest corner: %v", b[0])
	}
	if b[1] != [2]float64{10, 77} {
		t.Errorf("unexpected northeast corner: %v", b[1])
	}
}
