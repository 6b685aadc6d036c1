// Field Atlas - India Field Site and Instrument Map
// Copyright 2026 Field Atlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldatlas/fieldatlas

package mask

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/fieldatlas/fieldatlas/internal/geojson"
)

func polygonFeature(ring orb.Ring) geojson.BoundaryFeature {
	return geojson.BoundaryFeature{Name: "poly", Geometry: orb.Polygon{ring}}
}

func TestBuildHoleCountMatchesRingCount(t *testing.T) {
	// One Polygon (1 ring) + one 3-part MultiPolygon (3 rings) = 4 holes.
	features := []geojson.BoundaryFeature{
		polygonFeature(orb.Ring{{76, 9}, {77, 9}, {77, 10}, {76, 9}}),
		{
			Name: "multi",
			Geometry: orb.MultiPolygon{
				{{{78, 10}, {79, 10}, {79, 11}, {78, 10}}},
				{{{79.5, 9}, {79.8, 9}, {79.8, 9.3}, {79.5, 9}}},
				{{{93, 7}, {94, 7}, {94, 8}, {93, 7}}},
			},
		},
	}

	m := Build(features)
	if len(m.Holes) != 4 {
		t.Errorf("expected 4 holes (1 Polygon ring + 3 MultiPolygon rings), got %d", len(m.Holes))
	}
}

func TestBuildSwapsCoordinateOrder(t *testing.T) {
	// Input ring is (lon, lat); holes must come out (lat, lon).
	m := Build([]geojson.BoundaryFeature{
		polygonFeature(orb.Ring{{77.2, 28.6}, {77.3, 28.6}, {77.3, 28.7}, {77.2, 28.6}}),
	})

	if len(m.Holes) != 1 {
		t.Fatalf("expected 1 hole, got %d", len(m.Holes))
	}
	first := m.Holes[0][0]
	if first[0] != 28.6 || first[1] != 77.2 {
		t.Errorf("expected swapped (lat, lon) = (28.6, 77.2), got (%v, %v)", first[0], first[1])
	}
}

func TestBuildOuterRingCoversWorld(t *testing.T) {
	m := Build(nil)
	if len(m.Outer) != 5 {
		t.Fatalf("expected closed 5-point world ring, got %d points", len(m.Outer))
	}
	if m.Outer[0] != m.Outer[len(m.Outer)-1] {
		t.Error("world ring must be closed")
	}
	for _, pt := range m.Outer {
		if pt[0] < -90 || pt[0] > 90 {
			t.Errorf("world ring latitude out of range: %v", pt[0])
		}
	}
}

func TestBuildIgnoresHolesInSourcePolygons(t *testing.T) {
	withHole := geojson.BoundaryFeature{
		Name: "holed",
		Geometry: orb.Polygon{
			{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}},
			{{1, 1}, {2, 1}, {2, 2}, {1, 2}, {1, 1}},
		},
	}
	m := Build([]geojson.BoundaryFeature{withHole})
	if len(m.Holes) != 1 {
		t.Errorf("only the outer ring becomes a hole; got %d holes", len(m.Holes))
	}
}

func TestBuilderAtomicReplacement(t *testing.T) {
	b := NewBuilder()
	if b.Current() != nil {
		t.Fatal("fresh builder should have no mask")
	}

	first := b.Rebuild([]geojson.BoundaryFeature{
		polygonFeature(orb.Ring{{76, 9}, {77, 9}, {77, 10}, {76, 9}}),
	})
	if b.Current() != first {
		t.Error("Current should return the rebuilt mask")
	}

	second := b.Rebuild([]geojson.BoundaryFeature{
		polygonFeature(orb.Ring{{70, 20}, {71, 20}, {71, 21}, {70, 20}}),
		polygonFeature(orb.Ring{{72, 22}, {73, 22}, {73, 23}, {72, 22}}),
	})
	got := b.Current()
	if got != second {
		t.Error("rebuild must replace the mask instance wholesale")
	}
	if len(got.Holes) != 2 {
		t.Errorf("expected 2 holes after rebuild, got %d", len(got.Holes))
	}
}
