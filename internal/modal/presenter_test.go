// Field Atlas - India Field Site and Instrument Map
// Copyright 2026 Field Atlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldatlas/fieldatlas

package modal

import (
	"strings"
	"testing"

	"github.com/fieldatlas/fieldatlas/internal/catalog"
)

func fullSite() *catalog.Site {
	return &catalog.Site{
		ID:          1,
		Name:        "Haridwar Station",
		Place:       "Haridwar, Uttarakhand",
		Latitude:    catalog.Coordinate{Value: 29.9457, Valid: true},
		Longitude:   catalog.Coordinate{Value: 78.1642, Valid: true},
		Gallery:     catalog.Gallery{"a.jpg", "b.jpg"},
		Description: "River gauging station",
		Project:     &catalog.Project{ID: 3, Name: "Hydrology Research Ganga"},
		Assignments: []*catalog.InstrumentAssignment{{ID: 7}, {ID: 8}},
	}
}

func TestShowSitePopulatesAllFields(t *testing.T) {
	view := ShowSite(fullSite(), nil)

	if view.Title != "Haridwar Station" {
		t.Errorf("title: %q", view.Title)
	}
	if view.ProjectName != "Hydrology Research Ganga" {
		t.Errorf("project name must resolve via the back-reference: %q", view.ProjectName)
	}
	if view.Coordinates != "29.9457, 78.1642" {
		t.Errorf("coordinates: %q", view.Coordinates)
	}
	if !strings.Contains(view.MapsLink, "29.9457") {
		t.Errorf("maps link must embed the coordinates: %q", view.MapsLink)
	}
	if view.InstrumentCount != 2 {
		t.Errorf("instrument count: %d", view.InstrumentCount)
	}
	if !view.Gallery.Visible || len(view.Gallery.Thumbnails) != 2 {
		t.Errorf("gallery: %+v", view.Gallery)
	}
}

func TestShowSiteMissingFieldsRenderPlaceholder(t *testing.T) {
	view := ShowSite(&catalog.Site{ID: 2}, nil)

	for field, got := range map[string]string{
		"title":       view.Title,
		"place":       view.Place,
		"description": view.Description,
		"coordinates": view.Coordinates,
		"project":     view.ProjectName,
		"created":     view.CreatedAt,
	} {
		if got != NotSpecified {
			t.Errorf("%s must render %q for an absent value, got %q", field, NotSpecified, got)
		}
	}
	if view.MapsLink != "" {
		t.Errorf("a site without coordinates gets no maps link, got %q", view.MapsLink)
	}
}

func TestShowSiteEmptyGalleryHidesSection(t *testing.T) {
	view := ShowSite(&catalog.Site{ID: 3, Name: "Bare"}, nil)
	if view.Gallery.Visible || len(view.Gallery.Thumbnails) != 0 {
		t.Errorf("empty gallery must hide the section: %+v", view.Gallery)
	}
}

func TestGalleryFormsRenderSameThumbnailSet(t *testing.T) {
	fromArray := catalog.Normalize([]byte(
		`[{"id": 1, "sites": [{"id": 1, "site_name": "A", "gallery": ["a.jpg", "b.jpg", "c.jpg"]}]}]`,
	)).SiteByID(1)
	fromString := catalog.Normalize([]byte(
		`[{"id": 1, "sites": [{"id": 2, "site_name": "B", "gallery": "a.jpg b.jpg c.jpg"}]}]`,
	)).SiteByID(2)

	a := ShowSite(fromArray, nil).Gallery
	b := ShowSite(fromString, nil).Gallery

	if len(a.Thumbnails) != len(b.Thumbnails) {
		t.Fatalf("thumbnail counts diverged: %d vs %d", len(a.Thumbnails), len(b.Thumbnails))
	}
	for i := range a.Thumbnails {
		if a.Thumbnails[i] != b.Thumbnails[i] {
			t.Errorf("thumbnail order diverged at %d: %q vs %q", i, a.Thumbnails[i], b.Thumbnails[i])
		}
	}
}

func TestShowInstrumentResolvesContext(t *testing.T) {
	site := fullSite()
	a := &catalog.InstrumentAssignment{
		ID:     7,
		Name:   "Water Level Gauge",
		Status: "In Use",
		Units:  3,
		Site:   site,
	}

	view := ShowInstrument(a)
	if view.SiteName != "Haridwar Station" || view.ProjectName != "Hydrology Research Ganga" {
		t.Errorf("owning site/project context missing: %+v", view)
	}
	if view.Units != "3" {
		t.Errorf("units: %q", view.Units)
	}
	if view.Address != NotSpecified || view.Specifications != NotSpecified {
		t.Error("absent optional fields must render the placeholder")
	}
}

func TestShowReturnsFreshViewModels(t *testing.T) {
	site := fullSite()
	first := ShowSite(site, nil)
	first.Title = "mutated"
	first.Gallery.Thumbnails[0] = "mutated.jpg"

	second := ShowSite(site, nil)
	if second.Title == "mutated" {
		t.Error("each Show call must build a fresh view model")
	}
	if second.Gallery.Thumbnails[0] != "a.jpg" {
		t.Error("view models must not share gallery backing storage")
	}
}
