// Field Atlas - India Field Site and Instrument Map
// Copyright 2026 Field Atlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldatlas/fieldatlas

// Package modal builds the detail-panel view models for sites and
// instruments. Every Show call returns a fresh, fully-populated view model:
// missing optional fields render a stable placeholder so the panel layout
// never shifts between records, and nothing from a prior record can leak
// through.
package modal

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/fieldatlas/fieldatlas/internal/catalog"
)

// NotSpecified is the placeholder rendered for absent optional fields.
const NotSpecified = "Not specified"

// GallerySection is the thumbnail strip. An empty gallery hides the section
// entirely rather than rendering an empty strip.
type GallerySection struct {
	Visible    bool     `json:"visible"`
	Thumbnails []string `json:"thumbnails,omitempty"`
}

// SiteView is the rendered detail panel for one site.
type SiteView struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	ProjectName string `json:"project_name"`
	Place       string `json:"place"`

	Coordinates string `json:"coordinates"`
	// MapsLink is a map-search deep link for the coordinates, empty when the
	// site has none.
	MapsLink string `json:"maps_link,omitempty"`

	Description     string         `json:"description"`
	Banner          string         `json:"banner,omitempty"`
	Gallery         GallerySection `json:"gallery"`
	InstrumentCount int            `json:"instrument_count"`
	CreatedAt       string         `json:"created_at"`
	UpdatedAt       string         `json:"updated_at"`
}

// InstrumentView is the rendered detail panel for one instrument
// assignment, including its owning site and project for context.
type InstrumentView struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Status      string `json:"status"`
	SiteName    string `json:"site_name"`
	ProjectName string `json:"project_name"`
	Place       string `json:"place"`

	Coordinates string `json:"coordinates"`
	MapsLink    string `json:"maps_link,omitempty"`

	Address            string `json:"address"`
	Variables          string `json:"variables"`
	MeasurementType    string `json:"measurement_type"`
	TemporalResolution string `json:"temporal_resolution"`
	Units              string `json:"units"`
	AssignedOn         string `json:"date_of_assignment"`
	PurchasedOn        string `json:"purchase_date"`
	MaintainedOn       string `json:"maintenance_date"`
	Description        string `json:"description"`
	Specifications     string `json:"specifications"`
}

// ShowSite builds the site detail view. The project parameter supplies
// ownership context and may be nil when unknown.
func ShowSite(site *catalog.Site, project *catalog.Project) *SiteView {
	if site == nil {
		return nil
	}
	if project == nil {
		project = site.Project
	}

	view := &SiteView{
		Kind:            "site",
		Title:           orPlaceholder(site.Name),
		ProjectName:     NotSpecified,
		Place:           orPlaceholder(site.Place),
		Coordinates:     coordinates(site),
		MapsLink:        mapsLink(site),
		Description:     orPlaceholder(site.Description),
		Banner:          site.Banner,
		Gallery:         gallerySection(site.Gallery),
		InstrumentCount: len(site.Assignments),
		CreatedAt:       orPlaceholder(site.CreatedAt),
		UpdatedAt:       orPlaceholder(site.UpdatedAt),
	}
	if project != nil && project.Name != "" {
		view.ProjectName = project.Name
	}
	return view
}

// ShowInstrument builds the instrument detail view with owning site and
// project context resolved from the assignment's back-references.
func ShowInstrument(a *catalog.InstrumentAssignment) *InstrumentView {
	if a == nil {
		return nil
	}

	view := &InstrumentView{
		Kind:               "instrument",
		Title:              orPlaceholder(a.Name),
		Status:             orPlaceholder(a.Status),
		SiteName:           NotSpecified,
		ProjectName:        NotSpecified,
		Place:              NotSpecified,
		Coordinates:        NotSpecified,
		Address:            orPlaceholder(a.Address),
		Variables:          orPlaceholder(a.Variables),
		MeasurementType:    orPlaceholder(a.MeasurementType),
		TemporalResolution: orPlaceholder(a.TemporalResolution),
		Units:              NotSpecified,
		AssignedOn:         orPlaceholder(a.AssignedOn),
		PurchasedOn:        orPlaceholder(a.PurchasedOn),
		MaintainedOn:       orPlaceholder(a.MaintainedOn),
		Description:        orPlaceholder(a.Description),
		Specifications:     orPlaceholder(a.Specifications),
	}
	if a.Units > 0 {
		view.Units = strconv.Itoa(a.Units)
	}

	if site := a.Site; site != nil {
		view.SiteName = orPlaceholder(site.Name)
		view.Place = orPlaceholder(site.Place)
		view.Coordinates = coordinates(site)
		view.MapsLink = mapsLink(site)
		if site.Project != nil && site.Project.Name != "" {
			view.ProjectName = site.Project.Name
		}
	}
	return view
}

// coordinates formats a site's position, or the placeholder when it has no
// usable pair.
func coordinates(site *catalog.Site) string {
	if !site.Latitude.Valid || !site.Longitude.Valid {
		return NotSpecified
	}
	return fmt.Sprintf("%.4f, %.4f", site.Latitude.Value, site.Longitude.Value)
}

// mapsLink builds a map-search deep link for a site's coordinates.
func mapsLink(site *catalog.Site) string {
	if !site.Latitude.Valid || !site.Longitude.Valid {
		return ""
	}
	query := fmt.Sprintf("%f,%f", site.Latitude.Value, site.Longitude.Value)
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(query)
}

// gallerySection normalizes a gallery into the thumbnail strip. The legacy
// string form has already been split during decoding; here both forms are a
// plain ordered slice.
func gallerySection(g catalog.Gallery) GallerySection {
	if len(g) == 0 {
		return GallerySection{Visible: false}
	}
	thumbnails := make([]string, len(g))
	copy(thumbnails, g)
	return GallerySection{Visible: true, Thumbnails: thumbnails}
}

func orPlaceholder(s string) string {
	if s == "" {
		return NotSpecified
	}
	return s
}
