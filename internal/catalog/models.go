// Field Atlas - India Field Site and Instrument Map
// Copyright 2026 Field Atlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldatlas/fieldatlas

// Package catalog owns project/site/instrument data: the upstream API
// client, the demo fallback, wire-format detection, and the normalized
// model every other component consumes. Format branching happens exactly
// once, here; nothing downstream ever inspects wire shapes again.
package catalog

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Coordinate is a decimal-degree latitude or longitude that tolerates the
// upstream's two encodings: a JSON number or a numeric string. Anything
// else (null, empty, text) decodes as invalid rather than erroring, so one
// bad record never aborts a batch.
type Coordinate struct {
	Value float64
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	c.Value, c.Valid = 0, false

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		c.Value, c.Valid = num, true
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		str = strings.TrimSpace(str)
		if str == "" {
			return nil
		}
		if num, err := strconv.ParseFloat(str, 64); err == nil {
			c.Value, c.Valid = num, true
		}
		return nil
	}

	// null or a structurally foreign value: invalid, not an error.
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c Coordinate) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.Value)
}

// Gallery is an ordered list of image URLs. The upstream emits either a
// JSON array or a legacy whitespace-delimited string; both decode to the
// same ordered slice.
type Gallery []string

// UnmarshalJSON implements json.Unmarshaler.
func (g *Gallery) UnmarshalJSON(data []byte) error {
	var urls []string
	if err := json.Unmarshal(data, &urls); err == nil {
		*g = urls
		return nil
	}

	var legacy string
	if err := json.Unmarshal(data, &legacy); err == nil {
		*g = Gallery(strings.Fields(legacy))
		return nil
	}

	*g = nil
	return nil
}

// Project is a named initiative owning an ordered collection of sites.
// Immutable after normalization.
type Project struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Sites       []*Site `json:"sites"`
}

// Site is a physical project location. Latitude/Longitude are required for
// placement; a site missing either is dropped by the marker factory, never
// placed at a default location.
type Site struct {
	ID          int64      `json:"id"`
	Name        string     `json:"site_name"`
	Place       string     `json:"place"`
	Latitude    Coordinate `json:"latitude"`
	Longitude   Coordinate `json:"longitude"`
	Icon        string     `json:"icon"`
	Banner      string     `json:"banner"`
	Gallery     Gallery    `json:"gallery"`
	Description string     `json:"description"`
	CreatedAt   string     `json:"created_at"`
	UpdatedAt   string     `json:"updated_at"`

	Assignments []*InstrumentAssignment `json:"instrument_assignments"`

	// Project is the owning project, attached after normalization.
	// Non-owning back-reference.
	Project *Project `json:"-"`
}

// InstrumentAssignment is an instrument's deployment record at one site.
type InstrumentAssignment struct {
	ID                 int64  `json:"id"`
	Name               string `json:"instrument_name"`
	Status             string `json:"status"`
	Icon               string `json:"icon"`
	Address            string `json:"address"`
	Variables          string `json:"variables"`
	MeasurementType    string `json:"measurement_type"`
	TemporalResolution string `json:"temporal_resolution"`
	Units              int    `json:"units"`
	AssignedOn         string `json:"date_of_assignment"`
	PurchasedOn        string `json:"purchase_date"`
	MaintainedOn       string `json:"maintenance_date"`
	Description        string `json:"description"`
	Specifications     string `json:"specifications"`

	// Site is the owning site, attached after normalization.
	// Non-owning back-reference.
	Site *Site `json:"-"`
}

// Catalog is the normalized result of one projects fetch.
type Catalog struct {
	Projects []*Project `json:"projects"`
	Format   Format     `json:"format"`

	SiteCount       int `json:"site_count"`
	InstrumentCount int `json:"instrument_count"`
}

// Sites returns every site across all projects in project order.
func (c *Catalog) Sites() []*Site {
	var sites []*Site
	for _, p := range c.Projects {
		sites = append(sites, p.Sites...)
	}
	return sites
}

// SiteByID returns the site with the given ID, or nil.
func (c *Catalog) SiteByID(id int64) *Site {
	for _, p := range c.Projects {
		for _, s := range p.Sites {
			if s.ID == id {
				return s
			}
		}
	}
	return nil
}

// AssignmentByID returns the instrument assignment with the given ID, or nil.
func (c *Catalog) AssignmentByID(id int64) *InstrumentAssignment {
	for _, p := range c.Projects {
		for _, s := range p.Sites {
			for _, a := range s.Assignments {
				if a.ID == id {
					return a
				}
			}
		}
	}
	return nil
}
