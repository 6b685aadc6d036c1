// Field Atlas - India Field Site and Instrument Map
// Copyright 2026 Field Atlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldatlas/fieldatlas

package catalog

import (
	"bytes"

	"github.com/goccy/go-json"

	"github.com/fieldatlas/fieldatlas/internal/logging"
)

// Format tags the wire shape a projects payload arrived in. Exactly three
// shapes exist upstream; everything else is treated as empty data, not an
// error, so the map keeps working without markers.
type Format string

const (
	// FormatNested is an array of projects with sites and their
	// instrument_assignments nested inside.
	FormatNested Format = "nested"

	// FormatFlat is a top-level {sites, instruments} object whose
	// instruments reference sites by a site_id foreign key.
	FormatFlat Format = "flat"

	// FormatUnknown matches neither known shape.
	FormatUnknown Format = "unknown"
)

// wireSite tolerates the field-name drift between shapes: nested payloads
// say site_name, flat payloads sometimes say name.
type wireSite struct {
	ID          int64      `json:"id"`
	SiteName    string     `json:"site_name"`
	AltName     string     `json:"name"`
	Place       string     `json:"place"`
	Latitude    Coordinate `json:"latitude"`
	Longitude   Coordinate `json:"longitude"`
	Icon        string     `json:"icon"`
	Banner      string     `json:"banner"`
	Gallery     Gallery    `json:"gallery"`
	Description string     `json:"description"`
	CreatedAt   string     `json:"created_at"`
	UpdatedAt   string     `json:"updated_at"`

	Assignments []*wireAssignment `json:"instrument_assignments"`

	// Flat-shape grouping hints.
	ProjectID   int64  `json:"project_id"`
	ProjectName string `json:"project_name"`
}

func (w *wireSite) name() string {
	if w.SiteName != "" {
		return w.SiteName
	}
	return w.AltName
}

// wireAssignment carries the assignment record plus the optional embedded
// instrument definition some payloads attach.
type wireAssignment struct {
	ID                 int64  `json:"id"`
	InstrumentName     string `json:"instrument_name"`
	AltName            string `json:"name"`
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

	// SiteID is the flat-shape foreign key.
	SiteID int64 `json:"site_id"`

	Instrument *struct {
		Name           string `json:"name"`
		Description    string `json:"description"`
		Icon           string `json:"icon"`
		Specifications string `json:"specifications"`
	} `json:"instrument"`
}

type wireProject struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Sites       []*wireSite `json:"sites"`
}

type flatPayload struct {
	Sites       []*wireSite       `json:"sites"`
	Instruments []*wireAssignment `json:"instruments"`
}

// DetectFormat inspects a raw payload and tags its wire shape without fully
// decoding it. A JSON array is the nested shape; an object with a "sites"
// key is the flat shape; anything else is unknown.
func DetectFormat(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return FormatUnknown
	}

	switch trimmed[0] {
	case '[':
		return FormatNested
	case '{':
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return FormatUnknown
		}
		if _, ok := probe["sites"]; ok {
			return FormatFlat
		}
		return FormatUnknown
	default:
		return FormatUnknown
	}
}

// Normalize resolves a raw payload into the internal catalog model. It never
// fails: malformed or unrecognized payloads produce an empty catalog so the
// UI continues functioning without markers.
func Normalize(data []byte) *Catalog {
	format := DetectFormat(data)

	switch format {
	case FormatNested:
		var projects []*wireProject
		if err := json.Unmarshal(bytes.TrimSpace(data), &projects); err != nil {
			logging.Warn().Err(err).Msg("nested projects payload failed to decode, treating as empty")
			return emptyCatalog()
		}
		return normalizeNested(projects)

	case FormatFlat:
		var payload flatPayload
		if err := json.Unmarshal(bytes.TrimSpace(data), &payload); err != nil {
			logging.Warn().Err(err).Msg("flat projects payload failed to decode, treating as empty")
			return emptyCatalog()
		}
		return normalizeFlat(&payload)

	default:
		return emptyCatalog()
	}
}

func emptyCatalog() *Catalog {
	return &Catalog{Projects: []*Project{}, Format: FormatUnknown}
}

// normalizeNested maps the nested wire shape and attaches back-references.
func normalizeNested(wire []*wireProject) *Catalog {
	c := &Catalog{Projects: make([]*Project, 0, len(wire)), Format: FormatNested}

	for _, wp := range wire {
		if wp == nil {
			continue
		}
		project := &Project{
			ID:          wp.ID,
			Name:        wp.Name,
			Description: wp.Description,
		}
		for _, ws := range wp.Sites {
			if ws == nil {
				continue
			}
			site := buildSite(ws, project)
			for _, wa := range ws.Assignments {
				if wa == nil {
					continue
				}
				site.Assignments = append(site.Assignments, buildAssignment(wa, site))
				c.InstrumentCount++
			}
			project.Sites = append(project.Sites, site)
			c.SiteCount++
		}
		c.Projects = append(c.Projects, project)
	}
	return c
}

// normalizeFlat regroups a flat {sites, instruments} payload under sites by
// the site_id foreign key, then groups sites into projects by the optional
// project hints on each site. Instruments pointing at an unknown site are
// dropped with a log line; the rest of the batch proceeds.
func normalizeFlat(payload *flatPayload) *Catalog {
	c := &Catalog{Format: FormatFlat}

	siteByID := make(map[int64]*Site, len(payload.Sites))
	projectByID := make(map[int64]*Project)

	for _, ws := range payload.Sites {
		if ws == nil {
			continue
		}
		project, ok := projectByID[ws.ProjectID]
		if !ok {
			project = &Project{ID: ws.ProjectID, Name: ws.ProjectName}
			if project.Name == "" {
				project.Name = "Projects"
			}
			projectByID[ws.ProjectID] = project
			c.Projects = append(c.Projects, project)
		}

		site := buildSite(ws, project)
		project.Sites = append(project.Sites, site)
		siteByID[site.ID] = site
		c.SiteCount++
	}

	for _, wa := range payload.Instruments {
		if wa == nil {
			continue
		}
		site, ok := siteByID[wa.SiteID]
		if !ok {
			logging.Warn().Int64("site_id", wa.SiteID).Int64("assignment_id", wa.ID).
				Msg("instrument references unknown site, dropped")
			continue
		}
		site.Assignments = append(site.Assignments, buildAssignment(wa, site))
		c.InstrumentCount++
	}

	return c
}

func buildSite(ws *wireSite, project *Project) *Site {
	return &Site{
		ID:          ws.ID,
		Name:        ws.name(),
		Place:       ws.Place,
		Latitude:    ws.Latitude,
		Longitude:   ws.Longitude,
		Icon:        ws.Icon,
		Banner:      ws.Banner,
		Gallery:     ws.Gallery,
		Description: ws.Description,
		CreatedAt:   ws.CreatedAt,
		UpdatedAt:   ws.UpdatedAt,
		Project:     project,
	}
}

func buildAssignment(wa *wireAssignment, site *Site) *InstrumentAssignment {
	a := &InstrumentAssignment{
		ID:                 wa.ID,
		Name:               wa.InstrumentName,
		Status:             wa.Status,
		Icon:               wa.Icon,
		Address:            wa.Address,
		Variables:          wa.Variables,
		MeasurementType:    wa.MeasurementType,
		TemporalResolution: wa.TemporalResolution,
		Units:              wa.Units,
		AssignedOn:         wa.AssignedOn,
		PurchasedOn:        wa.PurchasedOn,
		MaintainedOn:       wa.MaintainedOn,
		Description:        wa.Description,
		Specifications:     wa.Specifications,
		Site:               site,
	}

	// The embedded instrument definition fills gaps, never overrides the
	// assignment's own fields.
	if wa.Instrument != nil {
		if a.Name == "" {
			a.Name = wa.Instrument.Name
		}
		if a.Icon == "" {
			a.Icon = wa.Instrument.Icon
		}
		if a.Description == "" {
			a.Description = wa.Instrument.Description
		}
		if a.Specifications == "" {
			a.Specifications = wa.Instrument.Specifications
		}
	}
	if a.Name == "" {
		a.Name = wa.AltName
	}
	return a
}
