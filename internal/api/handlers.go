// Field Atlas - India Field Site and Instrument Map
// Copyright 2026 Field Atlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldatlas/fieldatlas

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/fieldatlas/fieldatlas/internal/catalog"
	"github.com/fieldatlas/fieldatlas/internal/controller"
	"github.com/fieldatlas/fieldatlas/internal/layers"
	"github.com/fieldatlas/fieldatlas/internal/logging"
	"github.com/fieldatlas/fieldatlas/internal/markers"
)

// Handlers carries the dependencies the HTTP surface needs.
type Handlers struct {
	controller *controller.MapController
}

// NewHandlers creates the handler set over a controller.
func NewHandlers(c *controller.MapController) *Handlers {
	return &Handlers{controller: c}
}

// GetBoundaryGeoJSON serves a raw boundary FeatureCollection. The dataset
// name is checked against a fixed whitelist; these are the verbatim files
// the converter produced, passed through untouched for compatibility with
// existing consumers.
func (h *Handlers) GetBoundaryGeoJSON(w http.ResponseWriter, r *http.Request) {
	dataset := chi.URLParam(r, "dataset")

	data, err := h.controller.Source().BoundaryFileBytes(dataset)
	if err != nil {
		rw := NewResponseWriter(w, r)
		if errors.Is(err, catalog.ErrUnknownDataset) {
			rw.NotFound("unknown boundary dataset: " + dataset)
			return
		}
		logging.Error().Err(err).Str("dataset", dataset).Msg("boundary file read failed")
		rw.InternalError("boundary data unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("failed to write boundary response")
	}
}

// GetProjects serves the normalized project catalog through the live →
// fallback cascade. The payload shape is stable regardless of which wire
// format the upstream produced.
func (h *Handlers) GetProjects(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	cat, err := h.controller.Source().FetchProjects(r.Context())
	if err != nil {
		rw.Error(http.StatusServiceUnavailable, ErrCodeDataUnavailable, "project data unavailable from all sources")
		return
	}

	rw.SuccessWithMeta(cat, &APIMeta{Source: string(h.controller.Source().Status())})
}

// GetDemoProjects serves the static fallback payload directly, bypassing
// the live upstream. Kept for compatibility with the original surface.
func (h *Handlers) GetDemoProjects(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(catalog.DemoCatalog())
}

// GetMetadata serves the converter's dataset metadata document.
func (h *Handlers) GetMetadata(w http.ResponseWriter, r *http.Request) {
	data, err := h.controller.Source().Metadata()
	if err != nil {
		NewResponseWriter(w, r).InternalError("metadata unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("failed to write metadata response")
	}
}

// GetMapState returns the full presentation state plus the data source
// status: everything a client needs to render from scratch.
func (h *Handlers) GetMapState(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	rw.SuccessWithMeta(h.controller.Registry().Snapshot(), &APIMeta{
		Source: string(h.controller.Source().Status()),
	})
}

// toggleRequest is the body of a layer toggle.
type toggleRequest struct {
	Visible bool `json:"visible"`
}

// ToggleLayer flips one layer's visibility. Enabling districts for the
// first time triggers the lazy boundary fetch.
func (h *Handlers) ToggleLayer(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	name := layers.Name(chi.URLParam(r, "name"))

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("invalid toggle request body")
		return
	}

	if err := h.controller.Toggle(r.Context(), name, req.Visible); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	rw.Success(h.controller.Registry().Snapshot())
}

// GetBoundaryLayer returns the styled boundary layer view-model for states
// or districts. A layer that has never been enabled reads as 404 rather
// than triggering a fetch: building is the toggle's job.
func (h *Handlers) GetBoundaryLayer(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	name := layers.Name(chi.URLParam(r, "name"))

	if name != layers.LayerStates && name != layers.LayerDistricts {
		rw.NotFound("no boundary layer named " + string(name))
		return
	}

	layer := h.controller.Registry().BoundaryLayer(name)
	if layer == nil {
		rw.NotFound("layer not built yet; enable it first")
		return
	}
	rw.Success(layer)
}

// styleRequest is the body of a base style change.
type styleRequest struct {
	Style string `json:"style"`
}

// SetStyle switches the base tile style.
func (h *Handlers) SetStyle(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req styleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("invalid style request body")
		return
	}

	if _, err := h.controller.SetBaseStyle(req.Style); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	rw.Success(h.controller.Registry().Snapshot())
}

// ResetView re-clamps the viewport to the configured bounds.
func (h *Handlers) ResetView(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.controller.ResetView())
}

// GetMask returns the current inverse-country polygon.
func (h *Handlers) GetMask(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	m := h.controller.Mask()
	if m == nil {
		rw.ServiceUnavailable("mask not built yet; boundary data has not arrived")
		return
	}
	rw.Success(m)
}

// markersResponse groups the two marker sets.
type markersResponse struct {
	Sites       []*markers.Marker `json:"sites"`
	Instruments []*markers.Marker `json:"instruments"`
}

// GetMarkers returns the current site and instrument markers.
func (h *Handlers) GetMarkers(w http.ResponseWriter, r *http.Request) {
	sites, instruments := h.controller.Registry().Markers()
	if sites == nil {
		sites = []*markers.Marker{}
	}
	if instruments == nil {
		instruments = []*markers.Marker{}
	}
	NewResponseWriter(w, r).SuccessWithMeta(markersResponse{Sites: sites, Instruments: instruments}, &APIMeta{
		Source: string(h.controller.Source().Status()),
	})
}

// Click dispatches a marker command to its modal view-model.
func (h *Handlers) Click(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var click markers.Click
	if err := json.NewDecoder(r.Body).Decode(&click); err != nil {
		rw.BadRequest("invalid click command body")
		return
	}

	view, err := h.controller.Dispatch(click)
	if err != nil {
		rw.NotFound(err.Error())
		return
	}
	rw.Success(view)
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{
		"status": "ok",
		"source": string(h.controller.Source().Status()),
	})
}

// Ready reports readiness: the service is ready once it can serve a map,
// which requires no data at all — the viewport works before any fetch.
func (h *Handlers) Ready(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "ready"})
}
