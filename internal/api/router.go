// Field Atlas - India Field Site and Instrument Map
// Copyright 2026 Field Atlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldatlas/fieldatlas

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fieldatlas/fieldatlas/internal/config"
	"github.com/fieldatlas/fieldatlas/internal/controller"
	"github.com/fieldatlas/fieldatlas/internal/middleware"
	"github.com/fieldatlas/fieldatlas/internal/websocket"
)

// Router assembles the HTTP surface.
type Router struct {
	cfg      *config.Config
	handlers *Handlers
	hub      *websocket.Hub
}

// NewRouter creates a router over the controller and websocket hub.
func NewRouter(cfg *config.Config, c *controller.MapController, hub *websocket.Hub) *Router {
	return &Router{
		cfg:      cfg,
		handlers: NewHandlers(c),
		hub:      hub,
	}
}

// Setup builds the chi handler tree.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: router.cfg.Security.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(httprate.LimitByIP(
		router.cfg.Security.RateLimitReqs,
		router.cfg.Security.RateLimitWindow,
	))

	r.Handle("/metrics", promhttp.Handler())

	// Compatibility surface: the original paths, raw payload shapes.
	r.Group(func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.Compression)

		r.Get("/api/geojson/{dataset}", router.handlers.GetBoundaryGeoJSON)
		r.Get("/api/projects", router.handlers.GetProjects)
		r.Get("/api/demo-projects", router.handlers.GetDemoProjects)
		r.Get("/api/metadata", router.handlers.GetMetadata)
	})

	// Map state surface.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.Compression)

		r.Get("/health", router.handlers.Health)
		r.Get("/health/live", router.handlers.Health)
		r.Get("/health/ready", router.handlers.Ready)

		r.Route("/map", func(r chi.Router) {
			r.Get("/state", router.handlers.GetMapState)
			r.Get("/mask", router.handlers.GetMask)
			r.Get("/markers", router.handlers.GetMarkers)
			r.Get("/layers/{name}", router.handlers.GetBoundaryLayer)
			r.Post("/layers/{name}", router.handlers.ToggleLayer)
			r.Post("/style", router.handlers.SetStyle)
			r.Post("/reset", router.handlers.ResetView)
			r.Post("/click", router.handlers.Click)
		})
	})

	r.Get("/api/v1/ws", func(w http.ResponseWriter, req *http.Request) {
		websocket.ServeWS(router.hub, w, req)
	})

	return r
}
