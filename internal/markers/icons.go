// Field Atlas - India Field Site and Instrument Map
// Copyright 2026 Field Atlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldatlas/fieldatlas

// Package markers turns site and instrument records into positioned map
// markers: glyph selection from instrument names, status accent colors, and
// deterministic de-overlap of co-located instruments.
package markers

import "strings"

// iconRule maps a lowercase name substring to a marker glyph.
type iconRule struct {
	keyword string
	glyph   string
}

// iconRules is the ordered glyph table. Order matters: specific keywords
// (c-band, rain gauge) sit before generic ones (gauge, sensor, instrument)
// so a name matching several rules resolves to the most specific glyph.
// Matching is a case-insensitive substring test against the display name.
var iconRules = []iconRule{
	{"c-band", "📡"},
	{"x-band", "📡"},
	{"polarization", "📡"},
	{"radar", "📡"},
	{"rain gauge", "🌧️"},
	{"rainfall", "🌧️"},
	{"seismometer", "📊"},
	{"accelerometer", "📊"},
	{"anemometer", "💨"},
	{"wind", "💨"},
	{"weather", "🌤️"},
	{"lightning", "⚡"},
	{"gps", "🛰️"},
	{"gnss", "🛰️"},
	{"water level", "🌊"},
	{"flow", "🌊"},
	{"temperature", "🌡️"},
	{"humidity", "💧"},
	{"camera", "📷"},
	{"logger", "💾"},
	{"gauge", "📏"},
	{"meter", "📏"},
	{"sensor", "🔬"},
	{"instrument", "🔧"},
}

// defaultGlyph marks instruments whose name matches no rule.
const defaultGlyph = "📍"

// statusColors is the fixed accent color per instrument status. Unlisted
// statuses get the unknown color; the table never grows at runtime.
var statusColors = map[string]string{
	"Available":   "#28a745",
	"In Use":      "#007bff",
	"Maintenance": "#fd7e14",
	"Offline":     "#dc3545",
}

// unknownStatusColor accents instruments with an empty or unlisted status.
const unknownStatusColor = "#6c757d"

// GlyphForName resolves an instrument display name to a glyph via the
// ordered keyword table. Resolution is deterministic: the first matching
// rule wins.
func GlyphForName(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range iconRules {
		if strings.Contains(lower, rule.keyword) {
			return rule.glyph
		}
	}
	return defaultGlyph
}

// ColorForStatus resolves an instrument status to its accent color.
func ColorForStatus(status string) string {
	if color, ok := statusColors[status]; ok {
		return color
	}
	return unknownStatusColor
}

// IsIconRef reports whether a stored icon value is recognizably a URL or
// path suitable for an <img> source, as opposed to free text.
func IsIconRef(icon string) bool {
	if icon == "" {
		return false
	}
	return strings.HasPrefix(icon, "http://") ||
		strings.HasPrefix(icon, "https://") ||
		strings.HasPrefix(icon, "data:image/") ||
		strings.HasPrefix(icon, "/") ||
		strings.HasPrefix(icon, "./")
}
