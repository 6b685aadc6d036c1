// Field Atlas - India Field Site and Instrument Map
// Copyright 2026 Field Atlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldatlas/fieldatlas

package catalog

import "errors"

var (
	// ErrDataUnavailable signals that the live upstream and every fallback
	// failed; there is no project data to serve.
	ErrDataUnavailable = errors.New("project data unavailable from live source and fallback")

	// ErrUpstreamDisabled signals that no upstream URL is configured, so a
	// live fetch was never attempted.
	ErrUpstreamDisabled = errors.New("upstream project API not configured")

	// ErrUpstreamStatus signals a non-2xx upstream response.
	ErrUpstreamStatus = errors.New("upstream project API returned an error status")
)
