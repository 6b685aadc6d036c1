// Field Atlas - India Field Site and Instrument Map
// Copyright 2026 Field Atlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldatlas/fieldatlas

package services

import (
	"context"
	"time"

	"github.com/fieldatlas/fieldatlas/internal/logging"
)

// Refresher matches the controller's Refresh method.
type Refresher interface {
	Refresh(ctx context.Context)
}

// RefreshService reloads boundary and project data on a fixed interval so
// connected clients see upstream changes without waiting for a request to
// trip the cache expiry. A refresh that fails falls back through the usual
// cascade and never crashes the service.
type RefreshService struct {
	refresher Refresher
	interval  time.Duration
	name      string
}

// NewRefreshService creates a periodic refresh service. The interval should
// match the snapshot cache TTL; anything shorter wastes upstream requests.
func NewRefreshService(refresher Refresher, interval time.Duration) *RefreshService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &RefreshService{
		refresher: refresher,
		interval:  interval,
		name:      "data-refresh",
	}
}

// Serve implements suture.Service. The first refresh happens one full
// interval after start; Initialize already loaded the initial data.
func (s *RefreshService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			logging.Debug().Msg("periodic data refresh")
			s.refresher.Refresh(ctx)
		}
	}
}

// String implements fmt.Stringer; suture uses it in log messages.
func (s *RefreshService) String() string {
	return s.name
}
