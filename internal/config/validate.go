// Field Atlas - India Field Site and Instrument Map
// Copyright 2026 Field Atlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldatlas/fieldatlas

package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validation errors for cross-field constraints the tag language cannot express.
var (
	ErrInvertedBounds = errors.New("map bounds are inverted: south/west must be less than north/east")
	ErrZoomRange      = errors.New("map min_zoom must not exceed max_zoom")
	ErrTokenWithout   = errors.New("upstream token is set but upstream url is empty")
)

// Validate checks the configuration for invalid or inconsistent values.
// Struct tags cover per-field constraints; cross-field invariants are
// checked explicitly afterwards.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("field %s failed %q validation: %w", first.Namespace(), first.Tag(), err)
		}
		return err
	}

	if c.Map.BoundsSouth >= c.Map.BoundsNorth || c.Map.BoundsWest >= c.Map.BoundsEast {
		return ErrInvertedBounds
	}
	if c.Map.MinZoom > c.Map.MaxZoom {
		return ErrZoomRange
	}
	if c.Map.ResetMaxZoom < c.Map.MinZoom || c.Map.ResetMaxZoom > c.Map.MaxZoom {
		return fmt.Errorf("map reset_max_zoom %d outside zoom range [%d, %d]: %w",
			c.Map.ResetMaxZoom, c.Map.MinZoom, c.Map.MaxZoom, ErrZoomRange)
	}
	if c.Upstream.Token != "" && c.Upstream.URL == "" {
		return ErrTokenWithout
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %s", c.Cache.TTL)
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream timeout must be positive, got %s", c.Upstream.Timeout)
	}

	return nil
}
