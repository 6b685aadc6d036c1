// Field Atlas - India Field Site and Instrument Map
// Copyright 2026 Field Atlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldatlas/fieldatlas

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := g.Write(m); err != nil {
		t.Fatalf("failed to read gauge: %v", err)
	}
	return m.GetGauge().GetValue()
}

func TestTrackActiveRequest(t *testing.T) {
	before := gaugeValue(t, APIActiveRequests)

	TrackActiveRequest(true)
	if got := gaugeValue(t, APIActiveRequests); got != before+1 {
		t.Errorf("expected gauge %v after increment, got %v", before+1, got)
	}

	TrackActiveRequest(false)
	if got := gaugeValue(t, APIActiveRequests); got != before {
		t.Errorf("expected gauge %v after decrement, got %v", before, got)
	}
}

func TestSetDataSourceStatusIsExclusive(t *testing.T) {
	SetDataSourceStatus("fallback")

	if got := gaugeValue(t, DataSourceStatus.WithLabelValues("fallback")); got != 1 {
		t.Errorf("expected fallback gauge 1, got %v", got)
	}
	for _, status := range []string{"live", "unavailable"} {
		if got := gaugeValue(t, DataSourceStatus.WithLabelValues(status)); got != 0 {
			t.Errorf("expected %s gauge 0, got %v", status, got)
		}
	}

	SetDataSourceStatus("live")
	if got := gaugeValue(t, DataSourceStatus.WithLabelValues("fallback")); got != 0 {
		t.Errorf("expected fallback gauge reset to 0, got %v", got)
	}
}

func TestRecordAPIRequestDoesNotPanic(t *testing.T) {
	RecordAPIRequest("GET", "/api/v1/map/state", "200", 42*time.Millisecond)
	RecordAPIRequest("POST", "/api/v1/map/reset", "204", time.Millisecond)
}
