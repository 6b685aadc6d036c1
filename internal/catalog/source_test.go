// Field Atlas - India Field Site and Instrument Map
// Copyright 2026 Field Atlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldatlas/fieldatlas

package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fieldatlas/fieldatlas/internal/cache"
	"github.com/fieldatlas/fieldatlas/internal/config"
	"github.com/fieldatlas/fieldatlas/internal/geojson"
)

// countingFetcher counts upstream calls and serves a scripted response.
type countingFetcher struct {
	calls   int
	payload []byte
	err     error
}

func (f *countingFetcher) Enabled() bool { return true }

func (f *countingFetcher) FetchProjects(_ context.Context) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.GeoData.Dir = t.TempDir()
	return cfg
}

func writeGeoFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

const miniStates = `{"type": "FeatureCollection", "features": [
	{"type": "Feature",
	 "properties": {"NAME_0": "India", "NAME_1": "Kerala", "ENGTYPE_1": "State", "ISO": "IN-KL"},
	 "geometry": {"type": "Polygon", "coordinates": [[[76, 9], [77, 9], [77, 10], [76, 9]]]}}
]}`

func TestFetchProjectsCachedAcrossReads(t *testing.T) {
	fetcher := &countingFetcher{payload: []byte(`[{"id": 1, "name": "P", "sites": []}]`)}
	source := NewSource(testConfig(t), fetcher, cache.New(5*time.Minute))

	first, err := source.FetchProjects(context.Background())
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	second, err := source.FetchProjects(context.Background())
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}

	if fetcher.calls != 1 {
		t.Errorf("expected exactly one upstream call across cached reads, got %d", fetcher.calls)
	}
	if first != second {
		t.Error("cached reads must return the same catalog")
	}
	if source.Status() != StatusLive {
		t.Errorf("expected live status, got %s", source.Status())
	}
}

func TestFetchProjectsFallsBackToDemo(t *testing.T) {
	fetcher := &countingFetcher{err: errors.New("connection refused")}
	source := NewSource(testConfig(t), fetcher, cache.New(5*time.Minute))

	c, err := source.FetchProjects(context.Background())
	if err != nil {
		t.Fatalf("fallback fetch: %v", err)
	}
	if len(c.Projects) != 6 {
		t.Errorf("expected the built-in demo dataset, got %d projects", len(c.Projects))
	}
	if source.Status() != StatusFallback {
		t.Errorf("expected fallback status, got %s", source.Status())
	}
}

func TestFetchProjectsPrefersDemoFile(t *testing.T) {
	cfg := testConfig(t)
	demoPath := filepath.Join(t.TempDir(), "demo_projects.json")
	if err := os.WriteFile(demoPath, []byte(`[{"id": 42, "name": "File Demo", "sites": []}]`), 0o600); err != nil {
		t.Fatalf("writing demo file: %v", err)
	}
	cfg.GeoData.DemoProjectsPath = demoPath

	fetcher := &countingFetcher{err: errors.New("boom")}
	source := NewSource(cfg, fetcher, cache.New(5*time.Minute))

	c, err := source.FetchProjects(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(c.Projects) != 1 || c.Projects[0].ID != 42 {
		t.Errorf("expected the demo file to win over the built-in dataset, got %+v", c.Projects)
	}
}

func TestStatusChangeCallbackFiresOnTransitionOnly(t *testing.T) {
	fetcher := &countingFetcher{err: errors.New("down")}
	source := NewSource(testConfig(t), fetcher, cache.New(time.Nanosecond))

	var transitions []Status
	source.OnStatusChange(func(s Status) { transitions = append(transitions, s) })

	// Nanosecond TTL keeps every read going upstream.
	for i := 0; i < 3; i++ {
		if _, err := source.FetchProjects(context.Background()); err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
		time.Sleep(time.Microsecond)
	}

	if len(transitions) != 1 || transitions[0] != StatusFallback {
		t.Errorf("expected a single fallback transition, got %v", transitions)
	}
}

func TestBoundaryFileBytesWhitelist(t *testing.T) {
	cfg := testConfig(t)
	writeGeoFile(t, cfg.GeoData.Dir, "IND_WHOLE.geojson", miniStates)
	source := NewSource(cfg, &countingFetcher{}, cache.New(time.Minute))

	if _, err := source.BoundaryFileBytes("IND_WHOLE"); err != nil {
		t.Errorf("whitelisted dataset rejected: %v", err)
	}
	for _, name := range []string{"../etc/passwd", "IND_WHOLE.geojson", "states", ""} {
		if _, err := source.BoundaryFileBytes(name); !errors.Is(err, ErrUnknownDataset) {
			t.Errorf("dataset %q must be rejected, got %v", name, err)
		}
	}
}

func TestBoundaryFileBytesFallbackDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.GeoData.FallbackDir = t.TempDir()
	writeGeoFile(t, cfg.GeoData.FallbackDir, "IND_WHOLE.geojson", miniStates)
	source := NewSource(cfg, &countingFetcher{}, cache.New(time.Minute))

	data, err := source.BoundaryFileBytes("IND_WHOLE")
	if err != nil {
		t.Fatalf("fallback read: %v", err)
	}
	if string(data) != miniStates {
		t.Error("fallback directory content must be served verbatim")
	}
}

func TestFetchBoundariesDecodesAndCaches(t *testing.T) {
	cfg := testConfig(t)
	writeGeoFile(t, cfg.GeoData.Dir, "IND_WHOLE.geojson", miniStates)
	source := NewSource(cfg, &countingFetcher{}, cache.New(time.Minute))

	features, err := source.FetchBoundaries(context.Background(), geojson.LevelState)
	if err != nil {
		t.Fatalf("fetch boundaries: %v", err)
	}
	if len(features) != 1 || features[0].Name != "Kerala" {
		t.Fatalf("unexpected features: %+v", features)
	}

	// Remove the file; the cached snapshot must keep serving.
	if err := os.Remove(filepath.Join(cfg.GeoData.Dir, "IND_WHOLE.geojson")); err != nil {
		t.Fatal(err)
	}
	again, err := source.FetchBoundaries(context.Background(), geojson.LevelState)
	if err != nil {
		t.Fatalf("cached fetch: %v", err)
	}
	if len(again) != 1 {
		t.Errorf("expected cached features, got %d", len(again))
	}
}

func TestMetadataSynthesizedWhenAbsent(t *testing.T) {
	source := NewSource(testConfig(t), &countingFetcher{}, cache.New(time.Minute))

	data, err := source.Metadata()
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("synthesized metadata must not be empty")
	}
}
