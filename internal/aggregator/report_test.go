package aggregator

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteCatalog(t *testing.T) {
	out := filepath.Join(t.TempDir(), "docs", "catalog")
	entries := []Entry{{CheckID: "SP-SHARE-001", Platform: "SharePoint", LevelThresholds: []ThresholdEntry{}}}
	stats := ComputeStats(entries)

	if err := WriteCatalog(out, entries, stats); err != nil {
		t.Fatalf("WriteCatalog: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(out, CatalogFile))
	if err != nil {
		t.Fatal(err)
	}
	var got []map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("catalog is not a JSON list: %v", err)
	}
	if len(got) != 1 || got[0]["check_id"] != "SP-SHARE-001" {
		t.Errorf("unexpected catalog: %v", got)
	}

	data, err = os.ReadFile(filepath.Join(out, StatsFile))
	if err != nil {
		t.Fatal(err)
	}
	var gotStats Stats
	if err := json.Unmarshal(data, &gotStats); err != nil {
		t.Fatal(err)
	}
	if gotStats.TotalChecks != 1 || gotStats.BuildID != stats.BuildID {
		t.Errorf("unexpected stats: %+v", gotStats)
	}
}

func TestLoadFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, CatalogFile)
	if err := os.WriteFile(path, []byte(`[{"check_id":"AD-PRIV-001","platform":"Active Directory","drive_maturity_min":1}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := LoadFallback(path)
	if err != nil {
		t.Fatalf("LoadFallback: %v", err)
	}
	if len(entries) != 1 || entries[0].CheckID != "AD-PRIV-001" {
		t.Errorf("unexpected entries: %+v", entries)
	}

	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{"", filepath.Join(dir, "absent.json"), empty} {
		if _, err := LoadFallback(p); !errors.Is(err, ErrNoChecks) {
			t.Errorf("LoadFallback(%q) error = %v, want ErrNoChecks", p, err)
		}
	}
}

func TestPrintBuildSummary(t *testing.T) {
	res := &BuildResult{
		Entries: []Entry{{CheckID: "A", Platform: "Teams", NISTCSFFunction: "DETECT"}},
		Files:   2,
		Errors:  []string{"Error loading b.yaml: yaml: line 1: did not find expected node content"},
	}
	var buf bytes.Buffer
	PrintBuildSummary(&buf, res, ComputeStats(res.Entries))

	out := buf.String()
	for _, want := range []string{
		"Aggregated 1 checks from 2 YAML files",
		"Errors (1):",
		"Teams",
		"NIST CSF 2.0",
		"[####################] 100%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{0, "[----]"},
		{50, "[##--]"},
		{100, "[####]"},
		{150, "[####]"},
		{-5, "[----]"},
	}
	for _, tt := range tests {
		if got := renderBar(tt.pct, 4); got != tt.want {
			t.Errorf("renderBar(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}
