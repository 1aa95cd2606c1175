package aggregator

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Stats summarises a catalog for the site's dashboard.
type Stats struct {
	BuildID           string                       `json:"build_id"`
	GeneratedAt       string                       `json:"generated_at"`
	TotalChecks       int                          `json:"total_checks"`
	ByPlatform        map[string]int               `json:"by_platform"`
	BySeverity        map[string]int               `json:"by_severity"`
	ByLevel           map[string]int               `json:"by_level"`
	ByPillar          map[string]int               `json:"by_pillar"`
	FrameworkCoverage map[string]FrameworkCoverage `json:"framework_coverage"`
	LastUpdated       string                       `json:"last_updated"`
}

// FrameworkCoverage is how many checks map onto a framework.
type FrameworkCoverage struct {
	Name    string  `json:"name"`
	Mapped  int     `json:"mapped"`
	Percent float64 `json:"percent"`
}

const unknown = "Unknown"

// ComputeStats counts entries by platform, severity, level and pillar, and
// measures framework coverage. Each call gets a fresh build id.
func ComputeStats(entries []Entry) *Stats {
	s := &Stats{
		BuildID:           uuid.NewString(),
		GeneratedAt:       time.Now().UTC().Format(time.RFC3339),
		TotalChecks:       len(entries),
		ByPlatform:        make(map[string]int),
		BySeverity:        make(map[string]int),
		ByLevel:           make(map[string]int),
		ByPillar:          make(map[string]int),
		FrameworkCoverage: make(map[string]FrameworkCoverage),
	}
	if len(entries) > 0 {
		s.LastUpdated = entries[0].LastUpdated
	}

	for i := range entries {
		e := &entries[i]
		s.ByPlatform[orUnknown(e.Platform)]++
		s.BySeverity[orUnknown(e.Severity)]++
		s.ByLevel[fmt.Sprintf("Level %d", e.DriveMaturityMin)]++
		s.ByPillar[orUnknown(e.DrivePillar)]++
	}

	for _, fw := range AllFrameworks() {
		cov := FrameworkCoverage{Name: fw.Name}
		for i := range entries {
			if fw.Maps(&entries[i]) {
				cov.Mapped++
			}
		}
		if len(entries) > 0 {
			cov.Percent = math.Round(float64(cov.Mapped)/float64(len(entries))*1000) / 10
		}
		s.FrameworkCoverage[fw.ID] = cov
	}

	return s
}

func orUnknown(v string) string {
	if v == "" {
		return unknown
	}
	return v
}
