// Package aggregator flattens check records into the JSON catalog consumed
// by the documentation site.
package aggregator

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Threatwrix/drive-maturity-model/internal/catalog"
	"github.com/Threatwrix/drive-maturity-model/internal/discovery"
	"github.com/Threatwrix/drive-maturity-model/internal/logging"
)

// Defaults applied when a check leaves the field out.
const (
	DefaultSeverity = "Medium"
	DefaultLevel    = 1
	DefaultStatus   = "active"
)

// Entry is the simplified, display-oriented form of a check.
type Entry struct {
	CheckID          string  `json:"check_id"`
	Title            string  `json:"title"`
	ShortDescription string  `json:"short_description"`
	Description      string  `json:"description"`
	Category         string  `json:"category"`
	Platform         string  `json:"platform"`
	Severity         string  `json:"severity"`
	DrivePillar      string  `json:"drive_pillar"`
	DriveMaturityMin int     `json:"drive_maturity_min"`
	DriveWeight      float64 `json:"drive_weight"`
	Automatable      bool    `json:"automatable"`
	Status           string  `json:"status"`

	NISTCSFFunction  string `json:"nist_csf_function"`
	NISTCSFID        string `json:"nist_csf_id"`
	CISv8Control     string `json:"cis_v8_control"`
	CISM365Benchmark string `json:"cis_m365_benchmark"`
	ISO27001Annex    string `json:"iso_27001_annex"`

	LastUpdated     string           `json:"last_updated"`
	LevelThresholds []ThresholdEntry `json:"level_thresholds"`
	Tags            string           `json:"tags"`

	PowerPointPriority string `json:"powerpoint_priority,omitempty"`
}

// ThresholdEntry is a threshold as shown in the catalog detail view.
type ThresholdEntry struct {
	Level                int      `json:"level"`
	ThresholdID          string   `json:"threshold_id"`
	ThresholdCondition   string   `json:"threshold_condition"`
	ThresholdDescription string   `json:"threshold_description"`
	Severity             string   `json:"severity"`
	BusinessImpact       string   `json:"business_impact,omitempty"`
	ThreatTimeline       string   `json:"threat_timeline,omitempty"`
	AttackerProfile      string   `json:"attacker_profile,omitempty"`
	CVSSScore            float64  `json:"cvss_score"`
	PointsDeduction      *float64 `json:"points_deduction,omitempty"`
	RemediationPriority  int      `json:"remediation_priority,omitempty"`
}

// Simplify flattens a check for web display. The first threshold stands in
// for the whole check where a single severity or level is needed.
func Simplify(c *catalog.Check) Entry {
	e := Entry{
		CheckID:          c.CheckID.Value,
		Title:            c.Title,
		ShortDescription: c.ShortDescription,
		Description:      c.DetailedDescription,
		Category:         c.Category,
		Platform:         c.Platform.Value,
		Severity:         DefaultSeverity,
		DriveMaturityMin: DefaultLevel,
		Automatable:      true,
		Status:           DefaultStatus,
	}
	if e.Description == "" {
		e.Description = c.ShortDescription
	}
	if c.DrivePillars.OK() && len(c.DrivePillars.Value) > 0 {
		e.DrivePillar = c.DrivePillars.Value[0]
	}
	if c.Automatable.OK() {
		e.Automatable = c.Automatable.Value
	}
	if c.Status.Value != "" {
		e.Status = c.Status.Value
	}

	ths := c.Thresholds()
	e.LevelThresholds = make([]ThresholdEntry, 0, len(ths))
	for i := range ths {
		if ths[i].Kind() == catalog.KindMapping {
			e.LevelThresholds = append(e.LevelThresholds, simplifyThreshold(&ths[i]))
		}
	}
	if len(e.LevelThresholds) > 0 {
		first := e.LevelThresholds[0]
		if first.Severity != "" {
			e.Severity = first.Severity
		}
		if first.Level != 0 {
			e.DriveMaturityMin = first.Level
		}
		if first.PointsDeduction != nil {
			e.DriveWeight = *first.PointsDeduction / 100
		}
	}

	if fm := c.FrameworkMappings; fm != nil {
		if fm.NISTCSF != nil {
			e.NISTCSFFunction = fm.NISTCSF.Function.Value
			e.NISTCSFID = strings.Join(fm.NISTCSF.Controls, ", ")
		}
		if fm.CISv8 != nil {
			e.CISv8Control = strings.Join(fm.CISv8.Controls, ", ")
		}
		if fm.CISM365 != nil {
			e.CISM365Benchmark = strings.Join(fm.CISM365.Recommendations, ", ")
		}
		if fm.ISO27001 != nil {
			e.ISO27001Annex = strings.Join(fm.ISO27001.Controls, ", ")
		}
		if fm.MITREAttack != nil {
			e.Tags = strings.Join(fm.MITREAttack.Techniques, ", ")
		}
	}

	if c.Metadata != nil {
		e.LastUpdated = c.Metadata.LastReviewed.Value
	}
	if c.PowerPointExport != nil {
		e.PowerPointPriority = c.PowerPointExport.Priority.Value
	}

	return e
}

func simplifyThreshold(t *catalog.Threshold) ThresholdEntry {
	te := ThresholdEntry{
		Level:                t.Level.Value,
		ThresholdID:          t.ThresholdID.Value,
		ThresholdCondition:   t.ThresholdCondition,
		ThresholdDescription: t.ThresholdDescription,
		Severity:             t.Severity.Value,
		BusinessImpact:       t.BusinessImpact,
		ThreatTimeline:       t.ThreatTimeline,
		AttackerProfile:      t.AttackerProfile,
		CVSSScore:            t.CVSSScore.Value,
		RemediationPriority:  t.RemediationPriority.Value,
	}
	if t.PointsDeduction.OK() {
		points := t.PointsDeduction.Value
		te.PointsDeduction = &points
	}
	return te
}

// keys a check needs before it can be listed in the catalog.
var listingFields = []string{"check_id", "title", "category", "platform"}

// BuildResult is the outcome of loading a directory of checks.
type BuildResult struct {
	Entries []Entry
	Files   int
	Errors  []string
}

// Build loads and simplifies every check in dir. A file that cannot be
// loaded is recorded in Errors and skipped; only an unreadable directory is
// fatal.
func Build(dir string) (*BuildResult, error) {
	logger := logging.WithComponent("aggregator")

	paths, warnings, err := discovery.FindChecks(dir)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		logger.Warn().Msg(w)
	}

	res := &BuildResult{Files: len(paths)}
	for _, p := range paths {
		entry, err := load(p)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Error loading %s: %v", p, err))
			continue
		}
		logger.Debug().Str("check_id", entry.CheckID).Msg("loaded check")
		res.Entries = append(res.Entries, entry)
	}

	return res, nil
}

func load(path string) (Entry, error) {
	c, err := catalog.LoadFile(path)
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		logger := logging.WithFile("aggregator", path)
		logger.Warn().
			Strs("problems", typeErr.Errors).
			Msg("check has fields of the wrong type, listing what decoded")
	} else if err != nil {
		return Entry{}, err
	}

	for _, key := range listingFields {
		if !c.Has(key) {
			return Entry{}, fmt.Errorf("missing required field %q", key)
		}
	}
	return Simplify(c), nil
}
