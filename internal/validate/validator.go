// Package validate checks DRIVE check records against the catalog schema.
package validate

import (
	"errors"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/Threatwrix/drive-maturity-model/internal/catalog"
)

// rule inspects one area of a check and appends diagnostics. Rules never
// depend on each other's findings.
type rule func(c *catalog.Check, r *Result)

var rules = []rule{
	requiredFields,
	identity,
	pillars,
	thresholds,
	frameworkMappings,
	remediation,
	powerPointExport,
	metadata,
}

// Record validates an already parsed check.
func Record(c *catalog.Check) *Result {
	r := &Result{}
	evaluate(c, r)
	return r
}

// File loads and validates the check stored at path. A missing or unparsable
// file yields a single error and no rule is run.
func File(path string) *Result {
	r := &Result{Path: path}

	c, err := catalog.LoadFile(path)
	var typeErr *yaml.TypeError
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		r.errorf("File not found: %s", path)
		return r
	case errors.As(err, &typeErr):
		for _, msg := range typeErr.Errors {
			r.errorf("Schema type error: %s", msg)
		}
	case err != nil:
		r.errorf("YAML parsing error: %v", err)
		return r
	}

	evaluate(c, r)
	return r
}

func evaluate(c *catalog.Check, r *Result) {
	for _, fn := range rules {
		fn(c, r)
	}
}

func requiredFields(c *catalog.Check, r *Result) {
	for _, field := range catalog.RequiredFields {
		if !c.Has(field) {
			r.errorf("Missing required field: %s", field)
		}
	}
}

func identity(c *catalog.Check, r *Result) {
	if c.Has("check_id") {
		id := c.CheckID.Value
		if !c.CheckID.OK() || utf8.RuneCountInString(strings.TrimSpace(id)) < 5 {
			r.errorf("Invalid check_id format: %q", id)
		}
	}

	if c.Has("platform") && !catalog.OneOf(c.Platform.Value, catalog.Platforms) {
		r.warnf("Unusual platform: %s", display(c.Platform))
	}

	if c.Has("status") && !catalog.OneOf(c.Status.Value, catalog.Statuses) {
		r.errorf("Invalid status: %s. Must be one of %s", display(c.Status), list(catalog.Statuses))
	}
}

func pillars(c *catalog.Check, r *Result) {
	if !c.Has("drive_pillars") {
		return
	}

	p := c.DrivePillars
	if p.Kind() != catalog.KindSequence {
		r.errorf("drive_pillars must be a list")
		return
	}
	if !p.OK() {
		r.errorf("drive_pillars must be a list of pillar codes")
		return
	}
	if len(p.Value) == 0 {
		r.errorf("At least one DRIVE pillar must be specified")
	}
	for _, pillar := range p.Value {
		if !catalog.OneOf(pillar, catalog.Pillars) {
			r.errorf("Invalid DRIVE pillar: %s. Must be one of %s", pillar, list(catalog.Pillars))
		}
	}
}

func thresholds(c *catalog.Check, r *Result) {
	if !c.Has("level_thresholds") {
		return
	}

	lt := c.LevelThresholds
	if lt.Kind() != catalog.KindSequence {
		r.errorf("level_thresholds must be a list")
		return
	}
	if len(lt.Value) == 0 {
		r.errorf("At least one level threshold must be defined")
		return
	}

	levels := make(map[int]bool)
	seenIDs := make(map[string]bool)

	for i := range lt.Value {
		t := &lt.Value[i]
		if t.Kind() != catalog.KindMapping {
			r.errorf("Threshold %d: must be a mapping, got %s", i, kindName(t.Kind()))
			continue
		}
		for _, msg := range t.Problems() {
			r.errorf("Threshold %d: %s", i, msg)
		}

		for _, field := range catalog.RequiredThresholdFields {
			if !t.Has(field) {
				r.errorf("Threshold %d: Missing required field '%s'", i, field)
			}
		}

		if t.Has("level") {
			lvl := t.Level
			if lvl.Kind() != catalog.KindInteger || !lvl.OK() || lvl.Value < catalog.MinLevel || lvl.Value > catalog.MaxLevel {
				r.errorf("Threshold %d: Invalid level %s. Must be %d-%d", i, display(lvl), catalog.MinLevel, catalog.MaxLevel)
			} else {
				levels[lvl.Value] = true
			}
		}

		if t.Has("threshold_id") {
			id := t.ThresholdID.Value
			if seenIDs[id] {
				r.errorf("Duplicate threshold_id: %s", id)
			}
			seenIDs[id] = true
		}

		if t.Has("severity") && !catalog.OneOf(t.Severity.Value, catalog.Severities) {
			r.errorf("Threshold %d: Invalid severity '%s'. Must be one of %s", i, t.Severity.Value, list(catalog.Severities))
		}

		if t.Has("cvss_score") {
			score := t.CVSSScore
			if !numeric(score) || score.Value < catalog.MinCVSS || score.Value > catalog.MaxCVSS {
				r.errorf("Threshold %d: Invalid CVSS score %s. Must be 0-10", i, display(score))
			}
		}

		if t.Has("points_deduction") {
			points := t.PointsDeduction
			if !numeric(points) || points.Value < 0 {
				r.errorf("Threshold %d: Invalid points_deduction %s. Must be >= 0", i, display(points))
			}
		}

		if t.Has("remediation_priority") {
			prio := t.RemediationPriority
			if prio.Kind() != catalog.KindInteger || !prio.OK() || prio.Value < 1 {
				r.errorf("Threshold %d: Invalid remediation_priority %s. Must be >= 1", i, display(prio))
			}
		}
	}

	if !levels[1] {
		r.warnf("No Level 1 threshold defined - check may not block critical exposures")
	}

	levelOrdering(lt.Value, levels, r)
}

// levelOrdering expects each maturity level to weigh at least as much as the
// next one up. Weight is the largest points_deduction at the level when the
// record still uses the weighted schema, otherwise its most severe severity.
func levelOrdering(ths []catalog.Threshold, levels map[int]bool, r *Result) {
	if len(levels) < 2 {
		return
	}

	byPoints := false
	for i := range ths {
		if ths[i].Has("points_deduction") && numeric(ths[i].PointsDeduction) {
			byPoints = true
			break
		}
	}

	weights := make(map[int]float64, len(levels))
	for i := range ths {
		t := &ths[i]
		if !levels[t.Level.Value] || t.Level.Kind() != catalog.KindInteger {
			continue
		}
		var w float64
		if byPoints {
			if numeric(t.PointsDeduction) {
				w = t.PointsDeduction.Value
			}
		} else {
			w = float64(catalog.SeverityRank(t.Severity.Value))
		}
		if w > weights[t.Level.Value] {
			weights[t.Level.Value] = w
		}
	}

	sorted := make([]int, 0, len(levels))
	for lvl := range levels {
		sorted = append(sorted, lvl)
	}
	sort.Ints(sorted)

	measure := "severity"
	if byPoints {
		measure = "points_deduction"
	}
	for i := 0; i+1 < len(sorted); i++ {
		lower, higher := sorted[i], sorted[i+1]
		if weights[lower] < weights[higher] {
			r.warnf("Level %d has higher %s than Level %d - verify this is intentional", higher, measure, lower)
		}
	}
}

func frameworkMappings(c *catalog.Check, r *Result) {
	if !c.Has("framework_mappings") {
		return
	}

	m := c.FrameworkMappings
	if m == nil {
		sectionShape("framework_mappings", "", r)
		return
	}
	if !sectionShape("framework_mappings", m.Kind(), r) {
		return
	}
	for _, msg := range m.Problems() {
		r.errorf("framework_mappings: %s", msg)
	}

	if !m.Has("nist_csf") {
		r.warnf("Missing NIST CSF mapping - recommended for all checks")
	}
	if !m.Has("cis_v8") {
		r.warnf("Missing CIS v8 mapping - recommended for all checks")
	}

	if !m.Has("nist_csf") {
		return
	}
	nist := m.NISTCSF
	switch {
	case nist == nil || nist.Kind() != catalog.KindMapping:
		r.warnf("NIST CSF mapping should be a mapping with a 'function' field")
	case !nist.Has("function"):
		r.warnf("NIST CSF mapping missing 'function' field")
	case !catalog.OneOf(nist.Function.Value, catalog.NISTFunctions):
		r.warnf("NIST CSF function %s should be one of %s", display(nist.Function), list(catalog.NISTFunctions))
	}
	if nist != nil {
		for _, msg := range nist.Problems() {
			r.errorf("framework_mappings.nist_csf: %s", msg)
		}
	}
}

func remediation(c *catalog.Check, r *Result) {
	if !c.Has("remediation") {
		return
	}

	rem := c.Remediation
	if rem == nil {
		sectionShape("remediation", "", r)
		return
	}
	if !sectionShape("remediation", rem.Kind(), r) {
		return
	}
	for _, msg := range rem.Problems() {
		r.errorf("remediation: %s", msg)
	}

	for _, field := range catalog.RecommendedRemediationFields {
		if !rem.Has(field) {
			r.warnf("Remediation missing recommended field: %s", field)
		}
	}

	if !rem.Has("steps") {
		return
	}
	if rem.Steps.Kind() != catalog.KindSequence {
		r.errorf("Remediation steps must be a list")
		return
	}
	for i := range rem.Steps.Value {
		step := &rem.Steps.Value[i]
		if step.Kind() != catalog.KindMapping {
			r.errorf("Remediation step %d: must be a mapping, got %s", i, kindName(step.Kind()))
			continue
		}
		for _, msg := range step.Problems() {
			r.errorf("Remediation step %d: %s", i, msg)
		}
		if !step.Has("step") {
			r.errorf("Remediation step %d: Missing 'step' number", i)
		}
		if !step.Has("action") {
			r.errorf("Remediation step %d: Missing 'action' description", i)
		}
	}
}

func powerPointExport(c *catalog.Check, r *Result) {
	if !c.Has("powerpoint_export") {
		if c.SchemaVersion() == catalog.SchemaWithExport {
			r.warnf("Missing powerpoint_export section - expected for schema_version %s", catalog.SchemaWithExport)
		}
		return
	}

	p := c.PowerPointExport
	if p == nil {
		sectionShape("powerpoint_export", "", r)
		return
	}
	if !sectionShape("powerpoint_export", p.Kind(), r) {
		return
	}
	for _, msg := range p.Problems() {
		r.errorf("powerpoint_export: %s", msg)
	}

	includeOK := false
	switch {
	case !p.Has("include"):
		r.errorf("powerpoint_export missing required field: include")
	case p.Include.Kind() != catalog.KindBoolean:
		r.errorf("powerpoint_export.include must be a boolean, got %s", kindName(p.Include.Kind()))
	default:
		includeOK = true
	}

	priority := p.Priority.Value
	priorityOK := false
	switch {
	case !p.Has("priority"):
		r.errorf("powerpoint_export missing required field: priority")
	case !catalog.OneOf(priority, catalog.ExportPriorities):
		r.errorf("Invalid powerpoint_export.priority: %s. Must be one of %s", display(p.Priority), list(catalog.ExportPriorities))
	default:
		priorityOK = true
	}

	if includeOK && priorityOK {
		include := p.Include.Value
		switch {
		case priority == catalog.PriorityExclude && include:
			r.warnf("powerpoint_export.priority is %s but include is true", catalog.PriorityExclude)
		case priority != catalog.PriorityExclude && !include:
			r.warnf("powerpoint_export.include is false but priority is %s (expected %s)", priority, catalog.PriorityExclude)
		}
	}

	summary := p.ExecutiveSummary.Value
	if priority == catalog.PriorityPrimary {
		if strings.TrimSpace(summary) == "" {
			r.warnf("%s check is missing powerpoint_export.executive_summary", catalog.PriorityPrimary)
		}
		r.infof("%s check - the executive summary opens the Critical Findings slides, keep it compelling", catalog.PriorityPrimary)
	}
	if n := utf8.RuneCountInString(summary); n > catalog.MaxExecutiveSummaryLen {
		r.warnf("powerpoint_export.executive_summary is %d characters (max %d)", n, catalog.MaxExecutiveSummaryLen)
	}

	if p.Has("chart_visualization") && !catalog.OneOf(p.ChartVisualization.Value, catalog.ChartVisualizations) {
		r.errorf("Invalid powerpoint_export.chart_visualization: %s. Must be one of %s", display(p.ChartVisualization), list(catalog.ChartVisualizations))
	}
}

func metadata(c *catalog.Check, r *Result) {
	if !c.Has("metadata") {
		return
	}

	m := c.Metadata
	if m == nil {
		sectionShape("metadata", "", r)
		return
	}
	if !sectionShape("metadata", m.Kind(), r) {
		return
	}
	for _, msg := range m.Problems() {
		r.errorf("metadata: %s", msg)
	}

	if version := m.Version.Value; strings.Count(version, ".") < 2 {
		r.warnf("Invalid version format: %q. Expected X.Y.Z", version)
	}

	if m.SchemaVersion.Set() && !catalog.OneOf(m.SchemaVersion.Value, catalog.SchemaVersions) {
		r.warnf("Unknown schema_version: %s. Expected one of %s", display(m.SchemaVersion), list(catalog.SchemaVersions))
	}

	if v := m.LastReviewed.Value; v != "" && !isISODate(v) {
		r.warnf("Invalid date format for last_reviewed: %s", v)
	}
	if v := m.NextReviewDue.Value; v != "" && !isISODate(v) {
		r.warnf("Invalid date format for next_review_due: %s", v)
	}
}

// sectionShape reports a present section that is not a mapping; kind is
// empty when the key carries an explicit null.
func sectionShape(name, kind string, r *Result) bool {
	if kind != catalog.KindMapping {
		r.errorf("%s must be a mapping, got %s", name, kindName(kind))
		return false
	}
	return true
}

var isoLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

func isISODate(s string) bool {
	for _, layout := range isoLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func numeric(f catalog.Field[float64]) bool {
	return f.IsNumber() && f.OK() && !math.IsNaN(f.Value) && !math.IsInf(f.Value, 0)
}

func display[T any](f catalog.Field[T]) string {
	if f.Raw() != "" {
		return f.Raw()
	}
	return "<" + kindName(f.Kind()) + ">"
}

func kindName(kind string) string {
	if kind == "" {
		return catalog.KindNull
	}
	return kind
}

func list(values []string) string {
	return "[" + strings.Join(values, ", ") + "]"
}
