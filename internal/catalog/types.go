package catalog

import "gopkg.in/yaml.v3"

// Check is one DRIVE security-posture check as stored in checks/*.yaml.
type Check struct {
	CheckID             Field[string]      `yaml:"check_id"`
	Title               string             `yaml:"title"`
	ShortDescription    string             `yaml:"short_description"`
	DetailedDescription string             `yaml:"detailed_description"`
	Category            string             `yaml:"category"`
	Platform            Field[string]      `yaml:"platform"`
	DrivePillars        Field[[]string]    `yaml:"drive_pillars"`
	Automatable         Field[bool]        `yaml:"automatable"`
	Owner               string             `yaml:"owner"`
	Status              Field[string]      `yaml:"status"`
	CreatedDate         string             `yaml:"created_date"`
	LastUpdated         string             `yaml:"last_updated"`
	Detection           yaml.Node          `yaml:"detection"`
	LevelThresholds     List[Threshold]    `yaml:"level_thresholds"`
	FrameworkMappings   *FrameworkMappings `yaml:"framework_mappings"`
	Remediation         *Remediation       `yaml:"remediation"`
	Validation          yaml.Node          `yaml:"validation"`
	References          yaml.Node          `yaml:"references"`
	Metadata            *Metadata          `yaml:"metadata"`
	PowerPointExport    *PowerPointExport  `yaml:"powerpoint_export"`

	present presence
}

// UnmarshalYAML records which top-level keys the document carries.
func (c *Check) UnmarshalYAML(n *yaml.Node) error {
	type plain Check
	if !isMapping(n) {
		return &NotMappingError{Kind: KindOf(n)}
	}
	err := n.Decode((*plain)(c))
	c.present = keysOf(n)
	return err
}

// Has reports whether key is written at the top level of the check.
func (c *Check) Has(key string) bool { return c.present[key] }

// SchemaVersion returns metadata.schema_version, or "" when unset.
func (c *Check) SchemaVersion() string {
	if c.Metadata == nil {
		return ""
	}
	return c.Metadata.SchemaVersion.Value
}

// Thresholds returns the decoded threshold list, nil when it is not a list.
func (c *Check) Thresholds() []Threshold {
	if !c.LevelThresholds.OK() {
		return nil
	}
	return c.LevelThresholds.Value
}

// Threshold is one maturity-level trigger condition of a check.
type Threshold struct {
	Level                Field[int]     `yaml:"level"`
	ThresholdID          Field[string]  `yaml:"threshold_id"`
	ThresholdCondition   string         `yaml:"threshold_condition"`
	ThresholdDescription string         `yaml:"threshold_description"`
	Severity             Field[string]  `yaml:"severity"`
	BusinessImpact       string         `yaml:"business_impact"`
	ThreatTimeline       string         `yaml:"threat_timeline"`
	AttackerProfile      string         `yaml:"attacker_profile"`
	CVSSScore            Field[float64] `yaml:"cvss_score"`
	PointsDeduction      Field[float64] `yaml:"points_deduction"` // deprecated, weighted-scoring schema only
	RemediationPriority  Field[int]     `yaml:"remediation_priority"`

	section `yaml:"-"`
}

func (t *Threshold) UnmarshalYAML(n *yaml.Node) error {
	type plain Threshold
	if !t.accept(n) {
		return nil
	}
	return t.record(n, n.Decode((*plain)(t)))
}

// FrameworkMappings maps a check onto external control frameworks.
type FrameworkMappings struct {
	NISTCSF     *NISTMapping      `yaml:"nist_csf"`
	CISv8       *ControlMapping   `yaml:"cis_v8"`
	CISM365     *BenchmarkMapping `yaml:"cis_m365"`
	ISO27001    *ControlMapping   `yaml:"iso_27001"`
	MITREAttack *TechniqueMapping `yaml:"mitre_attack"`

	section `yaml:"-"`
}

func (m *FrameworkMappings) UnmarshalYAML(n *yaml.Node) error {
	type plain FrameworkMappings
	if !m.accept(n) {
		return nil
	}
	return m.record(n, n.Decode((*plain)(m)))
}

// NISTMapping is the NIST Cybersecurity Framework mapping.
type NISTMapping struct {
	Function   Field[string] `yaml:"function"`
	Categories []string      `yaml:"categories"`
	Controls   []string      `yaml:"controls"`

	section `yaml:"-"`
}

func (m *NISTMapping) UnmarshalYAML(n *yaml.Node) error {
	type plain NISTMapping
	if !m.accept(n) {
		return nil
	}
	return m.record(n, n.Decode((*plain)(m)))
}

// ControlMapping lists control identifiers of a framework (CIS v8, ISO 27001).
type ControlMapping struct {
	Version  string   `yaml:"version,omitempty"`
	Controls []string `yaml:"controls"`
}

// BenchmarkMapping lists CIS Microsoft 365 benchmark recommendations.
type BenchmarkMapping struct {
	Version         string   `yaml:"version"`
	Recommendations []string `yaml:"recommendations"`
}

// TechniqueMapping lists MITRE ATT&CK technique identifiers.
type TechniqueMapping struct {
	Techniques []string `yaml:"techniques"`
}

// Remediation describes how a failing check is fixed.
type Remediation struct {
	AutomatedFixAvailable Field[bool]           `yaml:"automated_fix_available"`
	OneSecureRemediable   Field[bool]           `yaml:"1secure_remediable"`
	FixComplexity         string                `yaml:"fix_complexity"`
	EstimatedTimeMinutes  Field[int]            `yaml:"estimated_time_minutes"`
	Prerequisites         []string              `yaml:"prerequisites"`
	Steps                 List[RemediationStep] `yaml:"steps"`

	section `yaml:"-"`
}

func (r *Remediation) UnmarshalYAML(n *yaml.Node) error {
	type plain Remediation
	if !r.accept(n) {
		return nil
	}
	return r.record(n, n.Decode((*plain)(r)))
}

// RemediationStep is one ordered action of a remediation plan.
type RemediationStep struct {
	Step           Field[int] `yaml:"step"`
	LevelTarget    []int      `yaml:"level_target"`
	Action         string     `yaml:"action"`
	Details        string     `yaml:"details"`
	RequiresManual bool       `yaml:"requires_manual"`
	ManualReason   string     `yaml:"manual_reason"`

	section `yaml:"-"`
}

func (s *RemediationStep) UnmarshalYAML(n *yaml.Node) error {
	type plain RemediationStep
	if !s.accept(n) {
		return nil
	}
	return s.record(n, n.Decode((*plain)(s)))
}

// PowerPointExport tags a check for the executive slide deck (schema 2.1).
type PowerPointExport struct {
	Include            Field[bool]   `yaml:"include"`
	Priority           Field[string] `yaml:"priority"`
	SlideSection       string        `yaml:"slide_section"`
	ChartVisualization Field[string] `yaml:"chart_visualization"`
	ExecutiveSummary   Field[string] `yaml:"executive_summary"`

	section `yaml:"-"`
}

func (p *PowerPointExport) UnmarshalYAML(n *yaml.Node) error {
	type plain PowerPointExport
	if !p.accept(n) {
		return nil
	}
	return p.record(n, n.Decode((*plain)(p)))
}

// Metadata carries versioning and review information.
type Metadata struct {
	Version       Field[string] `yaml:"version"`
	SchemaVersion Field[string] `yaml:"schema_version"`
	LastReviewed  Field[string] `yaml:"last_reviewed"`
	NextReviewDue Field[string] `yaml:"next_review_due"`
	LastUpdated   string        `yaml:"last_updated"`
	ReviewedBy    string        `yaml:"reviewed_by"`
	ChangeHistory []Change      `yaml:"change_history"`

	section `yaml:"-"`
}

func (m *Metadata) UnmarshalYAML(n *yaml.Node) error {
	type plain Metadata
	if !m.accept(n) {
		return nil
	}
	return m.record(n, n.Decode((*plain)(m)))
}

// Change is one change_history entry.
type Change struct {
	Date    string `yaml:"date"`
	Version string `yaml:"version"`
	Change  string `yaml:"change"`
	Author  string `yaml:"author"`
}
