package catalog

// RequiredFields are the top-level keys every check must carry.
var RequiredFields = []string{
	"check_id", "title", "short_description", "detailed_description",
	"category", "platform", "drive_pillars", "automatable", "owner",
	"status", "detection", "level_thresholds", "framework_mappings",
	"remediation", "validation", "references", "metadata",
}

// RequiredThresholdFields are the keys every threshold must carry under the
// binary pass/fail model. points_deduction belongs to the older weighted
// schema and is accepted but never required.
var RequiredThresholdFields = []string{
	"level", "threshold_id", "threshold_condition", "threshold_description",
	"severity", "business_impact", "threat_timeline", "attacker_profile",
	"cvss_score", "remediation_priority",
}

// RecommendedRemediationFields should appear in every remediation section.
var RecommendedRemediationFields = []string{
	"automated_fix_available", "1secure_remediable", "fix_complexity",
	"estimated_time_minutes", "prerequisites", "steps",
}

var (
	Severities = []string{"Critical", "High", "Medium", "Low"}

	Platforms = []string{
		"Active Directory", "SharePoint", "OneDrive", "Teams",
		"Exchange Online", "File System", "Azure AD", "Entra ID",
	}

	// Pillars are the DRIVE risk dimensions: Data, Risk, Identity,
	// Vulnerability, Exposure.
	Pillars = []string{"D", "R", "I", "V", "E"}

	Statuses = []string{"active", "draft", "deprecated", "archived"}

	NISTFunctions = []string{"IDENTIFY", "PROTECT", "DETECT", "RESPOND", "RECOVER", "GOVERN"}

	SchemaVersions = []string{"2.0", "2.1"}

	ChartVisualizations = []string{"gauge", "trend", "bar", "pie", "heatmap", "table"}
)

const (
	MinLevel = 1
	MaxLevel = 5

	MinCVSS = 0.0
	MaxCVSS = 10.0

	// SchemaWithExport is the first schema version that expects powerpoint_export.
	SchemaWithExport = "2.1"

	MaxExecutiveSummaryLen = 200
)

// PowerPoint export priority tiers.
const (
	PriorityPrimary    = "1-PrimaryFocus"
	PrioritySecondary  = "2-SecondaryFocus"
	PriorityAdditional = "3-AdditionalFinding"
	PriorityExclude    = "4-Exclude"
)

var ExportPriorities = []string{PriorityPrimary, PrioritySecondary, PriorityAdditional, PriorityExclude}

var severityRank = map[string]int{
	"Critical": 4,
	"High":     3,
	"Medium":   2,
	"Low":      1,
}

// SeverityRank orders severities, Critical highest. Unknown values rank 0.
func SeverityRank(severity string) int {
	return severityRank[severity]
}

// OneOf reports whether v is in set.
func OneOf(v string, set []string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
