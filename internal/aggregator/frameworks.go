package aggregator

// FrameworkDefinition describes an external control framework that checks
// can be mapped onto.
type FrameworkDefinition struct {
	ID          string
	Name        string
	Description string

	// mapped reports whether a catalog entry references the framework.
	mapped func(e *Entry) bool
}

var NISTCSFFramework = FrameworkDefinition{
	ID:          "nist_csf",
	Name:        "NIST CSF 2.0",
	Description: "NIST Cybersecurity Framework functions and subcategories",
	mapped:      func(e *Entry) bool { return e.NISTCSFFunction != "" || e.NISTCSFID != "" },
}

var CISv8Framework = FrameworkDefinition{
	ID:          "cis_v8",
	Name:        "CIS Controls v8",
	Description: "Center for Internet Security Critical Security Controls",
	mapped:      func(e *Entry) bool { return e.CISv8Control != "" },
}

var CISM365Framework = FrameworkDefinition{
	ID:          "cis_m365",
	Name:        "CIS Microsoft 365 Benchmark",
	Description: "CIS Microsoft 365 Foundations Benchmark recommendations",
	mapped:      func(e *Entry) bool { return e.CISM365Benchmark != "" },
}

var ISO27001Framework = FrameworkDefinition{
	ID:          "iso_27001",
	Name:        "ISO/IEC 27001:2022",
	Description: "Annex A information security controls",
	mapped:      func(e *Entry) bool { return e.ISO27001Annex != "" },
}

var MITREAttackFramework = FrameworkDefinition{
	ID:          "mitre_attack",
	Name:        "MITRE ATT&CK",
	Description: "Adversary tactics and techniques knowledge base",
	mapped:      func(e *Entry) bool { return e.Tags != "" },
}

// AllFrameworks returns every framework definition in report order.
func AllFrameworks() []FrameworkDefinition {
	return []FrameworkDefinition{
		NISTCSFFramework,
		CISv8Framework,
		CISM365Framework,
		ISO27001Framework,
		MITREAttackFramework,
	}
}

// Maps reports whether e references the framework.
func (f FrameworkDefinition) Maps(e *Entry) bool {
	return f.mapped != nil && f.mapped(e)
}
