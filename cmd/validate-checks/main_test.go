package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validCheck = `check_id: TEAMS-EXT-001
title: External access open to all domains
short_description: Teams federation is unrestricted
detailed_description: Users can chat with any external organisation.
category: Collaboration
platform: Teams
drive_pillars: [E]
automatable: true
owner: DRIVE-Team
status: active
detection: {}
level_thresholds:
  - level: 1
    threshold_id: TEAMS-EXT-001-L1
    threshold_condition: allowed_domains == "*"
    threshold_description: Federation open to every domain
    severity: Critical
    business_impact: Phishing and data exfiltration over chat
    threat_timeline: Hours
    attacker_profile: External phishing crews
    cvss_score: 9.1
    remediation_priority: 1
framework_mappings:
  nist_csf:
    function: PROTECT
  cis_v8:
    controls: ["4.4"]
remediation:
  automated_fix_available: true
  1secure_remediable: false
  fix_complexity: Low
  estimated_time_minutes: 15
  prerequisites: [Teams administrator]
  steps:
    - step: 1
      action: Restrict federation to an allow list
validation: {}
references: {}
metadata:
  version: 1.0.0
  schema_version: "2.0"
  last_reviewed: 2025-10-14
`

func setup(t *testing.T, files map[string]string) (dir, cfgPath string) {
	t.Helper()
	root := t.TempDir()
	dir = filepath.Join(root, "checks")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfgPath = filepath.Join(root, "drive-checks.yaml")
	cfg := "checks_dir: " + dir + "\noutput:\n  color: false\nlog:\n  level: error\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, cfgPath
}

func TestRun_Directory(t *testing.T) {
	t.Setenv("DRIVE_CHECKS_DIR", "")
	dir, cfgPath := setup(t, map[string]string{
		"a.yaml": validCheck,
		"b.yaml": strings.Replace(validCheck, "platform: Teams", "platform: Slack", 1),
	})

	var out bytes.Buffer
	if err := run(runOpts{ConfigPath: cfgPath}, &out); err != nil {
		t.Fatalf("run: %v\n%s", err, out.String())
	}

	got := out.String()
	for _, want := range []string{
		"Validating 2 check files...",
		filepath.Join(dir, "a.yaml") + ": PASSED\n",
		filepath.Join(dir, "b.yaml") + ": PASSED with warnings",
		"WARNING: Unusual platform: Slack",
		"Passed: 1",
		"Total: 2",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRun_FailingRecord(t *testing.T) {
	t.Setenv("DRIVE_CHECKS_DIR", "")
	dir, cfgPath := setup(t, map[string]string{
		"a.yaml": validCheck,
		"b.yaml": strings.Replace(validCheck, "severity: Critical", "severity: Extreme", 1),
	})
	metricsPath := filepath.Join(t.TempDir(), "drive.prom")

	var out bytes.Buffer
	err := run(runOpts{ConfigPath: cfgPath, Target: dir, MetricsFile: metricsPath}, &out)
	if !errors.Is(err, errValidationFailed) {
		t.Fatalf("expected validation failure, got %v", err)
	}
	if !strings.Contains(out.String(), "Failed: 1") {
		t.Errorf("summary should count the failure:\n%s", out.String())
	}

	data, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	if !strings.Contains(string(data), `drive_checks_records_validated_total{outcome="failed"} 1`) {
		t.Errorf("unexpected metrics:\n%s", data)
	}
}

func TestRun_SingleFile(t *testing.T) {
	dir, cfgPath := setup(t, map[string]string{
		"good.yaml": validCheck,
		"bad.yaml":  "check_id: [\n",
	})

	var out bytes.Buffer
	good := filepath.Join(dir, "good.yaml")
	if err := run(runOpts{ConfigPath: cfgPath, Target: good}, &out); err != nil {
		t.Fatalf("valid file: %v\n%s", err, out.String())
	}
	if strings.Contains(out.String(), "Validation Summary") {
		t.Error("single-file mode prints no summary")
	}

	out.Reset()
	bad := filepath.Join(dir, "bad.yaml")
	if err := run(runOpts{ConfigPath: cfgPath, Target: bad}, &out); !errors.Is(err, errValidationFailed) {
		t.Fatalf("invalid file: expected failure, got %v", err)
	}
	if !strings.Contains(out.String(), "ERROR: YAML parsing error") {
		t.Errorf("expected parse error in output:\n%s", out.String())
	}
}

func TestRun_InvalidPath(t *testing.T) {
	_, cfgPath := setup(t, nil)

	var out bytes.Buffer
	err := run(runOpts{ConfigPath: cfgPath, Target: filepath.Join(t.TempDir(), "absent")}, &out)
	if err == nil || errors.Is(err, errValidationFailed) || !strings.Contains(err.Error(), "invalid path") {
		t.Fatalf("expected invalid path error, got %v", err)
	}
}

func TestRun_EmptyDirectory(t *testing.T) {
	t.Setenv("DRIVE_CHECKS_DIR", "")
	_, cfgPath := setup(t, nil)

	var out bytes.Buffer
	if err := run(runOpts{ConfigPath: cfgPath}, &out); err != nil {
		t.Fatalf("empty directory is not a failure: %v", err)
	}
	if !strings.Contains(out.String(), "no YAML files found") {
		t.Errorf("expected notice:\n%s", out.String())
	}
}

func TestUsage_DescribesDefaultDirectory(t *testing.T) {
	var buf bytes.Buffer
	usage(&buf)

	out := buf.String()
	for _, want := range []string{`"checks"`, "current working directory", "missing directory exits 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("usage should mention %q:\n%s", want, out)
		}
	}
}
