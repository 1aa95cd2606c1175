package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Threatwrix/drive-maturity-model/internal/runner"
	"github.com/Threatwrix/drive-maturity-model/internal/validate"
)

func sampleRun() ([]runner.Outcome, runner.Tally) {
	outcomes := []runner.Outcome{
		{Path: "a.yaml", Result: &validate.Result{}},
		{Path: "b.yaml", Result: &validate.Result{Warnings: []string{"w1", "w2"}}},
		{Path: "c.yaml", Result: &validate.Result{Errors: []string{"e1"}, Info: []string{"i1"}}},
	}
	var tally runner.Tally
	for _, o := range outcomes {
		tally.Add(o.Result)
	}
	return outcomes, tally
}

func TestObserveRun(t *testing.T) {
	m := New()
	m.ObserveRun(sampleRun())

	counts := map[string]float64{
		"passed":               1,
		"passed_with_warnings": 1,
		"failed":               1,
	}
	for outcome, want := range counts {
		if got := testutil.ToFloat64(m.RecordsValidated.WithLabelValues(outcome)); got != want {
			t.Errorf("records_validated_total{outcome=%q} = %v, want %v", outcome, got, want)
		}
	}

	if got := testutil.ToFloat64(m.Diagnostics.WithLabelValues("warning")); got != 2 {
		t.Errorf("warning diagnostics = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Diagnostics.WithLabelValues("error")); got != 1 {
		t.Errorf("error diagnostics = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.LastRunFailed); got != 1 {
		t.Errorf("last_run_failed = %v, want 1", got)
	}
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.Observe(&validate.Result{})

	if got := testutil.ToFloat64(b.RecordsValidated.WithLabelValues("passed")); got != 0 {
		t.Errorf("second instance saw %v records", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveRun(sampleRun())

	path := filepath.Join(t.TempDir(), "drive_checks.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{
		`drive_checks_records_validated_total{outcome="failed"} 1`,
		`drive_checks_diagnostics_total{severity="warning"} 2`,
		"drive_checks_last_run_failed 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("textfile missing %q:\n%s", want, out)
		}
	}
}

func TestWriteTextfile_BadPath(t *testing.T) {
	m := New()
	if err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom")); err == nil {
		t.Fatal("expected error for unwritable path")
	}
}
