package runner

import (
	"testing"

	"github.com/Threatwrix/drive-maturity-model/internal/validate"
)

func fakeValidator(results map[string]*validate.Result) Validator {
	return func(path string) *validate.Result {
		return results[path]
	}
}

func TestRun(t *testing.T) {
	results := map[string]*validate.Result{
		"a.yaml": {},
		"b.yaml": {Warnings: []string{"Unusual platform: Dropbox"}},
		"c.yaml": {Errors: []string{"Missing required field: title"}},
		"d.yaml": {Errors: []string{"File not found: d.yaml"}},
		"e.yaml": {},
	}
	paths := []string{"a.yaml", "b.yaml", "c.yaml", "d.yaml", "e.yaml"}

	outcomes, tally := Run(paths, fakeValidator(results))

	if len(outcomes) != len(paths) {
		t.Fatalf("expected %d outcomes, got %d", len(paths), len(outcomes))
	}
	for i, o := range outcomes {
		if o.Path != paths[i] {
			t.Errorf("outcome %d: path %q, want %q", i, o.Path, paths[i])
		}
		if o.Result.Path != paths[i] {
			t.Errorf("outcome %d: result path not filled in", i)
		}
	}

	want := Tally{Passed: 2, PassedWithWarnings: 1, Failed: 2, Total: 5}
	if tally != want {
		t.Errorf("tally = %+v, want %+v", tally, want)
	}
	if tally.OK() {
		t.Error("tally with failures should not be OK")
	}
}

func TestRun_AllPassing(t *testing.T) {
	results := map[string]*validate.Result{
		"a.yaml": {},
		"b.yaml": {Warnings: []string{"Missing CIS v8 mapping - recommended for all checks"}},
	}

	_, tally := Run([]string{"a.yaml", "b.yaml"}, fakeValidator(results))
	if !tally.OK() {
		t.Errorf("warnings must not fail the run: %+v", tally)
	}
}

func TestRun_Empty(t *testing.T) {
	outcomes, tally := Run(nil, fakeValidator(nil))
	if len(outcomes) != 0 || tally.Total != 0 || !tally.OK() {
		t.Errorf("empty run: outcomes=%v tally=%+v", outcomes, tally)
	}
}
