package discovery

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("check_id: X\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindChecks(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yml", "a.yaml", "notes.md", "c.YAML"} {
		touch(t, filepath.Join(dir, name))
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	touch(t, filepath.Join(dir, "sub", "d.yaml"))

	paths, warnings, err := FindChecks(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	want := []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "b.yml"),
		filepath.Join(dir, "c.YAML"),
	}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
}

func TestFindChecks_Empty(t *testing.T) {
	paths, warnings, err := FindChecks(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("expected no paths, got %v", paths)
	}
	if len(warnings) != 1 {
		t.Errorf("expected one warning, got %v", warnings)
	}
}

func TestFindChecks_MissingDir(t *testing.T) {
	if _, _, err := FindChecks(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestIsCheckFile(t *testing.T) {
	tests := map[string]bool{
		"check.yaml":     true,
		"check.yml":      true,
		"CHECK.YML":      true,
		"check.json":     false,
		"yaml":           false,
		"check.yaml.bak": false,
	}
	for name, want := range tests {
		if got := IsCheckFile(name); got != want {
			t.Errorf("IsCheckFile(%q) = %v, want %v", name, got, want)
		}
	}
}
