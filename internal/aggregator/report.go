package aggregator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
)

// Output file names inside the catalog directory.
const (
	CatalogFile = "drive_risk_catalog.json"
	StatsFile   = "stats.json"
)

// ErrNoChecks is returned when nothing was loaded and no fallback catalog
// could be read.
var ErrNoChecks = errors.New("no checks available")

// LoadFallback reads a previously published catalog.
func LoadFallback(path string) ([]Entry, error) {
	if path == "" {
		return nil, ErrNoChecks
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read fallback catalog %q: %v", ErrNoChecks, path, err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: fallback catalog %q is not a valid catalog: %v", ErrNoChecks, path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: fallback catalog %q is empty", ErrNoChecks, path)
	}
	return entries, nil
}

// WriteCatalog writes the catalog and its statistics into outDir, creating
// the directory if needed.
func WriteCatalog(outDir string, entries []Entry, stats *Stats) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create catalog directory %q: %w", outDir, err)
	}
	if err := writeJSON(filepath.Join(outDir, CatalogFile), entries); err != nil {
		return err
	}
	return writeJSON(filepath.Join(outDir, StatsFile), stats)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", path, err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return nil
}

// PrintBuildSummary renders the load result and catalog statistics.
func PrintBuildSummary(w io.Writer, res *BuildResult, stats *Stats) {
	printBanner(w)
	fmt.Fprintf(w, "  Aggregated %d checks from %d YAML files\n", len(res.Entries), res.Files)
	fmt.Fprintf(w, "  Build:     %s\n", stats.BuildID)
	fmt.Fprintf(w, "  Generated: %s\n\n", stats.GeneratedAt)

	if len(res.Errors) > 0 {
		fmt.Fprintf(w, "  Errors (%d):\n", len(res.Errors))
		for _, e := range res.Errors {
			fmt.Fprintf(w, "    %s\n", e)
		}
		fmt.Fprintf(w, "\n")
	}

	printCounts(w, "PLATFORM", stats.ByPlatform)
	printCoverage(w, stats)
}

func printBanner(w io.Writer) {
	fmt.Fprintf(w, "============================================================\n")
	fmt.Fprintf(w, "          DRIVE RISK CATALOG :: BUILD SUMMARY\n")
	fmt.Fprintf(w, "============================================================\n")
}

func printCounts(w io.Writer, label string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  %s\tCHECKS\n", label)
	fmt.Fprintf(tw, "  %s\t------\n", strings.Repeat("-", len(label)))
	for _, k := range keys {
		fmt.Fprintf(tw, "  %s\t%d\n", k, counts[k])
	}
	tw.Flush()
	fmt.Fprintf(w, "\n")
}

func printCoverage(w io.Writer, stats *Stats) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  FRAMEWORK\tCOVERAGE\tMAPPED\n")
	fmt.Fprintf(tw, "  ---------\t--------\t------\n")
	for _, fw := range AllFrameworks() {
		cov := stats.FrameworkCoverage[fw.ID]
		fmt.Fprintf(tw, "  %s\t%s %.0f%%\t%d\n", cov.Name, renderBar(cov.Percent, 20), cov.Percent, cov.Mapped)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n")
}

func renderBar(pct float64, width int) string {
	filled := int(pct / 100 * float64(width))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
