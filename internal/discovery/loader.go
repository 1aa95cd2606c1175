// Package discovery locates check record files on disk.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Threatwrix/drive-maturity-model/internal/logging"
)

// Extensions are the file suffixes treated as check records.
var Extensions = []string{".yaml", ".yml"}

// FindChecks lists the check files directly under dir, sorted by path.
// Subdirectories are not descended into. An empty directory is not an error:
// it yields no paths and a warning.
func FindChecks(dir string) ([]string, []string, error) {
	logger := logging.WithComponent("discovery")
	var warnings []string

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read checks directory %q: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !IsCheckFile(entry.Name()) {
			logger.Debug().Str("file", entry.Name()).Msg("skipping non-YAML file")
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		warnings = append(warnings, fmt.Sprintf("no YAML files found in %s", dir))
	}

	logger.Debug().Str("dir", dir).Int("count", len(paths)).Msg("discovered check files")
	return paths, warnings, nil
}

// IsCheckFile reports whether name carries a check record extension.
func IsCheckFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
