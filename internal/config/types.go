package config

// Config is the user configuration shared by the check tools, normally read
// from drive-checks.yaml in the working directory.
type Config struct {
	ChecksDir   string        `yaml:"checks_dir"`
	MetricsFile string        `yaml:"metrics_file"` // Prometheus textfile, empty to disable
	Log         LogConfig     `yaml:"log"`
	Output      OutputConfig  `yaml:"output"`
	Catalog     CatalogConfig `yaml:"catalog"`
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "console", "json"
}

// OutputConfig controls the validation report on stdout.
type OutputConfig struct {
	Color bool `yaml:"color"`
}

// CatalogConfig controls where the web catalog is written.
type CatalogConfig struct {
	OutputDir string `yaml:"output_dir"`
	Fallback  string `yaml:"fallback"` // existing catalog used when no check loads
}
