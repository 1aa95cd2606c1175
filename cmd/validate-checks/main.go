package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Threatwrix/drive-maturity-model/internal/config"
	"github.com/Threatwrix/drive-maturity-model/internal/discovery"
	"github.com/Threatwrix/drive-maturity-model/internal/logging"
	"github.com/Threatwrix/drive-maturity-model/internal/metrics"
	"github.com/Threatwrix/drive-maturity-model/internal/report"
	"github.com/Threatwrix/drive-maturity-model/internal/runner"
	"github.com/Threatwrix/drive-maturity-model/internal/validate"
)

var version = "2.1.0"

// errValidationFailed signals that at least one record failed; the report
// already explains why.
var errValidationFailed = errors.New("validation failed")

func main() {
	configPath := flag.String("config", "", "path to configuration file (default "+config.DefaultPath+" if present); "+
		"its checks_dir (default checks) resolves against the working directory and a missing directory exits 1")
	noColor := flag.Bool("no-color", false, "disable coloured output")
	metricsFile := flag.String("metrics-file", "", "write Prometheus metrics to this textfile")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Usage = func() {
		usage(flag.CommandLine.Output())
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("validate-checks %s\n", version)
		os.Exit(0)
	}

	opts := runOpts{
		ConfigPath:  *configPath,
		NoColor:     *noColor,
		MetricsFile: *metricsFile,
		Target:      flag.Arg(0),
	}

	if err := run(opts, os.Stdout); err != nil {
		if !errors.Is(err, errValidationFailed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "usage: validate-checks [flags] [file-or-directory]\n\n")
	fmt.Fprintf(w, "With no path, checks_dir from the config (default %q) is resolved\n", config.Default().ChecksDir)
	fmt.Fprintf(w, "against the current working directory. A missing directory exits 1.\n\n")
}

type runOpts struct {
	ConfigPath  string
	NoColor     bool
	MetricsFile string
	Target      string
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadOptional(config.DefaultPath)
	}
	return config.Load(path)
}

func run(opts runOpts, stdout io.Writer) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logger := logging.WithComponent("validate-checks")

	printer := report.New(stdout, cfg.Output.Color && !opts.NoColor)

	target := opts.Target
	if target == "" {
		target = cfg.ChecksDir
	}
	info, err := os.Stat(target)
	if err != nil {
		if opts.Target == "" {
			return fmt.Errorf("checks directory not found: %s", target)
		}
		return fmt.Errorf("invalid path: %s", target)
	}

	var (
		outcomes []runner.Outcome
		tally    runner.Tally
	)
	if info.IsDir() {
		paths, warnings, err := discovery.FindChecks(target)
		if err != nil {
			return err
		}
		for _, w := range warnings {
			printer.Notice(w)
		}
		if len(paths) == 0 {
			return nil
		}

		printer.Header(len(paths))
		outcomes, tally = runner.Run(paths, validate.File)
		printer.Outcomes(outcomes)
		printer.Summary(tally)
	} else {
		outcomes, tally = runner.Run([]string{target}, validate.File)
		printer.Record(target, outcomes[0].Result)
	}
	logger.Info().
		Int("total", tally.Total).
		Int("failed", tally.Failed).
		Msg("validation finished")

	metricsFile := cfg.MetricsFile
	if opts.MetricsFile != "" {
		metricsFile = opts.MetricsFile
	}
	if metricsFile != "" {
		m := metrics.New()
		m.ObserveRun(outcomes, tally)
		if err := m.WriteTextfile(metricsFile); err != nil {
			return err
		}
	}

	if !tally.OK() {
		return errValidationFailed
	}
	return nil
}
