package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Threatwrix/drive-maturity-model/internal/aggregator"
	"github.com/Threatwrix/drive-maturity-model/internal/config"
	"github.com/Threatwrix/drive-maturity-model/internal/logging"
)

var version = "2.1.0"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default "+config.DefaultPath+" if present)")
	outDir := flag.String("out", "", "directory to write the catalog into (overrides catalog.output_dir)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: aggregate-checks [flags] [checks-directory]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("aggregate-checks %s\n", version)
		os.Exit(0)
	}

	opts := runOpts{
		ConfigPath: *configPath,
		OutDir:     *outDir,
		ChecksDir:  flag.Arg(0),
	}

	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type runOpts struct {
	ConfigPath string
	OutDir     string
	ChecksDir  string
}

func run(opts runOpts, stdout io.Writer) error {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigPath == "" {
		cfg, err = config.LoadOptional(config.DefaultPath)
	} else {
		cfg, err = config.Load(opts.ConfigPath)
	}
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logger := logging.WithComponent("aggregate-checks")

	checksDir := opts.ChecksDir
	if checksDir == "" {
		checksDir = cfg.ChecksDir
	}
	outDir := opts.OutDir
	if outDir == "" {
		outDir = cfg.Catalog.OutputDir
	}

	res, err := aggregator.Build(checksDir)
	if err != nil {
		logger.Warn().Err(err).Msg("could not read checks directory")
		res = &aggregator.BuildResult{}
	}

	entries := res.Entries
	if len(entries) == 0 {
		fmt.Fprintf(stdout, "No checks were aggregated, falling back to %s\n", cfg.Catalog.Fallback)
		entries, err = aggregator.LoadFallback(cfg.Catalog.Fallback)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Loaded %d checks from existing catalog\n", len(entries))
	}

	stats := aggregator.ComputeStats(entries)
	aggregator.PrintBuildSummary(stdout, res, stats)

	if err := aggregator.WriteCatalog(outDir, entries, stats); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %d checks to %s\n", len(entries), filepath.Join(outDir, aggregator.CatalogFile))
	fmt.Fprintf(stdout, "Wrote statistics to %s\n", filepath.Join(outDir, aggregator.StatsFile))
	return nil
}
