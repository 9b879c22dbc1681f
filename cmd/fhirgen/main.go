// Package main implements fhirgen, which generates Go model types from FHIR
// packages.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	fhirmodel "github.com/gofhir/model"
	"github.com/gofhir/model/pkg/codegen"
	"github.com/gofhir/model/pkg/loader"
	"github.com/gofhir/model/pkg/logger"
	"github.com/gofhir/model/pkg/registry"
	"github.com/gofhir/model/pkg/schema"
)

const (
	version = "0.1.0"
	usage   = `fhirgen - FHIR model generator

Usage:
  fhirgen [options]
  fhirgen -config fhirgen.yaml

Examples:
  fhirgen -fhir-version R4 -out ./model -pkg model
  fhirgen -types Patient,Observation,CarePlan -out ./r4 -pkg r4
  fhirgen -package hl7.fhir.r4.core#4.0.1,./my-ig.tgz -kinds resource

Options:
`
)

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if cfg == nil {
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := run(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated %d file(s) in %s, skipped %d type(s)\n", len(res.Files), cfg.Output, len(res.Skipped))
}

// parseFlags builds the configuration from an optional config file and the
// flags explicitly set on the command line. It returns nil, nil when only
// help or version output was requested.
func parseFlags(args []string) (*Config, error) {
	fs := flag.NewFlagSet("fhirgen", flag.ContinueOnError)
	var (
		configPath   = fs.String("config", "", "YAML configuration file")
		fhirVersion  = fs.String("fhir-version", "", "FHIR version (R4, R4B, R5 or 4.0.1, 4.3.0, 5.0.0)")
		packages     = fs.String("package", "", "Package sources to load instead of the defaults (comma-separated)")
		packageCache = fs.String("cache", "", "FHIR package cache directory")
		types        = fs.String("types", "", "Types to generate (comma-separated)")
		kinds        = fs.String("kinds", "", "Kinds to generate when -types is empty: resource, complex-type")
		output       = fs.String("out", "", "Output directory")
		pkgName      = fs.String("pkg", "", "Go package name")
		workers      = fs.Int("workers", 0, "Files rendered in parallel (default GOMAXPROCS)")
		logLevel     = fs.String("log", "", "Log level: debug, info, warn, error, none")
		showVersion  = fs.Bool("v", false, "Show version")
	)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil
		}
		return nil, err
	}
	if *showVersion {
		fmt.Printf("fhirgen v%s\n", version)
		return nil, nil
	}

	cfg := DefaultConfig()
	if *configPath != "" {
		loaded, err := LoadConfig(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "fhir-version":
			cfg.FHIRVersion = *fhirVersion
		case "package":
			cfg.Packages = splitList(*packages)
		case "cache":
			cfg.PackageCache = *packageCache
		case "types":
			cfg.Types = splitList(*types)
		case "kinds":
			cfg.Kinds = splitList(*kinds)
		case "out":
			cfg.Output = *output
		case "pkg":
			cfg.Package = *pkgName
		case "workers":
			cfg.Workers = *workers
		case "log":
			cfg.LogLevel = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitList(s string) StringList {
	var out StringList
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// run loads the configured packages, converts the selected types and
// writes the generated package.
func run(ctx context.Context, cfg *Config) (*codegen.Result, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)
	log := logger.Default().Named("fhirgen")

	v, err := fhirmodel.ParseVersion(cfg.FHIRVersion)
	if err != nil {
		return nil, err
	}

	packages, err := loadPackages(ctx, loader.NewLoader(cfg.PackageCache), v, cfg.Packages)
	if err != nil {
		return nil, err
	}
	reg := registry.New()
	if err := reg.LoadFromPackages(packages); err != nil {
		return nil, err
	}
	log.Info("loaded %d structure definitions, %d types", reg.Count(), reg.TypeCount())

	names := []string(cfg.Types)
	if len(names) == 0 {
		for _, kind := range cfg.Kinds {
			names = append(names, reg.Types(kind)...)
		}
	}
	defs := make([]*schema.TypeDef, 0, len(names))
	for _, name := range names {
		def, err := reg.TypeDef(name)
		if err != nil {
			log.Warn("%v", err)
			continue
		}
		defs = append(defs, def)
	}
	if len(defs) == 0 {
		return nil, errors.New("no types to generate")
	}

	gen, err := codegen.New(
		codegen.WithPackageName(cfg.Package),
		codegen.WithOutputDir(cfg.Output),
		codegen.WithWorkers(cfg.Workers),
		codegen.WithLogger(logger.Default().Named("codegen")),
	)
	if err != nil {
		return nil, err
	}
	return gen.Generate(ctx, defs)
}

func loadPackages(ctx context.Context, l *loader.Loader, v fhirmodel.FHIRVersion, sources []string) ([]*loader.Package, error) {
	if len(sources) == 0 {
		return l.LoadVersion(v.Number())
	}
	packages := make([]*loader.Package, 0, len(sources))
	for _, src := range sources {
		pkg, err := l.Load(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", src, err)
		}
		packages = append(packages, pkg)
	}
	return packages, nil
}
