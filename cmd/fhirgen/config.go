package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	fhirmodel "github.com/gofhir/model"
	"github.com/gofhir/model/pkg/logger"
	"github.com/gofhir/model/pkg/registry"
)

// Config is the fhirgen configuration, read from a YAML or TOML file and
// overridden by flags.
type Config struct {
	// FHIRVersion selects the default packages: R4, R4B, R5 or a version
	// number such as 4.0.1.
	FHIRVersion string `yaml:"fhirVersion" toml:"fhirVersion"`

	// PackageCache is the FHIR package cache, ~/.fhir/packages by default.
	PackageCache string `yaml:"packageCache,omitempty" toml:"packageCache"`

	// Packages replaces the default packages. Entries are name#version
	// specs, .tgz files, package directories or URLs.
	Packages StringList `yaml:"packages,omitempty" toml:"packages"`

	// Types lists the types to generate. When empty every non-abstract
	// type of Kinds is generated.
	Types StringList `yaml:"types,omitempty" toml:"types"`
	Kinds StringList `yaml:"kinds,omitempty" toml:"kinds"`

	Output   string `yaml:"output" toml:"output"`
	Package  string `yaml:"package" toml:"package"`
	Workers  int    `yaml:"workers,omitempty" toml:"workers"`
	LogLevel string `yaml:"logLevel,omitempty" toml:"logLevel"`
}

// StringList is a YAML value that can be either a string or a list of
// strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler for StringList.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = []string{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("expected string or list, got %v", node.Kind)
	}
}

// UnmarshalTOML implements toml.Unmarshaler for StringList.
func (s *StringList) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		*s = []string{v}
		return nil
	case []any:
		list := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return fmt.Errorf("expected string list entry, got %T", item)
			}
			list = append(list, str)
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("expected string or list, got %T", v)
	}
}

// DefaultConfig generates resources and complex types of R4 into ./model.
func DefaultConfig() *Config {
	return &Config{
		FHIRVersion: fhirmodel.R4.String(),
		Kinds:       StringList{registry.KindResource, registry.KindComplexType},
		Output:      "model",
		Package:     "model",
		LogLevel:    "info",
	}
}

// LoadConfig reads a configuration on top of DefaultConfig. Files ending in
// .toml are TOML, anything else YAML. Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = decodeTOML(data, cfg)
	} else {
		err = decodeYAML(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func decodeTOML(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks the configuration before any package is loaded.
func (c *Config) Validate() error {
	var errs []error
	if _, err := fhirmodel.ParseVersion(c.FHIRVersion); err != nil {
		errs = append(errs, err)
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Package == "" {
		errs = append(errs, errors.New("package name is required"))
	}
	if len(c.Types) == 0 && len(c.Kinds) == 0 {
		errs = append(errs, errors.New("either types or kinds must be set"))
	}
	for _, k := range c.Kinds {
		switch k {
		case registry.KindResource, registry.KindComplexType:
		default:
			errs = append(errs, fmt.Errorf("unsupported kind %q", k))
		}
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
