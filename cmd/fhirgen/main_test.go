package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("full", func(t *testing.T) {
		path := writeFile(t, dir, "full.yaml", `
fhirVersion: 4.0.1
packages:
  - hl7.fhir.r4.core#4.0.1
  - ./ig.tgz
types: CarePlan
output: ./r4
package: r4
workers: 4
logLevel: debug
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "4.0.1", cfg.FHIRVersion)
		assert.Equal(t, StringList{"hl7.fhir.r4.core#4.0.1", "./ig.tgz"}, cfg.Packages)
		assert.Equal(t, StringList{"CarePlan"}, cfg.Types, "a scalar becomes a one-entry list")
		assert.Equal(t, "r4", cfg.Package)
		assert.Equal(t, 4, cfg.Workers)
		assert.Equal(t, StringList{"resource", "complex-type"}, cfg.Kinds, "defaults survive")
		assert.NoError(t, cfg.Validate())
	})

	t.Run("empty file keeps defaults", func(t *testing.T) {
		cfg, err := LoadConfig(writeFile(t, dir, "empty.yaml", ""))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := LoadConfig(writeFile(t, dir, "typo.yaml", "outptu: ./x\n"))
		assert.ErrorContains(t, err, "outptu")
	})

	t.Run("bad list", func(t *testing.T) {
		_, err := LoadConfig(writeFile(t, dir, "map.yaml", "types:\n  a: b\n"))
		assert.Error(t, err)
	})

	t.Run("toml", func(t *testing.T) {
		cfg, err := LoadConfig(writeFile(t, dir, "fhirgen.toml", `
fhirVersion = "R5"
packages = ["hl7.fhir.r5.core#5.0.0"]
types = "Patient"
output = "./r5"
package = "r5"
`))
		require.NoError(t, err)
		assert.Equal(t, "R5", cfg.FHIRVersion)
		assert.Equal(t, StringList{"hl7.fhir.r5.core#5.0.0"}, cfg.Packages)
		assert.Equal(t, StringList{"Patient"}, cfg.Types)
		assert.Equal(t, "r5", cfg.Package)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("toml unknown key", func(t *testing.T) {
		_, err := LoadConfig(writeFile(t, dir, "typo.toml", "outptu = \"./x\"\n"))
		assert.ErrorContains(t, err, "unknown keys: outptu")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"version", func(c *Config) { c.FHIRVersion = "STU3" }, "unsupported FHIR version"},
		{"output", func(c *Config) { c.Output = "" }, "output directory is required"},
		{"package", func(c *Config) { c.Package = "" }, "package name is required"},
		{"selection", func(c *Config) { c.Kinds = nil }, "either types or kinds"},
		{"kind", func(c *Config) { c.Kinds = StringList{"logical"} }, `unsupported kind "logical"`},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "unknown log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestParseFlags(t *testing.T) {
	path := writeFile(t, t.TempDir(), "fhirgen.yaml", "output: ./from-file\npackage: fromfile\n")

	cfg, err := parseFlags([]string{"-config", path, "-pkg", "r4", "-types", "Patient, Observation", "-workers", "2"})
	require.NoError(t, err)
	assert.Equal(t, "./from-file", cfg.Output, "unset flags leave the file value")
	assert.Equal(t, "r4", cfg.Package)
	assert.Equal(t, StringList{"Patient", "Observation"}, cfg.Types)
	assert.Equal(t, 2, cfg.Workers)

	_, err = parseFlags([]string{"-fhir-version", "R2"})
	assert.Error(t, err)

	cfg, err = parseFlags([]string{"-v"})
	assert.NoError(t, err)
	assert.Nil(t, cfg)
}

const gadgetDefinition = `{
  "resourceType": "StructureDefinition",
  "id": "Gadget",
  "url": "http://example.org/fhir/StructureDefinition/Gadget",
  "name": "Gadget",
  "type": "Gadget",
  "kind": "resource",
  "abstract": false,
  "baseDefinition": "http://hl7.org/fhir/StructureDefinition/DomainResource",
  "snapshot": {"element": [
    {"path": "Gadget", "min": 0, "max": "*"},
    {"path": "Gadget.id", "min": 0, "max": "1", "type": [{"code": "http://hl7.org/fhirpath/System.String"}]},
    {"path": "Gadget.contained", "min": 0, "max": "*", "type": [{"code": "Resource"}]},
    {"path": "Gadget.status", "min": 1, "max": "1", "type": [{"code": "code"}]},
    {"path": "Gadget.owner", "min": 0, "max": "1", "type": [{"code": "Reference",
      "targetProfile": ["http://hl7.org/fhir/StructureDefinition/Organization"]}]}
  ]}
}`

func TestRun(t *testing.T) {
	pkgDir := t.TempDir()
	writeFile(t, pkgDir, "package.json", `{"name": "example.gadgets", "version": "0.1.0", "fhirVersions": ["4.0.1"]}`)
	writeFile(t, pkgDir, "StructureDefinition-Gadget.json", gadgetDefinition)

	out := filepath.Join(t.TempDir(), "model")
	cfg := DefaultConfig()
	cfg.Packages = StringList{pkgDir}
	cfg.Output = out
	cfg.Package = "gadgets"
	cfg.LogLevel = "none"
	require.NoError(t, cfg.Validate())

	res, err := run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(out, "gadget.go")}, res.Files)

	src, err := os.ReadFile(filepath.Join(out, "gadget.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "package gadgets")
	assert.Contains(t, string(src), "type Gadget struct {")
	assert.Contains(t, string(src), `c.Reference("owner", g.owner, "Organization")`)

	cfg.Types = StringList{"Nothing"}
	_, err = run(context.Background(), cfg)
	assert.ErrorContains(t, err, "no types to generate")
}
