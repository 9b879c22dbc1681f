package fhirmodel

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gofhir/model/pkg/loader"
)

// FHIRVersion represents a FHIR specification version.
type FHIRVersion string

// Supported FHIR versions.
const (
	// R4 is FHIR Release 4 (4.0.1)
	R4 FHIRVersion = "R4"
	// R4B is FHIR Release 4B (4.3.0)
	R4B FHIRVersion = "R4B"
	// R5 is FHIR Release 5 (5.0.0)
	R5 FHIRVersion = "R5"
)

// String returns the version string.
func (v FHIRVersion) String() string {
	return string(v)
}

// IsValid returns true if this is a supported FHIR version.
func (v FHIRVersion) IsValid() bool {
	_, ok := versionConfigs[v]
	return ok
}

// versionConfig holds version-specific configuration.
type versionConfig struct {
	// FHIRVersionString is the version string used in StructureDefinitions
	FHIRVersionString string
}

// versionConfigs maps FHIR versions to their configurations.
var versionConfigs = map[FHIRVersion]versionConfig{
	R4:  {FHIRVersionString: "4.0.1"},
	R4B: {FHIRVersionString: "4.3.0"},
	R5:  {FHIRVersionString: "5.0.0"},
}

// getVersionConfig returns the configuration for a FHIR version.
func getVersionConfig(v FHIRVersion) (versionConfig, bool) {
	cfg, ok := versionConfigs[v]
	return cfg, ok
}

// ParseVersion accepts a release name ("R4", "r4b") or a version number
// ("4.0.1").
func ParseVersion(s string) (FHIRVersion, error) {
	s = strings.TrimSpace(s)
	if v := FHIRVersion(strings.ToUpper(s)); v.IsValid() {
		return v, nil
	}
	for v, cfg := range versionConfigs {
		if cfg.FHIRVersionString == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unsupported FHIR version %q (supported: R4, R4B, R5)", s)
}

// Number returns the version number StructureDefinitions carry, e.g.
// "4.0.1", or "" for an unsupported version.
func (v FHIRVersion) Number() string {
	cfg, _ := getVersionConfig(v)
	return cfg.FHIRVersionString
}

// Packages returns the core and terminology packages fhirgen loads for v.
func (v FHIRVersion) Packages() []loader.PackageRef {
	return slices.Clone(loader.DefaultPackages[v.Number()])
}
