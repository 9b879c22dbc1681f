package fhirmodel

import (
	"testing"
)

func TestFHIRVersion_String(t *testing.T) {
	tests := []struct {
		version FHIRVersion
		want    string
	}{
		{R4, "R4"},
		{R4B, "R4B"},
		{R5, "R5"},
	}

	for _, tt := range tests {
		if got := tt.version.String(); got != tt.want {
			t.Errorf("%v.String() = %q; want %q", tt.version, got, tt.want)
		}
	}
}

func TestFHIRVersion_IsValid(t *testing.T) {
	tests := []struct {
		version FHIRVersion
		want    bool
	}{
		{R4, true},
		{R4B, true},
		{R5, true},
		{"R3", false},
		{"invalid", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := tt.version.IsValid(); got != tt.want {
			t.Errorf("%v.IsValid() = %v; want %v", tt.version, got, tt.want)
		}
	}
}

func TestGetVersionConfig(t *testing.T) {
	tests := []struct {
		version FHIRVersion
		number  string
		core    string
	}{
		{R4, "4.0.1", "hl7.fhir.r4.core"},
		{R4B, "4.3.0", "hl7.fhir.r4b.core"},
		{R5, "5.0.0", "hl7.fhir.r5.core"},
	}

	for _, tt := range tests {
		t.Run(tt.version.String(), func(t *testing.T) {
			cfg, ok := getVersionConfig(tt.version)
			if !ok {
				t.Fatalf("getVersionConfig(%s) returned false", tt.version)
			}
			if cfg.FHIRVersionString != tt.number {
				t.Errorf("FHIRVersionString = %q; want %q", cfg.FHIRVersionString, tt.number)
			}
			pkgs := tt.version.Packages()
			if len(pkgs) == 0 || pkgs[0].Name != tt.core {
				t.Errorf("Packages() = %v; want core %s first", pkgs, tt.core)
			}
		})
	}

	if _, ok := getVersionConfig("R3"); ok {
		t.Error("getVersionConfig(R3) should return false")
	}
	if pkgs := FHIRVersion("R3").Packages(); pkgs != nil {
		t.Errorf("Packages() for unsupported version = %v", pkgs)
	}
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    FHIRVersion
		wantErr bool
	}{
		{"R4", R4, false},
		{"r4b", R4B, false},
		{" 5.0.0 ", R5, false},
		{"4.0.1", R4, false},
		{"3.0.2", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVersion(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseVersion(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseVersion(%q) = %q; want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPackagesAreCopies(t *testing.T) {
	pkgs := R4.Packages()
	pkgs[0].Name = "changed"
	if R4.Packages()[0].Name != "hl7.fhir.r4.core" {
		t.Error("Packages() must not expose the shared table")
	}
}
