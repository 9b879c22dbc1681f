// Package loader reads FHIR NPM packages from the local package cache, an
// unpacked directory, a .tgz file or a remote URL. fhirgen feeds the loaded
// StructureDefinitions, ValueSets and CodeSystems to the registry.
package loader

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/gofhir/model/pkg/logger"
)

// DefaultPackagePath returns the default FHIR package cache path.
func DefaultPackagePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".fhir", "packages")
}

// PackageRef represents a reference to a FHIR package.
type PackageRef struct {
	Name    string
	Version string
}

// String returns the package spec in "name#version" format.
func (p PackageRef) String() string {
	return fmt.Sprintf("%s#%s", p.Name, p.Version)
}

// Package represents a loaded FHIR package.
type Package struct {
	Name        string
	Version     string
	Path        string
	FHIRVersion string
	Resources   map[string]json.RawMessage // URL or resourceType/id -> raw JSON
}

// OfType returns the resources of one resourceType, ordered by id.
func (p *Package) OfType(resourceType string) []json.RawMessage {
	prefix := resourceType + "/"
	var keys []string
	for k := range p.Resources {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	out := make([]json.RawMessage, len(keys))
	for i, k := range keys {
		out[i] = p.Resources[k]
	}
	return out
}

// PackageManifest represents the package.json of a FHIR NPM package.
type PackageManifest struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	FHIRVersion  string            `json:"fhirVersion,omitempty"`
	FHIRVersions []string          `json:"fhirVersions,omitempty"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

func (m *PackageManifest) fhirVersion() string {
	if m.FHIRVersion != "" || len(m.FHIRVersions) == 0 {
		return m.FHIRVersion
	}
	return m.FHIRVersions[0]
}

// DefaultPackages maps FHIR versions to the packages a model is generated
// from. Only the core package is required.
var DefaultPackages = map[string][]PackageRef{
	"4.0.1": {
		{Name: "hl7.fhir.r4.core", Version: "4.0.1"},
		{Name: "hl7.terminology.r4", Version: "7.0.1"},
	},
	"4.3.0": {
		{Name: "hl7.fhir.r4b.core", Version: "4.3.0"},
		{Name: "hl7.terminology.r4", Version: "7.0.1"},
	},
	"5.0.0": {
		{Name: "hl7.fhir.r5.core", Version: "5.0.0"},
		{Name: "hl7.terminology.r5", Version: "7.0.1"},
	},
}

// ErrNotFound is returned when a package is not in the cache.
var ErrNotFound = errors.New("package not found")

// Loader loads FHIR packages.
type Loader struct {
	basePath string
	client   *retryablehttp.Client
	log      *logger.Logger
}

// NewLoader creates a new Loader with the given cache path. Downloads are
// retried on connection errors and 5xx responses.
func NewLoader(basePath string) *Loader {
	if basePath == "" {
		basePath = DefaultPackagePath()
	}
	l := &Loader{
		basePath: basePath,
		client:   retryablehttp.NewClient(),
		log:      logger.Default().Named("loader"),
	}
	l.client.RetryMax = 3
	l.client.Logger = retryLogger{l.log}
	return l
}

// SetRetry changes the download retry policy.
func (l *Loader) SetRetry(retries int, minWait, maxWait time.Duration) {
	l.client.RetryMax = retries
	l.client.RetryWaitMin = minWait
	l.client.RetryWaitMax = maxWait
}

// retryLogger adapts the package logger to retryablehttp.LeveledLogger.
type retryLogger struct {
	log *logger.Logger
}

func (r retryLogger) Error(msg string, kv ...any) { r.log.Error("%s", formatKV(msg, kv)) }
func (r retryLogger) Info(msg string, kv ...any)  { r.log.Debug("%s", formatKV(msg, kv)) }
func (r retryLogger) Debug(msg string, kv ...any) { r.log.Debug("%s", formatKV(msg, kv)) }
func (r retryLogger) Warn(msg string, kv ...any)  { r.log.Warn("%s", formatKV(msg, kv)) }

func formatKV(msg string, kv []any) string {
	var sb strings.Builder
	sb.WriteString(msg)
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&sb, " %v=%v", kv[i], kv[i+1])
	}
	return sb.String()
}

// BasePath returns the base path for packages.
func (l *Loader) BasePath() string {
	return l.basePath
}

// Load resolves a package source: a .tgz path, an http(s) URL, an unpacked
// package directory or a "name#version" spec looked up in the cache.
func (l *Loader) Load(ctx context.Context, source string) (*Package, error) {
	switch {
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		return l.LoadFromURL(ctx, source)
	case strings.HasSuffix(source, ".tgz") || strings.HasSuffix(source, ".tar.gz"):
		return l.LoadFromTgz(source)
	}
	if info, err := os.Stat(source); err == nil && info.IsDir() {
		return l.LoadDir(source)
	}
	name, version := ParsePackageSpec(source)
	if version == "" {
		return nil, fmt.Errorf("package source %q: expected a path, URL or name#version", source)
	}
	return l.LoadPackage(name, version)
}

// LoadPackage loads a specific package by name and version from the cache.
func (l *Loader) LoadPackage(name, version string) (*Package, error) {
	pkgDir := filepath.Join(l.basePath, fmt.Sprintf("%s#%s", name, version))
	if _, err := os.Stat(pkgDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s#%s at %s", ErrNotFound, name, version, pkgDir)
	}
	pkg, err := l.LoadDir(filepath.Join(pkgDir, "package"))
	if err != nil {
		return nil, err
	}
	pkg.Name, pkg.Version, pkg.Path = name, version, pkgDir
	return pkg, nil
}

// LoadDir loads every JSON resource of a directory. package.json is read
// when present.
func (l *Loader) LoadDir(dir string) (*Package, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read package directory: %w", err)
	}

	pkg := &Package{Path: dir, Resources: make(map[string]json.RawMessage)}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") || entry.Name() == ".index.json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			l.log.Warn("skipping %s: %v", entry.Name(), err)
			continue
		}
		if entry.Name() == "package.json" {
			if err := pkg.applyManifest(data); err != nil {
				return nil, err
			}
			continue
		}
		pkg.add(data)
	}
	l.log.Debug("loaded %d resources from %s", len(pkg.Resources), dir)
	return pkg, nil
}

// LoadPackageRef loads a package from a PackageRef.
func (l *Loader) LoadPackageRef(ref PackageRef) (*Package, error) {
	return l.LoadPackage(ref.Name, ref.Version)
}

// LoadVersion loads all default packages for a FHIR version. Missing
// optional packages are logged and skipped.
func (l *Loader) LoadVersion(version string) ([]*Package, error) {
	refs, ok := DefaultPackages[version]
	if !ok {
		return nil, fmt.Errorf("unknown FHIR version: %s (supported: 4.0.1, 4.3.0, 5.0.0)", version)
	}

	packages := make([]*Package, 0, len(refs))
	for _, ref := range refs {
		pkg, err := l.LoadPackageRef(ref)
		if err != nil {
			if strings.Contains(ref.Name, ".core") {
				return nil, fmt.Errorf("failed to load core package: %w", err)
			}
			l.log.Warn("optional package %s: %v", ref, err)
			continue
		}
		packages = append(packages, pkg)
	}
	return packages, nil
}

// ListPackages returns all available packages in the cache.
func (l *Loader) ListPackages() ([]string, error) {
	entries, err := os.ReadDir(l.basePath)
	if err != nil {
		return nil, err
	}

	var packages []string
	for _, entry := range entries {
		if entry.IsDir() && strings.Contains(entry.Name(), "#") {
			packages = append(packages, entry.Name())
		}
	}
	return packages, nil
}

// ParsePackageSpec parses "name#version" into separate components.
func ParsePackageSpec(spec string) (name, version string) {
	parts := strings.SplitN(spec, "#", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return spec, ""
}

// LoadFromTgz loads a FHIR package from a local .tgz file.
func (l *Loader) LoadFromTgz(tgzPath string) (*Package, error) {
	file, err := os.Open(tgzPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open tgz file: %w", err)
	}
	defer file.Close()

	return l.loadFromTgzReader(file, tgzPath)
}

// LoadFromTgzData loads a FHIR package from .tgz bytes held in memory.
func (l *Loader) LoadFromTgzData(data []byte) (*Package, error) {
	return l.loadFromTgzReader(bytes.NewReader(data), "memory")
}

// LoadFromURL downloads a .tgz package and loads it.
func (l *Loader) LoadFromURL(ctx context.Context, url string) (*Package, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download package from %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download package: HTTP %d", resp.StatusCode)
	}
	l.log.Info("downloaded %s", url)
	return l.loadFromTgzReader(resp.Body, url)
}

// LoadFromResources wraps loose resources in an ad-hoc package named
// "custom". Entries that are not JSON objects are skipped.
func (l *Loader) LoadFromResources(resources [][]byte) (*Package, error) {
	pkg := &Package{Name: "custom", Path: "memory", Resources: make(map[string]json.RawMessage)}
	for _, data := range resources {
		pkg.add(data)
	}
	return pkg, nil
}

func (l *Loader) loadFromTgzReader(reader io.Reader, source string) (*Package, error) {
	gzReader, err := gzip.NewReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzReader.Close()

	tarReader := tar.NewReader(gzReader)
	pkg := &Package{Path: source, Resources: make(map[string]json.RawMessage)}
	var manifest []byte

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read tar entry: %w", err)
		}
		if header.Typeflag == tar.TypeDir {
			continue
		}

		name := strings.TrimPrefix(header.Name, "package/")
		if !strings.HasSuffix(name, ".json") || name == ".index.json" || strings.Contains(name, "/") {
			continue
		}
		data, err := io.ReadAll(tarReader)
		if err != nil {
			l.log.Warn("skipping %s in %s: %v", name, source, err)
			continue
		}
		if name == "package.json" {
			manifest = data
			continue
		}
		pkg.add(data)
	}

	if manifest == nil {
		return nil, fmt.Errorf("package.json not found in %s", source)
	}
	if err := pkg.applyManifest(manifest); err != nil {
		return nil, err
	}
	return pkg, nil
}

func (p *Package) applyManifest(data []byte) error {
	var manifest PackageManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return fmt.Errorf("failed to parse package manifest: %w", err)
	}
	p.Name = manifest.Name
	p.Version = manifest.Version
	p.FHIRVersion = manifest.fhirVersion()
	return nil
}

// add indexes a resource by canonical URL and by resourceType/id.
func (p *Package) add(data []byte) {
	var resource struct {
		ResourceType string `json:"resourceType"`
		ID           string `json:"id"`
		URL          string `json:"url"`
	}
	if err := json.Unmarshal(data, &resource); err != nil {
		return
	}
	if resource.URL != "" {
		p.Resources[resource.URL] = data
	}
	if resource.ResourceType != "" && resource.ID != "" {
		p.Resources[resource.ResourceType+"/"+resource.ID] = data
	}
}
