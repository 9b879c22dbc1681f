package loader

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	manifestJSON = `{"name":"example.fhir.test","version":"0.1.0","fhirVersions":["4.0.1"]}`
	sdJSON       = `{"resourceType":"StructureDefinition","id":"Widget","url":"http://example.org/fhir/StructureDefinition/Widget","kind":"resource","type":"Widget"}`
	vsJSON       = `{"resourceType":"ValueSet","id":"widget-status","url":"http://example.org/fhir/ValueSet/widget-status"}`
)

func tgz(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, body := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0o644, Size: int64(len(body))}))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestDefaultPackagePath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	assert.Equal(t, filepath.Join(home, ".fhir", "packages"), DefaultPackagePath())
}

func TestPackageRefString(t *testing.T) {
	ref := PackageRef{Name: "hl7.fhir.r4.core", Version: "4.0.1"}
	assert.Equal(t, "hl7.fhir.r4.core#4.0.1", ref.String())
}

func TestParsePackageSpec(t *testing.T) {
	tests := []struct {
		spec        string
		wantName    string
		wantVersion string
	}{
		{"hl7.fhir.r4.core#4.0.1", "hl7.fhir.r4.core", "4.0.1"},
		{"hl7.terminology.r4#7.0.1", "hl7.terminology.r4", "7.0.1"},
		{"package-without-version", "package-without-version", ""},
	}
	for _, tt := range tests {
		name, version := ParsePackageSpec(tt.spec)
		assert.Equal(t, tt.wantName, name, tt.spec)
		assert.Equal(t, tt.wantVersion, version, tt.spec)
	}
}

func TestDefaultPackagesConfig(t *testing.T) {
	for _, v := range []string{"4.0.1", "4.3.0", "5.0.0"} {
		refs, ok := DefaultPackages[v]
		require.True(t, ok, "missing version %s", v)
		assert.Contains(t, refs[0].Name, ".core", "first package of %s must be the core package", v)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(manifestJSON), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "StructureDefinition-Widget.json"), []byte(sdJSON), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".index.json"), []byte(`{}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	pkg, err := NewLoader(t.TempDir()).LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "example.fhir.test", pkg.Name)
	assert.Equal(t, "4.0.1", pkg.FHIRVersion)
	assert.Len(t, pkg.Resources, 2)
	assert.Len(t, pkg.OfType("StructureDefinition"), 1)
}

func TestLoadPackageFromCache(t *testing.T) {
	cache := t.TempDir()
	dir := filepath.Join(cache, "example.fhir.test#0.1.0", "package")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(manifestJSON), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ValueSet-widget-status.json"), []byte(vsJSON), 0o644))

	l := NewLoader(cache)
	pkg, err := l.Load(context.Background(), "example.fhir.test#0.1.0")
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", pkg.Version)
	assert.Contains(t, pkg.Resources, "ValueSet/widget-status")

	names, err := l.ListPackages()
	require.NoError(t, err)
	assert.Equal(t, []string{"example.fhir.test#0.1.0"}, names)

	_, err = l.LoadPackage("missing", "1.0.0")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadVersionUnknown(t *testing.T) {
	_, err := NewLoader(t.TempDir()).LoadVersion("99.99.99")
	assert.Error(t, err)
}

func TestLoadVersionMissingCore(t *testing.T) {
	_, err := NewLoader(t.TempDir()).LoadVersion("4.0.1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadFromTgzData(t *testing.T) {
	data := tgz(t, map[string]string{
		"package/package.json":                     manifestJSON,
		"package/StructureDefinition-Widget.json":  sdJSON,
		"package/ValueSet-widget-status.json":      vsJSON,
		"package/other/nested.json":                sdJSON,
		"package/example/Patient-example.json.txt": "ignored",
	})

	pkg, err := NewLoader(t.TempDir()).LoadFromTgzData(data)
	require.NoError(t, err)
	assert.Equal(t, "example.fhir.test", pkg.Name)
	assert.Equal(t, "memory", pkg.Path)
	assert.Len(t, pkg.Resources, 4)

	_, err = NewLoader(t.TempDir()).LoadFromTgzData(tgz(t, map[string]string{"package/x.json": sdJSON}))
	assert.ErrorContains(t, err, "package.json not found")
}

func TestLoadFromURL(t *testing.T) {
	data := tgz(t, map[string]string{"package/package.json": manifestJSON, "package/sd.json": sdJSON})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pkg.tgz" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	l := NewLoader(t.TempDir())
	pkg, err := l.Load(context.Background(), srv.URL+"/pkg.tgz")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/pkg.tgz", pkg.Path)
	assert.Contains(t, pkg.Resources, "http://example.org/fhir/StructureDefinition/Widget")

	_, err = l.LoadFromURL(context.Background(), srv.URL+"/missing.tgz")
	assert.ErrorContains(t, err, "HTTP 404")
}

func TestLoadFromURLRetries(t *testing.T) {
	data := tgz(t, map[string]string{"package/package.json": manifestJSON, "package/sd.json": sdJSON})
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	l := NewLoader(t.TempDir())
	l.SetRetry(2, time.Millisecond, 5*time.Millisecond)
	pkg, err := l.LoadFromURL(context.Background(), srv.URL+"/pkg.tgz")
	require.NoError(t, err)
	assert.Equal(t, "example.fhir.test", pkg.Name)
	assert.Equal(t, int32(2), calls.Load())

	l.SetRetry(0, time.Millisecond, time.Millisecond)
	calls.Store(0)
	_, err = l.LoadFromURL(context.Background(), srv.URL+"/pkg.tgz")
	assert.Error(t, err, "no retries left after the first 503")
}

func TestLoadFromResources(t *testing.T) {
	pkg, err := NewLoader("").LoadFromResources([][]byte{[]byte(sdJSON), []byte(vsJSON), []byte(`not valid json`)})
	require.NoError(t, err)
	assert.Equal(t, "custom", pkg.Name)
	assert.Equal(t, "memory", pkg.Path)

	// two by URL, two by resourceType/id
	assert.Len(t, pkg.Resources, 4)
	for _, key := range []string{
		"http://example.org/fhir/StructureDefinition/Widget",
		"StructureDefinition/Widget",
		"http://example.org/fhir/ValueSet/widget-status",
		"ValueSet/widget-status",
	} {
		assert.Contains(t, pkg.Resources, key)
	}
}

func TestLoadRejectsBareName(t *testing.T) {
	_, err := NewLoader(t.TempDir()).Load(context.Background(), "no-version-here")
	assert.Error(t, err)
}
