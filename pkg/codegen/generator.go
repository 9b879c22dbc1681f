// Package codegen emits Go model types from schema.TypeDefs. Every root
// type becomes one file holding the type, its backbone elements and their
// builders, written against the runtime in pkg/element, pkg/datatype and
// pkg/validate.
package codegen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/gofhir/model/pkg/logger"
	"github.com/gofhir/model/pkg/schema"
)

// Header is written at the top of every generated file.
const Header = "Code generated by fhirgen. DO NOT EDIT."

// Generator renders TypeDefs into a Go package.
type Generator struct {
	pkgName string
	outDir  string
	workers int
	header  string
	log     *logger.Logger
}

// Option configures a Generator.
type Option func(*Generator) error

// WithPackageName sets the name of the generated package.
func WithPackageName(name string) Option {
	return func(g *Generator) error {
		if name == "" {
			return errors.New("codegen: package name cannot be empty")
		}
		g.pkgName = name
		return nil
	}
}

// WithOutputDir sets the directory generated files are written to.
func WithOutputDir(dir string) Option {
	return func(g *Generator) error {
		if dir == "" {
			return errors.New("codegen: output directory cannot be empty")
		}
		g.outDir = dir
		return nil
	}
}

// WithWorkers bounds the number of files rendered in parallel.
func WithWorkers(n int) Option {
	return func(g *Generator) error {
		if n > 0 {
			g.workers = n
		}
		return nil
	}
}

// WithHeader replaces the generated-file header comment.
func WithHeader(header string) Option {
	return func(g *Generator) error {
		g.header = header
		return nil
	}
}

// WithLogger sets the logger skipped types are reported to.
func WithLogger(l *logger.Logger) Option {
	return func(g *Generator) error {
		if l != nil {
			g.log = l
		}
		return nil
	}
}

// New creates a Generator writing package "model" to the current directory.
func New(opts ...Option) (*Generator, error) {
	g := &Generator{
		pkgName: "model",
		outDir:  ".",
		workers: runtime.GOMAXPROCS(0),
		header:  Header,
		log:     logger.Default().Named("codegen"),
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Result lists what Generate wrote and what it left out.
type Result struct {
	Files   []string
	Skipped []string
}

// Generate writes one file per generatable TypeDef. Types the runtime
// provides, abstract types and resources not built on DomainResource are
// skipped and reported in the result.
func (g *Generator) Generate(ctx context.Context, defs []*schema.TypeDef) (*Result, error) {
	if err := os.MkdirAll(g.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	res := &Result{}
	var todo []*schema.TypeDef
	for _, def := range defs {
		if reason := SkipReason(def); reason != "" {
			g.log.Warn("skipping %s: %s", def.Name, reason)
			res.Skipped = append(res.Skipped, def.Name)
			continue
		}
		todo = append(todo, def)
	}
	for _, name := range unresolved(todo) {
		g.log.Warn("type %s is referenced but not generated", name)
	}

	var mu sync.Mutex
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for _, def := range todo {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			path, err := g.writeFile(def)
			if err != nil {
				return err
			}
			mu.Lock()
			res.Files = append(res.Files, path)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	slices.Sort(res.Files)
	return res, nil
}

// SkipReason explains why def cannot be generated, or returns "".
func SkipReason(def *schema.TypeDef) string {
	switch {
	case def.Kind == schema.KindPrimitive:
		return "primitive types are provided by the runtime"
	case def.Abstract:
		return "abstract type"
	case runtimeDatatypes[def.Name]:
		return "provided by the datatype package"
	case def.IsResource() && def.Base != schema.BaseDomainResource:
		return "resources not built on DomainResource are not supported"
	}
	return ""
}

// unresolved returns the complex types referenced by defs that neither the
// runtime nor defs provide.
func unresolved(defs []*schema.TypeDef) []string {
	known := make(map[string]bool)
	for _, def := range defs {
		for _, t := range def.All() {
			known[t.Name] = true
		}
	}
	var missing []string
	for _, def := range defs {
		for _, t := range def.All() {
			for _, f := range t.Fields {
				for _, code := range f.Types {
					if !known[code] && !provided(code) && !slices.Contains(missing, code) {
						missing = append(missing, code)
					}
				}
			}
		}
	}
	slices.Sort(missing)
	return missing
}

// Render returns the formatted source of def's file.
func (g *Generator) Render(def *schema.TypeDef) ([]byte, error) {
	f := jen.NewFile(g.pkgName)
	if g.header != "" {
		f.HeaderComment(g.header)
	}
	e := &emitter{namer: newNamer(), f: f}
	e.emitRoot(def)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", def.Name, err)
	}
	out, err := imports.Process(fileName(def.Name), buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", def.Name, err)
	}
	return out, nil
}

func (g *Generator) writeFile(def *schema.TypeDef) (string, error) {
	path := filepath.Join(g.outDir, fileName(def.Name))
	src, err := g.Render(def)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	g.log.Debug("wrote %s", path)
	return path, nil
}
