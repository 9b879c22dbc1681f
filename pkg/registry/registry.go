// Package registry indexes the StructureDefinitions, ValueSets and
// CodeSystems of loaded FHIR packages and converts type definitions to the
// generator schema on demand.
package registry

import (
	"fmt"
	"slices"
	"sync"

	"github.com/goccy/go-json"
	"github.com/gofhir/fhir/r4"

	"github.com/gofhir/model/cache"
	"github.com/gofhir/model/pkg/loader"
	"github.com/gofhir/model/pkg/logger"
	"github.com/gofhir/model/pkg/reference"
	"github.com/gofhir/model/pkg/schema"
	"github.com/gofhir/model/pkg/terminology"
)

// StructureDefinition.kind values.
const (
	KindResource    = "resource"
	KindComplexType = "complex-type"
	KindPrimitive   = "primitive-type"
)

const domainResourceURL = "http://hl7.org/fhir/StructureDefinition/DomainResource"

// Registry holds loaded StructureDefinitions indexed by URL and by type
// name. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byURL  map[string]*r4.StructureDefinition
	byType map[string]*r4.StructureDefinition // base definitions only

	domainResources map[string]bool

	terms *terminology.MemoryProvider
	defs  *cache.Cache[string, *schema.TypeDef]
	log   *logger.Logger
}

// New creates a new empty Registry.
func New() *Registry {
	return &Registry{
		byURL:           make(map[string]*r4.StructureDefinition),
		byType:          make(map[string]*r4.StructureDefinition),
		domainResources: make(map[string]bool),
		terms:           terminology.NewMemoryProvider(),
		defs:            cache.New[string, *schema.TypeDef](1024),
		log:             logger.Default().Named("registry"),
	}
}

// LoadFromPackages indexes the conformance resources of packages. Resources
// that fail to decode are logged and skipped; earlier packages win when two
// define the same URL.
func (r *Registry) LoadFromPackages(packages []*loader.Package) error {
	var resourceTypes []string
	for _, pkg := range packages {
		for _, data := range pkg.OfType("StructureDefinition") {
			var sd r4.StructureDefinition
			if err := json.Unmarshal(data, &sd); err != nil {
				r.log.Warn("%s: decode StructureDefinition: %v", pkg.Name, err)
				continue
			}
			if r.AddStructureDefinition(&sd) && isConcreteResource(&sd) {
				resourceTypes = append(resourceTypes, *sd.Type)
			}
		}
		for _, data := range pkg.OfType("CodeSystem") {
			var cs r4.CodeSystem
			if err := json.Unmarshal(data, &cs); err != nil {
				r.log.Warn("%s: decode CodeSystem: %v", pkg.Name, err)
				continue
			}
			if err := r.terms.LoadR4CodeSystem(&cs); err != nil {
				r.log.Debug("%s: %v", pkg.Name, err)
			}
		}
		for _, data := range pkg.OfType("ValueSet") {
			var vs r4.ValueSet
			if err := json.Unmarshal(data, &vs); err != nil {
				r.log.Warn("%s: decode ValueSet: %v", pkg.Name, err)
				continue
			}
			if err := r.terms.LoadR4ValueSet(&vs); err != nil {
				r.log.Debug("%s: %v", pkg.Name, err)
			}
		}
		r.log.Info("indexed %s#%s", pkg.Name, pkg.Version)
	}

	r.mu.Lock()
	r.buildTypeClassificationCaches()
	r.mu.Unlock()

	reference.RegisterResourceTypes(resourceTypes...)
	r.defs.Clear()
	return nil
}

// AddStructureDefinition indexes one definition. It reports whether the
// definition became the base definition of its type.
func (r *Registry) AddStructureDefinition(sd *r4.StructureDefinition) bool {
	if sd == nil || sd.Url == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byURL[*sd.Url]; !exists {
		r.byURL[*sd.Url] = sd
	}
	if !isBaseTypeDefinition(sd) {
		return false
	}
	if _, exists := r.byType[*sd.Type]; exists {
		return false
	}
	r.byType[*sd.Type] = sd
	return true
}

// isBaseTypeDefinition tells a type's own definition from a profile on it:
// the canonical URL of a base definition ends in the type name.
func isBaseTypeDefinition(sd *r4.StructureDefinition) bool {
	return sd.Type != nil && sd.Url != nil && reference.TypeFromProfile(*sd.Url) == *sd.Type
}

func isConcreteResource(sd *r4.StructureDefinition) bool {
	return sd.Kind != nil && string(*sd.Kind) == KindResource && (sd.Abstract == nil || !*sd.Abstract)
}

// buildTypeClassificationCaches is called with the lock held.
func (r *Registry) buildTypeClassificationCaches() {
	for typeName, sd := range r.byType {
		if sd.Kind != nil && string(*sd.Kind) == KindResource && r.inheritsFromUnlocked(sd, domainResourceURL) {
			r.domainResources[typeName] = true
		}
	}
}

// inheritsFromUnlocked reports whether baseURL is a proper ancestor of sd.
func (r *Registry) inheritsFromUnlocked(sd *r4.StructureDefinition, baseURL string) bool {
	for depth := 0; sd != nil && depth < 32; depth++ {
		if sd.BaseDefinition == nil {
			return false
		}
		if *sd.BaseDefinition == baseURL {
			return true
		}
		sd = r.byURL[*sd.BaseDefinition]
	}
	return false
}

// GetByURL returns a StructureDefinition by its canonical URL.
func (r *Registry) GetByURL(url string) *r4.StructureDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byURL[url]
}

// GetByType returns the base StructureDefinition of a type name.
func (r *Registry) GetByType(typeName string) *r4.StructureDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byType[typeName]
}

// TypeDef converts the base definition of typeName to a schema.TypeDef and
// fills the codes of its required bindings from the loaded terminology.
// Results are cached.
func (r *Registry) TypeDef(typeName string) (*schema.TypeDef, error) {
	return r.defs.GetOrLoad(typeName, func() (*schema.TypeDef, error) {
		sd := r.GetByType(typeName)
		if sd == nil {
			return nil, fmt.Errorf("type %q is not defined by any loaded package", typeName)
		}
		td, err := schema.Convert(sd)
		if err != nil {
			return nil, err
		}
		for _, t := range td.All() {
			for _, f := range t.Fields {
				r.expandBinding(f)
			}
		}
		return td, nil
	})
}

func (r *Registry) expandBinding(f *schema.FieldDef) {
	if f.Binding == nil {
		return
	}
	codes, ok := r.terms.Expand(f.Binding.ValueSet)
	if !ok {
		r.log.Debug("%s: value set %s not loaded, codes left open", f.Path, f.Binding.ValueSet)
		return
	}
	f.Binding.Codes = codes
}

// Terminology returns the provider holding the loaded value sets and code
// systems.
func (r *Registry) Terminology() *terminology.MemoryProvider {
	return r.terms
}

// Count returns the number of loaded StructureDefinitions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byURL)
}

// TypeCount returns the number of indexed types.
func (r *Registry) TypeCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byType)
}

// AllTypes returns all registered type names, sorted.
func (r *Registry) AllTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.byType))
	for t := range r.byType {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// Types returns the sorted names of the non-abstract types of one kind.
func (r *Registry) Types(kind string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var types []string
	for name, sd := range r.byType {
		if sd.Kind == nil || string(*sd.Kind) != kind || (sd.Abstract != nil && *sd.Abstract) {
			continue
		}
		types = append(types, name)
	}
	slices.Sort(types)
	return types
}

func (r *Registry) kindOf(typeName string) string {
	sd := r.GetByType(typeName)
	if sd == nil || sd.Kind == nil {
		return ""
	}
	return string(*sd.Kind)
}

// IsResourceType checks if the given type name is a resource type.
func (r *Registry) IsResourceType(typeName string) bool {
	return r.kindOf(typeName) == KindResource
}

// IsPrimitiveType checks if the given type name is a primitive type.
func (r *Registry) IsPrimitiveType(typeName string) bool {
	return r.kindOf(typeName) == KindPrimitive
}

// IsDataType checks if the given type name is a complex data type.
func (r *Registry) IsDataType(typeName string) bool {
	return r.kindOf(typeName) == KindComplexType
}

// IsDomainResource reports whether a resource type inherits from
// DomainResource. Bundle, Binary and Parameters do not.
func (r *Registry) IsDomainResource(typeName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.domainResources[typeName]
}
