package terminology

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/gofhir/fhir/r4"
)

// MemoryProvider is a Provider over value sets and code systems held in
// memory. It is safe for concurrent use.
type MemoryProvider struct {
	mu          sync.RWMutex
	valueSets   map[string]*valueSet
	codeSystems map[string]map[string]struct{} // url -> codes
}

type valueSet struct {
	codes      map[string]map[string]struct{} // system -> codes
	allSystems []string                       // systems included without a concept list
}

// NewMemoryProvider creates an empty provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		valueSets:   make(map[string]*valueSet),
		codeSystems: make(map[string]map[string]struct{}),
	}
}

// AddValueSet registers codes of one system as members of a value set.
// Repeated calls for the same URL accumulate.
func (p *MemoryProvider) AddValueSet(url, system string, codes ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	vs := p.valueSetLocked(StripVersion(url))
	set := vs.codes[system]
	if set == nil {
		set = make(map[string]struct{}, len(codes))
		vs.codes[system] = set
	}
	for _, c := range codes {
		set[c] = struct{}{}
	}
}

// AddCodeSystem registers the codes of a code system.
func (p *MemoryProvider) AddCodeSystem(url string, codes ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	url = StripVersion(url)
	set := p.codeSystems[url]
	if set == nil {
		set = make(map[string]struct{}, len(codes))
		p.codeSystems[url] = set
	}
	for _, c := range codes {
		set[c] = struct{}{}
	}
}

func (p *MemoryProvider) valueSetLocked(url string) *valueSet {
	vs, ok := p.valueSets[url]
	if !ok {
		vs = &valueSet{codes: make(map[string]map[string]struct{})}
		p.valueSets[url] = vs
	}
	return vs
}

// LoadR4ValueSet registers an R4 ValueSet, taking codes from its expansion
// when present, otherwise from the explicit concepts of compose.include. An
// include without concepts or filters pulls in the whole code system.
func (p *MemoryProvider) LoadR4ValueSet(vs *r4.ValueSet) error {
	if vs == nil || vs.Url == nil {
		return fmt.Errorf("valueset is nil or has no URL")
	}
	url := StripVersion(*vs.Url)

	if vs.Expansion != nil {
		for i := range vs.Expansion.Contains {
			p.addContains(url, &vs.Expansion.Contains[i])
		}
		return nil
	}
	if vs.Compose == nil {
		return nil
	}
	for i := range vs.Compose.Include {
		include := &vs.Compose.Include[i]
		if include.System == nil {
			continue
		}
		if len(include.Concept) == 0 && len(include.Filter) == 0 {
			p.mu.Lock()
			v := p.valueSetLocked(url)
			v.allSystems = append(v.allSystems, *include.System)
			p.mu.Unlock()
			continue
		}
		var codes []string
		for j := range include.Concept {
			if c := include.Concept[j].Code; c != nil {
				codes = append(codes, *c)
			}
		}
		p.AddValueSet(url, *include.System, codes...)
	}
	return nil
}

func (p *MemoryProvider) addContains(url string, c *r4.ValueSetExpansionContains) {
	if c.Code != nil && c.System != nil {
		p.AddValueSet(url, *c.System, *c.Code)
	}
	for i := range c.Contains {
		p.addContains(url, &c.Contains[i])
	}
}

// LoadR4CodeSystem registers every concept of an R4 CodeSystem, including
// nested concepts.
func (p *MemoryProvider) LoadR4CodeSystem(cs *r4.CodeSystem) error {
	if cs == nil || cs.Url == nil {
		return fmt.Errorf("codesystem is nil or has no URL")
	}
	p.AddCodeSystem(*cs.Url, conceptCodes(cs.Concept)...)
	return nil
}

func conceptCodes(concepts []r4.CodeSystemConcept) []string {
	var codes []string
	for i := range concepts {
		if concepts[i].Code != nil {
			codes = append(codes, *concepts[i].Code)
		}
		codes = append(codes, conceptCodes(concepts[i].Concept)...)
	}
	return codes
}

// ValidateCode implements Provider. Unknown code systems are an error.
func (p *MemoryProvider) ValidateCode(_ context.Context, system, code string) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	set, ok := p.codeSystems[StripVersion(system)]
	if !ok {
		return false, fmt.Errorf("code system %q not loaded", system)
	}
	_, valid := set[code]
	return valid, nil
}

// ValidateCodeInValueSet implements Provider.
func (p *MemoryProvider) ValidateCodeInValueSet(ctx context.Context, system, code, valueSetURL string) (bool, bool, error) {
	if err := ctx.Err(); err != nil {
		return false, false, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	vs, ok := p.valueSets[StripVersion(valueSetURL)]
	if !ok {
		return false, false, nil
	}
	for sys, codes := range vs.codes {
		if system != "" && sys != system {
			continue
		}
		if _, hit := codes[code]; hit {
			return true, true, nil
		}
	}
	for _, sys := range vs.allSystems {
		if system != "" && sys != system {
			continue
		}
		if _, hit := p.codeSystems[sys][code]; hit {
			return true, true, nil
		}
	}
	return false, true, nil
}

// Expand lists the codes of a value set, sorted and deduplicated. Systems
// included whole contribute the codes of their loaded code system. ok is
// false when the value set is unknown.
func (p *MemoryProvider) Expand(valueSetURL string) (codes []string, ok bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	vs, ok := p.valueSets[StripVersion(valueSetURL)]
	if !ok {
		return nil, false
	}
	seen := make(map[string]struct{})
	for _, set := range vs.codes {
		for c := range set {
			seen[c] = struct{}{}
		}
	}
	for _, sys := range vs.allSystems {
		for c := range p.codeSystems[StripVersion(sys)] {
			seen[c] = struct{}{}
		}
	}
	codes = make([]string, 0, len(seen))
	for c := range seen {
		codes = append(codes, c)
	}
	slices.Sort(codes)
	return codes, true
}

// CountValueSets returns the number of loaded value sets.
func (p *MemoryProvider) CountValueSets() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.valueSets)
}

// Verify interface compliance
var _ Provider = (*MemoryProvider)(nil)
