package terminology

import (
	"context"

	"github.com/gofhir/model/cache"
)

// CachedProvider wraps a Provider and memoizes its answers. Errors are not
// cached, so a failing remote provider is asked again on the next lookup.
type CachedProvider struct {
	inner   Provider
	codes   *cache.Cache[codeKey, bool]
	members *cache.Cache[codeKey, membership]
}

type codeKey struct {
	system, code, valueSet string
}

type membership struct {
	valid, found bool
}

// NewCachedProvider caches up to capacity answers of each kind.
func NewCachedProvider(inner Provider, capacity int) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		codes:   cache.New[codeKey, bool](capacity),
		members: cache.New[codeKey, membership](capacity),
	}
}

// ValidateCode implements Provider.
func (p *CachedProvider) ValidateCode(ctx context.Context, system, code string) (bool, error) {
	key := codeKey{system: system, code: code}
	if v, ok := p.codes.Get(key); ok {
		return v, nil
	}
	valid, err := p.inner.ValidateCode(ctx, system, code)
	if err != nil {
		return false, err
	}
	p.codes.Set(key, valid)
	return valid, nil
}

// ValidateCodeInValueSet implements Provider. Value set versions are ignored
// when building the key, matching the providers in this package.
func (p *CachedProvider) ValidateCodeInValueSet(ctx context.Context, system, code, valueSetURL string) (bool, bool, error) {
	key := codeKey{system: system, code: code, valueSet: StripVersion(valueSetURL)}
	if m, ok := p.members.Get(key); ok {
		return m.valid, m.found, nil
	}
	valid, found, err := p.inner.ValidateCodeInValueSet(ctx, system, code, valueSetURL)
	if err != nil {
		return false, false, err
	}
	p.members.Set(key, membership{valid: valid, found: found})
	return valid, found, nil
}

// Clear drops every cached answer.
func (p *CachedProvider) Clear() {
	p.codes.Clear()
	p.members.Clear()
}

// Stats returns the statistics of the value set membership cache.
func (p *CachedProvider) Stats() cache.Stats {
	return p.members.Stats()
}

var _ Provider = (*CachedProvider)(nil)
