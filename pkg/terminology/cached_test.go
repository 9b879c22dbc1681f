package terminology

import (
	"context"
	"errors"
	"testing"
)

type countingProvider struct {
	calls int
	err   error
	inner Provider
}

func (c *countingProvider) ValidateCode(ctx context.Context, system, code string) (bool, error) {
	c.calls++
	if c.err != nil {
		return false, c.err
	}
	return c.inner.ValidateCode(ctx, system, code)
}

func (c *countingProvider) ValidateCodeInValueSet(ctx context.Context, system, code, vs string) (bool, bool, error) {
	c.calls++
	if c.err != nil {
		return false, false, c.err
	}
	return c.inner.ValidateCodeInValueSet(ctx, system, code, vs)
}

func TestCachedProvider(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryProvider()
	mem.AddValueSet("http://example.org/ValueSet/status", "http://example.org/status", "A")
	mem.AddCodeSystem("http://example.org/status", "A")

	inner := &countingProvider{inner: mem}
	p := NewCachedProvider(inner, 16)

	for i := 0; i < 3; i++ {
		valid, found, err := p.ValidateCodeInValueSet(ctx, "", "A", "http://example.org/ValueSet/status|2.0")
		if err != nil || !valid || !found {
			t.Fatalf("ValidateCodeInValueSet() = %v, %v, %v", valid, found, err)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d; want 1", inner.calls)
	}
	if s := p.Stats(); s.Hits != 2 || s.Misses != 1 {
		t.Errorf("Stats() = %+v", s)
	}

	for i := 0; i < 2; i++ {
		if valid, err := p.ValidateCode(ctx, "http://example.org/status", "B"); err != nil || valid {
			t.Fatalf("ValidateCode(B) = %v, %v", valid, err)
		}
	}
	if inner.calls != 2 {
		t.Errorf("inner calls = %d; want 2", inner.calls)
	}

	p.Clear()
	if _, _, err := p.ValidateCodeInValueSet(ctx, "", "A", "http://example.org/ValueSet/status"); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 3 {
		t.Errorf("inner calls after Clear = %d; want 3", inner.calls)
	}
}

func TestCachedProviderErrorsNotCached(t *testing.T) {
	ctx := context.Background()
	inner := &countingProvider{err: errors.New("server unavailable"), inner: NewMemoryProvider()}
	p := NewCachedProvider(inner, 0)

	for i := 0; i < 2; i++ {
		if _, _, err := p.ValidateCodeInValueSet(ctx, "", "A", "http://example.org/ValueSet/x"); err == nil {
			t.Fatal("want error")
		}
	}
	if inner.calls != 2 {
		t.Errorf("inner calls = %d; want 2", inner.calls)
	}
}
