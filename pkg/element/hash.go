package element

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
	"math"
)

// Hasher accumulates an FNV-1a hash over the fields of a node. Built types
// compute their hash once at construction and keep it.
type Hasher struct {
	h   hash.Hash64
	buf [8]byte
}

// NewHasher starts a hash seeded with the node's type name, so structurally
// identical values of different types hash apart.
func NewHasher(typeName string) *Hasher {
	h := &Hasher{h: fnv.New64a()}
	h.String(typeName)
	return h
}

func (h *Hasher) uint64(v uint64) {
	binary.LittleEndian.PutUint64(h.buf[:], v)
	h.h.Write(h.buf[:])
}

func (h *Hasher) flag(b byte) {
	h.buf[0] = b
	h.h.Write(h.buf[:1])
}

// String writes a length-prefixed string.
func (h *Hasher) String(s string) {
	h.uint64(uint64(len(s)))
	h.h.Write([]byte(s))
}

// Bool writes a boolean.
func (h *Hasher) Bool(b bool) {
	if b {
		h.flag(1)
		return
	}
	h.flag(0)
}

// Int writes an integer.
func (h *Hasher) Int(v int64) {
	h.uint64(uint64(v))
}

// Float writes a float by its bit pattern.
func (h *Hasher) Float(v float64) {
	h.uint64(math.Float64bits(v))
}

// Node writes a child's cached hash, or an absence marker.
func (h *Hasher) Node(n Node) {
	if IsNil(n) {
		h.flag(0)
		return
	}
	h.flag(1)
	h.uint64(n.Hash())
}

// Sum returns the accumulated hash.
func (h *Hasher) Sum() uint64 {
	return h.h.Sum64()
}

// HashList writes a list field: its length, then each entry.
func HashList[T Node](h *Hasher, list []T) {
	h.uint64(uint64(len(list)))
	for _, n := range list {
		h.Node(n)
	}
}

// Equal compares two possibly absent nodes.
func Equal[T Node](a, b T) bool {
	an, bn := IsNil(a), IsNil(b)
	if an || bn {
		return an == bn
	}
	return a.Equal(b)
}

// EqualList compares two list fields entry by entry.
func EqualList[T Node](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
