// Package pool provides pooled builders for element paths such as
// "Device.note[0].text".
package pool

import (
	"strconv"
	"sync"
)

// PathBuilder builds element paths as a stack of segments. Push appends a
// field (and list index), Pop removes the last one, so a depth-first walk can
// keep one builder for the whole graph.
type PathBuilder struct {
	buf   []byte
	marks []int
}

var pathBuilderPool = sync.Pool{
	New: func() any {
		return &PathBuilder{
			buf:   make([]byte, 0, 256),
			marks: make([]int, 0, 16),
		}
	},
}

// AcquirePathBuilder gets an empty PathBuilder from the pool.
// Call Release() when done to return it to the pool.
func AcquirePathBuilder() *PathBuilder {
	pb := pathBuilderPool.Get().(*PathBuilder)
	pb.Reset()
	return pb
}

// Release returns the PathBuilder to the pool.
func (b *PathBuilder) Release() {
	if b == nil {
		return
	}
	// Don't return oversized buffers to the pool
	if cap(b.buf) <= 4096 {
		pathBuilderPool.Put(b)
	}
}

// Reset clears the path without deallocating.
func (b *PathBuilder) Reset() {
	b.buf = b.buf[:0]
	b.marks = b.marks[:0]
}

// Depth returns the number of pushed segments.
func (b *PathBuilder) Depth() int {
	return len(b.marks)
}

// Push appends a segment, dot-separated from the previous one, with a
// bracketed index when index is not negative.
func (b *PathBuilder) Push(name string, index int) {
	b.marks = append(b.marks, len(b.buf))
	b.buf = appendSegment(b.buf, name, index)
}

// Pop removes the last pushed segment. Popping an empty builder is a no-op.
func (b *PathBuilder) Pop() {
	if len(b.marks) == 0 {
		return
	}
	last := len(b.marks) - 1
	b.buf = b.buf[:b.marks[last]]
	b.marks = b.marks[:last]
}

// String returns the current path.
func (b *PathBuilder) String() string {
	return string(b.buf)
}

// Child renders the current path extended by one segment without pushing it.
func (b *PathBuilder) Child(name string, index int) string {
	n := len(b.buf)
	b.buf = appendSegment(b.buf, name, index)
	s := string(b.buf)
	b.buf = b.buf[:n]
	return s
}

func appendSegment(buf []byte, name string, index int) []byte {
	if len(buf) > 0 && name != "" {
		buf = append(buf, '.')
	}
	buf = append(buf, name...)
	if index >= 0 {
		buf = append(buf, '[')
		buf = strconv.AppendInt(buf, int64(index), 10)
		buf = append(buf, ']')
	}
	return buf
}

// ElementPath renders base.name[index] using a pooled builder; a negative
// index is omitted.
func ElementPath(base, name string, index int) string {
	pb := AcquirePathBuilder()
	defer pb.Release()
	pb.buf = append(pb.buf, base...)
	pb.buf = appendSegment(pb.buf, name, index)
	return string(pb.buf)
}
