package validate

import (
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics counts Build validations using lock-free atomic operations. All
// methods are safe for concurrent use; one Metrics is usually shared by every
// builder through WithMetrics.
type Metrics struct {
	buildsTotal atomic.Uint64
	buildsValid atomic.Uint64

	// nanoseconds
	timeTotal atomic.Uint64
	timeMin   atomic.Uint64
	timeMax   atomic.Uint64

	errorsTotal   atomic.Uint64
	warningsTotal atomic.Uint64

	types sync.Map // map[string]*typeMetrics
}

type typeMetrics struct {
	builds    atomic.Uint64
	failures  atomic.Uint64
	totalTime atomic.Uint64
	errors    atomic.Uint64
}

// NewMetrics creates an empty Metrics.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.timeMin.Store(^uint64(0))
	return m
}

// RecordBuild records one validation of a node of typeName.
func (m *Metrics) RecordBuild(typeName string, duration time.Duration, errors, warnings int) {
	ns := uint64(max(duration.Nanoseconds(), 0))
	m.buildsTotal.Add(1)
	if errors == 0 {
		m.buildsValid.Add(1)
	}
	m.timeTotal.Add(ns)
	m.errorsTotal.Add(uint64(errors))
	m.warningsTotal.Add(uint64(warnings))

	for {
		old := m.timeMin.Load()
		if ns >= old || m.timeMin.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.timeMax.Load()
		if ns <= old || m.timeMax.CompareAndSwap(old, ns) {
			break
		}
	}

	tm := m.typeMetrics(typeName)
	tm.builds.Add(1)
	tm.totalTime.Add(ns)
	if errors > 0 {
		tm.failures.Add(1)
		tm.errors.Add(uint64(errors))
	}
}

func (m *Metrics) typeMetrics(name string) *typeMetrics {
	if v, ok := m.types.Load(name); ok {
		return v.(*typeMetrics)
	}
	actual, _ := m.types.LoadOrStore(name, &typeMetrics{})
	return actual.(*typeMetrics)
}

// BuildsTotal returns the number of validations recorded.
func (m *Metrics) BuildsTotal() uint64 {
	return m.buildsTotal.Load()
}

// BuildsValid returns the number of validations without errors.
func (m *Metrics) BuildsValid() uint64 {
	return m.buildsValid.Load()
}

// ValidRate returns the share of validations without errors, 0 when nothing
// was recorded.
func (m *Metrics) ValidRate() float64 {
	total := m.buildsTotal.Load()
	if total == 0 {
		return 0
	}
	return float64(m.buildsValid.Load()) / float64(total)
}

// AverageTime returns the mean validation duration.
func (m *Metrics) AverageTime() time.Duration {
	total := m.buildsTotal.Load()
	if total == 0 {
		return 0
	}
	return time.Duration(m.timeTotal.Load() / total) //nolint:gosec // nanoseconds within int64 range
}

// MinTime returns the shortest validation duration.
func (m *Metrics) MinTime() time.Duration {
	v := m.timeMin.Load()
	if v == ^uint64(0) {
		return 0
	}
	return time.Duration(v) //nolint:gosec // nanoseconds within int64 range
}

// MaxTime returns the longest validation duration.
func (m *Metrics) MaxTime() time.Duration {
	return time.Duration(m.timeMax.Load()) //nolint:gosec // nanoseconds within int64 range
}

// ErrorsTotal returns the number of errors reported.
func (m *Metrics) ErrorsTotal() uint64 {
	return m.errorsTotal.Load()
}

// WarningsTotal returns the number of warnings handed to the warning handler.
func (m *Metrics) WarningsTotal() uint64 {
	return m.warningsTotal.Load()
}

// TypeStats holds the counters of one model type.
type TypeStats struct {
	Type        string `json:"type"`
	Builds      uint64 `json:"builds"`
	Failures    uint64 `json:"failures"`
	Errors      uint64 `json:"errors"`
	AvgTimeNs   uint64 `json:"avg_time_ns"`
	TotalTimeNs uint64 `json:"total_time_ns"`
}

// TypeStats returns the counters of one type.
func (m *Metrics) TypeStats(typeName string) (TypeStats, bool) {
	v, ok := m.types.Load(typeName)
	if !ok {
		return TypeStats{}, false
	}
	return v.(*typeMetrics).stats(typeName), true
}

// AllTypeStats returns the counters of every recorded type, sorted by name.
func (m *Metrics) AllTypeStats() []TypeStats {
	var stats []TypeStats
	m.types.Range(func(key, value any) bool {
		stats = append(stats, value.(*typeMetrics).stats(key.(string)))
		return true
	})
	slices.SortFunc(stats, func(a, b TypeStats) int {
		return strings.Compare(a.Type, b.Type)
	})
	return stats
}

func (tm *typeMetrics) stats(name string) TypeStats {
	s := TypeStats{
		Type:        name,
		Builds:      tm.builds.Load(),
		Failures:    tm.failures.Load(),
		Errors:      tm.errors.Load(),
		TotalTimeNs: tm.totalTime.Load(),
	}
	if s.Builds > 0 {
		s.AvgTimeNs = s.TotalTimeNs / s.Builds
	}
	return s
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`

	BuildsTotal uint64  `json:"builds_total"`
	BuildsValid uint64  `json:"builds_valid"`
	ValidRate   float64 `json:"valid_rate"`

	AvgTimeNs uint64 `json:"avg_time_ns"`
	MinTimeNs uint64 `json:"min_time_ns"`
	MaxTimeNs uint64 `json:"max_time_ns"`

	ErrorsTotal   uint64 `json:"errors_total"`
	WarningsTotal uint64 `json:"warnings_total"`

	Types []TypeStats `json:"types,omitempty"`
}

// Snapshot returns the current counters.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Timestamp:     time.Now(),
		BuildsTotal:   m.buildsTotal.Load(),
		BuildsValid:   m.buildsValid.Load(),
		ValidRate:     m.ValidRate(),
		AvgTimeNs:     uint64(m.AverageTime()),
		MinTimeNs:     uint64(m.MinTime()),
		MaxTimeNs:     m.timeMax.Load(),
		ErrorsTotal:   m.errorsTotal.Load(),
		WarningsTotal: m.warningsTotal.Load(),
		Types:         m.AllTypeStats(),
	}
}

// Reset clears all counters.
func (m *Metrics) Reset() {
	m.buildsTotal.Store(0)
	m.buildsValid.Store(0)
	m.timeTotal.Store(0)
	m.timeMin.Store(^uint64(0))
	m.timeMax.Store(0)
	m.errorsTotal.Store(0)
	m.warningsTotal.Store(0)
	m.types.Range(func(key, _ any) bool {
		m.types.Delete(key)
		return true
	})
}
