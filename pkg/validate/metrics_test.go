package validate

import (
	"sync"
	"testing"
	"time"
)

func TestMetricsRecordBuild(t *testing.T) {
	m := NewMetrics()
	if m.MinTime() != 0 || m.AverageTime() != 0 || m.ValidRate() != 0 {
		t.Fatal("empty metrics should report zero")
	}

	m.RecordBuild("Device", 10*time.Millisecond, 0, 1)
	m.RecordBuild("Device", 30*time.Millisecond, 2, 0)
	m.RecordBuild("CarePlan", 20*time.Millisecond, 0, 0)

	if got := m.BuildsTotal(); got != 3 {
		t.Errorf("BuildsTotal() = %d; want 3", got)
	}
	if got := m.BuildsValid(); got != 2 {
		t.Errorf("BuildsValid() = %d; want 2", got)
	}
	if got := m.ErrorsTotal(); got != 2 {
		t.Errorf("ErrorsTotal() = %d; want 2", got)
	}
	if got := m.WarningsTotal(); got != 1 {
		t.Errorf("WarningsTotal() = %d; want 1", got)
	}
	if got := m.MinTime(); got != 10*time.Millisecond {
		t.Errorf("MinTime() = %v", got)
	}
	if got := m.MaxTime(); got != 30*time.Millisecond {
		t.Errorf("MaxTime() = %v", got)
	}
	if got := m.AverageTime(); got != 20*time.Millisecond {
		t.Errorf("AverageTime() = %v", got)
	}

	device, ok := m.TypeStats("Device")
	if !ok {
		t.Fatal("no stats for Device")
	}
	if device.Builds != 2 || device.Failures != 1 || device.Errors != 2 {
		t.Errorf("Device stats = %+v", device)
	}
	if device.AvgTimeNs != uint64(20*time.Millisecond) {
		t.Errorf("Device AvgTimeNs = %d", device.AvgTimeNs)
	}
	if _, ok := m.TypeStats("Patient"); ok {
		t.Error("unexpected stats for Patient")
	}

	all := m.AllTypeStats()
	if len(all) != 2 || all[0].Type != "CarePlan" || all[1].Type != "Device" {
		t.Errorf("AllTypeStats() = %+v", all)
	}

	s := m.Snapshot()
	if s.BuildsTotal != 3 || len(s.Types) != 2 || s.MinTimeNs != uint64(10*time.Millisecond) {
		t.Errorf("Snapshot() = %+v", s)
	}

	m.Reset()
	if m.BuildsTotal() != 0 || m.MinTime() != 0 || len(m.AllTypeStats()) != 0 {
		t.Error("Reset() left counters behind")
	}
}

func TestMetricsConcurrent(t *testing.T) {
	m := NewMetrics()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				m.RecordBuild("Device", time.Duration(i+1)*time.Microsecond, i%2, 0)
			}
		}()
	}
	wg.Wait()

	if got := m.BuildsTotal(); got != 800 {
		t.Errorf("BuildsTotal() = %d; want 800", got)
	}
	if got := m.BuildsValid(); got != 400 {
		t.Errorf("BuildsValid() = %d; want 400", got)
	}
	if m.MinTime() != time.Microsecond || m.MaxTime() != 8*time.Microsecond {
		t.Errorf("MinTime() = %v, MaxTime() = %v", m.MinTime(), m.MaxTime())
	}
}

func TestRunRecordsMetrics(t *testing.T) {
	m := NewMetrics()
	good := &composite{
		status: &node{typ: "code", value: "A"},
		value:  &node{typ: "Quantity", value: "5"},
	}
	bad := &composite{value: &node{typ: "string", value: "x"}}

	if err := Run(good, WithMetrics(m)); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if err := Run(bad, WithMetrics(m)); err == nil {
		t.Fatal("Run() = nil; want issues")
	}
	if err := Run(bad, WithMetrics(m), WithValidation(false)); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	stats, ok := m.TypeStats("Component")
	if !ok || stats.Builds != 2 || stats.Failures != 1 {
		t.Errorf("Component stats = %+v", stats)
	}
	if got := m.ErrorsTotal(); got != 2 {
		t.Errorf("ErrorsTotal() = %d; want 2 (required status, choice value)", got)
	}
}
