package monitor

import (
	"math"
	"runtime"
	"sync/atomic"
	"time"
)

// Operation names a tracked kind of work
type Operation string

const (
	OperationLoad    Operation = "load"
	OperationRequest Operation = "request"
	OperationExport  Operation = "export"
)

// OperationStats summarises every run of one operation
type OperationStats struct {
	Operation Operation     `json:"operation"`
	Count     int64         `json:"count"`
	Errors    int64         `json:"errors"`
	Total     time.Duration `json:"total_ns"`
	Min       time.Duration `json:"min_ns"`
	Max       time.Duration `json:"max_ns"`
	Avg       time.Duration `json:"avg_ns"`
	Last      time.Duration `json:"last_ns"`
}

// MemoryStats is a subset of the Go runtime memory statistics
type MemoryStats struct {
	Alloc      uint64 `json:"alloc"`
	Sys        uint64 `json:"sys"`
	HeapInuse  uint64 `json:"heap_inuse"`
	NumGC      uint32 `json:"num_gc"`
	Goroutines int    `json:"goroutines"`
}

// Snapshot is a point-in-time view of all metrics
type Snapshot struct {
	Timestamp  time.Time        `json:"timestamp"`
	Uptime     time.Duration    `json:"uptime_ns"`
	Foods      float64          `json:"foods"`
	Memory     MemoryStats      `json:"memory"`
	Operations []OperationStats `json:"operations"`
}

// Counter is a thread-safe counter
type Counter struct {
	value int64
}

// Inc increments the counter by 1
func (c *Counter) Inc() {
	atomic.AddInt64(&c.value, 1)
}

// Get returns the current counter value
func (c *Counter) Get() int64 {
	return atomic.LoadInt64(&c.value)
}

// Gauge is a thread-safe value that can go up and down
type Gauge struct {
	bits uint64 // float64 bits
}

// Set sets the gauge to the given value
func (g *Gauge) Set(value float64) {
	atomic.StoreUint64(&g.bits, math.Float64bits(value))
}

// Get returns the current gauge value
func (g *Gauge) Get() float64 {
	return math.Float64frombits(atomic.LoadUint64(&g.bits))
}

const noMin = int64(^uint64(0) >> 1)

// Timer records durations without locking
type Timer struct {
	count int64
	total int64
	min   int64
	max   int64
	last  int64
}

// NewTimer creates an empty timer
func NewTimer() *Timer {
	return &Timer{min: noMin}
}

// Record records a duration measurement
func (t *Timer) Record(d time.Duration) {
	nanos := d.Nanoseconds()

	atomic.AddInt64(&t.count, 1)
	atomic.AddInt64(&t.total, nanos)
	atomic.StoreInt64(&t.last, nanos)

	for {
		current := atomic.LoadInt64(&t.min)
		if nanos >= current || atomic.CompareAndSwapInt64(&t.min, current, nanos) {
			break
		}
	}
	for {
		current := atomic.LoadInt64(&t.max)
		if nanos <= current || atomic.CompareAndSwapInt64(&t.max, current, nanos) {
			break
		}
	}
}

// Count returns the number of recorded measurements
func (t *Timer) Count() int64 {
	return atomic.LoadInt64(&t.count)
}

// Total returns the sum of all measurements
func (t *Timer) Total() time.Duration {
	return time.Duration(atomic.LoadInt64(&t.total))
}

// Min returns the shortest measurement, 0 before the first
func (t *Timer) Min() time.Duration {
	m := atomic.LoadInt64(&t.min)
	if m == noMin {
		return 0
	}
	return time.Duration(m)
}

// Max returns the longest measurement
func (t *Timer) Max() time.Duration {
	return time.Duration(atomic.LoadInt64(&t.max))
}

// Last returns the most recent measurement
func (t *Timer) Last() time.Duration {
	return time.Duration(atomic.LoadInt64(&t.last))
}

// Avg returns the mean measurement
func (t *Timer) Avg() time.Duration {
	count := t.Count()
	if count == 0 {
		return 0
	}
	return time.Duration(atomic.LoadInt64(&t.total) / count)
}

func readMemory() MemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemoryStats{
		Alloc:      m.Alloc,
		Sys:        m.Sys,
		HeapInuse:  m.HeapInuse,
		NumGC:      m.NumGC,
		Goroutines: runtime.NumGoroutine(),
	}
}
