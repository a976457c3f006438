package monitor

import (
	"sort"
	"sync"
	"time"
)

type operationMetrics struct {
	timer  *Timer
	errors Counter
}

// Collector tracks operation timings for a running server
type Collector struct {
	started time.Time
	foods   Gauge

	mu         sync.RWMutex
	operations map[Operation]*operationMetrics
}

// New creates an empty collector
func New() *Collector {
	return &Collector{
		started:    time.Now(),
		operations: make(map[Operation]*operationMetrics),
	}
}

// Track runs fn and records its duration and outcome
func (c *Collector) Track(op Operation, fn func() error) error {
	start := time.Now()
	err := fn()
	c.Observe(op, time.Since(start), err != nil)
	return err
}

// Observe records one finished operation
func (c *Collector) Observe(op Operation, d time.Duration, failed bool) {
	m := c.metrics(op)
	m.timer.Record(d)
	if failed {
		m.errors.Inc()
	}
}

// SetFoods records the size of the loaded catalogue
func (c *Collector) SetFoods(n int) {
	c.foods.Set(float64(n))
}

func (c *Collector) metrics(op Operation) *operationMetrics {
	c.mu.RLock()
	m, ok := c.operations[op]
	c.mu.RUnlock()
	if ok {
		return m
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok = c.operations[op]; !ok {
		m = &operationMetrics{timer: NewTimer()}
		c.operations[op] = m
	}
	return m
}

// Snapshot returns the current metrics with operations sorted by name
func (c *Collector) Snapshot() Snapshot {
	now := time.Now()

	c.mu.RLock()
	ops := make([]OperationStats, 0, len(c.operations))
	for op, m := range c.operations {
		ops = append(ops, OperationStats{
			Operation: op,
			Count:     m.timer.Count(),
			Errors:    m.errors.Get(),
			Total:     m.timer.Total(),
			Min:       m.timer.Min(),
			Max:       m.timer.Max(),
			Avg:       m.timer.Avg(),
			Last:      m.timer.Last(),
		})
	}
	c.mu.RUnlock()

	sort.Slice(ops, func(i, j int) bool { return ops[i].Operation < ops[j].Operation })

	return Snapshot{
		Timestamp:  now,
		Uptime:     now.Sub(c.started),
		Foods:      c.foods.Get(),
		Memory:     readMemory(),
		Operations: ops,
	}
}
