// Package metrics provides in-memory timing of remote service calls.
package metrics

import (
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"
)

// Operation names for the collector.
const (
	OpSubmissionID = "submission_id"
	OpCreateJob    = "create_job"
	OpGetJob       = "get_job"
	OpListJobs     = "list_jobs"
	OpUpdateJob    = "update_job"
	OpDeleteJob    = "delete_job"
)

// OperationMetrics holds aggregated metrics for a single operation type.
type OperationMetrics struct {
	Count     int64
	Errors    int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
}

// OperationSnapshot provides computed stats from raw metrics.
type OperationSnapshot struct {
	Op          string
	Count       int64
	Errors      int64
	TotalTimeMs int64
	AvgTimeMs   float64
	MinTimeMs   int64
	MaxTimeMs   int64
}

// Snapshot represents all statistics at a point in time.
type Snapshot struct {
	UptimeSeconds float64
	Operations    []OperationSnapshot // sorted by Op
}

// Collector aggregates in-memory call statistics.
// All methods are thread-safe.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	ops       map[string]*OperationMetrics
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		ops:       make(map[string]*OperationMetrics),
	}
}

// getOrCreate returns existing metrics or creates new ones for an operation.
// Caller must hold write lock.
func (c *Collector) getOrCreate(op string) *OperationMetrics {
	m, ok := c.ops[op]
	if !ok {
		m = &OperationMetrics{MinTime: time.Duration(math.MaxInt64)}
		c.ops[op] = m
	}
	return m
}

// RecordCall records the duration and outcome of one call.
func (c *Collector) RecordCall(op string, duration time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(op)
	m.Count++
	m.TotalTime += duration
	if err != nil {
		m.Errors++
	}

	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
}

// Time runs fn and records it under op.
func (c *Collector) Time(op string, fn func() error) error {
	start := time.Now()
	err := fn()
	c.RecordCall(op, time.Since(start), err)
	return err
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{UptimeSeconds: time.Since(c.startTime).Seconds()}
	for op, m := range c.ops {
		if m.Count == 0 {
			continue
		}
		snap.Operations = append(snap.Operations, OperationSnapshot{
			Op:          op,
			Count:       m.Count,
			Errors:      m.Errors,
			TotalTimeMs: m.TotalTime.Milliseconds(),
			AvgTimeMs:   float64(m.TotalTime.Milliseconds()) / float64(m.Count),
			MinTimeMs:   m.MinTime.Milliseconds(),
			MaxTimeMs:   m.MaxTime.Milliseconds(),
		})
	}
	sort.Slice(snap.Operations, func(i, j int) bool {
		return snap.Operations[i].Op < snap.Operations[j].Op
	})
	return snap
}

// LogSummary writes one debug record per operation.
func (c *Collector) LogSummary(logger *slog.Logger) {
	snap := c.Snapshot()
	for _, op := range snap.Operations {
		logger.Debug("remote call stats",
			"op", op.Op,
			"count", op.Count,
			"errors", op.Errors,
			"avg_ms", op.AvgTimeMs,
			"max_ms", op.MaxTimeMs,
		)
	}
}
