package observability

import (
	"sync"
	"time"
)

// RouteKey identifies one request counter bucket.
type RouteKey struct {
	Method string
	Path   string
	Status int
}

// ErrorKey identifies one domain-error counter bucket.
type ErrorKey struct {
	Method string
	Path   string
	Code   string
}

type routeStats struct {
	count         int64
	totalDuration time.Duration
}

// Metrics keeps in-process counters for requests and domain errors. Shared
// counters are the whole observability surface here; there is no scrape
// endpoint, the snapshot is logged on shutdown.
type Metrics struct {
	mu       sync.Mutex
	requests map[RouteKey]*routeStats
	errors   map[ErrorKey]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[RouteKey]*routeStats),
		errors:   make(map[ErrorKey]int64),
	}
}

// RecordRequest counts a completed request and accumulates its latency.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := RouteKey{Method: method, Path: path, Status: status}
	m.mu.Lock()
	defer m.mu.Unlock()
	stats, ok := m.requests[key]
	if !ok {
		stats = &routeStats{}
		m.requests[key] = stats
	}
	stats.count++
	stats.totalDuration += duration
}

// RecordError counts a request that surfaced a domain error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[ErrorKey{Method: method, Path: path, Code: code}]++
}

// RouteSample summarizes one request bucket.
type RouteSample struct {
	Key        RouteKey
	Count      int64
	AvgLatency time.Duration
}

// Snapshot reports current totals. TotalRequests and TotalErrors cover all
// buckets; Routes and Errors break them down per key.
type Snapshot struct {
	TotalRequests int64
	TotalErrors   int64
	Routes        []RouteSample
	Errors        map[ErrorKey]int64
}

// Snapshot copies the counters out under the lock.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{Errors: map[ErrorKey]int64{}}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		Routes: make([]RouteSample, 0, len(m.requests)),
		Errors: make(map[ErrorKey]int64, len(m.errors)),
	}
	for key, stats := range m.requests {
		snap.TotalRequests += stats.count
		sample := RouteSample{Key: key, Count: stats.count}
		if stats.count > 0 {
			sample.AvgLatency = stats.totalDuration / time.Duration(stats.count)
		}
		snap.Routes = append(snap.Routes, sample)
	}
	for key, count := range m.errors {
		snap.TotalErrors += count
		snap.Errors[key] = count
	}
	return snap
}
