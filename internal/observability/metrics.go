package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
	latency      map[string]time.Duration
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		latency:      make(map[string]time.Duration),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.latency[key] += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RouteStats aggregates the requests of one route, method and status.
type RouteStats struct {
	Count            int64   `json:"count"`
	AverageLatencyMS float64 `json:"average_latency_ms"`
}

// Stats is a point-in-time copy of the counters.
type Stats struct {
	Requests map[string]RouteStats `json:"requests"`
	Errors   map[string]int64      `json:"errors"`
}

// Snapshot copies the counters.
func (m *Metrics) Snapshot() Stats {
	stats := Stats{Requests: map[string]RouteStats{}, Errors: map[string]int64{}}
	if m == nil {
		return stats
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, count := range m.requestCount {
		avg := float64(m.latency[key]) / float64(count) / float64(time.Millisecond)
		stats.Requests[key] = RouteStats{Count: count, AverageLatencyMS: avg}
	}
	for key, count := range m.errorCount {
		stats.Errors[key] = count
	}
	return stats
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
