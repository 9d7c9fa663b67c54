package monitoring

import (
	"sort"
	"sync"
	"time"
)

// Source reports a live value, such as the number of open fridge sessions
type Source func() interface{}

// Monitor gathers the figures shown on the stats endpoint
type Monitor struct {
	counters     map[string]int64
	values       map[string]interface{}
	sources      map[string]Source
	metricsMutex sync.RWMutex
	startTime    time.Time
}

// NewMonitor creates a new monitoring instance
func NewMonitor() *Monitor {
	return &Monitor{
		counters:  make(map[string]int64),
		values:    make(map[string]interface{}),
		sources:   make(map[string]Source),
		startTime: time.Now(),
	}
}

// Watch registers a source polled on every GetMetrics call
func (m *Monitor) Watch(name string, src Source) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.sources[name] = src
}

// Increment adds one to a counter
func (m *Monitor) Increment(name string) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.counters[name]++
}

// RecordMetric records the latest value of a metric
func (m *Monitor) RecordMetric(name string, value interface{}) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.values[name] = value
}

// GetMetric returns a recorded value or counter
func (m *Monitor) GetMetric(name string) (interface{}, bool) {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()
	if v, ok := m.values[name]; ok {
		return v, true
	}
	if n, ok := m.counters[name]; ok {
		return n, true
	}
	return nil, false
}

// GetMetrics returns every counter, recorded value and source reading
func (m *Monitor) GetMetrics() map[string]interface{} {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()

	metrics := make(map[string]interface{}, len(m.counters)+len(m.values)+len(m.sources)+1)
	for k, v := range m.counters {
		metrics[k] = v
	}
	for k, v := range m.values {
		metrics[k] = v
	}
	for k, src := range m.sources {
		metrics[k] = src()
	}
	metrics["uptime_seconds"] = time.Since(m.startTime).Seconds()
	return metrics
}

// Names lists the metric names currently known, sorted
func (m *Monitor) Names() []string {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()
	names := make([]string, 0, len(m.counters)+len(m.values)+len(m.sources))
	for k := range m.counters {
		names = append(names, k)
	}
	for k := range m.values {
		names = append(names, k)
	}
	for k := range m.sources {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Reset clears counters and recorded values. Sources stay registered.
func (m *Monitor) Reset() {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.counters = make(map[string]int64)
	m.values = make(map[string]interface{})
}
