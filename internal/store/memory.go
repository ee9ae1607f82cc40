package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxResults is the history length above which eviction runs.
	MaxResults = 50000

	// EvictBatch is the number of oldest results dropped per eviction.
	EvictBatch = 10000

	secondsPerHour = 3600
)

// MemoryStore is an in-memory implementation of [Store].
//
// A single mutex guards both the registry and the history, so every
// operation observes a consistent view of the two.
type MemoryStore struct {
	mu        sync.Mutex
	endpoints map[uuid.UUID]Endpoint
	order     []uuid.UUID
	results   []PingResult
	now       func() time.Time
}

// Option configures a [MemoryStore].
type Option func(*MemoryStore)

// WithClock overrides the time source used by [MemoryStore.UptimeHistory].
func WithClock(now func() time.Time) Option {
	return func(m *MemoryStore) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore(opts ...Option) *MemoryStore {
	m := &MemoryStore{
		endpoints: make(map[uuid.UUID]Endpoint),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddEndpoint inserts e, or overwrites the entry already registered under
// e.ID. An overwritten endpoint keeps its registration position.
func (m *MemoryStore) AddEndpoint(e Endpoint) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.endpoints[e.ID]; !exists {
		m.order = append(m.order, e.ID)
	}
	m.endpoints[e.ID] = e
}

// Endpoints returns the registered endpoints in registration order.
func (m *MemoryStore) Endpoints() []Endpoint {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Endpoint, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.endpoints[id])
	}
	return out
}

// SaveResult appends r. When the history grows past [MaxResults], the oldest
// [EvictBatch] results are dropped in one step, so the history may briefly
// hold MaxResults+1 entries.
func (m *MemoryStore) SaveResult(r PingResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.results = append(m.results, r)
	if len(m.results) > MaxResults {
		// copy into a fresh backing array so the evicted prefix can be collected
		m.results = append(make([]PingResult, 0, MaxResults), m.results[EvictBatch:]...)
	}
}

// Len returns the number of stored results.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.results)
}

// EndpointStats computes a summary for every registered endpoint by scanning
// the whole history. Cost is O(endpoints × results).
func (m *MemoryStore) EndpointStats() []EndpointStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := make([]EndpointStats, 0, len(m.order))
	for _, id := range m.order {
		stats = append(stats, m.statsFor(m.endpoints[id]))
	}
	return stats
}

// statsFor summarizes one endpoint. Caller must hold m.mu.
func (m *MemoryStore) statsFor(e Endpoint) EndpointStats {
	var (
		total, successful int
		latencySum        uint64
		last              *PingResult
	)

	for i := range m.results {
		r := &m.results[i]
		if r.EndpointID != e.ID {
			continue
		}
		total++
		latencySum += r.LatencyMs
		if r.Status {
			successful++
		}
		last = r
	}

	s := EndpointStats{Endpoint: e}
	if total == 0 {
		return s
	}

	status := last.Status
	ts := last.Timestamp
	avg := latencySum / uint64(total)

	s.LastStatus = &status
	s.LastPing = &ts
	s.AvgLatency = &avg
	s.UptimePercentage = float64(successful) / float64(total) * 100.0
	return s
}

// UptimeHistory buckets the results of id from the last hours into whole
// hours and returns one sample per hour boundary from the window start to
// now, inclusive and ascending.
//
// Returns an empty slice if id has no results in the window. Hours without
// results report an uptime of 0 and a Total of 0.
func (m *MemoryStore) UptimeHistory(id uuid.UUID, hours int) []UptimeSample {
	now := m.now()
	since := now.Add(-time.Duration(hours) * time.Hour)

	type bucket struct{ total, successful int }
	buckets := make(map[int64]*bucket)

	m.mu.Lock()
	for i := range m.results {
		r := &m.results[i]
		if r.EndpointID != id || r.Timestamp.Before(since) {
			continue
		}
		key := floorDiv(r.Timestamp.Unix(), secondsPerHour)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.total++
		if r.Status {
			b.successful++
		}
	}
	m.mu.Unlock()

	if len(buckets) == 0 {
		return []UptimeSample{}
	}

	startHour := floorDiv(since.Unix(), secondsPerHour) * secondsPerHour
	endHour := floorDiv(now.Unix(), secondsPerHour) * secondsPerHour

	history := make([]UptimeSample, 0, (endHour-startHour)/secondsPerHour+1)
	for hour := startHour; hour <= endHour; hour += secondsPerHour {
		sample := UptimeSample{Timestamp: time.Unix(hour, 0).UTC()}
		if b, ok := buckets[floorDiv(hour, secondsPerHour)]; ok {
			sample.Total = b.total
			sample.Uptime = float64(b.successful) / float64(b.total) * 100.0
		}
		history = append(history, sample)
	}
	return history
}

// Results returns the results for id with a timestamp at or after since, in
// insertion order.
func (m *MemoryStore) Results(id uuid.UUID, since time.Time) []PingResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []PingResult
	for _, r := range m.results {
		if r.EndpointID == id && !r.Timestamp.Before(since) {
			out = append(out, r)
		}
	}
	return out
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
