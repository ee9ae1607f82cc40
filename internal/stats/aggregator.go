package stats

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jpalmerr/pingme/internal/store"
)

// MaxBlocks is the length of the per-endpoint block timeline.
const MaxBlocks = 60

// Source is the read side of the result store the aggregator consumes.
type Source interface {
	EndpointStats() []store.EndpointStats
	UptimeHistory(id uuid.UUID, hours int) []store.UptimeSample
	Results(id uuid.UUID, since time.Time) []store.PingResult
}

// ChartPoint is one point of a chart series. X runs from 0 (oldest) to the
// range's hours (now); Y is an uptime percentage.
type ChartPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// UptimeBlock marks one probe in the block timeline.
type UptimeBlock struct {
	Timestamp time.Time `json:"timestamp"`
	Status    bool      `json:"status"`
}

// Aggregator derives chart series and block timelines from a [Source].
type Aggregator struct {
	stats  []store.EndpointStats
	charts map[uuid.UUID][]ChartPoint
	blocks map[uuid.UUID][]UptimeBlock
	now    func() time.Time
}

// NewAggregator creates an empty [Aggregator]. A nil now selects time.Now.
func NewAggregator(now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{
		charts: make(map[uuid.UUID][]ChartPoint),
		blocks: make(map[uuid.UUID][]UptimeBlock),
		now:    now,
	}
}

// Refresh recomputes stats and chart series for every endpoint in src using
// tr. Endpoints seen for the first time get their block timeline backfilled
// from stored history.
func (a *Aggregator) Refresh(src Source, tr TimeRange) {
	a.stats = src.EndpointStats()
	hours := tr.DurationHours()

	for _, s := range a.stats {
		id := s.Endpoint.ID
		a.charts[id] = ChartSeries(src.UptimeHistory(id, hours), hours, a.now())

		if _, ok := a.blocks[id]; !ok {
			a.blocks[id] = a.backfill(src, id, tr)
		}
	}
}

// ChartSeries maps hourly samples onto the chart domain [0, hours].
//
// Each sample lands at x = hours - clamp(minutesAgo/60, 0, hours), where
// minutesAgo is truncated to whole minutes. An empty history yields a flat
// series from (0, 0) to (hours, 0) so the chart always has a domain.
func ChartSeries(history []store.UptimeSample, hours int, now time.Time) []ChartPoint {
	h := float64(hours)
	if len(history) == 0 {
		return []ChartPoint{{X: 0, Y: 0}, {X: h, Y: 0}}
	}

	points := make([]ChartPoint, 0, len(history))
	for _, sample := range history {
		minutesAgo := float64(int64(now.Sub(sample.Timestamp) / time.Minute))
		hoursAgo := clamp(minutesAgo/60.0, 0, h)
		points = append(points, ChartPoint{X: h - hoursAgo, Y: sample.Uptime})
	}
	return points
}

// AddRealtimeBlock appends a block for a freshly received result, trims the
// timeline to [MaxBlocks] from the front and re-sorts it by timestamp.
func (a *Aggregator) AddRealtimeBlock(id uuid.UUID, status bool, at time.Time) {
	blocks := append(a.blocks[id], UptimeBlock{Timestamp: at, Status: status})
	if len(blocks) > MaxBlocks {
		blocks = append(blocks[:0:0], blocks[len(blocks)-MaxBlocks:]...)
	}
	sortBlocks(blocks)
	a.blocks[id] = blocks
}

// backfill derives one block per stored result inside the window.
func (a *Aggregator) backfill(src Source, id uuid.UUID, tr TimeRange) []UptimeBlock {
	now := a.now()
	window := tr.Window()
	windowMinutes := int64(window / time.Minute)

	blocks := []UptimeBlock{}
	for _, r := range src.Results(id, now.Add(-window)) {
		minutesAgo := int64(now.Sub(r.Timestamp) / time.Minute)
		if minutesAgo < 0 || minutesAgo >= windowMinutes {
			continue
		}
		blocks = append(blocks, UptimeBlock{Timestamp: r.Timestamp, Status: r.Status})
	}

	sortBlocks(blocks)
	if len(blocks) > MaxBlocks {
		blocks = blocks[len(blocks)-MaxBlocks:]
	}
	return blocks
}

// Stats returns the summaries computed by the last refresh.
func (a *Aggregator) Stats() []store.EndpointStats {
	out := make([]store.EndpointStats, len(a.stats))
	copy(out, a.stats)
	return out
}

// Chart returns the chart series for id, or nil if none has been computed.
func (a *Aggregator) Chart(id uuid.UUID) []ChartPoint {
	return copyPoints(a.charts[id])
}

// Blocks returns the block timeline for id, oldest first. The boolean is
// false if the endpoint has no timeline yet.
func (a *Aggregator) Blocks(id uuid.UUID) ([]UptimeBlock, bool) {
	b, ok := a.blocks[id]
	if !ok {
		return nil, false
	}
	return copyBlocks(b), true
}

func sortBlocks(blocks []UptimeBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Timestamp.Before(blocks[j].Timestamp)
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func copyPoints(p []ChartPoint) []ChartPoint {
	if p == nil {
		return nil
	}
	return append([]ChartPoint(nil), p...)
}

func copyBlocks(b []UptimeBlock) []UptimeBlock {
	return append([]UptimeBlock{}, b...)
}
