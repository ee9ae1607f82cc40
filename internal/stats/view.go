package stats

import (
	"time"

	"github.com/google/uuid"

	"github.com/jpalmerr/pingme/internal/store"
)

// View is an immutable snapshot of the derived state for one render cycle.
type View struct {
	TimeRange   string                      `json:"time_range"`
	Hours       int                         `json:"hours"`
	Labels      []string                    `json:"labels"`
	Stats       []store.EndpointStats       `json:"stats"`
	Charts      map[uuid.UUID][]ChartPoint  `json:"charts"`
	Blocks      map[uuid.UUID][]UptimeBlock `json:"blocks"`
	GeneratedAt time.Time                   `json:"generated_at"`

	// HistorySize is the number of raw results held by the store. The
	// aggregator leaves it zero; the driver fills it in.
	HistorySize int `json:"history_size"`
}

// View snapshots the aggregator's state. The result shares nothing with the
// aggregator and may be handed to other goroutines.
func (a *Aggregator) View(tr TimeRange) View {
	v := View{
		TimeRange:   tr.DisplayName(),
		Hours:       tr.DurationHours(),
		Labels:      TimeLabels(tr),
		Stats:       a.Stats(),
		Charts:      make(map[uuid.UUID][]ChartPoint, len(a.stats)),
		Blocks:      make(map[uuid.UUID][]UptimeBlock, len(a.stats)),
		GeneratedAt: a.now().UTC(),
	}
	for _, s := range a.stats {
		id := s.Endpoint.ID
		if c, ok := a.charts[id]; ok {
			v.Charts[id] = copyPoints(c)
		}
		if b, ok := a.blocks[id]; ok {
			v.Blocks[id] = copyBlocks(b)
		}
	}
	return v
}

// Endpoint returns the stats for id in the view.
func (v View) Endpoint(id uuid.UUID) (store.EndpointStats, bool) {
	for _, s := range v.Stats {
		if s.Endpoint.ID == id {
			return s, true
		}
	}
	return store.EndpointStats{}, false
}
