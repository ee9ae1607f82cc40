package stats

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jpalmerr/pingme/internal/store"
)

var baseTime = time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newFixture(now time.Time) (*store.MemoryStore, *Aggregator) {
	return store.NewMemoryStore(store.WithClock(fixedClock(now))), NewAggregator(fixedClock(now))
}

func TestChartSeries_EmptyHistoryIsFlat(t *testing.T) {
	got := ChartSeries(nil, 1, baseTime)
	want := []ChartPoint{{0, 0}, {1, 0}}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("ChartSeries(nil) = %v, want %v", got, want)
	}
}

func TestChartSeries_MapsSamples(t *testing.T) {
	history := []store.UptimeSample{
		{Timestamp: baseTime.Add(-90 * time.Minute), Uptime: 10}, // older than domain, clamps to x=0
		{Timestamp: baseTime.Add(-30 * time.Minute), Uptime: 50},
		{Timestamp: baseTime, Uptime: 100},
		{Timestamp: baseTime.Add(5 * time.Minute), Uptime: 75}, // future, clamps to x=hours
	}

	got := ChartSeries(history, 1, baseTime)
	want := []ChartPoint{{0, 10}, {0.5, 50}, {1, 100}, {1, 75}}
	if len(got) != len(want) {
		t.Fatalf("ChartSeries() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestChartSeries_TruncatesToWholeMinutes(t *testing.T) {
	history := []store.UptimeSample{{Timestamp: baseTime.Add(-(30*time.Minute + 59*time.Second)), Uptime: 1}}
	got := ChartSeries(history, 1, baseTime)
	if got[0].X != 0.5 {
		t.Errorf("X = %v, want 0.5", got[0].X)
	}
}

func TestAggregator_RefreshScenario(t *testing.T) {
	st, agg := newFixture(baseTime)
	ep := store.Endpoint{ID: uuid.New(), URL: "A"}
	st.AddEndpoint(ep)

	agg.Refresh(st, DefaultTimeRange)

	stats := agg.Stats()
	if len(stats) != 1 || stats[0].LastStatus != nil || stats[0].UptimePercentage != 0 {
		t.Fatalf("Stats() = %+v, want one endpoint without results", stats)
	}
	chart := agg.Chart(ep.ID)
	if len(chart) != 2 || chart[1].X != 1 {
		t.Errorf("Chart() = %v, want flat two-point series", chart)
	}
	blocks, ok := agg.Blocks(ep.ID)
	if !ok || len(blocks) != 0 {
		t.Errorf("Blocks() = %v, %v, want empty timeline", blocks, ok)
	}

	st.SaveResult(store.PingResult{EndpointID: ep.ID, Status: true, LatencyMs: 42, Timestamp: baseTime.Add(-time.Minute)})
	agg.AddRealtimeBlock(ep.ID, true, baseTime)
	agg.Refresh(st, DefaultTimeRange)

	s := agg.Stats()[0]
	if s.UptimePercentage != 100 || s.AvgLatency == nil || *s.AvgLatency != 42 {
		t.Errorf("Stats()[0] = %+v, want 100%% uptime and 42ms", s)
	}
	chart = agg.Chart(ep.ID)
	// window 11:30-12:30 gives hours 11:00 and 12:00
	if len(chart) != 2 {
		t.Fatalf("Chart() = %v, want 2 points", chart)
	}
	if chart[1].Y != 100 || chart[1].X != 0.5 {
		t.Errorf("latest point = %v, want {0.5 100}", chart[1])
	}
	if chart[0].Y != 0 || chart[0].X != 0 {
		t.Errorf("oldest point = %v, want {0 0}", chart[0])
	}
}

func TestAggregator_BackfillFromHistory(t *testing.T) {
	st, agg := newFixture(baseTime)
	ep := store.Endpoint{ID: uuid.New(), URL: "A"}
	st.AddEndpoint(ep)

	st.SaveResult(store.PingResult{EndpointID: ep.ID, Status: true, Timestamp: baseTime.Add(-10 * time.Minute)})
	st.SaveResult(store.PingResult{EndpointID: ep.ID, Status: false, Timestamp: baseTime.Add(-40 * time.Minute)})
	st.SaveResult(store.PingResult{EndpointID: ep.ID, Status: true, Timestamp: baseTime.Add(-61 * time.Minute)}) // outside window
	st.SaveResult(store.PingResult{EndpointID: ep.ID, Status: true, Timestamp: baseTime.Add(-60 * time.Minute)}) // exactly 60m: excluded

	agg.Refresh(st, DefaultTimeRange)

	blocks, ok := agg.Blocks(ep.ID)
	if !ok {
		t.Fatal("Blocks() ok = false, want backfilled timeline")
	}
	if len(blocks) != 2 {
		t.Fatalf("Blocks() = %d entries, want 2: %+v", len(blocks), blocks)
	}
	if blocks[0].Status || !blocks[1].Status {
		t.Errorf("Blocks() = %+v, want [down up] sorted by time", blocks)
	}
}

func TestAggregator_BackfillOnlyOnFirstSight(t *testing.T) {
	st, agg := newFixture(baseTime)
	ep := store.Endpoint{ID: uuid.New(), URL: "A"}
	st.AddEndpoint(ep)

	agg.Refresh(st, DefaultTimeRange)
	st.SaveResult(store.PingResult{EndpointID: ep.ID, Status: true, Timestamp: baseTime})
	agg.Refresh(st, DefaultTimeRange)

	blocks, _ := agg.Blocks(ep.ID)
	if len(blocks) != 0 {
		t.Errorf("Blocks() = %+v, want timeline untouched by later refresh", blocks)
	}
}

func TestAggregator_BackfillCapsAtMaxBlocks(t *testing.T) {
	st, agg := newFixture(baseTime)
	ep := store.Endpoint{ID: uuid.New(), URL: "A"}
	st.AddEndpoint(ep)

	for i := 0; i < 120; i++ {
		st.SaveResult(store.PingResult{
			EndpointID: ep.ID,
			Status:     true,
			Timestamp:  baseTime.Add(-time.Duration(i) * 20 * time.Second),
		})
	}

	agg.Refresh(st, DefaultTimeRange)

	blocks, _ := agg.Blocks(ep.ID)
	if len(blocks) != MaxBlocks {
		t.Fatalf("Blocks() = %d entries, want %d", len(blocks), MaxBlocks)
	}
	if !blocks[len(blocks)-1].Timestamp.Equal(baseTime) {
		t.Errorf("newest block = %v, want %v", blocks[len(blocks)-1].Timestamp, baseTime)
	}
}

func TestAggregator_RealtimeBlocksCappedAndSorted(t *testing.T) {
	agg := NewAggregator(nil)
	id := uuid.New()

	// insert out of order and well past the cap
	for i := 0; i < 150; i++ {
		offset := time.Duration(i) * time.Second
		if i%7 == 0 {
			offset = -offset
		}
		agg.AddRealtimeBlock(id, i%2 == 0, baseTime.Add(offset))

		blocks, _ := agg.Blocks(id)
		if len(blocks) > MaxBlocks {
			t.Fatalf("after %d inserts Blocks() = %d entries, want <= %d", i+1, len(blocks), MaxBlocks)
		}
		for j := 1; j < len(blocks); j++ {
			if blocks[j].Timestamp.Before(blocks[j-1].Timestamp) {
				t.Fatalf("after %d inserts blocks not sorted at %d", i+1, j)
			}
		}
	}

	blocks, _ := agg.Blocks(id)
	if len(blocks) != MaxBlocks {
		t.Errorf("Blocks() = %d entries, want %d", len(blocks), MaxBlocks)
	}
}

func TestAggregator_RealtimeBlockPreventsBackfill(t *testing.T) {
	st, agg := newFixture(baseTime)
	ep := store.Endpoint{ID: uuid.New(), URL: "A"}
	st.AddEndpoint(ep)
	st.SaveResult(store.PingResult{EndpointID: ep.ID, Status: false, Timestamp: baseTime.Add(-5 * time.Minute)})

	agg.AddRealtimeBlock(ep.ID, true, baseTime)
	agg.Refresh(st, DefaultTimeRange)

	blocks, _ := agg.Blocks(ep.ID)
	if len(blocks) != 1 || !blocks[0].Status {
		t.Errorf("Blocks() = %+v, want only the realtime block", blocks)
	}
}

func TestAggregator_ViewIsIndependentCopy(t *testing.T) {
	st, agg := newFixture(baseTime)
	ep := store.Endpoint{ID: uuid.New(), URL: "A"}
	st.AddEndpoint(ep)
	agg.AddRealtimeBlock(ep.ID, true, baseTime)
	agg.Refresh(st, DefaultTimeRange)

	v := agg.View(DefaultTimeRange)
	if v.TimeRange != "60m" || v.Hours != 1 || len(v.Labels) != 5 {
		t.Errorf("View() header = %q %d %v", v.TimeRange, v.Hours, v.Labels)
	}
	if _, ok := v.Endpoint(ep.ID); !ok {
		t.Error("View().Endpoint() ok = false")
	}
	if _, ok := v.Endpoint(uuid.New()); ok {
		t.Error("View().Endpoint() for unknown id ok = true")
	}

	v.Blocks[ep.ID][0].Status = false
	v.Charts[ep.ID][0].Y = 99

	blocks, _ := agg.Blocks(ep.ID)
	if !blocks[0].Status {
		t.Error("mutating View blocks affected the aggregator")
	}
	if agg.Chart(ep.ID)[0].Y == 99 {
		t.Error("mutating View chart affected the aggregator")
	}
}
