package pingme

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jpalmerr/pingme/internal/console"
	"github.com/jpalmerr/pingme/internal/poller"
	"github.com/jpalmerr/pingme/internal/queue"
	"github.com/jpalmerr/pingme/internal/stats"
	"github.com/jpalmerr/pingme/internal/store"
)

const (
	defaultPollingInterval = poller.DefaultInterval
	defaultProbeTimeout    = poller.DefaultAttemptTimeout
	defaultTimeRange       = stats.DefaultTimeRange

	// DefaultRefreshInterval is the foreground loop period used by [Monitor.Run].
	DefaultRefreshInterval = 100 * time.Millisecond

	subscriberBuffer = 16
)

// ErrEmptyURL is returned by [Monitor.AddEndpoint] for a blank URL.
var ErrEmptyURL = errors.New("endpoint url cannot be empty")

// Endpoint is a monitored URL with a stable identifier.
type Endpoint = store.Endpoint

// View is the snapshot of derived state handed to presenters.
type View = stats.View

// Monitor wires the probe engine, the result store and the stats aggregator.
//
// The probe engine runs in its own goroutine and only produces results and
// log entries. Monitor owns the single writer path into the store:
// [Monitor.Pump] drains the engine's queues and saves the results, and
// [Monitor.Refresh] recomputes the derived views. Pump and Refresh must be
// called from one goroutine (the driver loop); [Monitor.View] and the
// subscription methods are safe from any goroutine.
//
// The typical lifecycle is:
//
//	m, err := pingme.New(pingme.WithURLs("https://example.com"))
//	if err != nil {
//	    return err
//	}
//	m.Start(ctx)
//	defer m.Stop()
//	m.Run(ctx, pingme.DefaultRefreshInterval) // blocks until ctx is cancelled
type Monitor struct {
	store     *store.MemoryStore
	scheduler *poller.Scheduler
	agg       *stats.Aggregator
	results   *queue.Queue[store.PingResult]
	logs      *queue.Queue[console.Entry]
	console   *console.Buffer
	timeRange stats.TimeRange
	logger    *slog.Logger
	now       func() time.Time

	viewMu sync.RWMutex
	view   View

	subMu       sync.RWMutex
	subscribers map[chan View]struct{}
}

// New creates a [Monitor] with the given options.
//
// Defaults:
//   - Polling interval: 60 seconds
//   - Probe timeout: 5 seconds per attempt
//   - Time range: 60 minutes
//
// URLs passed with [WithURLs] are registered in order. Unlike a config-less
// dashboard, zero URLs is valid: endpoints may be added later.
func New(opts ...Option) (*Monitor, error) {
	cfg := &monitorConfig{
		pollingInterval: defaultPollingInterval,
		probeTimeout:    defaultProbeTimeout,
		timeRange:       defaultTimeRange,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.now
	if now == nil {
		now = time.Now
	}

	st := store.NewMemoryStore(store.WithClock(now))
	results := queue.New[store.PingResult]()
	logs := queue.New[console.Entry]()
	prober := poller.NewProber(poller.NewClient(), cfg.probeTimeout)

	m := &Monitor{
		store:       st,
		scheduler:   poller.NewScheduler(st, cfg.pollingInterval, prober, results, logs, logger),
		agg:         stats.NewAggregator(now),
		results:     results,
		logs:        logs,
		console:     console.NewBuffer(),
		timeRange:   cfg.timeRange,
		logger:      logger,
		now:         now,
		subscribers: make(map[chan View]struct{}),
	}

	for _, u := range cfg.urls {
		if _, err := m.AddEndpoint(u); err != nil {
			return nil, fmt.Errorf("invalid endpoint %q: %w", u, err)
		}
	}

	m.Refresh()
	return m, nil
}

// AddEndpoint registers url under a freshly generated ID.
//
// The URL is stored as given (surrounding whitespace removed); scheme
// normalization happens at probe time. Adding the same URL twice creates
// two independent endpoints.
func (m *Monitor) AddEndpoint(url string) (Endpoint, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		m.console.Add(console.LevelError, "Failed to add endpoint: "+ErrEmptyURL.Error())
		return Endpoint{}, ErrEmptyURL
	}

	ep := Endpoint{ID: uuid.New(), URL: url}
	m.store.AddEndpoint(ep)

	m.console.Add(console.LevelSuccess, "Added endpoint: "+url)
	m.logger.Info("endpoint added", "id", ep.ID.String(), "url", url)
	return ep, nil
}

// Endpoints returns the registered endpoints in registration order.
func (m *Monitor) Endpoints() []Endpoint {
	return m.store.Endpoints()
}

// Start launches the probe engine. It is non-blocking; the first probe tick
// runs immediately.
func (m *Monitor) Start(ctx context.Context) {
	m.logger.Info("monitor starting",
		"endpoint_count", len(m.store.Endpoints()),
		"interval", m.PollingInterval().String(),
		"time_range", m.timeRange.DisplayName(),
	)
	m.console.Add(console.LevelInfo, fmt.Sprintf("Monitoring started (every %s)", m.PollingInterval()))
	m.scheduler.Start(ctx)
}

// Stop halts the probe engine and closes its queues. Results already queued
// can still be drained with [Monitor.Pump]. Safe to call multiple times.
func (m *Monitor) Stop() {
	m.scheduler.Stop()
	m.results.Close()
	m.logs.Close()
	m.logger.Info("monitor stopped")
}

// Pump drains, without blocking, every queued result into the store and
// every queued log entry into the console. Each result also extends its
// endpoint's block timeline, stamped with the arrival time.
//
// Returns the number of results drained.
func (m *Monitor) Pump() int {
	n := 0
	for {
		r, ok := m.results.TryPop()
		if !ok {
			break
		}
		m.store.SaveResult(r)
		m.agg.AddRealtimeBlock(r.EndpointID, r.Status, m.now().UTC())
		m.logResult(r)
		n++
	}

	for _, e := range m.logs.Drain() {
		m.console.Push(e)
	}
	return n
}

// logResult records a probe outcome on the structured logger
// (DEBUG for success to reduce noise).
func (m *Monitor) logResult(r store.PingResult) {
	attrs := []any{
		"endpoint_id", r.EndpointID.String(),
		"status", r.Status,
		"latency_ms", r.LatencyMs,
	}
	if r.Status {
		m.logger.Debug("probe completed", attrs...)
	} else {
		m.logger.Warn("probe failed", attrs...)
	}
}

// Refresh recomputes the derived views from the store and publishes the new
// [View] to [Monitor.View] and all subscribers.
func (m *Monitor) Refresh() View {
	m.agg.Refresh(m.store, m.timeRange)
	v := m.agg.View(m.timeRange)
	v.HistorySize = m.store.Len()

	m.viewMu.Lock()
	m.view = v
	m.viewMu.Unlock()

	m.notifySubscribers(v)
	return v
}

// Run is the headless driver loop: every tick, and whenever results arrive,
// it pumps the queues and refreshes the views. Run blocks until ctx is
// cancelled. A non-positive every selects [DefaultRefreshInterval].
func (m *Monitor) Run(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = DefaultRefreshInterval
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-m.results.Ready():
		}
		m.Pump()
		m.Refresh()
	}
}

// View returns the most recently published snapshot.
func (m *Monitor) View() View {
	m.viewMu.RLock()
	defer m.viewMu.RUnlock()
	return m.view
}

// Console returns the developer console buffer.
func (m *Monitor) Console() *console.Buffer {
	return m.console
}

// Log records a driver-level event (mode switches, refreshes, lifecycle) in
// the console.
func (m *Monitor) Log(level console.Level, message string) {
	m.console.Add(level, message)
}

// TimeRange returns the active time range.
func (m *Monitor) TimeRange() stats.TimeRange {
	return m.timeRange
}

// PollingInterval returns the probe period.
func (m *Monitor) PollingInterval() time.Duration {
	return m.scheduler.Interval()
}

// Subscribe returns a channel receiving every published [View].
//
// The channel is buffered; if a subscriber falls behind, views are dropped
// for it rather than blocking the driver. Call [Monitor.Unsubscribe] when
// done.
func (m *Monitor) Subscribe() <-chan View {
	ch := make(chan View, subscriberBuffer)

	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
// Safe to call multiple times or with an unknown channel.
func (m *Monitor) Unsubscribe(ch <-chan View) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for subCh := range m.subscribers {
		if subCh == ch {
			delete(m.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// notifySubscribers fans v out without blocking.
func (m *Monitor) notifySubscribers(v View) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for ch := range m.subscribers {
		select {
		case ch <- v:
		default:
			// subscriber is slow, drop the view
		}
	}
}
