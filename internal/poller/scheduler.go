package poller

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jpalmerr/pingme/internal/console"
	"github.com/jpalmerr/pingme/internal/queue"
	"github.com/jpalmerr/pingme/internal/store"
)

// DefaultInterval is the probe period used when none is configured.
const DefaultInterval = 60 * time.Second

// Scheduler probes every registered endpoint on a fixed period.
//
// Each tick reads the registry afresh, so endpoints added between ticks are
// picked up on the next one. Endpoints are probed one after another; results
// go to the results queue and log entries to the logs queue. A failed push
// is logged and the loop carries on. There is no backoff or jitter: an
// endpoint that fails is simply probed again next period.
//
// All lifecycle methods (Start, Stop) are safe for concurrent use.
type Scheduler struct {
	registry store.Registry
	interval time.Duration
	prober   *Prober
	results  *queue.Queue[store.PingResult]
	logs     *queue.Queue[console.Entry]
	logger   *slog.Logger
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	mu      sync.Mutex
	started bool
	stopped bool
}

// NewScheduler creates a new probing [Scheduler].
//
// Parameters:
//   - registry: Source of the endpoints to probe on each tick
//   - interval: Time between ticks; non-positive selects [DefaultInterval]
//   - prober: Performs the individual probes
//   - results: Queue receiving one result per probe
//   - logs: Queue receiving the probe log entries
//   - logger: Logger for engine failures (queue pushes, panics)
//
// The scheduler must be started with [Scheduler.Start] and stopped with
// [Scheduler.Stop].
func NewScheduler(
	registry store.Registry,
	interval time.Duration,
	prober *Prober,
	results *queue.Queue[store.PingResult],
	logs *queue.Queue[console.Entry],
	logger *slog.Logger,
) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		registry: registry,
		interval: interval,
		prober:   prober,
		results:  results,
		logs:     logs,
		logger:   logger,
	}
}

// Interval returns the probe period.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Start begins the probing loop in a background goroutine.
//
// Start is non-blocking. The first tick runs immediately, then one tick per
// interval until [Scheduler.Stop] is called or ctx is cancelled. If a tick
// overruns the interval, the next tick starts as soon as it finishes.
//
// If ctx is nil, context.Background() is used. Start is idempotent, and a
// no-op after Stop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.started = true

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()

		s.tick(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(ctx)
			}
		}
	}()
}

// Stop cancels the loop, abandoning any in-flight probe, and waits for the
// goroutine to exit. Stop is idempotent and safe to call before Start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		if s.cancel != nil {
			s.cancel()
		}
	}
	s.mu.Unlock()

	s.wg.Wait()

	if s.prober != nil {
		s.prober.client.Close()
	}
}

// tick probes every registered endpoint sequentially.
func (s *Scheduler) tick(ctx context.Context) {
	for _, ep := range s.registry.Endpoints() {
		if ctx.Err() != nil {
			return
		}

		result := s.safeProbe(ctx, ep)
		if err := s.results.Push(result); err != nil {
			s.logger.Error("failed to send ping result",
				"endpoint", ep.URL,
				"error", err,
			)
		}
	}
}

// emit pushes a log entry, reporting a gone receiver on the slog logger.
func (s *Scheduler) emit(entry console.Entry) {
	if err := s.logs.Push(entry); err != nil {
		s.logger.Error("failed to send log entry",
			"message", entry.Message,
			"error", err,
		)
	}
}

// safeProbe runs one probe with panic recovery.
// A panic is logged with a correlation ID and recorded as a failed probe.
func (s *Scheduler) safeProbe(ctx context.Context, ep store.Endpoint) (result store.PingResult) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()

			s.logger.Error("probe panic",
				"correlation_id", correlationID,
				"endpoint", ep.URL,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			s.emit(console.NewEntry(console.LevelError,
				fmt.Sprintf("%s - DOWN: internal error (correlation_id: %s)", NormalizeURL(ep.URL), correlationID)))

			result = store.PingResult{
				EndpointID: ep.ID,
				Status:     false,
				Timestamp:  time.Now().UTC(),
			}
		}
	}()
	return s.prober.Probe(ctx, ep, s.emit)
}
