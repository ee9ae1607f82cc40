package poller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jpalmerr/pingme/internal/console"
	"github.com/jpalmerr/pingme/internal/store"
)

// DefaultAttemptTimeout bounds each HEAD or GET attempt of a probe.
const DefaultAttemptTimeout = 5 * time.Second

// EmitFunc receives the log entries produced while probing.
type EmitFunc func(console.Entry)

// Prober runs one probe cycle against an endpoint: a HEAD attempt, then a GET
// fallback when the HEAD timed out or the server does not accept HEAD.
type Prober struct {
	client  *Client
	timeout time.Duration
	now     func() time.Time
}

// NewProber creates a [Prober] using client with the given per-attempt
// timeout. A non-positive timeout selects [DefaultAttemptTimeout].
func NewProber(client *Client, timeout time.Duration) *Prober {
	if client == nil {
		client = NewClient()
	}
	if timeout <= 0 {
		timeout = DefaultAttemptTimeout
	}
	return &Prober{
		client:  client,
		timeout: timeout,
		now:     time.Now,
	}
}

// NormalizeURL prepends http:// to raw when it has no http:// or https://
// prefix.
func NormalizeURL(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "http://" + raw
}

// Probe checks ep once and returns the result. It never fails: transport
// errors and non-2xx responses both become a result with Status false.
//
// emit, if non-nil, receives an info entry when the probe starts and one
// success, warning or error entry describing the outcome.
func (p *Prober) Probe(ctx context.Context, ep store.Endpoint, emit EmitFunc) store.PingResult {
	if emit == nil {
		emit = func(console.Entry) {}
	}

	start := time.Now()
	url := NormalizeURL(ep.URL)
	emit(console.NewEntry(console.LevelInfo, "Pinging: "+url))

	methods := []string{http.MethodHead, http.MethodGet}

	var lastErr error
	for attempt, method := range methods {
		resp := p.client.Fetch(ctx, method, url, p.timeout)
		final := attempt == len(methods)-1

		if resp.Error != nil {
			lastErr = resp.Error
			if resp.TimedOut && !final {
				continue
			}
			break
		}

		if !final && headUnsupported(resp.StatusCode) {
			continue
		}

		latency := elapsedMs(start)
		status := resp.StatusCode >= 200 && resp.StatusCode < 300
		if status {
			emit(console.NewEntry(console.LevelSuccess, fmt.Sprintf("%s - UP (%dms)", url, latency)))
		} else {
			emit(console.NewEntry(console.LevelWarning,
				fmt.Sprintf("%s - Status: %d %s (%dms)", url, resp.StatusCode, http.StatusText(resp.StatusCode), latency)))
		}
		return p.result(ep, status, latency)
	}

	latency := elapsedMs(start)
	emit(console.NewEntry(console.LevelError, fmt.Sprintf("%s - DOWN: %s (%dms)", url, reason(lastErr), latency)))
	return p.result(ep, false, latency)
}

func (p *Prober) result(ep store.Endpoint, status bool, latency uint64) store.PingResult {
	return store.PingResult{
		EndpointID: ep.ID,
		Status:     status,
		LatencyMs:  latency,
		Timestamp:  p.now().UTC(),
	}
}

// headUnsupported reports whether a HEAD response means the server only
// serves GET.
func headUnsupported(code int) bool {
	return code == http.StatusMethodNotAllowed || code == http.StatusNotImplemented
}

func elapsedMs(start time.Time) uint64 {
	ms := time.Since(start).Milliseconds()
	if ms < 0 {
		return 0
	}
	return uint64(ms)
}

// reason turns a transport error into a short description.
func reason(err error) string {
	switch {
	case err == nil:
		return "unknown error"
	case isTimeout(err):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return err.Error()
	}
}
