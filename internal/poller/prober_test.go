package poller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jpalmerr/pingme/internal/console"
	"github.com/jpalmerr/pingme/internal/store"
)

// collector records emitted log entries.
type collector struct {
	mu      sync.Mutex
	entries []console.Entry
}

func (c *collector) emit(e console.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, e)
}

func (c *collector) levels() []console.Level {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]console.Level, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Level
	}
	return out
}

func (c *collector) last() console.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[len(c.entries)-1]
}

func endpointFor(url string) store.Endpoint {
	return store.Endpoint{ID: uuid.New(), URL: url}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"example.com", "http://example.com"},
		{"http://example.com", "http://example.com"},
		{"https://example.com/health", "https://example.com/health"},
		{"localhost:8080/x", "http://localhost:8080/x"},
	}

	for _, tt := range tests {
		if got := NormalizeURL(tt.in); got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProber_HeadSuccess(t *testing.T) {
	var methods []string
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		methods = append(methods, r.Method)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ep := endpointFor(server.URL)
	var c collector
	result := NewProber(NewClient(), time.Second).Probe(context.Background(), ep, c.emit)

	if !result.Status {
		t.Error("Status = false, want true")
	}
	if result.EndpointID != ep.ID {
		t.Errorf("EndpointID = %v, want %v", result.EndpointID, ep.ID)
	}
	if result.Timestamp.IsZero() {
		t.Error("Timestamp is zero")
	}
	if len(methods) != 1 || methods[0] != http.MethodHead {
		t.Errorf("methods = %v, want [HEAD]", methods)
	}

	levels := c.levels()
	if len(levels) != 2 || levels[0] != console.LevelInfo || levels[1] != console.LevelSuccess {
		t.Errorf("log levels = %v, want [info success]", levels)
	}
	if !strings.Contains(c.last().Message, "UP") {
		t.Errorf("success message = %q, want it to contain UP", c.last().Message)
	}
}

func TestProber_FallsBackToGetWhenHeadNotAllowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	result := NewProber(NewClient(), time.Second).Probe(context.Background(), endpointFor(server.URL), nil)
	if !result.Status {
		t.Error("Status = false, want true after GET fallback")
	}
}

func TestProber_FallsBackToGetOnHeadTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	result := NewProber(NewClient(), 100*time.Millisecond).Probe(context.Background(), endpointFor(server.URL), nil)
	if !result.Status {
		t.Error("Status = false, want true after GET fallback")
	}
	if result.LatencyMs < 100 {
		t.Errorf("LatencyMs = %d, want it to include the timed out HEAD (>= 100)", result.LatencyMs)
	}
}

func TestProber_BothAttemptsTimeOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	var c collector
	result := NewProber(NewClient(), 50*time.Millisecond).Probe(context.Background(), endpointFor(server.URL), c.emit)
	if result.Status {
		t.Error("Status = true, want false")
	}
	if c.last().Level != console.LevelError {
		t.Errorf("final log level = %v, want error", c.last().Level)
	}
	if !strings.Contains(c.last().Message, "timeout") {
		t.Errorf("final log = %q, want timeout reason", c.last().Message)
	}
}

func TestProber_NonSuccessStatusIsWarning(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	var c collector
	result := NewProber(NewClient(), time.Second).Probe(context.Background(), endpointFor(server.URL), c.emit)
	if result.Status {
		t.Error("Status = true, want false")
	}
	if c.last().Level != console.LevelWarning {
		t.Errorf("final log level = %v, want warning", c.last().Level)
	}
	if !strings.Contains(c.last().Message, "503") {
		t.Errorf("final log = %q, want status code", c.last().Message)
	}
}

func TestProber_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	var c collector
	result := NewProber(NewClient(), time.Second).Probe(context.Background(), endpointFor(url), c.emit)
	if result.Status {
		t.Error("Status = true, want false")
	}
	if c.last().Level != console.LevelError {
		t.Errorf("final log level = %v, want error", c.last().Level)
	}
	if !strings.Contains(c.last().Message, "DOWN") {
		t.Errorf("final log = %q, want DOWN", c.last().Message)
	}
}

func TestProber_NormalizesSchemelessURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	hostPort := strings.TrimPrefix(server.URL, "http://")
	var c collector
	result := NewProber(NewClient(), time.Second).Probe(context.Background(), endpointFor(hostPort), c.emit)
	if !result.Status {
		t.Error("Status = false, want true")
	}
	if first := c.levels(); len(first) == 0 {
		t.Fatal("no log entries emitted")
	}
	c.mu.Lock()
	msg := c.entries[0].Message
	c.mu.Unlock()
	if msg != "Pinging: "+server.URL {
		t.Errorf("start log = %q, want %q", msg, "Pinging: "+server.URL)
	}
}

func TestNewProber_DefaultTimeout(t *testing.T) {
	p := NewProber(nil, 0)
	if p.timeout != DefaultAttemptTimeout {
		t.Errorf("timeout = %v, want %v", p.timeout, DefaultAttemptTimeout)
	}
	if p.client == nil {
		t.Error("client = nil, want default client")
	}
}
