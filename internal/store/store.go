package store

import (
	"time"

	"github.com/google/uuid"
)

// Endpoint is a monitored URL. Endpoints are never mutated after creation.
type Endpoint struct {
	// ID uniquely identifies the endpoint in the registry.
	ID uuid.UUID `json:"id"`

	// URL is the address as entered by the user or config; it may lack a scheme.
	URL string `json:"url"`
}

// PingResult is the outcome of probing an endpoint once.
type PingResult struct {
	EndpointID uuid.UUID `json:"endpoint_id"`

	// Status is true when the endpoint answered with a 2xx status.
	Status bool `json:"status"`

	// LatencyMs is the elapsed time from probe start, in whole milliseconds.
	LatencyMs uint64 `json:"latency_ms"`

	Timestamp time.Time `json:"timestamp"`
}

// EndpointStats summarizes the entire stored history of one endpoint.
//
// It is recomputed on demand and never stored. The pointer fields are nil
// while the endpoint has no results.
type EndpointStats struct {
	Endpoint         Endpoint   `json:"endpoint"`
	LastStatus       *bool      `json:"last_status"`
	UptimePercentage float64    `json:"uptime_percentage"`
	LastPing         *time.Time `json:"last_ping"`
	AvgLatency       *uint64    `json:"avg_latency"`
}

// UptimeSample is the uptime of one whole-hour bucket.
type UptimeSample struct {
	// Timestamp is the start of the hour.
	Timestamp time.Time `json:"timestamp"`

	// Uptime is successes/total*100, or 0 when the bucket is empty.
	Uptime float64 `json:"uptime"`

	// Total is the number of results in the bucket. Zero means no data,
	// which Uptime alone cannot distinguish from a full outage.
	Total int `json:"total"`
}

// Registry exposes the read side of the endpoint registry.
type Registry interface {
	// Endpoints returns a snapshot of registered endpoints in registration order.
	Endpoints() []Endpoint
}

// Store defines the operations of the result store.
//
// Implementations must be safe for concurrent access.
type Store interface {
	Registry

	// AddEndpoint inserts the endpoint, replacing any entry with the same ID.
	AddEndpoint(e Endpoint)

	// SaveResult appends a result to the history, evicting old results in
	// batches once the history exceeds its capacity.
	SaveResult(r PingResult)

	// EndpointStats summarizes every registered endpoint over the full history.
	EndpointStats() []EndpointStats

	// UptimeHistory returns hourly uptime buckets covering the last hours.
	UptimeHistory(id uuid.UUID, hours int) []UptimeSample

	// Results returns the results for id recorded at or after since.
	Results(id uuid.UUID, since time.Time) []PingResult
}
