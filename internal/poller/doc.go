// Package poller provides the probe engine for pingme.
//
// This package is internal to pingme and handles the periodic probing of
// HTTP endpoints. It is a pure producer: results and human-readable log
// entries are pushed onto unbounded queues and the engine never writes to
// the result store.
//
// The main components are:
//
//   - [Client]: HTTP client wrapper with per-request timeouts
//   - [Prober]: One HEAD/GET attempt cycle against an endpoint
//   - [Scheduler]: Fixed-period loop probing every registered endpoint in turn
//
// Probing within a tick is sequential, so a tick takes roughly
// endpoints × per-probe latency.
package poller
