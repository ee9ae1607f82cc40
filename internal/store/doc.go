// Package store provides the in-memory endpoint registry and probe history.
//
// This package is internal to pingme and is the only shared mutable state in
// the system. Endpoint registrations and probe results live behind a single
// mutex in [MemoryStore]; every read and write takes that lock for the
// duration of a map/slice mutation or scan and never across I/O.
//
// The main components are:
//
//   - [Endpoint]: A monitored URL with a stable identifier
//   - [PingResult]: The immutable outcome of one probe
//   - [EndpointStats]: Per-endpoint summary derived from the full history
//   - [UptimeSample]: One hourly uptime bucket
//   - [MemoryStore]: The mutex-guarded implementation
//
// Results are written by a single driver goroutine. The probe engine only
// reads the registry, through the [Registry] interface.
package store
