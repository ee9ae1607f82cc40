// Package server provides the HTTP render boundary for pingme.
//
// It is a second presenter next to the terminal UI and reads the same
// view snapshots:
//
//   - REST API: JSON views under "/api"
//   - Server-Sent Events: every refreshed view at "/api/sse"
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
package server
