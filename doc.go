// Package pingme is a terminal uptime monitor for HTTP endpoints.
//
// A [Monitor] probes every registered URL on a fixed interval, keeps the
// results in memory and derives the views a presenter needs: per-endpoint
// stats (last status, uptime percentage, average latency, last ping), an
// hourly uptime chart series and a minute-resolution block timeline.
//
// # Quick Start
//
//	m, err := pingme.New(
//	    pingme.WithURLs("https://example.com", "api.example.com/health"),
//	    pingme.WithPollingInterval(30*time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	m.Start(ctx)
//	defer m.Stop()
//	m.Run(ctx, pingme.DefaultRefreshInterval)
//
// # Probing
//
// Each probe issues a HEAD request and falls back to GET when HEAD times
// out or is rejected with 405/501. Any 2xx response is UP; every other
// outcome is DOWN. URLs without a scheme are probed over https.
//
// # Presenters
//
// The terminal UI (internal/tui) and the HTTP API (internal/server) both
// read [View] snapshots. Presenters either poll [Monitor.View] or receive
// each refresh through [Monitor.Subscribe].
package pingme
