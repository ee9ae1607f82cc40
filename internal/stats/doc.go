// Package stats turns the raw probe history into the views a presenter
// draws: per-endpoint summaries, an hourly uptime chart series and a short
// timeline of per-probe up/down blocks.
//
// [Aggregator] holds the derived state. It is owned by the driver goroutine
// and is not safe for concurrent use; presenters receive immutable [View]
// snapshots instead.
package stats
