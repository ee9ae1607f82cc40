package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/pingme"
	"github.com/jpalmerr/pingme/internal/server"
)

func main() {
	// start mock targets (see mock_server.go)
	go StartMockTargets(":9999")
	time.Sleep(100 * time.Millisecond)

	m, err := pingme.New(
		pingme.WithURLs(
			"http://localhost:9999/flap/users",
			"http://localhost:9999/flap/orders",
			"http://localhost:9999/get-only",
			"http://localhost:9999/slow",
			"https://api.github.com",
		),
		pingme.WithPollingInterval(5*time.Second),
		pingme.WithProbeTimeout(2*time.Second),
	)
	if err != nil {
		slog.Error("failed to create monitor", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════════════════╗")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   pingme Demo                                         ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   API: http://localhost:8080/api/view                 ║")
	fmt.Println("  ║   SSE: http://localhost:8080/api/sse                  ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Targets:                                            ║")
	fmt.Println("  ║   • 2 flapping (200 / 503)                            ║")
	fmt.Println("  ║   • 1 GET-only (HEAD fallback)                        ║")
	fmt.Println("  ║   • 1 slow (times out)                                ║")
	fmt.Println("  ║   • 1 external (GitHub)                               ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Press Ctrl+C to stop                                ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ╚═══════════════════════════════════════════════════════╝")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(m, ":8080", slog.Default())
	if err := srv.Start(ctx); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	m.Start(ctx)
	defer m.Stop()

	go printSummary(ctx, m, 5*time.Second)
	m.Run(ctx, 0)
}

// printSummary logs one line per endpoint every interval.
func printSummary(ctx context.Context, m *pingme.Monitor, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, s := range m.View().Stats {
				status := "unknown"
				if s.LastStatus != nil {
					status = map[bool]string{true: "up", false: "down"}[*s.LastStatus]
				}
				slog.Info("endpoint",
					"url", s.Endpoint.URL,
					"status", status,
					"uptime", fmt.Sprintf("%.1f%%", s.UptimePercentage),
				)
			}
		}
	}
}
