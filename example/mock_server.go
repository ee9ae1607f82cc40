package main

import (
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

// flapState tracks whether a single target is up and when it next flips.
type flapState struct {
	up           bool
	nextChangeAt time.Time
}

// mockTargets serves probe targets with predictable failure modes:
//
//	/flap/{name}  alternates between 200 and 503 every 20-60 seconds
//	/get-only     rejects HEAD with 405 and answers GET with 200
//	/slow         answers after slowDelay
func mockTargets(slowDelay time.Duration) http.Handler {
	var (
		states = make(map[string]*flapState)
		mu     sync.Mutex
	)

	r := chi.NewRouter()

	r.HandleFunc("/flap/{name}", func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		// simulate small latency variance
		time.Sleep(time.Duration(20+rand.Intn(80)) * time.Millisecond)

		mu.Lock()
		state, exists := states[name]
		if !exists {
			state = &flapState{up: true, nextChangeAt: nextFlip()}
			states[name] = state
		}
		if time.Now().After(state.nextChangeAt) {
			state.up = !state.up
			state.nextChangeAt = nextFlip()
			slog.Info("target flipped", "target", name, "up", state.up)
		}
		up := state.up
		mu.Unlock()

		if !up {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/get-only", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Head("/get-only", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	})

	r.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(slowDelay):
			w.WriteHeader(http.StatusOK)
		case <-r.Context().Done():
		}
	})

	return r
}

func nextFlip() time.Time {
	return time.Now().Add(time.Duration(20+rand.Intn(41)) * time.Second)
}

// StartMockTargets runs the mock targets on addr until the process exits.
// Call this in a goroutine before creating the monitor.
func StartMockTargets(addr string) {
	if err := http.ListenAndServe(addr, mockTargets(8*time.Second)); err != nil {
		slog.Error("mock server error", "error", err)
	}
}
