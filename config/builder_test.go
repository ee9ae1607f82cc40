package config

import (
	"testing"
	"time"

	"github.com/jpalmerr/pingme"
)

func TestBuildOptions_AppliesConfig(t *testing.T) {
	cfg, err := Parse([]byte(`
interval: 15s
timeout: 2s
time_range: 120
endpoints:
  - https://a.example.com
  - b.example.com
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	m, err := pingme.New(BuildOptions(cfg)...)
	if err != nil {
		t.Fatalf("pingme.New() error = %v", err)
	}

	if m.PollingInterval() != 15*time.Second {
		t.Errorf("PollingInterval() = %v, want 15s", m.PollingInterval())
	}
	if got := m.TimeRange().DurationHours(); got != 2 {
		t.Errorf("DurationHours() = %d, want 2", got)
	}

	eps := m.Endpoints()
	if len(eps) != 2 {
		t.Fatalf("len(Endpoints()) = %d, want 2", len(eps))
	}
	if eps[0].URL != "https://a.example.com" || eps[1].URL != "b.example.com" {
		t.Errorf("Endpoints() = %+v, want config order", eps)
	}
}

func TestBuildOptions_DefaultConfig(t *testing.T) {
	m, err := pingme.New(BuildOptions(Default())...)
	if err != nil {
		t.Fatalf("pingme.New() error = %v", err)
	}

	if len(m.Endpoints()) != 0 {
		t.Errorf("len(Endpoints()) = %d, want 0", len(m.Endpoints()))
	}
	if m.PollingInterval() != 60*time.Second {
		t.Errorf("PollingInterval() = %v, want 60s", m.PollingInterval())
	}
}
