// Package tui is the terminal dashboard for pingme, built on bubbletea.
//
// The program's event loop doubles as the monitor's foreground loop: every
// tick drains the probe engine's queues and refreshes the derived views, so
// all store writes happen on the bubbletea goroutine.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jpalmerr/pingme/internal/console"
	"github.com/jpalmerr/pingme/internal/stats"
	"github.com/jpalmerr/pingme/internal/store"
)

// DefaultTick is the interval between queue drains and redraws.
const DefaultTick = 100 * time.Millisecond

// Driver is the monitor surface the dashboard needs. It is satisfied by
// *pingme.Monitor.
type Driver interface {
	Pump() int
	Refresh() stats.View
	AddEndpoint(url string) (store.Endpoint, error)
	Log(level console.Level, message string)
	Console() *console.Buffer
}

type inputMode int

const (
	modeNormal inputMode = iota
	modeAdding
)

type tickMsg time.Time

// Model is the bubbletea model of the dashboard.
type Model struct {
	driver Driver
	view   stats.View
	tick   time.Duration
	loc    *time.Location

	mode      inputMode
	developer bool
	selected  int
	logScroll int
	input     []rune

	width  int
	height int
}

// Option configures a [Model].
type Option func(*Model)

// WithTick overrides [DefaultTick].
func WithTick(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.tick = d
		}
	}
}

// WithLocation sets the zone used to format timestamps. Defaults to
// time.Local.
func WithLocation(loc *time.Location) Option {
	return func(m *Model) {
		if loc != nil {
			m.loc = loc
		}
	}
}

// New creates the dashboard model and takes an initial snapshot.
func New(d Driver, opts ...Option) Model {
	m := Model{
		driver: d,
		tick:   DefaultTick,
		loc:    time.Local,
		width:  100,
		height: 40,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.view = d.Refresh()
	return m
}

// Run starts the dashboard in the alternate screen and blocks until the
// user quits or ctx is cancelled.
func Run(ctx context.Context, d Driver, opts ...Option) error {
	d.Log(console.LevelInfo, "Application started")

	p := tea.NewProgram(New(d, opts...), tea.WithAltScreen())

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}
	return nil
}

func (m Model) scheduleTick() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return m.scheduleTick()
}

// Update handles ticks, resizes and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.refresh()
		return m, m.scheduleTick()

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.driver.Log(console.LevelInfo, "Exiting application")
			return m, tea.Quit
		}
		switch {
		case m.mode == modeAdding:
			return m.updateAdding(msg)
		case m.developer:
			return m.updateDeveloper(msg)
		default:
			return m.updateNormal(msg)
		}
	}
	return m, nil
}

// refresh drains the queues and takes a new snapshot.
func (m *Model) refresh() {
	m.driver.Pump()
	m.view = m.driver.Refresh()
	m.clampSelection()
}

func (m *Model) clampSelection() {
	n := len(m.view.Stats)
	if n == 0 {
		m.selected = 0
		return
	}
	if m.selected >= n {
		m.selected = n - 1
	}
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.driver.Log(console.LevelInfo, "Exiting application")
		return m, tea.Quit

	case "a":
		m.mode = modeAdding
		m.input = m.input[:0]
		m.driver.Log(console.LevelInfo, "Entering URL input mode")

	case "d":
		m.developer = true
		m.logScroll = 0
		m.driver.Log(console.LevelInfo, "Switched to developer mode")

	case "down", "j":
		if n := len(m.view.Stats); n > 0 {
			m.selected = (m.selected + 1) % n
		}

	case "up", "k":
		if n := len(m.view.Stats); n > 0 {
			m.selected = (m.selected - 1 + n) % n
		}

	case "r":
		m.driver.Log(console.LevelInfo, "Refreshing data...")
		m.refresh()
		m.driver.Log(console.LevelSuccess, "Data refreshed successfully")
	}
	return m, nil
}

func (m Model) updateDeveloper(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "d":
		m.developer = false
		m.logScroll = 0
		m.driver.Log(console.LevelInfo, "Switched to normal mode")

	case "up":
		if m.logScroll > 0 {
			m.logScroll--
		}

	case "down":
		if m.logScroll+1 < m.driver.Console().Len() {
			m.logScroll++
		}

	case "c":
		m.driver.Console().Clear()
		m.logScroll = 0
		m.driver.Log(console.LevelInfo, "Logs cleared")
	}
	return m, nil
}

func (m Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		url := strings.TrimSpace(string(m.input))
		if url != "" {
			// AddEndpoint logs success or failure to the console itself
			if _, err := m.driver.AddEndpoint(url); err == nil {
				m.refresh()
			}
		}
		m.input = nil
		m.mode = modeNormal

	case tea.KeyEsc:
		m.input = nil
		m.mode = modeNormal
		m.driver.Log(console.LevelInfo, "Cancelled URL input")

	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}

	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	}
	return m, nil
}

// selectedStats returns the stats of the highlighted endpoint.
func (m Model) selectedStats() (store.EndpointStats, bool) {
	if m.selected < 0 || m.selected >= len(m.view.Stats) {
		return store.EndpointStats{}, false
	}
	return m.view.Stats[m.selected], true
}
