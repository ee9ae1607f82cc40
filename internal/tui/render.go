package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jpalmerr/pingme/internal/console"
	"github.com/jpalmerr/pingme/internal/stats"
	"github.com/jpalmerr/pingme/internal/store"
)

const (
	minContentWidth = 40
	chartHeight     = 6
	blockRune       = "█"
)

// View renders the active screen.
func (m Model) View() string {
	if m.developer {
		return m.developerView()
	}
	return m.mainView()
}

func (m Model) contentWidth() int {
	return max(m.width-4, minContentWidth)
}

// box draws body under a title inside a bordered section.
func (m Model) box(style lipgloss.Style, title, body string) string {
	content := titleStyle.Render(title)
	if body != "" {
		content += "\n" + body
	}
	return style.Width(m.contentWidth() + 2).Render(content)
}

func (m Model) mainView() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(" pingme - Uptime Monitor "))
	b.WriteString("\n\n")

	b.WriteString(m.box(boxStyle, "Endpoints", m.renderTable()))
	b.WriteString("\n")

	if s, ok := m.selectedStats(); ok {
		b.WriteString(m.renderChart(s))
		b.WriteString("\n")
		b.WriteString(m.renderBlocks(s))
		b.WriteString("\n")
	}

	b.WriteString(m.renderInput())
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("j/k: select | a: add URL | r: refresh | d: developer logs | q: quit"))

	return b.String()
}

// columnWidths splits w as 40/10/15/15/20 percent.
func columnWidths(w int) [5]int {
	pct := [5]int{40, 10, 15, 15, 20}
	var out [5]int
	for i, p := range pct {
		out[i] = max(w*p/100, 4)
	}
	return out
}

func (m Model) renderTable() string {
	widths := columnWidths(m.contentWidth())
	headers := [5]string{"URL", "Status", "Uptime %", "Avg Latency", "Last Ping"}

	var header strings.Builder
	for i, h := range headers {
		header.WriteString(columnHeaderStyle.Render(cell(h, widths[i])))
	}

	lines := []string{header.String(), ""}

	if len(m.view.Stats) == 0 {
		lines = append(lines, unknownStyle.Render("No endpoints yet. Press 'a' to add one."))
		return strings.Join(lines, "\n")
	}

	for i, s := range m.view.Stats {
		rowStyle := lipgloss.NewStyle()
		if i == m.selected {
			rowStyle = selectedStyle
		}

		var row strings.Builder
		row.WriteString(rowStyle.Render(cell(s.Endpoint.URL, widths[0])))
		row.WriteString(statusStyle(s.LastStatus).Render(cell(statusText(s.LastStatus), widths[1])))
		row.WriteString(rowStyle.Render(cell(uptimeText(s.UptimePercentage), widths[2])))
		row.WriteString(rowStyle.Render(cell(latencyText(s.AvgLatency), widths[3])))
		row.WriteString(rowStyle.Render(cell(lastPingText(s.LastPing, m.loc), widths[4])))
		lines = append(lines, row.String())
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderChart(s store.EndpointStats) string {
	points := m.view.Charts[s.Endpoint.ID]
	if len(points) == 0 {
		return m.box(highlightBoxStyle, "Uptime History", unknownStyle.Render("No uptime data available yet..."))
	}

	plotWidth := m.contentWidth() - 6
	grid := plotChart(points, m.view.Hours, plotWidth, chartHeight)

	lines := make([]string, 0, len(grid)+2)
	for r, line := range grid {
		lines = append(lines, axisStyle.Render(fmt.Sprintf("%4s │", yLabel(r, len(grid))))+chartStyle.Render(line))
	}
	lines = append(lines, axisStyle.Render("     └"+strings.Repeat("─", plotWidth)))
	lines = append(lines, axisStyle.Render("      "+xAxis(m.view.Labels, plotWidth)))

	title := fmt.Sprintf("%s Uptime History - %s", m.view.TimeRange, s.Endpoint.URL)
	return m.box(boxStyle, title, strings.Join(lines, "\n"))
}

func (m Model) renderBlocks(s store.EndpointStats) string {
	blocks, ok := m.view.Blocks[s.Endpoint.ID]
	if !ok {
		return m.box(highlightBoxStyle, "Uptime Status", unknownStyle.Render("No uptime status data available..."))
	}

	perRow := max(m.contentWidth()/2, 1)
	var lines []string
	for start := 0; start < len(blocks); start += perRow {
		end := min(start+perRow, len(blocks))
		var row strings.Builder
		for _, blk := range blocks[start:end] {
			row.WriteString(blockStyle(blk).Render(blockRune))
			row.WriteString(" ")
		}
		lines = append(lines, row.String())
	}

	lines = append(lines, "", upStyle.Render(blockRune)+" Up  "+downStyle.Render(blockRune)+" Down")

	title := fmt.Sprintf("Uptime Status - %s (%s)", s.Endpoint.URL, m.view.TimeRange)
	return m.box(boxStyle, title, strings.Join(lines, "\n"))
}

func (m Model) renderInput() string {
	if m.mode == modeAdding {
		return m.box(highlightBoxStyle, "Enter URL (ESC to cancel, Enter to confirm)", "> "+string(m.input)+blockRune)
	}
	return m.box(boxStyle, "Press 'a' to add URL, 'q' to quit", "")
}

func (m Model) logRows() int {
	return max(m.height-12, 5)
}

// visibleLogs returns the window of entries starting at the scroll offset.
func (m Model) visibleLogs(entries []console.Entry) []console.Entry {
	rows := m.logRows()
	if len(entries) <= rows {
		return entries
	}
	start := min(m.logScroll, len(entries))
	end := min(start+rows, len(entries))
	return entries[start:end]
}

func (m Model) developerView() string {
	var b strings.Builder

	b.WriteString(m.box(devBoxStyle, "Developer Mode", "Developer Logs (Press 'd' to go back to main view)"))
	b.WriteString("\n")

	entries := m.driver.Console().Entries()
	msgWidth := max(m.contentWidth()-18, 10)

	lines := []string{
		columnHeaderStyle.Render(cell("Time", 9) + cell("Level", 9) + "Message"),
		"",
	}
	for _, e := range m.visibleLogs(entries) {
		lines = append(lines,
			cell(e.Timestamp.In(m.loc).Format("15:04:05"), 9)+
				levelStyle(e.Level).Render(cell(e.Level.String(), 9))+
				truncate(e.Message, msgWidth),
		)
	}

	title := fmt.Sprintf("Logs (%d/%d) | History: %d results", len(entries), console.MaxEntries, m.view.HistorySize)
	b.WriteString(m.box(boxStyle, title, strings.Join(lines, "\n")))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("↑/↓: Scroll logs | c: Clear logs | d/q: Back to main"))

	return b.String()
}

func statusText(last *bool) string {
	switch {
	case last == nil:
		return "N/A"
	case *last:
		return "UP"
	default:
		return "DOWN"
	}
}

func statusStyle(last *bool) lipgloss.Style {
	switch {
	case last == nil:
		return unknownStyle
	case *last:
		return upStyle
	default:
		return downStyle
	}
}

func uptimeText(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

func latencyText(avg *uint64) string {
	if avg == nil {
		return "N/A"
	}
	return fmt.Sprintf("%dms", *avg)
}

func lastPingText(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "Never"
	}
	return t.In(loc).Format("15:04:05")
}

func blockStyle(b stats.UptimeBlock) lipgloss.Style {
	if b.Status {
		return upStyle
	}
	return downStyle
}

func levelStyle(l console.Level) lipgloss.Style {
	switch l {
	case console.LevelSuccess:
		return upStyle
	case console.LevelWarning:
		return warnStyle
	case console.LevelError:
		return downStyle
	default:
		return lipgloss.NewStyle()
	}
}

// cell pads or truncates s to exactly w runes.
func cell(s string, w int) string {
	s = truncate(s, w-1)
	if n := len([]rune(s)); n < w {
		s += strings.Repeat(" ", w-n)
	}
	return s
}

// truncate shortens s to at most w runes, marking the cut with an ellipsis.
func truncate(s string, w int) string {
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	if w <= 1 {
		return string(r[:max(w, 0)])
	}
	return string(r[:w-1]) + "…"
}
