package tui

import (
	"math"
	"strings"

	"github.com/jpalmerr/pingme/internal/stats"
)

const (
	pointRune = '●'
	lineRune  = '•'
)

// plotChart draws points onto a width x height grid. X spans [0, hours] left
// to right, Y spans [0, 100] bottom to top. Consecutive points are joined.
func plotChart(points []stats.ChartPoint, hours, width, height int) []string {
	if width < 1 || height < 1 {
		return nil
	}
	if hours < 1 {
		hours = 1
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	col := func(x float64) int {
		c := int(math.Round(x / float64(hours) * float64(width-1)))
		return clampInt(c, 0, width-1)
	}
	row := func(y float64) int {
		r := int(math.Round((100 - y) / 100 * float64(height-1)))
		return clampInt(r, 0, height-1)
	}

	for i := 1; i < len(points); i++ {
		c0, r0 := col(points[i-1].X), row(points[i-1].Y)
		c1, r1 := col(points[i].X), row(points[i].Y)
		if c1 < c0 {
			c0, r0, c1, r1 = c1, r1, c0, r0
		}
		for c := c0 + 1; c < c1; c++ {
			t := float64(c-c0) / float64(c1-c0)
			r := int(math.Round(float64(r0) + t*float64(r1-r0)))
			grid[r][c] = lineRune
		}
	}
	for _, p := range points {
		grid[row(p.Y)][col(p.X)] = pointRune
	}

	lines := make([]string, height)
	for i, r := range grid {
		lines[i] = string(r)
	}
	return lines
}

// xAxis spreads labels across width: first flush left, last flush right,
// the rest evenly in between. Labels never overlap.
func xAxis(labels []string, width int) string {
	if len(labels) == 0 {
		return ""
	}
	buf := []rune(strings.Repeat(" ", width))
	end := 0
	for i, l := range labels {
		lr := []rune(l)
		pos := 0
		if len(labels) > 1 {
			pos = i * (width - 1) / (len(labels) - 1)
		}
		if i == len(labels)-1 {
			pos = width - len(lr)
		} else if i > 0 {
			pos -= len(lr) / 2
		}
		if i > 0 && pos <= end {
			pos = end + 1
		}
		if pos < 0 {
			pos = 0
		}
		for len(buf) < pos+len(lr) {
			buf = append(buf, ' ')
		}
		copy(buf[pos:], lr)
		end = pos + len(lr)
	}
	return strings.TrimRight(string(buf), " ")
}

// yLabel returns the axis label for grid row r of height rows, or "" when
// the row carries none.
func yLabel(r, height int) string {
	if height < 2 {
		return "100%"
	}
	for k, label := range []string{"100%", "75%", "50%", "25%", "0%"} {
		if r == int(math.Round(float64(k)*float64(height-1)/4)) {
			return label
		}
	}
	return ""
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
