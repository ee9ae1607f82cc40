package stats

import (
	"fmt"
	"time"
)

// TimeRange selects the window used for the chart series and the block
// timeline.
type TimeRange interface {
	// DisplayName is the short label shown next to charts, e.g. "60m".
	DisplayName() string

	// DurationHours is the chart domain in whole hours, at least 1.
	DurationHours() int

	// Window is the span covered by the block timeline.
	Window() time.Duration
}

// Minutes is a time range of the last n minutes.
type Minutes int

// DefaultTimeRange is the range used when none is configured.
const DefaultTimeRange = Minutes(60)

// DisplayName returns "<n>m".
func (m Minutes) DisplayName() string {
	return fmt.Sprintf("%dm", int(m))
}

// DurationHours returns n/60, floored at one hour.
func (m Minutes) DurationHours() int {
	h := int(m) / 60
	if h < 1 {
		return 1
	}
	return h
}

// Window returns n minutes.
func (m Minutes) Window() time.Duration {
	return time.Duration(m) * time.Minute
}

// TimeLabels returns the five x-axis labels for tr, oldest first.
func TimeLabels(tr TimeRange) []string {
	m := int(tr.Window() / time.Minute)
	return []string{
		fmt.Sprintf("%dm ago", m),
		fmt.Sprintf("%dm ago", m*3/4),
		fmt.Sprintf("%dm ago", m/2),
		fmt.Sprintf("%dm ago", m/4),
		"Now",
	}
}
