package timeline

import (
	"github.com/nguyentantai21042004/lessonreel/internal/apperr"
)

// Window is a segment's [Start, End) interval in seconds on the final timeline.
type Window struct {
	SegmentIndex int     `json:"segment_index"`
	Start        float64 `json:"start"`
	End          float64 `json:"end"`
}

// Duration returns End - Start.
func (w Window) Duration() float64 {
	return w.End - w.Start
}

// Compose lays durations end to end in order. Window i starts where window i-1 ends,
// so the windows are contiguous and the last End is the running sum of all durations.
func Compose(durations []float64) ([]Window, error) {
	if len(durations) == 0 {
		return nil, apperr.New(apperr.InvalidInput, "timeline.compose", "no durations")
	}

	windows := make([]Window, len(durations))
	var t float64
	for i, d := range durations {
		if d <= 0 {
			return nil, apperr.New(apperr.InvalidInput, "timeline.compose", "duration %d is %v, must be positive", i, d)
		}
		windows[i] = Window{SegmentIndex: i, Start: t, End: t + d}
		t = windows[i].End
	}
	return windows, nil
}

// Total returns the end of the last window, or 0 for an empty timeline.
func Total(windows []Window) float64 {
	if len(windows) == 0 {
		return 0
	}
	return windows[len(windows)-1].End
}
