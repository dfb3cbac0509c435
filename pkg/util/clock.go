package util

import (
	"fmt"
	"time"
)

// Decision windows resolve on 15-minute wall-clock marks; the producer wakes
// 60 seconds before each mark to act, so the countdown targets that point.
const (
	boundaryPeriodSecs = 900
	actionOffsetSecs   = 60
)

// SecondsToNextBoundary returns the seconds until the next actionable point
// (boundary minus the 60s action offset), clamped to >= 0. Periodic with
// period 900s; range [0, 840].
func SecondsToNextBoundary(now time.Time) int {
	m := now.Minute()
	s := now.Second()
	raw := ((m/15+1)*15-m-1)*60 + (60 - s)
	v := raw%boundaryPeriodSecs - actionOffsetSecs
	if v < 0 {
		return 0
	}
	return v
}

// FormatCountdown renders seconds as "M:SS" for display.
func FormatCountdown(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
