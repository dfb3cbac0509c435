package util

import (
	"testing"
	"time"
)

func at(min, sec int) time.Time {
	return time.Date(2025, 3, 7, 12, min, sec, 0, time.UTC)
}

func TestSecondsToNextBoundaryFormula(t *testing.T) {
	cases := []struct {
		min, sec int
		want     int
	}{
		{0, 0, 0},    // raw 900 -> mod 0 -> clamped
		{14, 0, 0},   // at the action point exactly
		{15, 0, 0},   // fresh window, raw 900 again
		{13, 0, 60},  // one minute before the action point
		{13, 30, 30},
		{1, 0, 780},  // raw 840
		{0, 1, 839},  // just past a boundary
		{16, 10, 770},
		{29, 0, 0},
		{44, 30, 0},
		{45, 0, 0},
		{46, 30, 750},
	}
	for _, c := range cases {
		got := SecondsToNextBoundary(at(c.min, c.sec))
		if got != c.want {
			t.Fatalf("at %02d:%02d got %d want %d", c.min, c.sec, got, c.want)
		}
	}
}

func TestSecondsToNextBoundaryRange(t *testing.T) {
	for min := 0; min < 60; min++ {
		for sec := 0; sec < 60; sec++ {
			v := SecondsToNextBoundary(at(min, sec))
			if v < 0 || v > 840 {
				t.Fatalf("at %02d:%02d value %d out of [0,840]", min, sec, v)
			}
		}
	}
}

func TestSecondsToNextBoundaryPeriodic(t *testing.T) {
	base := at(3, 21)
	for i := 1; i < 4; i++ {
		shifted := base.Add(time.Duration(i) * 15 * time.Minute)
		if a, b := SecondsToNextBoundary(base), SecondsToNextBoundary(shifted); a != b {
			t.Fatalf("not periodic: %d vs %d at +%dm", a, b, i*15)
		}
	}
}

func TestFormatCountdown(t *testing.T) {
	cases := map[int]string{0: "0:00", 5: "0:05", 60: "1:00", 779: "12:59", -3: "0:00"}
	for in, want := range cases {
		if got := FormatCountdown(in); got != want {
			t.Fatalf("FormatCountdown(%d) = %q, want %q", in, got, want)
		}
	}
}
