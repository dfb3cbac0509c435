package logger

import "testing"

func TestCollectorBounded(t *testing.T) {
	c := NewLogCollector(3)
	for i := 0; i < 10; i++ {
		c.AddLog("error", "boom", nil, "x.go:1")
	}
	if c.Len() != 3 {
		t.Fatalf("len = %d", c.Len())
	}
}

func TestCollectorRecentNewestLast(t *testing.T) {
	c := NewLogCollector(10)
	c.AddLog("warn", "first", nil, "a.go:1")
	c.AddLog("error", "second", nil, "b.go:2")
	got := c.Recent(0)
	if len(got) != 2 || got[0].Message != "first" || got[1].Message != "second" {
		t.Fatalf("recent = %+v", got)
	}
	if got := c.Recent(1); len(got) != 1 || got[0].Message != "second" {
		t.Fatalf("limited recent = %+v", got)
	}
}

func TestLoggerFeedsCollector(t *testing.T) {
	l, err := New(&Config{Level: "debug", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ring := l.AddCollector(5)
	l.Info("not captured")
	l.Warn("captured warn", String("k", "v"))
	l.Error("captured error")
	if ring.Len() != 2 {
		t.Fatalf("ring len = %d", ring.Len())
	}
	entries := ring.Recent(0)
	if entries[0].Level != "warn" || entries[1].Level != "error" {
		t.Fatalf("entries = %+v", entries)
	}
	if entries[0].Fields["k"] != "v" {
		t.Fatalf("fields = %+v", entries[0].Fields)
	}
}
