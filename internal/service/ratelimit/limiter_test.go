package ratelimit

import (
	"testing"
	"time"
)

func TestAllowBurstThenDeny(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("c1", 3, 1) {
			t.Fatalf("request %d denied within burst", i)
		}
	}
	if l.Allow("c1", 3, 1) {
		t.Fatal("request allowed past burst")
	}
}

func TestAllowRefills(t *testing.T) {
	l := New()
	if !l.Allow("c1", 1, 50) {
		t.Fatal("first request denied")
	}
	if l.Allow("c1", 1, 50) {
		t.Fatal("allowed with empty bucket")
	}
	time.Sleep(40 * time.Millisecond)
	if !l.Allow("c1", 1, 50) {
		t.Fatal("denied after refill")
	}
}

func TestKeysIndependent(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 1) {
		t.Fatal("a denied")
	}
	if !l.Allow("b", 1, 1) {
		t.Fatal("b denied")
	}
	if l.Size() != 2 {
		t.Fatalf("size = %d, want 2", l.Size())
	}
}
