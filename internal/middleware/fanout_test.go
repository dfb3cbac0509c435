package middleware

import (
	"testing"

	"BotPull/internal/domain/models"
)

func TestFanoutDeliversToAllSubscribers(t *testing.T) {
	f := NewFanout()
	a, cancelA := f.Subscribe()
	b, cancelB := f.Subscribe()
	defer cancelA()
	defer cancelB()

	f.Publish(&models.Snapshot{Cycle: 1})
	if s := <-a; s.Cycle != 1 {
		t.Fatalf("a got cycle %d", s.Cycle)
	}
	if s := <-b; s.Cycle != 1 {
		t.Fatalf("b got cycle %d", s.Cycle)
	}
}

func TestFanoutLatestWinsOnSlowSubscriber(t *testing.T) {
	f := NewFanout() // buffer 1
	ch, cancel := f.Subscribe()
	defer cancel()

	f.Publish(&models.Snapshot{Cycle: 1})
	f.Publish(&models.Snapshot{Cycle: 2})
	f.Publish(&models.Snapshot{Cycle: 3})

	if s := <-ch; s.Cycle != 3 {
		t.Fatalf("expected latest snapshot, got cycle %d", s.Cycle)
	}
	if f.Dropped() != 2 {
		t.Fatalf("dropped = %d", f.Dropped())
	}
}

func TestFanoutUnsubscribeClosesChannel(t *testing.T) {
	f := NewFanout()
	ch, cancel := f.Subscribe()
	cancel()
	if _, ok := <-ch; ok {
		t.Fatalf("channel not closed")
	}
	if f.SubscriberCount() != 0 {
		t.Fatalf("subscriber count = %d", f.SubscriberCount())
	}
	// publishing with no subscribers is a no-op
	f.Publish(&models.Snapshot{Cycle: 9})
}

func TestFanoutDoubleCancel(t *testing.T) {
	f := NewFanout()
	_, cancel := f.Subscribe()
	cancel()
	cancel() // second cancel must not panic
}
