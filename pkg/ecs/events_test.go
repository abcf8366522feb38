package ecs

import "testing"

func TestEvents_OneTickLatency(t *testing.T) {
	ev := NewEvents[int]()
	ev.Send(1)
	ev.Send(2)

	// 同一 tick 内不可见
	if got := ev.Drain(); got != nil {
		t.Fatalf("events must not be visible before Update, got %v", got)
	}
	if ev.Len() != 2 {
		t.Errorf("Len should count pending events, got %d", ev.Len())
	}

	ev.Update()
	got := ev.Drain()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected [1 2] in order, got %v", got)
	}
	if again := ev.Drain(); again != nil {
		t.Errorf("Drain should consume events, got %v", again)
	}
}

func TestEvents_SendDuringDrainIsDeferred(t *testing.T) {
	ev := NewEvents[string]()
	ev.Send("a")
	ev.Update()

	for _, e := range ev.Drain() {
		// 消费时产生的新事件在下一个 tick 才可见
		ev.Send(e + "b")
	}
	if got := ev.Drain(); got != nil {
		t.Fatalf("event produced during drain leaked into same pass: %v", got)
	}

	ev.Update()
	got := ev.Drain()
	if len(got) != 1 || got[0] != "ab" {
		t.Errorf("expected [ab], got %v", got)
	}
}

func TestEvents_UnreadEventsSurviveUpdate(t *testing.T) {
	ev := NewEvents[int]()
	ev.Send(1)
	ev.Update()
	ev.Send(2)
	ev.Update()

	got := ev.Drain()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("expected [1 2], got %v", got)
	}
}
