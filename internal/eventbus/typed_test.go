package eventbus

import "testing"

type missionStarted struct{ ID string }

func TestTypedBusPublishSubscribe(t *testing.T) {
	bus := NewTyped[missionStarted]()
	ch := bus.Subscribe()
	bus.Publish(missionStarted{ID: "m1"})
	if v := <-ch; v.ID != "m1" {
		t.Fatalf("expected m1 got %v", v)
	}
	bus.Unsubscribe(ch)
	if bus.Subscribers() != 0 {
		t.Fatalf("subscriber not removed")
	}
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel closed after unsubscribe")
	}
}

func TestTypedBusDropsOnFullSubscriber(t *testing.T) {
	bus := NewTypedSize[int](1)
	slow := bus.Subscribe()
	for i := 0; i < 3; i++ {
		bus.Publish(i)
	}
	if got := bus.Dropped(); got != 2 {
		t.Fatalf("expected 2 dropped got %d", got)
	}
	if v := <-slow; v != 0 {
		t.Fatalf("expected first event kept, got %d", v)
	}
}

func TestTypedBusClose(t *testing.T) {
	bus := NewTyped[int]()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatalf("expected ch1 closed")
	}
	if _, ok := <-ch2; ok {
		t.Fatalf("expected ch2 closed")
	}
	if _, ok := <-bus.Subscribe(); ok {
		t.Fatalf("subscribe after close must return a closed channel")
	}
	bus.Publish(1)
}

func TestTypedBusUnsubscribeAfterClose(t *testing.T) {
	bus := NewTyped[float64]()
	ch := bus.Subscribe()
	bus.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic on Unsubscribe after Close: %v", r)
		}
	}()
	bus.Unsubscribe(ch)
}
