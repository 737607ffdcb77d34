package event

import (
	"sync"
	"testing"
)

func TestBus_Subscribe(t *testing.T) {
	bus := NewBus()

	called := false
	id := bus.Subscribe("test.event", func(e Event) {
		called = true
	})

	if id == "" {
		t.Error("Subscribe should return a non-empty ID")
	}
	if bus.SubscriptionCount() != 1 {
		t.Errorf("Expected 1 subscription, got %d", bus.SubscriptionCount())
	}
	if called {
		t.Error("Handler should not be called until an event is published")
	}
}

func TestBus_Publish(t *testing.T) {
	bus := NewBus()

	var received Event
	bus.Subscribe("agent.invoked", func(e Event) {
		received = e
	})

	bus.Publish(NewAgentInvokedEvent("req-1", "agent-architect", "architect"))

	if received == nil {
		t.Fatal("Handler should have received the event")
	}
	if received.EventType() != "agent.invoked" {
		t.Errorf("Expected event type 'agent.invoked', got '%s'", received.EventType())
	}
	invoked, ok := received.(AgentInvokedEvent)
	if !ok {
		t.Fatalf("expected AgentInvokedEvent, got %T", received)
	}
	if invoked.Role != "architect" {
		t.Errorf("Role = %q, want architect", invoked.Role)
	}
}

func TestBus_SpecificBeforeWildcard(t *testing.T) {
	bus := NewBus()

	var order []string
	bus.SubscribeAll(func(e Event) {
		order = append(order, "wildcard")
	})
	bus.Subscribe("task.completed", func(e Event) {
		order = append(order, "specific")
	})

	bus.Publish(NewTaskCompletedEvent("task-1", true, "done"))

	if len(order) != 2 || order[0] != "specific" || order[1] != "wildcard" {
		t.Errorf("dispatch order = %v, want [specific wildcard]", order)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()

	calls := 0
	id := bus.Subscribe("test.event", func(e Event) {
		calls++
	})

	bus.Publish(newBaseEvent("test.event"))
	if calls != 1 {
		t.Fatalf("expected 1 call before unsubscribe, got %d", calls)
	}

	if !bus.Unsubscribe(id) {
		t.Error("Unsubscribe should return true for a known ID")
	}
	bus.Publish(newBaseEvent("test.event"))
	if calls != 1 {
		t.Errorf("handler called after unsubscribe: %d calls", calls)
	}

	if bus.Unsubscribe("sub-bogus") {
		t.Error("Unsubscribe should return false for an unknown ID")
	}
}

func TestBus_HandlerPanicDoesNotBlockOthers(t *testing.T) {
	bus := NewBus()

	called := false
	bus.Subscribe("test.event", func(e Event) {
		panic("misbehaving handler")
	})
	bus.Subscribe("test.event", func(e Event) {
		called = true
	})

	bus.Publish(newBaseEvent("test.event"))

	if !called {
		t.Error("second handler should run even when the first panics")
	}
}

func TestBus_ConcurrentPublishAndSubscribe(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	count := 0
	bus.Subscribe("test.event", func(e Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			bus.Publish(newBaseEvent("test.event"))
		}()
		go func() {
			defer wg.Done()
			id := bus.Subscribe("other.event", func(e Event) {})
			bus.Unsubscribe(id)
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if count != 10 {
		t.Errorf("expected 10 deliveries, got %d", count)
	}
}

func TestBus_Clear(t *testing.T) {
	bus := NewBus()
	bus.Subscribe("a", func(e Event) {})
	bus.SubscribeAll(func(e Event) {})

	bus.Clear()

	if bus.SubscriptionCount() != 0 {
		t.Errorf("expected 0 subscriptions after Clear, got %d", bus.SubscriptionCount())
	}
}
