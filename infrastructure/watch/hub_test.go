package watch

import (
	"testing"
	"time"
)

func TestWatchReceivesNotify(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Watch(Budgets)
	defer cancel()

	hub.Notify(Budgets)

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatalf("expected signal after notify")
	}
}

func TestNotifyCoalescesBursts(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Watch(Expenses)
	defer cancel()

	for i := 0; i < 10; i++ {
		hub.Notify(Expenses)
	}

	<-ch
	select {
	case <-ch:
		t.Fatalf("expected burst to coalesce into one pending signal")
	default:
	}
}

func TestNotifyIgnoresOtherCollections(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Watch(Tasks)
	defer cancel()

	hub.Notify(Projects)

	select {
	case <-ch:
		t.Fatalf("expected no signal for an unrelated collection")
	default:
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Watch(Tasks)
	cancel()
	cancel() // idempotent

	hub.Notify(Tasks)

	select {
	case <-ch:
		t.Fatalf("expected no signal after cancel")
	default:
	}
}
