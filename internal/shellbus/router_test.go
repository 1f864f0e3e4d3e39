package shellbus

import (
	"testing"
)

func TestRouterBuffersAndFlushes(t *testing.T) {
	router := NewRouter(RouterWithSubscriberCapacity(4))
	first := Event{EventID: "evt-1", Panel: "log", Type: TypeLogEntry}
	second := Event{EventID: "evt-2", Panel: "log", Type: TypeTurnAdvanced}
	router.Publish(first)
	router.Publish(second)
	sub := router.Subscribe("log")
	defer sub.Close()
	got1 := <-sub.Events
	if got1.EventID != first.EventID {
		t.Fatalf("expected first buffered event, got %s", got1.EventID)
	}
	got2 := <-sub.Events
	if got2.EventID != second.EventID {
		t.Fatalf("expected second buffered event, got %s", got2.EventID)
	}
}

func TestRouterDedupeByEventID(t *testing.T) {
	router := NewRouter()
	sub := router.Subscribe("scan")
	defer sub.Close()
	event := Event{EventID: "evt-1", Panel: "scan", Type: TypeActionDispatched}
	router.Publish(event)
	router.Publish(event)
	select {
	case got := <-sub.Events:
		if got.EventID != event.EventID {
			t.Fatalf("unexpected event: %s", got.EventID)
		}
	default:
		t.Fatalf("expected first delivery")
	}
	select {
	case <-sub.Events:
		t.Fatalf("duplicate event delivered")
	default:
	}
}

func TestRouterDropsOldestPreferredEventOnOverflow(t *testing.T) {
	router := NewRouter(RouterWithSubscriberCapacity(1))
	sub := router.Subscribe("log")
	defer sub.Close()
	oldest := Event{EventID: "evt-1", Panel: "log", Type: TypeLogEntry}
	critical := Event{EventID: "evt-2", Panel: "log", Type: TypeTurnAdvanced}
	router.Publish(oldest)
	router.Publish(critical)
	if got := <-sub.Events; got.EventID != critical.EventID {
		t.Fatalf("expected critical event to replace oldest, got %s", got.EventID)
	}
}

func TestRouterDropsIncomingWhenOldestCritical(t *testing.T) {
	router := NewRouter(RouterWithSubscriberCapacity(1))
	sub := router.Subscribe("log")
	defer sub.Close()
	oldest := Event{EventID: "evt-1", Panel: "log", Type: TypeTurnAdvanced}
	droppable := Event{EventID: "evt-2", Panel: "log", Type: TypeLogEntry}
	router.Publish(oldest)
	router.Publish(droppable)
	if got := <-sub.Events; got.EventID != oldest.EventID {
		t.Fatalf("expected oldest critical event to remain, got %s", got.EventID)
	}
	select {
	case <-sub.Events:
		t.Fatalf("unexpected extra event")
	default:
	}
}

func TestRouterIgnoresEventsWithoutPanel(t *testing.T) {
	router := NewRouter()
	sub := router.Subscribe("nav")
	defer sub.Close()
	router.Publish(Event{EventID: "evt-1", Type: TypeLogEntry})
	select {
	case got := <-sub.Events:
		t.Fatalf("unexpected delivery: %s", got.EventID)
	default:
	}
}
