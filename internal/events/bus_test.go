package events

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestBusDeliversToSubscribers(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	bus := NewBus(log)

	var received []*Event
	bus.Subscribe(SnapshotsRefreshed, func(e *Event) {
		received = append(received, e)
	})

	bus.Publish(SnapshotsRefreshed, &SnapshotsRefreshedData{CompanyID: "acme", RowCount: 4})
	bus.Publish(InsightsGenerated, &InsightsGeneratedData{CompanyID: "acme", Count: 3})

	if len(received) != 1 {
		t.Fatalf("expected 1 event, got %d", len(received))
	}
	if received[0].Type != SnapshotsRefreshed {
		t.Errorf("expected type %s, got %s", SnapshotsRefreshed, received[0].Type)
	}

	data, ok := received[0].Data.(*SnapshotsRefreshedData)
	if !ok {
		t.Fatalf("unexpected data type %T", received[0].Data)
	}
	if data.RowCount != 4 {
		t.Errorf("expected row count 4, got %d", data.RowCount)
	}
}

func TestBusMultipleHandlers(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	bus := NewBus(log)

	count := 0
	bus.Subscribe(InsightsGenerated, func(e *Event) { count++ })
	bus.Subscribe(InsightsGenerated, func(e *Event) { count++ })

	bus.Publish(InsightsGenerated, nil)

	if count != 2 {
		t.Errorf("expected both handlers to run, got %d", count)
	}
}

func TestBusNoSubscribers(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	bus := NewBus(log)

	// Publishing with no subscribers must not panic
	bus.Publish(SnapshotsRefreshed, nil)
}
