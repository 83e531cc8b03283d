package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type countingDrops struct{ n int }

func (c *countingDrops) IncEventsDropped() { c.n++ }

func slotEvent(professionalID string) Event {
	return NewSlotEvent(SlotCreated, &domain.AvailabilitySlot{ID: "slot-1", ProfessionalID: professionalID})
}

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e, ok := <-ch:
		require.True(t, ok, "channel closed")
		return e
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func assertEmpty(t *testing.T, ch <-chan Event) {
	t.Helper()
	select {
	case e := <-ch:
		t.Fatalf("unexpected event %s", e.Type)
	default:
	}
}

func TestHub_RoutesByTopic(t *testing.T) {
	hub := NewHub(4, nil, logger.NewNop())

	proA, cancelA := hub.Subscribe(SlotTopic("pro-a"))
	defer cancelA()
	proB, cancelB := hub.Subscribe(SlotTopic("pro-b"))
	defer cancelB()
	all, cancelAll := hub.Subscribe(TopicAll)
	defer cancelAll()

	hub.Publish(slotEvent("pro-a"))

	assert.Equal(t, "pro-a", receive(t, proA).ProfessionalID)
	assert.Equal(t, "pro-a", receive(t, all).ProfessionalID)
	assertEmpty(t, proB)
}

func TestHub_BookingEventReachesBothSides(t *testing.T) {
	hub := NewHub(4, nil, logger.NewNop())

	pro, cancelPro := hub.Subscribe(ProfessionalBookingsTopic("pro-1"))
	defer cancelPro()
	client, cancelClient := hub.Subscribe(ClientBookingsTopic("uid-1"))
	defer cancelClient()
	slots, cancelSlots := hub.Subscribe(SlotTopic("pro-1"))
	defer cancelSlots()

	hub.Publish(NewBookingEvent(BookingCreated, &domain.Booking{ID: "b-1", ProfessionalID: "pro-1", ClientID: "uid-1"}))

	assert.Equal(t, "b-1", receive(t, pro).Booking.ID)
	assert.Equal(t, "b-1", receive(t, client).Booking.ID)
	assertEmpty(t, slots)
}

func TestHub_SubscribeWithoutTopicsGetsEverything(t *testing.T) {
	hub := NewHub(4, nil, logger.NewNop())

	ch, cancel := hub.Subscribe()
	defer cancel()

	hub.Publish(slotEvent("pro-x"))
	assert.Equal(t, SlotCreated, receive(t, ch).Type)
}

func TestHub_SlowSubscriberDropsWithoutBlocking(t *testing.T) {
	drops := &countingDrops{}
	hub := NewHub(1, drops, logger.NewNop())

	ch, cancel := hub.Subscribe(SlotTopic("pro-1"))
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 3; i++ {
			hub.Publish(slotEvent("pro-1"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	receive(t, ch)
	assertEmpty(t, ch)
	assert.Equal(t, 2, drops.n)
	assert.Equal(t, uint64(2), hub.Dropped())
}

func TestHub_CancelClosesChannel(t *testing.T) {
	hub := NewHub(1, nil, logger.NewNop())

	ch, cancel := hub.Subscribe(SlotTopic("pro-1"))
	assert.Equal(t, 1, hub.SubscriberCount())

	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, hub.SubscriberCount())

	hub.Publish(slotEvent("pro-1"))
}

func TestHub_Close(t *testing.T) {
	hub := NewHub(1, nil, logger.NewNop())

	ch, cancel := hub.Subscribe(TopicAll)
	hub.Close()

	_, ok := <-ch
	assert.False(t, ok)

	cancel()
	hub.Publish(slotEvent("pro-1"))

	late, _ := hub.Subscribe(TopicAll)
	_, ok = <-late
	assert.False(t, ok)
}

func TestEvent_Topics(t *testing.T) {
	uid := "uid-7"
	e := NewSlotEvent(SlotBooked, &domain.AvailabilitySlot{ProfessionalID: "pro-1", BookedByUID: &uid})
	assert.Equal(t, []string{"slots:pro-1"}, e.Topics())
	assert.Equal(t, "uid-7", e.ClientID)

	b := NewBookingEvent(BookingStatusChanged, &domain.Booking{ProfessionalID: "pro-1", ClientID: "uid-7"})
	assert.Equal(t, []string{"bookings:professional:pro-1", "bookings:client:uid-7"}, b.Topics())
	assert.NotEmpty(t, b.ID)
}
