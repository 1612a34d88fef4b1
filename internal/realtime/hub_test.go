package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvEvent(t *testing.T, sub *Subscriber) Event {
	t.Helper()
	select {
	case ev := <-sub.Events():
		return ev
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestHub_RoomScoping(t *testing.T) {
	h := NewHub()

	alice := h.Subscribe(UserRoom(1))
	bob := h.Subscribe(UserRoom(2))
	admin := h.Subscribe("it_admins")
	defer h.Unsubscribe(alice)
	defer h.Unsubscribe(bob)
	defer h.Unsubscribe(admin)

	h.Publish(UserRoom(1), Event{Name: EventOrderCreated, Payload: "o1"})

	ev := recvEvent(t, alice)
	assert.Equal(t, EventOrderCreated, ev.Name)
	assert.Empty(t, bob.Events())
	assert.Empty(t, admin.Events())

	h.Publish("it_admins", Event{Name: EventNewOrder, Payload: "o1"})
	ev = recvEvent(t, admin)
	assert.Equal(t, EventNewOrder, ev.Name)
	assert.Empty(t, alice.Events())
}

func TestHub_BroadcastReachesEveryone(t *testing.T) {
	h := NewHub()

	alice := h.Subscribe(UserRoom(1))
	admin := h.Subscribe("ssc_admins")
	defer h.Unsubscribe(alice)
	defer h.Unsubscribe(admin)

	h.Broadcast(Event{Name: EventPrinterUpdated, Payload: "p1"})

	assert.Equal(t, EventPrinterUpdated, recvEvent(t, alice).Name)
	assert.Equal(t, EventPrinterUpdated, recvEvent(t, admin).Name)
}

func TestHub_JoinAndLeaveAreIdempotent(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe()
	defer h.Unsubscribe(sub)

	h.Join(sub, "it_admins")
	h.Join(sub, "it_admins")
	h.Publish("it_admins", Event{Name: EventNewOrder})
	assert.Equal(t, EventNewOrder, recvEvent(t, sub).Name)
	// A double join must not duplicate delivery.
	assert.Empty(t, sub.Events())

	h.Leave(sub, "it_admins")
	h.Leave(sub, "it_admins")
	h.Publish("it_admins", Event{Name: EventNewOrder})
	assert.Empty(t, sub.Events())
}

func TestHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe(UserRoom(7))
	defer h.Unsubscribe(sub)

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			h.Publish(UserRoom(7), Event{Name: EventOrderQueueUpdated, Payload: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
	assert.Len(t, sub.events, subscriberBuffer)
}

func TestHub_UnsubscribeClosesChannelOnce(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe()

	h.Unsubscribe(sub)
	h.Unsubscribe(sub) // must not panic

	_, open := <-sub.Events()
	require.False(t, open)
}
