package realtime

import (
	"log"
	"sync"
)

// subscriberBuffer bounds how many undelivered events a subscriber may hold.
// A full buffer drops the event: delivery is at-most-once and best-effort, and
// a reconnecting client re-fetches authoritative state over the pull API.
const subscriberBuffer = 32

// Subscriber is one connected client's view of the bus.
type Subscriber struct {
	events chan Event

	mu    sync.Mutex
	rooms map[string]struct{}
}

// Events returns the channel events are delivered on. The channel is closed
// when the subscriber is removed from the hub.
func (sub *Subscriber) Events() <-chan Event {
	return sub.events
}

func (sub *Subscriber) inRoom(room string) bool {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	_, ok := sub.rooms[room]
	return ok
}

// Hub fans out events to room-scoped subscriber groups: per-user rooms,
// per-shop admin rooms, and the broadcast room.
type Hub struct {
	mu   sync.RWMutex
	subs map[*Subscriber]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscriber]struct{})}
}

// Subscribe registers a new subscriber joined to the given rooms plus the
// broadcast room.
func (h *Hub) Subscribe(rooms ...string) *Subscriber {
	sub := &Subscriber{
		events: make(chan Event, subscriberBuffer),
		rooms:  make(map[string]struct{}, len(rooms)+1),
	}
	sub.rooms[RoomBroadcast] = struct{}{}
	for _, room := range rooms {
		sub.rooms[room] = struct{}{}
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Unsubscribe removes a subscriber and closes its event channel. Removing a
// subscriber twice is a no-op.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	_, ok := h.subs[sub]
	if ok {
		delete(h.subs, sub)
	}
	h.mu.Unlock()
	if ok {
		close(sub.events)
	}
}

// Join adds a subscriber to a room. Joining a room twice is a no-op.
func (h *Hub) Join(sub *Subscriber, room string) {
	sub.mu.Lock()
	sub.rooms[room] = struct{}{}
	sub.mu.Unlock()
}

// Leave removes a subscriber from a room. Leaving a room the subscriber is
// not in is a no-op.
func (h *Hub) Leave(sub *Subscriber, room string) {
	sub.mu.Lock()
	delete(sub.rooms, room)
	sub.mu.Unlock()
}

// Publish delivers an event to every subscriber in the room. Slow subscribers
// with a full buffer miss the event.
func (h *Hub) Publish(room string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		if !sub.inRoom(room) {
			continue
		}
		select {
		case sub.events <- ev:
		default:
			log.Printf("realtime: dropping %q event for slow subscriber in room %q", ev.Name, room)
		}
	}
}

// Broadcast delivers an event to every connected subscriber.
func (h *Hub) Broadcast(ev Event) {
	h.Publish(RoomBroadcast, ev)
}
