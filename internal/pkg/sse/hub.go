package sse

import (
	"sync"
)

// Event names published by the attendance service and the recap job.
const (
	EventAttendanceRecorded = "attendance.recorded"
	EventDailyRecap         = "attendance.daily_recap"
	EventSecurityAlert      = "security.alert"
)

const subscriberBuffer = 16

// Event represents an SSE event to be sent to subscribers
type Event struct {
	Event string
	Data  interface{}
}

// Publisher is the write side of the hub used by services and jobs.
type Publisher interface {
	Publish(userID string, event Event)
	PublishToAdmins(event Event)
}

type subscriber struct {
	userID string
	admin  bool
}

// Hub fans events out to connected clients. An admin connection receives its
// own events plus everything published to admins.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Event]subscriber
}

// NewHub creates a new SSE Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[chan Event]subscriber),
	}
}

// Subscribe registers a connection and returns its channel and cleanup function
func (h *Hub) Subscribe(userID string, admin bool) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	h.subscribers[ch] = subscriber{userID: userID, admin: admin}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers, ch)
			close(ch)
		})
	}

	return ch, cleanup
}

// Publish sends an event to every connection of one user
func (h *Hub) Publish(userID string, event Event) {
	h.broadcast(event, func(s subscriber) bool { return s.userID == userID })
}

// PublishToAdmins sends an event to every admin connection
func (h *Hub) PublishToAdmins(event Event) {
	h.broadcast(event, func(s subscriber) bool { return s.admin })
}

func (h *Hub) broadcast(event Event, match func(subscriber) bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch, s := range h.subscribers {
		if !match(s) {
			continue
		}
		select {
		case ch <- event:
		default:
			// Slow client; drop rather than block publishers.
		}
	}
}

// SubscriberCount returns the number of active connections for a user
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, s := range h.subscribers {
		if s.userID == userID {
			n++
		}
	}
	return n
}

// TotalSubscribers returns the total number of active connections
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
