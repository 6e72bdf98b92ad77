package ecs

// EventType identifies an event payload.
type EventType string

const (
	EventCollectibleOverlap EventType = "collectible_overlap"
	EventHazardContact      EventType = "hazard_contact"
)

// Event is a generic ECS event payload.
type Event struct {
	Type EventType
	Data any
}

// CollectibleOverlap is pushed when the player starts touching a collectible.
type CollectibleOverlap struct {
	Entity Entity
	Slot   int
}

// HazardContact is pushed when the player starts touching a hazard.
type HazardContact struct {
	Player Entity
	Hazard Entity
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
