package service

import "sync"

// EventType defines the type of event
type EventType string

const (
	EventGraphUpdated     EventType = "graph_updated"
	EventSelectionChanged EventType = "selection_changed"
	EventHistoryMoved     EventType = "history_moved"
	EventSearchCompleted  EventType = "search_completed"
	EventSearchFailed     EventType = "search_failed"
	EventReplayMoved      EventType = "replay_moved"
	EventTreeSaved        EventType = "tree_saved"
	EventTreeDeleted      EventType = "tree_deleted"
)

// Event represents an event that occurred in the workspace
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers = append(eb.subscribers, ch)
}

// Unsubscribe removes a subscriber; it does not close the channel
func (eb *EventBus) Unsubscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	for i, sub := range eb.subscribers {
		if sub == ch {
			eb.subscribers = append(eb.subscribers[:i], eb.subscribers[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	if eb == nil {
		return
	}
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}
