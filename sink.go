package pressable

import "time"

// Event is one semantic interaction produced by a Gesture.
type Event struct {
	Type EventType
	// Pressed is the widget's pressed state after the transition.
	Pressed   bool
	Timestamp time.Duration
	LocalX    float64
	LocalY    float64
	PageX     float64
	PageY     float64
}

// EventSink consumes semantic events. Emit must not block; the gesture does
// not retry or queue events.
type EventSink interface {
	Emit(e Event)
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) {
	f(e)
}

// MultiSink forwards every event to each non-nil sink in order.
type MultiSink []EventSink

// Emit implements EventSink.
func (m MultiSink) Emit(e Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(e)
		}
	}
}

// EventLog is an EventSink that records everything it receives.
type EventLog struct {
	Events []Event
}

// Emit implements EventSink.
func (l *EventLog) Emit(e Event) {
	l.Events = append(l.Events, e)
}

// Types returns the recorded event types in order.
func (l *EventLog) Types() []EventType {
	out := make([]EventType, len(l.Events))
	for i, e := range l.Events {
		out[i] = e.Type
	}
	return out
}

// Count returns how many events of type t were recorded.
func (l *EventLog) Count(t EventType) int {
	n := 0
	for _, e := range l.Events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// Reset discards recorded events.
func (l *EventLog) Reset() {
	l.Events = l.Events[:0]
}

// EntityStore is the interface for optional ECS integration.
// When set on a Pressable, interaction events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries an Event and the widget it came from across the
// ECS bridge.
type InteractionEvent struct {
	Event
	EntityID uint32
	Name     string
}
