package pressable

import (
	"fmt"
	"time"
)

// PointerSample is one pointer or hover callback from the platform, in
// widget-local coordinates (origin at the widget's top-left corner).
type PointerSample struct {
	X, Y float64
	Time time.Duration
	// NoPosition marks a synthesized sample (for example a cancel delivered
	// without a location). The last recorded position is reused.
	NoPosition bool
}

// At returns a sample at local coordinates (x, y) and time t.
func At(x, y float64, t time.Duration) PointerSample {
	return PointerSample{X: x, Y: y, Time: t}
}

// PointerAction identifies a raw pointer callback.
type PointerAction uint8

const (
	PointerDown   PointerAction = iota // a pointer touched down or a button was pressed
	PointerMove                        // the pointer moved while down
	PointerUp                          // the pointer lifted or the button was released
	PointerCancel                      // the platform aborted the pointer stream
)

// HoverAction identifies a raw hover callback.
type HoverAction uint8

const (
	HoverEnter HoverAction = iota // a hovering pointer entered the widget
	HoverExit                     // a hovering pointer left the widget
)

// Phase is the press phase of a gesture session.
type Phase uint8

const (
	// PhaseIdle is the initial and terminal phase.
	PhaseIdle Phase = iota
	// PhasePressPending waits for the press-in delay to elapse.
	PhasePressPending
	// PhasePressed is an active press session.
	PhasePressed
)

// EventType identifies a semantic interaction event.
type EventType uint8

const (
	EventPressIn   EventType = iota // the press session started
	EventPressOut                   // the press session ended (release, cancel or disable)
	EventPress                      // a completed press released inside the bounds
	EventLongPress                  // the press session outlived the long-press delay
	EventPressMove                  // the pointer moved during a press session
	EventHoverIn                    // a hovering pointer entered
	EventHoverOut                   // a hovering pointer left
)

var eventNames = [...]string{
	EventPressIn:   "pressIn",
	EventPressOut:  "pressOut",
	EventPress:     "press",
	EventLongPress: "longPress",
	EventPressMove: "pressMove",
	EventHoverIn:   "hoverIn",
	EventHoverOut:  "hoverOut",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return fmt.Sprintf("EventType(%d)", uint8(t))
}

// ParseEventType returns the EventType whose String form is name.
func ParseEventType(name string) (EventType, error) {
	for i, n := range eventNames {
		if n == name {
			return EventType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown event type %q", name)
}

func (a PointerAction) String() string {
	switch a {
	case PointerDown:
		return "PointerDown"
	case PointerMove:
		return "PointerMove"
	case PointerUp:
		return "PointerUp"
	case PointerCancel:
		return "PointerCancel"
	default:
		panic("invalid PointerAction")
	}
}

func (a HoverAction) String() string {
	switch a {
	case HoverEnter:
		return "HoverEnter"
	case HoverExit:
		return "HoverExit"
	default:
		panic("invalid HoverAction")
	}
}

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "PhaseIdle"
	case PhasePressPending:
		return "PhasePressPending"
	case PhasePressed:
		return "PhasePressed"
	default:
		panic("invalid Phase")
	}
}
