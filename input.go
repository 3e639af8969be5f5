package pressable

const numEventTypes = len(eventNames)

// --- Handler registry ---

type eventHandler struct {
	id uint32
	fn func(Event)
}

// Handlers is a registry of event callbacks. It implements EventSink: every
// emitted event goes to the catch-all callbacks first, then to the callbacks
// registered for its type, each in registration order.
//
// The zero value is ready to use.
type Handlers struct {
	any    []eventHandler
	byType [numEventTypes][]eventHandler
	nextID uint32
}

// allTypes marks a CallbackHandle registered through OnEvent.
const allTypes = EventType(0xff)

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id    uint32
	reg   *Handlers
	event EventType
}

// Remove unregisters this callback so it no longer fires.
// The entry is removed from the slice to avoid nil iteration waste.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	if h.event == allTypes {
		h.reg.any = removeHandler(h.reg.any, h.id)
		return
	}
	if int(h.event) < numEventTypes {
		h.reg.byType[h.event] = removeHandler(h.reg.byType[h.event], h.id)
	}
}

// removeHandler returns a new slice without id. The old backing array is left
// intact so an Emit in progress keeps its view.
func removeHandler(s []eventHandler, id uint32) []eventHandler {
	for i := range s {
		if s[i].id == id {
			return append(s[:i:i], s[i+1:]...)
		}
	}
	return s
}

func (h *Handlers) add(t EventType, fn func(Event)) CallbackHandle {
	h.nextID++
	id := h.nextID
	if t == allTypes {
		h.any = append(h.any, eventHandler{id: id, fn: fn})
	} else {
		h.byType[t] = append(h.byType[t], eventHandler{id: id, fn: fn})
	}
	return CallbackHandle{id: id, reg: h, event: t}
}

// OnEvent registers a callback for every event type.
func (h *Handlers) OnEvent(fn func(Event)) CallbackHandle {
	return h.add(allTypes, fn)
}

// OnPressIn registers a callback for pressIn events.
func (h *Handlers) OnPressIn(fn func(Event)) CallbackHandle {
	return h.add(EventPressIn, fn)
}

// OnPressOut registers a callback for pressOut events.
func (h *Handlers) OnPressOut(fn func(Event)) CallbackHandle {
	return h.add(EventPressOut, fn)
}

// OnPress registers a callback for completed presses.
func (h *Handlers) OnPress(fn func(Event)) CallbackHandle {
	return h.add(EventPress, fn)
}

// OnLongPress registers a callback for long presses. It fires at most once
// per press session.
func (h *Handlers) OnLongPress(fn func(Event)) CallbackHandle {
	return h.add(EventLongPress, fn)
}

// OnPressMove registers a callback for pointer movement during a press.
func (h *Handlers) OnPressMove(fn func(Event)) CallbackHandle {
	return h.add(EventPressMove, fn)
}

// OnHoverIn registers a callback for hover enter.
func (h *Handlers) OnHoverIn(fn func(Event)) CallbackHandle {
	return h.add(EventHoverIn, fn)
}

// OnHoverOut registers a callback for hover exit.
func (h *Handlers) OnHoverOut(fn func(Event)) CallbackHandle {
	return h.add(EventHoverOut, fn)
}

// Emit implements EventSink.
func (h *Handlers) Emit(e Event) {
	for _, cb := range h.any {
		cb.fn(e)
	}
	if int(e.Type) < numEventTypes {
		for _, cb := range h.byType[e.Type] {
			cb.fn(e)
		}
	}
}
