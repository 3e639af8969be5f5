package pressable

import (
	"errors"
	"log/slog"
)

var (
	// ErrDestroyed is reported for requests made on, or outstanding at the
	// time of, a destroyed widget.
	ErrDestroyed = errors.New("pressable: widget destroyed")
	// ErrUnknownMethod is reported by Invoke for unsupported methods.
	ErrUnknownMethod = errors.New("pressable: unknown method")
	// ErrNoHost is reported for host requests on a widget without a Host.
	ErrNoHost = errors.New("pressable: no host")
)

// Host is the platform side of a Pressable. Focus and blur are asynchronous:
// the host completes them by calling Pressable.CompleteRequest with the token.
type Host interface {
	// PlaySoundEffect plays the platform's click feedback.
	PlaySoundEffect()
	RequestFocus(tok RequestToken)
	RequestBlur(tok RequestToken)
}

// InvokeResult is the payload of a successful Invoke.
type InvokeResult struct {
	// Rect is set by "measure".
	Rect Rect
}

// Pressable is a pressable widget. It owns one Gesture and forwards the
// events it produces to registered callbacks, extra sinks and the optional
// ECS bridge, in that order.
type Pressable struct {
	Name     string
	EntityID uint32

	gesture  *Gesture
	handlers Handlers
	sinks    []EventSink
	store    EntityStore
	host     Host
	requests Pending[struct{}]

	injectQueue []syntheticPointerEvent

	debug  bool
	logger *slog.Logger
}

// NewPressable creates an idle widget that arms its timers on sched. A nil
// host drops sound feedback and fails focus requests with ErrNoHost.
func NewPressable(name string, sched Scheduler, host Host) *Pressable {
	p := &Pressable{Name: name, host: host}
	p.gesture = NewGesture(sched, SinkFunc(p.dispatch))
	p.gesture.OnPressFeedback = p.playSound
	return p
}

// Gesture returns the widget's gesture engine.
func (p *Pressable) Gesture() *Gesture {
	return p.gesture
}

// HandlePointer forwards a raw pointer callback. See Gesture.HandlePointer.
func (p *Pressable) HandlePointer(action PointerAction, s PointerSample) bool {
	return p.gesture.HandlePointer(action, s)
}

// HandleHover forwards a raw hover callback.
func (p *Pressable) HandleHover(action HoverAction, s PointerSample) {
	p.gesture.HandleHover(action, s)
}

// SetConfig applies a partial configuration between events.
func (p *Pressable) SetConfig(u ConfigUpdate) {
	p.gesture.SetConfig(u)
}

// Config returns the current configuration.
func (p *Pressable) Config() GestureConfig {
	return p.gesture.Config()
}

// SetLayout records the widget's page rectangle.
func (p *Pressable) SetLayout(r Rect) {
	p.gesture.SetLayout(r)
}

// Measure returns the widget's page rectangle.
func (p *Pressable) Measure() Rect {
	return p.gesture.Layout()
}

// Pressed reports whether the widget should render as pressed.
func (p *Pressable) Pressed() bool {
	return p.gesture.Pressed()
}

// Hovered reports whether a hovering pointer is over the widget.
func (p *Pressable) Hovered() bool {
	return p.gesture.Hovered()
}

// AddSink adds a sink that receives every event after the callbacks.
func (p *Pressable) AddSink(s EventSink) {
	p.sinks = append(p.sinks, s)
}

// SetEntityStore sets the optional ECS bridge.
func (p *Pressable) SetEntityStore(store EntityStore) {
	p.store = store
}

// --- Callback registration ---

// OnEvent registers a callback for every event type.
func (p *Pressable) OnEvent(fn func(Event)) CallbackHandle { return p.handlers.OnEvent(fn) }

// OnPressIn registers a callback for pressIn events.
func (p *Pressable) OnPressIn(fn func(Event)) CallbackHandle { return p.handlers.OnPressIn(fn) }

// OnPressOut registers a callback for pressOut events.
func (p *Pressable) OnPressOut(fn func(Event)) CallbackHandle { return p.handlers.OnPressOut(fn) }

// OnPress registers a callback for completed presses.
func (p *Pressable) OnPress(fn func(Event)) CallbackHandle { return p.handlers.OnPress(fn) }

// OnLongPress registers a callback for long presses.
func (p *Pressable) OnLongPress(fn func(Event)) CallbackHandle { return p.handlers.OnLongPress(fn) }

// OnPressMove registers a callback for movement during a press.
func (p *Pressable) OnPressMove(fn func(Event)) CallbackHandle { return p.handlers.OnPressMove(fn) }

// OnHoverIn registers a callback for hover enter.
func (p *Pressable) OnHoverIn(fn func(Event)) CallbackHandle { return p.handlers.OnHoverIn(fn) }

// OnHoverOut registers a callback for hover exit.
func (p *Pressable) OnHoverOut(fn func(Event)) CallbackHandle { return p.handlers.OnHoverOut(fn) }

// --- Host requests ---

// Focus asks the host to focus the widget. done runs when the host calls
// CompleteRequest, or with ErrDestroyed if the widget is destroyed first.
func (p *Pressable) Focus(done func(error)) {
	p.request(done, func(h Host, tok RequestToken) { h.RequestFocus(tok) })
}

// Blur asks the host to remove focus from the widget.
func (p *Pressable) Blur(done func(error)) {
	p.request(done, func(h Host, tok RequestToken) { h.RequestBlur(tok) })
}

func (p *Pressable) request(done func(error), send func(Host, RequestToken)) {
	if done == nil {
		done = func(error) {}
	}
	switch {
	case p.gesture.Destroyed():
		done(ErrDestroyed)
		return
	case p.host == nil:
		done(ErrNoHost)
		return
	}
	tok := p.requests.Register(func(_ struct{}, err error) { done(err) })
	send(p.host, tok)
}

// CompleteRequest resolves an outstanding focus or blur request. It reports
// false for unknown or already completed tokens.
func (p *Pressable) CompleteRequest(tok RequestToken, err error) bool {
	return p.requests.Resolve(tok, struct{}{}, err)
}

// PendingRequests returns the number of unresolved host requests.
func (p *Pressable) PendingRequests() int {
	return p.requests.Len()
}

// Invoke runs an imperative method by name: "focus", "blur" or "measure".
func (p *Pressable) Invoke(method string, done func(InvokeResult, error)) {
	if done == nil {
		done = func(InvokeResult, error) {}
	}
	switch method {
	case "focus":
		p.Focus(func(err error) { done(InvokeResult{}, err) })
	case "blur":
		p.Blur(func(err error) { done(InvokeResult{}, err) })
	case "measure":
		if p.gesture.Destroyed() {
			done(InvokeResult{}, ErrDestroyed)
			return
		}
		done(InvokeResult{Rect: p.Measure()}, nil)
	default:
		done(InvokeResult{}, ErrUnknownMethod)
	}
}

// Destroy tears the widget down: any press session ends (with pressOut if it
// was pressed), timers are cancelled, outstanding requests fail with
// ErrDestroyed and queued injections are discarded.
func (p *Pressable) Destroy() {
	p.gesture.Destroy()
	p.requests.CancelAll(ErrDestroyed)
	p.injectQueue = nil
}

// --- Dispatch ---

func (p *Pressable) dispatch(e Event) {
	p.handlers.Emit(e)
	for _, s := range p.sinks {
		s.Emit(e)
	}
	if p.store != nil {
		p.store.EmitEvent(InteractionEvent{Event: e, EntityID: p.EntityID, Name: p.Name})
	}
}

func (p *Pressable) playSound() {
	if p.host == nil {
		return
	}
	p.host.PlaySoundEffect()
}
