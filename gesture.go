package pressable

import (
	"log/slog"
	"time"
)

// Gesture turns raw pointer and hover callbacks for one widget into ordered
// semantic events. It tracks a single press session at a time.
//
// A Gesture is not safe for concurrent use. Pointer events, hover events,
// configuration updates and scheduler callbacks must all arrive on the same
// logical thread.
type Gesture struct {
	cfg    GestureConfig
	layout Rect
	sched  Scheduler
	sink   EventSink
	log    *slog.Logger

	// OnPressFeedback is called after every emitted press when
	// SoundOnPress is set.
	OnPressFeedback func()

	phase     Phase
	hovered   bool
	destroyed bool
	last      PointerSample

	// session is bumped whenever a press session ends so stale timer
	// callbacks can recognise that they no longer apply.
	session        uint64
	pressInTimer   TimerHandle
	longPressTimer TimerHandle
}

// NewGesture creates an idle gesture that reports to sink and arms timers on
// sched. A nil sink drops every event.
func NewGesture(sched Scheduler, sink EventSink) *Gesture {
	return &Gesture{
		cfg:   DefaultConfig(),
		sched: sched,
		sink:  sink,
	}
}

// SetLogger sets the logger for transition diagnostics. Nil disables them.
func (g *Gesture) SetLogger(l *slog.Logger) {
	g.log = l
}

// Phase returns the current press phase.
func (g *Gesture) Phase() Phase {
	return g.phase
}

// Hovered reports whether a hovering pointer is over the widget.
func (g *Gesture) Hovered() bool {
	return g.hovered
}

// Pressed reports whether the widget should render as pressed.
func (g *Gesture) Pressed() bool {
	return g.phase == PhasePressed || g.cfg.TestOnlyPressed
}

// Destroyed reports whether Destroy has been called.
func (g *Gesture) Destroyed() bool {
	return g.destroyed
}

// Config returns the current configuration.
func (g *Gesture) Config() GestureConfig {
	return g.cfg
}

// Layout returns the most recent layout.
func (g *Gesture) Layout() Rect {
	return g.layout
}

// SetLayout records the widget's page origin and size. Every geometry check
// uses the most recent layout.
func (g *Gesture) SetLayout(r Rect) {
	g.layout = r
}

// SetConfig merges u into the configuration in one step. If the update closes
// the input gate (disabled or test override) an active session ends: a pressed
// session emits pressOut, a pending one is dropped silently.
func (g *Gesture) SetConfig(u ConfigUpdate) {
	if g.destroyed {
		return
	}
	wasGated := g.cfg.gated()
	g.cfg = g.cfg.Apply(u)
	if !wasGated && g.cfg.gated() {
		g.debug("gate closed", "disabled", g.cfg.Disabled, "testOnlyPressed", g.cfg.TestOnlyPressed)
		g.reset(g.last)
	}
}

// HandlePointer processes one raw pointer callback. It returns false when the
// event should propagate to an ancestor: a down outside the hit slop, or a
// move that left the retention region and cancelled the press.
func (g *Gesture) HandlePointer(action PointerAction, s PointerSample) bool {
	if g.destroyed {
		return false
	}
	s = g.resolve(s)
	if g.cfg.gated() {
		return true
	}

	switch action {
	case PointerDown:
		if g.phase != PhaseIdle {
			return true
		}
		if !WithinHitSlop(s.X, s.Y, g.layout.Size(), g.cfg.HitSlop) {
			g.debug("down outside hit slop", "x", s.X, "y", s.Y)
			return false
		}
		g.last = s
		g.begin(s)

	case PointerMove:
		if g.phase != PhasePressed {
			return true
		}
		g.last = s
		g.emit(EventPressMove, s)
		if g.phase != PhasePressed {
			return true
		}
		if !WithinRetention(s.X, s.Y, g.layout.Size(), g.cfg.PressRetentionOffset) {
			g.debug("left retention region", "x", s.X, "y", s.Y)
			g.endPress(s)
			return false
		}

	case PointerUp:
		switch g.phase {
		case PhasePressPending:
			g.last = s
			g.releaseEarly(s)
		case PhasePressed:
			g.last = s
			g.release(s)
		}

	case PointerCancel:
		switch g.phase {
		case PhasePressPending:
			g.abandon()
		case PhasePressed:
			g.last = s
			g.endPress(s)
		}
	}
	return true
}

// HandleHover processes a hover enter or exit.
func (g *Gesture) HandleHover(action HoverAction, s PointerSample) {
	if g.destroyed {
		return
	}
	s = g.resolve(s)
	switch action {
	case HoverEnter:
		if g.hovered || g.cfg.Disabled {
			return
		}
		g.hovered = true
		g.emit(EventHoverIn, s)
	case HoverExit:
		if !g.hovered {
			return
		}
		g.hovered = false
		g.emit(EventHoverOut, s)
	}
}

// Destroy ends any session (emitting pressOut if pressed), cancels both timers
// and detaches the gesture. No callback runs afterwards and further calls are
// ignored.
func (g *Gesture) Destroy() {
	if g.destroyed {
		return
	}
	g.reset(g.last)
	g.sched.Cancel(g.pressInTimer)
	g.sched.Cancel(g.longPressTimer)
	g.pressInTimer = TimerHandle{}
	g.longPressTimer = TimerHandle{}
	g.session++
	g.destroyed = true
	g.sink = nil
	g.debug("destroyed")
}

// --- Transitions ---

// resolve fills a positionless sample from the last recorded one.
func (g *Gesture) resolve(s PointerSample) PointerSample {
	if s.NoPosition {
		s.X, s.Y = g.last.X, g.last.Y
		s.NoPosition = false
	}
	return s
}

// begin starts a session at s, either immediately or after the press-in
// delay.
func (g *Gesture) begin(s PointerSample) {
	if g.cfg.PressInDelay <= 0 {
		g.pressIn(s)
		return
	}
	g.phase = PhasePressPending
	session := g.session
	delay := g.cfg.PressInDelay
	g.pressInTimer = g.sched.ScheduleOnce(delay, func() {
		g.onPressInTimer(session, s.Time+delay)
	})
	g.debug("press pending", "delay", delay)
}

func (g *Gesture) onPressInTimer(session uint64, at time.Duration) {
	if g.destroyed || session != g.session || g.phase != PhasePressPending {
		return
	}
	g.pressInTimer = TimerHandle{}
	s := g.last
	s.Time = at
	g.pressIn(s)
}

// pressIn enters PhasePressed and arms the long-press timer.
func (g *Gesture) pressIn(s PointerSample) {
	g.phase = PhasePressed
	g.emit(EventPressIn, s)
	// A sink callback may have disabled or destroyed the widget.
	if g.phase != PhasePressed {
		return
	}
	session := g.session
	at := s.Time + g.cfg.LongPressDelay
	g.longPressTimer = g.sched.ScheduleOnce(g.cfg.LongPressDelay, func() {
		g.onLongPressTimer(session, at)
	})
}

func (g *Gesture) onLongPressTimer(session uint64, at time.Duration) {
	if g.destroyed || session != g.session || g.phase != PhasePressed {
		return
	}
	g.longPressTimer = TimerHandle{}
	s := g.last
	s.Time = at
	g.emit(EventLongPress, s)
}

// endPress leaves PhasePressed with a pressOut. It reports false, and does
// nothing, when a sink already ended the session.
func (g *Gesture) endPress(s PointerSample) bool {
	if g.phase != PhasePressed {
		return false
	}
	g.sched.Cancel(g.longPressTimer)
	g.longPressTimer = TimerHandle{}
	g.phase = PhaseIdle
	g.session++
	g.emit(EventPressOut, s)
	return true
}

// abandon leaves PhasePressPending without emitting anything.
func (g *Gesture) abandon() {
	g.sched.Cancel(g.pressInTimer)
	g.pressInTimer = TimerHandle{}
	g.phase = PhaseIdle
	g.session++
	g.debug("pending press abandoned")
}

// release ends a pressed session at the up point and emits press if the up
// point is inside the raw bounds.
func (g *Gesture) release(s PointerSample) {
	if !g.endPress(s) {
		return
	}
	if !WithinBounds(s.X, s.Y, g.layout.Size()) {
		return
	}
	g.emit(EventPress, s)
	if g.cfg.SoundOnPress && g.OnPressFeedback != nil {
		g.OnPressFeedback()
	}
}

// releaseEarly handles an up that arrives before the press-in delay elapsed.
func (g *Gesture) releaseEarly(s PointerSample) {
	g.abandon()
	if g.cfg.SwallowEarlyRelease {
		return
	}
	g.phase = PhasePressed
	g.emit(EventPressIn, s)
	if g.phase != PhasePressed {
		return
	}
	g.release(s)
}

// reset forces the session back to idle.
func (g *Gesture) reset(s PointerSample) {
	switch g.phase {
	case PhasePressed:
		g.endPress(s)
	case PhasePressPending:
		g.abandon()
	}
}

func (g *Gesture) emit(t EventType, s PointerSample) {
	e := Event{
		Type:      t,
		Pressed:   g.Pressed(),
		Timestamp: s.Time,
		LocalX:    s.X,
		LocalY:    s.Y,
		PageX:     g.layout.X + s.X,
		PageY:     g.layout.Y + s.Y,
	}
	if g.sink == nil {
		g.debug("event dropped", "type", t)
		return
	}
	g.debug("emit", "type", t, "x", s.X, "y", s.Y, "t", s.Time)
	g.sink.Emit(e)
}

func (g *Gesture) debug(msg string, args ...any) {
	if g.log == nil {
		return
	}
	g.log.Debug(msg, append([]any{"phase", g.phase}, args...)...)
}
