package pressable

import (
	"math/rand"
	"testing"
	"time"
)

const ms = time.Millisecond

type gestureFixture struct {
	q   *TimerQueue
	log *EventLog
	g   *Gesture
}

func newGestureFixture(w, h float64) gestureFixture {
	q := NewTimerQueue()
	log := &EventLog{}
	g := NewGesture(q, log)
	g.SetLayout(Rect{Width: w, Height: h})
	return gestureFixture{q: q, log: log, g: g}
}

func (f gestureFixture) down(x, y float64) bool {
	return f.g.HandlePointer(PointerDown, At(x, y, f.q.Now()))
}

func (f gestureFixture) move(x, y float64) bool {
	return f.g.HandlePointer(PointerMove, At(x, y, f.q.Now()))
}

func (f gestureFixture) up(x, y float64) bool {
	return f.g.HandlePointer(PointerUp, At(x, y, f.q.Now()))
}

func (f gestureFixture) cancel() bool {
	return f.g.HandlePointer(PointerCancel, PointerSample{Time: f.q.Now(), NoPosition: true})
}

func assertEventTypes(t *testing.T, got []EventType, want ...EventType) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
}

func TestBasicTap(t *testing.T) {
	f := newGestureFixture(100, 50)

	if !f.down(10, 10) {
		t.Error("down inside bounds should be handled")
	}
	if f.g.Phase() != PhasePressed {
		t.Errorf("phase = %v, want PhasePressed", f.g.Phase())
	}
	if !f.up(10, 10) {
		t.Error("up should be handled")
	}

	assertEventTypes(t, f.log.Types(), EventPressIn, EventPressOut, EventPress)
	if f.log.Count(EventLongPress) != 0 {
		t.Error("unexpected longPress")
	}
	if f.g.Phase() != PhaseIdle {
		t.Errorf("phase = %v, want PhaseIdle", f.g.Phase())
	}
	if f.q.Pending() != 0 {
		t.Errorf("pending timers = %d, want 0", f.q.Pending())
	}

	in, out := f.log.Events[0], f.log.Events[1]
	if !in.Pressed || out.Pressed {
		t.Errorf("pressed flags: pressIn=%v pressOut=%v", in.Pressed, out.Pressed)
	}
}

func TestDragOutCancelsPress(t *testing.T) {
	f := newGestureFixture(100, 50)

	f.down(10, 10)
	if f.move(150, 10) {
		t.Error("move leaving the retention region should not be handled")
	}
	assertEventTypes(t, f.log.Types(), EventPressIn, EventPressMove, EventPressOut)

	f.up(150, 10)
	if len(f.log.Events) != 3 {
		t.Errorf("up after drag-out emitted %v", f.log.Types()[3:])
	}
	if f.q.Pending() != 0 {
		t.Errorf("long-press timer still armed")
	}
}

func TestLongPressFiresOnce(t *testing.T) {
	f := newGestureFixture(100, 50)
	f.g.SetConfig(ConfigUpdate{LongPressDelay: Ptr(500 * ms)})

	f.down(10, 10)
	f.q.Advance(2000 * ms)
	f.up(10, 10)

	assertEventTypes(t, f.log.Types(), EventPressIn, EventLongPress, EventPressOut, EventPress)
	wantTimes := []time.Duration{0, 500 * ms, 2000 * ms, 2000 * ms}
	for i, e := range f.log.Events {
		if e.Timestamp != wantTimes[i] {
			t.Errorf("%v at %v, want %v", e.Type, e.Timestamp, wantTimes[i])
		}
	}
	if !f.log.Events[1].Pressed {
		t.Error("longPress should report pressed")
	}
}

func TestLongPressRearmsPerSession(t *testing.T) {
	f := newGestureFixture(100, 50)

	for i := 0; i < 3; i++ {
		f.down(10, 10)
		f.q.Advance(600 * ms)
		f.up(10, 10)
	}
	if n := f.log.Count(EventLongPress); n != 3 {
		t.Errorf("longPress count = %d, want 3", n)
	}
}

func TestReleaseBeforeLongPress(t *testing.T) {
	f := newGestureFixture(100, 50)

	f.down(10, 10)
	f.q.Advance(499 * ms)
	f.up(10, 10)
	f.q.Advance(time.Second)

	if f.log.Count(EventLongPress) != 0 {
		t.Error("longPress fired after release")
	}
}

func TestDisableWhilePressed(t *testing.T) {
	f := newGestureFixture(100, 50)

	f.down(10, 10)
	f.g.SetConfig(ConfigUpdate{Disabled: Ptr(true)})
	assertEventTypes(t, f.log.Types(), EventPressIn, EventPressOut)
	if f.g.Phase() != PhaseIdle {
		t.Errorf("phase = %v, want PhaseIdle", f.g.Phase())
	}

	if !f.down(10, 10) {
		t.Error("down on a disabled widget is consumed")
	}
	f.up(10, 10)
	f.q.Advance(time.Second)
	if len(f.log.Events) != 2 {
		t.Fatalf("disabled widget emitted %v", f.log.Types()[2:])
	}

	f.g.SetConfig(ConfigUpdate{Disabled: Ptr(false)})
	f.down(10, 10)
	f.up(10, 10)
	assertEventTypes(t, f.log.Types()[2:], EventPressIn, EventPressOut, EventPress)
}

func TestDisableWhilePending(t *testing.T) {
	f := newGestureFixture(100, 50)
	f.g.SetConfig(ConfigUpdate{PressInDelay: Ptr(100 * ms)})

	f.down(10, 10)
	f.g.SetConfig(ConfigUpdate{Disabled: Ptr(true)})
	f.q.Advance(time.Second)

	if len(f.log.Events) != 0 {
		t.Errorf("events = %v, want none", f.log.Types())
	}
	if f.q.Pending() != 0 {
		t.Errorf("pending timers = %d, want 0", f.q.Pending())
	}
}

func TestHitSlopAdmitsOutsideBounds(t *testing.T) {
	f := newGestureFixture(100, 50)
	f.g.SetConfig(ConfigUpdate{HitSlop: Ptr(UniformInsets(10))})

	if !f.down(-5, 10) {
		t.Fatal("down inside hit slop should be handled")
	}
	f.up(-5, 10)
	assertEventTypes(t, f.log.Types(), EventPressIn, EventPressOut)
}

func TestDownOutsideHitSlopPropagates(t *testing.T) {
	f := newGestureFixture(100, 50)
	f.g.SetConfig(ConfigUpdate{HitSlop: Ptr(Insets{Left: 10})})

	if f.down(-11, 10) {
		t.Error("down outside hit slop should propagate")
	}
	if f.down(10, -1) {
		t.Error("top slop is zero")
	}
	if len(f.log.Events) != 0 {
		t.Errorf("events = %v, want none", f.log.Types())
	}
}

func TestRetentionKeepsPress(t *testing.T) {
	f := newGestureFixture(100, 50)
	f.g.SetConfig(ConfigUpdate{PressRetention: Ptr(Insets{Left: 5, Top: 20, Right: 5, Bottom: 5})})
	if got := f.g.Config().PressRetentionOffset; got != 20 {
		t.Fatalf("retention offset = %v, want 20", got)
	}

	f.down(10, 10)
	if !f.move(115, 60) {
		t.Error("move inside retention should be handled")
	}
	f.up(115, 60)
	// Released outside the raw bounds: no press.
	assertEventTypes(t, f.log.Types(), EventPressIn, EventPressMove, EventPressOut)
}

func TestUpIsNeverGatedByGeometry(t *testing.T) {
	f := newGestureFixture(100, 50)

	f.down(10, 10)
	if !f.up(500, 500) {
		t.Error("up should be handled wherever it lands")
	}
	assertEventTypes(t, f.log.Types(), EventPressIn, EventPressOut)
}

func TestCancelWhilePressed(t *testing.T) {
	f := newGestureFixture(100, 50)
	f.g.SetLayout(Rect{X: 200, Y: 100, Width: 100, Height: 50})

	f.down(10, 10)
	f.move(20, 30)
	f.cancel()

	assertEventTypes(t, f.log.Types(), EventPressIn, EventPressMove, EventPressOut)
	out := f.log.Events[2]
	if out.LocalX != 20 || out.LocalY != 30 || out.PageX != 220 || out.PageY != 130 {
		t.Errorf("pressOut reused position wrongly: %+v", out)
	}
	f.q.Advance(time.Second)
	if f.log.Count(EventLongPress) != 0 {
		t.Error("longPress after cancel")
	}
}

func TestMovesIgnoredOutsidePress(t *testing.T) {
	f := newGestureFixture(100, 50)
	f.g.SetConfig(ConfigUpdate{PressInDelay: Ptr(50 * ms)})

	f.move(10, 10) // idle
	f.down(10, 10)
	f.move(11, 11) // pending
	f.q.Advance(50 * ms)
	f.move(12, 12) // pressed

	assertEventTypes(t, f.log.Types(), EventPressIn, EventPressMove)
}

func TestSecondDownIgnored(t *testing.T) {
	f := newGestureFixture(100, 50)

	f.down(10, 10)
	if !f.down(20, 20) {
		t.Error("second down is consumed")
	}
	f.up(10, 10)
	assertEventTypes(t, f.log.Types(), EventPressIn, EventPressOut, EventPress)
}

func TestPressInDelay(t *testing.T) {
	f := newGestureFixture(100, 50)
	f.g.SetConfig(ConfigUpdate{PressInDelay: Ptr(130 * ms), LongPressDelay: Ptr(500 * ms)})

	f.down(10, 10)
	if f.g.Phase() != PhasePressPending {
		t.Fatalf("phase = %v, want PhasePressPending", f.g.Phase())
	}
	if f.g.Pressed() {
		t.Error("pending press should not render pressed")
	}
	f.q.Advance(129 * ms)
	if len(f.log.Events) != 0 {
		t.Fatalf("pressIn too early: %v", f.log.Types())
	}
	f.q.Advance(ms)
	if f.g.Phase() != PhasePressed {
		t.Fatalf("phase = %v, want PhasePressed", f.g.Phase())
	}

	// Long press is measured from pressIn.
	f.q.Advance(time.Second)
	assertEventTypes(t, f.log.Types(), EventPressIn, EventLongPress)
	if got := f.log.Events[0].Timestamp; got != 130*ms {
		t.Errorf("pressIn at %v, want 130ms", got)
	}
	if got := f.log.Events[1].Timestamp; got != 630*ms {
		t.Errorf("longPress at %v, want 630ms", got)
	}
}

func TestEarlyReleaseCompletesTap(t *testing.T) {
	f := newGestureFixture(100, 50)
	f.g.SetConfig(ConfigUpdate{PressInDelay: Ptr(100 * ms)})

	f.down(10, 10)
	f.q.Advance(40 * ms)
	f.up(12, 12)

	assertEventTypes(t, f.log.Types(), EventPressIn, EventPressOut, EventPress)
	for _, e := range f.log.Events {
		if e.Timestamp != 40*ms {
			t.Errorf("%v at %v, want 40ms", e.Type, e.Timestamp)
		}
	}
	if f.q.Pending() != 0 {
		t.Errorf("pending timers = %d, want 0", f.q.Pending())
	}
	f.q.Advance(time.Second)
	if len(f.log.Events) != 3 {
		t.Errorf("stale timer emitted %v", f.log.Types()[3:])
	}
}

func TestEarlyReleaseSwallowed(t *testing.T) {
	f := newGestureFixture(100, 50)
	f.g.SetConfig(ConfigUpdate{PressInDelay: Ptr(100 * ms), SwallowEarlyRelease: Ptr(true)})

	f.down(10, 10)
	f.q.Advance(40 * ms)
	f.up(10, 10)
	f.q.Advance(time.Second)

	if len(f.log.Events) != 0 {
		t.Errorf("events = %v, want none", f.log.Types())
	}
	if f.g.Phase() != PhaseIdle {
		t.Errorf("phase = %v, want PhaseIdle", f.g.Phase())
	}
}

func TestCancelWhilePendingIsSilent(t *testing.T) {
	f := newGestureFixture(100, 50)
	f.g.SetConfig(ConfigUpdate{PressInDelay: Ptr(100 * ms)})

	f.down(10, 10)
	f.cancel()
	f.q.Advance(time.Second)

	if len(f.log.Events) != 0 {
		t.Errorf("events = %v, want none", f.log.Types())
	}
}

func TestHover(t *testing.T) {
	f := newGestureFixture(100, 50)

	f.g.HandleHover(HoverExit, At(0, 0, 0)) // not hovered: ignored
	f.g.HandleHover(HoverEnter, At(1, 1, 0))
	f.g.HandleHover(HoverEnter, At(2, 2, 0)) // already hovered
	if !f.g.Hovered() {
		t.Error("expected hovered")
	}
	f.g.HandleHover(HoverExit, At(3, 3, 0))

	assertEventTypes(t, f.log.Types(), EventHoverIn, EventHoverOut)
	if f.g.Hovered() {
		t.Error("expected not hovered")
	}
}

func TestHoverWhileDisabled(t *testing.T) {
	f := newGestureFixture(100, 50)

	f.g.HandleHover(HoverEnter, At(1, 1, 0))
	f.g.SetConfig(ConfigUpdate{Disabled: Ptr(true)})
	f.g.HandleHover(HoverExit, At(1, 1, 0))
	f.g.HandleHover(HoverEnter, At(1, 1, 0))

	// Exit is still reported; a new enter is not.
	assertEventTypes(t, f.log.Types(), EventHoverIn, EventHoverOut)
}

func TestHoverIndependentOfPress(t *testing.T) {
	f := newGestureFixture(100, 50)

	f.g.HandleHover(HoverEnter, At(1, 1, 0))
	f.down(10, 10)
	f.g.HandleHover(HoverExit, At(200, 10, 0))
	f.up(10, 10)

	assertEventTypes(t, f.log.Types(), EventHoverIn, EventPressIn, EventHoverOut, EventPressOut, EventPress)
}

func TestTestOnlyPressed(t *testing.T) {
	f := newGestureFixture(100, 50)
	f.g.SetConfig(ConfigUpdate{TestOnlyPressed: Ptr(true)})

	if !f.g.Pressed() {
		t.Error("override should render pressed")
	}
	f.down(10, 10)
	f.up(10, 10)
	if len(f.log.Events) != 0 {
		t.Errorf("events = %v, want none", f.log.Types())
	}

	f.g.SetConfig(ConfigUpdate{TestOnlyPressed: Ptr(false)})
	if f.g.Pressed() {
		t.Error("expected not pressed after clearing the override")
	}
}

func TestTestOnlyPressedEndsSession(t *testing.T) {
	f := newGestureFixture(100, 50)

	f.down(10, 10)
	f.g.SetConfig(ConfigUpdate{TestOnlyPressed: Ptr(true)})
	assertEventTypes(t, f.log.Types(), EventPressIn, EventPressOut)
	if f.q.Pending() != 0 {
		t.Error("long-press timer still armed")
	}
}

func TestDestroyWhilePressed(t *testing.T) {
	f := newGestureFixture(100, 50)

	f.down(10, 10)
	f.g.Destroy()
	assertEventTypes(t, f.log.Types(), EventPressIn, EventPressOut)
	if f.q.Pending() != 0 {
		t.Errorf("pending timers = %d, want 0", f.q.Pending())
	}

	if f.down(10, 10) {
		t.Error("destroyed gesture should not handle pointers")
	}
	f.g.HandleHover(HoverEnter, At(1, 1, 0))
	f.g.SetConfig(ConfigUpdate{Disabled: Ptr(true)})
	f.g.Destroy()
	f.q.Advance(time.Second)
	if len(f.log.Events) != 2 {
		t.Errorf("destroyed gesture emitted %v", f.log.Types()[2:])
	}
}

func TestDestroyWhilePending(t *testing.T) {
	f := newGestureFixture(100, 50)
	f.g.SetConfig(ConfigUpdate{PressInDelay: Ptr(100 * ms)})

	f.down(10, 10)
	f.g.Destroy()
	f.q.Advance(time.Second)

	if len(f.log.Events) != 0 {
		t.Errorf("events = %v, want none", f.log.Types())
	}
	if !f.g.Destroyed() {
		t.Error("expected destroyed")
	}
}

func TestStaleTimerAfterNewSession(t *testing.T) {
	// A scheduler that never cancels leaves stale callbacks behind; the
	// session check must keep them from acting on a later session.
	q := NewTimerQueue()
	log := &EventLog{}
	g := NewGesture(leakyScheduler{q}, log)
	g.SetLayout(Rect{Width: 100, Height: 50})

	g.HandlePointer(PointerDown, At(10, 10, 0))
	q.Advance(300 * ms)
	g.HandlePointer(PointerUp, At(10, 10, q.Now()))
	g.HandlePointer(PointerDown, At(10, 10, q.Now()))
	q.Advance(300 * ms) // first session's timer falls due here
	if n := log.Count(EventLongPress); n != 0 {
		t.Fatalf("stale long press fired %d times", n)
	}
	q.Advance(300 * ms)
	if n := log.Count(EventLongPress); n != 1 {
		t.Errorf("longPress count = %d, want 1", n)
	}
}

type leakyScheduler struct{ q *TimerQueue }

func (s leakyScheduler) ScheduleOnce(d time.Duration, fn func()) TimerHandle {
	return s.q.ScheduleOnce(d, fn)
}

func (leakyScheduler) Cancel(TimerHandle) {}

func TestSinkDisablesDuringPressIn(t *testing.T) {
	q := NewTimerQueue()
	var g *Gesture
	var got []EventType
	g = NewGesture(q, SinkFunc(func(e Event) {
		got = append(got, e.Type)
		if e.Type == EventPressIn {
			g.SetConfig(ConfigUpdate{Disabled: Ptr(true)})
		}
	}))
	g.SetLayout(Rect{Width: 100, Height: 50})

	g.HandlePointer(PointerDown, At(10, 10, 0))
	q.Advance(time.Second)

	assertEventTypes(t, got, EventPressIn, EventPressOut)
	if q.Pending() != 0 {
		t.Errorf("pending timers = %d, want 0", q.Pending())
	}
}

func TestSinkDisablesDuringPressMove(t *testing.T) {
	q := NewTimerQueue()
	var g *Gesture
	var got []EventType
	g = NewGesture(q, SinkFunc(func(e Event) {
		got = append(got, e.Type)
		if e.Type == EventPressMove {
			g.SetConfig(ConfigUpdate{Disabled: Ptr(true)})
		}
	}))
	g.SetLayout(Rect{Width: 100, Height: 50})

	g.HandlePointer(PointerDown, At(10, 10, 0))
	g.HandlePointer(PointerMove, At(150, 10, 10*time.Millisecond))

	assertEventTypes(t, got, EventPressIn, EventPressMove, EventPressOut)
	var ins, outs int
	for _, typ := range got {
		switch typ {
		case EventPressIn:
			ins++
		case EventPressOut:
			outs++
		}
	}
	if ins != outs {
		t.Errorf("pressIn = %d, pressOut = %d, want equal", ins, outs)
	}
	if g.Phase() != PhaseIdle {
		t.Errorf("Phase() = %v, want %v", g.Phase(), PhaseIdle)
	}
}

func TestSinkEndsPressDuringPressOut(t *testing.T) {
	q := NewTimerQueue()
	var g *Gesture
	var got []EventType
	g = NewGesture(q, SinkFunc(func(e Event) {
		got = append(got, e.Type)
		if e.Type == EventPressOut {
			g.HandlePointer(PointerCancel, PointerSample{Time: e.Timestamp, NoPosition: true})
		}
	}))
	g.SetLayout(Rect{Width: 100, Height: 50})

	g.HandlePointer(PointerDown, At(10, 10, 0))
	g.HandlePointer(PointerUp, At(10, 10, 20*time.Millisecond))

	assertEventTypes(t, got, EventPressIn, EventPressOut, EventPress)
}

func TestPageCoordinates(t *testing.T) {
	f := newGestureFixture(100, 50)
	f.g.SetLayout(Rect{X: 30, Y: 40, Width: 100, Height: 50})

	f.down(10, 5)
	// Layout moves between events; the latest one applies.
	f.g.SetLayout(Rect{X: 0, Y: 0, Width: 100, Height: 50})
	f.up(10, 5)

	if e := f.log.Events[0]; e.PageX != 40 || e.PageY != 45 {
		t.Errorf("pressIn page = (%v,%v), want (40,45)", e.PageX, e.PageY)
	}
	if e := f.log.Events[2]; e.PageX != 10 || e.PageY != 5 {
		t.Errorf("press page = (%v,%v), want (10,5)", e.PageX, e.PageY)
	}
}

func TestNilSinkDropsEvents(t *testing.T) {
	q := NewTimerQueue()
	g := NewGesture(q, nil)
	g.SetLayout(Rect{Width: 100, Height: 50})

	g.HandlePointer(PointerDown, At(10, 10, 0))
	q.Advance(time.Second)
	g.HandlePointer(PointerUp, At(10, 10, q.Now()))
	if g.Phase() != PhaseIdle {
		t.Errorf("phase = %v, want PhaseIdle", g.Phase())
	}
}

func TestPressFeedback(t *testing.T) {
	tests := []struct {
		name  string
		sound bool
		upX   float64
		want  int
	}{
		{"press with sound", true, 10, 1},
		{"press without sound", false, 10, 0},
		{"release outside", true, 150, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGestureFixture(100, 50)
			f.g.SetConfig(ConfigUpdate{SoundOnPress: Ptr(tt.sound), PressRetention: Ptr(UniformInsets(100))})
			n := 0
			f.g.OnPressFeedback = func() { n++ }

			f.down(10, 10)
			f.up(tt.upX, 10)
			if n != tt.want {
				t.Errorf("feedback calls = %d, want %d", n, tt.want)
			}
		})
	}
}

// TestSessionInvariants drives a gesture with a seeded random stream and
// checks the timer and phase invariants after every step.
func TestSessionInvariants(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		f := newGestureFixture(100, 50)
		f.g.SetConfig(ConfigUpdate{
			PressInDelay:   Ptr(time.Duration(rng.Intn(3)) * 50 * ms),
			LongPressDelay: Ptr(time.Duration(1+rng.Intn(4)) * 100 * ms),
			HitSlop:        Ptr(UniformInsets(float64(rng.Intn(20)))),
		})

		for step := 0; step < 200; step++ {
			x := rng.Float64()*160 - 30
			y := rng.Float64()*110 - 30
			switch rng.Intn(8) {
			case 0:
				f.down(x, y)
			case 1, 2:
				f.move(x, y)
			case 3:
				f.up(x, y)
			case 4:
				f.cancel()
			case 5:
				f.q.Advance(time.Duration(rng.Intn(300)) * ms)
			case 6:
				f.g.SetConfig(ConfigUpdate{Disabled: Ptr(rng.Intn(4) == 0)})
			case 7:
				f.g.HandleHover(HoverAction(rng.Intn(2)), At(x, y, f.q.Now()))
			}

			switch f.g.Phase() {
			case PhaseIdle:
				if f.q.Pending() != 0 {
					t.Fatalf("seed %d step %d: idle with %d timers", seed, step, f.q.Pending())
				}
			case PhasePressPending:
				if f.q.Pending() != 1 || f.g.longPressTimer.Valid() {
					t.Fatalf("seed %d step %d: pending phase timers wrong", seed, step)
				}
			case PhasePressed:
				if f.q.Pending() > 1 || f.g.pressInTimer.Valid() {
					t.Fatalf("seed %d step %d: pressed phase timers wrong", seed, step)
				}
			}
		}

		// Every pressIn is matched by at most one longPress and exactly
		// one pressOut, and press only follows pressOut.
		open := false
		long := false
		var prev EventType = 0xff
		for _, e := range f.log.Events {
			switch e.Type {
			case EventPressIn:
				if open {
					t.Fatalf("seed %d: nested pressIn", seed)
				}
				open, long = true, false
			case EventLongPress:
				if !open || long {
					t.Fatalf("seed %d: stray longPress", seed)
				}
				long = true
			case EventPressMove:
				if !open {
					t.Fatalf("seed %d: pressMove outside session", seed)
				}
			case EventPressOut:
				if !open {
					t.Fatalf("seed %d: pressOut without pressIn", seed)
				}
				open = false
			case EventPress:
				if prev != EventPressOut {
					t.Fatalf("seed %d: press not directly after pressOut", seed)
				}
			}
			if e.Type != EventHoverIn && e.Type != EventHoverOut {
				prev = e.Type
			}
		}
	}
}
