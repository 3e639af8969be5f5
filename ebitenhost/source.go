// Package ebitenhost runs a Pressable inside an Ebitengine game: it polls the
// mouse and touch screen each tick, plays the click sound and completes focus
// requests.
package ebitenhost

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/pressable"
)

// frame is one tick's worth of polled pointer state in screen coordinates.
type frame struct {
	x, y    float64
	down    bool
	touch   bool
	focused bool
}

// Source polls Ebitengine input and feeds a single Pressable. The mouse is
// pointer 0; the first active touch takes over while it is down.
type Source struct {
	target *pressable.Pressable

	held     bool // raw button or touch state last tick
	captured bool // the widget accepted the current down
	over     bool
	lastX    float64
	lastY    float64

	touchID  ebiten.TouchID
	touching bool
	touchX   float64 // screen position of the active touch
	touchY   float64
	touchIDs []ebiten.TouchID
}

// NewSource creates a source that drives target.
func NewSource(target *pressable.Pressable) *Source {
	return &Source{target: target}
}

// Update polls input and delivers any pointer and hover transitions, stamped
// with now.
func (s *Source) Update(now time.Duration) {
	s.apply(s.poll(), now)
}

// rawInput is the Ebitengine input state read in one poll.
type rawInput struct {
	focused   bool
	touchIDs  []ebiten.TouchID
	touchPos  func(ebiten.TouchID) (int, int)
	cursorX   int
	cursorY   int
	mouseDown bool
}

func (s *Source) poll() frame {
	if !ebiten.IsFocused() {
		return s.frameFor(rawInput{})
	}
	s.touchIDs = ebiten.AppendTouchIDs(s.touchIDs[:0])
	mx, my := ebiten.CursorPosition()
	return s.frameFor(rawInput{
		focused:   true,
		touchIDs:  s.touchIDs,
		touchPos:  ebiten.TouchPosition,
		cursorX:   mx,
		cursorY:   my,
		mouseDown: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
	})
}

// frameFor reduces raw input to a frame. A lifted touch releases at its last
// position, not at the cursor.
func (s *Source) frameFor(in rawInput) frame {
	if !in.focused {
		s.touching = false
		return frame{}
	}

	if s.touching && !containsTouch(in.touchIDs, s.touchID) {
		s.touching = false
		return frame{x: s.touchX, y: s.touchY, touch: true, focused: true}
	}
	if !s.touching && len(in.touchIDs) > 0 {
		s.touchID = in.touchIDs[0]
		s.touching = true
	}
	if s.touching {
		tx, ty := in.touchPos(s.touchID)
		s.touchX, s.touchY = float64(tx), float64(ty)
		return frame{x: s.touchX, y: s.touchY, down: true, touch: true, focused: true}
	}

	return frame{
		x:       float64(in.cursorX),
		y:       float64(in.cursorY),
		down:    in.mouseDown,
		focused: true,
	}
}

func containsTouch(ids []ebiten.TouchID, id ebiten.TouchID) bool {
	for _, t := range ids {
		if t == id {
			return true
		}
	}
	return false
}

// apply converts one polled frame into Pressable callbacks.
func (s *Source) apply(f frame, now time.Duration) {
	r := s.target.Measure()

	// Losing window focus aborts the stream without a position.
	if !f.focused {
		if s.captured {
			s.target.HandlePointer(pressable.PointerCancel, pressable.PointerSample{Time: now, NoPosition: true})
		}
		if s.over {
			s.target.HandleHover(pressable.HoverExit, pressable.At(s.lastX, s.lastY, now))
		}
		s.held, s.captured, s.over = false, false, false
		return
	}

	lx, ly := r.Local(f.x, f.y)
	moved := lx != s.lastX || ly != s.lastY

	// Touch screens have no hover.
	if !f.touch {
		inside := pressable.WithinBounds(lx, ly, r.Size())
		switch {
		case inside && !s.over:
			s.over = true
			s.target.HandleHover(pressable.HoverEnter, pressable.At(lx, ly, now))
		case !inside && s.over:
			s.over = false
			s.target.HandleHover(pressable.HoverExit, pressable.At(lx, ly, now))
		}
	}

	switch {
	case f.down && !s.held:
		s.captured = s.target.HandlePointer(pressable.PointerDown, pressable.At(lx, ly, now))
	case f.down && s.captured && moved:
		// A move that leaves the retention region ends the press; the rest
		// of the stream belongs to someone else.
		s.captured = s.target.HandlePointer(pressable.PointerMove, pressable.At(lx, ly, now))
	case !f.down && s.held && s.captured:
		s.target.HandlePointer(pressable.PointerUp, pressable.At(lx, ly, now))
		s.captured = false
	}

	s.held = f.down
	s.lastX, s.lastY = lx, ly
}
