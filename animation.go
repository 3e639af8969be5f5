package pressable

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Default highlight parameters.
const (
	DefaultRestOpacity    = 1.0
	DefaultPressedOpacity = 0.6
	DefaultHighlightTween = 0.12 // seconds
)

// PressHighlight animates a pressed-state opacity for a Pressable. Attach it,
// call Update(dt) each frame and draw with Value. A pressIn tweens toward
// PressedOpacity, a pressOut back toward RestOpacity, each starting from the
// current value so an interrupted tween reverses smoothly.
//
// There is no global animation manager; users call Update themselves.
type PressHighlight struct {
	RestOpacity    float64
	PressedOpacity float64
	Duration       float32
	Ease           ease.TweenFunc

	value   float64
	tween   *gween.Tween
	pressIn CallbackHandle
	release CallbackHandle
}

// NewPressHighlight creates a highlight at rest with default parameters.
func NewPressHighlight() *PressHighlight {
	return &PressHighlight{
		RestOpacity:    DefaultRestOpacity,
		PressedOpacity: DefaultPressedOpacity,
		Duration:       DefaultHighlightTween,
		Ease:           ease.OutQuad,
		value:          DefaultRestOpacity,
	}
}

// Attach subscribes the highlight to p's pressIn and pressOut events.
func (h *PressHighlight) Attach(p *Pressable) {
	h.Detach()
	h.pressIn = p.OnPressIn(func(Event) { h.tweenTo(h.PressedOpacity) })
	h.release = p.OnPressOut(func(Event) { h.tweenTo(h.RestOpacity) })
}

// Detach removes the highlight's callbacks.
func (h *PressHighlight) Detach() {
	h.pressIn.Remove()
	h.release.Remove()
	h.pressIn = CallbackHandle{}
	h.release = CallbackHandle{}
}

func (h *PressHighlight) tweenTo(target float64) {
	fn := h.Ease
	if fn == nil {
		fn = ease.Linear
	}
	h.tween = gween.New(float32(h.value), float32(target), h.Duration, fn)
}

// Update advances the tween by dt seconds.
func (h *PressHighlight) Update(dt float32) {
	if h.tween == nil {
		return
	}
	val, finished := h.tween.Update(dt)
	h.value = float64(val)
	if finished {
		h.tween = nil
	}
}

// Value returns the current opacity.
func (h *PressHighlight) Value() float64 {
	return h.value
}

// Animating reports whether a tween is in progress.
func (h *PressHighlight) Animating() bool {
	return h.tween != nil
}
