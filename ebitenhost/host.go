package ebitenhost

import (
	"github.com/phanxgames/pressable"
)

type focusRequest struct {
	tok   pressable.RequestToken
	focus bool
}

// Host implements pressable.Host for a single-window game. Sound plays
// immediately; focus and blur complete on the next Flush, one tick later,
// the way a platform round trip would.
type Host struct {
	Sound *ClickSound

	focused bool
	queue   []focusRequest
}

// NewHost creates a host. A nil sound silences press feedback.
func NewHost(sound *ClickSound) *Host {
	return &Host{Sound: sound}
}

// PlaySoundEffect implements pressable.Host.
func (h *Host) PlaySoundEffect() {
	if h.Sound != nil {
		h.Sound.Play()
	}
}

// RequestFocus implements pressable.Host.
func (h *Host) RequestFocus(tok pressable.RequestToken) {
	h.queue = append(h.queue, focusRequest{tok: tok, focus: true})
}

// RequestBlur implements pressable.Host.
func (h *Host) RequestBlur(tok pressable.RequestToken) {
	h.queue = append(h.queue, focusRequest{tok: tok})
}

// Focused reports whether the widget currently holds focus.
func (h *Host) Focused() bool {
	return h.focused
}

// Flush completes every queued request against p in order.
func (h *Host) Flush(p *pressable.Pressable) {
	queue := h.queue
	h.queue = nil
	for _, r := range queue {
		h.focused = r.focus
		p.CompleteRequest(r.tok, nil)
	}
}
